// This file is part of inp2json.
//
// inp2json is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// inp2json is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with inp2json.  If not, see <https://www.gnu.org/licenses/>.

// Package ports describes the input ports of an emulated machine and how
// the bits of a recorded port word map onto logical controls.
//
// A machine exposes a number of input ports, each identified by a tag (for
// example ":IN0" or ":edge:joy:JOY1"). A port is divided into fields, each
// field occupying one or more bits of the port word. The Definition type
// captures a port as it appears in the reference data; its Labels()
// function reduces the fields to a mapping of bit position to control name.
//
// Control names are derived by the ControlName() function. A field that
// carries a specific name in the reference data keeps it. Otherwise the
// name is derived from the field's ioport type and player number, so that
// IPT_BUTTON1 for player 1 becomes "P1 Button 1" and IPT_COIN1 becomes
// "Coin 1". The full ioport type enumeration is in this package too, used
// when converting machine information XML where types appear by value
// rather than by name.
//
// The Resolve() function pairs the ports of a recording with the reference
// definitions for the recorded machine. Resolution is deliberately
// forgiving: a recording that declares more ports than the reference knows
// about, or a machine missing from the reference entirely, resolves to
// numeric fallback references rather than failing. The Resolution notes
// whether every port was backed by the reference.
package ports
