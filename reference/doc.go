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

// Package reference loads and generates the port reference archive. The
// archive describes the input ports of every machine MAME knows about and
// is how digital activity in a recording gets its control names.
//
// The archive is a JSON lines file, optionally gzipped. The first line
// holds the MAME build the archive was generated from. Every other line is
// a machine name and the machine's ports, separated by a NUL byte:
//
//	{"mame_build": "0.264 (mame0264)", "mame_config": "10"}
//	puckman\x00{":IN0": {"16": {"analog": false, "type": "IPT_JOYSTICK_UP", ...
//
// Archives are generated from MAME's -listxml output with Convert, most
// conveniently through the REFERENCE sub-mode of the command line program.
// Generation is only needed when adopting updated machine metadata from a
// new MAME release; decoding uses the archive as-is.
package reference
