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

// Package decoder turns a recording into an activity document: the per
// frame digital state of the recorded machine's input ports, named
// through the reference archive.
//
// Decode is the main entry point. ListPorts answers the narrower question
// of what ports and controls a recording involves, from the header and
// the reference alone.
//
// The decoder degrades rather than fails wherever a partial answer is
// still truthful. A machine the reference does not know decodes with
// numeric port and bit names; a truncated recording decodes up to the
// last complete frame. Both outcomes are visible in the document itself,
// in the Resolved and Truncated fields. Errors are reserved for input
// that cannot be decoded at all.
package decoder
