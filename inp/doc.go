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

// Package inp reads MAME INP input recordings.
//
// An INP file is a 64 byte header followed by a single zlib stream. The
// header names the recorded machine and the format version; the inflated
// body is a flat sequence of frame records, each carrying a timing triplet
// and a pair of words (default value and digital state) for every input
// port.
//
// Format versions 3.0 and 3.5 are accepted. The two differ only in the
// number of ports a record carries when the header does not declare a
// count: 8 for 3.0 and 6 for 3.5. Neither version embeds a frame counter,
// frames are numbered by their position in the stream, starting at zero.
//
// Use a Loader to open a recording:
//
//	ld, _ := inp.NewLoader("galaga.inp")
//	rec, err := ld.Open()
//	if err != nil {
//		// header level problems are fatal
//	}
//	defer rec.Close()
//
//	fr := rec.Frames(0)
//	for {
//		rec, err := fr.Next()
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if curated.Is(err, inp.TruncatedRecord) {
//			// every record returned so far is still valid
//			break
//		}
//		...
//	}
//
// Truncation is not failure. A recording cut mid-record, a common result
// of the recording emulator being killed, yields every complete frame and
// a TruncatedRecord error in place of the cut one.
//
// The body is inflated lazily as frames are read. Memory use is constant
// in the length of the recording and the file is traversed exactly once.
package inp
