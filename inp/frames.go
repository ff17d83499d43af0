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

package inp

import (
	"encoding/binary"
	"io"

	"github.com/6t8k/inp2json/curated"
)

// Frame record layout, repeated for the length of the inflated body:
//
//	seconds      u32
//	attoseconds  u64
//	curspeed     u32
//	then for every port:
//	    defvalue u32
//	    digital  u32
//
// The timing triplet and default value words keep the stream aligned but
// carry nothing the activity document wants. Only the digital words are
// surfaced.
const (
	frameMetaSize = 16
	portWordSize  = 8
)

// TruncatedRecord is the sentinel error for a recording that ends mid
// record. It is raised at most once per recording, in place of the frame
// that could not be completed. Frames returned before it remain valid.
const TruncatedRecord = "inp: recording truncated at frame %d (%v)"

// FrameRecord is the digital state of every port for one frame.
type FrameRecord struct {
	// position of the record in the recording. the first record is frame
	// zero
	Index int

	// the digital word of each port, in port order
	Ports []uint32
}

// FrameReader is a single pass iterator over the frame records of a
// recording. Records are inflated as they are read; memory use does not
// grow with the length of the recording.
type FrameReader struct {
	src   io.Reader
	ports int
	buf   []byte
	next  int

	// the error that ended iteration. returned by all subsequent calls to
	// Next()
	end error
}

// NewFrameReader reads frame records of portCount ports from the inflated
// body stream. The Recording.Frames() function is the usual way to obtain
// a FrameReader.
func NewFrameReader(src io.Reader, portCount int) *FrameReader {
	return &FrameReader{
		src:   src,
		ports: portCount,
		buf:   make([]byte, frameMetaSize+portWordSize*portCount),
	}
}

// Next returns the next frame record. The end of the recording is
// signalled with io.EOF when it falls on a record boundary and with a
// TruncatedRecord error otherwise. Once iteration has ended, Next()
// returns the same result forever.
func (fr *FrameReader) Next() (FrameRecord, error) {
	if fr.end != nil {
		return FrameRecord{}, fr.end
	}

	_, err := io.ReadFull(fr.src, fr.buf)
	switch {
	case err == io.EOF:
		fr.end = io.EOF
		return FrameRecord{}, fr.end

	case err != nil:
		// a short record, an unexpectedly ended zlib stream and inflate
		// failure all leave the recording cut at the same place as far as
		// the caller is concerned
		fr.end = curated.Errorf(TruncatedRecord, fr.next, err)
		return FrameRecord{}, fr.end
	}

	rec := FrameRecord{
		Index: fr.next,
		Ports: make([]uint32, fr.ports),
	}
	for i := 0; i < fr.ports; i++ {
		o := frameMetaSize + portWordSize*i
		// defvalue word at o is skipped
		rec.Ports[i] = binary.LittleEndian.Uint32(fr.buf[o+4:])
	}

	fr.next++
	return rec, nil
}
