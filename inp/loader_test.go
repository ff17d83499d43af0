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

package inp_test

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/test"
	"github.com/klauspost/compress/zlib"
)

// frameBody assembles an uncompressed recording body. each entry in
// frames is the list of digital words for one frame record
func frameBody(frames [][]uint32) []byte {
	b := &bytes.Buffer{}
	for _, f := range frames {
		// seconds, attoseconds and current speed words
		b.Write(make([]byte, 16))
		for _, d := range f {
			// the default value word is skipped by the reader and can
			// stay zero
			b.Write(make([]byte, 4))
			var w [4]byte
			binary.LittleEndian.PutUint32(w[:], d)
			b.Write(w[:])
		}
	}
	return b.Bytes()
}

// writeRecording deflates body and writes a complete INP file to a
// temporary location. the returned filename is valid for the duration of
// the test
func writeRecording(t *testing.T, minor byte, ports uint16, body []byte) string {
	t.Helper()

	hdr := make([]byte, 64)
	copy(hdr, "MAMEINP")
	binary.LittleEndian.PutUint64(hdr[0x08:], 996710400)
	hdr[0x10] = 3
	hdr[0x11] = minor
	binary.LittleEndian.PutUint16(hdr[0x12:], ports)
	copy(hdr[0x14:], "puckman")
	copy(hdr[0x20:], "MAME 0.152")

	comp := &bytes.Buffer{}
	w := zlib.NewWriter(comp)
	_, err := w.Write(body)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, w.Close())

	return writeRaw(t, append(hdr, comp.Bytes()...))
}

// writeRaw writes data to a temporary file without any interpretation
func writeRaw(t *testing.T, data []byte) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "recording.inp")
	test.DemandSuccess(t, os.WriteFile(fn, data, 0600))
	return fn
}

func TestLoader(t *testing.T) {
	ld := inp.NewLoader(filepath.Join("roms", "galaga.inp"))
	test.ExpectEquality(t, ld.ShortName, "galaga")
}

func TestRecording(t *testing.T) {
	fn := writeRecording(t, 0, 2, frameBody([][]uint32{
		{0x01, 0x00},
		{0x03, 0x80000000},
		{0x00, 0x00},
	}))

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	test.ExpectEquality(t, rec.Header.Game, "puckman")
	test.ExpectEquality(t, rec.Header.AppDesc, "MAME 0.152")
	test.ExpectEquality(t, rec.Header.PortCount, 2)

	fr := rec.Frames(0)

	r, err := fr.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Index, 0)
	test.ExpectEquality(t, len(r.Ports), 2)
	test.ExpectEquality(t, r.Ports[0], uint32(0x01))
	test.ExpectEquality(t, r.Ports[1], uint32(0x00))

	r, err = fr.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Index, 1)
	test.ExpectEquality(t, r.Ports[0], uint32(0x03))
	test.ExpectEquality(t, r.Ports[1], uint32(0x80000000))

	r, err = fr.Next()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Index, 2)

	// a recording that ends on a record boundary ends cleanly
	_, err = fr.Next()
	test.ExpectEquality(t, err, io.EOF)

	// and the result of iteration is sticky
	_, err = fr.Next()
	test.ExpectEquality(t, err, io.EOF)
}

func TestEmptyRecording(t *testing.T) {
	// no frames at all is still a valid recording
	fn := writeRecording(t, 5, 0, nil)

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	test.ExpectEquality(t, rec.Header.PortCount, 6)

	_, err = rec.Frames(0).Next()
	test.ExpectEquality(t, err, io.EOF)
}

func TestTruncatedBody(t *testing.T) {
	// the deflated stream is intact but ends part way through the third
	// record
	body := frameBody([][]uint32{
		{0x01, 0x02},
		{0x03, 0x04},
		{0x05, 0x06},
	})
	fn := writeRecording(t, 0, 2, body[:len(body)-4])

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	fr := rec.Frames(0)

	r, err := fr.Next()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Index, 0)
	r, err = fr.Next()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Index, 1)

	// the third record cannot be completed
	_, err = fr.Next()
	test.ExpectSuccess(t, curated.Is(err, inp.TruncatedRecord))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "frame 2"))

	// truncation is sticky too
	_, err = fr.Next()
	test.ExpectSuccess(t, curated.Is(err, inp.TruncatedRecord))
}

func TestUndecompressableBody(t *testing.T) {
	hdr := make([]byte, 64)
	copy(hdr, "MAMEINP")
	hdr[0x10] = 3
	copy(hdr[0x14:], "puckman")

	// a body that is not a zlib stream at all. the header is still
	// served and the recording reads as truncated at the first frame
	fn := writeRaw(t, append(hdr, []byte("this is not deflated data")...))

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	test.ExpectEquality(t, rec.Header.Game, "puckman")

	_, err = rec.Frames(0).Next()
	test.ExpectSuccess(t, curated.Is(err, inp.TruncatedRecord))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "frame 0"))
}

func TestMissingBody(t *testing.T) {
	hdr := make([]byte, 64)
	copy(hdr, "MAMEINP")
	hdr[0x10] = 3
	copy(hdr[0x14:], "puckman")

	// nothing at all after the header
	fn := writeRaw(t, hdr)

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	_, err = rec.Frames(0).Next()
	test.ExpectSuccess(t, curated.Is(err, inp.TruncatedRecord))
}

func TestShortFile(t *testing.T) {
	// too short to hold a header
	fn := writeRaw(t, []byte("MAMEINP"))

	_, err := inp.NewLoader(fn).Open()
	test.ExpectSuccess(t, curated.Is(err, inp.NotAnINPFile))
}

func TestWriteDecompressed(t *testing.T) {
	body := frameBody([][]uint32{
		{0x01, 0x02},
		{0x03, 0x04},
	})
	fn := writeRecording(t, 0, 2, body)

	rec, err := inp.NewLoader(fn).Open()
	test.DemandSuccess(t, err)
	defer rec.Close()

	b := &bytes.Buffer{}
	test.ExpectSuccess(t, rec.WriteDecompressed(b))

	// the dump is the unchanged header followed by the inflated body
	test.ExpectEquality(t, b.Len(), 64+len(body))
	test.ExpectEquality(t, string(b.Bytes()[:7]), "MAMEINP")
	test.ExpectSuccess(t, bytes.Equal(b.Bytes()[64:], body))
}

func TestHash(t *testing.T) {
	fn := writeRecording(t, 0, 2, frameBody([][]uint32{{0x01, 0x02}}))

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)

	h, err := inp.NewLoader(fn).Hash()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, h, fmt.Sprintf("%x", sha1.Sum(data)))
}
