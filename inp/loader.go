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
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/logger"
	"github.com/klauspost/compress/zlib"
)

// Loader abstracts the process of opening a recording file. It exists
// mainly so that the intent of opening a recording can be expressed,
// logged and validated before any file is touched.
type Loader struct {
	// the filename of the recording. optionally including any path
	Filename string

	// filename excluding path and extension
	ShortName string
}

// NewLoader is the preferred method of initialisation for the Loader
// type.
func NewLoader(filename string) Loader {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)

	if !strings.EqualFold(ext, ".inp") {
		logger.Logf(logger.Allow, "inp", "unusual file extension for a recording: %s", base)
	}

	return Loader{
		Filename:  filename,
		ShortName: strings.TrimSuffix(base, ext),
	}
}

// Open the recording. The header is read and validated immediately; the
// recorded frames are inflated on demand through Recording.Frames().
//
// The returned Recording must be closed once it is no longer required.
func (ld Loader) Open() (*Recording, error) {
	f, err := os.Open(ld.Filename)
	if err != nil {
		return nil, curated.Errorf("inp: %v", err)
	}

	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		f.Close()
		return nil, curated.Errorf(NotAnINPFile, err)
	}

	rec := &Recording{loader: ld, file: f, rawHeader: hdr}
	rec.Header, err = parseHeader(hdr)
	if err != nil {
		f.Close()
		return nil, err
	}

	// a body that cannot be inflated at all is the most extreme form of
	// truncation. the error is deferred until the first frame is asked
	// for, meaning the header information is available whatever the state
	// of the body
	rec.body, err = zlib.NewReader(f)
	if err != nil {
		rec.body = io.NopCloser(errorReader{err: err})
	}

	return rec, nil
}

// Hash returns the SHA1 digest of the entire recording file, header
// included. It reads the file independently of any open Recording.
func (ld Loader) Hash() (string, error) {
	f, err := os.Open(ld.Filename)
	if err != nil {
		return "", curated.Errorf("inp: %v", err)
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", curated.Errorf("inp: %v", err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Recording is an open INP file. The Header is valid from the moment the
// Recording is created.
type Recording struct {
	Header Header

	loader    Loader
	file      *os.File
	rawHeader []byte
	body      io.ReadCloser
}

// Frames returns an iterator over the frame records of the recording.
// Iteration begins at the current position of the body stream, so Frames
// is usefully called once per Recording.
//
// A portCount of zero means the port count declared by the header.
func (rec *Recording) Frames(portCount int) *FrameReader {
	if portCount <= 0 {
		portCount = rec.Header.PortCount
	}
	return NewFrameReader(rec.body, portCount)
}

// WriteDecompressed writes the recording to w with the body inflated: the
// header as it appears in the file followed by the raw frame records.
// Like Frames, it consumes the body stream, so a Recording is good for
// one or the other but not both.
func (rec *Recording) WriteDecompressed(w io.Writer) error {
	if _, err := w.Write(rec.rawHeader); err != nil {
		return curated.Errorf("inp: %v", err)
	}
	if _, err := io.Copy(w, rec.body); err != nil {
		return curated.Errorf("inp: %v", err)
	}
	return nil
}

// Close the recording and the underlying file. The error from the body
// stream is deliberately ignored; a recording is read to the end or to
// the point of truncation, both of which have been reported through the
// FrameReader by the time Close is called.
func (rec *Recording) Close() error {
	rec.body.Close()
	return rec.file.Close()
}

// errorReader yields the stored error on every read. It stands in for the
// body stream when zlib initialisation has failed.
type errorReader struct {
	err error
}

func (r errorReader) Read(_ []byte) (int, error) {
	return 0, r.err
}
