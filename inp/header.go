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
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/6t8k/inp2json/curated"
)

// Header layout. All integers are little-endian.
const (
	headerSize   = 64
	headerMagic  = "MAMEINP"
	offBasetime  = 0x08
	offMajorVsn  = 0x10
	offMinorVsn  = 0x11
	offPortCount = 0x12
	offSysname   = 0x14
	lenSysname   = 12
	offAppDesc   = 0x20
	lenAppDesc   = 32
)

// the only major version with this layout
const majorVersion = 3

// a recording that does not declare a port count carries the default of
// the sub-version that wrote it. 3.0 recordings come from older cores with
// eight ports to a record, 3.5 recordings from newer cores with six
const (
	defaultPorts30 = 8
	defaultPorts35 = 6
)

// a declared port count beyond this is taken as header corruption rather
// than a very enthusiastic control panel
const maxPortCount = 256

// Sentinel errors raised by header parsing.
const (
	NotAnINPFile       = "inp: not an INP file (%v)"
	UnsupportedVersion = "inp: unsupported format version (%v)"
	ImplausiblePorts   = "inp: implausible port count (%d)"
)

// Header is the fixed size header at the start of every INP file.
type Header struct {
	// moment the recording was started, seconds resolution
	Basetime time.Time

	MajorVersion int
	MinorVersion int

	// short name of the recorded machine, eg. "galaga"
	Game string

	// description of the application that wrote the recording, eg.
	// "MAME 0.152". may be empty
	AppDesc string

	// the port count declared in the header. zero when the recording
	// leaves the count to the sub-version default
	DeclaredPorts int

	// the effective port count: DeclaredPorts when non-zero, the
	// sub-version default otherwise
	PortCount int
}

// Version returns the format version as it is usually written, eg. "3.0".
func (h Header) Version() string {
	return fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)
}

// parseHeader interprets the 64 byte INP header. Corrupt or foreign input
// of any shape returns a curated error and never a partial header.
func parseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, curated.Errorf(NotAnINPFile, "too short")
	}

	if string(data[:len(headerMagic)]) != headerMagic {
		return Header{}, curated.Errorf(NotAnINPFile, "unrecognised signature")
	}

	h := Header{
		MajorVersion: int(data[offMajorVsn]),
		MinorVersion: int(data[offMinorVsn]),
	}

	if h.MajorVersion != majorVersion || (h.MinorVersion != 0 && h.MinorVersion != 5) {
		return Header{}, curated.Errorf(UnsupportedVersion, h.Version())
	}

	h.Basetime = time.Unix(int64(binary.LittleEndian.Uint64(data[offBasetime:])), 0).UTC()

	game, err := asciiField(data[offSysname : offSysname+lenSysname])
	if err != nil {
		return Header{}, curated.Errorf(NotAnINPFile, "undecodable system name")
	}
	h.Game = game

	// the application description is informational only so a recording
	// with a binary blob in the field is not rejected
	h.AppDesc, _ = asciiField(data[offAppDesc : offAppDesc+lenAppDesc])

	h.DeclaredPorts = int(binary.LittleEndian.Uint16(data[offPortCount:]))
	if h.DeclaredPorts > maxPortCount {
		return Header{}, curated.Errorf(ImplausiblePorts, h.DeclaredPorts)
	}

	switch {
	case h.DeclaredPorts > 0:
		h.PortCount = h.DeclaredPorts
	case h.MinorVersion == 5:
		h.PortCount = defaultPorts35
	default:
		h.PortCount = defaultPorts30
	}

	return h, nil
}

// asciiField decodes a NUL padded ASCII header field. Errors on bytes
// outside the ASCII range.
func asciiField(data []byte) (string, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	for _, b := range data {
		if b > 0x7f {
			return "", fmt.Errorf("byte out of ASCII range (%#02x)", b)
		}
	}
	return string(data), nil
}
