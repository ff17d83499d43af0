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

package regression

import (
	"crypto/sha1"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/database"
	"github.com/6t8k/inp2json/decoder"
	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/reference"
)

const decodeEntryID = "decode"

const (
	decodeFieldRecording int = iota
	decodeFieldRecordingHash
	decodeFieldReference
	decodeFieldPorts
	decodeFieldCount
	decodeFieldDigest
	numDecodeFields
)

// DecodeRegression decodes a recording and compares the digest of the
// resulting document against the digest stored when the entry was added.
//
// The recording file itself is hashed alongside the document digest. a
// changed recording is reported as an error rather than a failure, the
// test result would be meaningless.
type DecodeRegression struct {
	Recording string
	Reference string
	Ports     []int
	Count     int

	recordingHash string
	digest        string
}

func deserialiseDecodeEntry(fields database.SerialisedEntry) (database.Entry, error) {
	reg := &DecodeRegression{}

	// basic sanity check
	if len(fields) > numDecodeFields {
		return nil, curated.Errorf("decode: too many fields")
	}
	if len(fields) < numDecodeFields {
		return nil, curated.Errorf("decode: too few fields")
	}

	// string fields need no conversion
	reg.Recording = fields[decodeFieldRecording]
	reg.recordingHash = fields[decodeFieldRecordingHash]
	reg.Reference = fields[decodeFieldReference]
	reg.digest = fields[decodeFieldDigest]

	// convert port selection
	if fields[decodeFieldPorts] != "" {
		for _, p := range strings.Split(fields[decodeFieldPorts], ";") {
			v, err := strconv.Atoi(p)
			if err != nil {
				return nil, curated.Errorf("decode: invalid ports field [%s]", fields[decodeFieldPorts])
			}
			reg.Ports = append(reg.Ports, v)
		}
	}

	// convert port count override
	var err error
	reg.Count, err = strconv.Atoi(fields[decodeFieldCount])
	if err != nil {
		return nil, curated.Errorf("decode: invalid count field [%s]", fields[decodeFieldCount])
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg DecodeRegression) ID() string {
	return decodeEntryID
}

// String implements the database.Entry interface.
func (reg DecodeRegression) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("[%s] %s", reg.ID(), filepath.Base(reg.Recording)))
	if reg.Reference != "" {
		s.WriteString(fmt.Sprintf(" ref=%s", filepath.Base(reg.Reference)))
	}
	if o := reg.options(); o != "" {
		s.WriteString(" ")
		s.WriteString(o)
	}
	return s.String()
}

// options summarises the non-default decode options in a compact form.
func (reg DecodeRegression) options() string {
	o := make([]string, 0, 2)
	if len(reg.Ports) > 0 {
		o = append(o, fmt.Sprintf("ports=%s", portsField(reg.Ports)))
	}
	if reg.Count > 0 {
		o = append(o, fmt.Sprintf("count=%d", reg.Count))
	}
	return strings.Join(o, " ")
}

// Serialise implements the database.Entry interface.
func (reg *DecodeRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
			reg.Recording,
			reg.recordingHash,
			reg.Reference,
			portsField(reg.Ports),
			strconv.Itoa(reg.Count),
			reg.digest,
		},
		nil
}

// CleanUp implements the database.Entry interface.
func (reg DecodeRegression) CleanUp() error {
	return nil
}

// regress implements the Regressor interface.
func (reg *DecodeRegression) regress(newRegression bool, output io.Writer, msg string) (bool, error) {
	output.Write([]byte(msg))

	hash, err := inp.NewLoader(reg.Recording).Hash()
	if err != nil {
		return false, curated.Errorf("decode: %v", err)
	}

	// a reference archive is optional. without one every port resolves
	// to its numeric fallback, which digests just as well
	var tbl *reference.Table
	if reg.Reference != "" {
		tbl, err = reference.Load(reg.Reference)
		if err != nil {
			return false, curated.Errorf("decode: %v", err)
		}
	}

	doc, err := decoder.Decode(reg.Recording, tbl, decoder.Options{
		Ports:     reg.Ports,
		PortCount: reg.Count,
	})
	if err != nil {
		return false, curated.Errorf("decode: %v", err)
	}

	h := sha1.New()
	if err := doc.WriteJSON(h, false); err != nil {
		return false, curated.Errorf("decode: %v", err)
	}
	digest := fmt.Sprintf("%x", h.Sum(nil))

	if newRegression {
		reg.recordingHash = hash
		reg.digest = digest
		return true, nil
	}

	if hash != reg.recordingHash {
		return false, curated.Errorf("decode: recording file has changed since the entry was added")
	}

	return digest == reg.digest, nil
}

func portsField(ports []int) string {
	s := make([]string, 0, len(ports))
	for _, p := range ports {
		s = append(s, strconv.Itoa(p))
	}
	return strings.Join(s, ";")
}

func shortDigest(digest string) string {
	if len(digest) > 8 {
		return digest[:8]
	}
	return digest
}
