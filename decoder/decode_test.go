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

package decoder_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/decoder"
	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/reference"
	"github.com/6t8k/inp2json/test"
	"github.com/klauspost/compress/zlib"
)

// the reference knows puckman as a machine with two ports. bit 4 of the
// first port carries a specific name
const testArchive = `{"mame_build": "0.264 (mame0264)", "mame_config": "10"}
puckman` + "\x00" + `{":IN0": {"1": {"analog": false, "type": "IPT_COIN1", "defvalue": 0, "specific_name": null, "player": 1}, "16": {"analog": false, "type": "IPT_BUTTON1", "defvalue": 16, "specific_name": "Fire", "player": 1}}, ":IN1": {"1": {"analog": false, "type": "IPT_JOYSTICK_UP", "defvalue": 1, "specific_name": null, "player": 1}}}
`

func loadTestTable(t *testing.T) *reference.Table {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "reference.jsonl")
	test.DemandSuccess(t, os.WriteFile(fn, []byte(testArchive), 0600))

	tbl, err := reference.Load(fn)
	test.DemandSuccess(t, err)
	return tbl
}

// writeRecording assembles an INP file for puckman with the given frames,
// optionally truncating the inflated body by cut bytes before deflation
func writeRecording(t *testing.T, declaredPorts uint16, frames [][]uint32, cut int) string {
	t.Helper()

	hdr := make([]byte, 64)
	copy(hdr, "MAMEINP")
	binary.LittleEndian.PutUint64(hdr[0x08:], 996710400)
	hdr[0x10] = 3
	binary.LittleEndian.PutUint16(hdr[0x12:], declaredPorts)
	copy(hdr[0x14:], "puckman")
	copy(hdr[0x20:], "MAME 0.152")

	body := &bytes.Buffer{}
	for _, f := range frames {
		body.Write(make([]byte, 16))
		for _, d := range f {
			body.Write(make([]byte, 4))
			var w [4]byte
			binary.LittleEndian.PutUint32(w[:], d)
			body.Write(w[:])
		}
	}

	comp := &bytes.Buffer{}
	w := zlib.NewWriter(comp)
	_, err := w.Write(body.Bytes()[:body.Len()-cut])
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, w.Close())

	fn := filepath.Join(t.TempDir(), "recording.inp")
	test.DemandSuccess(t, os.WriteFile(fn, append(hdr, comp.Bytes()...), 0600))
	return fn
}

func TestDecode(t *testing.T) {
	fn := writeRecording(t, 2, [][]uint32{
		{0x01, 0x00},
		{0x00, 0x00},
		{0x10, 0x01},
		{0x00, 0x02},
	}, 0)

	doc, err := decoder.Decode(fn, loadTestTable(t), decoder.Options{})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, doc.Game, "puckman")
	test.ExpectEquality(t, doc.Version, "3.0")
	test.ExpectEquality(t, doc.AppDesc, "MAME 0.152")
	test.ExpectEquality(t, doc.PortCount, 2)
	test.ExpectEquality(t, doc.Resolved, true)
	test.ExpectEquality(t, doc.Truncated, false)

	test.DemandEquality(t, len(doc.Ports), 2)
	test.ExpectEquality(t, doc.Ports[0].Tag, ":IN0")
	test.ExpectEquality(t, doc.Ports[0].FromReference, true)
	test.DemandEquality(t, len(doc.Ports[0].Controls), 2)
	test.ExpectEquality(t, doc.Ports[0].Controls[0], decoder.Control{Bit: 0, Name: "Coin 1"})
	test.ExpectEquality(t, doc.Ports[0].Controls[1], decoder.Control{Bit: 4, Name: "Fire"})
	test.ExpectEquality(t, doc.Ports[1].Tag, ":IN1")

	test.DemandEquality(t, len(doc.Frames), 4)

	// frame 0: a coin drops
	test.ExpectEquality(t, doc.Frames[0].Index, 0)
	test.DemandEquality(t, len(doc.Frames[0].Active), 1)
	test.ExpectEquality(t, doc.Frames[0].Active[0].Port, 0)
	test.DemandEquality(t, len(doc.Frames[0].Active[0].Controls), 1)
	test.ExpectEquality(t, doc.Frames[0].Active[0].Controls[0], "Coin 1")

	// frame 1: nothing pressed, the frame still appears
	test.ExpectEquality(t, doc.Frames[1].Index, 1)
	test.ExpectEquality(t, len(doc.Frames[1].Active), 0)

	// frame 2: activity on both ports, ascending port order
	test.DemandEquality(t, len(doc.Frames[2].Active), 2)
	test.ExpectEquality(t, doc.Frames[2].Active[0].Port, 0)
	test.ExpectEquality(t, doc.Frames[2].Active[0].Controls[0], "Fire")
	test.ExpectEquality(t, doc.Frames[2].Active[1].Port, 1)
	test.ExpectEquality(t, doc.Frames[2].Active[1].Controls[0], "P1 Up")

	// frame 3: a bit the reference has no name for is still reported
	test.DemandEquality(t, len(doc.Frames[3].Active), 1)
	test.ExpectEquality(t, doc.Frames[3].Active[0].Controls[0], "bit 1")
}

func TestDecodePortSelection(t *testing.T) {
	fn := writeRecording(t, 2, [][]uint32{
		{0x01, 0x01},
	}, 0)
	tbl := loadTestTable(t)

	// only the requested port is reported
	doc, err := decoder.Decode(fn, tbl, decoder.Options{Ports: []int{1}})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(doc.Frames), 1)
	test.DemandEquality(t, len(doc.Frames[0].Active), 1)
	test.ExpectEquality(t, doc.Frames[0].Active[0].Port, 1)

	// request order and duplicates do not matter
	doc, err = decoder.Decode(fn, tbl, decoder.Options{Ports: []int{1, 0, 1}})
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(doc.Frames[0].Active), 2)
	test.ExpectEquality(t, doc.Frames[0].Active[0].Port, 0)
	test.ExpectEquality(t, doc.Frames[0].Active[1].Port, 1)

	// a port the recording does not have is an error, not a degradation
	_, err = decoder.Decode(fn, tbl, decoder.Options{Ports: []int{2}})
	test.ExpectSuccess(t, curated.Is(err, decoder.InvalidPort))
	test.ExpectEquality(t, err.Error(), "decoder: invalid port 2 (valid range 0 to 1)")

	_, err = decoder.Decode(fn, tbl, decoder.Options{Ports: []int{-1}})
	test.ExpectSuccess(t, curated.Is(err, decoder.InvalidPort))
}

func TestDecodePortCountOverride(t *testing.T) {
	// the header leaves the count to the 3.0 default of eight, but the
	// body was really written with two ports to a record
	fn := writeRecording(t, 0, [][]uint32{
		{0x01, 0x00},
		{0x00, 0x01},
	}, 0)
	tbl := loadTestTable(t)

	doc, err := decoder.Decode(fn, tbl, decoder.Options{PortCount: 2})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, doc.PortCount, 2)
	test.ExpectEquality(t, doc.Truncated, false)
	test.DemandEquality(t, len(doc.Frames), 2)

	// decoded with the header's count the records misalign and run out
	doc, err = decoder.Decode(fn, tbl, decoder.Options{})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, doc.PortCount, 8)
	test.ExpectEquality(t, doc.Truncated, true)
}

func TestDecodeReferenceMiss(t *testing.T) {
	fn := writeRecording(t, 1, [][]uint32{
		{0x05},
	}, 0)

	// an archive that does not know puckman
	afn := filepath.Join(t.TempDir(), "reference.jsonl")
	test.DemandSuccess(t, os.WriteFile(afn, []byte(`{"mame_build": "0.264", "mame_config": "10"}`+"\n"), 0600))
	tbl, err := reference.Load(afn)
	test.DemandSuccess(t, err)

	doc, err := decoder.Decode(fn, tbl, decoder.Options{})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, doc.Resolved, false)
	test.DemandEquality(t, len(doc.Ports), 1)
	test.ExpectEquality(t, doc.Ports[0].Tag, "port 0")
	test.ExpectEquality(t, doc.Ports[0].FromReference, false)
	test.ExpectEquality(t, len(doc.Ports[0].Controls), 0)

	test.DemandEquality(t, len(doc.Frames), 1)
	test.DemandEquality(t, len(doc.Frames[0].Active), 1)
	test.DemandEquality(t, len(doc.Frames[0].Active[0].Controls), 2)
	test.ExpectEquality(t, doc.Frames[0].Active[0].Controls[0], "bit 0")
	test.ExpectEquality(t, doc.Frames[0].Active[0].Controls[1], "bit 2")
}

func TestDecodeTruncated(t *testing.T) {
	// the body ends four bytes into the third record
	fn := writeRecording(t, 2, [][]uint32{
		{0x01, 0x00},
		{0x10, 0x00},
		{0x01, 0x01},
	}, 28)

	doc, err := decoder.Decode(fn, loadTestTable(t), decoder.Options{})
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, doc.Truncated, true)
	test.DemandEquality(t, len(doc.Frames), 2)
	test.ExpectEquality(t, doc.Frames[1].Active[0].Controls[0], "Fire")
}

func TestDecodeRejectsForeignFiles(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "recording.inp")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("certainly not a recording"), 0600))

	_, err := decoder.Decode(fn, loadTestTable(t), decoder.Options{})
	test.ExpectSuccess(t, curated.Is(err, inp.NotAnINPFile))
}

func TestListPorts(t *testing.T) {
	// ListPorts never reads frames, so a thoroughly broken body changes
	// nothing
	fn := writeRecording(t, 2, [][]uint32{{0x01, 0x02}}, 20)

	pl, err := decoder.ListPorts(fn, loadTestTable(t))
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, pl.Game, "puckman")
	test.ExpectEquality(t, pl.PortCount, 2)
	test.ExpectEquality(t, pl.Resolved, true)
	test.DemandEquality(t, len(pl.Ports), 2)
	test.ExpectEquality(t, pl.Ports[0].Tag, ":IN0")
	test.ExpectEquality(t, pl.Ports[1].Tag, ":IN1")
	test.DemandEquality(t, len(pl.Ports[1].Controls), 1)
	test.ExpectEquality(t, pl.Ports[1].Controls[0].Name, "P1 Up")

	b := &bytes.Buffer{}
	test.ExpectSuccess(t, pl.WriteJSON(b, false))
	test.ExpectEquality(t, b.String(),
		`{"game":"puckman","version":"3.0","app_desc":"MAME 0.152",`+
			`"basetime":"2001-08-02T00:00:00Z","port_count":2,"resolved":true,`+
			`"ports":[{"index":0,"tag":":IN0","from_reference":true,`+
			`"controls":[{"bit":0,"name":"Coin 1"},{"bit":4,"name":"Fire"}]},`+
			`{"index":1,"tag":":IN1","from_reference":true,`+
			`"controls":[{"bit":0,"name":"P1 Up"}]}]}`+"\n")
}

func TestWriteJSON(t *testing.T) {
	fn := writeRecording(t, 1, [][]uint32{{0x01}}, 0)

	// no reference at all decodes with numeric names throughout
	doc, err := decoder.Decode(fn, nil, decoder.Options{})
	test.DemandSuccess(t, err)

	b := &bytes.Buffer{}
	test.ExpectSuccess(t, doc.WriteJSON(b, false))
	test.ExpectEquality(t, b.String(),
		`{"game":"puckman","version":"3.0","app_desc":"MAME 0.152",`+
			`"basetime":"2001-08-02T00:00:00Z","port_count":1,"resolved":false,"truncated":false,`+
			`"ports":[{"index":0,"tag":"port 0","from_reference":false,"controls":[]}],`+
			`"frames":[{"f":0,"p":[{"n":0,"a":["bit 0"]}]}]}`+"\n")

	// identical input produces identical bytes
	doc2, err := decoder.Decode(fn, nil, decoder.Options{})
	test.DemandSuccess(t, err)
	b2 := &bytes.Buffer{}
	test.ExpectSuccess(t, doc2.WriteJSON(b2, false))
	test.ExpectEquality(t, b.String(), b2.String())

	// the indented form carries the same document
	bi := &bytes.Buffer{}
	test.ExpectSuccess(t, doc.WriteJSON(bi, true))
	test.ExpectSuccess(t, strings.HasPrefix(bi.String(), "{\n  \"game\": \"puckman\","))
}
