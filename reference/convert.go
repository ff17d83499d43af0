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

package reference

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/logger"
	"github.com/6t8k/inp2json/ports"
)

// ConvertError is the sentinel error for a failed archive generation.
const ConvertError = "reference: convert: %v"

// ConvertStats summarises an archive generation.
type ConvertStats struct {
	// machines and ports written to the archive
	Machines int
	Ports    int

	// fields written and fields dropped for unusable attribute values
	Fields  int
	Skipped int
}

func (s ConvertStats) String() string {
	return fmt.Sprintf("%d machines, %d ports, %d fields (%d fields skipped)",
		s.Machines, s.Ports, s.Fields, s.Skipped)
}

// convMachine accumulates one machine while its XML element is open.
type convMachine struct {
	name   string
	tags   []string
	fields map[string]map[uint32]fieldJSON
}

// Convert reads MAME info XML, as produced by "mame -listxml", and writes
// a reference archive. The document is streamed: each machine is written
// as soon as its element closes and memory use is proportional to the
// largest machine, not to the document.
//
// Machines without a name and machines marked runnable="no" (constituent
// devices rather than game drivers) are skipped. Fields with missing or
// unusable attribute values are skipped individually. Both are logged and
// neither fails the conversion.
func Convert(r io.Reader, w io.Writer) (ConvertStats, error) {
	var stats ConvertStats

	out := bufio.NewWriter(w)

	var build, config string
	var metaDone bool

	// the metadata line leads the archive whatever else it contains
	meta := func() error {
		if metaDone {
			return nil
		}
		metaDone = true

		b, err := json.Marshal(struct {
			Build  string `json:"mame_build"`
			Config string `json:"mame_config"`
		}{build, config})
		if err != nil {
			return err
		}
		b = append(b, '\n')
		_, err = out.Write(b)
		return err
	}

	var cur *convMachine
	var curTag string
	seen := make(map[string]bool)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, curated.Errorf(ConvertError, err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "mame":
				build = attr(tok, "build")
				config = attr(tok, "mameconfig")

			case "machine":
				name := attr(tok, "name")
				switch {
				case name == "":
					logger.Log(logger.Allow, "reference", "machine with no name, skipping")
				case attr(tok, "runnable") == "no":
					logger.Logf(logger.Allow, "reference", "machine %s is not runnable, skipping", name)
				default:
					if seen[name] {
						logger.Logf(logger.Allow, "reference", "machine %s appears more than once", name)
					}
					seen[name] = true
					cur = &convMachine{
						name:   name,
						fields: make(map[string]map[uint32]fieldJSON),
					}
				}
				curTag = ""

			case "port":
				if cur == nil {
					break
				}
				tag := attr(tok, "tag")
				if tag == "" {
					logger.Logf(logger.Allow, "reference", "machine %s: port with no tag, skipping", cur.name)
					curTag = ""
					break
				}
				if _, ok := cur.fields[tag]; ok {
					logger.Logf(logger.Allow, "reference", "machine %s port %s appears more than once, later entry wins", cur.name, tag)
					cur.fields[tag] = make(map[uint32]fieldJSON)
				} else {
					cur.tags = append(cur.tags, tag)
					cur.fields[tag] = make(map[uint32]fieldJSON)
				}
				curTag = tag

			case "nonanalog", "analog":
				if cur == nil || curTag == "" {
					break
				}
				f, mask, ok := convertField(tok, cur.name, curTag)
				if !ok {
					stats.Skipped++
					break
				}
				if _, dup := cur.fields[curTag][mask]; dup {
					logger.Logf(logger.Allow, "reference", "machine %s port %s mask %d appears more than once, later entry wins", cur.name, curTag, mask)
				}
				cur.fields[curTag][mask] = f
			}

		case xml.EndElement:
			switch tok.Name.Local {
			case "machine":
				if cur == nil {
					break
				}
				if err := meta(); err != nil {
					return stats, curated.Errorf(ConvertError, err)
				}
				if err := writeMachine(out, cur); err != nil {
					return stats, curated.Errorf(ConvertError, err)
				}
				stats.Machines++
				stats.Ports += len(cur.tags)
				for _, t := range cur.tags {
					stats.Fields += len(cur.fields[t])
				}
				cur = nil
				curTag = ""
			case "port":
				curTag = ""
			}
		}
	}

	if err := meta(); err != nil {
		return stats, curated.Errorf(ConvertError, err)
	}
	if err := out.Flush(); err != nil {
		return stats, curated.Errorf(ConvertError, err)
	}

	logger.Logf(logger.Allow, "reference", "generated archive for MAME %s: %v", build, stats)

	return stats, nil
}

// convertField interprets one nonanalog/analog element. A false return
// means the field is unusable and has been logged.
func convertField(el xml.StartElement, machine string, tag string) (fieldJSON, uint32, bool) {
	mask, err := strconv.ParseUint(attr(el, "mask"), 10, 32)
	if err != nil || mask == 0 {
		logger.Logf(logger.Allow, "reference", "machine %s port %s: no usable input field mask, skipping", machine, tag)
		return fieldJSON{}, 0, false
	}

	typ, typErr := strconv.Atoi(attr(el, "type"))
	defvalue, defErr := strconv.ParseUint(attr(el, "defvalue"), 10, 32)
	player, playerErr := strconv.Atoi(attr(el, "player"))
	if typErr != nil || defErr != nil || playerErr != nil {
		logger.Logf(logger.Allow, "reference", "machine %s port %s mask %d: missing or abnormal attribute values, skipping", machine, tag, mask)
		return fieldJSON{}, 0, false
	}

	typeName := ports.TypeName(typ)
	if typeName == "" {
		logger.Logf(logger.Allow, "reference", "machine %s port %s mask %d: unknown ioport type %d, skipping", machine, tag, mask, typ)
		return fieldJSON{}, 0, false
	}

	f := fieldJSON{
		Analog:   el.Name.Local == "analog",
		Type:     typeName,
		DefValue: int64(defvalue),
		Player:   player,
	}

	// absent and present-but-empty names are distinct in the archive, as
	// MAME distinguishes them too
	if name, ok := attrOK(el, "specific_name"); ok {
		f.Name = &name
	}

	return f, uint32(mask), true
}

// writeMachine renders one machine line. Port tags appear in document
// order, the fields of a port in ascending mask order.
func writeMachine(w io.Writer, m *convMachine) error {
	var buf bytes.Buffer
	buf.WriteString(m.name)
	buf.WriteByte(0)
	buf.WriteByte('{')

	for i, tag := range m.tags {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(tag)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteString(":{")

		masks := make([]uint32, 0, len(m.fields[tag]))
		for mask := range m.fields[tag] {
			masks = append(masks, mask)
		}
		sort.Slice(masks, func(a, b int) bool { return masks[a] < masks[b] })

		for j, mask := range masks {
			if j > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "%q:", strconv.FormatUint(uint64(mask), 10))
			v, err := json.Marshal(m.fields[tag][mask])
			if err != nil {
				return err
			}
			buf.Write(v)
		}

		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

// attr returns the value of the named attribute, or the empty string when
// the attribute is absent.
func attr(el xml.StartElement, name string) string {
	v, _ := attrOK(el, name)
	return v
}

func attrOK(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
