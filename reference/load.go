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
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/logger"
	"github.com/6t8k/inp2json/ports"
	"github.com/klauspost/compress/gzip"
)

// LoadError is the sentinel error for any failure to open, inflate or
// parse a reference archive. Decoding without a working archive would
// silently lose meaning, so a broken archive is never worked around.
const LoadError = "reference: %v"

// port reference archives can carry machines with a great many ports on a
// single line
const maxLineLength = 16 * 1024 * 1024

// fieldJSON is the wire form of one input field. Field order follows the
// archive format.
type fieldJSON struct {
	Analog   bool    `json:"analog"`
	Type     string  `json:"type"`
	DefValue int64   `json:"defvalue"`
	Name     *string `json:"specific_name"`
	Player   int     `json:"player"`
}

// Load reads a reference archive from the filesystem. Gzipped archives
// are recognised by their magic number so both plain and compressed
// archives load without ceremony.
func Load(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, curated.Errorf(LoadError, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		defer gz.Close()
		src = gz
	}

	t, err := read(src)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "reference", "%d machines (MAME %s)", t.Machines(), t.Build)

	return t, nil
}

func read(src io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		return nil, curated.Errorf(LoadError, "empty archive")
	}

	// line 1 carries the provenance of the archive. both spellings of the
	// config key have been in circulation
	var meta struct {
		Build     string `json:"mame_build"`
		Config    string `json:"mame_config"`
		ConfigAlt string `json:"mameconfig"`
	}
	if err := json.Unmarshal(scanner.Bytes(), &meta); err != nil {
		return nil, curated.Errorf(LoadError, fmt.Errorf("line 1: %v", err))
	}
	if meta.Config == "" {
		meta.Config = meta.ConfigAlt
	}

	t := &Table{
		Build:    meta.Build,
		Config:   meta.Config,
		machines: make(map[string][]ports.Definition),
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		sep := bytes.IndexByte(line, 0)
		if sep < 1 {
			return nil, curated.Errorf(LoadError, fmt.Errorf("line %d: no machine name separator", lineNo))
		}

		name := string(line[:sep])
		defs, err := parsePorts(name, line[sep+1:])
		if err != nil {
			return nil, curated.Errorf(LoadError, fmt.Errorf("line %d: %v", lineNo, err))
		}

		if _, ok := t.machines[name]; ok {
			logger.Logf(logger.Allow, "reference", "machine %s appears more than once, later entry wins", name)
		}
		t.machines[name] = defs
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(LoadError, err)
	}

	return t, nil
}

// parsePorts decodes the port object of one machine line. The order of
// the port tags in the document is the machine's port order, which a
// plain unmarshal into a map would destroy. The object is walked token by
// token instead.
func parsePorts(machine string, doc []byte) ([]ports.Definition, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("ports are not a JSON object")
	}

	var defs []ports.Definition
	byTag := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		tag := tok.(string)

		var rawFields map[string]json.RawMessage
		if err := dec.Decode(&rawFields); err != nil {
			return nil, err
		}

		def := ports.Definition{
			Tag:    tag,
			Fields: parseFields(machine, tag, rawFields),
		}

		// a duplicate tag replaces the earlier definition but keeps its
		// position in the port order
		if i, ok := byTag[tag]; ok {
			logger.Logf(logger.Allow, "reference", "machine %s port %s appears more than once, later entry wins", machine, tag)
			defs[i] = def
			continue
		}
		byTag[tag] = len(defs)
		defs = append(defs, def)
	}

	return defs, nil
}

// parseFields decodes the fields of one port. Individual fields that
// cannot be decoded are skipped with a warning; the rest of the port is
// unaffected. Fields are ordered by ascending mask, which is stable for
// identical input.
func parseFields(machine string, tag string, rawFields map[string]json.RawMessage) []ports.Field {
	masks := make([]string, 0, len(rawFields))
	for m := range rawFields {
		masks = append(masks, m)
	}
	sort.Slice(masks, func(i, j int) bool {
		a, _ := strconv.ParseUint(masks[i], 10, 64)
		b, _ := strconv.ParseUint(masks[j], 10, 64)
		return a < b
	})

	fields := make([]ports.Field, 0, len(masks))
	for _, m := range masks {
		mask, err := strconv.ParseUint(m, 10, 32)
		if err != nil || mask == 0 {
			logger.Logf(logger.Allow, "reference", "machine %s port %s: unusable field mask %q, skipping", machine, tag, m)
			continue
		}

		var fj fieldJSON
		if err := json.Unmarshal(rawFields[m], &fj); err != nil {
			logger.Logf(logger.Allow, "reference", "machine %s port %s mask %s: %v, skipping", machine, tag, m, err)
			continue
		}
		if fj.DefValue < 0 || fj.DefValue > math.MaxUint32 {
			logger.Logf(logger.Allow, "reference", "machine %s port %s mask %s: defvalue out of range, skipping", machine, tag, m)
			continue
		}

		f := ports.Field{
			Mask:     uint32(mask),
			Type:     fj.Type,
			DefValue: uint32(fj.DefValue),
			Player:   fj.Player,
			Analog:   fj.Analog,
		}
		if fj.Name != nil {
			f.Name = *fj.Name
		}
		fields = append(fields, f)
	}

	return fields
}
