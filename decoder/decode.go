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

package decoder

import (
	"io"
	"sort"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/logger"
	"github.com/6t8k/inp2json/ports"
	"github.com/6t8k/inp2json/reference"
)

// InvalidPort is the sentinel error for a requested port index outside
// the recording's port range. It is raised before any frame is read.
const InvalidPort = "decoder: invalid port %d (valid range 0 to %d)"

// Options controls what Decode reports.
type Options struct {
	// indices of the ports to report per frame activity for. empty means
	// every port. indices are reported in ascending order whatever the
	// order here; duplicates collapse
	Ports []int

	// the port count to decode with, for recordings whose header does not
	// tell the truth about how they were written. zero honours the header
	PortCount int
}

// Decode reads a recording and builds its activity document.
//
// A nil table decodes with numeric fallback names for everything, the
// same as a machine the reference does not know.
func Decode(filename string, table *reference.Table, opts Options) (*ActivityDocument, error) {
	rec, err := inp.NewLoader(filename).Open()
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	return decode(rec, table, opts)
}

func decode(rec *inp.Recording, table *reference.Table, opts Options) (*ActivityDocument, error) {
	portCount := rec.Header.PortCount
	if opts.PortCount > 0 {
		portCount = opts.PortCount
		logger.Logf(logger.Allow, "decoder", "port count %d overrides the header's %d", portCount, rec.Header.PortCount)
	}

	selected, err := selectPorts(opts.Ports, portCount)
	if err != nil {
		return nil, err
	}

	res := resolve(rec.Header.Game, table, portCount)

	doc := &ActivityDocument{
		Game:      rec.Header.Game,
		Version:   rec.Header.Version(),
		AppDesc:   rec.Header.AppDesc,
		Basetime:  rec.Header.Basetime,
		PortCount: portCount,
		Resolved:  res.Complete,
		Ports:     summarize(res),
		Frames:    []Frame{},
	}

	fr := rec.Frames(portCount)
	for {
		r, err := fr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// all frames up to this point stand. the document records the
			// damage and the log records the detail
			doc.Truncated = true
			logger.Log(logger.Allow, "decoder", err)
			break
		}

		active := []PortActivity{}
		for _, i := range selected {
			if r.Ports[i] == 0 {
				continue
			}
			active = append(active, PortActivity{
				Port:     i,
				Controls: res.Ports[i].Active(r.Ports[i]),
			})
		}

		doc.Frames = append(doc.Frames, Frame{Index: r.Index, Active: active})
	}

	return doc, nil
}

// selectPorts validates the requested port indices against the effective
// port count and normalises them to an ascending list without duplicates.
// An empty request selects every port.
func selectPorts(requested []int, portCount int) ([]int, error) {
	if len(requested) == 0 {
		all := make([]int, portCount)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	sel := make([]int, 0, len(requested))
	seen := make(map[int]bool)
	for _, p := range requested {
		if p < 0 || p >= portCount {
			return nil, curated.Errorf(InvalidPort, p, portCount-1)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		sel = append(sel, p)
	}
	sort.Ints(sel)

	return sel, nil
}

// resolve pairs the recording's ports with the reference definitions for
// the recorded machine. A miss leaves every port on numeric fallbacks and
// is logged once.
func resolve(game string, table *reference.Table, portCount int) ports.Resolution {
	var defs []ports.Definition

	if table != nil {
		var ok bool
		defs, ok = table.Lookup(game)
		if !ok {
			logger.Logf(logger.Allow, "decoder", "no reference entry for machine %s, ports resolve to numeric fallbacks", game)
		}
	}

	return ports.Resolve(portCount, defs)
}
