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
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/6t8k/inp2json/ports"
)

// ActivityDocument is the decoded form of a recording.
//
// The document marshals to JSON deterministically: decoding the same
// recording with the same reference and options produces identical bytes.
// No map order reaches the marshalled form.
type ActivityDocument struct {
	// the recorded machine and the recording's own description of itself
	Game     string    `json:"game"`
	Version  string    `json:"version"`
	AppDesc  string    `json:"app_desc"`
	Basetime time.Time `json:"basetime"`

	// the port count the recording was decoded with
	PortCount int `json:"port_count"`

	// false when any port fell back to numeric names
	Resolved bool `json:"resolved"`

	// true when the recording ended mid record. the frames up to that
	// point are present and valid
	Truncated bool `json:"truncated"`

	Ports  []PortSummary `json:"ports"`
	Frames []Frame       `json:"frames"`
}

// Frame is the input activity of one frame. Only ports with at least one
// active bit appear; a frame where nothing is pressed has an empty Active
// list.
type Frame struct {
	Index  int            `json:"f"`
	Active []PortActivity `json:"p"`
}

// PortActivity is the active controls of one port, in ascending bit
// order.
type PortActivity struct {
	Port     int      `json:"n"`
	Controls []string `json:"a"`
}

// PortSummary describes how one port of the recording was resolved.
type PortSummary struct {
	Index int    `json:"index"`
	Tag   string `json:"tag"`

	// false for ports the reference had nothing for
	FromReference bool `json:"from_reference"`

	// the named controls of the port, in ascending bit order. empty for
	// fallback ports
	Controls []Control `json:"controls"`
}

// Control is one named bit of a port.
type Control struct {
	Bit  int    `json:"bit"`
	Name string `json:"name"`
}

// WriteJSON marshals the document to w, with a trailing newline. The
// indent flag selects pretty printing over the single line form.
func (doc *ActivityDocument) WriteJSON(w io.Writer, indent bool) error {
	return writeJSON(w, doc, indent)
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// summarize flattens a resolution into port summaries, bit label maps
// rendered in ascending bit order.
func summarize(res ports.Resolution) []PortSummary {
	summary := make([]PortSummary, 0, len(res.Ports))

	for _, p := range res.Ports {
		s := PortSummary{
			Index:         p.Index,
			Tag:           p.Tag,
			FromReference: p.FromReference,
			Controls:      make([]Control, 0, len(p.Labels)),
		}

		bits := make([]int, 0, len(p.Labels))
		for b := range p.Labels {
			bits = append(bits, b)
		}
		sort.Ints(bits)

		for _, b := range bits {
			s.Controls = append(s.Controls, Control{Bit: b, Name: p.Labels[b]})
		}

		summary = append(summary, s)
	}

	return summary
}
