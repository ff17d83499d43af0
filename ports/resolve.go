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

package ports

import (
	"fmt"
)

// Resolved is one port of a recording after pairing with the reference
// data.
type Resolved struct {
	// position of the port in the recording's frame records
	Index int

	// the port tag from the reference, or a numeric fallback of the form
	// "port N" when the reference has nothing for this index
	Tag string

	// bit position to control name. empty for fallback ports
	Labels map[int]string

	// whether the tag and labels came from the reference
	FromReference bool
}

// Active returns the names of the controls active in the digital word, in
// ascending bit order. A set bit without a label is reported as "bit N" so
// that activity on an unnamed control is never dropped.
func (r Resolved) Active(digital uint32) []string {
	var active []string
	for b := 0; b < 32; b++ {
		if digital&(1<<b) == 0 {
			continue
		}
		if name, ok := r.Labels[b]; ok {
			active = append(active, name)
		} else {
			active = append(active, BitLabel(b))
		}
	}
	return active
}

// BitLabel is the fallback name for activity on a bit position with no
// control name.
func BitLabel(bit int) string {
	return fmt.Sprintf("bit %d", bit)
}

// FallbackTag is the tag given to a port index with no definition in the
// reference data.
func FallbackTag(idx int) string {
	return fmt.Sprintf("port %d", idx)
}

// Resolution is the outcome of pairing a recording's ports with the
// reference definitions for the recorded machine.
type Resolution struct {
	Ports []Resolved

	// Complete is true only when every port index was backed by the
	// reference
	Complete bool
}

// Resolve pairs the ports of a recording with reference definitions.
// Pairing is by index, up to the shorter of the two lists: indices beyond
// the reference resolve to numeric fallbacks, excess definitions are
// ignored. A nil or empty definition list (a machine the reference does
// not know) resolves every port to a fallback.
//
// Resolve never fails. The quality of the outcome is recorded in the
// Resolution itself.
func Resolve(portCount int, defs []Definition) Resolution {
	res := Resolution{
		Ports:    make([]Resolved, 0, portCount),
		Complete: len(defs) >= portCount,
	}

	for i := 0; i < portCount; i++ {
		if i < len(defs) {
			res.Ports = append(res.Ports, Resolved{
				Index:         i,
				Tag:           defs[i].Tag,
				Labels:        defs[i].Labels(),
				FromReference: true,
			})
			continue
		}
		res.Ports = append(res.Ports, Resolved{
			Index:  i,
			Tag:    FallbackTag(i),
			Labels: map[int]string{},
		})
	}

	return res
}
