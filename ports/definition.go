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
	"math/bits"
)

// Field is one input field of a port.
type Field struct {
	// the bits of the port word occupied by the field
	Mask uint32

	// ioport type by IPT_* name
	Type string

	// the field's default value. carried for completeness, not used when
	// labelling digital activity
	DefValue uint32

	// player the field belongs to. 1-based
	Player int

	// the specific name given to the field by the machine driver. may be
	// empty
	Name string

	// analog fields occupy the port word but are never labelled
	Analog bool
}

// Label returns the control name for the field.
func (f Field) Label() string {
	return ControlName(f.Type, f.Player, f.Name)
}

// Definition is one input port of a machine as described by the reference
// data. Fields appear in reference order.
type Definition struct {
	Tag    string
	Fields []Field
}

// Labels reduces the port's fields to a mapping of bit position to control
// name.
//
// Only digital fields with a single-bit mask contribute. Analog fields and
// multi-bit fields (dipswitch values and the like) are left out; activity
// on their bits is reported by bit position instead. When two fields claim
// the same bit the later field wins, mirroring how duplicate reference
// entries override earlier ones.
func (def Definition) Labels() map[int]string {
	l := make(map[int]string)
	for _, f := range def.Fields {
		if f.Analog {
			continue
		}
		if f.Mask == 0 || f.Mask&(f.Mask-1) != 0 {
			continue
		}
		l[bits.TrailingZeros32(f.Mask)] = f.Label()
	}
	return l
}
