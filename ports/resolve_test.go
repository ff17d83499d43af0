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

package ports_test

import (
	"strings"
	"testing"

	"github.com/6t8k/inp2json/ports"
	"github.com/6t8k/inp2json/test"
)

func twoPorts() []ports.Definition {
	return []ports.Definition{
		{
			Tag: ":IN0",
			Fields: []ports.Field{
				{Mask: 0x01, Type: "IPT_JOYSTICK_UP", Player: 1},
				{Mask: 0x02, Type: "IPT_JOYSTICK_DOWN", Player: 1},
				{Mask: 0x10, Type: "IPT_BUTTON1", Player: 1, Name: "Fire"},
			},
		},
		{
			Tag: ":IN1",
			Fields: []ports.Field{
				{Mask: 0x01, Type: "IPT_COIN1", Player: 1},
			},
		},
	}
}

func TestResolveComplete(t *testing.T) {
	res := ports.Resolve(2, twoPorts())
	test.ExpectSuccess(t, res.Complete)
	test.DemandEquality(t, len(res.Ports), 2)

	test.ExpectEquality(t, res.Ports[0].Tag, ":IN0")
	test.ExpectSuccess(t, res.Ports[0].FromReference)
	test.ExpectEquality(t, res.Ports[1].Tag, ":IN1")
	test.ExpectSuccess(t, res.Ports[1].FromReference)
}

func TestResolveRecordingHasMorePorts(t *testing.T) {
	res := ports.Resolve(4, twoPorts())
	test.ExpectFailure(t, res.Complete)
	test.DemandEquality(t, len(res.Ports), 4)

	// indices beyond the reference fall back to numeric references
	test.ExpectEquality(t, res.Ports[2].Tag, "port 2")
	test.ExpectFailure(t, res.Ports[2].FromReference)
	test.ExpectEquality(t, res.Ports[3].Tag, "port 3")
	test.ExpectEquality(t, len(res.Ports[3].Labels), 0)
}

func TestResolveReferenceHasMorePorts(t *testing.T) {
	// excess reference definitions are ignored
	res := ports.Resolve(1, twoPorts())
	test.ExpectSuccess(t, res.Complete)
	test.DemandEquality(t, len(res.Ports), 1)
	test.ExpectEquality(t, res.Ports[0].Tag, ":IN0")
}

func TestResolveNoReference(t *testing.T) {
	res := ports.Resolve(3, nil)
	test.ExpectFailure(t, res.Complete)
	test.DemandEquality(t, len(res.Ports), 3)
	for i, p := range res.Ports {
		test.ExpectEquality(t, p.Index, i)
		test.ExpectFailure(t, p.FromReference)
	}
}

func TestActive(t *testing.T) {
	res := ports.Resolve(2, twoPorts())

	// named controls in ascending bit order
	active := res.Ports[0].Active(0x03)
	test.DemandEquality(t, len(active), 2)
	test.ExpectEquality(t, active[0], "P1 Up")
	test.ExpectEquality(t, active[1], "P1 Down")

	// specific name wins over the derived name
	active = res.Ports[0].Active(0x10)
	test.DemandEquality(t, len(active), 1)
	test.ExpectEquality(t, active[0], "Fire")

	// a set bit with no label is reported by position, interleaved in bit
	// order with named controls
	active = res.Ports[0].Active(0x09)
	test.DemandEquality(t, len(active), 2)
	test.ExpectEquality(t, active[0], "P1 Up")
	test.ExpectEquality(t, active[1], "bit 3")

	// nothing active
	test.ExpectEquality(t, len(res.Ports[0].Active(0)), 0)

	// the highest bit is reachable
	active = res.Ports[1].Active(0x80000000)
	test.DemandEquality(t, len(active), 1)
	test.ExpectEquality(t, active[0], "bit 31")
}

func TestLabels(t *testing.T) {
	def := ports.Definition{
		Tag: ":TEST",
		Fields: []ports.Field{
			{Mask: 0x01, Type: "IPT_BUTTON1", Player: 1},

			// analog fields never contribute labels
			{Mask: 0x02, Type: "IPT_PADDLE", Player: 1, Analog: true},

			// multi-bit fields (dipswitch values and the like) never
			// contribute labels
			{Mask: 0x0c, Type: "IPT_DIPSWITCH", Name: "Difficulty"},

			// a later field claiming the same bit wins
			{Mask: 0x01, Type: "IPT_BUTTON1", Player: 1, Name: "Shot"},
		},
	}

	l := def.Labels()
	test.DemandEquality(t, len(l), 1)
	test.ExpectEquality(t, l[0], "Shot")

	// sanity check of the fallback forms
	test.ExpectSuccess(t, strings.HasPrefix(ports.BitLabel(5), "bit "))
	test.ExpectSuccess(t, strings.HasPrefix(ports.FallbackTag(5), "port "))
}
