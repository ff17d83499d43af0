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
	"testing"

	"github.com/6t8k/inp2json/ports"
	"github.com/6t8k/inp2json/test"
)

// a few fixed points of the ioport enumeration. machine information XML
// refers to types by these numeric values so the table positions matter.
func TestTypeNameValues(t *testing.T) {
	test.ExpectEquality(t, ports.TypeName(0), "IPT_INVALID")
	test.ExpectEquality(t, ports.TypeName(1), "IPT_UNUSED")
	test.ExpectEquality(t, ports.TypeName(3), "IPT_UNKNOWN")
	test.ExpectEquality(t, ports.TypeName(7), "IPT_START1")
	test.ExpectEquality(t, ports.TypeName(17), "IPT_COIN1")
	test.ExpectEquality(t, ports.TypeName(51), "IPT_JOYSTICK_UP")
	test.ExpectEquality(t, ports.TypeName(64), "IPT_BUTTON1")
	test.ExpectEquality(t, ports.TypeName(79), "IPT_BUTTON16")
	test.ExpectEquality(t, ports.TypeName(152), "IPT_AD_STICK_X")
	test.ExpectEquality(t, ports.TypeName(245), "IPT_COUNT")
}

func TestTypeNameRange(t *testing.T) {
	test.ExpectEquality(t, ports.TypeName(-1), "")
	test.ExpectEquality(t, ports.TypeName(246), "")
	test.ExpectEquality(t, ports.TypeName(10000), "")
}

// every name is unique and prefixed IPT_
func TestTypeNameTable(t *testing.T) {
	seen := map[string]bool{}
	for v := 0; ; v++ {
		n := ports.TypeName(v)
		if n == "" {
			// IPT_COUNT terminates the enumeration
			test.ExpectEquality(t, ports.TypeName(v-1), "IPT_COUNT")
			break
		}
		test.ExpectFailure(t, seen[n], n)
		test.ExpectEquality(t, n[:4], "IPT_", n)
		seen[n] = true
	}
}
