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
	"github.com/6t8k/inp2json/ports"
)

// Table is a loaded reference archive.
type Table struct {
	// the MAME build the archive was generated from, eg. "0.264 (mame0264)"
	Build string

	// mameconfig version of the generating build
	Config string

	machines map[string][]ports.Definition
}

// Lookup returns the port definitions for a machine, in the machine's
// port order. A miss is not an error; it means every port of the
// recording will resolve to a numeric fallback.
func (t *Table) Lookup(game string) ([]ports.Definition, bool) {
	defs, ok := t.machines[game]
	return defs, ok
}

// Machines returns the number of machines in the archive.
func (t *Table) Machines() int {
	return len(t.machines)
}
