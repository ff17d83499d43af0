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
	"time"

	"github.com/6t8k/inp2json/inp"
	"github.com/6t8k/inp2json/reference"
)

// PortList is the port resolution of a recording without any of its
// frames.
type PortList struct {
	Game      string    `json:"game"`
	Version   string    `json:"version"`
	AppDesc   string    `json:"app_desc"`
	Basetime  time.Time `json:"basetime"`
	PortCount int       `json:"port_count"`
	Resolved  bool      `json:"resolved"`

	Ports []PortSummary `json:"ports"`
}

// ListPorts answers what ports and controls a recording involves, from
// the header and the reference alone. The recording's frames are never
// read.
func ListPorts(filename string, table *reference.Table) (*PortList, error) {
	rec, err := inp.NewLoader(filename).Open()
	if err != nil {
		return nil, err
	}
	defer rec.Close()

	res := resolve(rec.Header.Game, table, rec.Header.PortCount)

	return &PortList{
		Game:      rec.Header.Game,
		Version:   rec.Header.Version(),
		AppDesc:   rec.Header.AppDesc,
		Basetime:  rec.Header.Basetime,
		PortCount: rec.Header.PortCount,
		Resolved:  res.Complete,
		Ports:     summarize(res),
	}, nil
}

// WriteJSON marshals the port list to w, with a trailing newline.
func (pl *PortList) WriteJSON(w io.Writer, indent bool) error {
	return writeJSON(w, pl, indent)
}
