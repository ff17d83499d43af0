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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/decoder"
	"github.com/6t8k/inp2json/reference"
)

// Check the performance of the decoder using the supplied recording.
//
// The recording is decoded repeatedly for the specified duration and the
// aggregate decode rate reported. Profiles are generated according to the
// profile argument.
func Check(output io.Writer, profile Profile, filename string, refFile string, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	var tbl *reference.Table
	if refFile != "" {
		tbl, err = reference.Load(refFile)
		if err != nil {
			return curated.Errorf("performance: %v", err)
		}
	}

	// decode once before timing starts. errors surface here rather than in
	// the middle of the measurement and the report needs the frame count
	doc, err := decoder.Decode(filename, tbl, decoder.Options{})
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}
	framesPerDecode := len(doc.Frames)

	numDecodes := 0

	runner := func() error {
		// setup trigger that expires when duration has elapsed
		timesUp := make(chan bool, 1)
		time.AfterFunc(dur, func() {
			timesUp <- true
		})

		// decode until specified time elapses
		for {
			select {
			case <-timesUp:
				return nil
			default:
			}

			if _, err := decoder.Decode(filename, tbl, decoder.Options{}); err != nil {
				return err
			}
			numDecodes++
		}
	}

	// launch runner directly or through the profiler, depending on supplied
	// arguments
	if err := RunProfiler(profile, "performance", runner); err != nil {
		return curated.Errorf("performance: %v", err)
	}

	output.Write([]byte(fmt.Sprintf("%.2f decodes/sec (%d decodes of %d frames in %.2f seconds, %.2f frames/sec)\n",
		float64(numDecodes)/dur.Seconds(), numDecodes, framesPerDecode, dur.Seconds(),
		float64(numDecodes*framesPerDecode)/dur.Seconds())))

	return nil
}
