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

package regression

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/6t8k/inp2json/curated"
	"github.com/6t8k/inp2json/database"
	"github.com/6t8k/inp2json/resources"

	"github.com/jedib0t/go-pretty/v6/table"
)

const regressionDBFile = "regressionDB"

// ansiClearLine erases the line being used for the running progress message.
const ansiClearLine = "\033[2K"

// Regressor represents the generic entry in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the
	// newRegression flag causes the test to record the results of the
	// run rather than compare them
	//
	// message is the string that is to be printed during the regression
	regress(newRegression bool, output io.Writer, message string) (bool, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	if err := db.RegisterEntryType(decodeEntryID, deserialiseDecodeEntry); err != nil {
		return err
	}
	return nil
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	dbPth, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityReading, initDBSession)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}
	defer db.EndSession(false)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"key", "type", "recording", "options", "digest"})

	onSelect := func(key int, ent database.Entry) error {
		switch reg := ent.(type) {
		case *DecodeRegression:
			t.AppendRow(table.Row{key, reg.ID(), reg.Recording, reg.options(), shortDigest(reg.digest)})
		default:
			t.AppendRow(table.Row{key, ent.ID(), ent.String(), "", ""})
		}
		return nil
	}

	if _, err := db.SelectAll(onSelect); err != nil {
		return curated.Errorf("regression: %v", err)
	}

	fmt.Fprintln(output, t.Render())
	fmt.Fprintf(output, "total: %d\n", db.NumEntries())

	return nil
}

// RegressDelete removes an entry from the regression database. the
// confirmation reader is used to ask the user for confirmation before the
// entry is deleted.
//
// the key of "all" deletes every entry in the database.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	dbPth, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityModifying, initDBSession)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}
	defer db.EndSession(true)

	if key == "all" {
		output.Write([]byte(fmt.Sprintf("delete all %d entries? (y/n): ", db.NumEntries())))
		if !confirm(confirmation) {
			return nil
		}
		for _, k := range db.SortedKeyList() {
			if err := db.Delete(k); err != nil {
				return curated.Errorf("regression: %v", err)
			}
		}
		output.Write([]byte("deleted all entries from regression database\n"))
		return nil
	}

	v, err := strconv.Atoi(key)
	if err != nil {
		return curated.Errorf("regression: invalid key [%s]", key)
	}

	ent, err := db.Get(v)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	output.Write([]byte(fmt.Sprintf("%s\ndelete? (y/n): ", ent)))
	if !confirm(confirmation) {
		return nil
	}

	if err := db.Delete(v); err != nil {
		return curated.Errorf("regression: %v", err)
	}
	output.Write([]byte(fmt.Sprintf("deleted test #%s from regression database\n", key)))

	return nil
}

func confirm(confirmation io.Reader) bool {
	b := make([]byte, 32)
	n, err := confirmation.Read(b)
	if err != nil || n < 1 {
		return false
	}
	return b[0] == 'y' || b[0] == 'Y'
}

// RegressAdd adds a new regression entry to the database. the test is run
// and the result stored as the baseline for future runs.
func RegressAdd(output io.Writer, reg Regressor) error {
	dbPth, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityCreating, initDBSession)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}
	defer db.EndSession(true)

	msg := fmt.Sprintf("adding: %s", reg)
	ok, err := reg.regress(true, output, msg)
	if !ok || err != nil {
		return curated.Errorf("regression: %v", err)
	}

	output.Write([]byte(ansiClearLine))
	output.Write([]byte(fmt.Sprintf("\radded: %s\n", reg)))

	return db.Add(reg)
}

// RegressRunTests runs the tests in the regression database. the filterKeys
// list specifies which entries to test. an empty list means that every entry
// should be tested.
func RegressRunTests(output io.Writer, verbose bool, failOnError bool, filterKeys []string) error {
	dbPth, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}

	db, err := database.StartSession(dbPth, database.ActivityReading, initDBSession)
	if err != nil {
		return curated.Errorf("regression: %v", err)
	}
	defer db.EndSession(false)

	// make sure any supplied keys list is in order
	keysV := make([]int, 0, len(filterKeys))
	for k := range filterKeys {
		v, err := strconv.Atoi(filterKeys[k])
		if err != nil {
			return curated.Errorf("regression: invalid key [%s]", filterKeys[k])
		}
		keysV = append(keysV, v)
	}
	sort.Ints(keysV)

	numSucceed := 0
	numFail := 0
	numError := 0
	numSkipped := 0
	if len(keysV) > 0 {
		numSkipped = db.NumEntries() - len(keysV)
		if numSkipped < 0 {
			numSkipped = 0
		}
	}

	defer func() {
		output.Write([]byte(fmt.Sprintf("regression tests: %d succeed, %d fail, %d skipped", numSucceed, numFail, numSkipped)))
		if numError > 0 {
			output.Write([]byte(" [with errors]"))
		}
		output.Write([]byte("\n"))
	}()

	onSelect := func(key int, ent database.Entry) error {
		// database entry should also satisfy the Regressor interface
		reg, ok := ent.(Regressor)
		if !ok {
			return curated.Errorf("regression: entry #%d does not satisfy the Regressor interface", key)
		}

		// run regress() function with message. message does not have a
		// trailing newline
		msg := fmt.Sprintf("running: %s", reg)
		ok, err := reg.regress(false, output, msg)

		// once regress() has completed we clear the line ready for the
		// completion message
		output.Write([]byte(ansiClearLine))

		if err != nil {
			numError++
			output.Write([]byte(fmt.Sprintf("\r ERROR: %s\n", reg)))
			if verbose {
				output.Write([]byte(fmt.Sprintf("  %s\n", err)))
			}
			if failOnError {
				return curated.Errorf("regression: error on entry #%d", key)
			}
		} else if !ok {
			numFail++
			output.Write([]byte(fmt.Sprintf("\rfailure: %s\n", reg)))
		} else {
			numSucceed++
			output.Write([]byte(fmt.Sprintf("\rsucceed: %s\n", reg)))
		}

		return nil
	}

	if _, err := db.SelectKeys(onSelect, keysV...); err != nil {
		return err
	}

	return nil
}
