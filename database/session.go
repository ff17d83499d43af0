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

package database

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/6t8k/inp2json/curated"
)

// Activity describes what the session will be doing with the database.
type Activity int

// Valid activities. A session started with ActivityReading refuses to
// commit changes at EndSession. ActivityCreating creates the database
// file if it does not exist; ActivityModifying requires it to exist.
const (
	ActivityReading Activity = iota
	ActivityModifying
	ActivityCreating
)

// Session is an open database.
type Session struct {
	dbFile   *os.File
	activity Activity

	entryTypes map[string]deserialiser
	entries    map[int]Entry
}

// StartSession starts a database session. The init function is called
// once the session is ready for entry type registration, before any
// entries are read.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		activity:   activity,
		entryTypes: make(map[string]deserialiser),
		entries:    make(map[int]Entry),
	}

	if init != nil {
		if err := init(db); err != nil {
			return nil, curated.Errorf("database: %v", err)
		}
	}

	var flags int
	switch activity {
	case ActivityReading:
		flags = os.O_RDONLY
	case ActivityModifying:
		flags = os.O_RDWR
	case ActivityCreating:
		flags = os.O_RDWR | os.O_CREATE
	}

	var err error
	db.dbFile, err = os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, curated.Errorf("database: %v", err)
	}

	if err := db.readEntries(); err != nil {
		db.dbFile.Close()
		return nil, err
	}

	return db, nil
}

// EndSession closes the database, writing any changes back to the
// database file when commit is true. Sessions started for reading cannot
// commit.
func (db *Session) EndSession(commit bool) error {
	if db.dbFile == nil {
		return curated.Errorf("database: session already ended")
	}

	defer func() {
		db.dbFile.Close()
		db.dbFile = nil
	}()

	if !commit {
		return nil
	}

	if db.activity == ActivityReading {
		return curated.Errorf("database: cannot commit to a database opened for reading")
	}

	if err := db.dbFile.Truncate(0); err != nil {
		return curated.Errorf("database: %v", err)
	}
	if _, err := db.dbFile.Seek(0, io.SeekStart); err != nil {
		return curated.Errorf("database: %v", err)
	}

	for _, key := range db.SortedKeyList() {
		ser, err := db.entries[key].Serialise()
		if err != nil {
			return curated.Errorf("database: %v", err)
		}

		line := append([]string{recordHeader(key, db.entries[key].ID())}, ser...)
		if _, err := db.dbFile.WriteString(strings.Join(line, fieldSep) + entrySep); err != nil {
			return curated.Errorf("database: %v", err)
		}
	}

	return nil
}

// readEntries clobbers the current entry list and reads it afresh from
// the database file.
func (db *Session) readEntries() error {
	db.entries = make(map[int]Entry, len(db.entries))

	if _, err := db.dbFile.Seek(0, io.SeekStart); err != nil {
		return curated.Errorf("database: %v", err)
	}

	buffer, err := io.ReadAll(db.dbFile)
	if err != nil {
		return curated.Errorf("database: %v", err)
	}

	lines := strings.Split(string(buffer), entrySep)
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) == 0 {
			continue
		}

		fields := strings.SplitN(line, fieldSep, numLeaderFields+1)
		if len(fields) < numLeaderFields {
			return curated.Errorf("database: malformed entry at line %d", i+1)
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil {
			return curated.Errorf("database: invalid key [%s] at line %d", fields[leaderFieldKey], i+1)
		}

		if _, ok := db.entries[key]; ok {
			return curated.Errorf("database: duplicate key [%d] at line %d", key, i+1)
		}

		des, ok := db.entryTypes[fields[leaderFieldID]]
		if !ok {
			return curated.Errorf("database: unrecognised entry type [%s] at line %d", fields[leaderFieldID], i+1)
		}

		var remainder []string
		if len(fields) > numLeaderFields {
			remainder = strings.Split(fields[numLeaderFields], fieldSep)
		}

		ent, err := des(remainder)
		if err != nil {
			return curated.Errorf("database: %v", err)
		}

		db.entries[key] = ent
	}

	return nil
}
