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

import "github.com/6t8k/inp2json/curated"

// SelectAll entries in the database, in key order. onSelect can be nil.
//
// Selection stops at the first error from onSelect and the error is
// returned with the key of the entry that caused it.
func (db Session) SelectAll(onSelect func(int, Entry) error) (int, error) {
	if onSelect == nil {
		onSelect = func(_ int, _ Entry) error { return nil }
	}

	keyList := db.SortedKeyList()

	for k := range keyList {
		if err := onSelect(keyList[k], db.entries[keyList[k]]); err != nil {
			return keyList[k], err
		}
	}

	return -1, nil
}

// SelectKeys matches entries with the specified key(s). If the list of
// keys is empty then all keys are matched (SelectAll() may be more
// appropriate in that case). onSelect can be nil.
//
// A key with no entry in the database ends the selection with an error.
func (db Session) SelectKeys(onSelect func(int, Entry) error, keys ...int) (int, error) {
	if onSelect == nil {
		onSelect = func(_ int, _ Entry) error { return nil }
	}

	keyList := keys
	if len(keys) == 0 {
		keyList = db.SortedKeyList()
	}

	for i := range keyList {
		ent, ok := db.entries[keyList[i]]
		if !ok {
			return keyList[i], curated.Errorf("database: key not available (%d)", keyList[i])
		}
		if err := onSelect(keyList[i], ent); err != nil {
			return keyList[i], err
		}
	}

	return -1, nil
}
