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

// Package test contains helper functions that remove common testing
// boilerplate.
//
// The ExpectSuccess() and ExpectFailure() functions test a value for success
// or failure under conditions suitable for the value's type. The supported
// types are listed in the function documentation.
//
// It is worth describing how these functions handle the nil type because it
// is not obvious. The nil type is considered a success and consequently will
// cause ExpectFailure() to fail and ExpectSuccess() to succeed. This follows
// from how errors work in Go (nil indicating no error).
//
// The ExpectEquality() function compares two values of the same comparable
// type. The Demand equivalents of all these functions end the test
// immediately on failure, which is useful when a later part of the test
// would be meaningless, or would panic, after an earlier failure.
//
// All expectation functions accept optional trailing tag arguments. The
// tags are included in any failure message and help identify the failing
// step in table-driven or looped tests.
//
// The Writer type implements io.Writer and should be used to capture
// output. The Writer.Compare() function can then be used to test for
// equality.
package test
