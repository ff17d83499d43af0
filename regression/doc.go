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

// Package regression facilitates the regression testing of decoder output.
// By adding test results to a database, the tests can be rerun automatically
// and checked for consistency.
//
// A test entry records a recording file, the decode options used, and a
// digest of the document the decoder produced. Rerunning the test decodes
// the recording again with the same options and compares digests. The
// recording file itself is also hashed, so a test failing because the input
// file has changed (rather than the decoder) is reported as an error and
// not a failure.
//
// Tests are added and run through the Regress*() functions, which manage
// the database session and report progress on the supplied io.Writer.
package regression
