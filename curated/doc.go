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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and can be used wherever a
// regular error is expected.
//
// Curated errors are created with the Errorf() function. Like Errorf() in
// the fmt package it takes a formatting pattern and placeholder values. The
// pattern does double duty: it formats the message and it identifies the
// error. Packages that raise curated errors export their patterns as
// constants so that callers can test for them.
//
// The Is() function checks whether an error was created from a specific
// pattern:
//
//	const BadAngle = "geometry: bad angle (%v)"
//
//	e := curated.Errorf(BadAngle, 361)
//	if curated.Is(e, BadAngle) {
//		fmt.Println("true")
//	}
//
// The Has() function is less strict and checks whether the pattern occurs
// anywhere in the error chain. Wrapping with the %v verb extends the chain:
//
//	f := curated.Errorf("fatal: %v", e)
//
//	curated.Is(f, BadAngle)   // false
//	curated.Has(f, BadAngle)  // true
//
// The IsAny() function answers whether an error is curated at all. An
// uncurated error is one the program did not expect to see and is usually
// grounds for ending the program.
//
// The Error() implementation normalises the message chain by removing
// duplicate adjacent parts. In practice this means a function can always
// wrap an error on the way out without worrying about stuttering messages
// like "decode: decode: bad frame".
package curated
