// seehuhn.de/go/afmc - compile AFM font metrics into Go lookup tables
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package afm

import (
	"fmt"
	"strconv"
)

// MalformedError indicates that an AFM file violates the AFM grammar.
type MalformedError struct {
	File string
	Line int // 0 if the error is not associated with a line
	Err  error
}

func (err *MalformedError) Error() string {
	return location(err.File, err.Line) + "malformed AFM data: " + err.Err.Error()
}

func (err *MalformedError) Unwrap() error {
	return err.Err
}

// UnmappableGlyphError indicates that a glyph name could not be mapped to
// a unicode code point.
type UnmappableGlyphError struct {
	File  string
	Line  int
	Glyph string
}

func (err *UnmappableGlyphError) Error() string {
	return fmt.Sprintf("%sglyph %q has no unicode mapping", location(err.File, err.Line), err.Glyph)
}

func location(file string, line int) string {
	if file == "" {
		file = "<input>"
	}
	if line > 0 {
		return file + ":" + strconv.Itoa(line) + ": "
	}
	return file + ": "
}
