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
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1/names"

	"seehuhn.de/go/afmc/kern"
)

// UnicodeFunc maps a glyph name to a unicode code point.  The font name is
// passed along, since some fonts (ZapfDingbats) use their own glyph names.
// The second return value is false if the glyph has no mapping.
type UnicodeFunc func(glyphName, fontName string) (rune, bool)

// StandardNames maps glyph names using the Adobe Glyph List.
// Glyph names which map to more than one code point are treated as
// unmappable.
func StandardNames(glyphName, fontName string) (rune, bool) {
	rr := []rune(names.ToUnicode(glyphName, fontName))
	if len(rr) != 1 {
		return 0, false
	}
	return rr[0], true
}

// KernSink collects kerning pairs.
// The getter name identifies the font, see [GetterName].
type KernSink interface {
	Add(getter string, pair kern.Pair, adjust funit.Int16)
}

// ReadOptions control how AFM files are read.
type ReadOptions struct {
	// FileName is used in error messages.
	FileName string

	// ToUnicode maps glyph names to unicode.
	// If this is nil, [StandardNames] is used.
	ToUnicode UnicodeFunc

	// Kern receives the kerning pairs of the font.
	// If this is nil, kerning pairs are checked and then discarded.
	Kern KernSink
}
