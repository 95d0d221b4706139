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

// Package afm reads Adobe Font Metrics (AFM) files of the standard fonts.
//
// [Read] parses one AFM file into a [Face].  Kerning pairs are not stored
// in the face; they are handed to a [KernSink], so that the pairs of many
// fonts can be collected in one place.
package afm

import (
	"strings"
	"unicode"

	"seehuhn.de/go/postscript/funit"
)

// Face holds the font metrics of one AFM file.
// All values are in PostScript glyph space units (1/1000 of the font size).
type Face struct {
	FontName       string
	FullName       string
	FamilyName     string
	EncodingScheme string
	CharacterSet   string

	FontBBox funit.Rect16

	CapHeight          funit.Int16
	XHeight            funit.Int16
	Ascender           funit.Int16
	Descender          funit.Int16 // negative
	UnderlinePosition  funit.Int16
	UnderlineThickness funit.Int16
	StdHW              funit.Int16
	StdVW              funit.Int16

	ItalicAngle  float64
	IsFixedPitch bool

	// Weight is the CSS weight class of the font, 100, ..., 900.
	Weight int

	// Glyphs is sorted by Code if the font uses a font-specific encoding,
	// and by Unicode otherwise.
	Glyphs []Glyph

	// KernGetter is the name of the accessor which selects the kerning
	// column of this font.  It is empty if the font has no kerning pairs.
	KernGetter string

	// Hash is the MD5 digest of all lines of the AFM file.
	Hash [16]byte
}

// Glyph holds the metrics of one glyph.
type Glyph struct {
	Name    string
	Unicode rune // 0 if unmapped in a font-specific encoding
	Code    int  // -1 if the glyph is not encoded
	WidthX  funit.Int16
	BBox    funit.Rect16
}

// BuiltinEncoding reports whether the font uses its own encoding instead
// of the standard encoding.
func (f *Face) BuiltinEncoding() bool {
	return f.EncodingScheme == "FontSpecific"
}

// Widths returns the average and maximum advance width of the glyphs, and
// the width of the space character.  The missing width is -1 if the font
// has no space character.
func (f *Face) Widths() (avg, widest, missing funit.Int16) {
	if len(f.Glyphs) == 0 {
		return 0, 0, -1
	}
	var total int
	widest, missing = -1, -1
	for _, g := range f.Glyphs {
		total += int(g.WidthX)
		if g.WidthX > widest {
			widest = g.WidthX
		}
		if g.Unicode == ' ' {
			missing = g.WidthX
		}
	}
	avg = funit.Int16(total / len(f.Glyphs))
	return avg, widest, missing
}

// BaselineDistance returns the distance between consecutive baselines.
// This is 120% of the em square, or the distance between ascender and
// descender if that is larger.
func (f *Face) BaselineDistance() funit.Int16 {
	dist := funit.Int16(1000 * 12 / 10)
	if d := f.Ascender - f.Descender; d > dist {
		dist = d
	}
	return dist
}

// Identifier turns a PostScript font name into a Go identifier.
// Non-alphanumeric characters are removed and the letter following
// them is capitalised, so that "Times-BoldItalic" becomes "TimesBoldItalic".
func Identifier(fontName string) string {
	b := &strings.Builder{}
	upper := true
	for _, r := range fontName {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			upper = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			b.WriteByte('F')
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Font"
	}
	return b.String()
}

// GetterName returns the name of the kerning accessor of a font.
func GetterName(fontName string) string {
	return "kern" + Identifier(fontName)
}
