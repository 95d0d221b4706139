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

// Package testafm renders small, well-formed AFM files for use in tests.
package testafm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Glyph is one line of the CharMetrics section.
type Glyph struct {
	Code  int
	Name  string
	Width int
	BBox  [4]int
}

// Kern is one KPX line.
type Kern struct {
	Left, Right string
	Adjust      int
}

// Font describes an AFM file.  Zero values are replaced by plausible
// defaults when the file is rendered.
type Font struct {
	FontName       string
	FamilyName     string
	Weight         string
	EncodingScheme string
	ItalicAngle    float64
	IsFixedPitch   bool

	Glyphs []Glyph
	Kern   []Kern

	// Extra lines are inserted verbatim into the FontMetrics header.
	Extra []string
}

// Latin is a small glyph repertoire with standard glyph names.
var Latin = []Glyph{
	{Code: 32, Name: "space", Width: 278},
	{Code: 65, Name: "A", Width: 667, BBox: [4]int{14, 0, 654, 718}},
	{Code: 84, Name: "T", Width: 611, BBox: [4]int{23, 0, 589, 718}},
	{Code: 86, Name: "V", Width: 667, BBox: [4]int{14, 0, 653, 718}},
	{Code: 87, Name: "W", Width: 944, BBox: [4]int{5, 0, 932, 718}},
	{Code: 111, Name: "o", Width: 556, BBox: [4]int{35, -14, 521, 538}},
	{Code: 46, Name: "period", Width: 278, BBox: [4]int{87, 0, 191, 106}},
	{Code: -1, Name: "Adieresis", Width: 667, BBox: [4]int{14, 0, 654, 901}},
}

// New returns a font with the Latin glyphs and the given kerning pairs.
func New(fontName string, kern ...Kern) *Font {
	return &Font{
		FontName: fontName,
		Glyphs:   Latin,
		Kern:     kern,
	}
}

// WriteTo writes the font in AFM format.
func (f *Font) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.String())
	return int64(n), err
}

func (f *Font) String() string {
	b := &strings.Builder{}
	line := func(format string, args ...any) {
		fmt.Fprintf(b, format, args...)
		b.WriteByte('\n')
	}

	family := f.FamilyName
	if family == "" {
		family = strings.SplitN(f.FontName, "-", 2)[0]
	}
	weight := f.Weight
	if weight == "" {
		weight = "Medium"
	}
	encoding := f.EncodingScheme
	if encoding == "" {
		encoding = "AdobeStandardEncoding"
	}

	line("StartFontMetrics 4.1")
	line("Comment Test data for %s", f.FontName)
	line("FontName %s", f.FontName)
	line("FullName %s", strings.ReplaceAll(f.FontName, "-", " "))
	line("FamilyName %s", family)
	line("Weight %s", weight)
	line("ItalicAngle %s", strconv.FormatFloat(f.ItalicAngle, 'f', -1, 64))
	line("IsFixedPitch %t", f.IsFixedPitch)
	line("CharacterSet ExtendedRoman")
	line("FontBBox -166 -225 1000 931")
	line("UnderlinePosition -100")
	line("UnderlineThickness 50")
	line("Version 002.000")
	line("Notice Synthetic metrics, not for production use.")
	line("EncodingScheme %s", encoding)
	line("CapHeight 718")
	line("XHeight 523")
	line("Ascender 718")
	line("Descender -207")
	line("StdHW 76")
	line("StdVW 88")
	for _, extra := range f.Extra {
		line("%s", extra)
	}

	line("StartCharMetrics %d", len(f.Glyphs))
	for _, g := range f.Glyphs {
		line("C %d ; WX %d ; N %s ; B %d %d %d %d ;",
			g.Code, g.Width, g.Name, g.BBox[0], g.BBox[1], g.BBox[2], g.BBox[3])
	}
	line("EndCharMetrics")

	if len(f.Kern) > 0 {
		line("StartKernData")
		line("StartKernPairs %d", len(f.Kern))
		for _, k := range f.Kern {
			line("KPX %s %s %d", k.Left, k.Right, k.Adjust)
		}
		line("EndKernPairs")
		line("EndKernData")
	}
	line("EndFontMetrics")

	return b.String()
}
