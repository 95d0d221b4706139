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

// section is one of the Start.../End... blocks of an AFM file.
type section int

const (
	secFontMetrics section = iota + 1
	secCharMetrics
	secKernData
	secKernPairs
)

var sectionByName = map[string]section{
	"FontMetrics": secFontMetrics,
	"CharMetrics": secCharMetrics,
	"KernData":    secKernData,
	"KernPairs":   secKernPairs,
}

func (s section) String() string {
	switch s {
	case secFontMetrics:
		return "FontMetrics"
	case secCharMetrics:
		return "CharMetrics"
	case secKernData:
		return "KernData"
	case secKernPairs:
		return "KernPairs"
	default:
		return "<invalid section>"
	}
}

// parent returns the section which must directly enclose s.
// The result is 0 for the outermost section.
func (s section) parent() section {
	switch s {
	case secCharMetrics, secKernData:
		return secFontMetrics
	case secKernPairs:
		return secKernData
	default:
		return 0
	}
}

// counted reports whether the Start line of the section may give the
// number of data lines.
func (s section) counted() bool {
	return s == secCharMetrics || s == secKernPairs
}

// keyword is a key of the FontMetrics section.
type keyword int

const (
	kwFontName keyword = iota + 1
	kwFullName
	kwFamilyName
	kwEncodingScheme
	kwCharacterSet
	kwCapHeight
	kwXHeight
	kwAscender
	kwDescender
	kwUnderlinePosition
	kwUnderlineThickness
	kwStdHW
	kwStdVW
	kwItalicAngle
	kwFontBBox
	kwIsFixedPitch
	kwWeight
	kwMetricsSets

	// kwIgnored marks keywords which are valid, but not needed.
	kwIgnored

	// kwUnsupported marks valid keywords which describe features
	// this package cannot represent.
	kwUnsupported
)

var keywords = map[string]keyword{
	"FontName":           kwFontName,
	"FullName":           kwFullName,
	"FamilyName":         kwFamilyName,
	"EncodingScheme":     kwEncodingScheme,
	"CharacterSet":       kwCharacterSet,
	"CapHeight":          kwCapHeight,
	"XHeight":            kwXHeight,
	"Ascender":           kwAscender,
	"Descender":          kwDescender,
	"UnderlinePosition":  kwUnderlinePosition,
	"UnderlineThickness": kwUnderlineThickness,
	"StdHW":              kwStdHW,
	"StdVW":              kwStdVW,
	"ItalicAngle":        kwItalicAngle,
	"FontBBox":           kwFontBBox,
	"IsFixedPitch":       kwIsFixedPitch,
	"Weight":             kwWeight,
	"MetricsSets":        kwMetricsSets,

	"Version":    kwIgnored,
	"Notice":     kwIgnored,
	"Comment":    kwIgnored,
	"Characters": kwIgnored,

	"MappingScheme": kwUnsupported,
	"EscChar":       kwUnsupported,
	"IsBaseFont":    kwUnsupported,
	"VVector":       kwUnsupported,
	"IsFixedV":      kwUnsupported,
	"CharWidth":     kwUnsupported,
}

// weightClass maps the Weight entry to a CSS font weight.
// See https://www.w3.org/TR/CSS21/fonts.html#font-boldness .
var weightClass = map[string]int{
	"Thin":       100,
	"ExtraLight": 200,
	"UltraLight": 200,
	"Light":      300,
	"Book":       400,
	"Normal":     400,
	"Regular":    400,
	"Roman":      400,
	"Medium":     400,
	"Semibold":   600,
	"SemiBold":   600,
	"Demi":       600,
	"Bold":       700,
	"ExtraBold":  800,
	"Heavy":      900,
	"Black":      900,
}
