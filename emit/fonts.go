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

package emit

import (
	"fmt"

	"seehuhn.de/go/afmc/afm"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/kern"
)

// Header is the comment placed at the top of all generated files.
const Header = "Code generated by afmc - DO NOT EDIT."

// Data is the input of the emitter.
type Data struct {
	Package string
	Faces   []*afm.Face // in FontID order
	Kern    *kern.Table
	Hash    *cuckoo.Table // maps kerning keys to indices in Kern.Vectors
}

// Declarations returns the file which declares the data types and the
// lookup code.  The layout of these declarations does not depend on the
// data, only the FontID constants do.
func Declarations(d *Data) *File {
	ids := &Const{
		Doc: "Font identifiers.  The values are indices into the font table.",
	}
	for i, f := range d.Faces {
		spec := ConstSpec{Name: afm.Identifier(f.FontName), Comment: f.FontName}
		if i == 0 {
			spec.Type = "FontID"
			spec.Value = Ident("iota")
		}
		ids.Specs = append(ids.Specs, spec)
	}

	decls := []Decl{
		&TypeDecl{
			Doc:  "FontID identifies one of the compiled fonts.",
			Name: "FontID",
			Type: "int",
		},
	}
	if len(ids.Specs) > 0 {
		decls = append(decls, ids)
	}
	decls = append(decls,
		&Func{Doc: "Face returns the metrics of the font, or nil for invalid ids.", Source: fontIDFace},
		&Func{Source: fontIDString},
		&TypeDecl{
			Doc:  "Glyph holds the metrics of one glyph.",
			Name: "Glyph",
			Type: glyphType,
		},
		&TypeDecl{
			Doc:  "Face holds the metrics of one font.\nAll lengths are in units of 1/1000 of the font size.",
			Name: "Face",
			Type: faceType,
		},
		&Func{
			Doc:    "Glyph returns the metrics of the glyph for the given character.",
			Source: faceGlyph,
		},
		&Func{
			Doc:    "Kerning returns the kerning adjustment for a pair of characters.\nThe result is zero if the pair is not kerned.",
			Source: faceKerning,
		},
		&Const{Specs: []ConstSpec{
			{Name: "kernEmptyKey", Value: Hex(cuckoo.EmptyKey), Comment: "marks unused slots"},
		}},
		&TypeDecl{
			Doc:  "kernSlot maps a kerning pair key to an index into kernVectors.\nThe key of a pair is left | right<<16.",
			Name: "kernSlot",
			Type: "struct {\nkey uint32\nvector uint16\n}",
		},
		&TypeDecl{
			Doc:  "kernVector holds the kerning adjustments of one pair, for all fonts.",
			Name: "kernVector",
			Type: "[numKernColumns]int16",
		},
		&TypeDecl{
			Doc:  "kernGetter selects the adjustment of one font from a kernVector.",
			Name: "kernGetter",
			Type: "func(*kernVector) int16",
		},
	)

	return &File{
		Header:  Header,
		Package: d.Package,
		Decls:   decls,
	}
}

// Definitions returns the file which holds the font data.
func Definitions(d *Data) (*File, error) {
	p := d.Hash.Params
	decls := []Decl{
		&Const{Specs: []ConstSpec{
			{Name: "kernBuckets", Value: Int(p.Buckets)},
			{Name: "kernCells", Value: Int(p.Cells)},
			{Name: "kernNumHashes", Value: Int(p.Hash.Len())},
			{Name: "numKernColumns", Value: Int(len(d.Kern.Columns))},
		}},
	}

	hashDecls, err := hashFunc(p.Hash)
	if err != nil {
		return nil, err
	}
	decls = append(decls, hashDecls...)

	slots := &Composite{Type: "[kernBuckets * kernCells]kernSlot", PerLine: 4}
	for _, s := range d.Hash.Slots() {
		slots.Elems = append(slots.Elems, &Composite{
			Elems: []Expr{Hex(s.Key), Int(s.Value)},
		})
	}
	decls = append(decls, &Var{
		Doc:   p.String(),
		Name:  "kernTable",
		Value: slots,
	})

	vectors := &Composite{Type: "[...]kernVector", PerLine: 1}
	for _, v := range d.Kern.Vectors {
		vec := &Composite{}
		for _, x := range v {
			vec.Elems = append(vec.Elems, Int(x))
		}
		vectors.Elems = append(vectors.Elems, vec)
	}
	decls = append(decls, &Var{Name: "kernVectors", Value: vectors})

	for col, getter := range d.Kern.Columns {
		decls = append(decls, &Func{
			Source: fmt.Sprintf("func %s(v *kernVector) int16 {\nreturn v[%d]\n}", getter, col),
		})
	}

	table := &Composite{Type: "[...]*Face", PerLine: 1}
	for _, f := range d.Faces {
		name := faceVar(f)
		decls = append(decls, &Var{Name: name, Value: faceLiteral(f)})
		table.Elems = append(table.Elems, Ident("&"+name))
	}
	decls = append(decls, &Var{Name: "faces", Value: table})

	return &File{
		Header:  Header,
		Package: d.Package,
		Decls:   decls,
	}, nil
}

func hashFunc(h cuckoo.Hasher) ([]Decl, error) {
	switch h := h.(type) {
	case cuckoo.Division:
		moduli := &Composite{Type: "[kernNumHashes]uint32"}
		for _, m := range h {
			moduli.Elems = append(moduli.Elems, Int(m))
		}
		return []Decl{
			&Var{Name: "kernModuli", Value: moduli},
			&Func{Source: "func kernHash(i int, key uint32) uint32 {\nreturn key % kernModuli[i]\n}"},
		}, nil

	case *cuckoo.Universal:
		a := &Composite{Type: "[kernNumHashes]uint64"}
		b := &Composite{Type: "[kernNumHashes]uint64"}
		for i := range h.A {
			a.Elems = append(a.Elems, Int(h.A[i]))
			b.Elems = append(b.Elems, Int(h.B[i]))
		}
		return []Decl{
			&Var{Name: "kernHashA", Value: a},
			&Var{Name: "kernHashB", Value: b},
			&Func{Source: fmt.Sprintf(
				"func kernHash(i int, key uint32) uint32 {\nreturn uint32((kernHashA[i]*uint64(key) + kernHashB[i]) %% %d)\n}",
				uint64(cuckoo.UniversalPrime))},
		}, nil

	default:
		return nil, fmt.Errorf("emit: unsupported hash functions %T", h)
	}
}

func faceVar(f *afm.Face) string {
	return "face" + afm.Identifier(f.FontName)
}

func faceLiteral(f *afm.Face) *Composite {
	avg, widest, missing := f.Widths()
	bbox := &Composite{Type: "[4]int16", Elems: []Expr{
		Int(f.FontBBox.LLx), Int(f.FontBBox.LLy), Int(f.FontBBox.URx), Int(f.FontBBox.URy),
	}}
	glyphs := &Composite{Type: "[]Glyph", PerLine: 5}
	for _, g := range f.Glyphs {
		glyphs.Elems = append(glyphs.Elems, &Composite{
			Elems: []Expr{Int(g.Unicode), Int(g.Code), Int(g.WidthX)},
		})
	}
	hash := &Composite{Type: "[16]byte", PerLine: 8}
	for _, b := range f.Hash {
		hash.Elems = append(hash.Elems, Byte(b))
	}

	res := &Composite{Type: "Face", PerLine: 1, Elems: []Expr{
		&Keyed{"FontName", Str(f.FontName)},
		&Keyed{"FullName", Str(f.FullName)},
		&Keyed{"FamilyName", Str(f.FamilyName)},
		&Keyed{"EncodingScheme", Str(f.EncodingScheme)},
		&Keyed{"CharacterSet", Str(f.CharacterSet)},
		&Keyed{"BuiltinEncoding", Bool(f.BuiltinEncoding())},
		&Keyed{"FontBBox", bbox},
		&Keyed{"BaselineDistance", Int(f.BaselineDistance())},
		&Keyed{"Ascender", Int(f.Ascender)},
		&Keyed{"Descender", Int(f.Descender)},
		&Keyed{"CapHeight", Int(f.CapHeight)},
		&Keyed{"XHeight", Int(f.XHeight)},
		&Keyed{"AvgWidth", Int(avg)},
		&Keyed{"MaxWidth", Int(widest)},
		&Keyed{"MissingWidth", Int(missing)},
		&Keyed{"UnderlinePosition", Int(f.UnderlinePosition)},
		&Keyed{"UnderlineThickness", Int(f.UnderlineThickness)},
		&Keyed{"StdHW", Int(f.StdHW)},
		&Keyed{"StdVW", Int(f.StdVW)},
		&Keyed{"ItalicAngle", Float(f.ItalicAngle)},
		&Keyed{"IsFixedPitch", Bool(f.IsFixedPitch)},
		&Keyed{"Weight", Int(f.Weight)},
		&Keyed{"Glyphs", glyphs},
		&Keyed{"Hash", hash},
	}}
	if f.KernGetter != "" {
		res.Elems = append(res.Elems, &Keyed{"kern", Ident(f.KernGetter)})
	}
	return res
}

// reserved lists the font identifiers which would clash with the names
// used in the generated code.
var reserved = map[string]bool{
	"Face":      true,
	"FontID":    true,
	"Glyph":     true,
	"Buckets":   true,
	"Cells":     true,
	"NumHashes": true,
	"Moduli":    true,
	"Hash":      true,
	"HashA":     true,
	"HashB":     true,
	"Table":     true,
	"Vectors":   true,
	"Slot":      true,
	"Vector":    true,
	"Getter":    true,
	"EmptyKey":  true,
}

// CheckNames verifies that the identifiers derived from the font names
// can be used in the generated code.
func CheckNames(faces []*afm.Face) error {
	for _, f := range faces {
		id := afm.Identifier(f.FontName)
		if reserved[id] {
			return fmt.Errorf("emit: font %q: identifier %s is reserved", f.FontName, id)
		}
	}
	return nil
}

const glyphType = `struct {
	Unicode rune  // 0 if the glyph has no unicode mapping
	Code    int16 // -1 if the glyph is not encoded
	WidthX  int16
}`

const faceType = `struct {
	FontName        string
	FullName        string
	FamilyName      string
	EncodingScheme  string
	CharacterSet    string
	BuiltinEncoding bool

	FontBBox           [4]int16 // llx, lly, urx, ury
	BaselineDistance   int16
	Ascender           int16
	Descender          int16
	CapHeight          int16
	XHeight            int16
	AvgWidth           int16
	MaxWidth           int16
	MissingWidth       int16 // -1 if the font has no space character
	UnderlinePosition  int16
	UnderlineThickness int16
	StdHW              int16
	StdVW              int16

	ItalicAngle  float64
	IsFixedPitch bool
	Weight       int16

	// Glyphs is sorted by Code if BuiltinEncoding is set, and by Unicode
	// otherwise.
	Glyphs []Glyph

	// Hash is the MD5 digest of the AFM file.
	Hash [16]byte

	kern kernGetter // nil if the font has no kerning pairs
}`

const fontIDFace = `
func (id FontID) Face() *Face {
	if id < 0 || int(id) >= len(faces) {
		return nil
	}
	return faces[id]
}`

const fontIDString = `
func (id FontID) String() string {
	f := id.Face()
	if f == nil {
		return "FontID(invalid)"
	}
	return f.FontName
}`

const faceGlyph = `
func (f *Face) Glyph(r rune) (Glyph, bool) {
	if f.BuiltinEncoding {
		for _, g := range f.Glyphs {
			if g.Unicode == r {
				return g, true
			}
		}
		return Glyph{}, false
	}

	lo, hi := 0, len(f.Glyphs)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if f.Glyphs[mid].Unicode < r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(f.Glyphs) && f.Glyphs[lo].Unicode == r {
		return f.Glyphs[lo], true
	}
	return Glyph{}, false
}`

const faceKerning = `
func (f *Face) Kerning(left, right rune) int16 {
	if f.kern == nil || left < 0 || left > 0xFFFF || right < 0 || right > 0xFFFF {
		return 0
	}
	key := uint32(left) | uint32(right)<<16
	if key == kernEmptyKey {
		return 0
	}
	for i := 0; i < kernNumHashes; i++ {
		base := int(kernHash(i, key)%kernBuckets) * kernCells
		for j := 0; j < kernCells; j++ {
			if slot := &kernTable[base+j]; slot.key == key {
				return f.kern(&kernVectors[slot.vector])
			}
		}
	}
	return 0
}`
