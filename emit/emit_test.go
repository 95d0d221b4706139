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
	"bytes"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/afmc/afm"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/kern"
)

func TestRender(t *testing.T) {
	f := &File{
		Header:  "Code generated - DO NOT EDIT.",
		Package: "p",
		Decls: []Decl{
			&Const{Specs: []ConstSpec{
				{Name: "A", Value: Int(1)},
				{Name: "B"},
			}},
			&Var{
				Name: "x",
				Value: &Composite{
					Type:    "[]int",
					Elems:   []Expr{Int(1), Int(2), Int(3)},
					PerLine: 2,
				},
			},
			&Func{
				Doc:    "f returns 1.",
				Source: "func f() int {\nreturn 1\n}",
			},
		},
	}

	buf := &bytes.Buffer{}
	_, err := f.WriteTo(buf)
	if err != nil {
		t.Fatal(err)
	}

	want := `// Code generated - DO NOT EDIT.

package p

const (
	A = 1
	B
)

var x = []int{
	1, 2,
	3,
}

// f returns 1.
func f() int {
	return 1
}
`
	if d := cmp.Diff(want, buf.String()); d != "" {
		t.Errorf("output differs (-want +got):\n%s", d)
	}
}

func TestLiterals(t *testing.T) {
	cases := []struct {
		expr Expr
		want string
	}{
		{Int(-80), "-80"},
		{Hex(0x00570041), "0x00570041"},
		{Byte(10), "0x0a"},
		{Str("Times \"Roman\""), `"Times \"Roman\""`},
		{Bool(true), "true"},
		{Float(-12), "-12.0"},
		{Float(-9.5), "-9.5"},
		{Ident("&faceX"), "&faceX"},
		{&Composite{Elems: []Expr{Int(1), Int(2)}}, "{1, 2}"},
		{&Composite{Type: "T"}, "T{}"},
		{&Keyed{Key: "A", Value: Int(1)}, "A: 1"},
	}
	for _, c := range cases {
		buf := &bytes.Buffer{}
		c.expr.writeExpr(buf)
		if got := buf.String(); got != c.want {
			t.Errorf("got %s, want %s", got, c.want)
		}
	}
}

func TestFormatError(t *testing.T) {
	f := &File{
		Package: "p",
		Decls:   []Decl{&Func{Source: "func f( {"}},
	}
	if _, err := f.Source(); err == nil {
		t.Error("invalid source accepted")
	}
}

func testData(t *testing.T, h cuckoo.Hasher) *Data {
	t.Helper()

	latin := []afm.Glyph{
		{Name: "space", Unicode: ' ', Code: 32, WidthX: 278},
		{Name: "A", Unicode: 'A', Code: 65, WidthX: 667},
		{Name: "W", Unicode: 'W', Code: 87, WidthX: 944},
		{Name: "Adieresis", Unicode: 'Ä', Code: -1, WidthX: 667},
	}
	bbox := funit.Rect16{LLx: -166, LLy: -225, URx: 1000, URy: 931}
	helvetica := &afm.Face{
		FontName:       "Helvetica",
		FullName:       "Helvetica",
		FamilyName:     "Helvetica",
		EncodingScheme: "AdobeStandardEncoding",
		FontBBox:       bbox,
		Ascender:       718,
		Descender:      -207,
		Weight:         400,
		Glyphs:         latin,
		KernGetter:     "kernHelvetica",
		Hash:           [16]byte{0: 1, 15: 255},
	}
	symbol := &afm.Face{
		FontName:       "Symbol",
		EncodingScheme: "FontSpecific",
		Glyphs: []afm.Glyph{
			{Name: "space", Unicode: ' ', Code: 32, WidthX: 250},
			{Name: "alpha", Unicode: 'α', Code: 97, WidthX: 631},
		},
	}
	times := &afm.Face{
		FontName:       "Times-Italic",
		EncodingScheme: "AdobeStandardEncoding",
		ItalicAngle:    -15.5,
		Glyphs:         latin,
		KernGetter:     "kernTimesItalic",
	}

	pairs := kern.Pairs{}
	pairs.Add("kernHelvetica", kern.Pair{Left: 'A', Right: 'W'}, -80)
	pairs.Add("kernTimesItalic", kern.Pair{Left: 'A', Right: 'W'}, -80)
	pairs.Add("kernHelvetica", kern.Pair{Left: 'W', Right: 'A'}, -60)
	pairs.Add("kernTimesItalic", kern.Pair{Left: 'W', Right: 'A'}, -92)
	pairs.Add("kernTimesItalic", kern.Pair{Left: 'A', Right: 'A'}, 0)
	tab, err := kern.Deduplicate(pairs)
	if err != nil {
		t.Fatal(err)
	}

	var items []cuckoo.Slot
	for _, e := range tab.Entries {
		items = append(items, cuckoo.Slot{Key: uint32(e.Key), Value: uint32(e.Index)})
	}
	p := cuckoo.Params{Buckets: 8, Cells: 2, Hash: h}
	ht, err := cuckoo.Build(p, items, 1)
	if err != nil {
		t.Fatal(err)
	}

	return &Data{
		Package: "fonts",
		Faces:   []*afm.Face{helvetica, symbol, times},
		Kern:    tab,
		Hash:    ht,
	}
}

// checkGenerated parses and type-checks the generated files.
func checkGenerated(t *testing.T, d *Data) (*ast.File, *types.Info, *types.Package) {
	t.Helper()

	declSrc, err := Declarations(d).Source()
	if err != nil {
		t.Fatal(err)
	}
	defFile, err := Definitions(d)
	if err != nil {
		t.Fatal(err)
	}
	defSrc, err := defFile.Source()
	if err != nil {
		t.Fatal(err)
	}

	fset := token.NewFileSet()
	decl, err := parser.ParseFile(fset, "decl.go", declSrc, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	def, err := parser.ParseFile(fset, "def.go", defSrc, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	if len(decl.Imports) > 0 || len(def.Imports) > 0 {
		t.Error("generated code has imports")
	}
	if !ast.IsGenerated(decl) || !ast.IsGenerated(def) {
		t.Error("generated files are not marked")
	}

	info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}
	conf := &types.Config{}
	pkg, err := conf.Check(d.Package, fset, []*ast.File{decl, def}, info)
	if err != nil {
		t.Fatal(err)
	}
	return def, info, pkg
}

func TestGenerated(t *testing.T) {
	for _, h := range []cuckoo.Hasher{
		cuckoo.Division{1984061, 885931},
		&cuckoo.Universal{A: []uint32{12345, 4000000000}, B: []uint32{7, 0}},
	} {
		d := testData(t, h)
		def, info, pkg := checkGenerated(t, d)
		scope := pkg.Scope()

		for i, name := range []string{"Helvetica", "Symbol", "TimesItalic"} {
			obj, ok := scope.Lookup(name).(*types.Const)
			if !ok {
				t.Fatalf("missing constant %s", name)
			}
			if v, _ := constant.Int64Val(obj.Val()); v != int64(i) {
				t.Errorf("%s = %d, want %d", name, v, i)
			}
		}
		for name, want := range map[string]int64{
			"kernBuckets":    8,
			"kernCells":      2,
			"kernNumHashes":  2,
			"numKernColumns": 2,
		} {
			obj := scope.Lookup(name).(*types.Const)
			if v, _ := constant.Int64Val(obj.Val()); v != want {
				t.Errorf("%s = %d, want %d", name, v, want)
			}
		}
		for _, name := range []string{"kernHelvetica", "kernTimesItalic", "kernHash"} {
			if _, ok := scope.Lookup(name).(*types.Func); !ok {
				t.Errorf("missing function %s", name)
			}
		}
		if scope.Lookup("kernSymbol") != nil {
			t.Error("getter for a font without kerning")
		}

		var slots []cuckoo.Slot
		for _, elt := range varLiteral(t, def, "kernTable").Elts {
			ee := elt.(*ast.CompositeLit).Elts
			slots = append(slots, cuckoo.Slot{
				Key:   uint32(intValue(t, info, ee[0])),
				Value: uint32(intValue(t, info, ee[1])),
			})
		}
		if diff := cmp.Diff(d.Hash.Slots(), slots); diff != "" {
			t.Errorf("kernTable differs (-want +got):\n%s", diff)
		}

		var vectors []kern.Vector
		for _, elt := range varLiteral(t, def, "kernVectors").Elts {
			var v kern.Vector
			for _, x := range elt.(*ast.CompositeLit).Elts {
				v = append(v, funit.Int16(intValue(t, info, x)))
			}
			vectors = append(vectors, v)
		}
		if diff := cmp.Diff(d.Kern.Vectors, vectors); diff != "" {
			t.Errorf("kernVectors differs (-want +got):\n%s", diff)
		}

		if n := len(varLiteral(t, def, "faces").Elts); n != 3 {
			t.Errorf("%d faces", n)
		}
	}
}

func TestFaceLiteral(t *testing.T) {
	d := testData(t, cuckoo.Division{1984061, 885931})
	def, info, _ := checkGenerated(t, d)

	fields := map[string]ast.Expr{}
	for _, elt := range varLiteral(t, def, "faceHelvetica").Elts {
		kv := elt.(*ast.KeyValueExpr)
		fields[kv.Key.(*ast.Ident).Name] = kv.Value
	}
	for name, want := range map[string]int64{
		"BaselineDistance": 1200,
		"Ascender":         718,
		"Descender":        -207,
		"AvgWidth":         (278 + 667 + 944 + 667) / 4,
		"MaxWidth":         944,
		"MissingWidth":     278,
		"Weight":           400,
	} {
		if got := intValue(t, info, fields[name]); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	if kernGetter, ok := fields["kern"].(*ast.Ident); !ok || kernGetter.Name != "kernHelvetica" {
		t.Errorf("wrong kerning getter")
	}
	if n := len(fields["Glyphs"].(*ast.CompositeLit).Elts); n != 4 {
		t.Errorf("%d glyphs", n)
	}
	if n := len(fields["Hash"].(*ast.CompositeLit).Elts); n != 16 {
		t.Errorf("%d hash bytes", n)
	}

	bbox, ok := fields["FontBBox"].(*ast.CompositeLit)
	if !ok {
		t.Fatalf("FontBBox is a %T", fields["FontBBox"])
	}
	if tv := info.Types[bbox]; tv.Type == nil || tv.Type.String() != "[4]int16" {
		t.Errorf("FontBBox has type %v", tv.Type)
	}
	var box []int64
	for _, e := range bbox.Elts {
		box = append(box, intValue(t, info, e))
	}
	if diff := cmp.Diff([]int64{-166, -225, 1000, 931}, box); diff != "" {
		t.Errorf("FontBBox differs (-want +got):\n%s", diff)
	}

	symbol := varLiteral(t, def, "faceSymbol")
	for _, elt := range symbol.Elts {
		kv := elt.(*ast.KeyValueExpr)
		switch kv.Key.(*ast.Ident).Name {
		case "kern":
			t.Error("Symbol has a kerning getter")
		case "BuiltinEncoding":
			if kv.Value.(*ast.Ident).Name != "true" {
				t.Error("Symbol uses the standard encoding")
			}
		}
	}
}

type badHasher struct{}

func (badHasher) Len() int                { return 1 }
func (badHasher) Hash(int, uint32) uint32 { return 0 }
func (badHasher) String() string          { return "bad" }

func TestUnsupportedHasher(t *testing.T) {
	d := testData(t, cuckoo.Division{3})
	d.Hash.Params.Hash = badHasher{}
	if _, err := Definitions(d); err == nil {
		t.Error("unsupported hash functions accepted")
	}
}

func TestCheckNames(t *testing.T) {
	ok := []*afm.Face{{FontName: "Courier"}, {FontName: "Times-Roman"}}
	if err := CheckNames(ok); err != nil {
		t.Error(err)
	}
	bad := []*afm.Face{{FontName: "Courier"}, {FontName: "Glyph"}}
	if err := CheckNames(bad); err == nil {
		t.Error("reserved name accepted")
	}
}

func varLiteral(t *testing.T, f *ast.File, name string) *ast.CompositeLit {
	t.Helper()
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			if vs.Names[0].Name == name {
				var lit ast.Expr = vs.Values[0]
				if u, ok := lit.(*ast.UnaryExpr); ok {
					lit = u.X
				}
				return lit.(*ast.CompositeLit)
			}
		}
	}
	t.Fatalf("variable %s not found", name)
	return nil
}

func intValue(t *testing.T, info *types.Info, e ast.Expr) int64 {
	t.Helper()
	tv, ok := info.Types[e]
	if !ok || tv.Value == nil {
		t.Fatalf("not a constant: %T", e)
	}
	v, exact := constant.Int64Val(tv.Value)
	if !exact {
		t.Fatalf("not an integer: %s", tv.Value)
	}
	return v
}
