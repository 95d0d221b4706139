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

package compiler

import (
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"seehuhn.de/go/afmc/afm"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/internal/testafm"
)

// generated holds the kerning data of a compiled package, read back from
// the generated source.
type generated struct {
	buckets, cells, numHashes int

	moduli     []uint64
	hashA      []uint64
	hashB      []uint64
	table      []cuckoo.Slot
	vectors    [][]int64
	getterCol  map[string]int
	faceGetter map[string]string // font identifier -> getter
}

// loadGenerated parses and type-checks the two generated files of r and
// extracts the kerning tables.
func loadGenerated(t *testing.T, r *Result, pkgName string) *generated {
	t.Helper()

	fset := token.NewFileSet()
	decl, err := parser.ParseFile(fset, "decl.go", r.Declarations, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	def, err := parser.ParseFile(fset, "def.go", r.Definitions, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	if !ast.IsGenerated(decl) || !ast.IsGenerated(def) {
		t.Error("generated files are not marked")
	}
	info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}
	pkg, err := (&types.Config{}).Check(pkgName, fset, []*ast.File{decl, def}, info)
	if err != nil {
		t.Fatal(err)
	}

	intVal := func(e ast.Expr) int64 {
		t.Helper()
		tv, ok := info.Types[e]
		if !ok || tv.Value == nil {
			t.Fatalf("not a constant: %T", e)
		}
		v, exact := constant.Int64Val(constant.ToInt(tv.Value))
		if !exact {
			t.Fatalf("not an int64: %s", tv.Value)
		}
		return v
	}
	uintVal := func(e ast.Expr) uint64 {
		t.Helper()
		tv, ok := info.Types[e]
		if !ok || tv.Value == nil {
			t.Fatalf("not a constant: %T", e)
		}
		v, exact := constant.Uint64Val(constant.ToInt(tv.Value))
		if !exact {
			t.Fatalf("not a uint64: %s", tv.Value)
		}
		return v
	}
	constVal := func(name string) int {
		t.Helper()
		obj, ok := pkg.Scope().Lookup(name).(*types.Const)
		if !ok {
			t.Fatalf("missing constant %s", name)
		}
		v, _ := constant.Int64Val(obj.Val())
		return int(v)
	}

	vars := map[string]*ast.CompositeLit{}
	g := &generated{
		buckets:    constVal("kernBuckets"),
		cells:      constVal("kernCells"),
		numHashes:  constVal("kernNumHashes"),
		getterCol:  map[string]int{},
		faceGetter: map[string]string{},
	}
	for _, d := range def.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, s := range d.Specs {
				vs := s.(*ast.ValueSpec)
				var e ast.Expr = vs.Values[0]
				if u, ok := e.(*ast.UnaryExpr); ok {
					e = u.X
				}
				if lit, ok := e.(*ast.CompositeLit); ok {
					vars[vs.Names[0].Name] = lit
				}
			}
		case *ast.FuncDecl:
			if len(d.Body.List) != 1 {
				continue
			}
			ret, ok := d.Body.List[0].(*ast.ReturnStmt)
			if !ok || len(ret.Results) != 1 {
				continue
			}
			if idx, ok := ret.Results[0].(*ast.IndexExpr); ok {
				g.getterCol[d.Name.Name] = int(intVal(idx.Index))
			}
		}
	}

	elems := func(name string) []ast.Expr {
		t.Helper()
		lit, ok := vars[name]
		if !ok {
			t.Fatalf("missing variable %s", name)
		}
		return lit.Elts
	}
	for _, e := range elems("kernTable") {
		ee := e.(*ast.CompositeLit).Elts
		g.table = append(g.table, cuckoo.Slot{
			Key:   uint32(uintVal(ee[0])),
			Value: uint32(uintVal(ee[1])),
		})
	}
	for _, e := range elems("kernVectors") {
		var v []int64
		for _, x := range e.(*ast.CompositeLit).Elts {
			v = append(v, intVal(x))
		}
		g.vectors = append(g.vectors, v)
	}
	if _, ok := vars["kernModuli"]; ok {
		for _, e := range elems("kernModuli") {
			g.moduli = append(g.moduli, uintVal(e))
		}
	} else {
		for _, e := range elems("kernHashA") {
			g.hashA = append(g.hashA, uintVal(e))
		}
		for _, e := range elems("kernHashB") {
			g.hashB = append(g.hashB, uintVal(e))
		}
	}
	for name, lit := range vars {
		id, ok := strings.CutPrefix(name, "face")
		if !ok || name == "faces" {
			continue
		}
		for _, e := range lit.Elts {
			kv, ok := e.(*ast.KeyValueExpr)
			if !ok {
				continue
			}
			if kv.Key.(*ast.Ident).Name == "kern" {
				g.faceGetter[id] = kv.Value.(*ast.Ident).Name
			}
		}
	}

	if len(g.table) != g.buckets*g.cells {
		t.Fatalf("%d slots for %d buckets of %d cells", len(g.table), g.buckets, g.cells)
	}
	return g
}

func (g *generated) hash(i int, key uint32) uint32 {
	if g.moduli != nil {
		return uint32(uint64(key) % g.moduli[i])
	}
	return uint32((g.hashA[i]*uint64(key) + g.hashB[i]) % cuckoo.UniversalPrime)
}

// kerning evaluates the lookup of the generated Face.Kerning method.
func (g *generated) kerning(t *testing.T, face string, left, right rune) int64 {
	t.Helper()
	getter, ok := g.faceGetter[face]
	if !ok {
		return 0
	}
	col, ok := g.getterCol[getter]
	if !ok {
		t.Fatalf("missing getter %s", getter)
	}
	key := uint32(left) | uint32(right)<<16
	for i := 0; i < g.numHashes; i++ {
		base := int(g.hash(i, key)%uint32(g.buckets)) * g.cells
		for j := 0; j < g.cells; j++ {
			if slot := g.table[base+j]; slot.Key == key {
				return g.vectors[slot.Value][col]
			}
		}
	}
	return 0
}

func TestGeneratedLookup(t *testing.T) {
	fsys := mapFS(
		testafm.New("Helvetica",
			testafm.Kern{Left: "A", Right: "W", Adjust: -80},
			testafm.Kern{Left: "W", Right: "o", Adjust: -30},
			testafm.Kern{Left: "T", Right: "period", Adjust: -120},
		),
		testafm.New("Times-Roman",
			testafm.Kern{Left: "A", Right: "W", Adjust: -90},
			testafm.Kern{Left: "T", Right: "o", Adjust: -80},
			testafm.Kern{Left: "T", Right: "period", Adjust: -120},
		),
		testafm.New("Courier"),
	)
	for _, search := range []*cuckoo.SearchOptions{
		nil,
		{
			Fixed:    []cuckoo.Params{},
			Strategy: &cuckoo.DivisionStrategy{Buckets: []int{5, 7, 11}, Cells: 1, Funcs: 3},
			Seed:     7,
		},
		{
			Fixed:    []cuckoo.Params{},
			Strategy: &cuckoo.UniversalStrategy{Cells: 1, Funcs: 3},
			Seed:     7,
		},
	} {
		r, err := Compile(fsys, &Options{Search: search, Package: "fonts"})
		if err != nil {
			t.Fatal(err)
		}
		g := loadGenerated(t, r, "fonts")

		if len(g.vectors) != len(r.Kern.Vectors) {
			t.Fatalf("%d vectors, want %d", len(g.vectors), len(r.Kern.Vectors))
		}
		if len(g.faceGetter) != 2 {
			t.Errorf("%d fonts with kerning", len(g.faceGetter))
		}
		if _, ok := g.faceGetter["Courier"]; ok {
			t.Error("Courier has a kerning getter")
		}
		for _, f := range r.Corpus.Faces {
			for _, e := range r.Kern.Entries {
				pair := e.Key.Split()
				want := int64(r.Kern.Adjust(f.KernGetter, pair))
				got := g.kerning(t, afm.Identifier(f.FontName), pair.Left, pair.Right)
				if got != want {
					t.Errorf("%s, %s: got %d, want %d", f.FontName, pair, got, want)
				}
			}
			if got := g.kerning(t, afm.Identifier(f.FontName), 'Q', 'Q'); got != 0 {
				t.Errorf("%s: unknown pair kerned by %d", f.FontName, got)
			}
		}
	}
}

func TestGeneratedNoKerning(t *testing.T) {
	r, err := Compile(mapFS(testafm.New("Courier"), testafm.New("Courier-Bold")), nil)
	if err != nil {
		t.Fatal(err)
	}
	g := loadGenerated(t, r, "stdfonts")
	if len(g.vectors) != 1 {
		t.Errorf("%d vectors", len(g.vectors))
	}
	for _, s := range g.table {
		if s.Key != cuckoo.EmptyKey {
			t.Errorf("occupied slot %v", s)
		}
	}
}
