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

// Package emit renders the compiled font data as Go source code.
//
// Generated files are described by a small tree of declarations and
// literal expressions ([File], [Decl], [Expr]).  [Declarations] and
// [Definitions] build the two files used by the text layout code.
package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
	"strings"
)

// File is a generated Go source file.
type File struct {
	// Header is placed above the package clause, one comment line per
	// line of text.
	Header string

	Package string
	Decls   []Decl
}

// Source returns the formatted source code of the file.
func (f *File) Source() ([]byte, error) {
	w := &bytes.Buffer{}
	if f.Header != "" {
		writeComment(w, f.Header)
		w.WriteString("\n")
	}
	fmt.Fprintf(w, "package %s\n", f.Package)
	for _, d := range f.Decls {
		w.WriteString("\n")
		d.writeDecl(w)
	}

	src, err := format.Source(w.Bytes())
	if err != nil {
		return nil, fmt.Errorf("emit: package %s: %w", f.Package, err)
	}
	return src, nil
}

// WriteTo writes the formatted source code of the file to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	src, err := f.Source()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(src)
	return int64(n), err
}

// Decl is a top-level declaration.
type Decl interface {
	writeDecl(w *bytes.Buffer)
}

// Const is a parenthesised group of constant declarations.
type Const struct {
	Doc   string
	Specs []ConstSpec
}

// ConstSpec is one line of a constant group.  If Value is nil, the
// previous type and expression are repeated, as for iota.
type ConstSpec struct {
	Name    string
	Type    string
	Value   Expr
	Comment string
}

func (c *Const) writeDecl(w *bytes.Buffer) {
	writeComment(w, c.Doc)
	w.WriteString("const (\n")
	for _, s := range c.Specs {
		w.WriteString(s.Name)
		if s.Value != nil {
			if s.Type != "" {
				w.WriteString(" " + s.Type)
			}
			w.WriteString(" = ")
			s.Value.writeExpr(w)
		}
		if s.Comment != "" {
			w.WriteString(" // " + s.Comment)
		}
		w.WriteString("\n")
	}
	w.WriteString(")\n")
}

// Var is a variable declaration.  Type may be empty if Value is set.
type Var struct {
	Doc   string
	Name  string
	Type  string
	Value Expr
}

func (v *Var) writeDecl(w *bytes.Buffer) {
	writeComment(w, v.Doc)
	w.WriteString("var " + v.Name)
	if v.Type != "" {
		w.WriteString(" " + v.Type)
	}
	if v.Value != nil {
		w.WriteString(" = ")
		v.Value.writeExpr(w)
	}
	w.WriteString("\n")
}

// TypeDecl declares a named type.  Type is the Go source of the
// underlying type.
type TypeDecl struct {
	Doc  string
	Name string
	Type string
}

func (t *TypeDecl) writeDecl(w *bytes.Buffer) {
	writeComment(w, t.Doc)
	fmt.Fprintf(w, "type %s %s\n", t.Name, t.Type)
}

// Func is a function or method declaration, given as Go source.
type Func struct {
	Doc    string
	Source string
}

func (f *Func) writeDecl(w *bytes.Buffer) {
	writeComment(w, f.Doc)
	w.WriteString(strings.TrimSpace(f.Source))
	w.WriteString("\n")
}

func writeComment(w *bytes.Buffer, text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			w.WriteString("//\n")
		} else {
			w.WriteString("// " + line + "\n")
		}
	}
}

// Expr is a Go expression.
type Expr interface {
	writeExpr(w *bytes.Buffer)
}

// Int is a decimal integer literal.
type Int int64

func (x Int) writeExpr(w *bytes.Buffer) {
	w.WriteString(strconv.FormatInt(int64(x), 10))
}

// Hex is a 32-bit integer literal, written with 8 hex digits.
type Hex uint32

func (x Hex) writeExpr(w *bytes.Buffer) {
	fmt.Fprintf(w, "0x%08x", uint32(x))
}

// Byte is a byte literal, written with 2 hex digits.
type Byte byte

func (x Byte) writeExpr(w *bytes.Buffer) {
	fmt.Fprintf(w, "0x%02x", byte(x))
}

// Str is a string literal.
type Str string

func (x Str) writeExpr(w *bytes.Buffer) {
	w.WriteString(strconv.Quote(string(x)))
}

// Bool is a boolean literal.
type Bool bool

func (x Bool) writeExpr(w *bytes.Buffer) {
	w.WriteString(strconv.FormatBool(bool(x)))
}

// Float is a floating point literal.
type Float float64

func (x Float) writeExpr(w *bytes.Buffer) {
	s := strconv.FormatFloat(float64(x), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	w.WriteString(s)
}

// Ident is an identifier, or any other expression given as Go source.
type Ident string

func (x Ident) writeExpr(w *bytes.Buffer) {
	w.WriteString(string(x))
}

// Composite is a composite literal.  Type may be empty for elements of
// an enclosing composite literal.
type Composite struct {
	Type  string
	Elems []Expr

	// PerLine is the number of elements per line.  If this is zero, all
	// elements are written on one line.
	PerLine int
}

func (x *Composite) writeExpr(w *bytes.Buffer) {
	w.WriteString(x.Type)
	w.WriteString("{")
	if x.PerLine <= 0 {
		for i, e := range x.Elems {
			if i > 0 {
				w.WriteString(", ")
			}
			e.writeExpr(w)
		}
		w.WriteString("}")
		return
	}

	if len(x.Elems) > 0 {
		w.WriteString("\n")
	}
	for i, e := range x.Elems {
		e.writeExpr(w)
		if (i+1)%x.PerLine == 0 || i == len(x.Elems)-1 {
			w.WriteString(",\n")
		} else {
			w.WriteString(", ")
		}
	}
	w.WriteString("}")
}

// Keyed is a key: value element of a composite literal.
type Keyed struct {
	Key   string
	Value Expr
}

func (x *Keyed) writeExpr(w *bytes.Buffer) {
	w.WriteString(x.Key + ": ")
	x.Value.writeExpr(w)
}
