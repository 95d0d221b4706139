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

// Package corpus reads a directory of AFM files and collects the kerning
// pairs of all fonts in a single map.
package corpus

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"seehuhn.de/go/afmc/afm"
	"seehuhn.de/go/afmc/kern"
)

// Corpus holds the faces read from a set of AFM files, together with the
// kerning pairs of all faces.
type Corpus struct {
	// Faces is sorted by font name.
	Faces []*afm.Face

	// Pairs maps each kerning pair to the adjustments of the fonts which
	// kern this pair.  The inner keys are the KernGetter values of the faces.
	Pairs kern.Pairs

	byName map[string]*afm.Face
	byID   map[string]*afm.Face
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{
		Pairs:  kern.Pairs{},
		byName: make(map[string]*afm.Face),
		byID:   make(map[string]*afm.Face),
	}
}

// Read parses all files in fsys which match pattern.
// If pattern is empty, "*.afm" is used.  The options are passed to
// [afm.Read]; the Kern and FileName fields are set by this function.
func Read(fsys fs.FS, pattern string, opt *afm.ReadOptions) (*Corpus, error) {
	if pattern == "" {
		pattern = "*.afm"
	}
	files, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	c := New()
	for _, name := range files {
		err := c.readFile(fsys, name, opt)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Corpus) readFile(fsys fs.FS, name string, opt *afm.ReadOptions) error {
	fd, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer fd.Close()

	_, err = c.Add(fd, name, opt)
	return err
}

// Add reads one AFM file and adds it to the corpus.
// The name is used in error messages.
func (c *Corpus) Add(r io.Reader, name string, opt *afm.ReadOptions) (*afm.Face, error) {
	var readOpt afm.ReadOptions
	if opt != nil {
		readOpt = *opt
	}
	staged := kern.Pairs{}
	readOpt.FileName = name
	readOpt.Kern = staged

	face, err := afm.Read(r, &readOpt)
	if err != nil {
		return nil, err
	}

	if other, dup := c.byName[face.FontName]; dup {
		return nil, fmt.Errorf("%s: %w: %q", name, errDuplicate, other.FontName)
	}
	id := afm.Identifier(face.FontName)
	if other, dup := c.byID[id]; dup {
		return nil, fmt.Errorf("%s: font names %q and %q both map to %s",
			name, face.FontName, other.FontName, id)
	}
	c.byName[face.FontName] = face
	c.byID[id] = face

	for pair, m := range staged {
		for getter, adjust := range m {
			c.Pairs.Add(getter, pair, adjust)
		}
	}

	i, _ := slices.BinarySearchFunc(c.Faces, face.FontName, func(f *afm.Face, name string) int {
		return cmp.Compare(f.FontName, name)
	})
	c.Faces = slices.Insert(c.Faces, i, face)
	return face, nil
}

// Face returns the face with the given font name, or nil.
func (c *Corpus) Face(fontName string) *afm.Face {
	return c.byName[fontName]
}

var errDuplicate = errors.New("duplicate font")
