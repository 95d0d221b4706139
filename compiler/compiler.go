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

// Package compiler turns a directory of AFM files into Go source code.
//
// The pipeline reads all fonts ([corpus.Read]), collects the kerning
// pairs into deduplicated offset vectors ([kern.Deduplicate]), finds a
// cuckoo hash table for the pairs ([cuckoo.Search]) and renders the
// results ([emit.Declarations], [emit.Definitions]).
package compiler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"seehuhn.de/go/afmc/afm"
	"seehuhn.de/go/afmc/corpus"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/emit"
	"seehuhn.de/go/afmc/kern"
)

// Options control the compiler.
type Options struct {
	// Pattern selects the AFM files.  The default is "*.afm".
	Pattern string

	// Package is the package name of the generated code.
	// The default is "stdfonts".
	Package string

	// ToUnicode maps glyph names to characters.
	// The default is [afm.StandardNames].
	ToUnicode afm.UnicodeFunc

	// Search configures the hash table search.
	Search *cuckoo.SearchOptions

	// Logger receives progress messages.  If this is nil, nothing is logged.
	Logger logrus.FieldLogger
}

var defaultOptions = &Options{}

// Result holds the outcome of a successful compiler run.
type Result struct {
	Corpus *corpus.Corpus
	Kern   *kern.Table
	Hash   *cuckoo.Table
	Report *cuckoo.Report

	// Declarations and Definitions hold the generated source code.
	Declarations []byte
	Definitions  []byte
}

// Compile runs the compiler on the AFM files in fsys.
func Compile(fsys fs.FS, opt *Options) (*Result, error) {
	if opt == nil {
		opt = defaultOptions
	}
	pkg := opt.Package
	if pkg == "" {
		pkg = "stdfonts"
	}
	log := opt.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	c, err := corpus.Read(fsys, opt.Pattern, &afm.ReadOptions{ToUnicode: opt.ToUnicode})
	if err != nil {
		return nil, err
	}
	for _, f := range c.Faces {
		log.WithFields(logrus.Fields{
			"font":   f.FontName,
			"glyphs": len(f.Glyphs),
		}).Debug("font read")
	}
	log.Infof("read %d fonts, %d kerning pairs", len(c.Faces), len(c.Pairs))
	if err := emit.CheckNames(c.Faces); err != nil {
		return nil, err
	}

	tab, err := kern.Deduplicate(c.Pairs)
	if err != nil {
		return nil, err
	}
	if len(tab.Vectors) > math.MaxUint16+1 {
		return nil, fmt.Errorf("compiler: too many distinct kerning vectors (%d)", len(tab.Vectors))
	}
	log.WithFields(logrus.Fields{
		"columns": len(tab.Columns),
		"vectors": len(tab.Vectors),
	}).Info("kerning vectors deduplicated")

	items := make([]cuckoo.Slot, len(tab.Entries))
	for i, e := range tab.Entries {
		items[i] = cuckoo.Slot{Key: uint32(e.Key), Value: uint32(e.Index)}
	}

	searchOpt := &cuckoo.SearchOptions{}
	if opt.Search != nil {
		*searchOpt = *opt.Search
	}
	progress := searchOpt.Progress
	searchOpt.Progress = func(a *cuckoo.Attempt) {
		if a.Err != nil {
			log.WithFields(logrus.Fields{
				"attempt": a.Number,
				"load":    fmt.Sprintf("%.3f", a.LoadFactor),
			}).Debugf("%s: %v", a.Params, a.Err)
		}
		if progress != nil {
			progress(a)
		}
	}

	ht, report, err := cuckoo.Search(items, searchOpt)
	if err != nil {
		return nil, err
	}
	if err := ht.Verify(items); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"attempts": len(report.Attempts),
		"load":     fmt.Sprintf("%.3f", ht.LoadFactor()),
	}).Infof("hash table: %s", ht.Params)

	data := &emit.Data{
		Package: pkg,
		Faces:   c.Faces,
		Kern:    tab,
		Hash:    ht,
	}
	decl, err := emit.Declarations(data).Source()
	if err != nil {
		return nil, err
	}
	defFile, err := emit.Definitions(data)
	if err != nil {
		return nil, err
	}
	def, err := defFile.Source()
	if err != nil {
		return nil, err
	}

	return &Result{
		Corpus:       c,
		Kern:         tab,
		Hash:         ht,
		Report:       report,
		Declarations: decl,
		Definitions:  def,
	}, nil
}

// WriteFiles writes the generated code to the given files.
//
// Both files are first written to temporary files next to their targets.
// Existing files are left alone until both temporary files are complete.
// If replacing the definitions file fails after the declarations file has
// been replaced, the returned error names both files.
func (r *Result) WriteFiles(declName, defName string) error {
	if declName == defName {
		return errors.New("compiler: declarations and definitions need different files")
	}

	declTmp, err := writeTemp(declName, r.Declarations)
	if err != nil {
		return err
	}
	defTmp, err := writeTemp(defName, r.Definitions)
	if err != nil {
		os.Remove(declTmp)
		return err
	}

	err = os.Rename(declTmp, declName)
	if err != nil {
		os.Remove(declTmp)
		os.Remove(defTmp)
		return err
	}
	err = os.Rename(defTmp, defName)
	if err != nil {
		os.Remove(defTmp)
		return fmt.Errorf("compiler: %s was updated but %s was not: %w", declName, defName, err)
	}
	return nil
}

func writeTemp(fname string, data []byte) (string, error) {
	fd, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".*")
	if err != nil {
		return "", err
	}
	_, err = fd.Write(data)
	if err == nil {
		err = fd.Chmod(0o644)
	}
	if err != nil {
		fd.Close()
		os.Remove(fd.Name())
		return "", err
	}
	err = fd.Close()
	if err != nil {
		os.Remove(fd.Name())
		return "", err
	}
	return fd.Name(), nil
}
