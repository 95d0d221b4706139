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

// Package afmc compiles the font metrics of the standard PDF fonts into
// Go lookup tables.
//
// The compiler reads a directory of Adobe Font Metrics (AFM) files and
// writes two Go source files: one declaring the data types and lookup
// functions, and one holding the metrics of all fonts.  Kerning pairs of
// all fonts are stored together in a static cuckoo hash table, keyed by
// the pair of characters.  The value stored for each pair indexes a
// table of kerning vectors, with one column per font.
//
// The compiler is normally run using the afmc command:
//
//	afmc -pkg stdfonts -decl decl.go -def data.go afm/
//
// It can also be used as a library:
//
//	res, err := compiler.Compile(os.DirFS("afm"), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = res.WriteFiles("decl.go", "data.go")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The subpackages implement the individual steps:
//
//	afm       parse one AFM file
//	corpus    read a directory of AFM files and collect the kerning pairs
//	kern      pack pairs into keys and deduplicate the kerning vectors
//	cuckoo    build and search cuckoo hash tables
//	emit      render the results as Go source code
//	compiler  run the whole pipeline
package afmc
