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

package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"golang.org/x/text/unicode/runenames"

	"seehuhn.de/go/afmc/corpus"
	"seehuhn.de/go/afmc/tools/internal/buildinfo"
)

var (
	patternArg = flag.String("pattern", "*.afm", "glob `pattern` for the AFM files")
	topArg     = flag.Int("n", 20, "show the `n` most widely kerned pairs")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "afm-kernstat \u2014 show kerning statistics of a set of AFM files\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("afm-kernstat"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  afm-kernstat [options] <afm-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	c, err := corpus.Read(os.DirFS(flag.Arg(0)), *patternArg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report(os.Stdout, c, *topArg)
}

func report(w io.Writer, c *corpus.Corpus, top int) {
	s := c.Stats()

	fmt.Fprintf(w, "fonts:            %d\n", len(c.Faces))
	fmt.Fprintf(w, "kerning pairs:    %d\n", s.Total)
	fmt.Fprintf(w, "unique pairs:     %d\n", s.UniquePairs)
	fmt.Fprintf(w, "unique values:    %d\n", s.UniqueValues)
	fmt.Fprintf(w, "unique chars:     %d\n", s.UniqueChars)
	if s.Total > 0 {
		fmt.Fprintf(w, "value range:      %d .. %d\n", s.MinValue, s.MaxValue)
		fmt.Fprintf(w, "character range:  %U .. %U\n", s.MinChar, s.MaxChar)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "pairs per font:")
	for _, f := range c.Faces {
		fmt.Fprintf(w, "  %-24s %6d\n", f.FontName, s.PerFont[f.KernGetter])
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "pairs kerned by n fonts:")
	for _, n := range slices.Sorted(maps.Keys(s.Sharing)) {
		fmt.Fprintf(w, "  %2d %6d\n", n, s.Sharing[n])
	}

	if top <= 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "most widely kerned pairs:")
	for _, pc := range c.MostShared(top) {
		fmt.Fprintf(w, "  %2d  %-32s %s + %s\n", pc.Fonts, pc.Pair,
			charName(pc.Pair.Left), charName(pc.Pair.Right))
	}
}

func charName(r rune) string {
	name := runenames.Name(r)
	if name == "" {
		return fmt.Sprintf("%U", r)
	}
	return name
}
