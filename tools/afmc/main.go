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
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"seehuhn.de/go/afmc/compiler"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/tools/internal/buildinfo"
	"seehuhn.de/go/afmc/tools/internal/profile"
)

var (
	pkgArg     = flag.String("pkg", "stdfonts", "package name of the generated code")
	declArg    = flag.String("decl", "fonts_decl.go", "write the declarations to `file`")
	defArg     = flag.String("def", "fonts_data.go", "write the font data to `file`")
	patternArg = flag.String("pattern", "*.afm", "glob `pattern` for the AFM files")
	seedArg    = flag.Uint64("seed", 0, "random seed for the hash table search")
	budgetArg  = flag.Int("budget", 1000, "maximal number of random hash table configurations")
	hashArg    = flag.String("hash", "division", "hash function family, `division` or universal")
	funcsArg   = flag.Int("funcs", 2, "number of hash functions")
	cellsArg   = flag.Int("cells", 2, "number of cells per bucket")
	bucketsArg = flag.Int("buckets", 0, "number of buckets (default: chosen at random)")
	noFixedArg = flag.Bool("no-fixed", false, "skip the known-good hash table configuration")
	verboseArg = flag.Bool("v", false, "show debug messages")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "afmc \u2014 compile AFM font metrics into Go lookup tables\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("afmc"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  afmc [options] <afm-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  afm-dir    directory containing the AFM files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  afmc -pkg stdmtx -decl decl.go -def data.go afm/\n")
		fmt.Fprintf(os.Stderr, "  afmc -no-fixed -hash universal -seed 7 afm/\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verboseArg {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(log, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(log *logrus.Logger, dir string) error {
	prof, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer func() {
		if err := prof.Stop(); err != nil {
			log.Error(err)
		}
	}()

	search, err := searchOptions()
	if err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stderr.Fd())) && !*verboseArg {
		search.Progress = func(a *cuckoo.Attempt) {
			fmt.Fprintf(os.Stderr, "\rattempt %d, load factor %.3f ", a.Number+1, a.LoadFactor)
			if a.Err == nil {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	opt := &compiler.Options{
		Package: *pkgArg,
		Pattern: *patternArg,
		Search:  search,
		Logger:  log,
	}
	res, err := compiler.Compile(os.DirFS(dir), opt)
	if err != nil {
		return err
	}

	err = res.WriteFiles(*declArg, *defArg)
	if err != nil {
		return err
	}
	log.Infof("wrote %s and %s", *declArg, *defArg)
	return nil
}

func searchOptions() (*cuckoo.SearchOptions, error) {
	var buckets []int
	if *bucketsArg > 0 {
		buckets = []int{*bucketsArg}
	}

	var strategy cuckoo.Strategy
	switch *hashArg {
	case "division":
		strategy = &cuckoo.DivisionStrategy{
			Buckets: buckets,
			Cells:   *cellsArg,
			Funcs:   *funcsArg,
		}
	case "universal":
		strategy = &cuckoo.UniversalStrategy{
			Buckets: buckets,
			Cells:   *cellsArg,
			Funcs:   *funcsArg,
		}
	default:
		return nil, fmt.Errorf("unknown hash function family %q", *hashArg)
	}

	opt := &cuckoo.SearchOptions{
		Strategy: strategy,
		Budget:   *budgetArg,
		Seed:     *seedArg,
	}
	if *noFixedArg {
		opt.Fixed = []cuckoo.Params{}
	}
	return opt, nil
}
