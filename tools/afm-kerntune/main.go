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

	"seehuhn.de/go/afmc/corpus"
	"seehuhn.de/go/afmc/cuckoo"
	"seehuhn.de/go/afmc/internal/primes"
	"seehuhn.de/go/afmc/kern"
	"seehuhn.de/go/afmc/tools/internal/buildinfo"
)

var (
	patternArg  = flag.String("pattern", "*.afm", "glob `pattern` for the AFM files")
	hashArg     = flag.String("hash", "division", "hash function family, `division` or universal")
	funcsArg    = flag.Int("funcs", 2, "number of hash functions")
	cellsArg    = flag.Int("cells", 2, "number of cells per bucket")
	minArg      = flag.Int("min", 0, "smallest bucket count to try (default: just enough slots)")
	maxArg      = flag.Int("max", 0, "largest bucket count to try (default: twice the minimum)")
	triesArg    = flag.Int("tries", 10, "initial number of attempts per bucket count")
	maxTriesArg = flag.Int("max-tries", 1000, "maximal number of attempts per bucket count")
	seedArg     = flag.Uint64("seed", 0, "random seed")
	verboseArg  = flag.Bool("v", false, "show every attempt")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "afm-kerntune \u2014 find the smallest kerning hash table\n")
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short("afm-kerntune"))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  afm-kerntune [options] <afm-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Bucket counts are taken from the primes in the range [min, max].\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
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
	c, err := corpus.Read(os.DirFS(dir), *patternArg, nil)
	if err != nil {
		return err
	}
	tab, err := kern.Deduplicate(c.Pairs)
	if err != nil {
		return err
	}
	items := make([]cuckoo.Slot, len(tab.Entries))
	for i, e := range tab.Entries {
		items[i] = cuckoo.Slot{Key: uint32(e.Key), Value: uint32(e.Index)}
	}

	var strategy cuckoo.Strategy
	switch *hashArg {
	case "division":
		strategy = &cuckoo.DivisionStrategy{Cells: *cellsArg, Funcs: *funcsArg}
	case "universal":
		strategy = &cuckoo.UniversalStrategy{Cells: *cellsArg, Funcs: *funcsArg}
	default:
		return fmt.Errorf("unknown hash function family %q", *hashArg)
	}

	lo, hi := bucketRange(len(items), *cellsArg, *minArg, *maxArg)
	var buckets []int
	for _, p := range primes.Between(lo, hi+1) {
		buckets = append(buckets, int(p))
	}
	if len(buckets) == 0 {
		return fmt.Errorf("no prime bucket counts between %d and %d", lo, hi)
	}
	log.Infof("%d keys, trying %d bucket counts between %d and %d",
		len(items), len(buckets), buckets[0], buckets[len(buckets)-1])

	opt := &cuckoo.MinimizeOptions{
		Buckets:  buckets,
		Strategy: strategy,
		Tries:    *triesArg,
		MaxTries: *maxTriesArg,
		Seed:     *seedArg,
		Progress: func(a *cuckoo.Attempt) {
			if a.Err == nil {
				log.Infof("found: %s, load factor %.3f", a.Params, a.LoadFactor)
			} else {
				log.Debug(a)
			}
		},
	}
	t, err := cuckoo.Minimize(items, opt)
	if err != nil {
		return err
	}

	fmt.Printf("best: %s\n", t.Params)
	fmt.Printf("load factor: %.4f (%d keys in %d slots)\n",
		t.LoadFactor(), t.Len(), t.Params.Slots())
	return nil
}

// bucketRange returns the range of bucket counts to search.  Zero
// arguments are replaced by defaults.
func bucketRange(items, cells, lo, hi int) (int, int) {
	if cells < 1 {
		cells = 1
	}
	if lo <= 0 {
		lo = max((items+cells-1)/cells, 2)
	}
	if hi <= 0 {
		hi = 2 * lo
	}
	return lo, hi
}
