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

package cuckoo

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"seehuhn.de/go/afmc/internal/primes"
)

// KnownGood is a configuration which holds the kerning pairs of the
// standard fonts.  Search tries it before any random configuration.
var KnownGood = Params{
	Buckets: 1777,
	Cells:   2,
	Hash:    Division{1984061, 885931},
}

// A Strategy proposes hash table configurations.
type Strategy interface {
	// Next returns a configuration to try for the given number of keys.
	// All random choices must be taken from rng.
	Next(rng *rand.Rand, items int) Params
}

// DivisionStrategy proposes tables with randomly chosen prime moduli.
type DivisionStrategy struct {
	// Buckets lists the bucket counts to choose from.  If this is empty,
	// the bucket count is chosen so that the load factor lies
	// between 0.5 and 1.
	Buckets []int

	Cells int // cells per bucket, default 2
	Funcs int // number of hash functions, default 2

	// Primes lists the moduli to choose from.  If this is empty, all
	// primes between 2^16 and 2^21 are used.
	Primes []uint32
}

var defaultPrimes = sync.OnceValue(func() []uint32 {
	return primes.Between(1<<16, 1<<21)
})

// Next implements the [Strategy] interface.
func (s *DivisionStrategy) Next(rng *rand.Rand, items int) Params {
	cells := s.cells()
	moduli := s.Primes
	if len(moduli) == 0 {
		moduli = defaultPrimes()
	}
	funcs := min(s.funcs(), len(moduli))

	h := make(Division, 0, funcs)
	seen := make(map[int]bool, funcs)
	for len(h) < funcs {
		i := rng.IntN(len(moduli))
		if seen[i] {
			continue
		}
		seen[i] = true
		h = append(h, moduli[i])
	}
	return Params{
		Buckets: pickBuckets(rng, s.Buckets, items, cells),
		Cells:   cells,
		Hash:    h,
	}
}

func (s *DivisionStrategy) cells() int {
	if s.Cells > 0 {
		return s.Cells
	}
	return 2
}

func (s *DivisionStrategy) funcs() int {
	if s.Funcs > 0 {
		return s.Funcs
	}
	return 2
}

// UniversalStrategy proposes tables with random affine hash functions.
type UniversalStrategy struct {
	Buckets []int // as for [DivisionStrategy]
	Cells   int   // cells per bucket, default 2
	Funcs   int   // number of hash functions, default 2
}

// Next implements the [Strategy] interface.
func (s *UniversalStrategy) Next(rng *rand.Rand, items int) Params {
	cells := s.Cells
	if cells <= 0 {
		cells = 2
	}
	funcs := s.Funcs
	if funcs <= 0 {
		funcs = 2
	}

	h := &Universal{
		A: make([]uint32, funcs),
		B: make([]uint32, funcs),
	}
	for i := range funcs {
		h.A[i] = 1 + rng.Uint32N(UniversalPrime-1)
		h.B[i] = rng.Uint32N(UniversalPrime)
	}
	return Params{
		Buckets: pickBuckets(rng, s.Buckets, items, cells),
		Cells:   cells,
		Hash:    h,
	}
}

func pickBuckets(rng *rand.Rand, candidates []int, items, cells int) int {
	if len(candidates) > 0 {
		return candidates[rng.IntN(len(candidates))]
	}
	lo := max((items+cells-1)/cells, 1)
	return lo + rng.IntN(lo)
}

// SearchOptions controls the behaviour of [Search].
type SearchOptions struct {
	// Fixed lists configurations which are tried first, in order.
	// If this is nil, [KnownGood] is used.  Use an empty, non-nil slice
	// to skip this step.
	Fixed []Params

	// Strategy proposes further configurations.
	// The default is a [DivisionStrategy] with default settings.
	Strategy Strategy

	// Budget is the maximal number of randomly proposed configurations.
	// The default is 1000.
	Budget int

	// Seed determines all random choices.
	Seed uint64

	// Progress, if set, is called after every attempt.
	Progress func(*Attempt)
}

var defaultSearchOptions = &SearchOptions{}

// Attempt records the outcome of trying one configuration.
type Attempt struct {
	Number     int // 0-based; fixed configurations come first
	Params     Params
	LoadFactor float64 // keys / slots of the configuration
	Fixed      bool
	Err        error // nil on success
}

func (a *Attempt) String() string {
	res := fmt.Sprintf("attempt %d: %s, load %.3f", a.Number, a.Params, a.LoadFactor)
	if a.Err != nil {
		res += ": " + a.Err.Error()
	}
	return res
}

// Report summarises a search.
type Report struct {
	Attempts []*Attempt
}

// BestLoad returns the highest load factor among the failed attempts.
func (r *Report) BestLoad() float64 {
	best := 0.0
	for _, a := range r.Attempts {
		if a.Err != nil && a.LoadFactor <= 1 && a.LoadFactor > best {
			best = a.LoadFactor
		}
	}
	return best
}

// Search finds a configuration which holds all items and returns the
// filled table.  The report is returned also when the search fails.
//
// If no configuration is found within the budget, a [*NotFoundError] is
// returned.
func Search(items []Slot, opt *SearchOptions) (*Table, *Report, error) {
	if opt == nil {
		opt = defaultSearchOptions
	}
	fixed := opt.Fixed
	if fixed == nil {
		fixed = []Params{KnownGood}
	}
	strategy := opt.Strategy
	if strategy == nil {
		strategy = &DivisionStrategy{}
	}
	budget := opt.Budget
	if budget <= 0 {
		budget = 1000
	}

	report := &Report{}
	try := func(p Params, isFixed bool) *Table {
		n := len(report.Attempts)
		a := &Attempt{
			Number:     n,
			Params:     p,
			LoadFactor: float64(len(items)) / float64(max(p.Slots(), 1)),
			Fixed:      isFixed,
		}
		t, err := Build(p, items, attemptSeed(opt.Seed, n))
		a.Err = err
		report.Attempts = append(report.Attempts, a)
		if opt.Progress != nil {
			opt.Progress(a)
		}
		return t
	}

	for _, p := range fixed {
		if t := try(p, true); t != nil {
			return t, report, nil
		}
	}

	rng := rand.New(rand.NewPCG(opt.Seed, 0x853c49e6748fea9b))
	for range budget {
		if t := try(strategy.Next(rng, len(items)), false); t != nil {
			return t, report, nil
		}
	}

	return nil, report, &NotFoundError{
		Attempts: len(report.Attempts),
		BestLoad: report.BestLoad(),
	}
}

// attemptSeed derives the insertion seed of attempt n.
func attemptSeed(seed uint64, n int) uint64 {
	return seed ^ (uint64(n)+1)*0x9e3779b97f4a7c15
}

// ErrNotFound is matched by all [*NotFoundError] values.
var ErrNotFound = errors.New("cuckoo: no hash table configuration found")

// NotFoundError is returned by [Search] when the budget is exhausted.
type NotFoundError struct {
	Attempts int
	BestLoad float64 // highest load factor among the failed attempts
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("cuckoo: no configuration found in %d attempts (best load factor %.3f)",
		err.Attempts, err.BestLoad)
}

// Is allows to use errors.Is(err, ErrNotFound).
func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
