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
	"math/rand/v2"
)

// MinimizeOptions controls the behaviour of [Minimize].
type MinimizeOptions struct {
	// Buckets lists the candidate bucket counts, in increasing order.
	Buckets []int

	// Strategy proposes the hash functions and the number of cells.
	// The bucket count it proposes is replaced by the candidate under test.
	Strategy Strategy

	// Tries is the initial number of attempts per bucket count (default 10).
	// The number is doubled as long as the achieved load factor improves,
	// up to MaxTries (default 1000).
	Tries    int
	MaxTries int

	Seed     uint64
	Progress func(*Attempt)
}

// Minimize finds the smallest bucket count from opt.Buckets for which a
// table holding all items can be found, using binary search.  The
// returned table is the one found for this bucket count.
//
// Since the search is randomised, the result is not guaranteed to be
// optimal.  If no candidate admits a table, a [*NotFoundError] is
// returned.
func Minimize(items []Slot, opt *MinimizeOptions) (*Table, error) {
	if opt == nil || len(opt.Buckets) == 0 {
		return nil, errors.New("cuckoo: no bucket counts given")
	}
	strategy := opt.Strategy
	if strategy == nil {
		strategy = &DivisionStrategy{}
	}
	tries := opt.Tries
	if tries <= 0 {
		tries = 10
	}
	maxTries := opt.MaxTries
	if maxTries <= 0 {
		maxTries = 1000
	}

	rng := rand.New(rand.NewPCG(opt.Seed, 0xda3e39cb94b95bdb))
	attempts := 0
	bestLoad := 0.0

	// fits tries to build a table with the given number of buckets.
	fits := func(buckets int) *Table {
		achieved := 0.0
		n := tries
		for {
			improved := false
			for range n {
				p := strategy.Next(rng, len(items))
				p.Buckets = buckets
				t, err := Build(p, items, attemptSeed(opt.Seed, attempts))
				a := &Attempt{
					Number:     attempts,
					Params:     p,
					LoadFactor: float64(len(items)) / float64(max(p.Slots(), 1)),
					Err:        err,
				}
				attempts++
				if opt.Progress != nil {
					opt.Progress(a)
				}
				if err == nil {
					return t
				}

				var full *TableFullError
				if errors.As(err, &full) && full.Slots > 0 {
					load := float64(full.Items) / float64(full.Slots)
					if load > achieved {
						achieved = load
						improved = true
					}
				}
				if a.LoadFactor <= 1 && a.LoadFactor > bestLoad {
					bestLoad = a.LoadFactor
				}
			}
			if !improved || 2*n > maxTries {
				return nil
			}
			n *= 2
		}
	}

	var best *Table
	low, high := 0, len(opt.Buckets)
	for low < high {
		mid := low + (high-low)/2
		if t := fits(opt.Buckets[mid]); t != nil {
			best = t
			high = mid
		} else {
			low = mid + 1
		}
	}
	if best == nil {
		return nil, &NotFoundError{Attempts: attempts, BestLoad: bestLoad}
	}
	return best, nil
}
