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

package corpus

import (
	"cmp"
	"maps"
	"slices"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/afmc/kern"
)

// Stats summarises the kerning data of a corpus.
type Stats struct {
	Total        int // number of KPX entries over all fonts
	UniquePairs  int
	UniqueValues int
	UniqueChars  int
	MinValue     funit.Int16
	MaxValue     funit.Int16

	// PerFont gives the number of pairs of each getter.
	PerFont map[string]int

	// Sharing maps n to the number of pairs kerned by exactly n fonts.
	Sharing map[int]int

	// MinChar and MaxChar give the range of characters in kerning pairs.
	MinChar, MaxChar rune
}

// Stats computes kerning statistics.
func (c *Corpus) Stats() *Stats {
	s := &Stats{
		UniquePairs: len(c.Pairs),
		PerFont:     make(map[string]int),
		Sharing:     make(map[int]int),
	}
	values := make(map[funit.Int16]bool)
	chars := make(map[rune]bool)
	first := true
	for pair, m := range c.Pairs {
		chars[pair.Left] = true
		chars[pair.Right] = true
		s.Sharing[len(m)]++
		for getter, v := range m {
			s.Total++
			s.PerFont[getter]++
			values[v] = true
			if first || v < s.MinValue {
				s.MinValue = v
			}
			if first || v > s.MaxValue {
				s.MaxValue = v
			}
			first = false
		}
	}
	s.UniqueValues = len(values)
	s.UniqueChars = len(chars)
	if len(chars) > 0 {
		s.MinChar = slices.Min(slices.Collect(maps.Keys(chars)))
		s.MaxChar = slices.Max(slices.Collect(maps.Keys(chars)))
	}
	return s
}

// PairCount is a kerning pair together with the number of fonts kerning it.
type PairCount struct {
	Pair  kern.Pair
	Fonts int
}

// MostShared returns the n pairs kerned by the largest number of fonts.
// Ties are broken by the left character, then by the right one.
func (c *Corpus) MostShared(n int) []PairCount {
	res := make([]PairCount, 0, len(c.Pairs))
	for pair, m := range c.Pairs {
		res = append(res, PairCount{Pair: pair, Fonts: len(m)})
	}
	slices.SortFunc(res, func(a, b PairCount) int {
		if a.Fonts != b.Fonts {
			return b.Fonts - a.Fonts
		}
		if a.Pair.Left != b.Pair.Left {
			return cmp.Compare(a.Pair.Left, b.Pair.Left)
		}
		return cmp.Compare(a.Pair.Right, b.Pair.Right)
	})
	if len(res) > n {
		res = res[:n]
	}
	return res
}
