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

package kern

import (
	"cmp"
	"encoding/binary"
	"maps"
	"slices"

	"seehuhn.de/go/postscript/funit"
)

// Pairs maps each kerning pair to the adjustments of all fonts which kern
// this pair.  The inner map is indexed by the getter name of the font.
type Pairs map[Pair]map[string]funit.Int16

// Add records the adjustment of one font for a pair.  A later adjustment for
// the same font and pair replaces the earlier one.
func (p Pairs) Add(getter string, pair Pair, adjust funit.Int16) {
	m := p[pair]
	if m == nil {
		m = make(map[string]funit.Int16)
		p[pair] = m
	}
	m[getter] = adjust
}

// Getters returns the sorted list of getter names used in p.
func (p Pairs) Getters() []string {
	seen := make(map[string]bool)
	for _, m := range p {
		for g := range m {
			seen[g] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Vector holds the kerning adjustments of one pair, one column per font.
// Fonts which do not kern the pair have a zero entry.
type Vector []funit.Int16

// IsZero reports whether all entries of v are zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func (v Vector) key() string {
	buf := make([]byte, 2*len(v))
	for i, x := range v {
		binary.BigEndian.PutUint16(buf[2*i:], uint16(x))
	}
	return string(buf)
}

// Entry associates a kerning pair with the index of its offset vector.
type Entry struct {
	Key   Key
	Index int
}

// Table is the deduplicated form of a [Pairs] map.
type Table struct {
	// Columns lists the getter names of all fonts with kerning data.
	// Column i of every vector belongs to font Columns[i].
	Columns []string

	// Vectors lists the distinct offset vectors.  Vectors[0] is always
	// the zero vector.
	Vectors []Vector

	// Entries has one element per kerning pair, sorted by key.
	Entries []Entry
}

// Deduplicate assigns a column to every font and an offset vector to every
// pair.  Pairs with identical adjustments in all fonts share the same vector.
func Deduplicate(pairs Pairs) (*Table, error) {
	columns := pairs.Getters()
	colIdx := make(map[string]int, len(columns))
	for i, g := range columns {
		colIdx[g] = i
	}

	byKey := make(map[Key]Pair, len(pairs))
	for pair := range pairs {
		k, err := pair.Key()
		if err != nil {
			return nil, err
		}
		byKey[k] = pair
	}
	keys := slices.Sorted(maps.Keys(byKey))

	zero := make(Vector, len(columns))
	t := &Table{
		Columns: columns,
		Vectors: []Vector{zero},
		Entries: make([]Entry, 0, len(keys)),
	}
	vecIdx := map[string]int{zero.key(): 0}
	for _, k := range keys {
		v := make(Vector, len(columns))
		for g, adjust := range pairs[byKey[k]] {
			v[colIdx[g]] = adjust
		}

		vk := v.key()
		idx, ok := vecIdx[vk]
		if !ok {
			idx = len(t.Vectors)
			t.Vectors = append(t.Vectors, v)
			vecIdx[vk] = idx
		}
		t.Entries = append(t.Entries, Entry{Key: k, Index: idx})
	}
	return t, nil
}

// Lookup returns the offset vector index of a key.
func (t *Table) Lookup(k Key) (int, bool) {
	i, found := slices.BinarySearchFunc(t.Entries, k, func(e Entry, k Key) int {
		return cmp.Compare(e.Key, k)
	})
	if !found {
		return 0, false
	}
	return t.Entries[i].Index, true
}

// Column returns the column of the given getter, or -1 if the getter is not
// used.
func (t *Table) Column(getter string) int {
	return slices.Index(t.Columns, getter)
}

// Adjust returns the kerning adjustment of one font for a pair.
func (t *Table) Adjust(getter string, pair Pair) funit.Int16 {
	col := t.Column(getter)
	if col < 0 {
		return 0
	}
	k, err := pair.Key()
	if err != nil {
		return 0
	}
	idx, ok := t.Lookup(k)
	if !ok {
		return 0
	}
	return t.Vectors[idx][col]
}
