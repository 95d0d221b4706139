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
	"slices"
)

// EmptyKey marks unused slots.  It cannot be stored in a table.
const EmptyKey = 0xFFFFFFFF

// Slot is one cell of a hash table.
type Slot struct {
	Key   uint32
	Value uint32
}

// IsEmpty reports whether the slot is unused.
func (s Slot) IsEmpty() bool {
	return s.Key == EmptyKey
}

// Params describes the layout of a hash table.
type Params struct {
	Buckets int // number of buckets
	Cells   int // number of cells per bucket
	Hash    Hasher
}

// Slots returns the total number of slots of a table.
func (p Params) Slots() int {
	return p.Buckets * p.Cells
}

func (p Params) String() string {
	return fmt.Sprintf("%d buckets x %d cells, %s", p.Buckets, p.Cells, p.Hash)
}

func (p Params) check() error {
	switch {
	case p.Buckets < 1:
		return fmt.Errorf("cuckoo: invalid number of buckets %d", p.Buckets)
	case p.Cells < 1:
		return fmt.Errorf("cuckoo: invalid number of cells %d", p.Cells)
	case p.Hash == nil || p.Hash.Len() < 1:
		return errors.New("cuckoo: no hash functions")
	}
	switch h := p.Hash.(type) {
	case Division:
		if slices.Contains(h, 0) {
			return errors.New("cuckoo: zero modulus")
		}
	case *Universal:
		if len(h.A) != len(h.B) {
			return errors.New("cuckoo: coefficient lengths differ")
		}
	}
	return nil
}

// Table is a cuckoo hash table.
type Table struct {
	Params

	slots []Slot
	n     int
	rng   *rand.Rand
}

// New allocates an empty table.  The seed determines the random choices
// made during insertion.
func New(p Params, seed uint64) (*Table, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	slots := make([]Slot, p.Slots())
	for i := range slots {
		slots[i].Key = EmptyKey
	}
	return &Table{
		Params: p,
		slots:  slots,
		rng:    rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
	}, nil
}

// Build allocates a table and inserts all items, in order.
// If the items do not fit, a [*TableFullError] is returned.
func Build(p Params, items []Slot, seed uint64) (*Table, error) {
	t, err := New(p, seed)
	if err != nil {
		return nil, err
	}
	if len(items) > len(t.slots) {
		return nil, &TableFullError{
			Key:   items[len(t.slots)].Key,
			Items: 0,
			Slots: len(t.slots),
		}
	}
	for _, item := range items {
		err := t.Insert(item.Key, item.Value)
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Insert adds a key to the table.  If the key is already present, its
// value is replaced.
//
// If the key cannot be placed, a [*TableFullError] is returned.  In this
// case some other key may have been displaced from the table, and the
// table must no longer be used.
func (t *Table) Insert(key, value uint32) error {
	if key == EmptyKey {
		return errEmptyKey
	}
	if idx := t.find(key); idx >= 0 {
		t.slots[idx].Value = value
		return nil
	}

	item := Slot{Key: key, Value: value}
	bucket := t.bucket(0, key)
	maxSteps := 2*t.n + 1
	for step := 0; ; step++ {
		if idx := t.emptyCell(bucket); idx >= 0 {
			t.slots[idx] = item
			t.n++
			return nil
		}
		if step >= maxSteps {
			break
		}

		victim := bucket*t.Cells + t.rng.IntN(t.Cells)
		item, t.slots[victim] = t.slots[victim], item

		bucket = t.nextBucket(item.Key, bucket)
		if bucket < 0 {
			break
		}
	}
	return &TableFullError{Key: item.Key, Items: t.n, Slots: len(t.slots)}
}

// nextBucket chooses where a key evicted from the given bucket goes next.
// Buckets with an empty cell are preferred.  The result is -1 if there is
// no other choice.
func (t *Table) nextBucket(key uint32, vacated int) int {
	d := t.Hash.Len()
	candidates := make([]int, 0, d)
	skipped := false
	for i := 0; i < d; i++ {
		b := t.bucket(i, key)
		if b == vacated && !skipped {
			skipped = true
			continue
		}
		candidates = append(candidates, b)
	}
	if len(candidates) == 0 {
		return -1
	}
	for _, b := range candidates {
		if t.emptyCell(b) >= 0 {
			return b
		}
	}
	return candidates[t.rng.IntN(len(candidates))]
}

// Lookup returns the value stored for a key.
func (t *Table) Lookup(key uint32) (uint32, bool) {
	idx := t.find(key)
	if idx < 0 {
		return 0, false
	}
	return t.slots[idx].Value, true
}

// find returns the slot index of a key, or -1 if the key is not present.
// Exactly the cells of the buckets selected by the hash functions are
// probed.
func (t *Table) find(key uint32) int {
	if key == EmptyKey {
		return -1
	}
	for i := 0; i < t.Hash.Len(); i++ {
		base := t.bucket(i, key) * t.Cells
		for j := 0; j < t.Cells; j++ {
			if t.slots[base+j].Key == key {
				return base + j
			}
		}
	}
	return -1
}

func (t *Table) bucket(i int, key uint32) int {
	return int(t.Hash.Hash(i, key) % uint32(t.Buckets))
}

func (t *Table) emptyCell(bucket int) int {
	base := bucket * t.Cells
	for j := 0; j < t.Cells; j++ {
		if t.slots[base+j].Key == EmptyKey {
			return base + j
		}
	}
	return -1
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	return t.n
}

// LoadFactor returns the fraction of occupied slots.
func (t *Table) LoadFactor() float64 {
	return float64(t.n) / float64(len(t.slots))
}

// Slots returns the slots of the table, in storage order.
// The returned slice must not be modified.
func (t *Table) Slots() []Slot {
	return t.slots
}

// Verify checks that every item can be found with the correct value, and
// that the table holds no other keys.
func (t *Table) Verify(items []Slot) error {
	for _, item := range items {
		v, ok := t.Lookup(item.Key)
		if !ok {
			return fmt.Errorf("cuckoo: key 0x%08x not found", item.Key)
		}
		if v != item.Value {
			return fmt.Errorf("cuckoo: key 0x%08x has value %d instead of %d",
				item.Key, v, item.Value)
		}
	}
	if len(items) != t.n {
		return fmt.Errorf("cuckoo: table has %d keys, expected %d", t.n, len(items))
	}
	return nil
}

var (
	// ErrTableFull is matched by all [*TableFullError] values.
	ErrTableFull = errors.New("cuckoo: table full")

	errEmptyKey = errors.New("cuckoo: the empty key cannot be stored")
)

// TableFullError is returned if a key cannot be placed into a table.
type TableFullError struct {
	Key   uint32 // the key which was left without a slot
	Items int    // number of keys in the table when insertion failed
	Slots int
}

func (err *TableFullError) Error() string {
	return fmt.Sprintf("cuckoo: cannot place key 0x%08x (%d keys in %d slots)",
		err.Key, err.Items, err.Slots)
}

// Is allows to use errors.Is(err, ErrTableFull).
func (err *TableFullError) Is(target error) bool {
	return target == ErrTableFull
}
