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

// Package kern implements the packing of kerning pairs into 32-bit keys and
// the deduplication of per-font kerning values.
//
// A kerning pair of two BMP characters is packed as left | right<<16.  The
// pairs of all fonts are collected into a [Pairs] map, which records for
// every pair the adjustment of each font which kerns it.  [Deduplicate]
// turns this map into a [Table], where each pair refers to a shared
// [Vector] of adjustments with one column per font.
package kern

import (
	"errors"
	"fmt"
)

// Key is a packed kerning pair.
type Key uint32

// Sentinel is the value reserved for empty hash table slots.  It would be
// the key of the pair (U+FFFF, U+FFFF), which [MakeKey] rejects.
const Sentinel Key = 0xFFFFFFFF

// MaxRune is the largest code point which can be packed into a key.
const MaxRune = 0xFFFF

var errSentinel = errors.New("pair (U+FFFF, U+FFFF) is reserved")

// Pair is a directed pair of characters.
type Pair struct {
	Left, Right rune
}

func (p Pair) String() string {
	return fmt.Sprintf("%q %q (U+%04X U+%04X)", p.Left, p.Right, p.Left, p.Right)
}

// Key returns the packed form of the pair.
func (p Pair) Key() (Key, error) {
	return MakeKey(p.Left, p.Right)
}

// MakeKey packs a pair of characters into a key.
// Both characters must be in the range 0, ..., 0xFFFF.
func MakeKey(left, right rune) (Key, error) {
	if left < 0 || left > MaxRune {
		return 0, fmt.Errorf("left character U+%04X outside the BMP", left)
	}
	if right < 0 || right > MaxRune {
		return 0, fmt.Errorf("right character U+%04X outside the BMP", right)
	}
	k := Key(left) | Key(right)<<16
	if k == Sentinel {
		return 0, errSentinel
	}
	return k, nil
}

// Split recovers the pair from a key.
func (k Key) Split() Pair {
	return Pair{
		Left:  rune(k & 0xFFFF),
		Right: rune(k >> 16),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("0x%08x", uint32(k))
}
