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

// Package cuckoo builds static cuckoo hash tables for 32-bit keys.
//
// A table consists of Buckets buckets with Cells cells each.  Every key
// can live in the buckets selected by the hash functions of a [Hasher].
// Tables are built once, using randomised cuckoo insertion, and are
// then only read.  [Search] tries different hash function parameters
// until all keys fit.
package cuckoo

import (
	"fmt"
	"strconv"
	"strings"
)

// Hasher is a set of independent hash functions.
type Hasher interface {
	// Len returns the number of hash functions.
	Len() int

	// Hash applies hash function i to the key.
	Hash(i int, key uint32) uint32

	fmt.Stringer
}

// Division is a set of hash functions of the form key mod p.
// The moduli should be distinct primes.
type Division []uint32

// Len implements the [Hasher] interface.
func (h Division) Len() int {
	return len(h)
}

// Hash implements the [Hasher] interface.
func (h Division) Hash(i int, key uint32) uint32 {
	return key % h[i]
}

func (h Division) String() string {
	parts := make([]string, len(h))
	for i, p := range h {
		parts[i] = strconv.FormatUint(uint64(p), 10)
	}
	return "division: " + strings.Join(parts, ", ")
}

// UniversalPrime is the modulus used by [Universal].
// This is the largest prime below 2^32, so that a*key+b fits into 64 bits.
const UniversalPrime = 4294967291

// Universal is a set of hash functions of the form (a*key + b) mod p,
// where p = [UniversalPrime].  All coefficients must be smaller than p.
type Universal struct {
	A, B []uint32
}

// Len implements the [Hasher] interface.
func (h *Universal) Len() int {
	return len(h.A)
}

// Hash implements the [Hasher] interface.
func (h *Universal) Hash(i int, key uint32) uint32 {
	return uint32((uint64(h.A[i])*uint64(key) + uint64(h.B[i])) % UniversalPrime)
}

func (h *Universal) String() string {
	parts := make([]string, len(h.A))
	for i := range h.A {
		parts[i] = fmt.Sprintf("%d*k+%d", h.A[i], h.B[i])
	}
	return "universal: " + strings.Join(parts, ", ")
}
