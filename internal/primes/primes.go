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

// Package primes generates the prime moduli used by division hashing.
package primes

// Sieve returns all primes p with p <= n, in increasing order.
func Sieve(n int) []uint32 {
	if n < 2 {
		return nil
	}
	composite := make([]bool, n+1)
	var res []uint32
	for p := 2; p <= n; p++ {
		if composite[p] {
			continue
		}
		res = append(res, uint32(p))
		for q := p * p; q <= n; q += p {
			composite[q] = true
		}
	}
	return res
}

// Between returns all primes p with lo <= p < hi, in increasing order.
func Between(lo, hi int) []uint32 {
	all := Sieve(hi - 1)
	for i, p := range all {
		if int(p) >= lo {
			return all[i:]
		}
	}
	return nil
}

// IsPrime reports whether n is prime.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
