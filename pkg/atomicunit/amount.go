// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package atomicunit provides typed units for dealing with CryptoNote-style
// atomic amounts, per-byte fees and transaction sizes, in the same spirit as
// the teacher's pkg/btcunit package: thin wrapper types over uint64 so that a
// fee rate can never be silently added to an amount, and vice versa.
package atomicunit

import (
	"fmt"
	"math"
)

// Amount represents a quantity of atomic units, CryptoNote's smallest
// denomination.
type Amount uint64

// NewAmount creates an Amount from a raw uint64 value.
func NewAmount(val uint64) Amount {
	return Amount(val)
}

// String returns a human-readable representation of the amount.
func (a Amount) String() string {
	return fmt.Sprintf("%d au", uint64(a))
}

// CheckedAdd adds two amounts, returning false if the result would overflow
// a uint64. This backs the "no overflow" clause of the amount-conservation
// invariant (spec §3, §8 property 1).
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// CheckedSub subtracts b from a, returning false if the result would
// underflow (i.e. b > a).
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// DigitCount returns the zero-based digit position of the amount's leading
// decimal digit, i.e. floor(log10(amount)) for amount > 0 (one less than the
// number of decimal digits), and 0 for amount == 0. This mirrors the `digit` computed by create_have_coins in the original
// selector: the number of trailing divisions by 10 needed to bring the
// amount below 10.
func (a Amount) DigitCount() int {
	digit := 0
	am := uint64(a)
	for am > 9 {
		digit++
		am /= 10
	}
	return digit
}

// LeadingDigit returns amount / 10^digit, the leading decimal digit of the
// amount at the given digit position (0 = units).
func (a Amount) LeadingDigit(digit int) uint64 {
	am := uint64(a)
	for i := 0; i < digit; i++ {
		am /= 10
	}
	return am
}

// Pow10 returns 10^digit as a uint64. Used to reconstruct a digit position's
// place value.
func Pow10(digit int) uint64 {
	v := uint64(1)
	for i := 0; i < digit; i++ {
		v *= 10
	}
	return v
}
