// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package atomicunit

import "fmt"

// FeePerByte represents a fee rate expressed in atomic units per byte of
// serialized transaction size, the unit the selector's fee/size fixed-point
// loop iterates in (spec §4.1).
type FeePerByte uint64

// NewFeePerByte creates a FeePerByte from a raw uint64 value.
func NewFeePerByte(val uint64) FeePerByte {
	return FeePerByte(val)
}

// Fee computes the fee for the given transaction size at this rate.
func (f FeePerByte) Fee(size Size) Amount {
	return Amount(uint64(f) * uint64(size))
}

// String returns a human-readable representation of the fee rate.
func (f FeePerByte) String() string {
	return fmt.Sprintf("%d au/byte", uint64(f))
}

// Size represents a transaction size in bytes, as estimated by the
// currency's size model (spec §6 `get_maximum_tx_size`).
type Size uint64

// NewSize creates a Size from a raw uint64 value.
func NewSize(val uint64) Size {
	return Size(val)
}

// String returns a human-readable representation of the size.
func (s Size) String() string {
	return fmt.Sprintf("%d bytes", uint64(s))
}

// PercentOf returns size scaled by pct/100, rounding down. Used to compute
// the optimization median cap (spec §4.1 step: `median_cap =
// effective_median_size × {aggressive:10, other:5}%`).
func (s Size) PercentOf(pct uint64) Size {
	return Size(uint64(s) * pct / 100)
}
