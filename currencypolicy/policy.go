// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package currencypolicy declares the currency policy the transaction
// construction core consumes as an external service (spec §1, §6): dust
// thresholds, minimum fees, unlock-time rules, address parsing and the
// transaction size model. None of this is the core's concern to compute
// authoritatively — a production binary wires in the policy of whatever
// currency it is building transactions for.
package currencypolicy

import (
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// Policy is the set of currency-specific rules consumed by the selector and
// builder packages (spec §6 "Currency policy consumed").
type Policy interface {
	// CurrentTransactionVersion is the transaction format version new
	// transactions should declare.
	CurrentTransactionVersion() uint32

	// MinimumFee is the network-wide minimum fee, used to seed the
	// selector's fee/size fixed-point loop.
	MinimumFee() atomicunit.Amount

	// DefaultDustThreshold is the amount below which a denomination is
	// considered dust.
	DefaultDustThreshold() atomicunit.Amount

	// IsDust reports whether amount is dust per this policy: not
	// expressible as d*10^p with d in {1..9} above the dust threshold.
	IsDust(amount atomicunit.Amount) bool

	// IsSpendTimeUnlocked reports whether an output with the given
	// unlock_time can be spent at the given block height/timestamp.
	IsSpendTimeUnlocked(unlockTime uint64, blockHeight uint32, blockTime uint64) bool

	// ParseAddress parses a recipient address string into an Address.
	ParseAddress(addr string) (wtype.Address, error)

	// MaxTransactionSize estimates the serialized size in bytes of a
	// transaction with the given shape (spec §6 get_maximum_tx_size).
	MaxTransactionSize(inputsCount, outputsCount int, anonymity uint32) atomicunit.Size
}
