// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selector implements the Unspent Selector: multi-objective coin
// selection with a fee/size fixed-point loop and digit/denomination-based
// stack optimization. It is ported behavior-for-behavior from
// UnspentSelector in original_source/src/Core/TransactionBuilder.cpp.
package selector

import (
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// fakeLarge is the original's constant offset used to keep intermediate
// digit-rounding arithmetic away from unsigned underflow. Go's uint64
// wraps the same way C++'s uint64_t does, so the trick carries over
// unchanged.
const fakeLarge = 1_000_000_000_000_000_000

// Stack-draining and digit-rounding thresholds (original constants
// STACK_OPTIMIZATION_THRESHOLD and TWO_THRESHOLD).
const (
	stackOptimizationThreshold = 20
	twoThreshold               = 10
)

// Per-level optimization budgets and median-size caps (original
// OPTIMIZATIONS_PER_TX{,_AGGRESSIVE}, MEDIAN_PERCENT{,_AGGRESSIVE}, and the
// unnamed "minimal" literal 9).
const (
	optimizationsNormal     = 50
	optimizationsAggressive = 200
	optimizationsMinimal    = 9

	medianPercentNormal     = 5
	medianPercentAggressive = 10
)

// MaxChangeDenominations is the number of change outputs the size estimate
// reserves capacity for (open question in spec §9: the original hardcodes
// +8 on the assumption that a change amount never needs more than eight
// decimal digits of denominations; exposed here as Options.ChangeDenominationPad
// so a currency with a wider value range can override it).
const MaxChangeDenominations = 8

// OptimizationLevel trades transaction size against coin-stack shape: more
// aggressive optimization allows a larger transaction in exchange for a
// better-shaped wallet (fewer, rounder denominations left over).
type OptimizationLevel int

const (
	LevelNormal OptimizationLevel = iota
	LevelAggressive
	LevelMinimal
)

func (l OptimizationLevel) optimizations() int {
	switch l {
	case LevelAggressive:
		return optimizationsAggressive
	case LevelMinimal:
		return optimizationsMinimal
	default:
		return optimizationsNormal
	}
}

func (l OptimizationLevel) medianPercent() uint64 {
	if l == LevelAggressive {
		return medianPercentAggressive
	}
	return medianPercentNormal
}

// Options are the per-call tunables of Select (spec §4.1 contract).
type Options struct {
	Anonymity uint32
	Level     OptimizationLevel

	// ChangeDenominationPad overrides MaxChangeDenominations when nonzero.
	ChangeDenominationPad int
}

func (o Options) pad() int {
	if o.ChangeDenominationPad != 0 {
		return o.ChangeDenominationPad
	}
	return MaxChangeDenominations
}

// ChainTip is the chain-state context Select needs to decide confirmation
// and unlock status, and the block-size ceiling to iterate fee against.
type ChainTip struct {
	BlockHeight         uint32
	BlockTime           uint64
	ConfirmedHeight     uint32
	EffectiveMedianSize atomicunit.Size
}

// Result is what a successful Select call produces (spec §4.1 contract and
// §3 Selection state).
type Result struct {
	// UsedUnspents are the coins committed to the transaction.
	UsedUnspents []wtype.UnspentOutput

	Change atomicunit.Amount

	// RandomOutputAmounts lists the amounts (ra_amounts) for which the
	// caller must fetch mixin sets before calling mixin.AttachInputs.
	RandomOutputAmounts []atomicunit.Amount
}
