// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selector

import (
	"sort"

	"github.com/varcoin-project/txcore/currencypolicy"
	"github.com/varcoin-project/txcore/internal/wlog"
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// Selector chooses unspent outputs for a single transaction (spec §4.1). It
// is a per-transaction object: create one with New, call Select once, and
// discard it or call Reset before selecting again.
type Selector struct {
	policy   currencypolicy.Policy
	unspents []wtype.UnspentOutput

	usedUnspents         []wtype.UnspentOutput
	optimizationUnspents []wtype.UnspentOutput
	usedTotal            atomicunit.Amount
	inputsCount          int
	randomOutputAmounts  []atomicunit.Amount
}

// New creates a Selector over a frozen snapshot of the wallet's unspent
// outputs (spec §5: "the caller freezes it").
func New(policy currencypolicy.Policy, unspents []wtype.UnspentOutput) *Selector {
	return &Selector{policy: policy, unspents: unspents}
}

// Reset discards any selection state and unspents from a previous call,
// allowing the Selector to be reused (original UnspentSelector::reset).
func (s *Selector) Reset(unspents []wtype.UnspentOutput) {
	s.unspents = unspents
	s.usedUnspents = nil
	s.optimizationUnspents = nil
	s.usedTotal = 0
	s.inputsCount = 0
	s.randomOutputAmounts = nil
}

// Select runs the fee/size fixed-point loop (spec §4.1). On success the
// returned Result's UsedUnspents lists the chosen coins and Change is the
// amount to return to the sender; it may be zero.
func (s *Selector) Select(tip ChainTip, targetAmount atomicunit.Amount, recipientCount int,
	feePerByte atomicunit.FeePerByte, opts Options) (Result, error) {

	have, dust, maxDigit := s.createHaveCoins(tip)

	fee := s.policy.MinimumFee()
	optimizations := opts.Level.optimizations()
	medianCap := tip.EffectiveMedianSize.PercentOf(opts.Level.medianPercent())
	dustThreshold := s.policy.DefaultDustThreshold()
	pad := opts.pad()

	for {
		total, ok := targetAmount.CheckedAdd(fee)
		if !ok {
			return Result{}, wtype.ErrNotEnoughFunds
		}
		if !s.selectOptimalOutputs(have, dust, maxDigit, total, opts.Anonymity, optimizations) {
			return Result{}, wtype.ErrNotEnoughFunds
		}

		changeDustFee := atomicunit.Amount(uint64(s.usedTotal-total) % uint64(dustThreshold))
		txSize := s.policy.MaxTransactionSize(s.inputsCount, recipientCount+pad, opts.Anonymity)

		if txSize > medianCap && optimizations > 0 {
			wlog.Log.Debugf("selector: tx_size=%s exceeds median_cap=%s, shrinking optimizations=%d",
				txSize, medianCap, optimizations)
			s.unoptimizeAmounts(have, dust)
			optimizations /= 2
			if optimizations < 10 {
				optimizations = 0
			}
			continue
		}
		if txSize > tip.EffectiveMedianSize {
			return Result{}, wtype.ErrTransactionDoesNotFitInBlock
		}

		sizeFee := feePerByte.Fee(txSize)
		if fee+changeDustFee >= sizeFee {
			change := s.usedTotal - total - changeDustFee
			s.combineOptimizedUnspents()
			wlog.Log.Debugf("selector: converged used_total=%s target=%s change=%s inputs=%d",
				s.usedTotal, targetAmount, change, len(s.usedUnspents))
			return Result{
				UsedUnspents:        append([]wtype.UnspentOutput(nil), s.usedUnspents...),
				Change:              change,
				RandomOutputAmounts: append([]atomicunit.Amount(nil), s.randomOutputAmounts...),
			}, nil
		}

		newFee := atomicunit.Amount(((uint64(sizeFee-changeDustFee) + uint64(dustThreshold) - 1) /
			uint64(dustThreshold)) * uint64(dustThreshold))
		wlog.Log.Debugf("selector: raising fee from %s to %s (size_fee=%s)", fee, newFee, sizeFee)
		fee = newFee
		s.unoptimizeAmounts(have, dust)
	}
}

// createHaveCoins is the preprocessing step (spec §4.1): bucket confirmed,
// unlocked, non-dust unspents by (digit, leading digit); dust unspents by
// raw amount.
func (s *Selector) createHaveCoins(tip ChainTip) (haveCoins, *coinStack, int) {
	have := make(haveCoins)
	dust := newCoinStack()
	maxDigit := 0

	for i := len(s.unspents) - 1; i >= 0; i-- {
		un := s.unspents[i]
		if un.Height >= tip.ConfirmedHeight {
			continue
		}
		if !s.policy.IsSpendTimeUnlocked(un.UnlockTime, tip.BlockHeight, tip.BlockTime) {
			continue
		}
		if !s.policy.IsDust(un.Amount) {
			digit := un.Amount.DigitCount()
			leading := un.Amount.LeadingDigit(digit)
			if digit > maxDigit {
				maxDigit = digit
			}
			if have[digit] == nil {
				have[digit] = newCoinStack()
			}
			have[digit].push(leading, un)
		} else {
			dust.push(uint64(un.Amount), un)
		}
	}
	return have, dust, maxDigit
}

// take moves one coin from stack into optimizationUnspents, updating the
// running totals.
func (s *Selector) take(stack *coinStack, key uint64) wtype.UnspentOutput {
	un := stack.pop(key)
	s.optimizationUnspents = append(s.optimizationUnspents, un)
	s.usedTotal += un.Amount
	s.inputsCount++
	return un
}

// selectOptimalOutputs is the inner selection (spec §4.1 "Inner selection"):
// dust pre-fill, stack draining, digit rounding and shortfall recovery, run
// once per fixed-point iteration.
func (s *Selector) selectOptimalOutputs(have haveCoins, dust *coinStack, maxDigit int,
	totalAmount atomicunit.Amount, anonymity uint32, optimizationCount int) bool {

	if anonymity == 0 {
		if s.usedTotal < totalAmount {
			if key, ok := dust.lowerBound(uint64(totalAmount - s.usedTotal)); ok {
				wlog.Log.Tracef("selector: dust pre-fill single coin=%d", key)
				s.take(dust, key)
			}
		}
		for s.usedTotal < totalAmount && !dust.empty() && optimizationCount >= 1 {
			key, _ := dust.maxKey()
			s.take(dust, key)
			optimizationCount--
		}
	}

	// Phase 2: drain the largest stack by 10 coins at a time.
	for optimizationCount >= 10 {
		bestWeight := stackOptimizationThreshold
		bestDigit := -1
		var bestLeading uint64
		digits := make([]int, 0, len(have))
		for digit := range have {
			digits = append(digits, digit)
		}
		sort.Ints(digits)
		for _, digit := range digits {
			stack := have[digit]
			for _, leading := range stack.keys {
				if n := stack.count(leading); n > bestWeight {
					bestWeight = n
					bestDigit = digit
					bestLeading = leading
				}
			}
		}
		if bestDigit == -1 {
			break
		}
		wlog.Log.Tracef("selector: draining stack digit=%d leading=%d size=%d", bestDigit, bestLeading, bestWeight)
		stack := have[bestDigit]
		for i := 0; i < 10; i++ {
			s.take(stack, bestLeading)
			optimizationCount--
		}
		if stack.empty() {
			delete(have, bestDigit)
		}
	}

	s.optimizeAmounts(have, maxDigit, totalAmount)
	if s.usedTotal >= totalAmount {
		return true
	}

	// Phase 4a: smallest coin covering the shortfall, scanning digits
	// ascending.
	found := false
	digitAmount := uint64(1)
	for digit := 0; !found && digit <= maxDigit; digit, digitAmount = digit+1, digitAmount*10 {
		stack, ok := have[digit]
		if !ok {
			continue
		}
		shortfall := uint64(totalAmount - s.usedTotal)
		for _, leading := range append([]uint64(nil), stack.keys...) {
			if leading*digitAmount >= shortfall {
				wlog.Log.Tracef("selector: shortfall coin digit=%d leading=%d", digit, leading)
				s.take(stack, leading)
				found = true
				break
			}
		}
		if stack.empty() {
			delete(have, digit)
		}
	}
	if s.usedTotal >= totalAmount {
		return true
	}

	// Phase 4b: revert all optimizations, then greedily take the largest
	// remaining coin (dust included when anonymity == 0) until satisfied.
	s.unoptimizeAmounts(have, dust)
	for s.usedTotal < totalAmount {
		if len(have) == 0 && (anonymity != 0 || dust.empty()) {
			return false
		}
		var haAmount, duAmount uint64
		if len(have) != 0 {
			digit := have.maxDigitPresent()
			leading, _ := have[digit].maxKey()
			haAmount = uint64(have[digit].top(leading).Amount)
		}
		if anonymity == 0 && !dust.empty() {
			key, _ := dust.maxKey()
			duAmount = key
		}
		if haAmount > duAmount {
			digit := have.maxDigitPresent()
			leading, _ := have[digit].maxKey()
			stack := have[digit]
			wlog.Log.Tracef("selector: filler coin digit=%d leading=%d", digit, leading)
			s.take(stack, leading)
			if stack.empty() {
				delete(have, digit)
			}
		} else {
			key, _ := dust.maxKey()
			wlog.Log.Tracef("selector: filler dust coin=%d", key)
			s.take(dust, key)
		}
	}
	s.optimizeAmounts(have, maxDigit, totalAmount)
	return true
}

// optimizeAmounts is the digit-rounding phase (spec §4.1 "Digit rounding").
// For each digit position it looks for a pair or single coin whose leading
// digit rounds the current shortfall (or, once the target is already met,
// rounds the change) to a trailing zero at that position.
func (s *Selector) optimizeAmounts(have haveCoins, maxDigit int, totalAmount atomicunit.Amount) {
	digitAmount := uint64(1)
	for digit := 0; digit <= maxDigit; digit, digitAmount = digit+1, digitAmount*10 {
		if s.usedTotal >= totalAmount && digitAmount > uint64(s.usedTotal) {
			break
		}
		x := fakeLarge + uint64(totalAmount) + digitAmount - 1 - uint64(s.usedTotal)
		am := 10 - (x/digitAmount)%10

		stack, ok := have[digit]
		if !ok {
			continue
		}

		// Pair search: (a, b) with (a+b+am) % 10 == 0, at least one leaf
		// at or above TWO_THRESHOLD, maximizing combined population.
		bestWeight := 0
		var bestA, bestB uint64
		foundPair := false
		for _, a := range stack.keys {
			for _, b := range stack.keys {
				if (a+b+am)%10 != 0 {
					continue
				}
				na, nb := stack.count(a), stack.count(b)
				if na < twoThreshold && nb < twoThreshold {
					continue
				}
				if na+nb > bestWeight {
					bestWeight = na + nb
					bestA, bestB = a, b
					foundPair = true
				}
			}
		}
		if foundPair {
			wlog.Log.Tracef("selector: pair digit=%d am=%d coins=(%d,%d) weight=%d", digit, 10-am, bestA, bestB, bestWeight)
			s.take(stack, bestA)
			s.take(stack, bestB)
			if stack.empty() {
				delete(have, digit)
			}
			continue
		}

		if am == 10 {
			continue
		}

		// Single search: exact completion wins immediately over any
		// larger-population candidate (spec §9 open question, preserved).
		bestSingle := uint64(0)
		bestWeight = 0
		foundSingle := false
		for _, a := range stack.keys {
			if (a+am)%10 == 0 {
				bestSingle = a
				foundSingle = true
				break
			}
			if a > 10-am {
				if w := stack.count(a); w > bestWeight {
					bestWeight = w
					bestSingle = a
					foundSingle = true
				}
			}
		}
		if foundSingle {
			wlog.Log.Tracef("selector: single digit=%d am=%d coin=%d weight=%d", digit, 10-am, bestSingle, bestWeight)
			s.take(stack, bestSingle)
			if stack.empty() {
				delete(have, digit)
			}
		}
	}
}

// unoptimizeAmounts returns every optimization pick back to have/dust,
// undoing the effect of optimizeAmounts and the draining/filler phases
// (spec §4.1 phase 5). It classifies coins by their precomputed Dust flag,
// mirroring the original's use of the stored `un.dust` field here (as
// opposed to create_have_coins, which re-evaluates the live currency
// policy).
func (s *Selector) unoptimizeAmounts(have haveCoins, dust *coinStack) {
	for _, un := range s.optimizationUnspents {
		s.usedTotal -= un.Amount
		s.inputsCount--
		if !un.Dust {
			digit := un.Amount.DigitCount()
			leading := un.Amount.LeadingDigit(digit)
			if have[digit] == nil {
				have[digit] = newCoinStack()
			}
			have[digit].push(leading, un)
		} else {
			dust.push(uint64(un.Amount), un)
		}
	}
	s.optimizationUnspents = nil
}

// combineOptimizedUnspents commits the optimization picks (spec §4.1
// "Commit").
func (s *Selector) combineOptimizedUnspents() {
	for _, un := range s.optimizationUnspents {
		s.randomOutputAmounts = append(s.randomOutputAmounts, un.Amount)
	}
	s.usedUnspents = append(s.usedUnspents, s.optimizationUnspents...)
	s.optimizationUnspents = nil
}
