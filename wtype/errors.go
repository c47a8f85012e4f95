// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wtype

import (
	"errors"
	"fmt"

	"github.com/varcoin-project/txcore/pkg/atomicunit"
)

// Recoverable selector errors (spec §4.1, §7). Callers may retry with
// different parameters; check with errors.Is.
var (
	// ErrNotEnoughFunds is returned when the wallet's unspent outputs
	// cannot cover target + fee even after exhausting every fallback.
	ErrNotEnoughFunds = errors.New("NOT_ENOUGH_FUNDS")

	// ErrTransactionDoesNotFitInBlock is returned when the estimated
	// transaction size exceeds the effective median block size.
	ErrTransactionDoesNotFitInBlock = errors.New("TRANSACTION_DOES_NOT_FIT_IN_BLOCK")
)

// Fatal errors (spec §4.2, §4.3, §7). Once returned, the in-progress
// selection or signing must be abandoned; none of these are retriable.
var (
	// ErrUnknownAddress is returned when a selected unspent's address
	// string does not resolve to a wallet record by spend public key.
	ErrUnknownAddress = errors.New("UNKNOWN_ADDRESS")

	// ErrKeyImageMismatch is returned when the key image computed for a
	// real output during AddInput does not match the key image already
	// recorded on that output. This indicates wallet/keystore corruption.
	ErrKeyImageMismatch = errors.New("KEY_IMAGE_MISMATCH")

	// ErrMixedAmounts is returned when a mixin's amount does not match
	// the real output's amount. This indicates a node bug.
	ErrMixedAmounts = errors.New("MIXED_AMOUNTS")

	// ErrKeyDerivationFailed is returned when a crypto primitive reports
	// a derivation failure (e.g. a corrupted or off-curve key).
	ErrKeyDerivationFailed = errors.New("key derivation returned false")
)

// NotEnoughAnonymityError is returned when the mixin oracle's pool for a
// given amount is exhausted before `anonymity` non-colliding mixins have
// been collected (spec §4.2, §6 NOT_ENOUGH_ANONYMITY(amount)).
type NotEnoughAnonymityError struct {
	Amount atomicunit.Amount
}

// Error implements the error interface.
func (e *NotEnoughAnonymityError) Error() string {
	return fmt.Sprintf("NOT_ENOUGH_ANONYMITY: amount %s", e.Amount)
}

// Is allows errors.Is(err, ErrNotEnoughAnonymity) style matching against the
// sentinel below, ignoring the embedded amount.
func (e *NotEnoughAnonymityError) Is(target error) bool {
	return target == ErrNotEnoughAnonymity
}

// ErrNotEnoughAnonymity is the sentinel NotEnoughAnonymityError matches
// against via errors.Is.
var ErrNotEnoughAnonymity = errors.New("NOT_ENOUGH_ANONYMITY")
