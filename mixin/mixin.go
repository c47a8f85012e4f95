// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mixin attaches decoy outputs to a selector's chosen unspents and
// stages them on a Builder (spec §4.2), ported from
// UnspentSelector::add_mixed_inputs in
// original_source/src/Core/TransactionBuilder.cpp.
package mixin

import (
	"fmt"

	"github.com/varcoin-project/txcore/currencypolicy"
	"github.com/varcoin-project/txcore/internal/wlog"
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// WalletRecord is the keystore entry a spend public key resolves to: the
// secret half the builder needs to derive an ephemeral keypair for an
// unspent sent to that address.
type WalletRecord struct {
	SpendPublicKey wtype.PublicKey
	SpendSecretKey wtype.SecretKey
}

// InputBuilder is the subset of builder.Builder that AttachInputs stages
// inputs onto. Declared here (rather than importing package builder
// directly) so mixin has no import-cycle risk and can be tested with a
// fake.
type InputBuilder interface {
	AddInput(sender wtype.AccountKeys, real wtype.UnspentOutput, mixins []wtype.MixinOutput) (int, error)
}

// AttachInputs implements add_mixed_inputs (spec §4.2). For every unspent
// the selector chose, it draws `anonymity` non-colliding mixins from
// randomOutputs, resolves the spending wallet record by address, and stages
// a ring input on builder.
func AttachInputs(policy currencypolicy.Policy, viewSecretKey wtype.SecretKey,
	walletRecords map[wtype.PublicKey]WalletRecord, builder InputBuilder, anonymity uint32,
	usedUnspents []wtype.UnspentOutput, randomOutputs map[atomicunit.Amount][]wtype.MixinOutput) error {

	for _, uu := range usedUnspents {
		pool := randomOutputs[uu.Amount]
		mixins := make([]wtype.MixinOutput, 0, anonymity)
		for uint32(len(mixins)) < anonymity {
			if len(pool) == 0 {
				return &wtype.NotEnoughAnonymityError{Amount: uu.Amount}
			}
			out := pool[len(pool)-1]
			pool = pool[:len(pool)-1]
			if out.GlobalIndex != uu.GlobalIndex { // collision protection
				mixins = append(mixins, out)
			} else {
				wlog.Log.Debugf("mixin: dropped colliding candidate global_index=%d amount=%s", out.GlobalIndex, uu.Amount)
			}
		}
		randomOutputs[uu.Amount] = pool

		addr, err := policy.ParseAddress(uu.Address)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", wtype.ErrUnknownAddress, uu.Address, err)
		}
		record, ok := walletRecords[addr.SpendPublicKey]
		if !ok || record.SpendPublicKey != addr.SpendPublicKey {
			return fmt.Errorf("%w: %s", wtype.ErrUnknownAddress, uu.Address)
		}

		sender := wtype.AccountKeys{
			Address:        addr,
			SpendSecretKey: record.SpendSecretKey,
			ViewSecretKey:  viewSecretKey,
		}
		if _, err := builder.AddInput(sender, uu, mixins); err != nil {
			return err
		}
	}
	return nil
}
