// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"fmt"

	"github.com/varcoin-project/txcore/internal/wlog"
	"github.com/varcoin-project/txcore/txwire"
	"github.com/varcoin-project/txcore/wtype"
)

// Sign finalizes the staged inputs and outputs into a signed Transaction
// (spec §4.3 "Signing protocol"). It must be called at most once; Builder
// is single-use after Sign.
func (b *Builder) Sign(txDerivationSeed wtype.Hash) (wtype.Transaction, error) {
	// 1. Shuffle staged inputs and outputs independently, using the
	// math/rand generator New seeded from its reader; the order is
	// unpredictable only when that reader supplies real entropy.
	b.rand.Shuffle(len(b.inputDescs), func(i, j int) {
		b.inputDescs[i], b.inputDescs[j] = b.inputDescs[j], b.inputDescs[i]
	})
	b.rand.Shuffle(len(b.outputDescs), func(i, j int) {
		b.outputDescs[i], b.outputDescs[j] = b.outputDescs[j], b.outputDescs[i]
	})

	// 2. Attach inputs to the prefix in shuffled order.
	inputs := make([]wtype.TransactionInput, len(b.inputDescs))
	for i, d := range b.inputDescs {
		inputs[i] = wtype.TransactionInput{
			Amount:                d.Amount,
			KeyImage:              d.KeyImage,
			RelativeOutputIndexes: d.RelativeOutputIndexes,
		}
	}

	// 3. Deterministic tx key derivation. Must happen after inputs are
	// finalized and before output keys are derived (spec §5 ordering
	// guarantee).
	inputsHashInput := txwire.EncodeInputsOnly(b.version, b.unlockTime, inputs)
	txInputsHash := b.primitives.Hash(inputsHashInput)

	seedInput := make([]byte, 0, len(txInputsHash)+len(txDerivationSeed))
	seedInput = append(seedInput, txInputsHash[:]...)
	seedInput = append(seedInput, txDerivationSeed[:]...)
	txSecret := b.primitives.HashToScalar(seedInput)
	txPublic := b.primitives.SecretToPublic(txSecret)

	extra := txwire.EncodeExtra(&txPublic, b.extraNonce)

	// 4. Derive stealth output keys now that tx_secret is known.
	outputs := make([]wtype.TransactionOutput, len(b.outputDescs))
	for i, d := range b.outputDescs {
		derivation, ok := b.primitives.GenerateKeyDerivation(d.RecipientAddress.ViewPublicKey, txSecret)
		if !ok {
			return wtype.Transaction{}, fmt.Errorf("%w: output %d", wtype.ErrKeyDerivationFailed, i)
		}
		target, ok := b.primitives.DerivePublicKey(derivation, uint64(i), d.RecipientAddress.SpendPublicKey)
		if !ok {
			return wtype.Transaction{}, fmt.Errorf("%w: output %d", wtype.ErrKeyDerivationFailed, i)
		}
		outputs[i] = wtype.TransactionOutput{Amount: d.Amount, Target: target}
	}

	tx := wtype.Transaction{
		Version:    b.version,
		UnlockTime: b.unlockTime,
		Inputs:     inputs,
		Outputs:    outputs,
		Extra:      extra,
	}

	// 5. Prefix hash.
	prefixHash := b.primitives.Hash(txwire.EncodePrefix(tx))

	// 6. Ring signatures, one per input, over prefix_hash.
	signatures := make([]wtype.RingSignature, len(b.inputDescs))
	inputRings := make([][]wtype.RingMember, len(b.inputDescs))
	for i, d := range b.inputDescs {
		pubkeys := make([]wtype.PublicKey, len(d.Ring))
		for j, m := range d.Ring {
			pubkeys[j] = m.PublicKey
		}
		sig, ok := b.primitives.GenerateRingSignature(prefixHash, d.KeyImage, pubkeys,
			d.EphemeralKeyPair.Secret, d.RealOutputIndex)
		if !ok {
			return wtype.Transaction{}, fmt.Errorf("%w: input %d", wtype.ErrKeyDerivationFailed, i)
		}
		signatures[i] = sig
		inputRings[i] = d.Ring
	}
	tx.Signatures = signatures
	tx.InputRings = inputRings

	wlog.Log.Debugf("builder: signed transaction inputs=%d outputs=%d tx_public=%x",
		len(inputs), len(outputs), txPublic[:4])
	return tx, nil
}
