// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package builder implements the Transaction Builder (spec §4.3), ported
// from TransactionBuilder in
// original_source/src/Core/TransactionBuilder.cpp: staged outputs/inputs,
// deterministic per-transaction key derivation, stealth output derivation
// and ring signing.
package builder

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/varcoin-project/txcore/cryptoprim"
	"github.com/varcoin-project/txcore/currencypolicy"
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/txwire"
	"github.com/varcoin-project/txcore/wtype"
)

// Builder assembles one transaction. It is a per-transaction object: stage
// outputs and inputs with AddOutput/AddInput, then call Sign exactly once.
type Builder struct {
	primitives cryptoprim.Primitives
	rand       *rand.Rand

	version    uint32
	unlockTime uint64

	paymentID   *wtype.Hash
	extraNonce  []byte
	outputDescs []wtype.OutputDesc
	inputDescs  []wtype.InputDesc
}

// New creates a Builder for a transaction with version =
// currency.CurrentTransactionVersion() and the given unlock time (spec
// §4.3 contract). rng seeds the shuffle step (spec §5: "may be seeded from
// a process-wide CSPRNG"); callers should pass a source seeded from real
// entropy (e.g. crypto/rand) in production.
func New(primitives cryptoprim.Primitives, policy currencypolicy.Policy, unlockTime uint64, rng io.Reader) *Builder {
	return &Builder{
		primitives: primitives,
		rand:       rand.New(rand.NewSource(seedFromReader(rng))),
		version:    policy.CurrentTransactionVersion(),
		unlockTime: unlockTime,
	}
}

func seedFromReader(rng io.Reader) int64 {
	var buf [8]byte
	if rng == nil {
		return 1
	}
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return 1
	}
	var seed int64
	for _, b := range buf {
		seed = seed<<8 | int64(b)
	}
	return seed
}

// SetPaymentID stages a payment id nonce in the transaction's extra field,
// replacing any previously set nonce (spec §4.3).
func (b *Builder) SetPaymentID(id wtype.Hash) {
	b.paymentID = &id
	b.extraNonce = txwire.EncodePaymentIDNonce(id)
}

// SetExtraNonce stages an arbitrary nonce payload in extra, replacing any
// previously set nonce.
func (b *Builder) SetExtraNonce(nonce []byte) {
	b.paymentID = nil
	b.extraNonce = append([]byte(nil), nonce...)
}

// AddOutput stages a recipient output and returns its staging index.
func (b *Builder) AddOutput(amount atomicunit.Amount, to wtype.Address) int {
	b.outputDescs = append(b.outputDescs, wtype.OutputDesc{Amount: amount, RecipientAddress: to})
	return len(b.outputDescs) - 1
}

// AddInput stages a ring input (spec §4.3): it sorts mixins by
// GlobalIndex, inserts the real output at the position that keeps the sort
// stable (defining RealOutputIndex), derives the ephemeral keypair and key
// image, and stores RelativeOutputIndexes. Returns the staging index.
func (b *Builder) AddInput(sender wtype.AccountKeys, real wtype.UnspentOutput, mixins []wtype.MixinOutput) (int, error) {
	ring := make([]wtype.RingMember, 0, len(mixins)+1)
	for _, m := range mixins {
		ring = append(ring, wtype.RingMember{GlobalIndex: m.GlobalIndex, PublicKey: m.PublicKey})
	}
	sort.Slice(ring, func(i, j int) bool { return ring[i].GlobalIndex < ring[j].GlobalIndex })

	realIndex := sort.Search(len(ring), func(i int) bool { return ring[i].GlobalIndex >= real.GlobalIndex })
	realMember := wtype.RingMember{GlobalIndex: real.GlobalIndex, PublicKey: real.PublicKey}
	ring = append(ring, wtype.RingMember{})
	copy(ring[realIndex+1:], ring[realIndex:])
	ring[realIndex] = realMember

	ephemeral, keyImage, err := generateKeyImageHelper(b.primitives, sender, real.TransactionPublicKey, uint64(real.IndexInTransaction))
	if err != nil {
		return 0, err
	}
	if keyImage != real.KeyImage {
		return 0, fmt.Errorf("%w: input global_index=%d", wtype.ErrKeyImageMismatch, real.GlobalIndex)
	}
	for _, m := range mixins {
		if m.Amount != real.Amount {
			return 0, fmt.Errorf("%w: input global_index=%d", wtype.ErrMixedAmounts, real.GlobalIndex)
		}
	}

	absolute := make([]uint64, len(ring))
	for i, m := range ring {
		absolute[i] = m.GlobalIndex
	}
	relative := absoluteToRelative(absolute)

	desc := wtype.InputDesc{
		Amount:                real.Amount,
		Ring:                  ring,
		RealOutputIndex:       realIndex,
		EphemeralKeyPair:      ephemeral,
		KeyImage:              keyImage,
		RelativeOutputIndexes: relative,
	}
	b.inputDescs = append(b.inputDescs, desc)
	return len(b.inputDescs) - 1, nil
}

// absoluteToRelative converts a sorted absolute global_index list into the
// relative-offset encoding the wire format stores (spec §4.3, §8 property
// 3).
func absoluteToRelative(absolute []uint64) []uint64 {
	relative := make([]uint64, len(absolute))
	copy(relative, absolute)
	for i := len(relative) - 1; i > 0; i-- {
		relative[i] -= relative[i-1]
	}
	return relative
}

// generateKeyImageHelper derives the ephemeral keypair and key image for a
// real output sent to sender (original generate_key_image_helper).
func generateKeyImageHelper(p cryptoprim.Primitives, sender wtype.AccountKeys, txPublicKey wtype.PublicKey,
	outputIndex uint64) (wtype.KeyPair, wtype.KeyImage, error) {

	derivation, ok := p.GenerateKeyDerivation(txPublicKey, sender.ViewSecretKey)
	if !ok {
		return wtype.KeyPair{}, wtype.KeyImage{}, wtype.ErrKeyDerivationFailed
	}
	pub, ok := p.DerivePublicKey(derivation, outputIndex, sender.Address.SpendPublicKey)
	if !ok {
		return wtype.KeyPair{}, wtype.KeyImage{}, wtype.ErrKeyDerivationFailed
	}
	secret := p.DeriveSecretKey(derivation, outputIndex, sender.SpendSecretKey)
	ephemeral := wtype.KeyPair{Public: pub, Secret: secret}
	image := p.GenerateKeyImage(pub, secret)
	return ephemeral, image, nil
}
