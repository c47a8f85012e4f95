// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wtype defines the data model shared by the selector, mixin and
// builder packages: the shapes of unspent outputs, mixin candidates, account
// keys, and the transaction artifact itself (spec §3 DATA MODEL).
package wtype

import "github.com/varcoin-project/txcore/pkg/atomicunit"

// PublicKey, SecretKey, KeyImage and Hash are opaque, fixed-size curve
// elements. Their internal representation belongs to whatever Primitives
// implementation a caller wires in; txcore only ever moves them around and
// compares them for equality.
type (
	PublicKey [32]byte
	SecretKey [32]byte
	KeyImage  [32]byte
	Hash      [32]byte
)

// KeyPair is a secret/public key pair, e.g. an ephemeral per-output keypair.
type KeyPair struct {
	Public PublicKey
	Secret SecretKey
}

// Address is a CryptoNote public address: a spend/view keypair's public
// halves. Address parsing itself is an external collaborator (spec §1); this
// type is the result a currencypolicy.Policy.ParseAddress call produces.
type Address struct {
	SpendPublicKey PublicKey
	ViewPublicKey  PublicKey
}

// AccountKeys bundles an address with the secret keys needed to derive
// ephemeral keys and key images for outputs sent to it (spec §3).
type AccountKeys struct {
	Address        Address
	SpendSecretKey SecretKey
	ViewSecretKey  SecretKey
}

// UnspentOutput is a wallet-owned output available for coin selection (spec
// §3). It is created by an external wallet scanner, immutable once observed,
// and is considered spent once KeyImage appears in a confirmed block — none
// of which is this module's concern; txcore only consumes a frozen snapshot
// of these.
type UnspentOutput struct {
	Amount               atomicunit.Amount
	GlobalIndex          uint64
	Height               uint32
	UnlockTime           uint64
	TransactionPublicKey PublicKey
	IndexInTransaction   uint32
	PublicKey            PublicKey
	KeyImage             KeyImage
	Address              string
	Dust                 bool
}

// MixinOutput is a decoy candidate returned by a node's random-output
// oracle. Only Amount, GlobalIndex and PublicKey are meaningful (spec §3).
type MixinOutput struct {
	Amount      atomicunit.Amount
	GlobalIndex uint64
	PublicKey   PublicKey
}

// OutputDesc is a builder-internal staged recipient output (spec §3).
type OutputDesc struct {
	Amount           atomicunit.Amount
	RecipientAddress Address
}

// RingMember is one entry of an input's ring: a mixin (or the real output)
// together with the global index used to keep the ring sorted.
type RingMember struct {
	GlobalIndex uint64
	PublicKey   PublicKey
}

// InputDesc is a builder-internal staged ring input (spec §3).
type InputDesc struct {
	Amount                atomicunit.Amount
	Ring                  []RingMember
	RealOutputIndex       int
	EphemeralKeyPair      KeyPair
	KeyImage              KeyImage
	RelativeOutputIndexes []uint64
}

// TransactionInput is the on-transaction representation of a ring input:
// what ends up serialized, as opposed to InputDesc's staging fields.
type TransactionInput struct {
	Amount                atomicunit.Amount
	KeyImage              KeyImage
	RelativeOutputIndexes []uint64
}

// TransactionOutput is the on-transaction representation of a recipient
// output: an amount and a stealth target key.
type TransactionOutput struct {
	Amount atomicunit.Amount
	Target PublicKey
}

// RingSignature is one input's ring signature: one scalar-pair per ring
// member.
type RingSignature [][64]byte

// Transaction is the output artifact of Builder.Sign (spec §3).
type Transaction struct {
	Version     uint32
	UnlockTime  uint64
	Inputs      []TransactionInput
	Outputs     []TransactionOutput
	Extra       []byte
	Signatures  []RingSignature
	InputRings  [][]RingMember
}
