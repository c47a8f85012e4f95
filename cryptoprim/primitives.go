// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cryptoprim declares the interface to the cryptographic primitives
// the transaction construction core consumes as an external service (spec
// §1, §6). txcore never implements curve arithmetic or ring-signature math
// itself; a production binary wires in whatever primitive backend matches
// its chosen curve.
package cryptoprim

import "github.com/varcoin-project/txcore/wtype"

// Primitives is the set of CryptoNote-family cryptographic operations
// consumed by the builder package (spec §6). Every
// method that can fail (off-curve points, corrupted derivations) reports it
// via the boolean return rather than panicking; callers convert a false
// result into wtype.ErrKeyDerivationFailed (spec §7: "a named fatal error").
type Primitives interface {
	// Hash computes the domain hash used for tx_inputs_hash and
	// prefix_hash.
	Hash(data []byte) wtype.Hash

	// HashToScalar reduces data to a scalar, used to derive the
	// deterministic per-transaction secret key from
	// (tx_inputs_hash || tx_derivation_seed), and to derive per-output
	// scalars from (derivation || output_index).
	HashToScalar(data []byte) wtype.SecretKey

	// SecretToPublic computes the public key corresponding to a secret
	// scalar: public = secret * G.
	SecretToPublic(secret wtype.SecretKey) wtype.PublicKey

	// GenerateKeyDerivation computes the shared derivation point D from a
	// recipient's public key and a sender's (or viewer's) secret key.
	// Returns ok=false if P does not lie on the curve.
	GenerateKeyDerivation(pub wtype.PublicKey, secret wtype.SecretKey) (d wtype.SecretKey, ok bool)

	// DerivePublicKey derives the stealth public key for output index i
	// from a derivation and a base public key: P' = H_s(D, i)*G + base.
	DerivePublicKey(derivation wtype.SecretKey, index uint64, base wtype.PublicKey) (wtype.PublicKey, bool)

	// DeriveSecretKey derives the stealth secret key for output index i
	// from a derivation and a base secret key: s' = H_s(D, i) + base.
	DeriveSecretKey(derivation wtype.SecretKey, index uint64, base wtype.SecretKey) wtype.SecretKey

	// GenerateKeyImage computes the key image for an ephemeral keypair:
	// I = x * Hp(P).
	GenerateKeyImage(pub wtype.PublicKey, secret wtype.SecretKey) wtype.KeyImage

	// GenerateRingSignature produces a ring signature over msg proving
	// knowledge of the secret key behind pubkeys[realIndex], without
	// revealing realIndex, and binding the signature to keyImage.
	GenerateRingSignature(msg wtype.Hash, keyImage wtype.KeyImage,
		pubkeys []wtype.PublicKey, secret wtype.SecretKey, realIndex int) ([][64]byte, bool)

	// VerifyRingSignature checks a ring signature produced by
	// GenerateRingSignature (used by tests and by any caller that wants
	// to confirm Builder.Sign's post-conditions, spec §4.3).
	VerifyRingSignature(msg wtype.Hash, keyImage wtype.KeyImage,
		pubkeys []wtype.PublicKey, sig [][64]byte) bool
}
