// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txwire

import (
	"errors"

	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// inputTag and outputTag are the tagged-union discriminants for the single
// input/output variant this module supports (a ring-signature key input and
// a stealth-key output); spec §6 describes the wire format as a tagged
// union to leave room for a currency's other variants, which are out of
// this module's scope.
const (
	inputTag  = 0x02
	outputTag = 0x02
)

// ErrMalformedPrefix is returned by DecodePrefix on a truncated or
// inconsistent byte string.
var ErrMalformedPrefix = errors.New("malformed transaction prefix")

// EncodePrefix serializes a transaction's prefix (spec §6): version,
// unlock_time, inputs, outputs and extra. This is the byte string consumed
// to produce prefix_hash.
func EncodePrefix(tx wtype.Transaction) []byte {
	var out []byte
	out = appendUvarint(out, uint64(tx.Version))
	out = appendUvarint(out, tx.UnlockTime)
	out = append(out, encodeInputs(tx.Inputs)...)

	out = appendUvarint(out, uint64(len(tx.Outputs)))
	for _, o := range tx.Outputs {
		out = appendUvarint(out, uint64(o.Amount))
		out = append(out, outputTag)
		out = append(out, o.Target[:]...)
	}

	out = appendUvarint(out, uint64(len(tx.Extra)))
	out = append(out, tx.Extra...)
	return out
}

// EncodeInputsOnly serializes prefix.inputs together with version and
// unlock_time — the exact byte string hashed to produce tx_inputs_hash
// (spec §4.3 step 3).
func EncodeInputsOnly(version uint32, unlockTime uint64, inputs []wtype.TransactionInput) []byte {
	out := encodeInputs(inputs)
	out = appendUvarint(out, uint64(version))
	out = appendUvarint(out, unlockTime)
	return out
}

func encodeInputs(inputs []wtype.TransactionInput) []byte {
	var out []byte
	out = appendUvarint(out, uint64(len(inputs)))
	for _, in := range inputs {
		out = append(out, inputTag)
		out = appendUvarint(out, uint64(in.Amount))
		out = append(out, in.KeyImage[:]...)
		out = appendUvarint(out, uint64(len(in.RelativeOutputIndexes)))
		for _, idx := range in.RelativeOutputIndexes {
			out = appendUvarint(out, idx)
		}
	}
	return out
}

// EncodeTransaction serializes a full signed transaction: prefix followed
// by one ring signature per input.
func EncodeTransaction(tx wtype.Transaction) []byte {
	out := EncodePrefix(tx)
	out = appendUvarint(out, uint64(len(tx.Signatures)))
	for _, ring := range tx.Signatures {
		out = appendUvarint(out, uint64(len(ring)))
		for _, sig := range ring {
			out = append(out, sig[:]...)
		}
	}
	return out
}

// DecodePrefix parses what EncodePrefix produced.
func DecodePrefix(data []byte) (wtype.Transaction, []byte, error) {
	var tx wtype.Transaction

	version, rest, err := readUvarint(data)
	if err != nil {
		return tx, nil, ErrMalformedPrefix
	}
	tx.Version = uint32(version)

	unlockTime, rest2, err := readUvarint(rest)
	if err != nil {
		return tx, nil, ErrMalformedPrefix
	}
	tx.UnlockTime = unlockTime
	rest = rest2

	inputCount, rest3, err := readUvarint(rest)
	if err != nil {
		return tx, nil, ErrMalformedPrefix
	}
	rest = rest3
	for i := uint64(0); i < inputCount; i++ {
		if len(rest) < 1 || rest[0] != inputTag {
			return tx, nil, ErrMalformedPrefix
		}
		rest = rest[1:]
		amount, r, err := readUvarint(rest)
		if err != nil {
			return tx, nil, ErrMalformedPrefix
		}
		rest = r
		if len(rest) < 32 {
			return tx, nil, ErrMalformedPrefix
		}
		var keyImage wtype.KeyImage
		copy(keyImage[:], rest[:32])
		rest = rest[32:]
		idxCount, r2, err := readUvarint(rest)
		if err != nil {
			return tx, nil, ErrMalformedPrefix
		}
		rest = r2
		indexes := make([]uint64, idxCount)
		for j := range indexes {
			v, r3, err := readUvarint(rest)
			if err != nil {
				return tx, nil, ErrMalformedPrefix
			}
			indexes[j] = v
			rest = r3
		}
		tx.Inputs = append(tx.Inputs, wtype.TransactionInput{
			Amount:                atomicunit.NewAmount(amount),
			KeyImage:              keyImage,
			RelativeOutputIndexes: indexes,
		})
	}

	outputCount, rest4, err := readUvarint(rest)
	if err != nil {
		return tx, nil, ErrMalformedPrefix
	}
	rest = rest4
	for i := uint64(0); i < outputCount; i++ {
		amount, r, err := readUvarint(rest)
		if err != nil {
			return tx, nil, ErrMalformedPrefix
		}
		rest = r
		if len(rest) < 33 || rest[0] != outputTag {
			return tx, nil, ErrMalformedPrefix
		}
		var target wtype.PublicKey
		copy(target[:], rest[1:33])
		rest = rest[33:]
		tx.Outputs = append(tx.Outputs, wtype.TransactionOutput{
			Amount: atomicunit.NewAmount(amount),
			Target: target,
		})
	}

	extraLen, rest5, err := readUvarint(rest)
	if err != nil || uint64(len(rest5)) < extraLen {
		return tx, nil, ErrMalformedPrefix
	}
	tx.Extra = append([]byte(nil), rest5[:extraLen]...)
	rest = rest5[extraLen:]

	return tx, rest, nil
}
