// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txwire implements the transaction binary wire format spec §6
// describes as an external interface: the byte strings Builder.Sign feeds
// to Primitives.Hash (tx_inputs_hash, prefix_hash) and the serialized
// artifact a signed Transaction round-trips through. Varint encoding uses
// encoding/binary's LEB128 implementation — no pack example ships a
// CryptoNote-shaped tagged-union wire codec (the teacher's own wire package,
// github.com/btcsuite/btcd/wire, is Bitcoin's CompactSize format, not
// reusable here), so this is a deliberate, narrow stdlib use; see
// DESIGN.md.
package txwire

import (
	"encoding/binary"
	"errors"

	"github.com/varcoin-project/txcore/wtype"
)

const (
	tagTxPublicKey = 0x01
	tagNonce       = 0x02
)

// nonceTagPaymentID is the inner tag EXTRA_NONCE uses when its payload is a
// payment id (spec §6: "EXTRA_NONCE ... wraps PAYMENT_ID").
const nonceTagPaymentID = 0x00

// ErrMalformedExtra is returned by DecodeExtra when the TLV sequence is
// truncated or carries an unknown tag.
var ErrMalformedExtra = errors.New("malformed transaction extra")

// EncodeExtra serializes the extra TLV sequence (spec §6): an optional
// TX_PUBLIC_KEY field followed by an optional EXTRA_NONCE field.
func EncodeExtra(txPublicKey *wtype.PublicKey, nonce []byte) []byte {
	var out []byte
	if txPublicKey != nil {
		out = append(out, tagTxPublicKey)
		out = append(out, txPublicKey[:]...)
	}
	if len(nonce) > 0 {
		out = append(out, tagNonce)
		out = appendUvarint(out, uint64(len(nonce)))
		out = append(out, nonce...)
	}
	return out
}

// EncodePaymentIDNonce wraps a payment id hash into an EXTRA_NONCE payload.
func EncodePaymentIDNonce(paymentID wtype.Hash) []byte {
	out := make([]byte, 0, 1+len(paymentID))
	out = append(out, nonceTagPaymentID)
	out = append(out, paymentID[:]...)
	return out
}

// DecodeExtra parses what EncodeExtra produced, returning the tx public key
// (nil if absent) and the raw nonce payload (nil if absent).
func DecodeExtra(data []byte) (*wtype.PublicKey, []byte, error) {
	var pk *wtype.PublicKey
	var nonce []byte
	for len(data) > 0 {
		tag := data[0]
		data = data[1:]
		switch tag {
		case tagTxPublicKey:
			if len(data) < 32 {
				return nil, nil, ErrMalformedExtra
			}
			var k wtype.PublicKey
			copy(k[:], data[:32])
			pk = &k
			data = data[32:]
		case tagNonce:
			n, rest, err := readUvarint(data)
			if err != nil || uint64(len(rest)) < n {
				return nil, nil, ErrMalformedExtra
			}
			nonce = append([]byte(nil), rest[:n]...)
			data = rest[n:]
		default:
			return nil, nil, ErrMalformedExtra
		}
	}
	return pk, nonce, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func readUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, ErrMalformedExtra
	}
	return v, data[n:], nil
}
