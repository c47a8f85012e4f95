package txwire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varcoin-project/txcore/wtype"
)

// TestEncodeDecodeExtraRoundTrip checks that DecodeExtra inverts EncodeExtra
// across the presence/absence of each field.
func TestEncodeDecodeExtraRoundTrip(t *testing.T) {
	t.Parallel()

	var txPub wtype.PublicKey
	for i := range txPub {
		txPub[i] = byte(i)
	}
	nonce := []byte{0xaa, 0xbb, 0xcc}

	testCases := []struct {
		name      string
		txPublic  *wtype.PublicKey
		nonce     []byte
	}{
		{"both fields", &txPub, nonce},
		{"key only", &txPub, nil},
		{"nonce only", nil, nonce},
		{"neither field", nil, nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			encoded := EncodeExtra(tc.txPublic, tc.nonce)
			gotPub, gotNonce, err := DecodeExtra(encoded)
			require.NoError(t, err)
			require.Equal(t, tc.txPublic, gotPub)
			if len(tc.nonce) == 0 {
				require.Empty(t, gotNonce)
			} else {
				require.Equal(t, tc.nonce, gotNonce)
			}
		})
	}
}

// TestEncodePaymentIDNonce checks that a payment id nonce decodes back with
// the payment-id tag prefix intact.
func TestEncodePaymentIDNonce(t *testing.T) {
	t.Parallel()

	var paymentID wtype.Hash
	for i := range paymentID {
		paymentID[i] = byte(i * 2)
	}

	nonce := EncodePaymentIDNonce(paymentID)
	require.Equal(t, byte(0x00), nonce[0])
	require.Equal(t, paymentID[:], nonce[1:])

	var txPub wtype.PublicKey
	encoded := EncodeExtra(&txPub, nonce)
	_, gotNonce, err := DecodeExtra(encoded)
	require.NoError(t, err)
	require.Equal(t, nonce, gotNonce)
}

// TestDecodeExtraRejectsUnknownTag checks that an unrecognized TLV tag is
// reported as malformed rather than silently skipped.
func TestDecodeExtraRejectsUnknownTag(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeExtra([]byte{0xff})
	require.ErrorIs(t, err, ErrMalformedExtra)
}

// TestDecodeExtraRejectsTruncatedKey checks that a truncated TX_PUBLIC_KEY
// field is reported as malformed.
func TestDecodeExtraRejectsTruncatedKey(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeExtra([]byte{tagTxPublicKey, 0x01, 0x02})
	require.ErrorIs(t, err, ErrMalformedExtra)
}
