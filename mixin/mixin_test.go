package mixin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varcoin-project/txcore/currencypolicy"
	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// fakeBuilder records every AddInput call so tests can assert on what
// AttachInputs staged.
type fakeBuilder struct {
	calls []fakeBuilderCall
	err   error
}

type fakeBuilderCall struct {
	sender wtype.AccountKeys
	real   wtype.UnspentOutput
	mixins []wtype.MixinOutput
}

func (f *fakeBuilder) AddInput(sender wtype.AccountKeys, real wtype.UnspentOutput,
	mixins []wtype.MixinOutput) (int, error) {

	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, fakeBuilderCall{sender: sender, real: real, mixins: mixins})
	return len(f.calls) - 1, nil
}

func testAddressAndRecord(policy *currencypolicy.Default, seed byte) (string, wtype.PublicKey, WalletRecord) {
	var addr wtype.Address
	for i := range addr.SpendPublicKey {
		addr.SpendPublicKey[i] = seed + byte(i)
	}
	for i := range addr.ViewPublicKey {
		addr.ViewPublicKey[i] = seed + byte(i) + 1
	}
	return policy.EncodeAddress(addr), addr.SpendPublicKey, WalletRecord{
		SpendPublicKey: addr.SpendPublicKey,
		SpendSecretKey: wtype.SecretKey{seed},
	}
}

// TestAttachInputsCollisionAvoidance covers S4: when the oracle's candidate
// pool contains the real output itself, AttachInputs must drop it rather
// than use it as a decoy, drawing a fresh candidate instead.
func TestAttachInputsCollisionAvoidance(t *testing.T) {
	t.Parallel()

	policy := currencypolicy.NewDefault()
	addrStr, spendPub, record := testAddressAndRecord(policy, 1)

	real := wtype.UnspentOutput{
		Amount:      atomicunit.NewAmount(1000),
		GlobalIndex: 42,
		Address:     addrStr,
	}

	// Pool is popped from the back; put the colliding candidate last so it
	// is considered first, forcing a fallback to the next candidate.
	pool := []wtype.MixinOutput{
		{Amount: atomicunit.NewAmount(1000), GlobalIndex: 10},
		{Amount: atomicunit.NewAmount(1000), GlobalIndex: 11},
		{Amount: atomicunit.NewAmount(1000), GlobalIndex: 42}, // collides with real
	}
	randomOutputs := map[atomicunit.Amount][]wtype.MixinOutput{
		atomicunit.NewAmount(1000): pool,
	}

	builder := &fakeBuilder{}
	walletRecords := map[wtype.PublicKey]WalletRecord{spendPub: record}

	err := AttachInputs(policy, wtype.SecretKey{9}, walletRecords, builder, 2,
		[]wtype.UnspentOutput{real}, randomOutputs)
	require.NoError(t, err)
	require.Len(t, builder.calls, 1)

	mixins := builder.calls[0].mixins
	require.Len(t, mixins, 2)
	for _, m := range mixins {
		require.NotEqual(t, real.GlobalIndex, m.GlobalIndex)
	}
}

// TestAttachInputsNotEnoughAnonymity checks that exhausting the candidate
// pool before collecting `anonymity` non-colliding mixins surfaces
// NotEnoughAnonymityError.
func TestAttachInputsNotEnoughAnonymity(t *testing.T) {
	t.Parallel()

	policy := currencypolicy.NewDefault()
	addrStr, spendPub, record := testAddressAndRecord(policy, 1)

	real := wtype.UnspentOutput{
		Amount:      atomicunit.NewAmount(1000),
		GlobalIndex: 42,
		Address:     addrStr,
	}
	randomOutputs := map[atomicunit.Amount][]wtype.MixinOutput{
		atomicunit.NewAmount(1000): {
			{Amount: atomicunit.NewAmount(1000), GlobalIndex: 10},
		},
	}

	builder := &fakeBuilder{}
	walletRecords := map[wtype.PublicKey]WalletRecord{spendPub: record}

	err := AttachInputs(policy, wtype.SecretKey{9}, walletRecords, builder, 2,
		[]wtype.UnspentOutput{real}, randomOutputs)

	var anonErr *wtype.NotEnoughAnonymityError
	require.ErrorAs(t, err, &anonErr)
	require.ErrorIs(t, err, wtype.ErrNotEnoughAnonymity)
	require.Equal(t, atomicunit.NewAmount(1000), anonErr.Amount)
}

// TestAttachInputsUnknownAddress checks that an unspent whose address does
// not resolve to a wallet record surfaces ErrUnknownAddress.
func TestAttachInputsUnknownAddress(t *testing.T) {
	t.Parallel()

	policy := currencypolicy.NewDefault()
	real := wtype.UnspentOutput{
		Amount:      atomicunit.NewAmount(1000),
		GlobalIndex: 42,
		Address:     policy.EncodeAddress(wtype.Address{}),
	}
	randomOutputs := map[atomicunit.Amount][]wtype.MixinOutput{
		atomicunit.NewAmount(1000): {
			{Amount: atomicunit.NewAmount(1000), GlobalIndex: 10},
		},
	}

	builder := &fakeBuilder{}
	err := AttachInputs(policy, wtype.SecretKey{9}, map[wtype.PublicKey]WalletRecord{}, builder, 1,
		[]wtype.UnspentOutput{real}, randomOutputs)
	require.ErrorIs(t, err, wtype.ErrUnknownAddress)
}

// TestAttachInputsUnknownAddressMalformed checks that an address string the
// policy cannot parse at all also surfaces ErrUnknownAddress.
func TestAttachInputsUnknownAddressMalformed(t *testing.T) {
	t.Parallel()

	policy := currencypolicy.NewDefault()
	real := wtype.UnspentOutput{
		Amount:      atomicunit.NewAmount(1000),
		GlobalIndex: 42,
		Address:     "not-a-valid-address",
	}
	randomOutputs := map[atomicunit.Amount][]wtype.MixinOutput{
		atomicunit.NewAmount(1000): {
			{Amount: atomicunit.NewAmount(1000), GlobalIndex: 10},
		},
	}

	builder := &fakeBuilder{}
	err := AttachInputs(policy, wtype.SecretKey{9}, map[wtype.PublicKey]WalletRecord{}, builder, 1,
		[]wtype.UnspentOutput{real}, randomOutputs)
	require.ErrorIs(t, err, wtype.ErrUnknownAddress)
}

// TestAttachInputsStagesSenderKeys checks that the AccountKeys passed to
// AddInput carry the resolved address, the wallet record's spend secret and
// the caller's view secret.
func TestAttachInputsStagesSenderKeys(t *testing.T) {
	t.Parallel()

	policy := currencypolicy.NewDefault()
	addrStr, spendPub, record := testAddressAndRecord(policy, 5)
	viewSecret := wtype.SecretKey{77}

	real := wtype.UnspentOutput{
		Amount:      atomicunit.NewAmount(500),
		GlobalIndex: 1,
		Address:     addrStr,
	}
	randomOutputs := map[atomicunit.Amount][]wtype.MixinOutput{
		atomicunit.NewAmount(500): {
			{Amount: atomicunit.NewAmount(500), GlobalIndex: 2},
			{Amount: atomicunit.NewAmount(500), GlobalIndex: 3},
		},
	}

	builder := &fakeBuilder{}
	walletRecords := map[wtype.PublicKey]WalletRecord{spendPub: record}

	err := AttachInputs(policy, viewSecret, walletRecords, builder, 1,
		[]wtype.UnspentOutput{real}, randomOutputs)
	require.NoError(t, err)
	require.Len(t, builder.calls, 1)

	call := builder.calls[0]
	require.Equal(t, spendPub, call.sender.Address.SpendPublicKey)
	require.Equal(t, record.SpendSecretKey, call.sender.SpendSecretKey)
	require.Equal(t, viewSecret, call.sender.ViewSecretKey)
	require.Equal(t, real, call.real)
}
