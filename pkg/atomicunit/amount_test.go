package atomicunit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAmountString checks the Stringer output of Amount.
func TestAmountString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "0 au", NewAmount(0).String())
	require.Equal(t, "1234 au", NewAmount(1234).String())
}

// TestAmountCheckedAdd checks overflow detection in CheckedAdd.
func TestAmountCheckedAdd(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     Amount
		expected Amount
		ok       bool
	}{
		{"simple sum", NewAmount(10), NewAmount(20), NewAmount(30), true},
		{"zero plus zero", NewAmount(0), NewAmount(0), NewAmount(0), true},
		{
			"overflow", NewAmount(math.MaxUint64), NewAmount(1),
			0, false,
		},
		{
			"exactly at max", NewAmount(math.MaxUint64 - 1), NewAmount(1),
			NewAmount(math.MaxUint64), true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.a.CheckedAdd(tc.b)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.expected, got)
			}
		})
	}
}

// TestAmountCheckedSub checks underflow detection in CheckedSub.
func TestAmountCheckedSub(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     Amount
		expected Amount
		ok       bool
	}{
		{"simple diff", NewAmount(30), NewAmount(20), NewAmount(10), true},
		{"equal", NewAmount(5), NewAmount(5), NewAmount(0), true},
		{"underflow", NewAmount(5), NewAmount(6), 0, false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.a.CheckedSub(tc.b)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.expected, got)
			}
		})
	}
}

// TestAmountDigitCount checks DigitCount against the digit/leading-digit
// decomposition the selector's create_have_coins relies on.
func TestAmountDigitCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		amount   Amount
		digit    int
		leading  uint64
	}{
		{NewAmount(0), 0, 0},
		{NewAmount(5), 0, 5},
		{NewAmount(9), 0, 9},
		{NewAmount(10), 1, 1},
		{NewAmount(37), 1, 3},
		{NewAmount(700), 2, 7},
		{NewAmount(12345), 4, 1},
	}

	for _, tc := range testCases {
		got := tc.amount.DigitCount()
		require.Equal(t, tc.digit, got, "amount %d", tc.amount)
		require.Equal(t, tc.leading, tc.amount.LeadingDigit(got), "amount %d", tc.amount)
	}
}

// TestPow10 checks the place-value helper used to reconstruct a digit
// position's magnitude.
func TestPow10(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(1), Pow10(0))
	require.Equal(t, uint64(10), Pow10(1))
	require.Equal(t, uint64(1000), Pow10(3))
}
