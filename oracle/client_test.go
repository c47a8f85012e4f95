package oracle

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varcoin-project/txcore/pkg/atomicunit"
)

func pubKeyHex(seed byte) string {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	return hex.EncodeToString(raw[:])
}

// TestGetRandomOutputsParsesResponse checks that a well-formed JSON-RPC
// response decodes into the amount-keyed mixin map AttachInputs expects.
func TestGetRandomOutputsParsesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req getRandomOutputsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "getrandom_outs", req.Method)
		require.Equal(t, []uint64{1000, 2000}, req.Params.Amounts)
		require.Equal(t, uint32(3), req.Params.OutsCount)

		resp := getRandomOutputsResponse{}
		resp.Result.Status = "OK"
		resp.Result.Outputs = []struct {
			Amount  uint64 `json:"amount"`
			Outputs []struct {
				GlobalIndex uint64 `json:"global_amount_index"`
				PublicKey   string `json:"public_key"`
			} `json:"outs"`
		}{
			{
				Amount: 1000,
				Outputs: []struct {
					GlobalIndex uint64 `json:"global_amount_index"`
					PublicKey   string `json:"public_key"`
				}{
					{GlobalIndex: 5, PublicKey: pubKeyHex(1)},
					{GlobalIndex: 6, PublicKey: pubKeyHex(2)},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := New(&Config{URL: server.URL})
	require.NoError(t, err)

	result, err := client.GetRandomOutputs(context.Background(),
		[]atomicunit.Amount{atomicunit.NewAmount(1000), atomicunit.NewAmount(2000)}, 3)
	require.NoError(t, err)

	candidates := result[atomicunit.NewAmount(1000)]
	require.Len(t, candidates, 2)
	require.Equal(t, uint64(5), candidates[0].GlobalIndex)
	require.Equal(t, uint64(6), candidates[1].GlobalIndex)
}

// TestGetRandomOutputsRejectsErrorResponse checks that a JSON-RPC error
// object surfaces as ErrOracleRejected.
func TestGetRandomOutputsRejectsErrorResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := getRandomOutputsResponse{}
		resp.Error = &struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}{Code: -1, Message: "boom"}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := New(&Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetRandomOutputs(context.Background(), []atomicunit.Amount{atomicunit.NewAmount(1000)}, 1)
	require.ErrorIs(t, err, ErrOracleRejected)
}

// TestGetRandomOutputsRejectsMalformedKey checks that a non-hex or
// wrong-length public key is reported rather than silently truncated.
func TestGetRandomOutputsRejectsMalformedKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := getRandomOutputsResponse{}
		resp.Result.Status = "OK"
		resp.Result.Outputs = []struct {
			Amount  uint64 `json:"amount"`
			Outputs []struct {
				GlobalIndex uint64 `json:"global_amount_index"`
				PublicKey   string `json:"public_key"`
			} `json:"outs"`
		}{
			{
				Amount: 1000,
				Outputs: []struct {
					GlobalIndex uint64 `json:"global_amount_index"`
					PublicKey   string `json:"public_key"`
				}{
					{GlobalIndex: 5, PublicKey: "not-hex"},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client, err := New(&Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetRandomOutputs(context.Background(), []atomicunit.Amount{atomicunit.NewAmount(1000)}, 1)
	require.ErrorIs(t, err, ErrOracleRejected)
}

// TestNewRequiresURL checks Config validation.
func TestNewRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := New(&Config{})
	require.Error(t, err)

	_, err = New(nil)
	require.Error(t, err)
}
