// Copyright (c) 2025 The varcoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package oracle implements the random-outputs JSON-RPC client (spec §6
// "Random-outputs oracle"): the node endpoint a caller queries for mixin
// candidates before calling mixin.AttachInputs. Modeled on the teacher's
// chain package's RPC-client-over-Config pattern
// (chain/utreexod.go's UtreexodRPCClientConfig/validate), narrowed to the
// single JSON-RPC method this module needs.
package oracle

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/varcoin-project/txcore/pkg/atomicunit"
	"github.com/varcoin-project/txcore/wtype"
)

// Config describes the connection parameters for a Client.
type Config struct {
	// URL is the node's JSON-RPC endpoint, e.g. "http://127.0.0.1:8081/json_rpc".
	URL string

	// HTTPClient is used to perform the request. If nil, a client with
	// Timeout is constructed.
	HTTPClient *http.Client

	// Timeout bounds the HTTP round trip when HTTPClient is nil.
	Timeout time.Duration
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("missing oracle config")
	}
	if c.URL == "" {
		return errors.New("missing oracle URL")
	}
	return nil
}

// Client queries a node's random-outputs oracle over JSON-RPC.
type Client struct {
	url        string
	httpClient *http.Client
}

// New creates a Client from cfg.
func New(cfg *Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{url: cfg.URL, httpClient: httpClient}, nil
}

type getRandomOutputsRequest struct {
	JSONRPC string               `json:"jsonrpc"`
	Method  string               `json:"method"`
	Params  randomOutputsParams  `json:"params"`
}

type randomOutputsParams struct {
	Amounts   []uint64 `json:"amounts"`
	OutsCount uint32   `json:"outs_count"`
}

type getRandomOutputsResponse struct {
	Result struct {
		Outputs []struct {
			Amount  uint64 `json:"amount"`
			Outputs []struct {
				GlobalIndex uint64 `json:"global_amount_index"`
				PublicKey   string `json:"public_key"`
			} `json:"outs"`
		} `json:"outs"`
		Status string `json:"status"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ErrOracleRejected is returned when the node's response carries a non-OK
// status, a JSON-RPC error object, or a public key that is not 32 hex-encoded
// bytes.
var ErrOracleRejected = errors.New("random outputs oracle rejected request")

// GetRandomOutputs requests `count` decoy candidates for each of amounts
// (spec §6: "request = set of distinct amounts with count = anonymity").
// The returned map is keyed by amount, suitable for passing directly to
// mixin.AttachInputs.
func (c *Client) GetRandomOutputs(ctx context.Context, amounts []atomicunit.Amount,
	count uint32) (map[atomicunit.Amount][]wtype.MixinOutput, error) {

	raw := make([]uint64, len(amounts))
	for i, a := range amounts {
		raw[i] = uint64(a)
	}
	reqBody, err := json.Marshal(getRandomOutputsRequest{
		JSONRPC: "2.0",
		Method:  "getrandom_outs",
		Params:  randomOutputsParams{Amounts: raw, OutsCount: count},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding random-outputs request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("building random-outputs request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("random-outputs request: %w", err)
	}
	defer resp.Body.Close()

	var parsed getRandomOutputsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding random-outputs response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleRejected, parsed.Error.Message)
	}
	if parsed.Result.Status != "" && parsed.Result.Status != "OK" {
		return nil, fmt.Errorf("%w: status=%s", ErrOracleRejected, parsed.Result.Status)
	}

	out := make(map[atomicunit.Amount][]wtype.MixinOutput, len(parsed.Result.Outputs))
	for _, entry := range parsed.Result.Outputs {
		amount := atomicunit.NewAmount(entry.Amount)
		candidates := make([]wtype.MixinOutput, 0, len(entry.Outputs))
		for _, o := range entry.Outputs {
			raw, err := hex.DecodeString(o.PublicKey)
			if err != nil || len(raw) != 32 {
				return nil, fmt.Errorf("%w: malformed public key for amount %d", ErrOracleRejected, entry.Amount)
			}
			var pub wtype.PublicKey
			copy(pub[:], raw)
			candidates = append(candidates, wtype.MixinOutput{
				Amount:      amount,
				GlobalIndex: o.GlobalIndex,
				PublicKey:   pub,
			})
		}
		out[amount] = candidates
	}
	return out, nil
}
