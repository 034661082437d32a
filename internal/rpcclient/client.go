// Package rpcclient is the core's read-only/broadcast contract with a
// Solana JSON-RPC endpoint: recent blockhash, account existence,
// balances, and send-transaction, plus the expanded convenience surface
// (GetBalance, RequestAirdrop, SubscribeAccount) named in this project's
// domain-stack expansion.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/pkg/logging"
)

// Client talks JSON-RPC 2.0 to a single Solana cluster endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
	log        *logging.Logger
}

// New returns a Client pointed at endpoint, with the given request
// timeout.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.GetDefault().Component("rpcclient"),
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// call performs one JSON-RPC request and unmarshals its result field
// into out (which may be nil if the caller only cares about success).
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	id := c.nextID.Add(1)
	reqBody, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("rpcclient: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("%w: building http request: %v", ErrRpcFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug("rpc call", "method", method, "id", id)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRpcFailure, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRpcFailure, err)
	}

	if rpcResp.Error != nil {
		return classifyRPCError(rpcResp.Error)
	}

	if out != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%w: decoding result: %v", ErrRpcFailure, err)
		}
	}
	return nil
}

// classifyRPCError maps the node's reason code onto the distinguishable
// RpcFailure subcategories this facade surfaces.
func classifyRPCError(e *rpcError) error {
	switch e.Code {
	case -32002, -32005: // node-specific "insufficient funds"-adjacent codes
		return fmt.Errorf("%w: %s", ErrInsufficientFunds, e.Message)
	case -32602: // "could not find account" on getAccountInfo/getTokenAccountBalance
		return fmt.Errorf("%w: %s", ErrAccountNotFound, e.Message)
	case -32601:
		return fmt.Errorf("%w: %s", ErrRpcFailure, e.Message)
	default:
		return fmt.Errorf("%w: %s", ErrRpcFailure, e.Message)
	}
}

type latestBlockhashResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"value"`
}

// GetLatestBlockhash returns the cluster's current recent blockhash.
func (c *Client) GetLatestBlockhash(ctx context.Context) ([32]byte, error) {
	var result latestBlockhashResult
	if err := c.call(ctx, "getLatestBlockhash", []any{map[string]string{"commitment": "confirmed"}}, &result); err != nil {
		return [32]byte{}, err
	}

	raw, err := base58.Decode(result.Value.Blockhash)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: malformed blockhash: %v", ErrRpcFailure, err)
	}
	var out [32]byte
	copy(out[:], raw)
	return out, nil
}

type accountInfoResult struct {
	Value json.RawMessage `json:"value"`
}

// AccountExists reports whether pubkey currently has an account on
// chain.
func (c *Client) AccountExists(ctx context.Context, pubkey [32]byte) (bool, error) {
	var result accountInfoResult
	params := []any{base58.Encode(pubkey[:]), map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return false, err
	}
	return len(result.Value) > 0 && string(result.Value) != "null", nil
}

type balanceResult struct {
	Value uint64 `json:"value"`
}

// GetBalance returns pubkey's lamport balance.
func (c *Client) GetBalance(ctx context.Context, pubkey [32]byte) (uint64, error) {
	var result balanceResult
	if err := c.call(ctx, "getBalance", []any{base58.Encode(pubkey[:])}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

type tokenBalanceResult struct {
	Value struct {
		Amount   string `json:"amount"`
		Decimals uint8  `json:"decimals"`
	} `json:"value"`
}

// GetTokenBalance returns the raw token amount held by the associated
// token account for (owner, mint). Callers that need the ATA address
// itself should use solanatx.DeriveATA and pass it directly as owner's
// token account.
func (c *Client) GetTokenBalance(ctx context.Context, tokenAccount [32]byte) (uint64, error) {
	var result tokenBalanceResult
	if err := c.call(ctx, "getTokenAccountBalance", []any{base58.Encode(tokenAccount[:])}, &result); err != nil {
		return 0, err
	}
	var amount uint64
	if _, err := fmt.Sscanf(result.Value.Amount, "%d", &amount); err != nil {
		return 0, fmt.Errorf("%w: malformed token amount %q: %v", ErrRpcFailure, result.Value.Amount, err)
	}
	return amount, nil
}

// GetMinimumBalanceForRentExemption returns the lamport balance an
// account of dataLen bytes needs to be exempt from rent.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	var lamports uint64
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", []any{dataLen}, &lamports); err != nil {
		return 0, err
	}
	return lamports, nil
}

// RequestAirdrop asks the cluster faucet (devnet/testnet only) to credit
// pubkey with lamports, returning the resulting transaction signature.
func (c *Client) RequestAirdrop(ctx context.Context, pubkey [32]byte, lamports uint64) (string, error) {
	var sig string
	params := []any{base58.Encode(pubkey[:]), lamports}
	if err := c.call(ctx, "requestAirdrop", params, &sig); err != nil {
		return "", err
	}
	return sig, nil
}

// SendAndConfirm broadcasts a fully signed, wire-encoded transaction and
// returns its signature once the cluster reports it confirmed.
func (c *Client) SendAndConfirm(ctx context.Context, rawTransaction []byte) (string, error) {
	var sig string
	encoded := base58.Encode(rawTransaction)
	params := []any{encoded, map[string]string{"encoding": "base58"}}
	if err := c.call(ctx, "sendTransaction", params, &sig); err != nil {
		return "", err
	}

	if err := c.confirm(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

type signatureStatusResult struct {
	Value []*struct {
		ConfirmationStatus string `json:"confirmationStatus"`
		Err                any    `json:"err"`
	} `json:"value"`
}

func (c *Client) confirm(ctx context.Context, signature string) error {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		var result signatureStatusResult
		if err := c.call(ctx, "getSignatureStatuses", []any{[]string{signature}}, &result); err != nil {
			return err
		}
		if len(result.Value) == 1 && result.Value[0] != nil {
			status := result.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: transaction %s failed on-chain: %v", ErrRpcFailure, signature, status.Err)
			}
			if status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized" {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: timed out waiting for confirmation of %s", ErrRpcFailure, signature)
}
