package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mr-tron/base58"
)

func newTestServer(t *testing.T, handler func(method string) (any, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		result, rpcErr := handler(req.Method)
		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			raw, err := json.Marshal(result)
			if err != nil {
				t.Fatalf("marshaling result: %v", err)
			}
			resp.Result = raw
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encoding response: %v", err)
		}
	}))
}

func TestGetLatestBlockhash(t *testing.T) {
	var want [32]byte
	for i := range want {
		want[i] = byte(i)
	}

	srv := newTestServer(t, func(method string) (any, *rpcError) {
		if method != "getLatestBlockhash" {
			t.Fatalf("unexpected method %q", method)
		}
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"blockhash":            base58.Encode(want[:]),
				"lastValidBlockHeight": 100,
			},
		}, nil
	})
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	got, err := c.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash: %v", err)
	}
	if got != want {
		t.Fatalf("GetLatestBlockhash = %x, want %x", got, want)
	}
}

func TestGetBalance(t *testing.T) {
	srv := newTestServer(t, func(method string) (any, *rpcError) {
		return map[string]any{"context": map[string]any{"slot": 1}, "value": 5_000_000_000}, nil
	})
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	var pubkey [32]byte
	got, err := c.GetBalance(context.Background(), pubkey)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if got != 5_000_000_000 {
		t.Fatalf("GetBalance = %d, want 5000000000", got)
	}
}

func TestCallSurfacesRpcError(t *testing.T) {
	srv := newTestServer(t, func(method string) (any, *rpcError) {
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	var pubkey [32]byte
	if _, err := c.GetBalance(context.Background(), pubkey); err == nil {
		t.Fatal("expected error for rpc-reported failure")
	}
}

func TestClassifyRPCErrorSubcategories(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"insufficient funds", -32002, ErrInsufficientFunds},
		{"insufficient funds alt code", -32005, ErrInsufficientFunds},
		{"account not found", -32602, ErrAccountNotFound},
		{"method not found falls back to generic failure", -32601, ErrRpcFailure},
		{"unrecognized code falls back to generic failure", -1, ErrRpcFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyRPCError(&rpcError{Code: tt.code, Message: "boom"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("classifyRPCError(code=%d) = %v, want wrapping %v", tt.code, err, tt.want)
			}
		})
	}
}

func TestGetTokenBalanceSurfacesAccountNotFound(t *testing.T) {
	srv := newTestServer(t, func(method string) (any, *rpcError) {
		if method != "getTokenAccountBalance" {
			t.Fatalf("unexpected method %q", method)
		}
		return nil, &rpcError{Code: -32602, Message: "could not find account"}
	})
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	var tokenAccount [32]byte
	if _, err := c.GetTokenBalance(context.Background(), tokenAccount); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("GetTokenBalance error = %v, want wrapping ErrAccountNotFound", err)
	}
}
