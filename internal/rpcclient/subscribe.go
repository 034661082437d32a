package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/mr-tron/base58"
)

// SubscribeAccount blocks on the cluster's accountSubscribe WebSocket
// notification stream until pubkey's account satisfies until, or ctx is
// cancelled. It is used by the CLI's wait-for-ata convenience command to
// avoid polling getAccountInfo in a loop; it observes on-chain account
// state only and carries no MuSig2 protocol messages between parties.
func SubscribeAccount(ctx context.Context, wsEndpoint string, pubkey [32]byte, until func(accountData json.RawMessage) bool) error {
	wsURL, err := toWebsocketURL(wsEndpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRpcFailure, err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("%w: dialing websocket: %v", ErrRpcFailure, err)
	}
	defer conn.Close()

	sub := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "accountSubscribe",
		Params:  []any{base58.Encode(pubkey[:]), map[string]string{"encoding": "base64", "commitment": "confirmed"}},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("%w: sending accountSubscribe: %v", ErrRpcFailure, err)
	}

	done := make(chan error, 1)
	go func() {
		for {
			var notification struct {
				Method string `json:"method"`
				Params struct {
					Result struct {
						Value json.RawMessage `json:"value"`
					} `json:"result"`
				} `json:"params"`
			}
			if err := conn.ReadJSON(&notification); err != nil {
				done <- fmt.Errorf("%w: reading notification: %v", ErrRpcFailure, err)
				return
			}
			if notification.Method != "accountNotification" {
				continue
			}
			if until(notification.Params.Result.Value) {
				done <- nil
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func toWebsocketURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if !strings.Contains(u.Path, "/") {
		u.Path = "/"
	}
	return u.String(), nil
}
