// Package netconfig holds the Solana cluster endpoint registry: the four
// networks this signer's CLI can target, their default RPC/WebSocket
// URLs, and an optional override file.
package netconfig

import (
	"fmt"
	"strings"
)

// Network identifies a Solana cluster.
type Network int

const (
	Mainnet Network = iota
	Testnet
	Devnet
	Localnet
)

// String returns the network's canonical lowercase name.
func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Devnet:
		return "devnet"
	case Localnet:
		return "localnet"
	default:
		return "unknown"
	}
}

// ParseNetwork parses a network name (case-insensitive). "mainnet-beta"
// is accepted as an alias for "mainnet".
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "mainnet", "mainnet-beta":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	case "devnet":
		return Devnet, nil
	case "localnet", "localhost":
		return Localnet, nil
	default:
		return 0, fmt.Errorf("netconfig: unknown network %q", s)
	}
}

// Endpoints holds the RPC and WebSocket URLs for one cluster.
type Endpoints struct {
	RPCURL string
	WSURL  string
}

var defaultEndpoints = map[Network]Endpoints{
	Mainnet:  {RPCURL: "https://api.mainnet-beta.solana.com", WSURL: "wss://api.mainnet-beta.solana.com"},
	Testnet:  {RPCURL: "https://api.testnet.solana.com", WSURL: "wss://api.testnet.solana.com"},
	Devnet:   {RPCURL: "https://api.devnet.solana.com", WSURL: "wss://api.devnet.solana.com"},
	Localnet: {RPCURL: "http://127.0.0.1:8899", WSURL: "ws://127.0.0.1:8900"},
}

// registry is the active endpoint table; LoadOverrides replaces entries
// in place without touching networks it doesn't mention.
var registry = cloneDefaults()

func cloneDefaults() map[Network]Endpoints {
	out := make(map[Network]Endpoints, len(defaultEndpoints))
	for k, v := range defaultEndpoints {
		out[k] = v
	}
	return out
}

// Get returns the active endpoints for n.
func Get(n Network) Endpoints {
	return registry[n]
}

// Reset restores the registry to its compiled-in defaults, discarding
// any loaded overrides. Primarily useful for tests.
func Reset() {
	registry = cloneDefaults()
}
