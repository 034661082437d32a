package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/musig2"
	"github.com/klingon-exchange/solsig/internal/netconfig"
	"github.com/klingon-exchange/solsig/internal/rpcclient"
	"github.com/klingon-exchange/solsig/internal/secureseed"
	"github.com/klingon-exchange/solsig/pkg/logging"
)

const defaultRPCTimeout = 20 * time.Second

// setupLogging builds the process logger and tags it with a fresh
// correlation id, so a single invocation's log lines can be grepped
// out of a multi-participant session's combined output.
func setupLogging(level string) *logging.Logger {
	log := logging.New(&logging.Config{Level: level, TimeFormat: time.TimeOnly})
	log = log.With("invocation", uuid.New().String())
	logging.SetDefault(log)
	return log
}

// resolveEndpoints picks the active RPC/WS endpoints for network, with
// rpcOverride/wsOverride (if non-empty) taking precedence.
func resolveEndpoints(network, rpcOverride, wsOverride string) (netconfig.Endpoints, error) {
	n, err := netconfig.ParseNetwork(network)
	if err != nil {
		return netconfig.Endpoints{}, err
	}
	endpoints := netconfig.Get(n)
	if rpcOverride != "" {
		endpoints.RPCURL = rpcOverride
	}
	if wsOverride != "" {
		endpoints.WSURL = wsOverride
	}
	return endpoints, nil
}

func newClient(endpoints netconfig.Endpoints) *rpcclient.Client {
	return rpcclient.New(endpoints.RPCURL, defaultRPCTimeout)
}

func parsePubkey(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := base58.Decode(s)
	if err != nil {
		return out, fmt.Errorf("invalid base58 value %q: %w", s, err)
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("value %q decodes to %d bytes, want 32", s, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func parsePubkeyList(csv string) ([][32]byte, error) {
	parts := strings.Split(csv, ",")
	out := make([][32]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pk, err := parsePubkey(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pk)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty participant list")
	}
	return out, nil
}

func parseStringList(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadSeed(path, password string) ([32]byte, error) {
	enc, err := secureseed.Load(path)
	if err != nil {
		return [32]byte{}, err
	}
	return secureseed.Decrypt(enc, password)
}

func saveSeed(path, password string, seed [32]byte) error {
	enc, err := secureseed.Encrypt(seed, password)
	if err != nil {
		return err
	}
	return secureseed.Save(path, enc)
}

// readPassword returns flagValue if set, falling back to the
// SOLSIG_PASSWORD environment variable so a password never has to
// appear in shell history or a process listing.
func readPassword(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("SOLSIG_PASSWORD")
}

func keypairFromSeedFile(path, password string) (*musig2.Keypair, error) {
	seed, err := loadSeed(path, password)
	if err != nil {
		return nil, err
	}
	return musig2.KeypairFromSeed(seed)
}
