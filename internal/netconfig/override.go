package netconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of an optional endpoint-override
// file, e.g.:
//
//	devnet:
//	  rpc_url: "https://my-devnet-rpc.example.com"
//	  ws_url: "wss://my-devnet-rpc.example.com"
type overrideFile struct {
	Mainnet  *overrideEntry `yaml:"mainnet"`
	Testnet  *overrideEntry `yaml:"testnet"`
	Devnet   *overrideEntry `yaml:"devnet"`
	Localnet *overrideEntry `yaml:"localnet"`
}

type overrideEntry struct {
	RPCURL string `yaml:"rpc_url"`
	WSURL  string `yaml:"ws_url"`
}

// LoadOverrides reads a YAML override file and merges it into the active
// registry. Networks omitted from the file keep their compiled-in
// defaults.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("netconfig: reading override file: %w", err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("netconfig: parsing override file: %w", err)
	}

	apply(Mainnet, f.Mainnet)
	apply(Testnet, f.Testnet)
	apply(Devnet, f.Devnet)
	apply(Localnet, f.Localnet)
	return nil
}

func apply(n Network, e *overrideEntry) {
	if e == nil {
		return
	}
	current := registry[n]
	if e.RPCURL != "" {
		current.RPCURL = e.RPCURL
	}
	if e.WSURL != "" {
		current.WSURL = e.WSURL
	}
	registry[n] = current
}
