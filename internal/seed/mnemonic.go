// Package seed generates fresh Ed25519 keypair seeds and BIP-39
// mnemonics, and derives per-account seeds from a mnemonic via
// SLIP-0010 Ed25519 hardened derivation.
package seed

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"

	"github.com/klingon-exchange/solsig/pkg/helpers"
)

// EntropyBits is the BIP-39 entropy size used for generated mnemonics: a
// 24-word mnemonic.
const EntropyBits = 256

// GenerateMnemonic returns a fresh 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return "", fmt.Errorf("seed: generating entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("seed: generating mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether mnemonic is a well-formed BIP-39
// phrase (correct wordlist membership and checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte BIP-39 seed from mnemonic and an
// optional passphrase.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("seed: invalid mnemonic")
	}
	return bip39.NewSeed(mnemonic, passphrase), nil
}

// GenerateKeypairSeed samples a fresh 32-byte Ed25519 seed directly from
// the system CSPRNG, bypassing mnemonics entirely — the CLI's plain
// `generate` command.
func GenerateKeypairSeed() ([32]byte, error) {
	var out [32]byte
	raw, err := helpers.GenerateSecureRandom(32)
	if err != nil {
		return out, fmt.Errorf("seed: sampling seed: %w", err)
	}
	copy(out[:], raw)
	return out, nil
}
