// Package secureseed encrypts a participant's 32-byte Ed25519 seed at
// rest, the same way the teacher's wallet package protects a BIP-39
// mnemonic: Argon2id key derivation feeding an AES-256-GCM cipher.
package secureseed

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"

	"github.com/klingon-exchange/solsig/pkg/helpers"
)

const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 32
	nonceLen     = 12
)

// EncryptedSeed is the on-disk JSON shape of a password-protected seed.
type EncryptedSeed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Encrypt encrypts a 32-byte Ed25519 seed under password.
func Encrypt(seed [32]byte, password string) (*EncryptedSeed, error) {
	salt, err := helpers.GenerateSecureRandom(saltLen)
	if err != nil {
		return nil, fmt.Errorf("secureseed: generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	defer Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("secureseed: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secureseed: creating GCM: %w", err)
	}

	nonce, err := helpers.GenerateSecureRandom(nonceLen)
	if err != nil {
		return nil, fmt.Errorf("secureseed: generating nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, seed[:], nil)

	return &EncryptedSeed{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Decrypt recovers the 32-byte seed from an EncryptedSeed and password.
func Decrypt(enc *EncryptedSeed, password string) ([32]byte, error) {
	var out [32]byte

	key := argon2.IDKey([]byte(password), enc.Salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	defer Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return out, fmt.Errorf("secureseed: creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return out, fmt.Errorf("secureseed: creating GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, enc.Nonce, enc.Ciphertext, nil)
	if err != nil {
		return out, fmt.Errorf("secureseed: decryption failed (wrong password or corrupted file): %w", err)
	}
	defer Zero(plaintext)

	if len(plaintext) != 32 {
		return out, fmt.Errorf("secureseed: decrypted payload has unexpected length %d", len(plaintext))
	}
	copy(out[:], plaintext)
	return out, nil
}

// Zero overwrites b in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare reports whether a and b are equal, in time
// independent of where they first differ.
func ConstantTimeCompare(a, b []byte) bool {
	return helpers.ConstantTimeCompare(a, b)
}

// Save writes enc to path as JSON with owner-only permissions.
func Save(path string, enc *EncryptedSeed) error {
	data, err := json.MarshalIndent(enc, "", "  ")
	if err != nil {
		return fmt.Errorf("secureseed: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("secureseed: writing file: %w", err)
	}
	return nil
}

// Load reads an EncryptedSeed previously written by Save.
func Load(path string) (*EncryptedSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("secureseed: reading file: %w", err)
	}
	var enc EncryptedSeed
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("secureseed: parsing file: %w", err)
	}
	return &enc, nil
}
