package musig2

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/curve"
	"github.com/klingon-exchange/solsig/pkg/helpers"
)

// Keypair holds one participant's 32-byte Ed25519 seed and its expanded
// signing material. The seed never leaves its owner; callers are
// responsible for zeroing it after use.
type Keypair struct {
	Seed   [32]byte
	Scalar *edwards25519.Scalar // expanded "a"
	Public *edwards25519.Point
}

// PublicBytes returns the compressed 32-byte public key.
func (k *Keypair) PublicBytes() [32]byte {
	var out [32]byte
	copy(out[:], curve.EncodePoint(k.Public))
	return out
}

// GenerateKeypair samples a fresh 32-byte seed from the system CSPRNG and
// expands it.
func GenerateKeypair() (*Keypair, error) {
	raw, err := helpers.GenerateSecureRandom(32)
	if err != nil {
		return nil, fmt.Errorf("musig2: failed to sample seed: %w", err)
	}
	var seed [32]byte
	copy(seed[:], raw)
	return KeypairFromSeed(seed)
}

// KeypairFromSeed expands an existing 32-byte Ed25519 seed.
func KeypairFromSeed(seed [32]byte) (*Keypair, error) {
	expanded, err := curve.ExpandSeed(seed)
	if err != nil {
		return nil, err
	}
	return &Keypair{
		Seed:   seed,
		Scalar: expanded.Scalar,
		Public: expanded.Public,
	}, nil
}

// Zero overwrites the seed in place. Callers should call this as soon as
// the keypair is no longer needed.
func (k *Keypair) Zero() {
	for i := range k.Seed {
		k.Seed[i] = 0
	}
}
