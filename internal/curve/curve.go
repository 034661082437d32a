// Package curve wraps the Ed25519 prime-order subgroup arithmetic this
// signer needs: point (de)compression, scalar reduction mod the group
// order ℓ, and hash-to-scalar. All scalar arithmetic is modulo ℓ via
// filippo.io/edwards25519; no other curve is supported or needed.
package curve

import (
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

// ErrInvalidPoint is returned when a 32-byte value does not decode to a
// point on the Ed25519 prime-order subgroup.
var ErrInvalidPoint = errors.New("curve: invalid point encoding")

// ErrInvalidScalar is returned when a 32-byte value is not a canonical
// little-endian scalar representation.
var ErrInvalidScalar = errors.New("curve: invalid scalar encoding")

// PointSize and ScalarSize are the fixed wire sizes of compressed points
// and canonical scalars.
const (
	PointSize  = 32
	ScalarSize = 32
)

// DecodePoint decompresses a 32-byte compressed Edwards point.
func DecodePoint(b []byte) (*edwards25519.Point, error) {
	if len(b) != PointSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPoint, PointSize, len(b))
	}
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return p, nil
}

// EncodePoint returns the canonical 32-byte compressed encoding of p.
func EncodePoint(p *edwards25519.Point) []byte {
	return p.Bytes()
}

// DecodeScalar parses a 32-byte canonical (already reduced mod ℓ) scalar.
func DecodeScalar(b []byte) (*edwards25519.Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidScalar, ScalarSize, len(b))
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return s, nil
}

// EncodeScalar returns the canonical 32-byte little-endian encoding of s.
func EncodeScalar(s *edwards25519.Scalar) []byte {
	return s.Bytes()
}

// Identity returns the group identity point.
func Identity() *edwards25519.Point {
	return edwards25519.NewIdentityPoint()
}

// AddPoints returns a + b.
func AddPoints(a, b *edwards25519.Point) *edwards25519.Point {
	return edwards25519.NewIdentityPoint().Add(a, b)
}

// AddScalars returns a + b mod ℓ.
func AddScalars(a, b *edwards25519.Scalar) *edwards25519.Scalar {
	return edwards25519.NewScalar().Add(a, b)
}

// MultiplyScalars returns a * b mod ℓ.
func MultiplyScalars(a, b *edwards25519.Scalar) *edwards25519.Scalar {
	return edwards25519.NewScalar().Multiply(a, b)
}

// MultiplyAddScalars returns a*b + c mod ℓ.
func MultiplyAddScalars(a, b, c *edwards25519.Scalar) *edwards25519.Scalar {
	return edwards25519.NewScalar().MultiplyAdd(a, b, c)
}

// ScalarBaseMult returns s*G, G the Ed25519 base point.
func ScalarBaseMult(s *edwards25519.Scalar) *edwards25519.Point {
	return edwards25519.NewIdentityPoint().ScalarBaseMult(s)
}

// ScalarMult returns s*p.
func ScalarMult(s *edwards25519.Scalar, p *edwards25519.Point) *edwards25519.Point {
	return edwards25519.NewIdentityPoint().ScalarMult(s, p)
}

// PointsEqual reports whether a and b encode the same point.
func PointsEqual(a, b *edwards25519.Point) bool {
	return a.Equal(b) == 1
}

// HashToScalar computes SHA-512(domainTag || parts...) and reduces the
// 64-byte digest into a scalar mod ℓ. This is the one hash-to-scalar
// primitive used throughout key aggregation, nonce binding, and the
// Ed25519 signing challenge; domainTag separates the three uses.
func HashToScalar(domainTag string, parts ...[]byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write([]byte(domainTag))
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)

	s, err := edwards25519.NewScalar().SetUniformBytes(digest)
	if err != nil {
		// SetUniformBytes only rejects inputs that aren't exactly 64
		// bytes; digest is always a SHA-512 sum, so this is unreachable.
		panic("curve: hash digest was not 64 bytes: " + err.Error())
	}
	return s
}

// ExpandedKeypair holds the scalar, nonce-derivation prefix, and public
// point derived from a 32-byte Ed25519 seed per RFC 8032 §5.1.5.
type ExpandedKeypair struct {
	Scalar *edwards25519.Scalar // "a", used in signing
	Prefix [32]byte             // used to derive deterministic nonces (unused by this spec's RNG-based round_one)
	Public *edwards25519.Point
}

// ExpandSeed expands a 32-byte Ed25519 seed into its scalar, prefix, and
// public point.
func ExpandSeed(seed [32]byte) (*ExpandedKeypair, error) {
	h := sha512.Sum512(seed[:])

	a, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, fmt.Errorf("curve: failed to clamp expanded seed: %w", err)
	}

	var prefix [32]byte
	copy(prefix[:], h[32:64])

	return &ExpandedKeypair{
		Scalar: a,
		Prefix: prefix,
		Public: ScalarBaseMult(a),
	}, nil
}
