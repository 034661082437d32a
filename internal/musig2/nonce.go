package musig2

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/codec"
	"github.com/klingon-exchange/solsig/internal/curve"
	"github.com/klingon-exchange/solsig/pkg/helpers"
)

// SessionSecret is a party's private nonce pair plus its public
// counterpart, held between round_one and round_two. Single-use: a
// session that has already produced a partial signature must be
// discarded, never fed into round_two again.
//
// Reusing a SessionSecret across two different messages leaks the
// party's long-term secret scalar — this is why round_one MUST reseed
// from the system CSPRNG every session rather than deriving nonces
// deterministically from the message.
type SessionSecret struct {
	R1, R2       *edwards25519.Scalar
	R1Pub, R2Pub *edwards25519.Point
}

// RoundOne samples a fresh nonce pair for kp and returns the message to
// publish to the other participants alongside the secret to hold until
// round_two.
func RoundOne(kp *Keypair) (codec.FirstRoundMessage, *SessionSecret, error) {
	r1, err := randomScalar()
	if err != nil {
		return codec.FirstRoundMessage{}, nil, fmt.Errorf("musig2: round_one nonce sampling: %w", err)
	}
	r2, err := randomScalar()
	if err != nil {
		return codec.FirstRoundMessage{}, nil, fmt.Errorf("musig2: round_one nonce sampling: %w", err)
	}

	R1 := curve.ScalarBaseMult(r1)
	R2 := curve.ScalarBaseMult(r2)

	secret := &SessionSecret{R1: r1, R2: r2, R1Pub: R1, R2Pub: R2}

	var msg codec.FirstRoundMessage
	copy(msg.R1[:], curve.EncodePoint(R1))
	copy(msg.R2[:], curve.EncodePoint(R2))
	senderBytes := kp.PublicBytes()
	copy(msg.Sender[:], senderBytes[:])

	return msg, secret, nil
}

// Encode converts the secret to its wire form for ferrying between
// stateless invocations.
func (s *SessionSecret) Encode() string {
	w := codec.SessionSecret{}
	copy(w.R1Scalar[:], curve.EncodeScalar(s.R1))
	copy(w.R2Scalar[:], curve.EncodeScalar(s.R2))
	copy(w.R1Point[:], curve.EncodePoint(s.R1Pub))
	copy(w.R2Point[:], curve.EncodePoint(s.R2Pub))
	return w.Encode()
}

// DecodeSessionSecret parses a base-58 SessionSecret produced by Encode.
func DecodeSessionSecret(text string) (*SessionSecret, error) {
	w, err := codec.DecodeSessionSecret(text)
	if err != nil {
		return nil, err
	}

	r1, err := curve.DecodeScalar(w.R1Scalar[:])
	if err != nil {
		return nil, err
	}
	r2, err := curve.DecodeScalar(w.R2Scalar[:])
	if err != nil {
		return nil, err
	}
	r1Pub, err := curve.DecodePoint(w.R1Point[:])
	if err != nil {
		return nil, err
	}
	r2Pub, err := curve.DecodePoint(w.R2Point[:])
	if err != nil {
		return nil, err
	}

	return &SessionSecret{R1: r1, R2: r2, R1Pub: r1Pub, R2Pub: r2Pub}, nil
}

// Zero overwrites the secret scalars so they are no longer recoverable
// from this struct's memory.
func (s *SessionSecret) Zero() {
	zero := edwards25519.NewScalar()
	s.R1.Set(zero)
	s.R2.Set(zero)
}

func randomScalar() (*edwards25519.Scalar, error) {
	buf, err := helpers.GenerateSecureRandom(64)
	if err != nil {
		return nil, err
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf)
	if err != nil {
		// unreachable: SetUniformBytes only rejects wrong-length input.
		return nil, err
	}
	return s, nil
}
