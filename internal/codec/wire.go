// Package codec implements the canonical tagged binary encoding for the
// three MuSig2 wire values that travel between stateless invocations,
// plus a base-58 wrapper for text transport. The binary layout is fixed
// and length-implicit per tag; there is no varint or length prefix.
package codec

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/curve"
)

// Tag identifies the wire value type. It is always the first byte.
type Tag byte

const (
	TagFirstRoundMessage Tag = 1
	TagPartialSignature  Tag = 2
	TagSessionSecret     Tag = 3
)

const (
	firstRoundMessageSize = 1 + 32 + 32 + 32 // tag + R1 + R2 + sender_pubkey
	partialSignatureSize  = 1 + 32 + 32      // tag + R + s
	sessionSecretSize     = 1 + 32 + 32 + 32 + 32
)

// FirstRoundMessage is a party's published nonce pair plus its public key.
type FirstRoundMessage struct {
	R1     [32]byte
	R2     [32]byte
	Sender [32]byte
}

// Marshal returns the tagged binary encoding.
func (m FirstRoundMessage) Marshal() []byte {
	out := make([]byte, 0, firstRoundMessageSize)
	out = append(out, byte(TagFirstRoundMessage))
	out = append(out, m.R1[:]...)
	out = append(out, m.R2[:]...)
	out = append(out, m.Sender[:]...)
	return out
}

// UnmarshalFirstRoundMessage decodes a tagged binary FirstRoundMessage.
func UnmarshalFirstRoundMessage(b []byte) (FirstRoundMessage, error) {
	var m FirstRoundMessage
	if len(b) < firstRoundMessageSize {
		return m, fmt.Errorf("%w: FirstRoundMessage needs %d bytes, got %d", ErrInputTooShort, firstRoundMessageSize, len(b))
	}
	if Tag(b[0]) != TagFirstRoundMessage {
		return m, fmt.Errorf("%w: expected tag %d, got %d", ErrWrongTag, TagFirstRoundMessage, b[0])
	}
	copy(m.R1[:], b[1:33])
	copy(m.R2[:], b[33:65])
	copy(m.Sender[:], b[65:97])
	if err := validatePoints(m.R1[:], m.R2[:], m.Sender[:]); err != nil {
		return FirstRoundMessage{}, err
	}
	return m, nil
}

// Encode returns the base-58 text form.
func (m FirstRoundMessage) Encode() string {
	return base58.Encode(m.Marshal())
}

// DecodeFirstRoundMessage parses a base-58 FirstRoundMessage.
func DecodeFirstRoundMessage(s string) (FirstRoundMessage, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return FirstRoundMessage{}, fmt.Errorf("%w: %v", ErrBadBase58, err)
	}
	return UnmarshalFirstRoundMessage(b)
}

// PartialSignature is one party's contribution (R, sᵢ) to the final
// aggregated signature. R is identical across all partials of a session.
type PartialSignature struct {
	R [32]byte
	S [32]byte
}

// Marshal returns the tagged binary encoding.
func (p PartialSignature) Marshal() []byte {
	out := make([]byte, 0, partialSignatureSize)
	out = append(out, byte(TagPartialSignature))
	out = append(out, p.R[:]...)
	out = append(out, p.S[:]...)
	return out
}

// UnmarshalPartialSignature decodes a tagged binary PartialSignature.
func UnmarshalPartialSignature(b []byte) (PartialSignature, error) {
	var p PartialSignature
	if len(b) < partialSignatureSize {
		return p, fmt.Errorf("%w: PartialSignature needs %d bytes, got %d", ErrInputTooShort, partialSignatureSize, len(b))
	}
	if Tag(b[0]) != TagPartialSignature {
		return p, fmt.Errorf("%w: expected tag %d, got %d", ErrWrongTag, TagPartialSignature, b[0])
	}
	copy(p.R[:], b[1:33])
	copy(p.S[:], b[33:65])
	if _, err := curve.DecodePoint(p.R[:]); err != nil {
		return PartialSignature{}, err
	}
	if _, err := curve.DecodeScalar(p.S[:]); err != nil {
		return PartialSignature{}, err
	}
	return p, nil
}

// Encode returns the base-58 text form.
func (p PartialSignature) Encode() string {
	return base58.Encode(p.Marshal())
}

// DecodePartialSignature parses a base-58 PartialSignature.
func DecodePartialSignature(s string) (PartialSignature, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return PartialSignature{}, fmt.Errorf("%w: %v", ErrBadBase58, err)
	}
	return UnmarshalPartialSignature(b)
}

// SessionSecret is a party's private nonce pair plus its public
// counterpart, held between round_one and round_two. Single-use: the
// caller must discard it immediately after round_two consumes it.
type SessionSecret struct {
	R1Scalar [32]byte
	R2Scalar [32]byte
	R1Point  [32]byte
	R2Point  [32]byte
}

// Marshal returns the tagged binary encoding.
func (s SessionSecret) Marshal() []byte {
	out := make([]byte, 0, sessionSecretSize)
	out = append(out, byte(TagSessionSecret))
	out = append(out, s.R1Scalar[:]...)
	out = append(out, s.R2Scalar[:]...)
	out = append(out, s.R1Point[:]...)
	out = append(out, s.R2Point[:]...)
	return out
}

// UnmarshalSessionSecret decodes a tagged binary SessionSecret.
func UnmarshalSessionSecret(b []byte) (SessionSecret, error) {
	var s SessionSecret
	if len(b) < sessionSecretSize {
		return s, fmt.Errorf("%w: SessionSecret needs %d bytes, got %d", ErrInputTooShort, sessionSecretSize, len(b))
	}
	if Tag(b[0]) != TagSessionSecret {
		return s, fmt.Errorf("%w: expected tag %d, got %d", ErrWrongTag, TagSessionSecret, b[0])
	}
	copy(s.R1Scalar[:], b[1:33])
	copy(s.R2Scalar[:], b[33:65])
	copy(s.R1Point[:], b[65:97])
	copy(s.R2Point[:], b[97:129])
	if _, err := curve.DecodeScalar(s.R1Scalar[:]); err != nil {
		return SessionSecret{}, err
	}
	if _, err := curve.DecodeScalar(s.R2Scalar[:]); err != nil {
		return SessionSecret{}, err
	}
	if err := validatePoints(s.R1Point[:], s.R2Point[:]); err != nil {
		return SessionSecret{}, err
	}
	return s, nil
}

// Encode returns the base-58 text form.
func (s SessionSecret) Encode() string {
	return base58.Encode(s.Marshal())
}

// DecodeSessionSecret parses a base-58 SessionSecret.
func DecodeSessionSecret(text string) (SessionSecret, error) {
	b, err := base58.Decode(text)
	if err != nil {
		return SessionSecret{}, fmt.Errorf("%w: %v", ErrBadBase58, err)
	}
	return UnmarshalSessionSecret(b)
}

func validatePoints(points ...[]byte) error {
	for _, p := range points {
		if _, err := curve.DecodePoint(p); err != nil {
			return err
		}
	}
	return nil
}
