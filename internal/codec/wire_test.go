package codec

import (
	"bytes"
	"testing"

	"filippo.io/edwards25519"
)

func randomPoint(t *testing.T, seed byte) [32]byte {
	t.Helper()
	s := edwards25519.NewScalar()
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	if _, err := s.SetUniformBytes(buf); err != nil {
		t.Fatalf("SetUniformBytes: %v", err)
	}
	p := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
	var out [32]byte
	copy(out[:], p.Bytes())
	return out
}

func randomScalar(t *testing.T, seed byte) [32]byte {
	t.Helper()
	s := edwards25519.NewScalar()
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = seed + byte(i*3)
	}
	if _, err := s.SetUniformBytes(buf); err != nil {
		t.Fatalf("SetUniformBytes: %v", err)
	}
	var out [32]byte
	copy(out[:], s.Bytes())
	return out
}

func TestFirstRoundMessageRoundTrip(t *testing.T) {
	m := FirstRoundMessage{
		R1:     randomPoint(t, 1),
		R2:     randomPoint(t, 2),
		Sender: randomPoint(t, 3),
	}

	raw := m.Marshal()
	if len(raw) != firstRoundMessageSize {
		t.Fatalf("Marshal length = %d, want %d", len(raw), firstRoundMessageSize)
	}
	if raw[0] != byte(TagFirstRoundMessage) {
		t.Fatalf("tag byte = %d, want %d", raw[0], TagFirstRoundMessage)
	}

	got, err := UnmarshalFirstRoundMessage(raw)
	if err != nil {
		t.Fatalf("UnmarshalFirstRoundMessage: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}

	encoded := m.Encode()
	decoded, err := DecodeFirstRoundMessage(encoded)
	if err != nil {
		t.Fatalf("DecodeFirstRoundMessage: %v", err)
	}
	if decoded != m {
		t.Fatalf("base58 round trip mismatch: got %+v, want %+v", decoded, m)
	}
}

func TestPartialSignatureRoundTrip(t *testing.T) {
	p := PartialSignature{
		R: randomPoint(t, 10),
		S: randomScalar(t, 20),
	}

	raw := p.Marshal()
	if len(raw) != partialSignatureSize {
		t.Fatalf("Marshal length = %d, want %d", len(raw), partialSignatureSize)
	}

	got, err := UnmarshalPartialSignature(raw)
	if err != nil {
		t.Fatalf("UnmarshalPartialSignature: %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestSessionSecretRoundTrip(t *testing.T) {
	s := SessionSecret{
		R1Scalar: randomScalar(t, 5),
		R2Scalar: randomScalar(t, 6),
		R1Point:  randomPoint(t, 7),
		R2Point:  randomPoint(t, 8),
	}

	raw := s.Marshal()
	if len(raw) != sessionSecretSize {
		t.Fatalf("Marshal length = %d, want %d", len(raw), sessionSecretSize)
	}

	got, err := UnmarshalSessionSecret(raw)
	if err != nil {
		t.Fatalf("UnmarshalSessionSecret: %v", err)
	}
	if got != s {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
	}
}

func TestUnmarshalRejectsShortInput(t *testing.T) {
	if _, err := UnmarshalFirstRoundMessage(bytes.Repeat([]byte{1}, 10)); err == nil {
		t.Fatal("expected error for truncated FirstRoundMessage")
	}
	if _, err := UnmarshalPartialSignature(nil); err == nil {
		t.Fatal("expected error for empty PartialSignature")
	}
}

func TestUnmarshalRejectsWrongTag(t *testing.T) {
	p := PartialSignature{R: randomPoint(t, 1), S: randomScalar(t, 2)}
	raw := p.Marshal()
	raw[0] = byte(TagSessionSecret)

	if _, err := UnmarshalPartialSignature(raw); err == nil {
		t.Fatal("expected error for mismatched tag")
	}
}

func TestDecodeRejectsBadBase58(t *testing.T) {
	if _, err := DecodeFirstRoundMessage("not-valid-base58-!!!"); err == nil {
		t.Fatal("expected error for invalid base58 string")
	}
}
