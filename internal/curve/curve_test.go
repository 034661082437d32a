package curve

import (
	"bytes"
	"crypto/rand"
	"testing"

	"filippo.io/edwards25519"
)

func TestEncodeDecodePointRoundTrip(t *testing.T) {
	s := randomScalar(t)
	p := ScalarBaseMult(s)

	enc := EncodePoint(p)
	if len(enc) != PointSize {
		t.Fatalf("EncodePoint length = %d, want %d", len(enc), PointSize)
	}

	dec, err := DecodePoint(enc)
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	if !PointsEqual(p, dec) {
		t.Fatal("decoded point does not equal original")
	}
}

func TestDecodePointRejectsWrongLength(t *testing.T) {
	if _, err := DecodePoint(make([]byte, 31)); err == nil {
		t.Fatal("expected error for short input")
	}
	if _, err := DecodePoint(make([]byte, 33)); err == nil {
		t.Fatal("expected error for long input")
	}
}

func TestDecodePointRejectsNonCurvePoint(t *testing.T) {
	// All-0xFF is not a valid compressed Edwards point encoding.
	bad := bytes.Repeat([]byte{0xFF}, 32)
	if _, err := DecodePoint(bad); err == nil {
		t.Fatal("expected error for non-curve-point input")
	}
}

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	s := randomScalar(t)
	enc := EncodeScalar(s)

	dec, err := DecodeScalar(enc)
	if err != nil {
		t.Fatalf("DecodeScalar: %v", err)
	}
	if !bytes.Equal(dec.Bytes(), s.Bytes()) {
		t.Fatal("decoded scalar does not equal original")
	}
}

func TestDecodeScalarRejectsNonCanonical(t *testing.T) {
	// 2^255 - 1 worth of 0xFF bytes is well above ℓ and not canonical.
	bad := bytes.Repeat([]byte{0xFF}, 32)
	if _, err := DecodeScalar(bad); err == nil {
		t.Fatal("expected error for non-canonical scalar")
	}
}

func TestHashToScalarDeterministic(t *testing.T) {
	a := HashToScalar("test_tag", []byte("hello"), []byte("world"))
	b := HashToScalar("test_tag", []byte("hello"), []byte("world"))
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("HashToScalar is not deterministic for identical inputs")
	}
}

func TestHashToScalarDomainSeparation(t *testing.T) {
	a := HashToScalar("musig2_coef", []byte("x"))
	b := HashToScalar("musig2_bind", []byte("x"))
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("different domain tags produced the same scalar")
	}
}

func TestAddPointsCommutative(t *testing.T) {
	a := ScalarBaseMult(randomScalar(t))
	b := ScalarBaseMult(randomScalar(t))

	ab := AddPoints(a, b)
	ba := AddPoints(b, a)
	if !PointsEqual(ab, ba) {
		t.Fatal("point addition is not commutative")
	}
}

func TestExpandSeedDeterministic(t *testing.T) {
	var seed [32]byte
	copy(seed[:], []byte("deterministic-test-seed-padding"))

	k1, err := ExpandSeed(seed)
	if err != nil {
		t.Fatalf("ExpandSeed: %v", err)
	}
	k2, err := ExpandSeed(seed)
	if err != nil {
		t.Fatalf("ExpandSeed: %v", err)
	}

	if !bytes.Equal(k1.Scalar.Bytes(), k2.Scalar.Bytes()) {
		t.Fatal("ExpandSeed scalar not deterministic")
	}
	if !PointsEqual(k1.Public, k2.Public) {
		t.Fatal("ExpandSeed public point not deterministic")
	}
}

func TestExpandSeedDistinctSeedsDiverge(t *testing.T) {
	var seedA, seedB [32]byte
	copy(seedA[:], []byte("seed-a-padding-to-32-bytes-long"))
	copy(seedB[:], []byte("seed-b-padding-to-32-bytes-long"))

	ka, err := ExpandSeed(seedA)
	if err != nil {
		t.Fatalf("ExpandSeed: %v", err)
	}
	kb, err := ExpandSeed(seedB)
	if err != nil {
		t.Fatalf("ExpandSeed: %v", err)
	}

	if PointsEqual(ka.Public, kb.Public) {
		t.Fatal("distinct seeds produced the same public key")
	}
}

func randomScalar(t *testing.T) *edwards25519.Scalar {
	t.Helper()
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(buf)
	if err != nil {
		t.Fatalf("SetUniformBytes: %v", err)
	}
	return s
}
