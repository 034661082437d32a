package secureseed

import (
	"path/filepath"
	"testing"
)

func testSeed() [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = byte(i)
	}
	return s
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	seed := testSeed()

	enc, err := Encrypt(seed, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	got, err := Decrypt(enc, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != seed {
		t.Fatal("decrypted seed does not match original")
	}
}

func TestDecryptWrongPasswordFails(t *testing.T) {
	seed := testSeed()
	enc, err := Encrypt(seed, "right password")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(enc, "wrong password"); err == nil {
		t.Fatal("expected decryption with the wrong password to fail")
	}
}

func TestEncryptIsNondeterministic(t *testing.T) {
	seed := testSeed()
	enc1, err := Encrypt(seed, "password")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	enc2, err := Encrypt(seed, "password")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if string(enc1.Ciphertext) == string(enc2.Ciphertext) {
		t.Fatal("two encryptions of the same seed produced identical ciphertext")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	seed := testSeed()
	enc, err := Encrypt(seed, "password")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := Save(path, enc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := Decrypt(loaded, "password")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != seed {
		t.Fatal("round trip through disk changed the seed")
	}
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %d", i, v)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Fatal("expected equal byte slices to compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Fatal("expected different byte slices to compare unequal")
	}
}
