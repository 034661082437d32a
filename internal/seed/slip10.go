package seed

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

// hardenedOffset is added to every path index: SLIP-0010 defines only
// hardened derivation for Ed25519 (there is no curve point to derive a
// non-hardened child from, unlike secp256k1/BIP-32). No library in the
// example pack implements this for Ed25519 — the teacher's hdkeychain
// dependency is secp256k1-only — so this is implemented directly against
// the HMAC-SHA512 primitive the algorithm actually needs.
const hardenedOffset uint32 = 0x80000000

const slip10Ed25519Key = "ed25519 seed"

// ExtendedKey is a SLIP-0010 Ed25519 node: a 32-byte secret key and its
// 32-byte chain code.
type ExtendedKey struct {
	Key       [32]byte
	ChainCode [32]byte
}

// MasterKey derives the SLIP-0010 Ed25519 master key from a BIP-39 seed
// (or any high-entropy seed byte string).
func MasterKey(seed []byte) ExtendedKey {
	mac := hmac.New(sha512.New, []byte(slip10Ed25519Key))
	mac.Write(seed)
	sum := mac.Sum(nil)

	var out ExtendedKey
	copy(out.Key[:], sum[:32])
	copy(out.ChainCode[:], sum[32:])
	return out
}

// DeriveChild derives the hardened child at index (the hardened offset
// is added automatically; callers pass the plain index, e.g. 44, not
// 44+2^31).
func (k ExtendedKey) DeriveChild(index uint32) ExtendedKey {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, k.Key[:]...)
	var idxBuf [4]byte
	binary.BigEndian.PutUint32(idxBuf[:], index+hardenedOffset)
	data = append(data, idxBuf[:]...)

	mac := hmac.New(sha512.New, k.ChainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)

	var out ExtendedKey
	copy(out.Key[:], sum[:32])
	copy(out.ChainCode[:], sum[32:])
	return out
}

// DerivePath walks a sequence of hardened indices from the master key,
// e.g. DerivePath(seed, 44, 501, account) for m/44'/501'/account'.
func DerivePath(seed []byte, indices ...uint32) (ExtendedKey, error) {
	if len(indices) == 0 {
		return ExtendedKey{}, fmt.Errorf("seed: derivation path must have at least one index")
	}
	key := MasterKey(seed)
	for _, idx := range indices {
		key = key.DeriveChild(idx)
	}
	return key, nil
}

// SolanaAccountPath derives m/44'/501'/account', the conventional Solana
// wallet path (coin type 501, purpose 44, one hardened account index,
// no change level — matching the Rust original's derivation depth).
func SolanaAccountPath(seed []byte, account uint32) (ExtendedKey, error) {
	return DerivePath(seed, 44, 501, account)
}
