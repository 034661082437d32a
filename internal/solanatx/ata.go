package solanatx

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/klingon-exchange/solsig/internal/curve"
)

// ErrNoValidProgramAddress is returned when no bump seed in [0, 255]
// yields an off-curve address, which would indicate a malformed seed
// set rather than bad luck (the odds of exhausting all 256 bumps are
// astronomically small for real inputs).
var ErrNoValidProgramAddress = errors.New("solanatx: unable to find a valid program address")

const pdaMarker = "ProgramDerivedAddress"

// CreateProgramAddress derives a program-derived address from seeds and
// programID, per Solana's convention: a PDA is valid only if the derived
// 32 bytes do NOT decode to a point on the Ed25519 curve (so no private
// key can ever exist for it).
func CreateProgramAddress(seeds [][]byte, programID [32]byte) ([32]byte, error) {
	var out [32]byte
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > 32 {
			return out, fmt.Errorf("solanatx: seed exceeds 32 bytes")
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))
	sum := h.Sum(nil)
	copy(out[:], sum)

	if _, err := curve.DecodePoint(out[:]); err == nil {
		return [32]byte{}, fmt.Errorf("solanatx: derived address lies on the curve")
	}
	return out, nil
}

// FindProgramAddress derives the canonical (highest-bump) program address
// for seeds and programID, trying bump seeds from 255 down to 0.
func FindProgramAddress(seeds [][]byte, programID [32]byte) ([32]byte, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		withBump := append(append([][]byte{}, seeds...), []byte{byte(bump)})
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return [32]byte{}, 0, ErrNoValidProgramAddress
}

// DeriveATA computes the associated token account address for (owner,
// mint), per the SPL associated-token-account program's seed convention:
// seeds = [owner, tokenProgramID, mint].
func DeriveATA(owner, mint [32]byte) ([32]byte, error) {
	tokenProgram := TokenProgramID()
	ata, _, err := FindProgramAddress([][]byte{owner[:], tokenProgram[:], mint[:]}, AssociatedTokenProgramID())
	return ata, err
}
