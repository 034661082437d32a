package musig2

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/codec"
	"github.com/klingon-exchange/solsig/internal/curve"
)

// Signature is the final (R, s) pair: a standard 64-byte Ed25519
// signature verifiable under the APK.
type Signature struct {
	R [32]byte
	S [32]byte
}

// Bytes returns the standard R‖s 64-byte Ed25519 signature encoding.
func (sig Signature) Bytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, sig.R[:]...)
	out = append(out, sig.S[:]...)
	return out
}

// Aggregate validates that all partial signatures agree on R, sums their
// scalar contributions, and verifies the result against apk and message
// before returning it. This is the pipeline's single defensive check:
// failure here means participant misbehavior, nonce reuse, or divergent
// message construction somewhere upstream.
func Aggregate(apk *APK, message []byte, partials []codec.PartialSignature) (Signature, error) {
	if len(partials) == 0 {
		return Signature{}, fmt.Errorf("musig2: aggregate requires at least one partial signature")
	}

	R := partials[0].R
	for _, p := range partials[1:] {
		if p.R != R {
			return Signature{}, fmt.Errorf("%w", ErrMismatchedNonceAggregate)
		}
	}

	sum := edwards25519.NewScalar()
	for _, p := range partials {
		si, err := curve.DecodeScalar(p.S[:])
		if err != nil {
			return Signature{}, err
		}
		sum = curve.AddScalars(sum, si)
	}

	Rpoint, err := curve.DecodePoint(R[:])
	if err != nil {
		return Signature{}, err
	}

	c := curve.HashToScalar("ed25519_sig", R[:], apk.EncodePoint(), message)

	sG := curve.ScalarBaseMult(sum)
	rhs := curve.AddPoints(Rpoint, curve.ScalarMult(c, apk.Point))
	if !curve.PointsEqual(sG, rhs) {
		return Signature{}, fmt.Errorf("%w", ErrInvalidSignature)
	}

	var out Signature
	out.R = R
	copy(out.S[:], curve.EncodeScalar(sum))
	return out, nil
}
