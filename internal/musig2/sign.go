package musig2

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/codec"
	"github.com/klingon-exchange/solsig/internal/curve"
)

// SignPartial computes this party's contribution to the aggregated
// signature over message. peerMessages must contain one FirstRoundMessage
// per other participant, in the same relative order as apk.Pubkeys, with
// own's slot omitted.
//
// SignPartial is a pure function of its inputs: it does not mark secret
// as consumed. Callers that want single-use enforcement should go
// through Session, which wraps this with a consumed flag.
func SignPartial(kp *Keypair, apk *APK, secret *SessionSecret, peerMessages []codec.FirstRoundMessage, message []byte) (codec.PartialSignature, error) {
	ownIndex := apk.indexOf(kp.Public)
	if ownIndex < 0 {
		return codec.PartialSignature{}, fmt.Errorf("%w", ErrKeypairNotInSet)
	}

	if len(peerMessages) != len(apk.Pubkeys)-1 {
		return codec.PartialSignature{}, fmt.Errorf("%w: expected %d peer messages, got %d", ErrMismatchedMessages, len(apk.Pubkeys)-1, len(peerMessages))
	}

	// Step 1: reconstruct the full ordered set of public nonce pairs,
	// inserting own (R1,R2) at ownIndex.
	r1s := make([]*edwards25519.Point, len(apk.Pubkeys))
	r2s := make([]*edwards25519.Point, len(apk.Pubkeys))
	peerIdx := 0
	for j, xj := range apk.Pubkeys {
		if j == ownIndex {
			r1s[j] = secret.R1Pub
			r2s[j] = secret.R2Pub
			continue
		}

		peer := peerMessages[peerIdx]
		peerIdx++

		sender, err := curve.DecodePoint(peer.Sender[:])
		if err != nil {
			return codec.PartialSignature{}, err
		}
		if !curve.PointsEqual(sender, xj) {
			return codec.PartialSignature{}, fmt.Errorf("%w: first-round message sender does not match participant at index %d", ErrKeypairNotInSet, j)
		}

		r1, err := curve.DecodePoint(peer.R1[:])
		if err != nil {
			return codec.PartialSignature{}, err
		}
		r2, err := curve.DecodePoint(peer.R2[:])
		if err != nil {
			return codec.PartialSignature{}, err
		}
		r1s[j] = r1
		r2s[j] = r2
	}

	// Step 2: aggregated nonces.
	aggR1 := curve.Identity()
	aggR2 := curve.Identity()
	for j := range apk.Pubkeys {
		aggR1 = curve.AddPoints(aggR1, r1s[j])
		aggR2 = curve.AddPoints(aggR2, r2s[j])
	}

	// Step 3: binding coefficient.
	b := curve.HashToScalar("musig2_bind", apk.EncodePoint(), curve.EncodePoint(aggR1), curve.EncodePoint(aggR2), message)

	// Step 4: effective aggregated nonce R = R̃1 + b·R̃2.
	R := curve.AddPoints(aggR1, curve.ScalarMult(b, aggR2))

	// Step 5: Ed25519 signing challenge.
	c := curve.HashToScalar("ed25519_sig", curve.EncodePoint(R), apk.EncodePoint(), message)

	// Step 6: own expanded scalar and MuSig2 coefficient.
	alpha, err := apk.CoefficientFor(kp.Public)
	if err != nil {
		return codec.PartialSignature{}, err
	}

	// Step 7: sᵢ = r1 + b·r2 + c·αᵢ·aᵢ mod ℓ.
	si := curve.AddScalars(secret.R1, curve.MultiplyScalars(b, secret.R2))
	calpha := curve.MultiplyScalars(c, alpha)
	si = curve.MultiplyAddScalars(calpha, kp.Scalar, si)

	// Step 8: emit PartialSignature = (R, sᵢ).
	var out codec.PartialSignature
	copy(out.R[:], curve.EncodePoint(R))
	copy(out.S[:], curve.EncodeScalar(si))
	return out, nil
}
