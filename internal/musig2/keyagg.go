package musig2

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/curve"
)

// APK is the deterministically aggregated public key for an ordered
// participant list. Its identity is order-sensitive: aggregating the
// same keys in a different order yields a different APK, by design
// (unlike schemes with a second-key optimization, every coefficient here
// depends on the full ordered list).
type APK struct {
	Point   *edwards25519.Point
	L       []byte // concatenated compressed participant keys, in order
	Pubkeys []*edwards25519.Point
}

// EncodePoint returns the compressed 32-byte APK point.
func (a *APK) EncodePoint() []byte {
	return curve.EncodePoint(a.Point)
}

// AggregateKeys computes the APK for an ordered list of participant
// public keys. The order supplied here becomes part of the APK's
// identity; callers MUST NOT sort the list.
func AggregateKeys(pubkeys []*edwards25519.Point) (*APK, error) {
	if len(pubkeys) == 0 {
		return nil, ErrEmptyParticipantSet
	}

	L := make([]byte, 0, len(pubkeys)*curve.PointSize)
	for _, x := range pubkeys {
		L = append(L, curve.EncodePoint(x)...)
	}

	ordered := make([]*edwards25519.Point, len(pubkeys))
	copy(ordered, pubkeys)

	X := curve.Identity()
	for _, xi := range ordered {
		ai := coefficient(L, xi)
		X = curve.AddPoints(X, curve.ScalarMult(ai, xi))
	}

	return &APK{Point: X, L: L, Pubkeys: ordered}, nil
}

// CoefficientFor recomputes the MuSig2 coefficient aⱼ for participant
// public key xj. Fails with ErrKeypairNotInSet if xj is not among the
// APK's participants.
func (a *APK) CoefficientFor(xj *edwards25519.Point) (*edwards25519.Scalar, error) {
	for _, p := range a.Pubkeys {
		if curve.PointsEqual(p, xj) {
			return coefficient(a.L, xj), nil
		}
	}
	return nil, fmt.Errorf("%w", ErrKeypairNotInSet)
}

// indexOf returns the position of pubkey in the APK's ordered
// participant list, or -1 if absent.
func (a *APK) indexOf(pubkey *edwards25519.Point) int {
	for i, p := range a.Pubkeys {
		if curve.PointsEqual(p, pubkey) {
			return i
		}
	}
	return -1
}

func coefficient(L []byte, xi *edwards25519.Point) *edwards25519.Scalar {
	return curve.HashToScalar("musig2_coef", L, curve.EncodePoint(xi))
}
