package musig2

import (
	"fmt"

	"github.com/klingon-exchange/solsig/internal/codec"
)

type sessionState int

const (
	stateAwaitPeers sessionState = iota
	stateDone
)

// Session enforces the per-party state machine around the stateless
// RoundOne/SignPartial primitives: (none) -> AWAIT_PEERS -> DONE. A
// SessionSecret consumed by RoundTwo must never be re-consumed; Session
// is the guard that makes that true for a caller that keeps the value
// around in memory instead of round-tripping it through base-58.
type Session struct {
	keypair *Keypair
	apk     *APK
	secret  *SessionSecret
	state   sessionState
}

// NewSession runs round_one and returns a Session parked in AWAIT_PEERS,
// plus the FirstRoundMessage to publish to the other participants.
func NewSession(kp *Keypair, apk *APK) (*Session, codec.FirstRoundMessage, error) {
	msg, secret, err := RoundOne(kp)
	if err != nil {
		return nil, codec.FirstRoundMessage{}, err
	}
	return &Session{
		keypair: kp,
		apk:     apk,
		secret:  secret,
		state:   stateAwaitPeers,
	}, msg, nil
}

// RoundTwo consumes the session's SessionSecret to produce this party's
// partial signature. It fails with ErrSessionAlreadyConsumed if called
// more than once on the same Session.
func (s *Session) RoundTwo(peerMessages []codec.FirstRoundMessage, message []byte) (codec.PartialSignature, error) {
	if s.state != stateAwaitPeers {
		return codec.PartialSignature{}, fmt.Errorf("%w", ErrSessionAlreadyConsumed)
	}

	partial, err := SignPartial(s.keypair, s.apk, s.secret, peerMessages, message)
	if err != nil {
		return codec.PartialSignature{}, err
	}

	s.secret.Zero()
	s.state = stateDone
	return partial, nil
}
