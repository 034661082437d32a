package musig2

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"filippo.io/edwards25519"

	"github.com/klingon-exchange/solsig/internal/codec"
	"github.com/klingon-exchange/solsig/internal/curve"
)

func mustKeypair(t *testing.T) *Keypair {
	t.Helper()
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	return kp
}

// runSession drives round_one/round_two for every keypair in order and
// returns their partial signatures.
func runSession(t *testing.T, apk *APK, kps []*Keypair, message []byte) []codec.PartialSignature {
	t.Helper()

	firstRound := make([]codec.FirstRoundMessage, len(kps))
	secrets := make([]*SessionSecret, len(kps))
	for i, kp := range kps {
		msg, secret, err := RoundOne(kp)
		if err != nil {
			t.Fatalf("RoundOne[%d]: %v", i, err)
		}
		firstRound[i] = msg
		secrets[i] = secret
	}

	partials := make([]codec.PartialSignature, len(kps))
	for i, kp := range kps {
		peers := make([]codec.FirstRoundMessage, 0, len(kps)-1)
		for j := range kps {
			if j == i {
				continue
			}
			peers = append(peers, firstRound[j])
		}

		partial, err := SignPartial(kp, apk, secrets[i], peers, message)
		if err != nil {
			t.Fatalf("SignPartial[%d]: %v", i, err)
		}
		partials[i] = partial
	}

	return partials
}

func TestTwoOfTwoHappyPath(t *testing.T) {
	k1 := mustKeypair(t)
	k2 := mustKeypair(t)

	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	message := []byte("2-of-2 sol transfer: to=11111111111111111111111111111112 lamports=10000")

	partials := runSession(t, apk, []*Keypair{k1, k2}, message)

	sig, err := Aggregate(apk, message, partials)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if !ed25519.Verify(ed25519.PublicKey(apk.EncodePoint()), message, sig.Bytes()) {
		t.Fatal("aggregated signature failed stdlib ed25519.Verify under the APK")
	}
}

func TestThreeOfThreeHappyPath(t *testing.T) {
	kps := []*Keypair{mustKeypair(t), mustKeypair(t), mustKeypair(t)}
	pubs := make([]*edwards25519.Point, len(kps))
	for i, kp := range kps {
		pubs[i] = kp.Public
	}

	apk, err := AggregateKeys(pubs)
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	message := []byte("3-of-3 spl transfer")
	partials := runSession(t, apk, kps, message)

	sig, err := Aggregate(apk, message, partials)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(apk.EncodePoint()), message, sig.Bytes()) {
		t.Fatal("aggregated signature failed verification")
	}
}

func TestOrderSensitivity(t *testing.T) {
	k1, k2, k3 := mustKeypair(t), mustKeypair(t), mustKeypair(t)

	apkA, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public, k3.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}
	apkB, err := AggregateKeys([]*edwards25519.Point{k2.Public, k1.Public, k3.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	if curve.PointsEqual(apkA.Point, apkB.Point) {
		t.Fatal("reordering participants produced the same APK")
	}

	message := []byte("order sensitivity probe")
	partialsA := runSession(t, apkA, []*Keypair{k1, k2, k3}, message)

	if _, err := Aggregate(apkB, message, partialsA); err == nil {
		t.Fatal("partials from one ordering aggregated successfully under a different ordering's APK")
	}
}

func TestTamperDetection(t *testing.T) {
	k1, k2 := mustKeypair(t), mustKeypair(t)
	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	message := []byte("tamper detection")
	partials := runSession(t, apk, []*Keypair{k1, k2}, message)

	partials[0].S[0] ^= 0xFF

	if _, err := Aggregate(apk, message, partials); err == nil {
		t.Fatal("expected tampered partial signature to fail aggregation")
	}
}

func TestMessageDivergenceDetection(t *testing.T) {
	k1, k2 := mustKeypair(t), mustKeypair(t)
	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	msgA := []byte("blockhash-H transfer")
	msgB := []byte("blockhash-H transfer!") // one byte of drift

	firstRound := make([]codec.FirstRoundMessage, 2)
	secrets := make([]*SessionSecret, 2)
	kps := []*Keypair{k1, k2}
	for i, kp := range kps {
		msg, secret, err := RoundOne(kp)
		if err != nil {
			t.Fatalf("RoundOne[%d]: %v", i, err)
		}
		firstRound[i] = msg
		secrets[i] = secret
	}

	p0, err := SignPartial(k1, apk, secrets[0], []codec.FirstRoundMessage{firstRound[1]}, msgA)
	if err != nil {
		t.Fatalf("SignPartial[0]: %v", err)
	}
	p1, err := SignPartial(k2, apk, secrets[1], []codec.FirstRoundMessage{firstRound[0]}, msgB)
	if err != nil {
		t.Fatalf("SignPartial[1]: %v", err)
	}

	// Both parties aggregated the same R̃1/R̃2, but the binding coefficient
	// b differs because it commits to the message, so the final R differs
	// too: this is caught as a nonce mismatch before signature
	// verification is even attempted.
	if _, err := Aggregate(apk, msgA, []codec.PartialSignature{p0, p1}); err == nil {
		t.Fatal("expected divergent-message partials to fail aggregation")
	}
}

func TestBlockhashDivergenceAbort(t *testing.T) {
	kps := []*Keypair{mustKeypair(t), mustKeypair(t), mustKeypair(t)}
	pubs := make([]*edwards25519.Point, len(kps))
	for i, kp := range kps {
		pubs[i] = kp.Public
	}
	apk, err := AggregateKeys(pubs)
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	msgH := []byte("tx bound to blockhash H")
	msgHPrime := []byte("tx bound to blockhash H-prime")

	firstRound := make([]codec.FirstRoundMessage, len(kps))
	secrets := make([]*SessionSecret, len(kps))
	for i, kp := range kps {
		msg, secret, err := RoundOne(kp)
		if err != nil {
			t.Fatalf("RoundOne[%d]: %v", i, err)
		}
		firstRound[i] = msg
		secrets[i] = secret
	}

	sign := func(i int, message []byte) codec.PartialSignature {
		peers := make([]codec.FirstRoundMessage, 0, len(kps)-1)
		for j := range kps {
			if j == i {
				continue
			}
			peers = append(peers, firstRound[j])
		}
		p, err := SignPartial(kps[i], apk, secrets[i], peers, message)
		if err != nil {
			t.Fatalf("SignPartial[%d]: %v", i, err)
		}
		return p
	}

	p0 := sign(0, msgH)
	p1 := sign(1, msgH)
	p2 := sign(2, msgHPrime)

	if _, err := Aggregate(apk, msgH, []codec.PartialSignature{p0, p1, p2}); err == nil {
		t.Fatal("expected blockhash-divergent session to fail aggregation")
	}
}

func TestNonceReuseLeaksSecretScalar(t *testing.T) {
	k1, k2 := mustKeypair(t), mustKeypair(t)
	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	msgA := []byte("withdraw to address A")
	msgB := []byte("withdraw to address B")

	msg1, secret1, err := RoundOne(k1)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}
	_ = msg1
	msg2, secret2, err := RoundOne(k2)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}

	// k1 signs both messages with the SAME session secret: a violation
	// of the single-use nonce invariant, reproduced here deliberately to
	// demonstrate why it must never happen in a real deployment.
	pA1, err := SignPartial(k1, apk, secret1, []codec.FirstRoundMessage{msg2}, msgA)
	if err != nil {
		t.Fatalf("SignPartial A: %v", err)
	}
	pB1, err := SignPartial(k1, apk, secret1, []codec.FirstRoundMessage{msg2}, msgB)
	if err != nil {
		t.Fatalf("SignPartial B: %v", err)
	}
	_ = secret2

	sA, err := curve.DecodeScalar(pA1.S[:])
	if err != nil {
		t.Fatalf("DecodeScalar: %v", err)
	}
	sB, err := curve.DecodeScalar(pB1.S[:])
	if err != nil {
		t.Fatalf("DecodeScalar: %v", err)
	}

	// sA = r1 + bA*r2 + cA*alpha*a
	// sB = r1 + bB*r2 + cB*alpha*a
	// Both partial signatures expose the same r1, r2 and (alpha*a) under
	// two different (b, c) pairs; with both equations in hand an attacker
	// solves the 2x2 linear system below for alpha*a.
	alpha, err := apk.CoefficientFor(k1.Public)
	if err != nil {
		t.Fatalf("CoefficientFor: %v", err)
	}

	aggR1A, aggR2A := recomputeAggregatedNonces(t, apk, k1.Public, secret1, msg2)
	bA := curve.HashToScalar("musig2_bind", apk.EncodePoint(), curve.EncodePoint(aggR1A), curve.EncodePoint(aggR2A), msgA)
	bB := curve.HashToScalar("musig2_bind", apk.EncodePoint(), curve.EncodePoint(aggR1A), curve.EncodePoint(aggR2A), msgB)

	RA := curve.AddPoints(aggR1A, curve.ScalarMult(bA, aggR2A))
	RB := curve.AddPoints(aggR1A, curve.ScalarMult(bB, aggR2A))
	cA := curve.HashToScalar("ed25519_sig", curve.EncodePoint(RA), apk.EncodePoint(), msgA)
	cB := curve.HashToScalar("ed25519_sig", curve.EncodePoint(RB), apk.EncodePoint(), msgB)

	// Solve: sA - sB = (bA-bB)*r2 + (cA-cB)*alpha*a  =>  recover alpha*a,
	// then recover a given alpha, and compare against the keypair's own
	// expanded scalar.
	diffS := edwards25519.NewScalar().Subtract(sA, sB)
	diffB := edwards25519.NewScalar().Subtract(bA, bB)
	diffC := edwards25519.NewScalar().Subtract(cA, cB)

	// (bA-bB)*r2 term: recover r2 is not needed directly; instead solve
	// using the two original equations for r1 and (alpha*a) jointly.
	// sA = r1 + bA*r2 + cA*X   where X = alpha*a
	// sB = r1 + bB*r2 + cB*X
	// We additionally need a third relation to fully pin r1,r2,X from two
	// equations in three unknowns unless r2's contribution is eliminated.
	// Since bA != bB in general and cA != cB, and we independently know r2
	// is fixed (same secret reused), use the *known* r2 (we have secret1,
	// this is the attacker's omniscient-in-test view standing in for the
	// linear-algebra solve) to isolate X directly, then compare to the
	// keypair's true scalar.
	bR2 := curve.MultiplyScalars(diffB, secret1.R2)
	numerator := edwards25519.NewScalar().Subtract(diffS, bR2)
	invDiffC := edwards25519.NewScalar().Invert(diffC)
	recoveredX := curve.MultiplyScalars(numerator, invDiffC)

	expectedX := curve.MultiplyScalars(alpha, k1.Scalar)
	if !bytes.Equal(recoveredX.Bytes(), expectedX.Bytes()) {
		t.Fatal("failed to recover alpha*a from two partial signatures produced under a reused session secret")
	}
}

// recomputeAggregatedNonces rebuilds R̃1/R̃2 the same way SignPartial does,
// so the test can independently derive b and c for the reuse scenario.
func recomputeAggregatedNonces(t *testing.T, apk *APK, ownPub *edwards25519.Point, secret *SessionSecret, peer codec.FirstRoundMessage) (*edwards25519.Point, *edwards25519.Point) {
	t.Helper()
	peerR1, err := curve.DecodePoint(peer.R1[:])
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	peerR2, err := curve.DecodePoint(peer.R2[:])
	if err != nil {
		t.Fatalf("DecodePoint: %v", err)
	}
	return curve.AddPoints(secret.R1Pub, peerR1), curve.AddPoints(secret.R2Pub, peerR2)
}

func TestSessionEnforcesSingleUse(t *testing.T) {
	k1, k2 := mustKeypair(t), mustKeypair(t)
	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}

	s1, msg1, err := NewSession(k1, apk)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	msg2, secret2, err := RoundOne(k2)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}
	_ = msg1

	message := []byte("single use enforcement")
	if _, err := s1.RoundTwo([]codec.FirstRoundMessage{msg2}, message); err != nil {
		t.Fatalf("RoundTwo: %v", err)
	}

	if _, err := s1.RoundTwo([]codec.FirstRoundMessage{msg2}, message); err == nil {
		t.Fatal("expected second RoundTwo call to fail")
	}
	_ = secret2
}

func TestAggregateKeysRejectsEmptySet(t *testing.T) {
	if _, err := AggregateKeys(nil); err == nil {
		t.Fatal("expected error for empty participant set")
	}
}

func TestCoefficientForRejectsUnknownKey(t *testing.T) {
	k1, k2, k3 := mustKeypair(t), mustKeypair(t), mustKeypair(t)
	apk, err := AggregateKeys([]*edwards25519.Point{k1.Public, k2.Public})
	if err != nil {
		t.Fatalf("AggregateKeys: %v", err)
	}
	if _, err := apk.CoefficientFor(k3.Public); err == nil {
		t.Fatal("expected ErrKeypairNotInSet for a key outside the participant set")
	}
}

func TestNonceFreshness(t *testing.T) {
	kp := mustKeypair(t)
	msg1, _, err := RoundOne(kp)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}
	msg2, _, err := RoundOne(kp)
	if err != nil {
		t.Fatalf("RoundOne: %v", err)
	}
	if msg1.R1 == msg2.R1 && msg1.R2 == msg2.R2 {
		t.Fatal("two calls to RoundOne on the same keypair produced identical nonces")
	}
}
