package solanatx

import (
	"errors"
	"fmt"
)

// ErrEmptyInstructions is returned when a message is built with no
// instructions at all.
var ErrEmptyInstructions = errors.New("solanatx: message must contain at least one instruction")

// accountEntry tracks the strongest signer/writable flags seen for a
// pubkey across every instruction that references it, and the order in
// which it was first referenced (Solana requires a stable, deterministic
// account key ordering for the message to be byte-identical across
// independent builders).
type accountEntry struct {
	pubkey     [32]byte
	isSigner   bool
	isWritable bool
	firstSeen  int
}

// BuildMessage assembles the legacy Solana transaction message for
// instructions, with feePayer as account index 0 and recentBlockhash as
// the message's blockhash. feePayer is always a signer and always
// writable — in this signer's model the fee payer is the APK and the
// signer set has exactly one entry, per spec.
func BuildMessage(feePayer [32]byte, instructions []Instruction, recentBlockhash [32]byte) ([]byte, error) {
	if len(instructions) == 0 {
		return nil, ErrEmptyInstructions
	}

	entries := map[[32]byte]*accountEntry{}
	order := make([][32]byte, 0, 4+len(instructions))

	upsert := func(pubkey [32]byte, isSigner, isWritable bool) {
		e, ok := entries[pubkey]
		if !ok {
			e = &accountEntry{pubkey: pubkey, firstSeen: len(order)}
			entries[pubkey] = e
			order = append(order, pubkey)
		}
		if isSigner {
			e.isSigner = true
		}
		if isWritable {
			e.isWritable = true
		}
	}

	upsert(feePayer, true, true)
	for _, ix := range instructions {
		upsert(ix.ProgramID, false, false)
		for _, acc := range ix.Accounts {
			upsert(acc.Pubkey, acc.IsSigner, acc.IsWritable)
		}
	}

	ordered := make([]*accountEntry, len(order))
	for i, pk := range order {
		ordered[i] = entries[pk]
	}

	// Stable sort into Solana's four account categories: signer+writable,
	// signer+readonly, non-signer+writable, non-signer+readonly. The fee
	// payer is forced into category 0 and kept at index 0 within it by
	// virtue of being inserted first.
	category := func(e *accountEntry) int {
		switch {
		case e.isSigner && e.isWritable:
			return 0
		case e.isSigner && !e.isWritable:
			return 1
		case !e.isSigner && e.isWritable:
			return 2
		default:
			return 3
		}
	}
	stableSortByCategory(ordered, category)

	indexOf := make(map[[32]byte]int, len(ordered))
	for i, e := range ordered {
		indexOf[e.pubkey] = i
	}

	var numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned byte
	for _, e := range ordered {
		if e.isSigner {
			numRequiredSignatures++
			if !e.isWritable {
				numReadonlySigned++
			}
		} else if !e.isWritable {
			numReadonlyUnsigned++
		}
	}

	var out []byte
	out = append(out, numRequiredSignatures, numReadonlySigned, numReadonlyUnsigned)
	out = appendCompactU16(out, len(ordered))
	for _, e := range ordered {
		out = append(out, e.pubkey[:]...)
	}
	out = append(out, recentBlockhash[:]...)
	out = appendCompactU16(out, len(instructions))
	for _, ix := range instructions {
		out = append(out, byte(indexOf[ix.ProgramID]))
		out = appendCompactU16(out, len(ix.Accounts))
		for _, acc := range ix.Accounts {
			idx, ok := indexOf[acc.Pubkey]
			if !ok {
				return nil, fmt.Errorf("solanatx: instruction references unresolved account")
			}
			out = append(out, byte(idx))
		}
		out = appendCompactU16(out, len(ix.Data))
		out = append(out, ix.Data...)
	}

	return out, nil
}

// appendCompactU16 appends n encoded in Solana's "compact-u16" (shortvec)
// varint format: 7 payload bits per byte, high bit set on every byte but
// the last.
func appendCompactU16(buf []byte, n int) []byte {
	v := uint32(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
			continue
		}
		buf = append(buf, b)
		return buf
	}
}

// stableSortByCategory performs a stable insertion sort by category;
// account counts per message are small (a handful of accounts), so this
// is simpler and just as fast as reaching for sort.SliceStable here.
func stableSortByCategory(entries []*accountEntry, category func(*accountEntry) int) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && category(entries[j-1]) > category(entries[j]) {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}
