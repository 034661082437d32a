// Package solanatx builds the exact, byte-identical Solana transaction
// messages that every MuSig2 participant must sign over. A one-byte
// divergence here between participants causes silent signature
// aggregation failure, so every encoding decision (account ordering,
// compact-u16 lengths, instruction layout) follows Solana's wire format
// precisely rather than approximating it.
package solanatx

import "github.com/mr-tron/base58"

// Well-known Solana program ids, as their canonical base-58 strings.
const (
	systemProgramIDString          = "11111111111111111111111111111111"
	tokenProgramIDString           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	associatedTokenProgramIDString = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knH"
	memoProgramIDString            = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
)

// SystemProgramID returns the native System program id.
func SystemProgramID() [32]byte { return mustDecode(systemProgramIDString) }

// TokenProgramID returns the SPL Token program id.
func TokenProgramID() [32]byte { return mustDecode(tokenProgramIDString) }

// AssociatedTokenProgramID returns the SPL Associated Token Account
// program id.
func AssociatedTokenProgramID() [32]byte { return mustDecode(associatedTokenProgramIDString) }

// MemoProgramID returns the SPL Memo program id.
func MemoProgramID() [32]byte { return mustDecode(memoProgramIDString) }

func mustDecode(s string) [32]byte {
	b, err := base58.Decode(s)
	if err != nil {
		panic("solanatx: invalid hardcoded program id: " + err.Error())
	}
	var out [32]byte
	copy(out[:], b)
	return out
}
