package solanatx

// EncodeTransaction wraps a built message with its signatures into the
// wire-format Solana transaction: compact-u16(signature count) followed
// by each 64-byte signature, followed by the message bytes. Signatures
// must be supplied in the same order as the message's signer accounts.
func EncodeTransaction(message []byte, signatures ...[64]byte) []byte {
	out := appendCompactU16(nil, len(signatures))
	for _, sig := range signatures {
		out = append(out, sig[:]...)
	}
	out = append(out, message...)
	return out
}
