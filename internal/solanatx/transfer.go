package solanatx

// BuildSOLTransfer constructs the unsigned message for a native SOL
// transfer: system_transfer(from=apk, to=recipient, lamports) followed
// optionally by a memo instruction. The fee payer and sole signer is
// apk.
func BuildSOLTransfer(apk [32]byte, to [32]byte, lamports uint64, memo []byte, recentBlockhash [32]byte) ([]byte, error) {
	instructions := []Instruction{SystemTransfer(apk, to, lamports)}
	if len(memo) > 0 {
		instructions = append(instructions, Memo(memo))
	}
	return BuildMessage(apk, instructions, recentBlockhash)
}

// BuildSPLTransfer constructs the unsigned message for an SPL
// token-checked transfer, with the destination-ATA-creation decision
// taken as an explicit createDestinationATA input rather than queried
// from the RPC facade internally — every party MUST agree on this value
// out of band, since an internal RPC lookup is not guaranteed to return
// the same answer to every participant.
func BuildSPLTransfer(apk [32]byte, mint [32]byte, to [32]byte, rawAmount uint64, decimals uint8, createDestinationATA bool, recentBlockhash [32]byte) ([]byte, error) {
	sourceATA, err := DeriveATA(apk, mint)
	if err != nil {
		return nil, err
	}
	destinationATA, err := DeriveATA(to, mint)
	if err != nil {
		return nil, err
	}

	var instructions []Instruction
	if createDestinationATA {
		createIx, err := CreateAssociatedTokenAccount(apk, to, mint)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, createIx)
	}
	instructions = append(instructions, TransferChecked(sourceATA, mint, destinationATA, apk, rawAmount, decimals))

	return BuildMessage(apk, instructions, recentBlockhash)
}
