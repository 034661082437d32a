package seed

// DeriveAccountSeed derives the 32-byte Ed25519 seed for the given
// account index from a BIP-39 mnemonic, following m/44'/501'/account'.
// The resulting bytes are fed directly into curve.ExpandSeed exactly
// like a freshly generated seed — SLIP-0010's derived key IS the Ed25519
// seed, there is no further transformation.
func DeriveAccountSeed(mnemonic, passphrase string, account uint32) ([32]byte, error) {
	bip39Seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return [32]byte{}, err
	}

	node, err := SolanaAccountPath(bip39Seed, account)
	if err != nil {
		return [32]byte{}, err
	}
	return node.Key, nil
}
