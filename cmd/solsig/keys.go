package main

import (
	"flag"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/curve"
	"github.com/klingon-exchange/solsig/internal/musig2"
	"github.com/klingon-exchange/solsig/internal/seed"
)

func registerKeyCommands() {
	register("generate", "generate a fresh Ed25519 seed and save it encrypted", runGenerate)
	register("generate-mnemonic", "print a fresh 24-word BIP-39 mnemonic", runGenerateMnemonic)
	register("derive", "derive and save a seed from a mnemonic at an account index", runDerive)
	register("aggregate-keys", "aggregate an ordered list of participant public keys into an APK", runAggregateKeys)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	out := fs.String("out", "seed.json", "output path for the encrypted seed")
	password := fs.String("password", "", "encryption password (falls back to SOLSIG_PASSWORD)")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	pw := readPassword(*password)
	if pw == "" {
		return fmt.Errorf("a password is required (-password or SOLSIG_PASSWORD)")
	}

	s, err := seed.GenerateKeypairSeed()
	if err != nil {
		return err
	}
	kp, err := musig2.KeypairFromSeed(s)
	if err != nil {
		return err
	}
	defer kp.Zero()

	if err := saveSeed(*out, pw, s); err != nil {
		return err
	}
	pub := kp.PublicBytes()
	log.Info("seed generated", "file", *out, "pubkey", base58.Encode(pub[:]))
	fmt.Println(base58.Encode(pub[:]))
	return nil
}

func runGenerateMnemonic(args []string) error {
	fs := flag.NewFlagSet("generate-mnemonic", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := seed.GenerateMnemonic()
	if err != nil {
		return err
	}
	fmt.Println(m)
	return nil
}

func runDerive(args []string) error {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic phrase")
	passphrase := fs.String("passphrase", "", "optional BIP-39 passphrase")
	account := fs.Uint("account", 0, "account index (m/44'/501'/account')")
	out := fs.String("out", "seed.json", "output path for the encrypted seed")
	password := fs.String("password", "", "encryption password (falls back to SOLSIG_PASSWORD)")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	if *mnemonic == "" {
		return fmt.Errorf("-mnemonic is required")
	}
	pw := readPassword(*password)
	if pw == "" {
		return fmt.Errorf("a password is required (-password or SOLSIG_PASSWORD)")
	}

	s, err := seed.DeriveAccountSeed(*mnemonic, *passphrase, uint32(*account))
	if err != nil {
		return err
	}
	kp, err := musig2.KeypairFromSeed(s)
	if err != nil {
		return err
	}
	defer kp.Zero()

	if err := saveSeed(*out, pw, s); err != nil {
		return err
	}
	pub := kp.PublicBytes()
	log.Info("seed derived", "file", *out, "account", *account, "pubkey", base58.Encode(pub[:]))
	fmt.Println(base58.Encode(pub[:]))
	return nil
}

func runAggregateKeys(args []string) error {
	fs := flag.NewFlagSet("aggregate-keys", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated ordered list of base58 public keys")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	apk, err := aggregateParticipants(*participants)
	if err != nil {
		return err
	}
	fmt.Println(base58.Encode(apk.EncodePoint()))
	return nil
}

// aggregateParticipants decodes an ordered comma-separated public key
// list and aggregates it. Callers across the session and aggregate
// commands MUST pass participants in the same order every time — the
// APK's identity depends on it.
func aggregateParticipants(csv string) (*musig2.APK, error) {
	pubkeys, err := parsePubkeyList(csv)
	if err != nil {
		return nil, err
	}

	points := make([]*edwards25519.Point, len(pubkeys))
	for i, pk := range pubkeys {
		p, err := curve.DecodePoint(pk[:])
		if err != nil {
			return nil, fmt.Errorf("participant %d: %w", i, err)
		}
		points[i] = p
	}
	return musig2.AggregateKeys(points)
}
