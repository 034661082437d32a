package main

import (
	"context"
	"crypto/ed25519"
	"flag"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/solanatoken"
	"github.com/klingon-exchange/solsig/pkg/helpers"
)

func registerTokenCommands() {
	register("create-token", "create a new SPL token mint (single-signer convenience, not MuSig2)", runCreateToken)
	register("mint-tokens", "mint SPL token supply to an owner (single-signer convenience, not MuSig2)", runMintTokens)
	register("transfer-tokens", "transfer SPL tokens (single-signer convenience, not MuSig2)", runTransferTokens)
	register("token-balance", "print an owner's raw token balance for a mint", runTokenBalance)
}

// payerSigner loads a participant's seed file and returns the
// stdlib ed25519 keypair derived from the same 32-byte seed, for the
// single-signer convenience operations in internal/solanatoken.
func payerSigner(seedFile, password string) (ed25519.PrivateKey, error) {
	seed, err := loadSeed(seedFile, password)
	if err != nil {
		return nil, err
	}
	return ed25519.NewKeyFromSeed(seed[:]), nil
}

func runCreateToken(args []string) error {
	fs := flag.NewFlagSet("create-token", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	seedFile := fs.String("seed", "seed.json", "path to the payer's encrypted seed")
	password := fs.String("password", "", "decryption password (falls back to SOLSIG_PASSWORD)")
	decimals := fs.Uint("decimals", 6, "mint decimals")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	payer, err := payerSigner(*seedFile, readPassword(*password))
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	mint, sig, err := solanatoken.CreateMint(context.Background(), client, payer, uint8(*decimals))
	if err != nil {
		return err
	}
	log.Info("mint created", "mint", base58.Encode(mint[:]), "signature", sig)
	fmt.Println(base58.Encode(mint[:]))
	return nil
}

func runMintTokens(args []string) error {
	fs := flag.NewFlagSet("mint-tokens", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	seedFile := fs.String("seed", "seed.json", "path to the mint authority's encrypted seed")
	password := fs.String("password", "", "decryption password (falls back to SOLSIG_PASSWORD)")
	mint := fs.String("mint", "", "base58 mint pubkey")
	destination := fs.String("destination", "", "base58 destination owner pubkey")
	amount := fs.Uint64("amount", 0, "raw token amount")
	decimals := fs.Uint("decimals", 6, "mint decimals; must match the mint's actual on-chain decimals")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	payer, err := payerSigner(*seedFile, readPassword(*password))
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}
	destKey, err := parsePubkey(*destination)
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	sig, err := solanatoken.MintTo(context.Background(), client, payer, mintKey, destKey, *amount, uint8(*decimals))
	if err != nil {
		return err
	}
	log.Info("mint complete", "amount", *amount, "decimals", *decimals, "signature", sig)
	fmt.Println(sig)
	return nil
}

func runTransferTokens(args []string) error {
	fs := flag.NewFlagSet("transfer-tokens", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	seedFile := fs.String("seed", "seed.json", "path to the source owner's encrypted seed")
	password := fs.String("password", "", "decryption password (falls back to SOLSIG_PASSWORD)")
	mint := fs.String("mint", "", "base58 mint pubkey")
	destination := fs.String("destination", "", "base58 destination owner pubkey")
	amount := fs.Uint64("amount", 0, "raw token amount")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	authority, err := payerSigner(*seedFile, readPassword(*password))
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}
	destKey, err := parsePubkey(*destination)
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	sig, err := solanatoken.Transfer(context.Background(), client, authority, mintKey, destKey, *amount)
	if err != nil {
		return err
	}
	log.Info("transfer complete", "amount", *amount, "signature", sig)
	fmt.Println(sig)
	return nil
}

func runTokenBalance(args []string) error {
	fs := flag.NewFlagSet("token-balance", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	owner := fs.String("owner", "", "base58 token account owner pubkey")
	mint := fs.String("mint", "", "base58 mint pubkey")
	decimals := fs.Uint("decimals", 6, "mint decimals, for human-readable display only")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	ownerKey, err := parsePubkey(*owner)
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	raw, err := solanatoken.Balance(context.Background(), client, ownerKey, mintKey)
	if err != nil {
		return err
	}
	fmt.Printf("%d (%s)\n", raw, helpers.FormatAmount(raw, uint8(*decimals)))
	return nil
}
