// Package solanatoken implements the single-signer SPL token convenience
// operations the CLI needs to stand up a test mint and move tokens
// around outside the MuSig2 path: creating a mint, minting supply, and
// plain transfers. None of this touches internal/musig2 — every
// transaction here is signed with a single stdlib ed25519 key, the
// payer doubling as mint and freeze authority. The MuSig2-signed path
// lives in internal/solanatx's transfer builders and is driven by
// round_one/round_two, never by this package.
package solanatoken

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/klingon-exchange/solsig/internal/rpcclient"
	"github.com/klingon-exchange/solsig/internal/solanatx"
)

// mintAccountSpace is the fixed on-chain size of an SPL token mint
// account.
const mintAccountSpace = 82

// CreateMint allocates and initializes a new SPL token mint, with payer
// acting as both rent payer and the mint's mint/freeze authority. It
// returns the new mint's public key and the confirming signature.
func CreateMint(ctx context.Context, client *rpcclient.Client, payer ed25519.PrivateKey, decimals uint8) ([32]byte, string, error) {
	payerPub, err := pubkeyOf(payer)
	if err != nil {
		return [32]byte{}, "", err
	}

	mintPub, mintPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return [32]byte{}, "", fmt.Errorf("solanatoken: generating mint keypair: %w", err)
	}
	var mint [32]byte
	copy(mint[:], mintPub)

	rent, err := client.GetMinimumBalanceForRentExemption(ctx, mintAccountSpace)
	if err != nil {
		return [32]byte{}, "", err
	}

	createIx := solanatx.CreateAccount(payerPub, mint, rent, mintAccountSpace, solanatx.TokenProgramID())
	initIx := solanatx.InitializeMint2(mint, decimals, payerPub, &payerPub)

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		return [32]byte{}, "", err
	}

	message, err := solanatx.BuildMessage(payerPub, []solanatx.Instruction{createIx, initIx}, blockhash)
	if err != nil {
		return [32]byte{}, "", err
	}

	// Both payer and the fresh mint account are signer+writable, and
	// payer was inserted first (as fee payer) so BuildMessage's stable
	// sort keeps this order: [payer, mint].
	raw := solanatx.EncodeTransaction(message, sign(payer, message), sign(mintPriv, message))

	sig, err := client.SendAndConfirm(ctx, raw)
	if err != nil {
		return [32]byte{}, "", err
	}
	return mint, sig, nil
}

// MintTo mints amount raw token units to destination's associated token
// account, creating that account first if it does not already exist.
// payer is both the rent payer and the mint authority, matching
// CreateMint's single-signer assumption. decimals must match the
// mint's actual on-chain decimals: mint_to_checked has the token
// program reject the instruction otherwise, catching a caller mistake
// before it touches the ledger.
func MintTo(ctx context.Context, client *rpcclient.Client, payer ed25519.PrivateKey, mint, destination [32]byte, amount uint64, decimals uint8) (string, error) {
	payerPub, err := pubkeyOf(payer)
	if err != nil {
		return "", err
	}

	destATA, err := solanatx.DeriveATA(destination, mint)
	if err != nil {
		return "", err
	}

	instructions := make([]solanatx.Instruction, 0, 2)
	exists, err := client.AccountExists(ctx, destATA)
	if err != nil {
		return "", err
	}
	if !exists {
		createATAIx, err := solanatx.CreateAssociatedTokenAccount(payerPub, destination, mint)
		if err != nil {
			return "", err
		}
		instructions = append(instructions, createATAIx)
	}
	instructions = append(instructions, solanatx.MintToChecked(mint, destATA, payerPub, amount, decimals))

	return broadcastSingleSigner(ctx, client, payer, instructions)
}

// Transfer moves amount raw token units from source's associated token
// account to destination's, using the plain (non-checked) transfer
// instruction. authority is the owner of the source token account.
func Transfer(ctx context.Context, client *rpcclient.Client, authority ed25519.PrivateKey, mint, destination [32]byte, amount uint64) (string, error) {
	authorityPub, err := pubkeyOf(authority)
	if err != nil {
		return "", err
	}

	sourceATA, err := solanatx.DeriveATA(authorityPub, mint)
	if err != nil {
		return "", err
	}
	destATA, err := solanatx.DeriveATA(destination, mint)
	if err != nil {
		return "", err
	}

	sourceExists, err := client.AccountExists(ctx, sourceATA)
	if err != nil {
		return "", err
	}
	if !sourceExists {
		return "", fmt.Errorf("%w: source token account has no balance to transfer from", rpcclient.ErrAccountNotFound)
	}

	instructions := make([]solanatx.Instruction, 0, 2)
	exists, err := client.AccountExists(ctx, destATA)
	if err != nil {
		return "", err
	}
	if !exists {
		createATAIx, err := solanatx.CreateAssociatedTokenAccount(authorityPub, destination, mint)
		if err != nil {
			return "", err
		}
		instructions = append(instructions, createATAIx)
	}
	instructions = append(instructions, solanatx.TokenTransfer(sourceATA, destATA, authorityPub, amount))

	return broadcastSingleSigner(ctx, client, authority, instructions)
}

// Balance returns the raw token amount held by owner's associated token
// account for mint.
func Balance(ctx context.Context, client *rpcclient.Client, owner, mint [32]byte) (uint64, error) {
	ata, err := solanatx.DeriveATA(owner, mint)
	if err != nil {
		return 0, err
	}
	return client.GetTokenBalance(ctx, ata)
}

// broadcastSingleSigner builds, signs, and sends a transaction whose fee
// payer is the only required signer.
func broadcastSingleSigner(ctx context.Context, client *rpcclient.Client, signer ed25519.PrivateKey, instructions []solanatx.Instruction) (string, error) {
	signerPub, err := pubkeyOf(signer)
	if err != nil {
		return "", err
	}

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	message, err := solanatx.BuildMessage(signerPub, instructions, blockhash)
	if err != nil {
		return "", err
	}

	raw := solanatx.EncodeTransaction(message, sign(signer, message))
	return client.SendAndConfirm(ctx, raw)
}

func pubkeyOf(key ed25519.PrivateKey) ([32]byte, error) {
	pub, ok := key.Public().(ed25519.PublicKey)
	if !ok || len(pub) != 32 {
		return [32]byte{}, fmt.Errorf("solanatoken: malformed ed25519 key")
	}
	var out [32]byte
	copy(out[:], pub)
	return out, nil
}

func sign(key ed25519.PrivateKey, message []byte) [64]byte {
	var out [64]byte
	copy(out[:], ed25519.Sign(key, message))
	return out
}
