package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/rpcclient"
	"github.com/klingon-exchange/solsig/internal/solanatx"
	"github.com/klingon-exchange/solsig/pkg/helpers"
)

func registerChainCommands() {
	register("balance", "print an account's SOL balance", runBalance)
	register("recent-blockhash", "print the cluster's current recent blockhash", runRecentBlockhash)
	register("airdrop", "request a devnet/testnet airdrop", runAirdrop)
	register("wait-for-ata", "block until an associated token account exists on chain", runWaitForATA)
}

func bindNetworkFlags(fs *flag.FlagSet) (network, rpcURL, wsURL *string) {
	network = fs.String("network", "devnet", "target cluster: mainnet, testnet, devnet, localnet")
	rpcURL = fs.String("rpc", "", "override the cluster's default RPC URL")
	wsURL = fs.String("ws", "", "override the cluster's default WebSocket URL")
	return
}

func runBalance(args []string) error {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	pubkey := fs.String("pubkey", "", "base58 account pubkey")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	pk, err := parsePubkey(*pubkey)
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	lamports, err := client.GetBalance(context.Background(), pk)
	if err != nil {
		return err
	}
	fmt.Printf("%d lamports (%s SOL)\n", lamports, helpers.LamportsToSOL(lamports))
	return nil
}

func runRecentBlockhash(args []string) error {
	fs := flag.NewFlagSet("recent-blockhash", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*logLevel)

	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	blockhash, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(base58.Encode(blockhash[:]))
	return nil
}

func runAirdrop(args []string) error {
	fs := flag.NewFlagSet("airdrop", flag.ExitOnError)
	network, rpcURL, _ := bindNetworkFlags(fs)
	pubkey := fs.String("pubkey", "", "base58 account pubkey to fund")
	lamports := fs.Uint64("lamports", 1_000_000_000, "amount in lamports")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	pk, err := parsePubkey(*pubkey)
	if err != nil {
		return err
	}
	endpoints, err := resolveEndpoints(*network, *rpcURL, "")
	if err != nil {
		return err
	}
	if *network == "mainnet" || *network == "mainnet-beta" {
		return fmt.Errorf("airdrops are not available on mainnet")
	}
	client := newClient(endpoints)

	sig, err := client.RequestAirdrop(context.Background(), pk, *lamports)
	if err != nil {
		return err
	}
	log.Info("airdrop requested", "lamports", *lamports, "signature", sig)
	fmt.Println(sig)
	return nil
}

func runWaitForATA(args []string) error {
	fs := flag.NewFlagSet("wait-for-ata", flag.ExitOnError)
	network, rpcURL, wsURL := bindNetworkFlags(fs)
	owner := fs.String("owner", "", "base58 token account owner pubkey")
	mint := fs.String("mint", "", "base58 mint pubkey")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	ownerKey, err := parsePubkey(*owner)
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}
	ata, err := solanatx.DeriveATA(ownerKey, mintKey)
	if err != nil {
		return err
	}

	endpoints, err := resolveEndpoints(*network, *rpcURL, *wsURL)
	if err != nil {
		return err
	}

	log.Info("waiting for associated token account", "ata", base58.Encode(ata[:]))
	err = rpcclient.SubscribeAccount(context.Background(), endpoints.WSURL, ata, func(accountData json.RawMessage) bool {
		return len(accountData) > 0 && string(accountData) != "null"
	})
	if err != nil {
		return err
	}
	fmt.Println(base58.Encode(ata[:]))
	return nil
}
