package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/klingon-exchange/solsig/internal/codec"
	"github.com/klingon-exchange/solsig/internal/musig2"
	"github.com/klingon-exchange/solsig/internal/solanatx"
	"github.com/klingon-exchange/solsig/pkg/helpers"
	"github.com/klingon-exchange/solsig/pkg/logging"
)

func registerSessionCommands() {
	register("round-one", "run round_one: publish a fresh nonce pair", runRoundOne)
	register("round-two-sol", "run round_two over a SOL transfer and emit a partial signature", runRoundTwoSOL)
	register("round-two-spl", "run round_two over an SPL transfer and emit a partial signature", runRoundTwoSPL)
	register("aggregate-sol", "aggregate partial signatures over a SOL transfer into a final signature", runAggregateSOL)
	register("aggregate-spl", "aggregate partial signatures over an SPL transfer into a final signature", runAggregateSPL)
}

func runRoundOne(args []string) error {
	fs := flag.NewFlagSet("round-one", flag.ExitOnError)
	seedFile := fs.String("seed", "seed.json", "path to this participant's encrypted seed")
	password := fs.String("password", "", "decryption password (falls back to SOLSIG_PASSWORD)")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	kp, err := keypairFromSeedFile(*seedFile, readPassword(*password))
	if err != nil {
		return err
	}
	defer kp.Zero()

	msg, secret, err := musig2.RoundOne(kp)
	if err != nil {
		return err
	}

	pubBytes := kp.PublicBytes()
	log.Info("round_one complete", "pubkey", base58.Encode(pubBytes[:]))
	fmt.Printf("first-round-message: %s\n", msg.Encode())
	fmt.Printf("session-secret: %s\n", secret.Encode())
	return nil
}

// roundTwoFlags holds the flags shared by both round-two commands: the
// ordered participant list, this party's held session secret, and the
// other participants' published first-round messages.
type roundTwoFlags struct {
	participants  *string
	seedFile      *string
	password      *string
	sessionSecret *string
	peerMessages  *string
	blockhash     *string
	logLevel      *string
}

func bindRoundTwoFlags(fs *flag.FlagSet) roundTwoFlags {
	return roundTwoFlags{
		participants:  fs.String("participants", "", "comma-separated ordered list of base58 public keys"),
		seedFile:      fs.String("seed", "seed.json", "path to this participant's encrypted seed"),
		password:      fs.String("password", "", "decryption password (falls back to SOLSIG_PASSWORD)"),
		sessionSecret: fs.String("session-secret", "", "this party's base58 session secret from round-one"),
		peerMessages:  fs.String("peer-messages", "", "comma-separated base58 first-round messages from the other participants, in participant order"),
		blockhash:     fs.String("blockhash", "", "base58 recent blockhash agreed on by every participant"),
		logLevel:      fs.String("log-level", "info", "log level"),
	}
}

func (f roundTwoFlags) resolve() (kp *musig2.Keypair, apk *musig2.APK, secret *musig2.SessionSecret, peers []codec.FirstRoundMessage, blockhash [32]byte, err error) {
	apk, err = aggregateParticipants(*f.participants)
	if err != nil {
		return
	}
	kp, err = keypairFromSeedFile(*f.seedFile, readPassword(*f.password))
	if err != nil {
		return
	}
	if *f.sessionSecret == "" {
		err = fmt.Errorf("-session-secret is required")
		return
	}
	secret, err = musig2.DecodeSessionSecret(*f.sessionSecret)
	if err != nil {
		return
	}
	for i, s := range parseStringList(*f.peerMessages) {
		var m codec.FirstRoundMessage
		m, err = codec.DecodeFirstRoundMessage(s)
		if err != nil {
			err = fmt.Errorf("peer message %d: %w", i, err)
			return
		}
		peers = append(peers, m)
	}
	if *f.blockhash == "" {
		err = fmt.Errorf("-blockhash is required")
		return
	}
	blockhash, err = parsePubkey(*f.blockhash)
	return
}

func runRoundTwoSOL(args []string) error {
	fs := flag.NewFlagSet("round-two-sol", flag.ExitOnError)
	rf := bindRoundTwoFlags(fs)
	to := fs.String("to", "", "recipient base58 pubkey")
	lamports := fs.Uint64("lamports", 0, "amount in lamports")
	sol := fs.String("sol", "", "amount in SOL (alternative to -lamports)")
	memo := fs.String("memo", "", "optional memo text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*rf.logLevel)

	kp, apk, secret, peers, blockhash, err := rf.resolve()
	if err != nil {
		return err
	}
	defer kp.Zero()
	defer secret.Zero()

	recipient, err := parsePubkey(*to)
	if err != nil {
		return err
	}
	amount, err := resolveLamports(*lamports, *sol)
	if err != nil {
		return err
	}

	var apkBytes [32]byte
	copy(apkBytes[:], apk.EncodePoint())
	message, err := solanatx.BuildSOLTransfer(apkBytes, recipient, amount, []byte(*memo), blockhash)
	if err != nil {
		return err
	}

	partial, err := musig2.SignPartial(kp, apk, secret, peers, message)
	if err != nil {
		return err
	}

	log.Info("round_two complete", "lamports", amount)
	fmt.Println(partial.Encode())
	return nil
}

func runRoundTwoSPL(args []string) error {
	fs := flag.NewFlagSet("round-two-spl", flag.ExitOnError)
	rf := bindRoundTwoFlags(fs)
	to := fs.String("to", "", "recipient base58 owner pubkey")
	mint := fs.String("mint", "", "base58 mint pubkey")
	amount := fs.Uint64("amount", 0, "raw token amount")
	decimals := fs.Uint("decimals", 0, "mint decimals")
	createATA := fs.Bool("create-ata", false, "whether to include the destination's create-ATA instruction; every participant MUST agree on this value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*rf.logLevel)

	kp, apk, secret, peers, blockhash, err := rf.resolve()
	if err != nil {
		return err
	}
	defer kp.Zero()
	defer secret.Zero()

	recipient, err := parsePubkey(*to)
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}

	var apkBytes [32]byte
	copy(apkBytes[:], apk.EncodePoint())
	message, err := solanatx.BuildSPLTransfer(apkBytes, mintKey, recipient, *amount, uint8(*decimals), *createATA, blockhash)
	if err != nil {
		return err
	}

	partial, err := musig2.SignPartial(kp, apk, secret, peers, message)
	if err != nil {
		return err
	}

	log.Info("round_two complete", "amount", *amount, "create_ata", *createATA)
	fmt.Println(partial.Encode())
	return nil
}

func runAggregateSOL(args []string) error {
	fs := flag.NewFlagSet("aggregate-sol", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated ordered list of base58 public keys")
	partials := fs.String("partials", "", "comma-separated base58 partial signatures")
	to := fs.String("to", "", "recipient base58 pubkey")
	lamports := fs.Uint64("lamports", 0, "amount in lamports")
	sol := fs.String("sol", "", "amount in SOL (alternative to -lamports)")
	memo := fs.String("memo", "", "optional memo text")
	blockhash := fs.String("blockhash", "", "base58 recent blockhash")
	broadcast := fs.Bool("broadcast", false, "send the assembled transaction to the cluster")
	network := fs.String("network", "devnet", "target cluster: mainnet, testnet, devnet, localnet")
	rpcURL := fs.String("rpc", "", "override the cluster's default RPC URL")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	apk, err := aggregateParticipants(*participants)
	if err != nil {
		return err
	}
	recipient, err := parsePubkey(*to)
	if err != nil {
		return err
	}
	amount, err := resolveLamports(*lamports, *sol)
	if err != nil {
		return err
	}
	blockhashBytes, err := parsePubkey(*blockhash)
	if err != nil {
		return err
	}

	var apkBytes [32]byte
	copy(apkBytes[:], apk.EncodePoint())
	message, err := solanatx.BuildSOLTransfer(apkBytes, recipient, amount, []byte(*memo), blockhashBytes)
	if err != nil {
		return err
	}

	sig, err := aggregatePartials(apk, message, *partials)
	if err != nil {
		return err
	}
	fmt.Printf("signature: %s\n", base58.Encode(sig.Bytes()))

	if *broadcast {
		return broadcastSigned(log, *network, *rpcURL, message, sig)
	}
	return nil
}

func runAggregateSPL(args []string) error {
	fs := flag.NewFlagSet("aggregate-spl", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated ordered list of base58 public keys")
	partials := fs.String("partials", "", "comma-separated base58 partial signatures")
	to := fs.String("to", "", "recipient base58 owner pubkey")
	mint := fs.String("mint", "", "base58 mint pubkey")
	amount := fs.Uint64("amount", 0, "raw token amount")
	decimals := fs.Uint("decimals", 0, "mint decimals")
	createATA := fs.Bool("create-ata", false, "whether the destination's create-ATA instruction was included")
	blockhash := fs.String("blockhash", "", "base58 recent blockhash")
	broadcast := fs.Bool("broadcast", false, "send the assembled transaction to the cluster")
	network := fs.String("network", "devnet", "target cluster: mainnet, testnet, devnet, localnet")
	rpcURL := fs.String("rpc", "", "override the cluster's default RPC URL")
	logLevel := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := setupLogging(*logLevel)

	apk, err := aggregateParticipants(*participants)
	if err != nil {
		return err
	}
	recipient, err := parsePubkey(*to)
	if err != nil {
		return err
	}
	mintKey, err := parsePubkey(*mint)
	if err != nil {
		return err
	}
	blockhashBytes, err := parsePubkey(*blockhash)
	if err != nil {
		return err
	}

	var apkBytes [32]byte
	copy(apkBytes[:], apk.EncodePoint())
	message, err := solanatx.BuildSPLTransfer(apkBytes, mintKey, recipient, *amount, uint8(*decimals), *createATA, blockhashBytes)
	if err != nil {
		return err
	}

	sig, err := aggregatePartials(apk, message, *partials)
	if err != nil {
		return err
	}
	fmt.Printf("signature: %s\n", base58.Encode(sig.Bytes()))

	if *broadcast {
		return broadcastSigned(log, *network, *rpcURL, message, sig)
	}
	return nil
}

func aggregatePartials(apk *musig2.APK, message []byte, csv string) (musig2.Signature, error) {
	var partials []codec.PartialSignature
	for i, s := range parseStringList(csv) {
		p, err := codec.DecodePartialSignature(s)
		if err != nil {
			return musig2.Signature{}, fmt.Errorf("partial %d: %w", i, err)
		}
		partials = append(partials, p)
	}
	return musig2.Aggregate(apk, message, partials)
}

func broadcastSigned(log *logging.Logger, network, rpcOverride string, message []byte, sig musig2.Signature) error {
	endpoints, err := resolveEndpoints(network, rpcOverride, "")
	if err != nil {
		return err
	}
	client := newClient(endpoints)

	var sigBytes [64]byte
	copy(sigBytes[:], sig.Bytes())
	raw := solanatx.EncodeTransaction(message, sigBytes)

	txSig, err := client.SendAndConfirm(context.Background(), raw)
	if err != nil {
		return err
	}
	log.Info("transaction confirmed", "signature", txSig)
	fmt.Printf("transaction-signature: %s\n", txSig)
	return nil
}

func resolveLamports(lamports uint64, sol string) (uint64, error) {
	if sol != "" {
		return helpers.SOLToLamports(sol)
	}
	return lamports, nil
}
