// Command solsig drives an n-of-n MuSig2 Solana signer: generating and
// deriving participant seeds, aggregating public keys, running the two
// round_one/round_two message rounds, aggregating and broadcasting the
// resulting transaction, and a handful of single-signer SPL convenience
// operations for standing up a test mint.
package main

import (
	"fmt"
	"os"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

type command struct {
	name string
	desc string
	run  func(args []string) error
}

var commands []command

func register(name, desc string, run func(args []string) error) {
	commands = append(commands, command{name: name, desc: desc, run: run})
}

func init() {
	registerKeyCommands()
	registerSessionCommands()
	registerChainCommands()
	registerTokenCommands()
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-version", "--version":
		fmt.Printf("solsig %s (commit: %s)\n", version, commit)
		return
	case "help", "-help", "--help":
		usage()
		return
	}

	for _, c := range commands {
		if c.name == os.Args[1] {
			if err := c.run(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "solsig %s: %v\n", c.name, err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "solsig: unknown command %q\n\n", os.Args[1])
	usage()
	os.Exit(1)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: solsig <command> [flags]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", c.name, c.desc)
	}
}
