// Command ste-cli drives the parameter-generation and single-process demo
// pieces of a silent threshold encryption deployment: trusted setup (or a
// multi-party ceremony), per-party keygen, aggregate-key construction,
// encryption, partial decryption, and aggregate decryption. It deliberately
// stops short of the networked pieces spec.md §1 excludes (no transport, no
// interactive DKG); pkg/wire defines the message shapes a real peer binary
// would carry, but nothing here opens a socket.
//
// Grounded on cmd/threshold-cli/main.go's cobra layout: a root command with
// persistent flags, one subcommand per lifecycle operation, and a main()
// that prints one-line diagnostics on failure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputDir string
	verbose   bool

	rootCmd = &cobra.Command{
		Use:   "ste-cli",
		Short: "Silent threshold encryption demo CLI",
		Long: `ste-cli drives a single-process demonstration of silent threshold
encryption over BLS12-381: trusted setup, keygen, aggregation, encryption,
and (partial/aggregate) decryption. It is a parameter-generation and demo
tool, not a network peer.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for generated files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(ceremonyCmd)
	rootCmd.AddCommand(lagrangeCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(partialDecryptCmd)
	rootCmd.AddCommand(aggDecryptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
