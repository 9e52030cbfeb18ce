package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
)

var (
	setupMaxDegree int
	setupOutput    string

	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Generate a powers-of-tau SRS in a single process (insecure demo shortcut)",
		Long: `setup draws tau from the local RNG and discards it immediately, producing
a PowersOfTau structured reference string. Production deployments MUST run
"ceremony" instead, per spec.md §4.7: a single process that ever held the
combined tau in memory is a single point of trust this command does not
protect against.`,
		RunE: runSetup,
	}
)

func init() {
	setupCmd.Flags().IntVar(&setupMaxDegree, "max-degree", 0, "maximum polynomial degree the SRS must support (required)")
	setupCmd.Flags().StringVar(&setupOutput, "output", "srs.bin", "output filename, relative to --output-dir")
	setupCmd.MarkFlagRequired("max-degree")
}

func runSetup(cmd *cobra.Command, args []string) error {
	tau, err := curve.RandScalar(rand.Reader)
	if err != nil {
		return fmt.Errorf("draw tau: %w", err)
	}

	pt, err := kzg.Setup(tau, setupMaxDegree)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	path, err := outputPath(setupOutput)
	if err != nil {
		return err
	}
	if err := writeFile(path, pt.Encode()); err != nil {
		return err
	}

	fmt.Printf("SRS generated for max degree %d, saved to %s\n", setupMaxDegree, path)
	return nil
}
