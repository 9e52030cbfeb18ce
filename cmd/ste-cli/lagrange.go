package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/lagrange"
)

var (
	lagrangeDomainSize uint64
	lagrangeSRS        string
	lagrangeOutput     string

	lagrangeCmd = &cobra.Command{
		Use:   "lagrange",
		Short: "Precompute the Lagrange preprocessing table for a domain size",
		Long: `lagrange builds the Li/LiMinus0/LiX/LiLjZ tables once per (domain size, SRS)
pair, letting keygen derive every party's public key in O(n) scalar
multiplications instead of recomputing Lagrange basis polynomials from
scratch (spec.md §4.5's "O(n) table-based path").`,
		RunE: runLagrange,
	}
)

func init() {
	lagrangeCmd.Flags().Uint64Var(&lagrangeDomainSize, "domain-size", 0, "number of parties, including the dummy party (power of two, required)")
	lagrangeCmd.Flags().StringVar(&lagrangeSRS, "srs", "srs.bin", "SRS file, relative to --output-dir")
	lagrangeCmd.Flags().StringVar(&lagrangeOutput, "output", "lagrange.bin", "output filename, relative to --output-dir")
	lagrangeCmd.MarkFlagRequired("domain-size")
}

func runLagrange(cmd *cobra.Command, args []string) error {
	domain, err := curve.NewDomain(lagrangeDomainSize)
	if err != nil {
		return fmt.Errorf("build domain: %w", err)
	}

	srsPath, err := outputPath(lagrangeSRS)
	if err != nil {
		return err
	}
	srsData, err := readFile(srsPath)
	if err != nil {
		return err
	}
	pt, err := kzg.DecodePowersOfTau(srsData)
	if err != nil {
		return fmt.Errorf("decode SRS: %w", err)
	}

	powers, err := lagrange.NewPowers(pt, domain)
	if err != nil {
		return fmt.Errorf("build lagrange table: %w", err)
	}

	path, err := outputPath(lagrangeOutput)
	if err != nil {
		return err
	}
	if err := writeFile(path, powers.Encode()); err != nil {
		return err
	}

	fmt.Printf("Lagrange table built for domain size %d, saved to %s\n", lagrangeDomainSize, path)
	return nil
}
