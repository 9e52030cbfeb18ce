package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/lagrange"
)

var (
	keygenID         uint64
	keygenDomainSize uint64
	keygenSRS        string
	keygenLagrange   string
	keygenDummy      bool

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate one party's secret/public key pair",
		Long: `keygen draws a fresh secret key (or, with --dummy, uses the fixed nullified
key every instance's party 0 must carry, per spec.md §4.5) and derives the
matching public key. If --lagrange is set, derivation uses the O(n)
preprocessed table; otherwise it falls back to the O(n^2) direct
recomputation against --srs.`,
		RunE: runKeygen,
	}
)

func init() {
	keygenCmd.Flags().Uint64Var(&keygenID, "id", 0, "party id (required)")
	keygenCmd.Flags().Uint64Var(&keygenDomainSize, "domain-size", 0, "number of parties, including the dummy party (required unless --lagrange is set)")
	keygenCmd.Flags().StringVar(&keygenSRS, "srs", "srs.bin", "SRS file, relative to --output-dir")
	keygenCmd.Flags().StringVar(&keygenLagrange, "lagrange", "", "precomputed lagrange table file (output of \"lagrange\"); if unset, derives directly from --srs")
	keygenCmd.Flags().BoolVar(&keygenDummy, "dummy", false, "use the nullified dummy secret key (party 0 only)")
	keygenCmd.MarkFlagRequired("id")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	var sk *key.SecretKey
	if keygenDummy {
		if keygenID != 0 {
			return fmt.Errorf("--dummy is only valid for party id 0")
		}
		sk = key.NullifiedSecretKey()
	} else {
		var err error
		sk, err = key.NewSecretKey(rand.Reader)
		if err != nil {
			return fmt.Errorf("generate secret key: %w", err)
		}
	}

	var pk *key.PublicKey
	var err error
	if keygenLagrange != "" {
		path, perr := outputPath(keygenLagrange)
		if perr != nil {
			return perr
		}
		data, rerr := readFile(path)
		if rerr != nil {
			return rerr
		}
		powers, derr := lagrange.DecodePowers(data)
		if derr != nil {
			return fmt.Errorf("decode lagrange table: %w", derr)
		}
		pk, err = sk.LagrangeGetPk(keygenID, powers)
	} else {
		if keygenDomainSize == 0 {
			return fmt.Errorf("--domain-size is required when --lagrange is not set")
		}
		domain, derr := curve.NewDomain(keygenDomainSize)
		if derr != nil {
			return fmt.Errorf("build domain: %w", derr)
		}
		srsPath, perr := outputPath(keygenSRS)
		if perr != nil {
			return perr
		}
		srsData, rerr := readFile(srsPath)
		if rerr != nil {
			return rerr
		}
		pt, derr2 := kzg.DecodePowersOfTau(srsData)
		if derr2 != nil {
			return fmt.Errorf("decode SRS: %w", derr2)
		}
		pk, err = sk.GetPk(keygenID, domain, pt)
	}
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	skPath, err := outputPath(fmt.Sprintf("secret-%d.bin", keygenID))
	if err != nil {
		return err
	}
	if err := writeFile(skPath, sk.Encode()); err != nil {
		return err
	}

	pkPath, err := outputPath(fmt.Sprintf("public-%d.bin", keygenID))
	if err != nil {
		return err
	}
	if err := writeFile(pkPath, pk.Encode()); err != nil {
		return err
	}

	fmt.Printf("Party %d: secret key saved to %s, public key saved to %s\n", keygenID, skPath, pkPath)
	return nil
}
