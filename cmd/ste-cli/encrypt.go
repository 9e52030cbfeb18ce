package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/ste"
)

var (
	encryptAggKey    string
	encryptSRS       string
	encryptThreshold uint64
	encryptOutput    string

	encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encapsulate a fresh session key under an aggregate key",
		Long: `encrypt produces a Ciphertext bound to a threshold t: any t+1 parties
(including the dummy) can later recover the encapsulated GT session key via
partial-decrypt and agg-decrypt. As spec.md's Non-goals note, this command
stops at producing that session key; wrapping a real payload under it with
a symmetric cipher and a KDF is left to the caller.`,
		RunE: runEncrypt,
	}
)

func init() {
	encryptCmd.Flags().StringVar(&encryptAggKey, "agg-key", "aggregate.bin", "aggregate key file, relative to --output-dir")
	encryptCmd.Flags().StringVar(&encryptSRS, "srs", "srs.bin", "SRS file, relative to --output-dir")
	encryptCmd.Flags().Uint64Var(&encryptThreshold, "threshold", 0, "threshold t: t+1 parties are required to decrypt (required)")
	encryptCmd.Flags().StringVar(&encryptOutput, "output", "ciphertext.bin", "output filename, relative to --output-dir")
	encryptCmd.MarkFlagRequired("threshold")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	aggKeyPath, err := outputPath(encryptAggKey)
	if err != nil {
		return err
	}
	aggKeyData, err := readFile(aggKeyPath)
	if err != nil {
		return err
	}
	aggKey, err := key.DecodeAggregateKey(aggKeyData)
	if err != nil {
		return fmt.Errorf("decode aggregate key: %w", err)
	}

	srsPath, err := outputPath(encryptSRS)
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

	ct, err := ste.Encrypt(aggKey, pt, encryptThreshold, rand.Reader)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	path, err := outputPath(encryptOutput)
	if err != nil {
		return err
	}
	if err := writeFile(path, ct.Encode()); err != nil {
		return err
	}

	fmt.Printf("Ciphertext saved to %s (threshold t=%d)\n", path, encryptThreshold)
	fmt.Printf("Encapsulated session key: %s\n", hex.EncodeToString(curve.EncodeGT(ct.EncKey)))
	return nil
}
