package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/ste"
)

var (
	partialDecryptID         uint64
	partialDecryptSecretKey  string
	partialDecryptCiphertext string
	partialDecryptOutput     string

	partialDecryptCmd = &cobra.Command{
		Use:   "partial-decrypt",
		Short: "Compute one party's partial decryption of a ciphertext",
		RunE:  runPartialDecrypt,
	}

	aggDecryptDomainSize uint64
	aggDecryptAggKey     string
	aggDecryptSRS        string
	aggDecryptCiphertext string
	aggDecryptSelector   string

	aggDecryptCmd = &cobra.Command{
		Use:   "agg-decrypt",
		Short: "Recombine t+1 partial decryptions into the ciphertext's session key",
		Long: `agg-decrypt reads partial-<id>.bin (the output of partial-decrypt) for every
id named in --selected-ids, verifies the recombined key against the
ciphertext, and prints it. --selected-ids must name exactly t+1 party ids
and must include 0, the dummy party (spec.md §4.6).`,
		RunE: runAggDecrypt,
	}
)

func init() {
	partialDecryptCmd.Flags().Uint64Var(&partialDecryptID, "id", 0, "party id (required)")
	partialDecryptCmd.Flags().StringVar(&partialDecryptSecretKey, "secret-key", "", "secret key file, relative to --output-dir (default secret-<id>.bin)")
	partialDecryptCmd.Flags().StringVar(&partialDecryptCiphertext, "ciphertext", "ciphertext.bin", "ciphertext file, relative to --output-dir")
	partialDecryptCmd.Flags().StringVar(&partialDecryptOutput, "output", "", "output filename, relative to --output-dir (default partial-<id>.bin)")

	aggDecryptCmd.Flags().Uint64Var(&aggDecryptDomainSize, "domain-size", 0, "number of parties, including the dummy party (required)")
	aggDecryptCmd.Flags().StringVar(&aggDecryptAggKey, "agg-key", "aggregate.bin", "aggregate key file, relative to --output-dir")
	aggDecryptCmd.Flags().StringVar(&aggDecryptSRS, "srs", "srs.bin", "SRS file, relative to --output-dir")
	aggDecryptCmd.Flags().StringVar(&aggDecryptCiphertext, "ciphertext", "ciphertext.bin", "ciphertext file, relative to --output-dir")
	aggDecryptCmd.Flags().StringVar(&aggDecryptSelector, "selected-ids", "", "comma-separated party ids that contributed a partial decryption, must include 0 (required)")
	aggDecryptCmd.MarkFlagRequired("domain-size")
	aggDecryptCmd.MarkFlagRequired("selected-ids")
}

func runPartialDecrypt(cmd *cobra.Command, args []string) error {
	skName := partialDecryptSecretKey
	if skName == "" {
		skName = fmt.Sprintf("secret-%d.bin", partialDecryptID)
	}
	skPath, err := outputPath(skName)
	if err != nil {
		return err
	}
	skData, err := readFile(skPath)
	if err != nil {
		return err
	}
	sk, err := key.DecodeSecretKey(skData)
	if err != nil {
		return fmt.Errorf("decode secret key: %w", err)
	}

	ctPath, err := outputPath(partialDecryptCiphertext)
	if err != nil {
		return err
	}
	ctData, err := readFile(ctPath)
	if err != nil {
		return err
	}
	ct, err := ste.DecodeCiphertext(ctData)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}

	partial := sk.PartialDecrypt(ct.GammaG2)

	outName := partialDecryptOutput
	if outName == "" {
		outName = fmt.Sprintf("partial-%d.bin", partialDecryptID)
	}
	path, err := outputPath(outName)
	if err != nil {
		return err
	}
	if err := writeFile(path, curve.EncodeG2(partial)); err != nil {
		return err
	}

	fmt.Printf("Party %d: partial decryption saved to %s\n", partialDecryptID, path)
	return nil
}

func parseSelectedIDs(raw string, n uint64) (ste.Selector, error) {
	selector := make(ste.Selector, n)
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid party id %q: %w", field, err)
		}
		if id >= n {
			return nil, fmt.Errorf("party id %d out of range for domain size %d", id, n)
		}
		selector[id] = true
	}
	if !selector[0] {
		return nil, fmt.Errorf("the dummy party (id 0) must be among --selected-ids")
	}
	return selector, nil
}

func runAggDecrypt(cmd *cobra.Command, args []string) error {
	selector, err := parseSelectedIDs(aggDecryptSelector, aggDecryptDomainSize)
	if err != nil {
		return err
	}

	aggKeyPath, err := outputPath(aggDecryptAggKey)
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

	srsPath, err := outputPath(aggDecryptSRS)
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

	ctPath, err := outputPath(aggDecryptCiphertext)
	if err != nil {
		return err
	}
	ctData, err := readFile(ctPath)
	if err != nil {
		return err
	}
	ct, err := ste.DecodeCiphertext(ctData)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}

	partials := make([]curve.G2Affine, aggDecryptDomainSize)
	for id := uint64(0); id < aggDecryptDomainSize; id++ {
		if !selector[id] {
			continue
		}
		path, perr := outputPath(fmt.Sprintf("partial-%d.bin", id))
		if perr != nil {
			return perr
		}
		data, rerr := readFile(path)
		if rerr != nil {
			return fmt.Errorf("party %d: %w", id, rerr)
		}
		p, derr := curve.DecodeG2(data)
		if derr != nil {
			return fmt.Errorf("party %d: decode partial decryption: %w", id, derr)
		}
		partials[id] = p
	}

	encKey, err := ste.AggregateDecrypt(partials, ct, selector, aggKey, pt)
	if err != nil {
		return fmt.Errorf("aggregate decrypt: %w", err)
	}

	fmt.Printf("Recovered session key: %s\n", hex.EncodeToString(curve.EncodeGT(encKey)))
	return nil
}
