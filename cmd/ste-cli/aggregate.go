package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
)

var (
	aggregateDomainSize  uint64
	aggregateSRS         string
	aggregateOutput      string
	aggregateAllowAbsent bool

	aggregateCmd = &cobra.Command{
		Use:   "aggregate",
		Short: "Combine every party's public key into an aggregate key",
		Long: `aggregate reads public-<id>.bin for every id in [0, domain-size) from
--output-dir (the naming convention "keygen" writes) and combines them into
a single AggregateKey file (spec.md §4.5/§4.6).

With --allow-absent, a missing public-<id>.bin is not an error: that party
is substituted with key.ZeroForDomain(id, domain-size), the "absent party"
identity-valued public key spec.md §4.5 describes for the peer-to-peer
partial-quorum path. An aggregate key built this way is only valid for
decryption quorums that never select the substituted ids.`,
		RunE: runAggregate,
	}
)

func init() {
	aggregateCmd.Flags().Uint64Var(&aggregateDomainSize, "domain-size", 0, "number of parties, including the dummy party (required)")
	aggregateCmd.Flags().StringVar(&aggregateSRS, "srs", "srs.bin", "SRS file, relative to --output-dir")
	aggregateCmd.Flags().StringVar(&aggregateOutput, "output", "aggregate.bin", "output filename, relative to --output-dir")
	aggregateCmd.Flags().BoolVar(&aggregateAllowAbsent, "allow-absent", false, "substitute a zeroed public key for any party whose public-<id>.bin is missing")
	aggregateCmd.MarkFlagRequired("domain-size")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	domain, err := curve.NewDomain(aggregateDomainSize)
	if err != nil {
		return fmt.Errorf("build domain: %w", err)
	}

	srsPath, err := outputPath(aggregateSRS)
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

	pks := make([]*key.PublicKey, aggregateDomainSize)
	for id := uint64(0); id < aggregateDomainSize; id++ {
		pkPath, perr := outputPath(fmt.Sprintf("public-%d.bin", id))
		if perr != nil {
			return perr
		}

		if aggregateAllowAbsent {
			data, present, rerr := readFileOptional(pkPath)
			if rerr != nil {
				return fmt.Errorf("party %d: %w", id, rerr)
			}
			if !present {
				fmt.Printf("party %d: public key absent, substituting zeroForDomain(%d, %d)\n", id, id, aggregateDomainSize)
				pks[id] = key.ZeroForDomain(id, aggregateDomainSize)
				continue
			}
			pk, derr := key.DecodePublicKey(data)
			if derr != nil {
				return fmt.Errorf("party %d: decode public key: %w", id, derr)
			}
			pks[id] = pk
			continue
		}

		data, rerr := readFile(pkPath)
		if rerr != nil {
			return fmt.Errorf("party %d: %w", id, rerr)
		}
		pk, derr := key.DecodePublicKey(data)
		if derr != nil {
			return fmt.Errorf("party %d: decode public key: %w", id, derr)
		}
		pks[id] = pk
	}

	agg, err := key.NewAggregateKey(pks, domain, pt)
	if err != nil {
		return fmt.Errorf("build aggregate key: %w", err)
	}

	path, err := outputPath(aggregateOutput)
	if err != nil {
		return err
	}
	if err := writeFile(path, agg.Encode()); err != nil {
		return err
	}

	fmt.Printf("Aggregate key built for %d parties, saved to %s\n", aggregateDomainSize, path)
	return nil
}
