package main

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anepoti71/silent-threshold-encryption/pkg/ceremony"
)

var (
	ceremonyTranscript string
	ceremonyMaxDegree  int
	ceremonyIndex      int
	ceremonyOutput     string

	ceremonyCmd = &cobra.Command{
		Use:   "ceremony",
		Short: "Run a multi-party powers-of-tau ceremony (spec.md §4.7)",
	}

	ceremonyNewCmd = &cobra.Command{
		Use:   "new",
		Short: "Start a ceremony with this participant's contribution",
		RunE:  runCeremonyNew,
	}

	ceremonyContributeCmd = &cobra.Command{
		Use:   "contribute",
		Short: "Append this participant's contribution to an existing transcript",
		RunE:  runCeremonyContribute,
	}

	ceremonyVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify one contribution in the transcript against the one before it",
		RunE:  runCeremonyVerify,
	}

	ceremonyFinalizeCmd = &cobra.Command{
		Use:   "finalize",
		Short: "Extract the final contribution as a usable SRS",
		RunE:  runCeremonyFinalize,
	}
)

func init() {
	ceremonyCmd.PersistentFlags().StringVar(&ceremonyTranscript, "transcript", "ceremony.bin", "ceremony transcript file, relative to --output-dir")

	ceremonyNewCmd.Flags().IntVar(&ceremonyMaxDegree, "max-degree", 0, "maximum polynomial degree the ceremony must support (required)")
	ceremonyNewCmd.MarkFlagRequired("max-degree")

	ceremonyVerifyCmd.Flags().IntVar(&ceremonyIndex, "index", 0, "contribution index to verify (1-based; 0 is the ceremony's first contribution)")

	ceremonyFinalizeCmd.Flags().StringVar(&ceremonyOutput, "output", "srs.bin", "output SRS filename, relative to --output-dir")

	ceremonyCmd.AddCommand(ceremonyNewCmd, ceremonyContributeCmd, ceremonyVerifyCmd, ceremonyFinalizeCmd)
}

func runCeremonyNew(cmd *cobra.Command, args []string) error {
	c, err := ceremony.New(ceremonyMaxDegree, rand.Reader)
	if err != nil {
		return fmt.Errorf("start ceremony: %w", err)
	}

	path, err := outputPath(ceremonyTranscript)
	if err != nil {
		return err
	}
	if err := writeFile(path, c.Encode()); err != nil {
		return err
	}

	fmt.Printf("Ceremony started (max degree %d), transcript saved to %s\n", ceremonyMaxDegree, path)
	return nil
}

func runCeremonyContribute(cmd *cobra.Command, args []string) error {
	c, err := loadCeremony()
	if err != nil {
		return err
	}

	if err := c.Contribute(rand.Reader); err != nil {
		return fmt.Errorf("contribute: %w", err)
	}

	path, err := outputPath(ceremonyTranscript)
	if err != nil {
		return err
	}
	if err := writeFile(path, c.Encode()); err != nil {
		return err
	}

	fmt.Printf("Contribution %d added, transcript saved to %s\n", c.NumParticipants()-1, path)
	return nil
}

func runCeremonyVerify(cmd *cobra.Command, args []string) error {
	c, err := loadCeremony()
	if err != nil {
		return err
	}

	ok, err := c.VerifyContribution(ceremonyIndex)
	if err != nil {
		return fmt.Errorf("verify contribution %d: %w", ceremonyIndex, err)
	}
	if !ok {
		fmt.Printf("contribution %d: INVALID\n", ceremonyIndex)
		return fmt.Errorf("contribution %d failed verification", ceremonyIndex)
	}

	fmt.Printf("contribution %d: valid\n", ceremonyIndex)
	return nil
}

func runCeremonyFinalize(cmd *cobra.Command, args []string) error {
	c, err := loadCeremony()
	if err != nil {
		return err
	}

	for i := 1; i < c.NumParticipants(); i++ {
		ok, err := c.VerifyContribution(i)
		if err != nil {
			return fmt.Errorf("verify contribution %d: %w", i, err)
		}
		if !ok {
			return fmt.Errorf("contribution %d failed verification, refusing to finalize", i)
		}
	}

	pt := c.Finalize()
	path, err := outputPath(ceremonyOutput)
	if err != nil {
		return err
	}
	if err := writeFile(path, pt.Encode()); err != nil {
		return err
	}

	fmt.Printf("Ceremony finalized (%d contributions, degree %d), SRS saved to %s\n", c.NumParticipants(), pt.Degree(), path)
	return nil
}

func loadCeremony() (*ceremony.Ceremony, error) {
	path, err := outputPath(ceremonyTranscript)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ceremony.DecodeCeremony(data)
	if err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return c, nil
}
