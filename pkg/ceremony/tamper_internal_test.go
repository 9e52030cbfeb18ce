package ceremony

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
)

// TestVerifyContributionRejectsTamperedPower reaches into the unexported
// contribution transcript to corrupt a single non-edge power, exercising the
// batched pairing check's actual soundness rather than just its happy path.
func TestVerifyContributionRejectsTamperedPower(t *testing.T) {
	c, err := New(8, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, c.Contribute(rand.Reader))

	c.contributions[1].PowersG1[3] = curve.G1Add(c.contributions[1].PowersG1[3], curve.G1Generator())

	ok, err := c.VerifyContribution(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyContributionRejectsMismatchedProof(t *testing.T) {
	c, err := New(8, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, c.Contribute(rand.Reader))

	c.contributions[1].ProofG2 = curve.G2Add(c.contributions[1].ProofG2, curve.G2Generator())

	ok, err := c.VerifyContribution(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyContributionRejectsChangedBasePoint(t *testing.T) {
	c, err := New(8, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, c.Contribute(rand.Reader))

	c.contributions[1].PowersG1[0] = curve.G1Add(c.contributions[1].PowersG1[0], curve.G1Generator())

	ok, err := c.VerifyContribution(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
