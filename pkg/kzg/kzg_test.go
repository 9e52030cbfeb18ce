package kzg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
)

func TestSetupDegree(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, pt.Degree())
	assert.Len(t, pt.PowersG1, 6)
	assert.Len(t, pt.PowersG2, 6)
}

func TestSetupRejectsZeroTau(t *testing.T) {
	_, err := kzg.Setup(curve.ScalarZero(), 4)
	assert.Error(t, err)
}

func TestCommitG1MatchesDirectEvaluationInExponent(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 4)
	require.NoError(t, err)

	p := polynomial.FromCoeffs([]curve.Scalar{
		curve.ScalarFromUint64(1), curve.ScalarFromUint64(2), curve.ScalarFromUint64(3),
	})
	commit, err := pt.CommitG1(p)
	require.NoError(t, err)

	want := curve.G1ScalarMul(curve.G1Generator(), p.Evaluate(tau))
	assert.True(t, curve.G1Equal(commit, want))
}

func TestCommitG2MatchesDirectEvaluationInExponent(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 4)
	require.NoError(t, err)

	p := polynomial.FromCoeffs([]curve.Scalar{
		curve.ScalarFromUint64(4), curve.ScalarFromUint64(5),
	})
	commit, err := pt.CommitG2(p)
	require.NoError(t, err)

	want := curve.G2ScalarMul(curve.G2Generator(), p.Evaluate(tau))
	assert.True(t, curve.G2Equal(commit, want))
}

func TestCommitRejectsOversizedPolynomial(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 1)
	require.NoError(t, err)

	p := polynomial.FromCoeffs([]curve.Scalar{
		curve.ScalarFromUint64(1), curve.ScalarFromUint64(2), curve.ScalarFromUint64(3),
	})
	_, err = pt.CommitG1(p)
	assert.Error(t, err)
}

func TestPowersOfTauEncodeDecodeRoundTrip(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 8)
	require.NoError(t, err)

	decoded, err := kzg.DecodePowersOfTau(pt.Encode())
	require.NoError(t, err)
	assert.Equal(t, len(pt.PowersG1), len(decoded.PowersG1))
	for i := range pt.PowersG1 {
		assert.True(t, curve.G1Equal(pt.PowersG1[i], decoded.PowersG1[i]))
		assert.True(t, curve.G2Equal(pt.PowersG2[i], decoded.PowersG2[i]))
	}
}

func TestDecodePowersOfTauRejectsTruncatedInput(t *testing.T) {
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 4)
	require.NoError(t, err)
	enc := pt.Encode()

	_, err = kzg.DecodePowersOfTau(enc[:len(enc)-10])
	assert.Error(t, err)
}
