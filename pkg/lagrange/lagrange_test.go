package lagrange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/lagrange"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
)

func TestNewPowersTableShapes(t *testing.T) {
	domain, err := curve.NewDomain(8)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 16)
	require.NoError(t, err)

	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	assert.Len(t, powers.Li, 8)
	assert.Len(t, powers.LiMinus0, 8)
	assert.Len(t, powers.LiX, 8)
	assert.Len(t, powers.LiLjZ, 8)
	for _, row := range powers.LiLjZ {
		assert.Len(t, row, 8)
	}
}

func TestLiMatchesDirectLagrangeCommitment(t *testing.T) {
	domain, err := curve.NewDomain(4)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 8)
	require.NoError(t, err)

	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	for i := uint64(0); i < 4; i++ {
		basis, err := polynomial.LagrangeBasis(domain, i)
		require.NoError(t, err)
		want := curve.G1ScalarMul(curve.G1Generator(), basis.Evaluate(tau))
		assert.True(t, curve.G1Equal(powers.Li[i], want), "Li[%d] mismatch", i)
	}
}

func TestLiLjZDiagonalMatchesDirectComputation(t *testing.T) {
	domain, err := curve.NewDomain(4)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 8)
	require.NoError(t, err)

	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	li, err := polynomial.LagrangeBasis(domain, 0)
	require.NoError(t, err)
	num := li.Mul(li).Sub(li)
	q, err := num.DivByVanishing(domain)
	require.NoError(t, err)
	want := curve.G1ScalarMul(curve.G1Generator(), q.Evaluate(tau))

	assert.True(t, curve.G1Equal(powers.LiLjZ[0][0], want))
}

func TestLiLjZOffDiagonalMatchesDirectComputation(t *testing.T) {
	domain, err := curve.NewDomain(4)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 8)
	require.NoError(t, err)

	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	li, err := polynomial.LagrangeBasis(domain, 0)
	require.NoError(t, err)
	lj, err := polynomial.LagrangeBasis(domain, 1)
	require.NoError(t, err)

	prod := li.Mul(lj)
	q, err := prod.DivByVanishing(domain)
	require.NoError(t, err)

	want := curve.G1ScalarMul(curve.G1Generator(), q.Evaluate(tau))
	assert.True(t, curve.G1Equal(powers.LiLjZ[0][1], want))
}

func TestPowersEncodeDecodeRoundTrip(t *testing.T) {
	domain, err := curve.NewDomain(4)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, 8)
	require.NoError(t, err)

	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	decoded, err := lagrange.DecodePowers(powers.Encode())
	require.NoError(t, err)

	assert.Equal(t, powers.Domain.Size(), decoded.Domain.Size())
	for i := range powers.Li {
		assert.True(t, curve.G1Equal(powers.Li[i], decoded.Li[i]))
		assert.True(t, curve.G1Equal(powers.LiMinus0[i], decoded.LiMinus0[i]))
		assert.True(t, curve.G1Equal(powers.LiX[i], decoded.LiX[i]))
		for j := range powers.LiLjZ[i] {
			assert.True(t, curve.G1Equal(powers.LiLjZ[i][j], decoded.LiLjZ[i][j]))
		}
	}
}
