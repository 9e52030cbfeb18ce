package key_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/lagrange"
)

func setupDomainAndSRS(t *testing.T, n uint64) (*curve.Domain, *kzg.PowersOfTau, curve.Scalar) {
	t.Helper()
	domain, err := curve.NewDomain(n)
	require.NoError(t, err)
	tau := curve.MustRandScalar()
	pt, err := kzg.Setup(tau, int(n))
	require.NoError(t, err)
	return domain, pt, tau
}

func TestNullifiedSecretKeyIsOne(t *testing.T) {
	sk := key.NullifiedSecretKey()
	pk := mustGetPk(t, sk, 0, 4)
	one := curve.ScalarOne()
	assert.True(t, curve.G1Equal(pk.BlsPk, curve.G1ScalarMul(curve.G1Generator(), one)))
}

func mustGetPk(t *testing.T, sk *key.SecretKey, id uint64, n uint64) *key.PublicKey {
	t.Helper()
	domain, pt, _ := setupDomainAndSRS(t, n)
	pk, err := sk.GetPk(id, domain, pt)
	require.NoError(t, err)
	return pk
}

func TestGetPkAndLagrangeGetPkAgree(t *testing.T) {
	const n = uint64(4)
	domain, pt, _ := setupDomainAndSRS(t, n)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	sk, err := key.NewSecretKey(randReader(t))
	require.NoError(t, err)

	direct, err := sk.GetPk(2, domain, pt)
	require.NoError(t, err)
	viaTable, err := sk.LagrangeGetPk(2, powers)
	require.NoError(t, err)

	assert.True(t, curve.G1Equal(direct.BlsPk, viaTable.BlsPk))
	assert.True(t, curve.G1Equal(direct.SkLi, viaTable.SkLi))
	assert.True(t, curve.G1Equal(direct.SkLiMinus0, viaTable.SkLiMinus0))
	assert.True(t, curve.G1Equal(direct.SkLiX, viaTable.SkLiX))
	require.Equal(t, len(direct.SkLiLjZ), len(viaTable.SkLiLjZ))
	for j := range direct.SkLiLjZ {
		assert.True(t, curve.G1Equal(direct.SkLiLjZ[j], viaTable.SkLiLjZ[j]), "column %d mismatch", j)
	}
}

func TestAggregateKeyAskIsSumOfShares(t *testing.T) {
	const n = uint64(4)
	domain, pt, _ := setupDomainAndSRS(t, n)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	pks := make([]*key.PublicKey, n)
	want := curve.G1Identity()
	for i := uint64(0); i < n; i++ {
		var sk *key.SecretKey
		if i == 0 {
			sk = key.NullifiedSecretKey()
		} else {
			sk, err = key.NewSecretKey(randReader(t))
			require.NoError(t, err)
		}
		pk, err := sk.LagrangeGetPk(i, powers)
		require.NoError(t, err)
		pks[i] = pk
		want = curve.G1Add(want, pk.SkLi)
	}

	agg, err := key.NewAggregateKey(pks, domain, pt)
	require.NoError(t, err)
	assert.True(t, curve.G1Equal(agg.Ask, want))
}

func TestPublicKeyEncodeDecodeRoundTrip(t *testing.T) {
	const n = uint64(4)
	domain, pt, _ := setupDomainAndSRS(t, n)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	sk, err := key.NewSecretKey(randReader(t))
	require.NoError(t, err)
	pk, err := sk.LagrangeGetPk(2, powers)
	require.NoError(t, err)

	decoded, err := key.DecodePublicKey(pk.Encode())
	require.NoError(t, err)
	assert.Equal(t, pk.ID, decoded.ID)
	assert.True(t, curve.G1Equal(pk.BlsPk, decoded.BlsPk))
	assert.True(t, curve.G1Equal(pk.SkLi, decoded.SkLi))
	assert.True(t, curve.G1Equal(pk.SkLiMinus0, decoded.SkLiMinus0))
	assert.True(t, curve.G1Equal(pk.SkLiX, decoded.SkLiX))
	require.Equal(t, len(pk.SkLiLjZ), len(decoded.SkLiLjZ))
	for j := range pk.SkLiLjZ {
		assert.True(t, curve.G1Equal(pk.SkLiLjZ[j], decoded.SkLiLjZ[j]))
	}
}

func TestAggregateKeyEncodeDecodeRoundTrip(t *testing.T) {
	const n = uint64(4)
	domain, pt, _ := setupDomainAndSRS(t, n)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	pks := make([]*key.PublicKey, n)
	for i := uint64(0); i < n; i++ {
		var sk *key.SecretKey
		var err error
		if i == 0 {
			sk = key.NullifiedSecretKey()
		} else {
			sk, err = key.NewSecretKey(randReader(t))
			require.NoError(t, err)
		}
		pk, err := sk.LagrangeGetPk(i, powers)
		require.NoError(t, err)
		pks[i] = pk
	}
	agg, err := key.NewAggregateKey(pks, domain, pt)
	require.NoError(t, err)

	decoded, err := key.DecodeAggregateKey(agg.Encode())
	require.NoError(t, err)

	assert.Equal(t, agg.Domain.Size(), decoded.Domain.Size())
	assert.True(t, curve.G1Equal(agg.Ask, decoded.Ask))
	assert.True(t, curve.G2Equal(agg.ZG2, decoded.ZG2))
	assert.True(t, curve.G2Equal(agg.HMinus1, decoded.HMinus1))
	assert.True(t, curve.GTEqual(agg.EGh, decoded.EGh))
	require.Equal(t, len(agg.PublicKeys), len(decoded.PublicKeys))
	for i := range agg.PublicKeys {
		assert.True(t, curve.G1Equal(agg.PublicKeys[i].BlsPk, decoded.PublicKeys[i].BlsPk))
	}
}

func TestPartialDecryptIsDeterministic(t *testing.T) {
	sk, err := key.NewSecretKey(randReader(t))
	require.NoError(t, err)
	g2 := curve.G2Generator()
	a := sk.PartialDecrypt(g2)
	b := sk.PartialDecrypt(g2)
	assert.True(t, curve.G2Equal(a, b))
}

func TestNewAggregateKeyRejectsZeroVanishingCommitment(t *testing.T) {
	// A tau equal to the domain's generator is a primitive n-th root of
	// unity, so tau^n = 1 and Z(tau) = tau^n - 1 = 0 (spec.md §4.4).
	const n = uint64(4)
	domain, err := curve.NewDomain(n)
	require.NoError(t, err)
	tau := domain.Generator()
	pt, err := kzg.Setup(tau, int(n))
	require.NoError(t, err)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	pks := make([]*key.PublicKey, n)
	for i := uint64(0); i < n; i++ {
		var sk *key.SecretKey
		if i == 0 {
			sk = key.NullifiedSecretKey()
		} else {
			sk, err = key.NewSecretKey(randReader(t))
			require.NoError(t, err)
		}
		pk, perr := sk.LagrangeGetPk(i, powers)
		require.NoError(t, perr)
		pks[i] = pk
	}

	_, err = key.NewAggregateKey(pks, domain, pt)
	assert.Error(t, err)
}

func TestAggregateKeyLinearityWithZeroForDomain(t *testing.T) {
	const n = uint64(4)
	domain, pt, _ := setupDomainAndSRS(t, n)
	powers, err := lagrange.NewPowers(pt, domain)
	require.NoError(t, err)

	sks := make([]*key.SecretKey, n)
	for i := uint64(0); i < n; i++ {
		if i == 0 {
			sks[i] = key.NullifiedSecretKey()
			continue
		}
		sks[i], err = key.NewSecretKey(randReader(t))
		require.NoError(t, err)
	}

	full := make([]*key.PublicKey, n)
	for i := uint64(0); i < n; i++ {
		pk, perr := sks[i].LagrangeGetPk(i, powers)
		require.NoError(t, perr)
		full[i] = pk
	}
	fullAgg, err := key.NewAggregateKey(full, domain, pt)
	require.NoError(t, err)

	// Replace party 2's real public key with zeroForDomain(2, n): the
	// resulting aggregate key must equal one built by zeroing that party's
	// secret key before deriving its public key.
	absentID := uint64(2)
	withAbsent := make([]*key.PublicKey, n)
	copy(withAbsent, full)
	withAbsent[absentID] = key.ZeroForDomain(absentID, n)
	absentAgg, err := key.NewAggregateKey(withAbsent, domain, pt)
	require.NoError(t, err)

	zeroed := make([]*key.PublicKey, n)
	copy(zeroed, full)
	zeroSk := key.NullifiedSecretKey()
	zeroSk.Zeroize()
	zeroPk, err := zeroSk.LagrangeGetPk(absentID, powers)
	require.NoError(t, err)
	zeroed[absentID] = zeroPk
	zeroedAgg, err := key.NewAggregateKey(zeroed, domain, pt)
	require.NoError(t, err)

	assert.True(t, curve.G1Equal(absentAgg.Ask, zeroedAgg.Ask))
	assert.NotEqual(t, fullAgg.Ask, absentAgg.Ask)
	require.Equal(t, len(absentAgg.AggSkLiLjZ), len(zeroedAgg.AggSkLiLjZ))
	for j := range absentAgg.AggSkLiLjZ {
		assert.True(t, curve.G1Equal(absentAgg.AggSkLiLjZ[j], zeroedAgg.AggSkLiLjZ[j]), "column %d mismatch", j)
	}
}

func TestSecretKeyDebugRepresentationIsRedacted(t *testing.T) {
	sk, err := key.NewSecretKey(randReader(t))
	require.NoError(t, err)
	encoded := fmt.Sprintf("%x", sk.Encode())

	for _, rendered := range []string{
		fmt.Sprintf("%v", sk),
		fmt.Sprintf("%+v", sk),
		fmt.Sprintf("%#v", sk),
		sk.String(),
	} {
		assert.NotContains(t, rendered, encoded)
		assert.Contains(t, rendered, "REDACTED")
	}
}

func TestZeroizedSecretKeyEncodesAsScalarZero(t *testing.T) {
	sk, err := key.NewSecretKey(randReader(t))
	require.NoError(t, err)
	sk.Zeroize()
	assert.Equal(t, curve.EncodeScalar(curve.ScalarZero()), sk.Encode())
}

func randReader(t *testing.T) *detReader {
	t.Helper()
	return &detReader{seed: 7}
}

// detReader is a tiny deterministic byte stream for tests that don't care
// about real entropy, avoiding a dependency on math/rand in test code.
type detReader struct{ seed byte }

func (r *detReader) Read(p []byte) (int, error) {
	for i := range p {
		r.seed = r.seed*31 + 1
		p[i] = r.seed
	}
	return len(p), nil
}
