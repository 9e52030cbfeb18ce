package ste

import (
	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Selector marks which of the n parties contributed a partial decryption.
// Selector[0] (the dummy party) MUST always be true.
type Selector []bool

// numSelected counts the true entries.
func (s Selector) numSelected() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// AggregateDecrypt recombines t+1 parties' partial decryptions into the
// session key ct encapsulates, verifying the result against ct.EncKey. A
// mismatch means either the ciphertext or one of the supplied partial
// decryptions is invalid; this function does not identify which.
//
// partialDecryptions must have one entry per party (n total); entries for
// parties not marked in selector are ignored and may be the zero value.
// Grounded on original_source/src/decryption.rs's agg_dec.
func AggregateDecrypt(
	partialDecryptions []curve.G2Affine,
	ct *Ciphertext,
	selector Selector,
	aggKey *key.AggregateKey,
	pt *kzg.PowersOfTau,
) (curve.GT, error) {
	n := aggKey.Domain.Size()
	var zero curve.GT

	if uint64(len(partialDecryptions)) != n {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "partial decryption count must equal party count")
	}
	if uint64(len(selector)) != n {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "selector length must equal party count")
	}
	if len(selector) == 0 || !selector[0] {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "dummy party (index 0) must always be selected")
	}

	numSelected := selector.numSelected()
	if uint64(numSelected) != ct.T+1 {
		return zero, sterr.New("AggregateDecrypt", sterr.InvalidThreshold, "exactly t+1 parties must be selected")
	}

	domain := aggKey.Domain
	elements := domain.Elements()

	points := []curve.Scalar{elements[0]}
	var parties []uint64
	for i := uint64(0); i < n; i++ {
		if selector[i] {
			parties = append(parties, i)
		} else {
			points = append(points, elements[i])
		}
	}

	b, err := polynomial.InterpMostlyZero(curve.ScalarOne(), points)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.InvalidParameter, err)
	}
	bEvals, err := domain.FFT(padCoeffs(b.Coeffs, n))
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Domain, err)
	}

	if b.Degree() != len(points)-1 {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "selector polynomial has unexpected degree")
	}
	one := curve.ScalarOne()
	atZero := b.Evaluate(elements[0])
	if !atZero.Equal(&one) {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "selector polynomial does not evaluate to 1 at the dummy point")
	}

	bG2, err := pt.CommitG2(b)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Kzg, err)
	}

	bMinus1 := b.Sub(polynomial.FromCoeffs([]curve.Scalar{curve.ScalarOne()}))
	q0, err := bMinus1.DivLinear(elements[0])
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.InvalidParameter, err)
	}
	q0G1, err := pt.CommitG1(q0)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Kzg, err)
	}

	bHat := b.MulXPow(int(ct.T + 1))
	if uint64(bHat.Degree()) != n {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "shifted selector polynomial has unexpected degree")
	}
	bHatG1, err := pt.CommitG1(bHat)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Kzg, err)
	}

	nInv, err := curve.ScalarInverse(curve.ScalarFromUint64(n))
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.InvalidParameter, err)
	}

	blsPks := make([]curve.G1Affine, len(parties))
	blsWeights := make([]curve.Scalar, len(parties))
	partials := make([]curve.G2Affine, len(parties))
	partialWeights := make([]curve.Scalar, len(parties))
	skLiX := make([]curve.G1Affine, len(parties))
	skLiXWeights := make([]curve.Scalar, len(parties))
	skLiMinus0 := make([]curve.G1Affine, len(parties))
	skLiMinus0Weights := make([]curve.Scalar, len(parties))
	for idx, i := range parties {
		pk := aggKey.PublicKeys[i]
		blsPks[idx] = pk.BlsPk
		blsWeights[idx] = bEvals[i]
		partials[idx] = partialDecryptions[i]
		partialWeights[idx] = bEvals[i]
		skLiX[idx] = pk.SkLiX
		skLiXWeights[idx] = bEvals[i]
		skLiMinus0[idx] = pk.SkLiMinus0
		skLiMinus0Weights[idx] = bEvals[i]
	}

	apk, err := curve.MSMG1(blsPks, blsWeights)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Msm, err)
	}
	apk = curve.G1ScalarMul(apk, nInv)

	sigma, err := curve.MSMG2(partials, partialWeights)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Msm, err)
	}
	sigma = curve.G2ScalarMul(sigma, nInv)

	qx, err := curve.MSMG1(skLiX, skLiXWeights)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Msm, err)
	}

	zBases := make([]curve.G1Affine, len(parties))
	zWeights := make([]curve.Scalar, len(parties))
	for idx, i := range parties {
		zBases[idx] = aggKey.AggSkLiLjZ[i]
		zWeights[idx] = bEvals[i]
	}
	qz, err := curve.MSMG1(zBases, zWeights)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Msm, err)
	}

	qhatx, err := curve.MSMG1(skLiMinus0, skLiMinus0Weights)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.Msm, err)
	}

	lhs := []curve.G1Affine{
		curve.G1Neg(apk),
		curve.G1Neg(qz),
		curve.G1Neg(qx),
		qhatx,
		curve.G1Neg(bHatG1),
		curve.G1Neg(q0G1),
		ct.Sa1[0],
		ct.Sa1[1],
	}
	rhs := []curve.G2Affine{
		ct.Sa2[0], ct.Sa2[1], ct.Sa2[2], ct.Sa2[3], ct.Sa2[4], ct.Sa2[5],
		bG2, sigma,
	}

	encKey, err := curve.MultiPair(lhs, rhs)
	if err != nil {
		return zero, sterr.Wrap("AggregateDecrypt", sterr.InvalidParameter, err)
	}

	if !curve.GTEqual(encKey, ct.EncKey) {
		return zero, sterr.New("AggregateDecrypt", sterr.Validation, "decrypted key does not match the ciphertext's encapsulated key")
	}
	return encKey, nil
}

// padCoeffs zero-pads coeffs up to length n so it can be FFT'd over an
// n-element domain.
func padCoeffs(coeffs []curve.Scalar, n uint64) []curve.Scalar {
	out := make([]curve.Scalar, n)
	copy(out, coeffs)
	return out
}
