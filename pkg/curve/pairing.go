package curve

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Pair returns e(p, q), the bilinear pairing of a G1 and a G2 point.
func Pair(p G1Affine, q G2Affine) (GT, error) {
	z, err := bls12381.Pair([]G1Affine{p}, []G2Affine{q})
	if err != nil {
		return z, sterr.Wrap("Pair", sterr.InvalidParameter, err)
	}
	return z, nil
}

// MultiPair returns the product prod_i e(ps[i], qs[i]), computed as a single
// Miller loop over every pair followed by one final exponentiation. This is
// the primitive spec.md §4.6's AggregateDecrypt relies on: the final
// encryption-key equality check is an 8-term multi-pairing, and doing it as
// eight independent pairings plus seven GT multiplications would both be
// slower and give a different (though mathematically equal) intermediate
// representation than the single combined Miller loop the reference
// (original_source/src/decryption.rs) performs.
func MultiPair(ps []G1Affine, qs []G2Affine) (GT, error) {
	if len(ps) != len(qs) {
		return GT{}, sterr.New("MultiPair", sterr.InvalidParameter, "point slice length mismatch")
	}
	z, err := bls12381.Pair(ps, qs)
	if err != nil {
		return z, sterr.Wrap("MultiPair", sterr.InvalidParameter, err)
	}
	return z, nil
}

// GTExp raises z to the scalar s: GT is written multiplicatively (it is the
// pairing target group), so "scalar multiplication" there is exponentiation.
// Used for the session-key encapsulation step in pkg/ste (enc_key = e_gh^s4).
func GTExp(z GT, s Scalar) GT {
	var bi big.Int
	s.BigInt(&bi)
	var out GT
	out.Exp(z, &bi)
	return out
}

// GTMul returns a*b.
func GTMul(a, b GT) GT {
	var out GT
	out.Mul(&a, &b)
	return out
}
