package curve

import (
	"github.com/consensys/gnark-crypto/ecc"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// MSMG1 returns sum_i scalars[i]*points[i] using gnark-crypto's Pippenger
// multi-scalar-multiplication (bls12381.G1Affine.MultiExp), the way
// AggregateDecrypt (spec.md §4.6) combines O(n) per-party contributions
// into a single group element. Falling back to a
// naive loop of ScalarMul+Add here would be algorithmically equivalent but
// asymptotically worse for the party counts spec.md §5 targets.
func MSMG1(points []G1Affine, scalars []Scalar) (G1Affine, error) {
	var out G1Affine
	if len(points) != len(scalars) {
		return out, sterr.New("MSMG1", sterr.Msm, "point/scalar slice length mismatch")
	}
	if len(points) == 0 {
		return G1Identity(), nil
	}
	if _, err := out.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return out, sterr.Wrap("MSMG1", sterr.Msm, err)
	}
	return out, nil
}

// MSMG2 is the G2 dual of MSMG1.
func MSMG2(points []G2Affine, scalars []Scalar) (G2Affine, error) {
	var out G2Affine
	if len(points) != len(scalars) {
		return out, sterr.New("MSMG2", sterr.Msm, "point/scalar slice length mismatch")
	}
	if len(points) == 0 {
		return G2Identity(), nil
	}
	if _, err := out.MultiExp(points, scalars, ecc.MultiExpConfig{}); err != nil {
		return out, sterr.Wrap("MSMG2", sterr.Msm, err)
	}
	return out, nil
}
