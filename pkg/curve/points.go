package curve

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// G1 and G2 are the Jacobian point representations used for accumulation
// (addition-heavy code paths). G1Affine/G2Affine are the affine
// representations required by MSM and pairing inputs. GT is the pairing
// target group.
type (
	G1       = bls12381.G1Jac
	G1Affine = bls12381.G1Affine
	G2       = bls12381.G2Jac
	G2Affine = bls12381.G2Affine
	GT       = bls12381.GT
)

var g1Gen, g2Gen, g1GenAffine, g2GenAffine = func() (G1, G2, G1Affine, G2Affine) {
	g1, g2, g1a, g2a := bls12381.Generators()
	return g1, g2, g1a, g2a
}()

// G1Generator returns g, the canonical G1 generator.
func G1Generator() G1Affine { return g1GenAffine }

// G2Generator returns h, the canonical G2 generator.
func G2Generator() G2Affine { return g2GenAffine }

// G1Identity returns the G1 identity element (point at infinity).
func G1Identity() G1Affine {
	var z G1Affine
	return z
}

// G2Identity returns the G2 identity element.
func G2Identity() G2Affine {
	var z G2Affine
	return z
}

// G1ScalarMul returns s*p for an affine base, as an affine point.
func G1ScalarMul(p G1Affine, s Scalar) G1Affine {
	var j G1
	var bi big.Int
	s.BigInt(&bi)
	j.ScalarMultiplication(&p, &bi)
	var out G1Affine
	out.FromJacobian(&j)
	return out
}

// G2ScalarMul is the G2 dual of G1ScalarMul.
func G2ScalarMul(p G2Affine, s Scalar) G2Affine {
	var j G2
	var bi big.Int
	s.BigInt(&bi)
	j.ScalarMultiplication(&p, &bi)
	var out G2Affine
	out.FromJacobian(&j)
	return out
}

// G1Add returns a+b in affine form.
func G1Add(a, b G1Affine) G1Affine {
	var ja G1
	ja.FromAffine(&a)
	ja.AddMixed(&b)
	var aff G1Affine
	aff.FromJacobian(&ja)
	return aff
}

// G2Add returns a+b in affine form.
func G2Add(a, b G2Affine) G2Affine {
	var ja G2
	ja.FromAffine(&a)
	ja.AddMixed(&b)
	var aff G2Affine
	aff.FromJacobian(&ja)
	return aff
}

// G1Neg returns -p.
func G1Neg(p G1Affine) G1Affine {
	var out G1Affine
	out.Neg(&p)
	return out
}

// G2Neg returns -p.
func G2Neg(p G2Affine) G2Affine {
	var out G2Affine
	out.Neg(&p)
	return out
}

// G1Equal and G2Equal report point equality (points are always taken in
// affine form in this package, so this is already a canonical comparison).
func G1Equal(a, b G1Affine) bool { return a.Equal(&b) }
func G2Equal(a, b G2Affine) bool { return a.Equal(&b) }

// EncodeG1 returns the 48-byte compressed encoding of p.
func EncodeG1(p G1Affine) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodeG1 parses a 48-byte compressed G1 point, rejecting off-curve or
// off-subgroup encodings.
func DecodeG1(b []byte) (G1Affine, error) {
	var p G1Affine
	if len(b) != 48 {
		return p, sterr.New("DecodeG1", sterr.Serialization, "G1 point must be 48 bytes")
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, sterr.Wrap("DecodeG1", sterr.Serialization, err)
	}
	return p, nil
}

// EncodeG2 returns the 96-byte compressed encoding of p.
func EncodeG2(p G2Affine) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodeG2 parses a 96-byte compressed G2 point.
func DecodeG2(b []byte) (G2Affine, error) {
	var p G2Affine
	if len(b) != 96 {
		return p, sterr.New("DecodeG2", sterr.Serialization, "G2 point must be 96 bytes")
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, sterr.Wrap("DecodeG2", sterr.Serialization, err)
	}
	return p, nil
}

// gtLimbs returns pointers to the twelve Fp limbs of an E12 tower-field
// element, in a fixed C0/C1 -> B0/B1/B2 -> A0/A1 order. GT has no
// "compressed" form the way G1/G2 do (spec.md §6: "576 bytes per GT"), so
// encoding it is a plain fixed-width concatenation of its limbs rather than
// a delegated library call.
func gtLimbs(z *GT) [12]*fp.Element {
	return [12]*fp.Element{
		&z.C0.B0.A0, &z.C0.B0.A1, &z.C0.B1.A0, &z.C0.B1.A1, &z.C0.B2.A0, &z.C0.B2.A1,
		&z.C1.B0.A0, &z.C1.B0.A1, &z.C1.B1.A0, &z.C1.B1.A1, &z.C1.B2.A0, &z.C1.B2.A1,
	}
}

// EncodeGT returns the 576-byte canonical encoding of z.
func EncodeGT(z GT) []byte {
	out := make([]byte, 0, 576)
	for _, limb := range gtLimbs(&z) {
		b := limb.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// DecodeGT parses a 576-byte GT element produced by EncodeGT.
func DecodeGT(b []byte) (GT, error) {
	var z GT
	if len(b) != 576 {
		return z, sterr.New("DecodeGT", sterr.Serialization, "GT element must be 576 bytes")
	}
	for i, limb := range gtLimbs(&z) {
		limb.SetBytes(b[i*48 : (i+1)*48])
	}
	return z, nil
}

// GTEqual compares two GT elements over their canonical byte encoding, per
// spec.md §5 ("equality comparisons ... performed over the canonical
// compressed byte encoding to avoid timing variation").
func GTEqual(a, b GT) bool {
	ab, bb := EncodeGT(a), EncodeGT(b)
	diff := byte(0)
	for i := range ab {
		diff |= ab[i] ^ bb[i]
	}
	return diff == 0
}
