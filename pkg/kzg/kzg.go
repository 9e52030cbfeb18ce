// Package kzg provides the KZG polynomial commitment primitives spec.md
// §4.3 describes: a structured reference string of powers of a (normally
// secret, ceremony-derived) tau in both G1 and G2, and the commitment
// operation that evaluates a polynomial "in the exponent" via MSM.
// Grounded on original_source/src/setup.rs's PowersOfTau construction.
package kzg

import (
	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// PowersOfTau is the structured reference string {g, g^tau, ..., g^(tau^d)}
// in G1 and {h, h^tau, ..., h^(tau^d)} in G2, for some maximum supported
// polynomial degree d. Production code obtains this from pkg/ceremony,
// which never reveals tau itself; Setup below exists for tests and
// single-process demos only.
type PowersOfTau struct {
	PowersG1 []curve.G1Affine // len = degree+1
	PowersG2 []curve.G2Affine // len = degree+1
}

// Degree returns the maximum polynomial degree this SRS can commit to.
func (p *PowersOfTau) Degree() int { return len(p.PowersG1) - 1 }

// Setup builds a PowersOfTau directly from a known tau. This reveals tau in
// plaintext and MUST NOT be used outside of tests or throwaway local demos
// (spec.md §4.7: production setups MUST run the multi-party ceremony).
func Setup(tau curve.Scalar, degree int) (*PowersOfTau, error) {
	if degree < 0 {
		return nil, sterr.New("Setup", sterr.InvalidParameter, "degree must be non-negative")
	}
	if tau.IsZero() {
		return nil, sterr.New("Setup", sterr.InvalidParameter, "tau must not be zero")
	}
	g, h := curve.G1Generator(), curve.G2Generator()
	powersG1 := make([]curve.G1Affine, degree+1)
	powersG2 := make([]curve.G2Affine, degree+1)

	power := curve.ScalarOne()
	for i := 0; i <= degree; i++ {
		powersG1[i] = curve.G1ScalarMul(g, power)
		powersG2[i] = curve.G2ScalarMul(h, power)
		power.Mul(&power, &tau)
	}
	return &PowersOfTau{PowersG1: powersG1, PowersG2: powersG2}, nil
}

// CommitG1 returns the KZG commitment to p in G1: sum_i p.Coeffs[i] * g^(tau^i).
func (pt *PowersOfTau) CommitG1(p polynomial.Polynomial) (curve.G1Affine, error) {
	if len(p.Coeffs) > len(pt.PowersG1) {
		return curve.G1Affine{}, sterr.New("CommitG1", sterr.Kzg, "polynomial degree exceeds SRS capacity")
	}
	return curve.MSMG1(pt.PowersG1[:len(p.Coeffs)], p.Coeffs)
}

// CommitG2 returns the KZG commitment to p in G2.
func (pt *PowersOfTau) CommitG2(p polynomial.Polynomial) (curve.G2Affine, error) {
	if len(p.Coeffs) > len(pt.PowersG2) {
		return curve.G2Affine{}, sterr.New("CommitG2", sterr.Kzg, "polynomial degree exceeds SRS capacity")
	}
	return curve.MSMG2(pt.PowersG2[:len(p.Coeffs)], p.Coeffs)
}

// Encode returns the canonical byte encoding of pt: an 8-byte count followed
// by that many 48-byte G1 points, then the same count and that many 96-byte
// G2 points (spec.md §6).
func (pt *PowersOfTau) Encode() []byte {
	n := uint64(len(pt.PowersG1))
	out := append([]byte(nil), curve.EncodeVectorLen(n)...)
	for _, p := range pt.PowersG1 {
		out = append(out, curve.EncodeG1(p)...)
	}
	out = append(out, curve.EncodeVectorLen(uint64(len(pt.PowersG2)))...)
	for _, p := range pt.PowersG2 {
		out = append(out, curve.EncodeG2(p)...)
	}
	return out
}

// DecodePowersOfTau parses the encoding produced by Encode.
func DecodePowersOfTau(b []byte) (*PowersOfTau, error) {
	n1, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, sterr.Wrap("DecodePowersOfTau", sterr.Serialization, err)
	}
	g1s := make([]curve.G1Affine, n1)
	for i := range g1s {
		if len(rest) < 48 {
			return nil, sterr.New("DecodePowersOfTau", sterr.Serialization, "truncated G1 vector")
		}
		p, err := curve.DecodeG1(rest[:48])
		if err != nil {
			return nil, sterr.Wrap("DecodePowersOfTau", sterr.Serialization, err)
		}
		g1s[i] = p
		rest = rest[48:]
	}
	n2, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePowersOfTau", sterr.Serialization, err)
	}
	g2s := make([]curve.G2Affine, n2)
	for i := range g2s {
		if len(rest) < 96 {
			return nil, sterr.New("DecodePowersOfTau", sterr.Serialization, "truncated G2 vector")
		}
		p, err := curve.DecodeG2(rest[:96])
		if err != nil {
			return nil, sterr.Wrap("DecodePowersOfTau", sterr.Serialization, err)
		}
		g2s[i] = p
		rest = rest[96:]
	}
	return &PowersOfTau{PowersG1: g1s, PowersG2: g2s}, nil
}
