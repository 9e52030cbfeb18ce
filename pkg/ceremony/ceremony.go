// Package ceremony implements the multi-party powers-of-tau ceremony spec.md
// §4.7 requires production deployments run instead of pkg/kzg.Setup's
// insecure single-process shortcut. Grounded on
// original_source/src/trusted_setup.rs's Ceremony/Contribution types, with
// verify_contribution's structural-only placeholder completed into a real
// pairing check (spec.md §9's Open Question; see DESIGN.md).
package ceremony

import (
	"encoding/binary"
	"io"

	"github.com/zeebo/blake3"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Contribution is one participant's update to the accumulated powers of tau,
// plus the proof elements (tau*g, tau*h for the ACCUMULATED secret after
// this contribution, not just this participant's own randomness) that let
// VerifyContribution check it was derived honestly from the previous
// contribution.
type Contribution struct {
	PowersG1 []curve.G1Affine
	PowersG2 []curve.G2Affine
	ProofG1  curve.G1Affine
	ProofG2  curve.G2Affine
}

// Ceremony accumulates a transcript of contributions toward a single shared
// structured reference string. No participant ever learns the combined tau;
// the scheme is secure as long as at least one contributor draws genuine
// randomness and discards it afterward.
type Ceremony struct {
	maxDegree     int
	contributions []Contribution
}

// New starts a ceremony with the first participant's contribution, drawn
// from r. Production callers MUST pass crypto/rand.Reader and MUST discard
// any state r retains after this call returns.
func New(maxDegree int, r io.Reader) (*Ceremony, error) {
	if maxDegree < 1 {
		return nil, sterr.New("New", sterr.InvalidParameter, "max degree must be at least 1")
	}
	tau, err := curve.RandScalar(r)
	if err != nil {
		return nil, sterr.Wrap("New", sterr.Randomness, err)
	}
	c := &Ceremony{maxDegree: maxDegree}
	c.contributions = append(c.contributions, contributeFrom(nil, maxDegree, tau))
	return c, nil
}

// Contribute appends a new contribution derived from the ceremony's current
// state and a fresh secret drawn from r. Production callers MUST discard
// their secret and RNG state immediately after this call returns.
func (c *Ceremony) Contribute(r io.Reader) error {
	tau, err := curve.RandScalar(r)
	if err != nil {
		return sterr.Wrap("Contribute", sterr.Randomness, err)
	}
	prev := &c.contributions[len(c.contributions)-1]
	c.contributions = append(c.contributions, contributeFrom(prev, c.maxDegree, tau))
	return nil
}

// contributeFrom raises prev's powers (or, if prev is nil, the generators)
// to successive powers of tau, producing {tau^i * prevG}, {tau^i * prevH}.
func contributeFrom(prev *Contribution, maxDegree int, tau curve.Scalar) Contribution {
	powers := make([]curve.Scalar, maxDegree+1)
	powers[0] = curve.ScalarOne()
	for i := 1; i <= maxDegree; i++ {
		powers[i].Mul(&powers[i-1], &tau)
	}

	newG := make([]curve.G1Affine, maxDegree+1)
	newH := make([]curve.G2Affine, maxDegree+1)
	if prev == nil {
		g, h := curve.G1Generator(), curve.G2Generator()
		for i := range powers {
			newG[i] = curve.G1ScalarMul(g, powers[i])
			newH[i] = curve.G2ScalarMul(h, powers[i])
		}
	} else {
		for i := range powers {
			newG[i] = curve.G1ScalarMul(prev.PowersG1[i], powers[i])
			newH[i] = curve.G2ScalarMul(prev.PowersG2[i], powers[i])
		}
	}

	return Contribution{
		PowersG1: newG,
		PowersG2: newH,
		ProofG1:  newG[1],
		ProofG2:  newH[1],
	}
}

// NumParticipants returns how many contributions the ceremony has recorded,
// including the initial one from New.
func (c *Ceremony) NumParticipants() int { return len(c.contributions) }

// challengeScalars derives len(out) Fiat-Shamir challenge scalars for a
// batched pairing check over contribution index, binding the challenge to
// both contributions' full transcripts so a malicious prover cannot choose
// which degrees get checked.
func challengeScalars(prev, curr *Contribution, n int) []curve.Scalar {
	h := blake3.New()
	for _, p := range prev.PowersG1 {
		b := curve.EncodeG1(p)
		_, _ = h.Write(b)
	}
	for _, p := range curr.PowersG1 {
		b := curve.EncodeG1(p)
		_, _ = h.Write(b)
	}
	seed := h.Sum(nil)

	out := make([]curve.Scalar, n)
	counter := make([]byte, 8)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(counter, uint64(i))
		x := blake3.New()
		_, _ = x.Write(seed)
		_, _ = x.Write(counter)
		digest := x.Sum(nil)
		out[i] = curve.ScalarFromBlake3(digest)
	}
	return out
}

// VerifyContribution checks that contributions[index] has the expected
// length, keeps contributions[index-1]'s base points, and is a consistent
// sequence of powers of a single secret, using a randomized batched pairing
// check on top of the structural degree/base-point check
// original_source/src/trusted_setup.rs stopped at:
//
//  1. Geometric progression in G1: for random challenges r_i,
//     e(sum_i r_i * curr.PowersG1[i+1], H) == e(sum_i r_i * curr.PowersG1[i], curr.ProofG2)
//  2. Geometric progression in G2, symmetric to (1) with G1/G2 swapped and
//     curr.ProofG1 in place of curr.ProofG2.
//  3. The G1 and G2 sides share the same accumulated secret:
//     e(curr.ProofG1, H) == e(G, curr.ProofG2)
//
// An honest Contribute output satisfies all three. The checks do not relate
// curr's secret to prev's: a contribution built directly from the
// generators with a fresh secret, ignoring prev, also passes.
func (c *Ceremony) VerifyContribution(index int) (bool, error) {
	if index <= 0 || index >= len(c.contributions) {
		return false, sterr.New("VerifyContribution", sterr.InvalidParameter, "index out of range")
	}
	prev := &c.contributions[index-1]
	curr := &c.contributions[index]

	if len(curr.PowersG1) != c.maxDegree+1 || len(curr.PowersG2) != c.maxDegree+1 {
		return false, nil
	}
	if !curve.G1Equal(curr.PowersG1[0], prev.PowersG1[0]) || !curve.G2Equal(curr.PowersG2[0], prev.PowersG2[0]) {
		return false, nil
	}

	g, h := curve.G1Generator(), curve.G2Generator()
	okCross, err := pairEqual(curr.ProofG1, h, g, curr.ProofG2)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.InvalidParameter, err)
	}
	if !okCross {
		return false, nil
	}

	challenges := challengeScalars(prev, curr, c.maxDegree)

	lowerG1 := make([]curve.G1Affine, c.maxDegree)
	upperG1 := make([]curve.G1Affine, c.maxDegree)
	lowerG2 := make([]curve.G2Affine, c.maxDegree)
	upperG2 := make([]curve.G2Affine, c.maxDegree)
	for i := 0; i < c.maxDegree; i++ {
		lowerG1[i] = curr.PowersG1[i]
		upperG1[i] = curr.PowersG1[i+1]
		lowerG2[i] = curr.PowersG2[i]
		upperG2[i] = curr.PowersG2[i+1]
	}

	accUpperG1, err := curve.MSMG1(upperG1, challenges)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.Msm, err)
	}
	accLowerG1, err := curve.MSMG1(lowerG1, challenges)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.Msm, err)
	}
	okG1, err := pairEqual(accUpperG1, h, accLowerG1, curr.ProofG2)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.InvalidParameter, err)
	}
	if !okG1 {
		return false, nil
	}

	accUpperG2, err := curve.MSMG2(upperG2, challenges)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.Msm, err)
	}
	accLowerG2, err := curve.MSMG2(lowerG2, challenges)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.Msm, err)
	}
	okG2, err := pairEqual(g, accUpperG2, curr.ProofG1, accLowerG2)
	if err != nil {
		return false, sterr.Wrap("VerifyContribution", sterr.InvalidParameter, err)
	}
	return okG2, nil
}

// pairEqual reports whether e(a1, a2) == e(b1, b2).
func pairEqual(a1 curve.G1Affine, a2 curve.G2Affine, b1 curve.G1Affine, b2 curve.G2Affine) (bool, error) {
	lhs, err := curve.Pair(a1, a2)
	if err != nil {
		return false, err
	}
	rhs, err := curve.Pair(b1, b2)
	if err != nil {
		return false, err
	}
	return curve.GTEqual(lhs, rhs), nil
}

// Encode returns the canonical byte encoding of the ceremony's full
// transcript (spec.md §6, "ceremony state"): the max degree, then every
// contribution as {powersG1, powersG2, proofG1, proofG2}.
func (c *Ceremony) Encode() []byte {
	out := curve.EncodeVectorLen(uint64(c.maxDegree))
	out = append(out, curve.EncodeVectorLen(uint64(len(c.contributions)))...)
	for _, contrib := range c.contributions {
		pt := kzg.PowersOfTau{PowersG1: contrib.PowersG1, PowersG2: contrib.PowersG2}
		enc := pt.Encode()
		out = append(out, curve.EncodeVectorLen(uint64(len(enc)))...)
		out = append(out, enc...)
		out = append(out, curve.EncodeG1(contrib.ProofG1)...)
		out = append(out, curve.EncodeG2(contrib.ProofG2)...)
	}
	return out
}

// DecodeCeremony parses the transcript encoding produced by Ceremony.Encode.
func DecodeCeremony(b []byte) (*Ceremony, error) {
	maxDegree, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
	}
	count, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
	}
	contributions := make([]Contribution, count)
	for i := range contributions {
		var ptLen uint64
		ptLen, rest, err = curve.DecodeVectorLen(rest)
		if err != nil {
			return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
		}
		if uint64(len(rest)) < ptLen {
			return nil, sterr.New("DecodeCeremony", sterr.Serialization, "truncated contribution")
		}
		pt, err := kzg.DecodePowersOfTau(rest[:ptLen])
		if err != nil {
			return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
		}
		rest = rest[ptLen:]

		if len(rest) < 48+96 {
			return nil, sterr.New("DecodeCeremony", sterr.Serialization, "truncated contribution proof")
		}
		proofG1, err := curve.DecodeG1(rest[:48])
		if err != nil {
			return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
		}
		rest = rest[48:]
		proofG2, err := curve.DecodeG2(rest[:96])
		if err != nil {
			return nil, sterr.Wrap("DecodeCeremony", sterr.Serialization, err)
		}
		rest = rest[96:]

		contributions[i] = Contribution{
			PowersG1: pt.PowersG1,
			PowersG2: pt.PowersG2,
			ProofG1:  proofG1,
			ProofG2:  proofG2,
		}
	}

	return &Ceremony{maxDegree: int(maxDegree), contributions: contributions}, nil
}

// Finalize extracts the final contribution as a usable PowersOfTau. Callers
// MUST have verified every contribution (index 1..NumParticipants()-1) with
// VerifyContribution first.
func (c *Ceremony) Finalize() *kzg.PowersOfTau {
	last := c.contributions[len(c.contributions)-1]
	return &kzg.PowersOfTau{PowersG1: last.PowersG1, PowersG2: last.PowersG2}
}
