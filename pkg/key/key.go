// Package key implements the silent threshold encryption key lifecycle:
// per-party secret/public key pairs and their combination into a single
// aggregate key (spec.md §4.5). Grounded on original_source/src/setup.rs's
// SecretKey, PublicKey and AggregateKey types.
package key

import (
	"io"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/lagrange"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// SecretKey wraps a single Fr scalar. Party 0, the dummy party every
// instance is set up with, carries a nullified secret key (Nullify sets it
// to 1) rather than a random one, per spec.md §4.5.
type SecretKey struct {
	sk curve.Scalar
}

// NewSecretKey draws a fresh uniformly random secret key from r. Production
// callers MUST pass crypto/rand.Reader.
func NewSecretKey(r io.Reader) (*SecretKey, error) {
	s, err := curve.RandScalar(r)
	if err != nil {
		return nil, sterr.Wrap("NewSecretKey", sterr.Randomness, err)
	}
	return &SecretKey{sk: s}, nil
}

// NullifiedSecretKey returns the dummy party's secret key, fixed at 1 so
// every instance's public parameters are derivable without trusting any
// single party with the dummy slot (spec.md §4.5).
func NullifiedSecretKey() *SecretKey {
	return &SecretKey{sk: curve.ScalarOne()}
}

// Nullify overwrites sk in place with 1.
func (sk *SecretKey) Nullify() { sk.sk = curve.ScalarOne() }

// Zeroize overwrites the secret scalar with zero. Go has no exact analogue
// of Rust's zeroize crate (no compiler barrier against dead-store
// elimination), so this is a best-effort overwrite rather than a hard
// guarantee; see DESIGN.md for why no ecosystem library in the retrieved
// corpus covers this gap.
func (sk *SecretKey) Zeroize() { sk.sk = curve.ScalarZero() }

// String redacts sk's scalar from any debug representation (spec.md §5,
// §8's "SecretKey's debug representation does not contain the underlying
// scalar's bytes"). Without this, fmt's reflection-based printing of
// unexported fields would still expose sk's limbs under %v/%+v even though
// no external package can call a method on the field directly.
func (sk *SecretKey) String() string { return "SecretKey{REDACTED}" }

// GoString is String's %#v counterpart; see String.
func (sk *SecretKey) GoString() string { return "SecretKey{REDACTED}" }

// Encode returns the canonical 32-byte encoding of the secret scalar. Callers
// persisting this to disk are responsible for the file's access controls;
// nothing in this package encrypts it at rest (spec.md §7, key material
// handling is a deployment concern).
func (sk *SecretKey) Encode() []byte { return curve.EncodeScalar(sk.sk) }

// DecodeSecretKey parses the encoding produced by SecretKey.Encode.
func DecodeSecretKey(b []byte) (*SecretKey, error) {
	s, err := curve.DecodeScalar(b)
	if err != nil {
		return nil, sterr.Wrap("DecodeSecretKey", sterr.Serialization, err)
	}
	return &SecretKey{sk: s}, nil
}

// GetPk derives this party's public key directly, recomputing every
// Lagrange basis polynomial from scratch: O(n^2) field operations overall
// for an n-party domain. Exists for testing LagrangeGetPk against a
// independently-derived result, and for n small enough that precomputing
// the full lagrange.Powers table isn't worth it (spec.md §4.5, "a fallback
// ... exists").
func (sk *SecretKey) GetPk(id uint64, domain *curve.Domain, pt *kzg.PowersOfTau) (*PublicKey, error) {
	n := domain.Size()
	if id >= n {
		return nil, sterr.New("GetPk", sterr.InvalidParameter, "party id out of range")
	}

	li, err := polynomial.LagrangeBasis(domain, id)
	if err != nil {
		return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
	}

	skLi, err := pt.CommitG1(li.ScalarMul(sk.sk))
	if err != nil {
		return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
	}

	minus0Poly := li.ZeroConstant()
	skLiMinus0, err := pt.CommitG1(minus0Poly.ScalarMul(sk.sk))
	if err != nil {
		return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
	}

	xPoly, err := minus0Poly.DivByX()
	if err != nil {
		return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
	}
	skLiX, err := pt.CommitG1(xPoly.ScalarMul(sk.sk))
	if err != nil {
		return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
	}

	skLiLjZ := make([]curve.G1Affine, n)
	for j := uint64(0); j < n; j++ {
		var num polynomial.Polynomial
		if j == id {
			num = li.Mul(li).Sub(li)
		} else {
			lj, err := polynomial.LagrangeBasis(domain, j)
			if err != nil {
				return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
			}
			num = li.Mul(lj)
		}
		q, err := num.DivByVanishing(domain)
		if err != nil {
			return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
		}
		c, err := pt.CommitG1(q.ScalarMul(sk.sk))
		if err != nil {
			return nil, sterr.Wrap("GetPk", sterr.Kzg, err)
		}
		skLiLjZ[j] = c
	}

	return &PublicKey{
		ID:         id,
		BlsPk:      curve.G1ScalarMul(curve.G1Generator(), sk.sk),
		SkLi:       skLi,
		SkLiMinus0: skLiMinus0,
		SkLiX:      skLiX,
		SkLiLjZ:    skLiLjZ,
	}, nil
}

// LagrangeGetPk derives this party's public key from a preprocessed
// lagrange.Powers table in O(n) scalar multiplications, replacing GetPk's
// O(n^2) polynomial recomputation with n precomputed group elements each
// scaled once by sk. Both functions MUST agree bit-for-bit on the same
// (sk, id, domain, tau) input (spec.md §8's round-trip property).
func (sk *SecretKey) LagrangeGetPk(id uint64, powers *lagrange.Powers) (*PublicKey, error) {
	n := powers.Domain.Size()
	if id >= n {
		return nil, sterr.New("LagrangeGetPk", sterr.InvalidParameter, "party id out of range")
	}

	skLiLjZ := make([]curve.G1Affine, n)
	row := powers.LiLjZ[id]
	for j := uint64(0); j < n; j++ {
		skLiLjZ[j] = curve.G1ScalarMul(row[j], sk.sk)
	}

	return &PublicKey{
		ID:         id,
		BlsPk:      curve.G1ScalarMul(curve.G1Generator(), sk.sk),
		SkLi:       curve.G1ScalarMul(powers.Li[id], sk.sk),
		SkLiMinus0: curve.G1ScalarMul(powers.LiMinus0[id], sk.sk),
		SkLiX:      curve.G1ScalarMul(powers.LiX[id], sk.sk),
		SkLiLjZ:    skLiLjZ,
	}, nil
}

// PartialDecrypt returns this party's partial decryption of a ciphertext's
// GammaG2 element: gamma_g2^sk. AggregateDecrypt (pkg/ste) combines t+1 of
// these into the shared session key.
func (sk *SecretKey) PartialDecrypt(gammaG2 curve.G2Affine) curve.G2Affine {
	return curve.G2ScalarMul(gammaG2, sk.sk)
}

// PublicKey is one party's contribution to an AggregateKey: its raw BLS
// public key plus the four secret-scaled Lagrange preprocessing terms
// (spec.md §4.5/§3).
type PublicKey struct {
	ID         uint64
	BlsPk      curve.G1Affine
	SkLi       curve.G1Affine
	SkLiMinus0 curve.G1Affine
	SkLiX      curve.G1Affine
	SkLiLjZ    []curve.G1Affine
}

// ZeroForDomain returns the "absent party" public key for party id in an
// n-party domain: every group-element field set to its group's identity.
// Used in the peer-to-peer path to build an AggregateKey once a quorum has
// contributed even if non-participants have not broadcast their real
// public key yet — the missing parties contribute zero to Ask and
// AggSkLiLjZ, and the selector excludes them from the pairing check, so
// the decryption equation still holds (spec.md §4.5, §8's "aggregate-key
// linearity").
func ZeroForDomain(id, n uint64) *PublicKey {
	skLiLjZ := make([]curve.G1Affine, n)
	for j := range skLiLjZ {
		skLiLjZ[j] = curve.G1Identity()
	}
	return &PublicKey{
		ID:         id,
		BlsPk:      curve.G1Identity(),
		SkLi:       curve.G1Identity(),
		SkLiMinus0: curve.G1Identity(),
		SkLiX:      curve.G1Identity(),
		SkLiLjZ:    skLiLjZ,
	}
}

// Encode returns the canonical byte encoding of pk (spec.md §6): the party
// id, the four fixed-width group elements, then SkLiLjZ as a length-prefixed
// G1 vector.
func (pk *PublicKey) Encode() []byte {
	out := curve.EncodeVectorLen(pk.ID)
	out = append(out, curve.EncodeG1(pk.BlsPk)...)
	out = append(out, curve.EncodeG1(pk.SkLi)...)
	out = append(out, curve.EncodeG1(pk.SkLiMinus0)...)
	out = append(out, curve.EncodeG1(pk.SkLiX)...)
	out = append(out, curve.EncodeVectorLen(uint64(len(pk.SkLiLjZ)))...)
	for _, p := range pk.SkLiLjZ {
		out = append(out, curve.EncodeG1(p)...)
	}
	return out
}

// DecodePublicKey parses the encoding produced by PublicKey.Encode.
func DecodePublicKey(b []byte) (*PublicKey, error) {
	id, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	if len(rest) < 48*3 {
		return nil, sterr.New("DecodePublicKey", sterr.Serialization, "truncated public key")
	}
	blsPk, err := curve.DecodeG1(rest[:48])
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	rest = rest[48:]
	skLi, err := curve.DecodeG1(rest[:48])
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	rest = rest[48:]
	skLiMinus0, err := curve.DecodeG1(rest[:48])
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	rest = rest[48:]
	if len(rest) < 48 {
		return nil, sterr.New("DecodePublicKey", sterr.Serialization, "truncated public key")
	}
	skLiX, err := curve.DecodeG1(rest[:48])
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	rest = rest[48:]

	n, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
	}
	skLiLjZ := make([]curve.G1Affine, n)
	for i := range skLiLjZ {
		if len(rest) < 48 {
			return nil, sterr.New("DecodePublicKey", sterr.Serialization, "truncated cross-term vector")
		}
		p, err := curve.DecodeG1(rest[:48])
		if err != nil {
			return nil, sterr.Wrap("DecodePublicKey", sterr.Serialization, err)
		}
		skLiLjZ[i] = p
		rest = rest[48:]
	}

	return &PublicKey{ID: id, BlsPk: blsPk, SkLi: skLi, SkLiMinus0: skLiMinus0, SkLiX: skLiX, SkLiLjZ: skLiLjZ}, nil
}

// AggregateKey combines every party's PublicKey (including the dummy
// party's) into the single set of group elements Encrypt and
// AggregateDecrypt operate on (spec.md §4.5/§4.6).
type AggregateKey struct {
	Domain     *curve.Domain
	Ask        curve.G1Affine   // sum_i SkLi_i
	AggSkLiLjZ []curve.G1Affine // column sums of every party's SkLiLjZ
	ZG2        curve.G2Affine   // commit(Z) in G2, Z the domain's vanishing polynomial
	HMinus1    curve.G2Affine   // -h
	EGh        curve.GT         // e(g, h)
	PublicKeys []*PublicKey
}

// NewAggregateKey combines pks (one entry per domain element, including the
// dummy party at index 0) into an AggregateKey.
func NewAggregateKey(pks []*PublicKey, domain *curve.Domain, pt *kzg.PowersOfTau) (*AggregateKey, error) {
	n := domain.Size()
	if uint64(len(pks)) != n {
		return nil, sterr.New("NewAggregateKey", sterr.InvalidParameter, "public key count must equal domain size")
	}
	seen := make([]bool, n)
	for _, pk := range pks {
		if pk.ID >= n || seen[pk.ID] {
			return nil, sterr.New("NewAggregateKey", sterr.InvalidParameter, "duplicate or out-of-range party id")
		}
		seen[pk.ID] = true
		if uint64(len(pk.SkLiLjZ)) != n {
			return nil, sterr.New("NewAggregateKey", sterr.InvalidParameter, "malformed public key cross-term table")
		}
	}

	ask := curve.G1Identity()
	aggSkLiLjZ := make([]curve.G1Affine, n)
	for j := range aggSkLiLjZ {
		aggSkLiLjZ[j] = curve.G1Identity()
	}
	for _, pk := range pks {
		ask = curve.G1Add(ask, pk.SkLi)
		for j, term := range pk.SkLiLjZ {
			aggSkLiLjZ[j] = curve.G1Add(aggSkLiLjZ[j], term)
		}
	}

	if uint64(len(pt.PowersG2)) <= n {
		return nil, sterr.New("NewAggregateKey", sterr.InvalidParameter, "SRS is too small for this domain")
	}
	hMinus1 := curve.G2Neg(pt.PowersG2[0])
	zG2 := curve.G2Add(pt.PowersG2[n], hMinus1)
	if curve.G2Equal(zG2, curve.G2Identity()) {
		return nil, sterr.New("NewAggregateKey", sterr.InvalidParameter, "Z(tau) is zero: tau is an n-th root of unity")
	}

	eGh, err := curve.Pair(pt.PowersG1[0], pt.PowersG2[0])
	if err != nil {
		return nil, sterr.Wrap("NewAggregateKey", sterr.InvalidParameter, err)
	}

	ordered := make([]*PublicKey, n)
	for _, pk := range pks {
		ordered[pk.ID] = pk
	}

	return &AggregateKey{
		Domain:     domain,
		Ask:        ask,
		AggSkLiLjZ: aggSkLiLjZ,
		ZG2:        zG2,
		HMinus1:    hMinus1,
		EGh:        eGh,
		PublicKeys: ordered,
	}, nil
}

// Encode returns the canonical byte encoding of ak (spec.md §6): the domain
// size, Ask, AggSkLiLjZ as a length-prefixed G1 vector, ZG2, HMinus1, EGh,
// then every PublicKey (in ID order) as a length-prefixed vector of
// length-prefixed encodings.
func (ak *AggregateKey) Encode() []byte {
	out := curve.EncodeVectorLen(ak.Domain.Size())
	out = append(out, curve.EncodeG1(ak.Ask)...)
	out = append(out, curve.EncodeVectorLen(uint64(len(ak.AggSkLiLjZ)))...)
	for _, p := range ak.AggSkLiLjZ {
		out = append(out, curve.EncodeG1(p)...)
	}
	out = append(out, curve.EncodeG2(ak.ZG2)...)
	out = append(out, curve.EncodeG2(ak.HMinus1)...)
	out = append(out, curve.EncodeGT(ak.EGh)...)
	out = append(out, curve.EncodeVectorLen(uint64(len(ak.PublicKeys)))...)
	for _, pk := range ak.PublicKeys {
		enc := pk.Encode()
		out = append(out, curve.EncodeVectorLen(uint64(len(enc)))...)
		out = append(out, enc...)
	}
	return out
}

// DecodeAggregateKey parses the encoding produced by AggregateKey.Encode.
func DecodeAggregateKey(b []byte) (*AggregateKey, error) {
	n, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	domain, err := curve.NewDomain(n)
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Domain, err)
	}
	if len(rest) < 48 {
		return nil, sterr.New("DecodeAggregateKey", sterr.Serialization, "truncated aggregate key")
	}
	ask, err := curve.DecodeG1(rest[:48])
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	rest = rest[48:]

	count, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	aggSkLiLjZ := make([]curve.G1Affine, count)
	for i := range aggSkLiLjZ {
		if len(rest) < 48 {
			return nil, sterr.New("DecodeAggregateKey", sterr.Serialization, "truncated cross-term vector")
		}
		p, err := curve.DecodeG1(rest[:48])
		if err != nil {
			return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
		}
		aggSkLiLjZ[i] = p
		rest = rest[48:]
	}

	if len(rest) < 96+96+576 {
		return nil, sterr.New("DecodeAggregateKey", sterr.Serialization, "truncated aggregate key tail")
	}
	zG2, err := curve.DecodeG2(rest[:96])
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	rest = rest[96:]
	hMinus1, err := curve.DecodeG2(rest[:96])
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	rest = rest[96:]
	eGh, err := curve.DecodeGT(rest[:576])
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	rest = rest[576:]

	pkCount, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
	}
	pks := make([]*PublicKey, pkCount)
	for i := range pks {
		var encLen uint64
		encLen, rest, err = curve.DecodeVectorLen(rest)
		if err != nil {
			return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
		}
		if uint64(len(rest)) < encLen {
			return nil, sterr.New("DecodeAggregateKey", sterr.Serialization, "truncated public key entry")
		}
		pk, err := DecodePublicKey(rest[:encLen])
		if err != nil {
			return nil, sterr.Wrap("DecodeAggregateKey", sterr.Serialization, err)
		}
		pks[i] = pk
		rest = rest[encLen:]
	}

	return &AggregateKey{
		Domain:     domain,
		Ask:        ask,
		AggSkLiLjZ: aggSkLiLjZ,
		ZG2:        zG2,
		HMinus1:    hMinus1,
		EGh:        eGh,
		PublicKeys: pks,
	}, nil
}
