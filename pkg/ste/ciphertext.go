// Package ste implements silent threshold encryption/decryption (spec.md
// §4.6): encapsulating a GT session key under an AggregateKey, and
// recombining t+1 parties' partial decryptions into that same key without
// ever reconstructing a combined secret key. Grounded term-for-term on
// original_source/src/encryption.rs and src/decryption.rs.
package ste

import (
	"io"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/key"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Number of group elements and random scalars in a ciphertext, mirroring
// original_source/src/encryption.rs's SA1_SIZE/SA2_SIZE/ENCRYPTION_RANDOMNESS_SIZE.
const (
	sa1Size              = 2
	sa2Size              = 6
	encryptionRandomness = 5
)

// Ciphertext is a silent threshold encryption ciphertext: an encapsulated
// GT session key (EncKey) bound to a threshold t, plus the proof elements
// AggregateDecrypt needs to independently re-derive EncKey from t+1 partial
// decryptions.
type Ciphertext struct {
	GammaG2 curve.G2Affine
	Sa1     [sa1Size]curve.G1Affine
	Sa2     [sa2Size]curve.G2Affine
	EncKey  curve.GT
	T       uint64
}

// Encrypt encapsulates a fresh session key under aggKey for threshold t.
// The caller recovers the session key as the returned Ciphertext's EncKey.
// EncKey is part of the Ciphertext (and of its Encode output), and
// AggregateDecrypt accepts a recombined key only if it equals ct.EncKey.
// This package stops at producing EncKey; it does not wrap a payload under
// it with a symmetric cipher.
func Encrypt(aggKey *key.AggregateKey, pt *kzg.PowersOfTau, t uint64, r io.Reader) (*Ciphertext, error) {
	n := aggKey.Domain.Size()
	if t == 0 {
		return nil, sterr.New("Encrypt", sterr.InvalidThreshold, "threshold must be at least 1")
	}
	if t >= n {
		return nil, sterr.New("Encrypt", sterr.InvalidThreshold, "threshold must be less than the party count")
	}
	if uint64(len(pt.PowersG1)) <= t+1 {
		return nil, sterr.New("Encrypt", sterr.InvalidParameter, "SRS is too small for threshold t+1")
	}

	var s [encryptionRandomness]curve.Scalar
	for i := range s {
		v, err := curve.RandScalar(r)
		if err != nil {
			return nil, sterr.Wrap("Encrypt", sterr.Randomness, err)
		}
		s[i] = v
	}
	gamma, err := curve.RandScalar(r)
	if err != nil {
		return nil, sterr.Wrap("Encrypt", sterr.Randomness, err)
	}

	g, h := pt.PowersG1[0], pt.PowersG2[0]
	gammaG2 := curve.G2ScalarMul(h, gamma)

	var ct Ciphertext
	ct.GammaG2 = gammaG2
	ct.T = t

	// sa1[0] = s0*ask + s3*g^{tau^(t+1)} + s4*g
	ct.Sa1[0] = curve.G1Add(
		curve.G1Add(curve.G1ScalarMul(aggKey.Ask, s[0]), curve.G1ScalarMul(pt.PowersG1[t+1], s[3])),
		curve.G1ScalarMul(g, s[4]),
	)
	// sa1[1] = s2*g
	ct.Sa1[1] = curve.G1ScalarMul(g, s[2])

	// sa2[0] = s0*h + s2*gamma_g2
	ct.Sa2[0] = curve.G2Add(curve.G2ScalarMul(h, s[0]), curve.G2ScalarMul(gammaG2, s[2]))
	// sa2[1] = s0*z_g2
	ct.Sa2[1] = curve.G2ScalarMul(aggKey.ZG2, s[0])
	// sa2[2] = (s0+s1)*h^tau
	var s01 curve.Scalar
	s01.Add(&s[0], &s[1])
	ct.Sa2[2] = curve.G2ScalarMul(pt.PowersG2[1], s01)
	// sa2[3] = s1*h
	ct.Sa2[3] = curve.G2ScalarMul(h, s[1])
	// sa2[4] = s3*h
	ct.Sa2[4] = curve.G2ScalarMul(h, s[3])
	// sa2[5] = s4*(h^tau + h_minus1) = s4*(tau-1)*h
	ct.Sa2[5] = curve.G2ScalarMul(curve.G2Add(pt.PowersG2[1], aggKey.HMinus1), s[4])

	ct.EncKey = curve.GTExp(aggKey.EGh, s[4])

	return &ct, nil
}

// ciphertextEncodedLen is the fixed byte width of Ciphertext.Encode's output:
// one G2 (gammaG2) + two G1 (sa1) + six G2 (sa2) + one GT (encKey) + 8 bytes
// (threshold), matching spec.md §6's "roughly 1.3 KiB" fixed-overhead claim
// exactly (96 + 2*48 + 6*96 + 576 + 8 = 1352 bytes).
const ciphertextEncodedLen = 96 + sa1Size*48 + sa2Size*96 + 576 + 8

// Encode returns the canonical fixed-width byte encoding of ct (spec.md §6).
func (ct *Ciphertext) Encode() []byte {
	out := make([]byte, 0, ciphertextEncodedLen)
	out = append(out, curve.EncodeG2(ct.GammaG2)...)
	for _, p := range ct.Sa1 {
		out = append(out, curve.EncodeG1(p)...)
	}
	for _, p := range ct.Sa2 {
		out = append(out, curve.EncodeG2(p)...)
	}
	out = append(out, curve.EncodeGT(ct.EncKey)...)
	out = append(out, curve.EncodeVectorLen(ct.T)...)
	return out
}

// DecodeCiphertext parses the encoding produced by Ciphertext.Encode.
func DecodeCiphertext(b []byte) (*Ciphertext, error) {
	if len(b) != ciphertextEncodedLen {
		return nil, sterr.New("DecodeCiphertext", sterr.Serialization, "ciphertext has unexpected length")
	}
	var ct Ciphertext
	off := 0
	g2, err := curve.DecodeG2(b[off : off+96])
	if err != nil {
		return nil, sterr.Wrap("DecodeCiphertext", sterr.Serialization, err)
	}
	ct.GammaG2 = g2
	off += 96

	for i := range ct.Sa1 {
		p, err := curve.DecodeG1(b[off : off+48])
		if err != nil {
			return nil, sterr.Wrap("DecodeCiphertext", sterr.Serialization, err)
		}
		ct.Sa1[i] = p
		off += 48
	}
	for i := range ct.Sa2 {
		p, err := curve.DecodeG2(b[off : off+96])
		if err != nil {
			return nil, sterr.Wrap("DecodeCiphertext", sterr.Serialization, err)
		}
		ct.Sa2[i] = p
		off += 96
	}
	gt, err := curve.DecodeGT(b[off : off+576])
	if err != nil {
		return nil, sterr.Wrap("DecodeCiphertext", sterr.Serialization, err)
	}
	ct.EncKey = gt
	off += 576

	t, _, err := curve.DecodeVectorLen(b[off:])
	if err != nil {
		return nil, sterr.Wrap("DecodeCiphertext", sterr.Serialization, err)
	}
	ct.T = t

	return &ct, nil
}
