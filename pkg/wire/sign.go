package wire

import (
	"crypto/ed25519"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// DeriveSigningKey expands a party's long-term key material (e.g. the
// canonical bytes of its SecretKey, spec.md §3's sk) into an ed25519 seed
// via HKDF, so a CLI demo can sign PublicKeyBroadcast/PartialDecryptionResponse
// payloads without a second independently-generated keypair to manage. info
// should be unique per purpose (e.g. "ste-wire-pk-sign") to domain-separate
// different uses of the same secret material.
func DeriveSigningKey(secret, info []byte) (ed25519.PrivateKey, error) {
	kdf := hkdf.New(sha256.New, secret, nil, info)
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return nil, sterr.Wrap("DeriveSigningKey", sterr.Randomness, err)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// Sign signs payload under sk. The core itself never calls this: spec.md's
// Non-goals state the cryptographic soundness of STE does not depend on
// transport-layer signatures, but the orchestration messages in this package
// carry a Signature field for transports that want one.
func Sign(sk ed25519.PrivateKey, payload []byte) []byte {
	return ed25519.Sign(sk, payload)
}

// Verify reports whether sig is a valid ed25519 signature over payload under pk.
func Verify(pk ed25519.PublicKey, payload, sig []byte) bool {
	return ed25519.Verify(pk, payload, sig)
}
