// Package wire defines the CBOR-serializable message shapes spec.md §6's
// "Distributed orchestration protocol" describes by sequence only. No
// transport lives here (spec.md's Non-goals exclude TCP/TLS/libp2p/gossip
// implementations) — these types are what a transport would carry.
// Grounded on pkg/protocol/handler.go's use of fxamacker/cbor/v2 for message
// bodies in the teacher's round-based protocol transport.
package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// SetupBroadcast carries either a single-party tau or a ceremony transcript,
// plus the domain size n, to every party (spec.md §6 message 1).
type SetupBroadcast struct {
	TauOrTranscriptBytes []byte
	N                    uint64
}

// PublicKeyBroadcast is one party's public key announcement (spec.md §6
// message 2). The dummy party (PartyID 0) MUST send a nullified key's
// encoding. Signature is opaque to the core: spec.md's Non-goals state the
// core does not authenticate partial decryptions or public keys itself.
type PublicKeyBroadcast struct {
	PartyID   uint64
	PkBytes   []byte
	Signature []byte
}

// CiphertextBroadcast is the encryptor's announcement (spec.md §6 message 3).
type CiphertextBroadcast struct {
	CtBytes   []byte
	Threshold uint64
}

// PartialDecryptionRequest asks a set of parties to produce a partial
// decryption of a previously-broadcast ciphertext (spec.md §6 message 4).
type PartialDecryptionRequest struct {
	RequestID         []byte
	CtBytes           []byte
	RequestingParties []uint64
}

// PartialDecryptionResponse is one requested party's reply (spec.md §6
// message 5).
type PartialDecryptionResponse struct {
	RequestID []byte
	PartyID   uint64
	PdBytes   []byte
	Signature []byte
}

// Marshal and Unmarshal wrap fxamacker/cbor/v2 for every message type above,
// matching pkg/protocol/handler.go's choice of CBOR for round-message
// bodies.
func Marshal(v interface{}) ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, sterr.Wrap("Marshal", sterr.Serialization, err)
	}
	return b, nil
}

func Unmarshal(b []byte, v interface{}) error {
	if err := cbor.Unmarshal(b, v); err != nil {
		return sterr.Wrap("Unmarshal", sterr.Serialization, err)
	}
	return nil
}
