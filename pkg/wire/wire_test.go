package wire_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/wire"
)

func TestSetupBroadcastRoundTrip(t *testing.T) {
	want := wire.SetupBroadcast{TauOrTranscriptBytes: []byte{1, 2, 3}, N: 16}
	b, err := wire.Marshal(want)
	require.NoError(t, err)

	var got wire.SetupBroadcast
	require.NoError(t, wire.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}

func TestPublicKeyBroadcastRoundTrip(t *testing.T) {
	want := wire.PublicKeyBroadcast{PartyID: 3, PkBytes: []byte("pk"), Signature: []byte("sig")}
	b, err := wire.Marshal(want)
	require.NoError(t, err)

	var got wire.PublicKeyBroadcast
	require.NoError(t, wire.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}

func TestCiphertextBroadcastRoundTrip(t *testing.T) {
	want := wire.CiphertextBroadcast{CtBytes: []byte("ct"), Threshold: 5}
	b, err := wire.Marshal(want)
	require.NoError(t, err)

	var got wire.CiphertextBroadcast
	require.NoError(t, wire.Unmarshal(b, &got))
	assert.Equal(t, want, got)
}

func TestPartialDecryptionRequestResponseRoundTrip(t *testing.T) {
	req := wire.PartialDecryptionRequest{
		RequestID:         []byte("req-1"),
		CtBytes:           []byte("ct"),
		RequestingParties: []uint64{0, 1, 2},
	}
	b, err := wire.Marshal(req)
	require.NoError(t, err)
	var gotReq wire.PartialDecryptionRequest
	require.NoError(t, wire.Unmarshal(b, &gotReq))
	assert.Equal(t, req, gotReq)

	resp := wire.PartialDecryptionResponse{RequestID: []byte("req-1"), PartyID: 1, PdBytes: []byte("pd"), Signature: []byte("sig")}
	b, err = wire.Marshal(resp)
	require.NoError(t, err)
	var gotResp wire.PartialDecryptionResponse
	require.NoError(t, wire.Unmarshal(b, &gotResp))
	assert.Equal(t, resp, gotResp)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	var got wire.SetupBroadcast
	err := wire.Unmarshal([]byte{0xff, 0xff, 0xff}, &got)
	assert.Error(t, err)
}

func TestDeriveSigningKeySignAndVerify(t *testing.T) {
	sk, err := wire.DeriveSigningKey([]byte("party-0-secret-material"), []byte("ste-wire-pk-sign"))
	require.NoError(t, err)

	payload := []byte("public key bytes")
	sig := wire.Sign(sk, payload)
	assert.True(t, wire.Verify(sk.Public().(ed25519.PublicKey), payload, sig))
	assert.False(t, wire.Verify(sk.Public().(ed25519.PublicKey), []byte("tampered"), sig))
}

func TestDeriveSigningKeyIsDeterministicPerInfo(t *testing.T) {
	secret := []byte("party-0-secret-material")
	sk1, err := wire.DeriveSigningKey(secret, []byte("ste-wire-pk-sign"))
	require.NoError(t, err)
	sk2, err := wire.DeriveSigningKey(secret, []byte("ste-wire-pk-sign"))
	require.NoError(t, err)
	sk3, err := wire.DeriveSigningKey(secret, []byte("ste-wire-pd-sign"))
	require.NoError(t, err)

	assert.Equal(t, sk1, sk2)
	assert.NotEqual(t, sk1, sk3)
}
