package ste_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/ste"
)

func TestCiphertextEncodeDecodeRoundTrip(t *testing.T) {
	_, pt, _, aggKey := setup(8)
	ct, err := ste.Encrypt(aggKey, pt, 3, rand.Reader)
	require.NoError(t, err)

	enc := ct.Encode()
	decoded, err := ste.DecodeCiphertext(enc)
	require.NoError(t, err)

	assert.True(t, curve.G2Equal(ct.GammaG2, decoded.GammaG2))
	for i := range ct.Sa1 {
		assert.True(t, curve.G1Equal(ct.Sa1[i], decoded.Sa1[i]))
	}
	for i := range ct.Sa2 {
		assert.True(t, curve.G2Equal(ct.Sa2[i], decoded.Sa2[i]))
	}
	assert.True(t, curve.GTEqual(ct.EncKey, decoded.EncKey))
	assert.Equal(t, ct.T, decoded.T)
}

func TestCiphertextEncodeIsFixedWidth(t *testing.T) {
	_, pt, _, aggKey := setup(8)
	ct, err := ste.Encrypt(aggKey, pt, 3, rand.Reader)
	require.NoError(t, err)
	assert.Len(t, ct.Encode(), 96+2*48+6*96+576+8)
}

func TestDecodeCiphertextRejectsWrongLength(t *testing.T) {
	_, err := ste.DecodeCiphertext([]byte{1, 2, 3})
	assert.Error(t, err)
}
