package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashNeverStoresPlaintext(t *testing.T) {
	hash, err := Hash("s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-password", hash)
	assert.True(t, Verify("s3cret-password", hash))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same password should differ")
	assert.True(t, Verify("same-password", h1))
	assert.True(t, Verify("same-password", h2))
}

func TestVerifyWrongPassword(t *testing.T) {
	hash, err := Hash("correct")
	require.NoError(t, err)

	assert.False(t, Verify("incorrect", hash))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("whatever", "not-a-bcrypt-hash"))
	assert.False(t, Verify("whatever", ""))
}
