package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NotPlaintext(t *testing.T) {
	digest, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)
	assert.NotEmpty(t, digest)
}

func TestHashPassword_SaltedDigestsDiffer(t *testing.T) {
	d1, err := HashPassword("s3cret")
	require.NoError(t, err)
	d2, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.True(t, CheckPassword("s3cret", d1))
	assert.True(t, CheckPassword("s3cret", d2))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	digest, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.False(t, CheckPassword("wrong", digest))
}

func TestCheckPassword_MalformedDigestFailsClosed(t *testing.T) {
	assert.False(t, CheckPassword("s3cret", ""))
	assert.False(t, CheckPassword("s3cret", "not-a-bcrypt-digest"))
	assert.False(t, CheckPassword("s3cret", "$2a$garbage"))
}
