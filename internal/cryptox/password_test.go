package cryptox

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedHashRe = regexp.MustCompile(`^[0-9a-f]{64}:[a-z0-9]{8}$`)

func TestHashPassword_StoredShape(t *testing.T) {
	h, err := HashPassword("Secret1")
	require.NoError(t, err)
	require.Regexp(t, storedHashRe, h)
}

func TestHashPassword_SaltDiffersPerCall(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)

	// identical plaintext must never produce identical stored values
	require.NotEqual(t, a, b)

	_, saltA, _ := strings.Cut(a, ":")
	_, saltB, _ := strings.Cut(b, ":")
	assert.NotEqual(t, saltA, saltB)
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("Secret1")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("Secret1", h))
	assert.False(t, VerifyPassword("Secret1x", h))
	assert.False(t, VerifyPassword("", h))
}

func TestVerifyPassword_KnownVector(t *testing.T) {
	// sha256("passwordabcd1234") with the salt stored after the colon.
	stored := "68373940ebcb9a41fbe23220bde320be0cfaad1b7cf9c755b11c3b545c77cc00:abcd1234"
	assert.True(t, VerifyPassword("password", stored))
	assert.False(t, VerifyPassword("Password", stored))
}

func TestVerifyPassword_MalformedStoredFailsClosed(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		":onlysalt",
		"onlydigest:",
		":",
	}
	for _, stored := range cases {
		assert.False(t, VerifyPassword("anything", stored), "stored=%q", stored)
		assert.True(t, MalformedHash(stored), "stored=%q", stored)
	}
}

func TestMalformedHash_WellFormed(t *testing.T) {
	h, err := HashPassword("p")
	require.NoError(t, err)
	assert.False(t, MalformedHash(h))
}
