// Package cryptox implements the password hashing scheme used by the local
// users table and the sealing of sensitive values kept in device storage.
//
// The stored password format is "<hex-sha256>:<salt>": a single-round
// SHA-256 digest over the password concatenated with an 8-character
// alphanumeric salt. The format is fixed; rows written by earlier releases
// of the app must keep verifying.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const saltLength = 8

// saltAlphabet matches the character set historically used for salts.
// Verification does not depend on it, only generation does.
const saltAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateSalt returns a fixed-length random alphanumeric salt drawn from
// the system CSPRNG.
func generateSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(saltAlphabet[int(b)%len(saltAlphabet)])
	}
	return sb.String(), nil
}

func digest(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// HashPassword returns the stored form "<hex-digest>:<salt>" for a new
// password, generating a fresh salt per call.
func HashPassword(password string) (string, error) {
	salt, err := generateSalt()
	if err != nil {
		return "", err
	}
	return digest(password, salt) + ":" + salt, nil
}

// VerifyPassword recomputes the digest of password with the salt extracted
// from stored and compares it against the stored digest. A stored value
// that does not split into two non-empty parts is treated as a mismatch:
// corrupt credentials fail closed, they never verify.
func VerifyPassword(password, stored string) bool {
	savedDigest, salt, ok := strings.Cut(stored, ":")
	if !ok || savedDigest == "" || salt == "" {
		return false
	}
	candidate := digest(password, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(savedDigest)) == 1
}

// MalformedHash reports whether stored fails the "<digest>:<salt>" shape.
// Used by callers that want to log a data-integrity warning separately
// from an ordinary wrong-password outcome.
func MalformedHash(stored string) bool {
	savedDigest, salt, ok := strings.Cut(stored, ":")
	return !ok || savedDigest == "" || salt == ""
}
