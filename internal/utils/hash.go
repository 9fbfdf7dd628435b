package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes is the entropy of a password reset token.
const ResetTokenBytes = 32

// HashToken returns the hex-encoded SHA-256 of token. Only this digest is
// persisted, the plaintext token travels by email.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateResetToken returns a random hex token and its HashToken digest.
func GenerateResetToken() (plain, hashed string, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("error generating reset token: %w", err)
	}

	plain = hex.EncodeToString(buf)
	return plain, HashToken(plain), nil
}
