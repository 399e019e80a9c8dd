package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// newRememberToken mints an opaque long-lived token. The cookie value is the
// one-way hash of a fresh UUID, so it carries no recoverable information.
func newRememberToken() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

// newResetToken mints a single-use password reset token from 32 random bytes.
func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
