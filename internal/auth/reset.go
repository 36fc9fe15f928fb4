package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetSecret generates a password-reset secret and the digest to store.
// Only the digest is ever persisted; the plaintext secret goes out of band to
// the account's email. The secret carries its own entropy, so a plain
// deterministic digest is sufficient here (this is not a password hash).
func NewResetSecret() (secret, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, HashResetSecret(secret), nil
}

// HashResetSecret maps a presented secret to its stored digest.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
