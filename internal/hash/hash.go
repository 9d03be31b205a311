package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently truncates input beyond 72 bytes; longer secrets are
// pre-hashed with SHA-256 so the whole secret contributes to the digest.
const bcryptMaxLen = 72

func preHash(secret string) string {
	if len(secret) > bcryptMaxLen {
		sum := sha256.Sum256([]byte(secret))
		return hex.EncodeToString(sum[:])
	}
	return secret
}

// Password returns a salted bcrypt hash of the secret.
func Password(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(preHash(secret)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether secret matches the stored hash. A malformed hash is
// treated as a mismatch, never an error.
func Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(preHash(secret))) == nil
}

// NormalizeAnswer canonicalizes a security answer before hashing or
// verification: answers differing only in case or surrounding whitespace
// must compare equal.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Answer hashes a security answer in its normalized form.
func Answer(answer string) (string, error) {
	return Password(NormalizeAnswer(answer))
}

// VerifyAnswer verifies a security answer against a hash created by Answer.
func VerifyAnswer(answer, hashed string) bool {
	return Verify(NormalizeAnswer(answer), hashed)
}
