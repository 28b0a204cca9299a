// Package cryptox contains the password hashing primitives. Argon2id is
// treated as an opaque verified primitive; parameters follow the library
// recommendations and are not tuned here.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters: time=1, memory=64MB, threads=4, 32-byte key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword hashes a password with argon2id and a fresh random salt.
// The result is encoded as "base64(salt):base64(digest)" and is the only
// form in which credentials are ever stored.
func HashPassword(password []byte) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := deriveKey(password, salt)
	return base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(digest), nil
}

// VerifyPassword re-derives the digest from the candidate password and the
// stored salt and compares in constant time. Malformed stored values verify
// as false rather than erroring, so login failures stay uniform.
func VerifyPassword(password []byte, stored string) bool {
	saltB64, digestB64, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(digestB64)
	if err != nil {
		return false
	}
	actual := deriveKey(password, salt)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
