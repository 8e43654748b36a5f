package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const saltBytes = 16

// NewSalt returns 32 hex characters of randomness.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// salted pre-hashes so long passwords stay under bcrypt's 72 byte limit.
func salted(password, salt string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	return []byte(hex.EncodeToString(sum[:]))
}

func HashPassword(password, salt string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword(salted(password, salt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func CheckPassword(hash, password, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), salted(password, salt)) == nil
}
