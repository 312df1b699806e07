package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash. The salt is generated per
// call, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a password against a stored bcrypt hash.
// A malformed hash verifies as false rather than propagating an error.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
