// Package password provides one-way hashing and verification of user passwords.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt hash of plaintext. The output embeds a random salt,
// so hashing the same password twice yields different strings.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the given bcrypt hash.
// A malformed hash verifies false rather than erroring.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
