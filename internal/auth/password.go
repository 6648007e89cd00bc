package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the reference deployment hashed
// its bootstrap credentials with.
const bcryptCost = 10

// HashPassword derives a salted one-way hash of a plaintext password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash verifies a plaintext password against a stored hash.
// The underlying comparison is constant time.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
