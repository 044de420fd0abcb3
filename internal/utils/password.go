package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of the admin secret.  Hashing at
// startup keeps the cleartext out of every comparison site and out of
// the logs.
func HashSecret(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

// VerifySecret safely compares a bcrypt hash and a supplied secret.
func VerifySecret(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
