package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor for API-key hashes.
const BcryptCost = 12

// HashAPIKey hashes an API key for storage in configuration.
func HashAPIKey(key string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyAPIKey reports whether key matches the stored bcrypt hash.
// bcrypt comparison is constant time.
func VerifyAPIKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
