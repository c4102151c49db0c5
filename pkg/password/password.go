package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost is tuned for interactive login latency, not bulk verification.
const Cost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	return string(bytes), err
}

// CheckPasswordHash fails closed: any comparison error is a verification
// failure, never a success.
func CheckPasswordHash(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
