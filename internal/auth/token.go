package auth

import (
	"crypto/rand"
	"math/big"
)

// ActionTokenLength is the length of confirmation and password-reset codes.
const ActionTokenLength = 6

// GenerateActionToken produces a random 6-digit numeric code used for
// account confirmation and password reset. Pure generation, no side effects.
// Codes are short enough to type from an email, so uniqueness is best-effort
// rather than guaranteed.
func GenerateActionToken() string {
	const digits = "0123456789"

	buf := make([]byte, ActionTokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand only fails if the platform's entropy source is
			// broken, at which point serving requests is hopeless anyway.
			panic(err)
		}
		buf[i] = digits[n.Int64()]
	}
	return string(buf)
}
