package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ActivationLength is the number of characters in an account activation token.
const ActivationLength = 60

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewActivationToken returns a cryptographically random alphanumeric token of
// ActivationLength characters.
func NewActivationToken() (string, error) {
	return Random(ActivationLength)
}

// Random returns n characters drawn uniformly from [a-zA-Z0-9].
func Random(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}
