package game

import "math/rand"

// NewSecret generates a fresh 4-digit secret. Digits are drawn independently,
// so repeats are allowed.
func NewSecret() string {
	b := make([]byte, SecretLength)
	for i := range b {
		b[i] = byte('0' + rand.Intn(10))
	}
	return string(b)
}
