package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   string
	}{
		{name: "exact match", secret: "1234", guess: "1234", want: "4A0B"},
		{name: "two exact two misplaced", secret: "1234", guess: "1243", want: "2A2B"},
		{name: "all misplaced", secret: "1122", guess: "2211", want: "0A4B"},
		{name: "nothing in common", secret: "1234", guess: "5678", want: "0A0B"},
		{name: "repeated guess digit counted once", secret: "1234", guess: "1111", want: "1A0B"},
		{name: "repeated secret digits", secret: "1123", guess: "1211", want: "1A2B"},
		{name: "misplaced repeat limited by secret occurrences", secret: "1234", guess: "4411", want: "0A2B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bulls, cows := Score(tt.secret, tt.guess)
			require.Equal(t, tt.want, FormatScore(bulls, cows))
		})
	}
}

func TestScore_BoundedByLength(t *testing.T) {
	// Given: every pair of 2-digit-alphabet secrets and guesses
	digits := []string{"1", "2"}
	var pool []string
	for _, a := range digits {
		for _, b := range digits {
			for _, c := range digits {
				for _, d := range digits {
					pool = append(pool, a+b+c+d)
				}
			}
		}
	}

	for _, secret := range pool {
		for _, guess := range pool {
			// When: scoring
			bulls, cows := Score(secret, guess)

			// Then: the combined score never exceeds the word length,
			// and only an exact match scores 4 bulls
			require.LessOrEqual(t, bulls+cows, SecretLength)
			if secret == guess {
				assert.Equal(t, SecretLength, bulls)
			} else {
				assert.Less(t, bulls, SecretLength)
			}
		}
	}
}

func TestNewSecret(t *testing.T) {
	for i := 0; i < 100; i++ {
		secret := NewSecret()
		require.True(t, ValidGuess(secret))
	}
}

func TestValidGuess(t *testing.T) {
	assert.True(t, ValidGuess("0000"))
	assert.True(t, ValidGuess("9876"))
	assert.False(t, ValidGuess(""))
	assert.False(t, ValidGuess("123"))
	assert.False(t, ValidGuess("12345"))
	assert.False(t, ValidGuess("12a4"))
	assert.False(t, ValidGuess("12 4"))
	assert.False(t, ValidGuess("１２３４")) // full-width digits are not ASCII
}
