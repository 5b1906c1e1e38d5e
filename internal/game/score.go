package game

import "fmt"

// SecretLength is the number of digits in the secret and in every guess.
const SecretLength = 4

// WinningScore is the formatted score that ends the game.
const WinningScore = "4A0B"

// Score computes 1A2B feedback for a guess against a secret. Bulls counts
// positions where the guess digit equals the secret digit; cows counts guess
// digits that exist in the secret at a different position, with each secret
// digit consumed at most once so repeated digits are never double-counted.
// Both inputs must be exactly SecretLength digit characters; the caller
// validates before scoring.
func Score(secret, guess string) (bulls, cows int) {
	var counts [10]int

	// First pass: exact matches, plus digit counts for the rest of the secret.
	for i := 0; i < SecretLength; i++ {
		if guess[i] == secret[i] {
			bulls++
			continue
		}
		counts[secret[i]-'0']++
	}

	// Second pass: consume the remaining secret digits for misplaced matches.
	for i := 0; i < SecretLength; i++ {
		if guess[i] == secret[i] {
			continue
		}
		d := guess[i] - '0'
		if counts[d] > 0 {
			cows++
			counts[d]--
		}
	}

	return bulls, cows
}

// FormatScore - renders a score pair as the wire string, e.g. "2A1B".
func FormatScore(bulls, cows int) string {
	return fmt.Sprintf("%dA%dB", bulls, cows)
}

// ValidGuess reports whether s is exactly SecretLength ASCII digits.
func ValidGuess(s string) bool {
	if len(s) != SecretLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
