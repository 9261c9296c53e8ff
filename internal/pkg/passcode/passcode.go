package passcode

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphabets for the dictation pattern. Consonants exclude vowels so the
// pattern never accidentally spells a word.
const (
	consonants = "bcdfghjklmnpqrstvwxz"
	vowels     = "aeiouy"
	digits     = "0123456789"
)

// Generator produces a fresh one-time passcode.
type Generator interface {
	// Generate returns a new passcode or an error if the random source fails.
	Generate() (string, error)
}

// Dictation generates a 5-character code with the fixed pattern
// consonant, vowel, same consonant, digit, same digit (e.g. "momo" style
// "bab77"). Repeating the consonant and the digit makes the code easier to
// dictate and transcribe. Output is lowercase with no whitespace.
type Dictation struct{}

// NewDictation returns a Dictation generator.
func NewDictation() *Dictation {
	return &Dictation{}
}

// Generate returns a new dictation-pattern passcode.
func (g *Dictation) Generate() (string, error) {
	consonant, err := randChar(consonants)
	if err != nil {
		return "", err
	}

	vowel, err := randChar(vowels)
	if err != nil {
		return "", err
	}

	digit, err := randChar(digits)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(5)
	sb.WriteByte(consonant)
	sb.WriteByte(vowel)
	sb.WriteByte(consonant)
	sb.WriteByte(digit)
	sb.WriteByte(digit)

	return sb.String(), nil
}

// Numeric generates codes of n uniform random digits for deployments that
// want the configured code length honored instead of the dictation pattern.
type Numeric struct {
	length int
}

// NewNumeric returns a Numeric generator of the given length. Lengths
// outside 4..10 fall back to 6 digits.
func NewNumeric(length int) *Numeric {
	if length < 4 || length > 10 {
		length = 6
	}
	return &Numeric{length: length}
}

// Generate returns a new numeric passcode.
func (g *Numeric) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(g.length)

	for i := 0; i < g.length; i++ {
		c, err := randChar(digits)
		if err != nil {
			return "", err
		}
		sb.WriteByte(c)
	}

	return sb.String(), nil
}

func randChar(alphabet string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[idx.Int64()], nil
}
