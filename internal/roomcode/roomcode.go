package roomcode

import (
	"math/rand"
	"strings"
)

// Alphabet excludes 0/O and 1/I so codes survive being read aloud or
// scribbled on a whiteboard.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length of every generated room code.
const Length = 5

// Generate returns a random room code. Uniqueness is the store's
// problem; callers retry on collision.
func Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[rand.Intn(len(Alphabet))])
	}
	return b.String()
}

// Normalize uppercases user input so join codes are case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the right length and alphabet.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
