package common

import (
	"crypto/rand"
	"strings"
)

// GenerateRandByteArray returns n random bytes. It panics if the system
// random source fails.
func GenerateRandByteArray(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// WipeByteArray zeroes b in place.
func WipeByteArray(b []byte) {
	clear(b)
}

// IsNotFoundMessage reports whether a remote rejection message describes a
// missing record ("File not found", "Chunk not found", ...).
func IsNotFoundMessage(msg string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(msg)), ErrorNotFound.Error())
}
