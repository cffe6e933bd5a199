package multipart

import (
	"crypto/rand"
	"fmt"
)

// NewBoundary returns a random boundary value suitable for use as the
// "boundary" parameter of a multipart Content-Type: 32 hex characters (16
// random bytes), drawn from a character class that never needs escaping in
// a Content-Type parameter value.
func NewBoundary() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}
