package translate

import (
	"crypto/rand"
	"sync"
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const saltLength = 6

var (
	sessionSaltOnce sync.Once
	sessionSalt     string
)

// SessionSalt returns the process-wide random alphanumeric suffix used
// to disambiguate emulated temp-table names across concurrent callers
// sharing a temp-emulation schema. It is generated lazily on first use
// with crypto/rand and is stable for the lifetime of the process.
func SessionSalt() string {
	sessionSaltOnce.Do(func() {
		sessionSalt = generateSalt()
	})
	return sessionSalt
}

func generateSalt() string {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a supported platform does not fail; if it
		// somehow does, fall back to a fixed, clearly-non-random salt
		// rather than panicking mid-translation.
		return "aaaaaa"
	}
	out := make([]byte, saltLength)
	for i, b := range buf {
		out[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(out)
}
