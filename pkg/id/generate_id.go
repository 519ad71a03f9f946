package id

import (
	"crypto/rand"
	"encoding/hex"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewCode returns n characters drawn uniformly from [A-Z0-9].
// Uniqueness is not guaranteed.
func NewCode(n int) string {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		_, _ = rand.Read(buf)
		for _, c := range buf {
			// 252 = 7*36; bytes above it would skew the first symbols
			if c >= 252 {
				continue
			}
			out = append(out, codeAlphabet[int(c)%len(codeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out)
}
