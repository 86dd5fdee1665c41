// Package id issues the opaque 32-hex identifiers used for request ids.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns exactly 32 lowercase hex characters (no separators/prefixes).
func NewID32() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("id: crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}

// IsID32 reports whether s has the NewID32 shape.
func IsID32(s string) bool { return reID32.MatchString(s) }
