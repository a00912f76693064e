package api

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"
)

const (
	usernameMax      = 30
	tempPasswordN    = 10
	passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randIndex is swapped in tests to exercise the fallback source.
var randIndex = func(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Slug lower-cases s, collapses runs of characters outside [a-z0-9] into a
// single ".", trims dots from both ends and caps the result at 30
// characters. An empty result becomes "user".
func Slug(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('.')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	out := b.String()
	if len(out) > usernameMax {
		out = strings.TrimRight(out[:usernameMax], ".")
	}
	if out == "" {
		return "user"
	}
	return out
}

// DeriveUsername picks the explicit username, else a slug of the email's
// local part, else a slug of the name.
func DeriveUsername(username, email, name string) string {
	if u := strings.TrimSpace(username); u != "" {
		return u
	}
	if local, _, ok := strings.Cut(strings.TrimSpace(email), "@"); ok && local != "" {
		return Slug(local)
	}
	return Slug(name)
}

// TempPassword returns a 10 character alphanumeric password from the secure
// source, falling back to math/rand when it fails.
func TempPassword() string {
	buf := make([]byte, tempPasswordN)
	for i := range buf {
		n, err := randIndex(len(passwordAlphabet))
		if err != nil {
			n = mrand.Intn(len(passwordAlphabet))
		}
		buf[i] = passwordAlphabet[n]
	}
	return string(buf)
}
