package api

import (
	"errors"
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jane.doe", "jane.doe"},
		{"Jane Doe", "jane.doe"},
		{"  --Mary__Ann  O'Neil--", "mary.ann.o.neil"},
		{"ÅÄÖ", "user"},
		{"", "user"},
		{strings.Repeat("ab", 20), strings.Repeat("ab", 15)},
		{strings.Repeat("a", 29) + "-b", strings.Repeat("a", 29)},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		username, email, name, want string
	}{
		{"keep.me", "x@y.z", "N", "keep.me"},
		{"", "Jane.Doe@x.com", "Other", "jane.doe"},
		{"", "", "John Librarian", "john.librarian"},
		{"", "not-an-email", "", "user"},
	}
	for _, tt := range tests {
		if got := DeriveUsername(tt.username, tt.email, tt.name); got != tt.want {
			t.Errorf("DeriveUsername(%q, %q, %q) = %q, want %q", tt.username, tt.email, tt.name, got, tt.want)
		}
	}
}

func TestTempPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := TempPassword()
		if len(p) != 10 {
			t.Fatalf("len = %d", len(p))
		}
		for _, r := range p {
			if !strings.ContainsRune(passwordAlphabet, r) {
				t.Fatalf("unexpected rune %q in %q", r, p)
			}
		}
		seen[p] = true
	}
	if len(seen) < 2 {
		t.Error("passwords are not random")
	}
}

func TestTempPassword_FallbackSource(t *testing.T) {
	orig := randIndex
	t.Cleanup(func() { randIndex = orig })
	randIndex = func(int) (int, error) { return 0, errors.New("no entropy") }

	if p := TempPassword(); len(p) != 10 {
		t.Errorf("fallback password %q", p)
	}
}

func TestBackendMessage(t *testing.T) {
	tests := []struct {
		body, want string
	}{
		{`{"message":" spaced "}`, "spaced"},
		{`{"message":["a",3,"b"]}`, "a; b"},
		{`{"message":{"nested":true}}`, ""},
		{`garbage`, ""},
	}
	for _, tt := range tests {
		if got := backendMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("backendMessage(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
