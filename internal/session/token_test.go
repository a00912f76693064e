package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/libconsole/internal/session"
)

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.yml")
	store := session.NewFileTokenStore(path)

	if got := store.Token(); got != "" {
		t.Errorf("empty store Token = %q", got)
	}
	if err := store.SetToken("abc.def.ghi"); err != nil {
		t.Fatal(err)
	}
	if got := store.Token(); got != "abc.def.ghi" {
		t.Errorf("Token = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "auth_token: abc.def.ghi") {
		t.Errorf("file = %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	// A second store on the same file sees the clear immediately.
	other := session.NewFileTokenStore(path)
	if err := other.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := store.Token(); got != "" {
		t.Errorf("Token after clear = %q", got)
	}
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file: %v", err)
	}
}

func TestFileTokenStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yml")
	if err := os.WriteFile(path, []byte("auth_token: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := session.NewFileTokenStore(path).Token(); got != "" {
		t.Errorf("corrupt file Token = %q", got)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	var m session.MemoryTokenStore
	_ = m.SetToken("x")
	if m.Token() != "x" {
		t.Error("SetToken lost")
	}
	_ = m.Clear()
	if m.Token() != "" {
		t.Error("Clear kept token")
	}
}
