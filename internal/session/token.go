package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenStore is the single durable slot holding the bearer token.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

type tokenFile struct {
	AuthToken string `yaml:"auth_token"`
}

// FileTokenStore keeps the token in a small YAML file. Every read goes to
// disk so a logout from another process is seen on the next request.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore returns a store backed by path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Path returns the backing file.
func (f *FileTokenStore) Path() string { return f.path }

// Token returns the stored token, or "" when none is stored or the file is
// unreadable.
func (f *FileTokenStore) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		return ""
	}
	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return ""
	}
	return strings.TrimSpace(tf.AuthToken)
}

// SetToken writes the token with owner-only permissions.
func (f *FileTokenStore) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := yaml.Marshal(tokenFile{AuthToken: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *FileTokenStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// MemoryTokenStore holds the token in memory.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryTokenStore) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	return m.SetToken("")
}
