package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/libconsole/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		API:     config.APIConfig{BaseURL: "https://api.example.com", Timeout: time.Second},
		Session: config.SessionConfig{TokenFile: "/tmp/session.yml"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing base url", func(c *config.Config) { c.API.BaseURL = "" }, "base_url is required"},
		{"relative base url", func(c *config.Config) { c.API.BaseURL = "api/v1" }, "not an absolute URL"},
		{"bad scheme", func(c *config.Config) { c.API.BaseURL = "ftp://host" }, "scheme"},
		{"negative timeout", func(c *config.Config) { c.API.Timeout = -time.Second }, "timeout"},
		{"negative loan days", func(c *config.Config) { c.Defaults.LoanDays = -1 }, "loan_days"},
		{"missing token file", func(c *config.Config) { c.Session.TokenFile = "" }, "token_file"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want substring %q", err, tc.want)
			}
		})
	}
}

func TestEffectiveLoanDays(t *testing.T) {
	if got := (config.DefaultsConfig{}).EffectiveLoanDays(); got != 14 {
		t.Errorf("EffectiveLoanDays() = %d, want 14", got)
	}
	if got := (config.DefaultsConfig{LoanDays: 21}).EffectiveLoanDays(); got != 21 {
		t.Errorf("EffectiveLoanDays() = %d, want 21", got)
	}
}

func TestEffectiveDebounce(t *testing.T) {
	if got := (config.ConsoleConfig{}).EffectiveDebounce(); got != 300*time.Millisecond {
		t.Errorf("EffectiveDebounce() = %v, want 300ms", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, config.DefaultBaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if !cfg.Demo.Fallback {
		t.Error("demo fallback should default to true")
	}
	if !strings.HasSuffix(cfg.Session.TokenFile, "session.yml") {
		t.Errorf("TokenFile = %q, want suffix session.yml", cfg.Session.TokenFile)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	in := validConfig()
	in.API.BaseURL = "http://localhost:3000/"
	in.Defaults.LoanDays = 7
	in.Console.Debounce = 500 * time.Millisecond
	if err := config.Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.API.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", out.API.BaseURL)
	}
	if out.Defaults.LoanDays != 7 {
		t.Errorf("LoanDays = %d, want 7", out.Defaults.LoanDays)
	}
	if out.Console.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", out.Console.Debounce)
	}
	if out.Demo.Fallback {
		t.Error("explicit demo.fallback=false should survive the round trip")
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: \"not a url\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected error for invalid base_url")
	}
}

func TestDefaultPath(t *testing.T) {
	p := config.DefaultPath()
	if !strings.HasSuffix(p, filepath.Join("libconsole", "config.yml")) {
		t.Errorf("DefaultPath = %q, should end with libconsole/config.yml", p)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	cases := []struct{ in, want string }{
		{"~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, c := range cases {
		if got := config.ExpandHome(c.in); got != c.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
