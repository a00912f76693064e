package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend the console talks to when nothing else is configured.
const DefaultBaseURL = "https://back-end-for-assessment.vercel.app"

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "libconsole", "config.yml")
}

// Load reads the config from disk (or env). A missing file yields defaults.
// path overrides the file location; empty means $LIBCONSOLE_CONFIG or DefaultPath.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("session.token_file", defaultTokenFile())
	v.SetDefault("defaults.loan_days", 14)
	v.SetDefault("console.debounce", 300*time.Millisecond)
	v.SetDefault("demo.fallback", true)

	v.SetEnvPrefix("LIBCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("LIBCONSOLE_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.Session.TokenFile = ExpandHome(cfg.Session.TokenFile)
	cfg.Demo.File = ExpandHome(cfg.Demo.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to path, or DefaultPath when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultTokenFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "libconsole", "session.yml")
}
