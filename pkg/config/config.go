// Package config loads and validates the offerd configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/offerdesk/offerd/pkg/store"
)

// RoleAdministrator is the role required by every offer endpoint.
// Authentication alone is not enough; see the session middleware.
const RoleAdministrator = "administrator"

// Default server settings.
const (
	DefaultPort       = 4380
	DefaultSessionTTL = 12 * time.Hour
)

// User is an account allowed to log in to the admin panel.
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// Session holds session cookie settings.
type Session struct {
	// Secret signs session cookies. When empty a random secret is
	// generated at startup and sessions do not survive restarts.
	Secret string `yaml:"secret"`

	// TTL is the session lifetime as a Go duration string, e.g. "12h".
	TTL string `yaml:"ttl"`
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full offerd configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// DataDir overrides the XDG default data directory.
	DataDir string `yaml:"dataDir"`

	// NoPersist serves from an in-memory store (nothing written to disk).
	NoPersist bool `yaml:"noPersist"`

	Users   []User  `yaml:"users"`
	Session Session `yaml:"session"`
	Log     Log     `yaml:"log"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Port:    DefaultPort,
		DataDir: store.DefaultDataDir(),
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML configuration file and merges it over the defaults.
// A missing path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.DataDir == "" {
		cfg.DataDir = store.DefaultDataDir()
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	seen := make(map[string]bool)
	for _, u := range c.Users {
		if u.Username == "" {
			return fmt.Errorf("user with empty username")
		}
		if u.Password == "" {
			return fmt.Errorf("user %q has no password", u.Username)
		}
		if seen[u.Username] {
			return fmt.Errorf("duplicate user %q", u.Username)
		}
		seen[u.Username] = true
	}
	if c.Session.TTL != "" {
		if _, err := time.ParseDuration(c.Session.TTL); err != nil {
			return fmt.Errorf("invalid session ttl %q: %w", c.Session.TTL, err)
		}
	}
	return nil
}

// SessionTTL returns the configured session lifetime, or the default.
func (c Config) SessionTTL() time.Duration {
	if c.Session.TTL == "" {
		return DefaultSessionTTL
	}
	d, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return DefaultSessionTTL
	}
	return d
}

// FindUser returns the user with the given username, if configured.
func (c Config) FindUser(username string) (User, bool) {
	for _, u := range c.Users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}
