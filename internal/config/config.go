// Package config holds shipdesk runtime configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session persistence backends.
const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendMemory = "memory"
)

// Config holds configuration for the dashboard server and the CLI.
type Config struct {
	Addr      string `yaml:"addr"`       // Listen address (default "127.0.0.1:8080")
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	DataDir   string `yaml:"data_dir"`   // default ~/.shipdesk

	// SessionBackend selects where the session is persisted: file, sqlite or memory.
	SessionBackend string `yaml:"session_backend"`

	// Host overrides the hostname used to pick the API base URL. Empty means
	// the host part of Addr.
	Host string `yaml:"host"`

	// APIBaseURL bypasses the hostname table when set.
	APIBaseURL string `yaml:"api_base_url"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedHosts are extra Host header names the dashboard answers to,
	// besides Host, the host part of Addr, and loopback names.
	AllowedHosts []string `yaml:"allowed_hosts"`

	// LoginRate is login attempts per second per client IP; LoginBurst the bucket size.
	LoginRate  float64 `yaml:"login_rate"`
	LoginBurst int     `yaml:"login_burst"`

	MaxImportBytes int64 `yaml:"max_import_bytes"`

	Archive ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig configures the optional S3 copy of imported CSV files.
type ArchiveConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // S3-compatible endpoint; empty for AWS
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Enabled reports whether archiving is configured.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		LogLevel:       "info",
		LogFormat:      "text",
		SessionBackend: SessionBackendFile,
		AllowedOrigins: []string{"http://localhost:5173"},
		LoginRate:      0.2,
		LoginBurst:     5,
		MaxImportBytes: 10 << 20,
		Archive:        ArchiveConfig{Prefix: "imports", Region: "ap-northeast-1"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then a .env file in the working directory, then SHIPDESK_* variables.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values.
func (c Config) Validate() error {
	switch c.SessionBackend {
	case SessionBackendFile, SessionBackendSQLite, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return errors.New("login_rate and login_burst must be positive")
	}
	if c.MaxImportBytes <= 0 {
		return errors.New("max_import_bytes must be positive")
	}
	return nil
}

// ResolveDataDir returns DataDir, defaulting to ~/.shipdesk, and creates it.
func (c Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".shipdesk")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// ServedHosts lists the lower-cased host names the dashboard accepts in the
// Host header. Wildcard listen addresses add nothing beyond loopback.
func (c Config) ServedHosts() []string {
	hosts := []string{"localhost", "127.0.0.1", "::1"}
	add := func(h string) {
		h = strings.ToLower(strings.Trim(strings.TrimSpace(h), "[]"))
		switch h {
		case "", "0.0.0.0", "::":
			return
		}
		for _, seen := range hosts {
			if seen == h {
				return
			}
		}
		hosts = append(hosts, h)
	}
	add(c.Host)
	if h, _, err := net.SplitHostPort(c.Addr); err == nil {
		add(h)
	}
	for _, h := range c.AllowedHosts {
		add(h)
	}
	return hosts
}

func applyEnv(c *Config) {
	setString(&c.Addr, "SHIPDESK_ADDR")
	setString(&c.LogLevel, "SHIPDESK_LOG_LEVEL")
	setString(&c.LogFormat, "SHIPDESK_LOG_FORMAT")
	setString(&c.DataDir, "SHIPDESK_DATA_DIR")
	setString(&c.SessionBackend, "SHIPDESK_SESSION_BACKEND")
	setString(&c.Host, "SHIPDESK_HOST")
	setString(&c.APIBaseURL, "SHIPDESK_API_BASE_URL")
	if v := strings.TrimSpace(os.Getenv("SHIPDESK_ALLOWED_HOSTS")); v != "" {
		c.AllowedHosts = parseCSV(v)
	}
	if v := strings.TrimSpace(os.Getenv("SHIPDESK_ALLOWED_ORIGINS")); v != "" {
		c.AllowedOrigins = parseCSV(v)
	}
	setString(&c.Archive.Bucket, "SHIPDESK_ARCHIVE_BUCKET")
	setString(&c.Archive.Prefix, "SHIPDESK_ARCHIVE_PREFIX")
	setString(&c.Archive.Region, "SHIPDESK_ARCHIVE_REGION")
	setString(&c.Archive.Endpoint, "SHIPDESK_ARCHIVE_ENDPOINT")
	setString(&c.Archive.AccessKeyID, "SHIPDESK_ARCHIVE_ACCESS_KEY_ID")
	setString(&c.Archive.SecretAccessKey, "SHIPDESK_ARCHIVE_SECRET_ACCESS_KEY")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
