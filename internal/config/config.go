// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrNoEndpoint is returned by Validate when no GraphQL endpoint is set.
var ErrNoEndpoint = errors.New("no GraphQL endpoint configured")

// Default values.
const (
	DefaultSecretHeader = "x-hasura-admin-secret"
	DefaultTimeout      = 10 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultTheme        = "classic"
	DefaultHome         = "~/.checklist"
	ConfigFileName      = "config.toml"
	ProjectFileName     = "checklist.toml"
)

// Config holds the full configuration for checklist.
type Config struct {
	// Remote store
	Endpoint     string        `toml:"endpoint"`
	SecretHeader string        `toml:"secret_header"`
	TimeoutRaw   string        `toml:"timeout"`
	Timeout      time.Duration `toml:"-"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// Output
	Theme string `toml:"theme"`

	// Home holds credentials and the user config file (computed).
	Home string `toml:"-"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.checklist/config.toml)
// 3. Project config file (checklist.toml or .checklist.toml in the current directory)
// 4. Environment variables
// 5. CLI flags
//
// CHECKLIST_CONFIG names a single file that replaces steps 2 and 3.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	for _, path := range configFiles() {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

// Validate reports missing settings needed to reach the remote store.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrNoEndpoint
	}
	return nil
}

// CredentialsPath is where the admin secret is stored.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.Home, "credentials.json")
}

func setDefaults(cfg *Config) {
	cfg.SecretHeader = DefaultSecretHeader
	cfg.TimeoutRaw = DefaultTimeout.String()
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Theme = DefaultTheme
	cfg.Home = DefaultHome
}

func configFiles() []string {
	if p := os.Getenv("CHECKLIST_CONFIG"); p != "" {
		return []string{expandPath(p)}
	}
	var files []string
	if p := findUserConfigFile(); p != "" {
		files = append(files, p)
	}
	if p := findProjectConfigFile(); p != "" {
		files = append(files, p)
	}
	return files
}

func findUserConfigFile() string {
	home := DefaultHome
	if v := os.Getenv("CHECKLIST_HOME"); v != "" {
		home = v
	}
	p := filepath.Join(expandPath(home), ConfigFileName)
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{ProjectFileName, "." + ProjectFileName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("CHECKLIST_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CHECKLIST_SECRET_HEADER"); v != "" {
		cfg.SecretHeader = v
	}
	if v := os.Getenv("CHECKLIST_TIMEOUT"); v != "" {
		cfg.TimeoutRaw = v
	}
	if v := os.Getenv("CHECKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CHECKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CHECKLIST_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CHECKLIST_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("CHECKLIST_HOME"); v != "" {
		cfg.Home = v
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("checklist", flag.ContinueOnError)
	}
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "GraphQL endpoint URL")
	fs.StringVar(&cfg.SecretHeader, "secret-header", cfg.SecretHeader, "Header carrying the admin secret")
	fs.StringVar(&cfg.TimeoutRaw, "timeout", cfg.TimeoutRaw, "Request timeout (e.g. 10s)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme (classic, neon, mono)")
	return fs.Parse(args)
}

func finalizeConfig(cfg *Config) error {
	d, err := time.ParseDuration(strings.TrimSpace(cfg.TimeoutRaw))
	if err != nil {
		return fmt.Errorf("timeout %q: %w", cfg.TimeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", d)
	}
	cfg.Timeout = d
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Home = expandPath(cfg.Home)
	cfg.LogFile = expandPath(cfg.LogFile)
	return nil
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
