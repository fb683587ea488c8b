// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/jeranaias/pdfchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete pdfchat configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Upload  UploadConfig  `toml:"upload"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// BackendConfig locates the question-answering service.
type BackendConfig struct {
	// URL is the service root, e.g. http://127.0.0.1:8000.
	URL string `toml:"url"`

	// Timeout bounds each request. Zero disables the client timeout.
	Timeout Duration `toml:"timeout"`

	UserAgent string `toml:"user_agent"`
}

// UploadConfig controls which documents may be selected for upload.
type UploadConfig struct {
	MaxBytes      int64    `toml:"max_bytes"`
	Extensions    []string `toml:"extensions"`
	WatchDebounce Duration `toml:"watch_debounce"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// Markdown renders assistant answers through glamour.
	Markdown       bool `toml:"markdown"`
	WordWrap       int  `toml:"word_wrap"`
	ShowTimestamps bool `toml:"show_timestamps"`
}

// LogConfig controls the structured log.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`

	// Console also writes log lines to stderr. Off by default because the
	// TUI owns the terminal.
	Console bool `toml:"console"`
}

// Duration is a time.Duration written as a string such as "500ms" in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default upload limit.
const DefaultMaxBytes = 50 << 20

// Default returns a configuration with all defaults applied.
func Default() *Config {
	logPath := "pdfchat.log"
	if dir, err := ConfigDir(); err == nil {
		logPath = filepath.Join(dir, "pdfchat.log")
	}

	return &Config{
		Backend: BackendConfig{
			URL:       "http://127.0.0.1:8000",
			UserAgent: "pdfchat/0.1",
		},
		Upload: UploadConfig{
			MaxBytes:      DefaultMaxBytes,
			Extensions:    []string{".pdf"},
			WatchDebounce: Duration{500 * time.Millisecond},
		},
		UI: UIConfig{
			Markdown: true,
			WordWrap: 100,
		},
		Log: LogConfig{
			Path:  logPath,
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the pdfchat configuration directory. PDFCHAT_HOME
// overrides the default of ~/.pdfchat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PDFCHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".pdfchat"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory when one exists. Values
// already present in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return errors.Wrap(godotenv.Load(".env"), "load .env")
}

// Load reads the default config file, falling back to defaults when it does
// not exist. Environment overrides are applied before validation.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid config")
		}
		return cfg, nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file. Keys missing
// from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes cfg as TOML to path with owner-only permissions.
func SaveTo(cfg *Config, path string) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	return errors.Wrap(util.AtomicWriteFile(path, data, 0o600), "failed to write config file")
}

// Encode renders cfg as a commented TOML document.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# pdfchat configuration file\n")
	buf.WriteString("# Environment variables PDFCHAT_BACKEND_URL, PDFCHAT_TIMEOUT,\n")
	buf.WriteString("# PDFCHAT_LOG_LEVEL and PDFCHAT_LOG_PATH override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every setting and reports all problems together as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Backend.URL),
		})
	}
	if c.Backend.Timeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout", Message: "must not be negative"})
	}

	if c.Upload.MaxBytes < 0 {
		errs = append(errs, ValidationError{Field: "upload.max_bytes", Message: "must not be negative"})
	}
	for _, ext := range c.Upload.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, ValidationError{
				Field:   "upload.extensions",
				Message: fmt.Sprintf("'%s' must start with a dot", ext),
			})
		}
	}
	if c.Upload.WatchDebounce.Duration < 0 {
		errs = append(errs, ValidationError{Field: "upload.watch_debounce", Message: "must not be negative"})
	}

	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must not be negative"})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PDFCHAT_BACKEND_URL: overrides backend.url
//   - PDFCHAT_TIMEOUT: overrides backend.timeout (e.g. "30s")
//   - PDFCHAT_LOG_LEVEL: overrides log.level
//   - PDFCHAT_LOG_PATH: overrides log.path
//
// An unparsable PDFCHAT_TIMEOUT is ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("PDFCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("PDFCHAT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("PDFCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PDFCHAT_LOG_PATH"); v != "" {
		c.Log.Path = v
	}
}

// String renders the config as TOML for display.
func (c *Config) String() string {
	data, err := c.Encode()
	if err != nil {
		return err.Error()
	}
	return string(data)
}
