// Package config loads mychatbot settings.
//
// Configuration is loaded from (later wins):
//   - Built-in defaults
//   - ~/.mychatbot/config.toml, or ~/.mychatbot/config.yaml when no TOML file
//     exists, or an explicit --config path (format chosen by extension)
//   - Environment variables (MYCHATBOT_*)
//   - Command-line flags, applied by the caller
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/mychatbot/internal"
)

// Environment variables read by ApplyEnvOverrides
const (
	EnvStorage   = "MYCHATBOT_STORAGE"
	EnvBackend   = "MYCHATBOT_BACKEND"
	EnvExportDir = "MYCHATBOT_EXPORT_DIR"
	EnvTimezone  = "MYCHATBOT_TZ"
)

// Config is the complete mychatbot configuration
type Config struct {
	Storage   StorageConfig   `toml:"storage" yaml:"storage"`
	Sessions  SessionsConfig  `toml:"sessions" yaml:"sessions"`
	Responder ResponderConfig `toml:"responder" yaml:"responder"`
	Export    ExportConfig    `toml:"export" yaml:"export"`
}

// StorageConfig selects where sessions are persisted
type StorageConfig struct {
	// Backend is "sqlite", "file" or "memory"
	Backend string `toml:"backend" yaml:"backend"`
	// Path is the database file (sqlite) or directory (file). Empty means a
	// default under the config directory.
	Path string `toml:"path" yaml:"path"`
}

// SessionsConfig controls session naming
type SessionsConfig struct {
	NameMaxLength int `toml:"name_max_length" yaml:"name_max_length"`
}

// ResponderConfig bounds the simulated reply delay
type ResponderConfig struct {
	MinDelay time.Duration `toml:"min_delay" yaml:"min_delay"`
	MaxDelay time.Duration `toml:"max_delay" yaml:"max_delay"`
}

// ExportConfig controls where exports go and how dates are shown
type ExportConfig struct {
	// Dir receives fallback downloads
	Dir string `toml:"dir" yaml:"dir"`
	// Timezone is an IANA name; empty means the system zone
	Timezone string `toml:"timezone" yaml:"timezone"`
	// Prompt enables the interactive save dialog when available
	Prompt bool `toml:"prompt" yaml:"prompt"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Storage:   StorageConfig{Backend: internal.BackendSQLite},
		Sessions:  SessionsConfig{NameMaxLength: internal.DefaultNameMaxLength},
		Responder: ResponderConfig{MinDelay: time.Second, MaxDelay: 3 * time.Second},
		Export:    ExportConfig{Prompt: true},
	}
}

// Dir returns the mychatbot configuration and data directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mychatbot"), nil
}

// Load reads the configuration. An empty path looks for config.toml, then
// config.yaml, in Dir; a missing file there is not an error. Overrides run
// after the environment and before defaults are filled in, so command-line
// flags take precedence over everything else.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	} else if dir, err := Dir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			candidate := filepath.Join(dir, name)
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			if err := loadFile(cfg, candidate); err != nil {
				return nil, err
			}
			internal.LogDebug("Loaded config from %s", candidate)
			break
		}
	}

	cfg.ApplyEnvOverrides()
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &internal.ParseError{Source: "config", Key: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return &internal.ParseError{Source: "config", Key: path, Err: err}
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return &internal.ParseError{Source: "config", Key: path, Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return &internal.ParseError{Source: "config", Key: path, Err: fmt.Errorf("unknown keys: %v", undecoded)}
		}
	}
	return nil
}

// ApplyEnvOverrides applies MYCHATBOT_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvExportDir); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Export.Timezone = v
	}
}

// SetDefaults fills empty paths and expands a leading ~
func (c *Config) SetDefaults() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = internal.BackendSQLite
	}

	needsDir := c.Storage.Path == "" && c.Storage.Backend != internal.BackendMemory
	if needsDir || c.Export.Dir == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if needsDir {
			c.Storage.Path = filepath.Join(dir, defaultStorageName(c.Storage.Backend))
		}
		if c.Export.Dir == "" {
			c.Export.Dir = filepath.Join(dir, "exports")
		}
	}

	var err error
	if c.Storage.Path, err = expandHome(c.Storage.Path); err != nil {
		return err
	}
	if c.Export.Dir, err = expandHome(c.Export.Dir); err != nil {
		return err
	}
	return nil
}

func defaultStorageName(backend string) string {
	if backend == internal.BackendFile {
		return "sessions"
	}
	return "chat.db"
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ValidationError is a single invalid setting
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Storage.Backend {
	case internal.BackendSQLite, internal.BackendFile, internal.BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: sqlite, file, memory", c.Storage.Backend),
		})
	}

	if c.Sessions.NameMaxLength < 4 {
		errs = append(errs, ValidationError{
			Field:   "sessions.name_max_length",
			Message: fmt.Sprintf("must be at least 4, got %d", c.Sessions.NameMaxLength),
		})
	}

	if c.Responder.MinDelay < 0 {
		errs = append(errs, ValidationError{Field: "responder.min_delay", Message: "must not be negative"})
	}
	if c.Responder.MaxDelay < c.Responder.MinDelay {
		errs = append(errs, ValidationError{
			Field:   "responder.max_delay",
			Message: fmt.Sprintf("%s is shorter than min_delay %s", c.Responder.MaxDelay, c.Responder.MinDelay),
		})
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, ValidationError{Field: "export.timezone", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Location resolves Export.Timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Export.Timezone == "" || strings.EqualFold(c.Export.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Export.Timezone)
}
