package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/mychatbot/internal"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{EnvStorage, EnvBackend, EnvExportDir, EnvTimezone} {
		t.Setenv(env, "")
	}
	return home
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != internal.BackendSQLite {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}
	if want := filepath.Join(home, ".mychatbot", "chat.db"); cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	if want := filepath.Join(home, ".mychatbot", "exports"); cfg.Export.Dir != want {
		t.Errorf("Export.Dir = %q, want %q", cfg.Export.Dir, want)
	}
	if cfg.Sessions.NameMaxLength != 18 || !cfg.Export.Prompt {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Responder.MinDelay != time.Second || cfg.Responder.MaxDelay != 3*time.Second {
		t.Errorf("Responder = %+v", cfg.Responder)
	}
}

func TestLoad_TOMLInConfigDir(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".mychatbot", "config.toml"), `
[storage]
backend = "file"

[sessions]
name_max_length = 24

[responder]
min_delay = "10ms"
max_delay = "20ms"

[export]
timezone = "UTC"
prompt = false
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Path != filepath.Join(home, ".mychatbot", "sessions") {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Sessions.NameMaxLength != 24 {
		t.Errorf("NameMaxLength = %d", cfg.Sessions.NameMaxLength)
	}
	if cfg.Responder.MinDelay != 10*time.Millisecond || cfg.Responder.MaxDelay != 20*time.Millisecond {
		t.Errorf("Responder = %+v", cfg.Responder)
	}
	if cfg.Export.Prompt {
		t.Error("Export.Prompt should be false")
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoad_ExplicitYAML(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, path, `
storage:
  backend: memory
export:
  dir: ~/out
responder:
  min_delay: 0s
  max_delay: 0s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != internal.BackendMemory || cfg.Storage.Path != "" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	home, _ := os.UserHomeDir()
	if cfg.Export.Dir != filepath.Join(home, "out") {
		t.Errorf("Export.Dir = %q, want ~ expanded", cfg.Export.Dir)
	}
	if cfg.Responder.MaxDelay != 0 {
		t.Errorf("MaxDelay = %v", cfg.Responder.MaxDelay)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolateHome(t)
	writeConfig(t, filepath.Join(home, ".mychatbot", "config.toml"), "[storage]\nbackend = \"file\"\n")
	t.Setenv(EnvBackend, "sqlite")
	t.Setenv(EnvStorage, "/tmp/other.db")
	t.Setenv(EnvExportDir, "/tmp/exports")
	t.Setenv(EnvTimezone, "UTC")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/other.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Export.Dir != "/tmp/exports" || cfg.Export.Timezone != "UTC" {
		t.Errorf("Export = %+v", cfg.Export)
	}
}

func TestLoad_OverridesBeatEnv(t *testing.T) {
	home := isolateHome(t)
	t.Setenv(EnvBackend, "sqlite")

	cfg, err := Load("", func(c *Config) { c.Storage.Backend = internal.BackendFile })
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != internal.BackendFile {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if want := filepath.Join(home, ".mychatbot", "sessions"); cfg.Storage.Path != want {
		t.Errorf("Path = %q, want %q", cfg.Storage.Path, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "c.toml", "[storage\nbackend="},
		{"unknown toml key", "c.toml", "[storage]\ndriver = \"x\"\n"},
		{"unknown yaml key", "c.yaml", "storage:\n  driver: x\n"},
		{"invalid backend", "c.toml", "[storage]\nbackend = \"redis\"\n"},
		{"delays reversed", "c.toml", "[responder]\nmin_delay = \"3s\"\nmax_delay = \"1s\"\n"},
		{"tiny name limit", "c.yaml", "sessions:\n  name_max_length: 2\n"},
		{"unknown timezone", "c.yaml", "export:\n  timezone: Mars/Olympus\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateHome(t)
			path := filepath.Join(t.TempDir(), tt.file)
			writeConfig(t, path, tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load() expected error for %s", tt.name)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolateHome(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	var parseErr *internal.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Load() error = %v, want ParseError", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.Sessions.NameMaxLength = 0
	cfg.Responder.MinDelay = -time.Second

	err := cfg.Validate()
	var errs ValidateErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Validate() error = %v, want ValidateErrors", err)
	}
	if len(errs) != 3 {
		t.Errorf("got %d validation errors, want 3: %v", len(errs), errs)
	}
}
