package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/mychatbot/internal/config"
	"github.com/iksnae/mychatbot/testutil"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func TestMain(m *testing.M) {
	// plain output, so assertions do not depend on the test runner's terminal
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// cmdEnv is a throwaway home with a file-backed store and instant replies
type cmdEnv struct {
	home    string
	config  string
	storage string
	exports string
}

func newCmdEnv(t *testing.T) *cmdEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{config.EnvStorage, config.EnvBackend, config.EnvExportDir, config.EnvTimezone} {
		t.Setenv(env, "")
	}

	e := &cmdEnv{
		home:    home,
		config:  filepath.Join(home, "config.toml"),
		storage: filepath.Join(home, "sessions"),
		exports: filepath.Join(home, "exports"),
	}
	content := "[responder]\nmin_delay = \"0s\"\nmax_delay = \"0s\"\n\n" +
		"[export]\nprompt = false\ndir = \"" + filepath.ToSlash(e.exports) + "\"\ntimezone = \"UTC\"\n"
	testutil.WriteFile(t, home, "config.toml", []byte(content))
	resetFlags()
	t.Cleanup(resetFlags)
	return e
}

// resetFlags restores package-level flag values between executions
func resetFlags() {
	verbose = false
	configPath = ""
	storagePath = ""
	backend = ""
	ephemeral = false
	newName = ""
	sendSession = ""
	showIDs = false
	showLimit = 0
	format = "json"
	outputDir = ""
	exportSession = ""
	noPrompt = false
	inspectFormat = "text"
	inspectRaw = false

	// pflag keeps values between Execute calls
	cmds := []*cobra.Command{rootCmd}
	cmds = append(cmds, rootCmd.Commands()...)
	for _, c := range cmds {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
				f.Changed = false
			}
		}
	}
}

// run executes the CLI against the env and returns stdout
func (e *cmdEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	full := append([]string{"--config", e.config, "--backend", "file", "--storage", e.storage}, args...)
	rootCmd.SetArgs(full)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), err
}

// mustRun is run that fails the test on error
func (e *cmdEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

// open loads the env's store the way a command would
func (e *cmdEnv) open(t *testing.T) *app {
	t.Helper()
	resetFlags()
	configPath, backend, storagePath = e.config, "file", e.storage
	a, err := openApp(context.Background())
	if err != nil {
		t.Fatalf("openApp() error = %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "unknown command",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_VerboseFlag(t *testing.T) {
	e := newCmdEnv(t)
	if _, err := e.run(t, "--verbose", "list"); err != nil {
		t.Fatalf("list --verbose: %v", err)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{
		"chat", "new", "list", "switch", "rename", "delete", "send", "show",
		"search", "delete-message", "export", "suggest", "healthcheck", "inspect",
	}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestOpenApp_BadConfig(t *testing.T) {
	e := newCmdEnv(t)
	if err := os.WriteFile(e.config, []byte("[storage]\nbackend = \"tape\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	resetFlags()
	rootCmd.SetArgs([]string{"--config", e.config, "list"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for an invalid backend")
	}
}
