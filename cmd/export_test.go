package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/mychatbot/testutil"
)

func TestExportCommand_Formats(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		prefix string
	}{
		{"json", "json", "{"},
		{"txt", "txt", "Chat Export: Hi there"},
		{"text", "txt", "Chat Export: Hi there"},
		{"CSV", "csv", "Timestamp,Sender,Message\n"},
		{"pdf", "pdf", "%PDF-"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e := newCmdEnv(t)
			e.mustRun(t, "send", "Hi there")

			out := e.mustRun(t, "export", "--format", tt.format)
			path := strings.TrimSpace(out)
			want := filepath.Join(e.exports, "chat-hithere-"+time.Now().UTC().Format("2006-01-02")+"."+tt.ext)
			if path != want {
				t.Errorf("path = %q, want %q", path, want)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("content starts %q, want prefix %q", string(data[:min(len(data), 40)]), tt.prefix)
			}
		})
	}
}

func TestExportCommand_NeverOverwrites(t *testing.T) {
	e := newCmdEnv(t)
	out1 := strings.TrimSpace(e.mustRun(t, "export", "--format", "json"))
	out2 := strings.TrimSpace(e.mustRun(t, "export", "--format", "json"))
	if out1 == out2 {
		t.Fatalf("second export overwrote %s", out1)
	}
	if !strings.HasSuffix(out2, " (1).json") {
		t.Errorf("second path = %q", out2)
	}
}

func TestExportCommand_SessionAndOut(t *testing.T) {
	e := newCmdEnv(t)
	e.mustRun(t, "send", "keep me")
	e.mustRun(t, "new")
	dir := t.TempDir()

	out := e.mustRun(t, "export", "--session", "session-1", "--out", dir, "--no-prompt")
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != dir {
		t.Fatalf("path = %q, want it in %s", path, dir)
	}

	var doc struct {
		SessionName string `json:"sessionName"`
		Messages    []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		} `json:"messages"`
	}
	testutil.JSONUnmarshal(t, testutil.ReadFile(t, path), &doc)
	if doc.SessionName != "keep me" || len(doc.Messages) != 2 || doc.Messages[0].Text != "keep me" {
		t.Errorf("exported %+v", doc)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"export", "--format", "invalid"}},
		{"unknown session", []string{"export", "--session", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCmdEnv(t)
			if _, err := e.run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
