package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/testutil"
)

func TestInspectCommand(t *testing.T) {
	e := newCmdEnv(t)
	dbPath := filepath.Join(e.home, "chat.db")
	store, err := internal.NewSQLiteBlobStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), internal.SessionsKey, []byte(testutil.VersionedSessionsJSON)); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	out := e.mustRun(t, "inspect", dbPath)
	for _, want := range []string{"Table: chatKV (1 rows)", "key: TEXT", internal.SessionsKey, "Version 1: 2 session(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = e.mustRun(t, "inspect", dbPath, "--format", "json", "--raw")
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if report.Sessions == nil || !report.Sessions.Valid || report.Sessions.Active != "session-b" {
		t.Errorf("sessions = %+v", report.Sessions)
	}
	if len(report.Keys) != 1 || report.Keys[0].Value == "" {
		t.Errorf("keys = %+v", report.Keys)
	}

	if _, err := e.run(t, "inspect", dbPath, "--format", "xml"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestInspectCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing database", []string{"inspect", "/nonexistent/chat.db"}},
		{"non-sqlite backend", []string{"--storage", "", "inspect"}},
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
