package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/mychatbot/internal"
)

func TestSendCommand(t *testing.T) {
	e := newCmdEnv(t)

	out := e.mustRun(t, "send", "hello", "bot")
	if !strings.Contains(out, "You: hello bot") {
		t.Errorf("output missing user line:\n%s", out)
	}
	if !strings.Contains(out, "Bot: ") {
		t.Errorf("output missing bot line:\n%s", out)
	}

	a := e.open(t)
	active := a.store.Active()
	if active.Name != "hello bot" {
		t.Errorf("name = %q, want first message", active.Name)
	}
	if len(active.Messages) != 2 || active.Messages[1].Sender != internal.SenderBot {
		t.Errorf("messages = %+v", active.Messages)
	}
}

func TestSendCommand_ToSession(t *testing.T) {
	e := newCmdEnv(t)
	e.mustRun(t, "new")

	e.mustRun(t, "send", "--session", "session-1", "what is the weather")

	a := e.open(t)
	first, err := a.store.Session("session-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Messages) != 2 {
		t.Errorf("session-1 messages = %d, want 2", len(first.Messages))
	}
	if n := len(a.store.Active().Messages); n != 0 {
		t.Errorf("active session got %d messages, want 0", n)
	}
}

func TestSendCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"blank text", []string{"send", "   "}, internal.ErrEmptyText},
		{"unknown session", []string{"send", "--session", "nope", "hi"}, internal.ErrSessionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCmdEnv(t)
			if _, err := e.run(t, tt.args...); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			a := e.open(t)
			if n := len(a.store.Active().Messages); n != 0 {
				t.Errorf("messages = %d, want none", n)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	e := newCmdEnv(t)

	out := e.mustRun(t, "suggest")
	if !strings.Contains(out, "1. Hello! How are you today?") || !strings.Contains(out, "6. Can you give me some life advice?") {
		t.Errorf("suggest output:\n%s", out)
	}

	out = e.mustRun(t, "suggest", "2")
	if !strings.Contains(out, "You: What can you help me with?") {
		t.Errorf("suggest 2 output:\n%s", out)
	}

	for _, bad := range []string{"0", "7", "x"} {
		if _, err := e.run(t, "suggest", bad); err == nil {
			t.Errorf("suggest %s: expected error", bad)
		}
	}
}

func TestSendCommand_Ephemeral(t *testing.T) {
	e := newCmdEnv(t)
	out := e.mustRun(t, "--ephemeral", "send", "hello")
	if !strings.Contains(out, "You: hello") {
		t.Errorf("output = %q", out)
	}

	a := e.open(t)
	if n := len(a.store.Active().Messages); n != 0 {
		t.Errorf("file store has %d messages, want none", n)
	}
}
