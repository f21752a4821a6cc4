package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/mychatbot/internal"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type echoProvider struct{}

func (echoProvider) GetResponse(_ context.Context, prompt string) (internal.Response, error) {
	return internal.Response{Text: "echo: " + prompt}, nil
}

func (echoProvider) Suggestions() []string {
	return []string{"What's the weather like?", "Tell me about technology trends"}
}

func newTestModel(t *testing.T, snap internal.Snapshot) (Model, *internal.SessionStore) {
	t.Helper()
	store := internal.NewSessionStore(snap, internal.StoreOptions{
		Now:          internal.NewTestClock(time.Second),
		NewSessionID: internal.NewTestIDs("session-t"),
		NewMessageID: internal.NewTestIDs("m"),
	})
	m := New(context.Background(), Options{
		Store:        store,
		Conversation: internal.NewConversation(store, echoProvider{}),
		Suggestions:  echoProvider{},
		ExportDir:    t.TempDir(),
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC) },
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), store
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(k)
	return updated.(Model), cmd
}

func keyType(kt tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: kt} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// collect runs cmd and any batched commands, returning the messages of the
// given type
func collect[T any](cmd tea.Cmd) []T {
	if cmd == nil {
		return nil
	}
	var out []T
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, collect[T](c)...)
		}
	case T:
		out = append(out, msg)
	}
	return out
}

func TestModel_SendAndReply(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())

	m.input.SetValue("Hello there friend, how are you?")
	m, cmd := press(t, m, keyType(tea.KeyEnter))

	assert.Empty(t, m.input.Value())
	assert.True(t, m.pending())
	assert.Equal(t, "Hello there...", store.Active().Name)

	replies := collect[replyMsg](cmd)
	require.Len(t, replies, 1)
	assert.Equal(t, internal.DefaultSessionID, replies[0].sessionID)

	updated, _ := m.Update(replies[0])
	m = updated.(Model)
	assert.False(t, m.pending())

	msgs := store.Active().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "echo: Hello there friend, how are you?", msgs[1].Text)
	assert.Contains(t, m.viewport.View(), "echo:")
}

func TestModel_BlankSendIsIgnored(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())
	m.input.SetValue("   ")
	m, cmd := press(t, m, keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.False(t, m.pending())
	assert.Empty(t, store.Active().Messages)
}

func TestModel_SecondSendWhilePendingIsRejected(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())

	m.input.SetValue("first")
	m, _ = press(t, m, keyType(tea.KeyEnter))
	m.input.SetValue("second")
	m, cmd := press(t, m, keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Equal(t, "second", m.input.Value())
	assert.Len(t, store.Active().Messages, 1)
	assert.Contains(t, m.status, "waiting")
}

func TestModel_ReplyAfterSwitchLandsInOriginalSession(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())

	m.input.SetValue("question")
	m, cmd := press(t, m, keyType(tea.KeyEnter))
	m, _ = press(t, m, keyType(tea.KeyCtrlN))
	require.Equal(t, "session-t-1", store.ActiveID())

	for _, r := range collect[replyMsg](cmd) {
		updated, _ := m.Update(r)
		m = updated.(Model)
	}

	first, err := store.Session(internal.DefaultSessionID)
	require.NoError(t, err)
	assert.Len(t, first.Messages, 2)
	assert.Empty(t, store.Active().Messages)
}

func TestModel_SessionKeys(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())

	m, _ = press(t, m, keyType(tea.KeyCtrlN))
	m, _ = press(t, m, keyType(tea.KeyCtrlN))
	require.Equal(t, 3, store.Len())
	assert.Equal(t, "session-t-2", store.ActiveID())

	m, _ = press(t, m, keyType(tea.KeyTab))
	assert.Equal(t, internal.DefaultSessionID, store.ActiveID(), "tab wraps to the first session")

	m, _ = press(t, m, keyType(tea.KeyShiftTab))
	assert.Equal(t, "session-t-2", store.ActiveID())

	m, _ = press(t, m, keyType(tea.KeyCtrlW))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "session-t-1", store.ActiveID())

	m, _ = press(t, m, keyType(tea.KeyCtrlW))
	m, _ = press(t, m, keyType(tea.KeyCtrlW))
	assert.Equal(t, 1, store.Len())
	assert.True(t, m.statusErr, "deleting the last chat must report an error")
}

func TestModel_SuggestionShortcut(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())
	assert.Contains(t, m.viewport.View(), "What's the weather like?")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	require.NotNil(t, cmd)
	msgs := store.Active().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "Tell me about technology trends", msgs[0].Text)
}

func TestModel_SearchModeAndSwitchClearsTerm(t *testing.T) {
	s1 := internal.CreateTestSessionWithMessages("s1", "First", "hello world", "unrelated")
	s2 := internal.CreateTestSessionWithMessages("s2", "Second", "filler", "Hello again")
	m, store := newTestModel(t, internal.Snapshot{
		Version:         internal.SnapshotVersion,
		ActiveSessionID: "s1",
		Sessions:        []internal.Session{s1, s2},
	})

	m, _ = press(t, m, keyType(tea.KeyCtrlF))
	require.Equal(t, modeSearch, m.mode)
	for _, r := range "hello" {
		m, _ = press(t, m, runes(string(r)))
	}
	assert.Equal(t, "hello", m.searchTerm)
	view := m.viewport.View()
	assert.Contains(t, view, "[Second]")
	assert.Contains(t, view, "[First]")
	assert.Contains(t, m.renderTabs(), "(1)")

	// enter jumps to the session of the newest hit
	m, _ = press(t, m, keyType(tea.KeyEnter))
	assert.Equal(t, modeChat, m.mode)
	assert.Equal(t, "s2", store.ActiveID())
	assert.Empty(t, m.searchTerm)
}

func TestModel_SwitchHookClearsSearchTerm(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())
	m.searchTerm = "stale"
	store.CreateSession(context.Background())
	m.afterMutation()
	assert.Empty(t, m.searchTerm)
}

func TestModel_Export(t *testing.T) {
	m, store := newTestModel(t, internal.DefaultSnapshot())
	_, err := store.AppendUserMessage(context.Background(), internal.DefaultSessionID, `He said "hi"`)
	require.NoError(t, err)

	m, _ = press(t, m, keyType(tea.KeyCtrlE))
	require.Equal(t, modeExport, m.mode)
	m, cmd := press(t, m, runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, modeChat, m.mode)

	results := collect[exportedMsg](cmd)
	require.Len(t, results, 1)
	require.NoError(t, results[0].err)

	want := filepath.Join(m.opts.ExportDir, "chat-hesaidhi-2024-03-10.csv")
	assert.Equal(t, want, results[0].delivery.Path)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), `,User,"He said ""hi"""`))

	updated, _ := m.Update(results[0])
	assert.Contains(t, updated.(Model).status, "Exported to")
}

func TestModel_ExportCancel(t *testing.T) {
	m, _ := newTestModel(t, internal.DefaultSnapshot())
	m, _ = press(t, m, keyType(tea.KeyCtrlE))
	m, cmd := press(t, m, keyType(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.Equal(t, modeChat, m.mode)
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := newTestModel(t, internal.DefaultSnapshot())
	_, cmd := press(t, m, keyType(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRenderTabs_TruncatesLongNames(t *testing.T) {
	sess := internal.Session{ID: "a", Name: strings.Repeat("wide名前", 10), Messages: []internal.Message{}}
	m, _ := newTestModel(t, internal.Snapshot{Version: 1, ActiveSessionID: "a", Sessions: []internal.Session{sess}})
	assert.Contains(t, m.renderTabs(), "…")
}
