// Package tui is the interactive terminal front end: a tab strip of chat
// sessions, the active conversation, an input line and a search mode.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/mychatbot/internal"
)

type mode int

const (
	modeChat mode = iota
	modeSearch
	modeExport
)

// chrome is the number of screen lines outside the viewport
const chrome = 8

// maxTabWidth caps a tab label in terminal cells
const maxTabWidth = 22

// Options wires the model to the core
type Options struct {
	Store        *internal.SessionStore
	Conversation *internal.Conversation
	Suggestions  internal.SuggestionProvider
	// ExportDir receives exports; the terminal is in use, so there is no
	// save dialog
	ExportDir string
	Location  *time.Location
	Now       func() time.Time
}

// hookEvents is shared by every copy of the model so store hooks fired
// inside Update can be observed after the call returns
type hookEvents struct {
	switched bool
	appended bool
}

// Model is the Bubble Tea model for the chat TUI
type Model struct {
	ctx  context.Context
	opts Options

	store  *internal.SessionStore
	conv   *internal.Conversation
	search *internal.SearchIndex
	events *hookEvents

	keys     keyMap
	help     help.Model
	input    textinput.Model
	query    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	mode       mode
	searchTerm string
	status     string
	statusErr  bool
	width      int
	height     int
}

// New creates the model and registers its store hooks
func New(ctx context.Context, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	in := textinput.New()
	in.Placeholder = "Type your message..."
	in.CharLimit = 4000
	in.Prompt = "> "
	in.Focus()

	q := textinput.New()
	q.Placeholder = "search all chats..."
	q.CharLimit = 256
	q.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		opts:     opts,
		store:    opts.Store,
		conv:     opts.Conversation,
		search:   internal.NewSearchIndex(opts.Store),
		events:   &hookEvents{},
		keys:     newKeyMap(),
		help:     help.New(),
		input:    in,
		query:    q,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}

	events := m.events
	m.store.SetHooks(internal.Hooks{
		OnSwitch:  func(string) { events.switched = true },
		OnMessage: func(string, internal.Message) { events.appended = true },
	})

	m.refresh()
	m.viewport.GotoBottom()
	return m
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// pending reports whether the active session is waiting for a reply
func (m Model) pending() bool {
	return m.conv.IsPending(m.store.ActiveID())
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
