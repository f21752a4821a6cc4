package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/internal/export"
)

// replyMsg carries a provider reply back to the session that asked
type replyMsg struct {
	sessionID string
	resp      internal.Response
	err       error
}

// exportedMsg reports where an export went
type exportedMsg struct {
	delivery export.Delivery
	err      error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-chrome)
		m.input.Width = max(10, msg.Width-4)
		m.query.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeExport:
			return m.updateExport(msg)
		case modeSearch:
			return m.updateSearch(msg)
		default:
			return m.updateChat(msg)
		}

	case replyMsg:
		_, err := m.conv.Complete(m.ctx, msg.sessionID, msg.resp, msg.err)
		if errors.Is(err, internal.ErrSessionNotFound) {
			m.setStatus("Reply dropped: its chat was deleted")
		} else if err != nil {
			m.setError(err)
		}
		m.afterMutation()
		return m, nil

	case exportedMsg:
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.delivery.Path != "":
			m.setStatus("Exported to " + msg.delivery.Path)
		case msg.delivery.Outcome == export.SaveCancelled:
			m.setStatus("")
		default:
			m.setStatus("Export saved")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.anyPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.mode == modeSearch {
		m.query, cmd = m.query.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send(m.input.Value())

	case key.Matches(msg, m.keys.Suggestion):
		idx := m.keys.suggestionIndex(msg.String())
		active := m.store.Active()
		if len(active.Messages) > 0 || m.opts.Suggestions == nil {
			return m, nil
		}
		suggestions := m.opts.Suggestions.Suggestions()
		if idx < 0 || idx >= len(suggestions) {
			return m, nil
		}
		return m.send(suggestions[idx])

	case key.Matches(msg, m.keys.NewSession):
		sess := m.store.CreateSession(m.ctx)
		m.setStatus("Started " + sess.Name)
		m.afterMutation()
		return m, nil

	case key.Matches(msg, m.keys.Close):
		active := m.store.Active()
		if err := m.store.DeleteSession(m.ctx, active.ID); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Deleted " + active.Name)
		m.afterMutation()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.cycle(1), nil

	case key.Matches(msg, m.keys.Prev):
		return m.cycle(-1), nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.input.Blur()
		cmd := m.query.Focus()
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		m.mode = modeExport
		m.setStatus("Export as:")
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send records the user message and starts waiting for the reply
func (m Model) send(text string) (tea.Model, tea.Cmd) {
	sessionID := m.store.ActiveID()
	userMsg, err := m.conv.Begin(m.ctx, sessionID, text)
	switch {
	case errors.Is(err, internal.ErrEmptyText):
		return m, nil
	case errors.Is(err, internal.ErrResponsePending):
		m.setStatus("Still waiting for the last reply...")
		return m, nil
	case err != nil:
		m.setError(err)
		return m, nil
	}

	m.input.Reset()
	m.setStatus("")
	m.afterMutation()
	return m, tea.Batch(m.replyCmd(sessionID, userMsg.Text), m.spinner.Tick)
}

func (m Model) replyCmd(sessionID, prompt string) tea.Cmd {
	ctx, conv := m.ctx, m.conv
	return func() tea.Msg {
		resp, err := conv.Reply(ctx, prompt)
		return replyMsg{sessionID: sessionID, resp: resp, err: err}
	}
}

func (m Model) cycle(step int) Model {
	sessions := m.store.Sessions()
	if len(sessions) < 2 {
		return m
	}
	current := 0
	for i, s := range sessions {
		if s.ID == m.store.ActiveID() {
			current = i
			break
		}
	}
	next := (current + step + len(sessions)) % len(sessions)
	if err := m.store.SwitchActive(m.ctx, sessions[next].ID); err != nil {
		m.setError(err)
		return m
	}
	m.setStatus("")
	m.afterMutation()
	return m
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Search):
		m.leaveSearch()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Send):
		results := m.search.Query(m.searchTerm)
		if m.searchTerm == "" || len(results) == 0 {
			return m, nil
		}
		target := results[0].SessionID
		m.leaveSearch()
		if target != m.store.ActiveID() {
			if err := m.store.SwitchActive(m.ctx, target); err != nil {
				m.setError(err)
			}
		}
		m.afterMutation()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() != m.searchTerm {
		m.searchTerm = m.query.Value()
		m.refresh()
		m.viewport.GotoTop()
	}
	return m, cmd
}

func (m *Model) leaveSearch() {
	m.mode = modeChat
	m.searchTerm = ""
	m.query.Reset()
	m.query.Blur()
	m.refresh()
	m.viewport.GotoBottom()
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var kind export.Kind
	switch {
	case key.Matches(msg, m.keys.ExportJSON):
		kind = export.KindJSON
	case key.Matches(msg, m.keys.ExportTXT):
		kind = export.KindTXT
	case key.Matches(msg, m.keys.ExportCSV):
		kind = export.KindCSV
	case key.Matches(msg, m.keys.ExportPDF):
		kind = export.KindPDF
	case key.Matches(msg, m.keys.Back):
		m.mode = modeChat
		m.setStatus("")
		return m, nil
	default:
		return m, nil
	}

	m.mode = modeChat
	m.setStatus(fmt.Sprintf("Exporting %s...", kind))
	return m, m.exportCmd(kind)
}

func (m Model) exportCmd(kind export.Kind) tea.Cmd {
	ctx := m.ctx
	session := m.store.Active()
	opts := export.Options{Now: m.opts.Now(), Location: m.opts.Location}
	downloader := &export.DirDownloader{Dir: m.opts.ExportDir}
	return func() tea.Msg {
		result, err := export.Format(&session, kind, opts)
		if err != nil {
			return exportedMsg{err: err}
		}
		delivery, err := export.Deliver(ctx, result, nil, downloader)
		return exportedMsg{delivery: delivery, err: err}
	}
}

// afterMutation applies hook effects and redraws
func (m *Model) afterMutation() {
	if m.events.switched {
		m.events.switched = false
		m.searchTerm = ""
		m.query.Reset()
	}
	m.refresh()
	if m.events.appended || m.mode == modeChat {
		m.viewport.GotoBottom()
	}
	m.events.appended = false
}

func (m Model) anyPending() bool {
	for _, s := range m.store.Sessions() {
		if m.conv.IsPending(s.ID) {
			return true
		}
	}
	return false
}
