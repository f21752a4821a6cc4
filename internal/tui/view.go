package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/iksnae/mychatbot/internal"
)

const messageTimeLayout = "02/01/2006 15:04"

// refresh rebuilds the viewport content from the store
func (m *Model) refresh() {
	var content string
	if m.mode == modeSearch && strings.TrimSpace(m.searchTerm) != "" {
		content = m.renderResults()
	} else {
		content = m.renderSession(m.store.Active())
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderSession(sess internal.Session) string {
	if len(sess.Messages) == 0 {
		return m.renderWelcome()
	}
	blocks := make([]string, len(sess.Messages))
	for i, msg := range sess.Messages {
		blocks[i] = m.renderMessage(msg, "", nil)
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("👋 Welcome to My Chatbot!"))
	b.WriteString("\n\nI'm here to chat with you! Ask me anything or try one of these suggestions:\n\n")
	if m.opts.Suggestions != nil {
		for i, s := range m.opts.Suggestions.Suggestions() {
			fmt.Fprintf(&b, "  %s %s\n", timeStyle.Render(fmt.Sprintf("alt+%d", i+1)), suggestStyle.Render(s))
		}
	}
	return b.String()
}

func (m *Model) renderResults() string {
	results := m.search.Query(m.searchTerm)
	if len(results) == 0 {
		return statusStyle.Render(fmt.Sprintf("No messages match %q", m.searchTerm))
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		tag := sessionStyle.Render("[" + r.SessionName + "]")
		blocks[i] = m.renderMessage(r.Message, tag, internal.Highlight(r.Text, m.searchTerm))
	}
	header := statusStyle.Render(fmt.Sprintf("%d result(s) across all chats, newest first", len(results)))
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}

// renderMessage draws one message; spans, when set, replace the plain text
func (m *Model) renderMessage(msg internal.Message, tag string, spans []internal.Span) string {
	label := botStyle.Render("🤖 " + msg.Sender.Label())
	if msg.Sender == internal.SenderUser {
		label = userStyle.Render("👤 " + msg.Sender.Label())
	}
	header := label + " " + timeStyle.Render(msg.Timestamp.In(m.opts.Location).Format(messageTimeLayout))
	if tag != "" {
		header = tag + " " + header
	}

	text := msg.Text
	if spans != nil {
		var b strings.Builder
		for _, span := range spans {
			if span.Match {
				b.WriteString(matchStyle.Render(span.Text))
			} else {
				b.WriteString(span.Text)
			}
		}
		text = b.String()
	}

	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}
	return header + "\n" + lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(text)
}

// renderTabs shows as many tabs as fit, keeping the active one visible
func (m Model) renderTabs() string {
	sessions := m.store.Sessions()
	activeID := m.store.ActiveID()
	var counts map[string]int
	if strings.TrimSpace(m.searchTerm) != "" {
		counts = m.search.Counts(m.searchTerm)
	}

	tabs := make([]string, len(sessions))
	active := 0
	for i, s := range sessions {
		label := runewidth.Truncate(s.Name, maxTabWidth, "…")
		style := tabStyle
		if s.ID == activeID {
			style = activeTabStyle
			active = i
		}
		tab := style.Render(label)
		if n := counts[s.ID]; n > 0 {
			tab += countStyle.Render(fmt.Sprintf("(%d)", n))
		}
		tabs[i] = tab
	}

	if m.width <= 0 {
		return strings.Join(tabs, " ")
	}

	start := 0
	for start < active && lipgloss.Width(strings.Join(tabs[start:active+1], " ")) > m.width {
		start++
	}
	end := active + 1
	for end < len(tabs) && lipgloss.Width(strings.Join(tabs[start:end+1], " ")) <= m.width {
		end++
	}
	return strings.Join(tabs[start:end], " ")
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🤖 My Chatbot"))
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Your friendly AI assistant answering questions since 2022"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.pending() {
		b.WriteString(m.spinner.View() + " Thinking...")
	}
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString(m.query.View())
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")

	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.mode == modeExport {
		b.WriteString(m.help.View(exportHelp{k: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}
