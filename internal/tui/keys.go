package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send        key.Binding
	NewSession  key.Binding
	Close       key.Binding
	Next        key.Binding
	Prev        key.Binding
	Search      key.Binding
	Export      key.Binding
	Suggestion  key.Binding
	Back        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Quit        key.Binding
	ExportJSON  key.Binding
	ExportTXT   key.Binding
	ExportCSV   key.Binding
	ExportPDF   key.Binding
	suggestKeys []string
}

func newKeyMap() keyMap {
	suggest := []string{"alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6"}
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new chat"),
		),
		Close: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "delete chat"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next chat"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev chat"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "search"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		Suggestion: key.NewBinding(
			key.WithKeys(suggest...),
			key.WithHelp("alt+1..6", "ask suggestion"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		ExportJSON:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "json")),
		ExportTXT:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "txt")),
		ExportCSV:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "csv")),
		ExportPDF:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pdf")),
		suggestKeys: suggest,
	}
}

// suggestionIndex maps alt+N to a zero-based suggestion index
func (k keyMap) suggestionIndex(s string) int {
	for i, candidate := range k.suggestKeys {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.NewSession, k.Close, k.Next, k.Search, k.Export, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Suggestion, k.ScrollUp, k.ScrollDown},
		{k.NewSession, k.Close, k.Next, k.Prev},
		{k.Search, k.Export, k.Back, k.Quit},
	}
}

// exportHelp is shown while waiting for a format key
type exportHelp struct{ k keyMap }

func (e exportHelp) ShortHelp() []key.Binding {
	return []key.Binding{e.k.ExportJSON, e.k.ExportTXT, e.k.ExportCSV, e.k.ExportPDF, e.k.Back}
}

func (e exportHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{e.ShortHelp()}
}
