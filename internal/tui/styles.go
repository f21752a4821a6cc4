package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "57", Dark: "99"})
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "247", Dark: "241"})
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "255", Dark: "255"}).Background(lipgloss.AdaptiveColor{Light: "62", Dark: "62"})
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "128", Dark: "170"})
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "25", Dark: "63"})
	botStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "247", Dark: "241"})
	matchStyle     = lipgloss.NewStyle().Bold(true).Background(lipgloss.AdaptiveColor{Light: "228", Dark: "136"})
	sessionStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "128", Dark: "170"})
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "247", Dark: "241"})
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"})
	suggestStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "86"})
)
