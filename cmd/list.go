package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/mychatbot/internal"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long:  `List every chat session in order. The active session is marked with *.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		displaySessions(cmd, a.store.Sessions(), a.store.ActiveID(), a.loc)
		return nil
	},
}

func displaySessions(cmd *cobra.Command, sessions []internal.Session, activeID string, loc *time.Location) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 %d session(s)", len(sessions))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, " \t"+titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last message")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, sess := range sessions {
		marker := " "
		if sess.ID == activeID {
			marker = activeStyle.Render("*")
		}

		name := runewidth.Truncate(sess.Name, 40, "...")

		last := dateStyle.Render("—")
		if n := len(sess.Messages); n > 0 {
			last = dateStyle.Render(relativeTime(sess.Messages[n-1].Timestamp.In(loc), time.Now().In(loc)))
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			marker,
			idStyle.Render(sess.ID),
			nameStyle.Render(name),
			countStyle.Render(strconv.Itoa(len(sess.Messages))),
			last)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: use an ID with `mychatbot show <id>` or `mychatbot switch <id>`"))
}

// relativeTime formats t coarsely relative to now
func relativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
