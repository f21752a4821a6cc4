package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/mychatbot/internal"
	"github.com/spf13/cobra"
)

var (
	matchStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("220")).
			Foreground(lipgloss.Color("0"))

	sessionTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term...>",
	Short: "Search messages in every session",
	Long: `Search every session for messages containing the term, ignoring case.

Matches are listed newest first, tagged with their session, and the matching
text is highlighted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		term := strings.Join(args, " ")
		results := internal.NewSearchIndex(a.store).Query(term)

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔍 No messages match %q", term)))
			return nil
		}
		_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("🔍 %d message(s) match %q", len(results), term)))
		_, _ = fmt.Fprintln(out)

		for _, r := range results {
			stamp := timestampStyle.Render("[" + r.Message.Timestamp.In(a.loc).Format("02/01/2006 15:04") + "]")
			_, _ = fmt.Fprintf(out, "%s %s %s: %s\n",
				sessionTagStyle.Render(r.SessionName),
				stamp,
				r.Message.Sender.Label(),
				highlight(r.Message.Text, term))
		}
		return nil
	},
}

// highlight renders the matching spans of text
func highlight(text, term string) string {
	var b strings.Builder
	for _, span := range internal.Highlight(text, term) {
		if span.Match {
			b.WriteString(matchStyle.Render(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
