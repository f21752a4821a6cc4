package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	showIDs   bool
	showLimit int
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the messages of a session",
	Long:  `Display the messages of a session, the active one when no id is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		sess, err := a.session(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, sessionHeaderStyle.Render(sess.Name))
		_, _ = fmt.Fprintln(out, sessionMetaStyle.Render(fmt.Sprintf("%s · %d message(s)", sess.ID, len(sess.Messages))))
		_, _ = fmt.Fprintln(out)

		if len(sess.Messages) == 0 {
			_, _ = fmt.Fprintln(out, "No messages yet. Try one of these:")
			for i, q := range a.provider.Suggestions() {
				_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, q)
			}
			return nil
		}

		msgs := sess.Messages
		if showLimit > 0 && len(msgs) > showLimit {
			msgs = msgs[len(msgs)-showLimit:]
		}
		for _, msg := range msgs {
			printMessage(out, msg, a.loc, showIDs)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showIDs, "ids", false, "Show message ids")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Show only the last n messages")
}
