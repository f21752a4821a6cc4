package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/mychatbot/internal"
	"github.com/spf13/cobra"
)

var sendSession string

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <text...>",
	Short: "Send a message and print the reply",
	Long: `Send a message to a session and wait for the assistant's reply.

The message goes to the active session unless --session is given. The first
message of an empty session also names it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		target, err := a.session(sendSession)
		if err != nil {
			return err
		}
		return sendAndPrint(cmd, a, target.ID, strings.Join(args, " "))
	},
}

// sendAndPrint runs the full send path for one message and prints both sides
func sendAndPrint(cmd *cobra.Command, a *app, sessionID, text string) error {
	ctx := cmd.Context()

	userMsg, err := a.conv.Begin(ctx, sessionID, text)
	if err != nil {
		return err
	}
	printMessage(cmd.OutOrStdout(), userMsg, a.loc, false)

	var resp internal.Response
	var providerErr error
	err = internal.ShowProgress(ctx, "Thinking", func() error {
		resp, providerErr = a.conv.Reply(ctx, userMsg.Text)
		return nil
	})

	var botMsg internal.Message
	if err != nil {
		// Interrupted: record the apology so the session is not left waiting.
		botMsg, err = a.conv.Complete(context.WithoutCancel(ctx), sessionID, internal.Response{}, err)
	} else {
		botMsg, err = a.conv.Complete(ctx, sessionID, resp, providerErr)
	}
	if err != nil {
		return err
	}
	printMessage(cmd.OutOrStdout(), botMsg, a.loc, false)
	a.warnUnsaved()
	return nil
}

// printMessage writes "[time] You: text", with the message id when showIDs is set
func printMessage(w io.Writer, msg internal.Message, loc *time.Location, showIDs bool) {
	label := botLabelStyle.Render(msg.Sender.Label())
	if msg.Sender == internal.SenderUser {
		label = userLabelStyle.Render(msg.Sender.Label())
	}
	stamp := timestampStyle.Render("[" + msg.Timestamp.In(loc).Format("02/01/2006 15:04") + "]")
	if showIDs {
		stamp += " " + idStyle.Render(msg.ID)
	}
	_, _ = fmt.Fprintf(w, "%s %s: %s\n", stamp, label, msg.Text)
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendSession, "session", "s", "", "Session to send to (default: the active session)")
}
