package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/internal/config"
	"github.com/iksnae/mychatbot/internal/tui"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("chat needs an interactive terminal (try 'mychatbot send' instead)")

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open the interactive chat.

Keys:
  enter        send the message
  ctrl+n       new session
  ctrl+w       close the active session
  tab          next session (shift+tab for the previous one)
  ctrl+f       search every session
  ctrl+e       export the active session (then j, t, c or p)
  alt+1..6     send a suggested question
  ctrl+c       quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !internal.IsTerminal(os.Stdin) || !internal.IsTerminal(os.Stdout) {
		return errNotInteractive
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	logFile, err := openChatLog()
	if err != nil {
		internal.LogWarn("Logging disabled: %v", err)
	} else {
		internal.SetLogOutput(logFile)
		defer func() {
			internal.SetLogOutput(os.Stderr)
			_ = logFile.Close()
		}()
	}

	model := tui.New(cmd.Context(), tui.Options{
		Store:        a.store,
		Conversation: a.conv,
		Suggestions:  a.provider,
		ExportDir:    a.cfg.Export.Dir,
		Location:     a.loc,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat failed: %w", err)
	}
	a.warnUnsaved()
	return nil
}

// openChatLog opens the log file used while the TUI owns the screen
func openChatLog() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "mychatbot.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
