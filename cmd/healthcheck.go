package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/mychatbot/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

var errHealthcheckFailed = errors.New("health check failed")

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that mychatbot can load its config and sessions",
	Long: `Check the health of mychatbot by verifying:
  • The configuration loads and validates
  • The storage backend opens and the saved sessions decode
  • The export directory is writable
  • Whether exports can ask where to save (gum and a terminal)

Use --verbose for paths and per-session details.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		say := func(style lipgloss.Style, format string, a ...interface{}) {
			_, _ = fmt.Fprintln(out, style.Render(fmt.Sprintf(format, a...)))
		}
		detail := func(format string, a ...interface{}) {
			if verbose {
				_, _ = fmt.Fprintf(out, "   "+format+"\n", a...)
			}
		}

		say(sectionStyle, "🔍 mychatbot Health Check")
		_, _ = fmt.Fprintln(out)

		// Step 1: config and storage
		say(infoStyle, "Step 1: Loading config and storage...")
		a, err := openApp(cmd.Context())
		if err != nil {
			say(errorStyle, "❌ %v", err)
			return fmt.Errorf("%w: %v", errHealthcheckFailed, err)
		}
		defer a.Close()
		say(successStyle, "✅ %s storage opened", a.blobs.Source())
		detail("Path: %s", a.cfg.Storage.Path)
		_, _ = fmt.Fprintln(out)

		// Step 2: sessions
		say(infoStyle, "Step 2: Checking saved sessions...")
		if _, err := a.blobs.Get(cmd.Context(), internal.SessionsKey); errors.Is(err, internal.ErrBlobNotFound) {
			say(warningStyle, "⚠️  Nothing saved yet, a fresh session will be created")
		} else if err != nil {
			say(errorStyle, "❌ Failed to read saved sessions: %v", err)
			return fmt.Errorf("%w: %v", errHealthcheckFailed, err)
		} else {
			sessions := a.store.Sessions()
			messages := 0
			for _, s := range sessions {
				messages += len(s.Messages)
			}
			say(successStyle, "✅ %d session(s), %d message(s)", len(sessions), messages)
			for i, s := range sessions {
				if i == 5 {
					detail("... and %d more", len(sessions)-5)
					break
				}
				detail("[%d] %s (ID: %s)", i+1, s.Name, s.ID)
			}
		}
		_, _ = fmt.Fprintln(out)

		// Step 3: export directory
		say(infoStyle, "Step 3: Checking export directory...")
		if err := checkWritable(a.cfg.Export.Dir); err != nil {
			say(errorStyle, "❌ Export directory is not writable: %v", err)
			return fmt.Errorf("%w: %v", errHealthcheckFailed, err)
		}
		say(successStyle, "✅ Export directory is writable")
		detail("Directory: %s", a.cfg.Export.Dir)
		_, _ = fmt.Fprintln(out)

		// Step 4: save dialog
		say(infoStyle, "Step 4: Checking save dialog...")
		switch {
		case !a.cfg.Export.Prompt:
			say(warningStyle, "⚠️  Save dialog disabled in config, exports go to the export directory")
		case !internal.GumAvailable():
			say(warningStyle, "⚠️  gum not found, exports go to the export directory")
		default:
			say(successStyle, "✅ gum found, exports ask where to save when run in a terminal")
		}
		_, _ = fmt.Fprintln(out)

		say(sectionStyle, "📊 Summary")
		say(successStyle, "✅ Health check passed!")
		return nil
	},
}

// checkWritable creates dir if needed and writes a probe file into it
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".healthcheck-")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
