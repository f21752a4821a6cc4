package cmd

import (
	"fmt"
	"time"

	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/internal/export"
	"github.com/spf13/cobra"
)

var (
	format        string
	outputDir     string
	exportSession string
	noPrompt      bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session to a file",
	Long: `Export a chat session as json, txt, csv or pdf.

The active session is exported unless --session is given. When a terminal
and gum are available you are asked where to save the file; otherwise, or
with --no-prompt, the file is written to the export directory (--out, or
export.dir from the config) without overwriting existing files.

Use 'mychatbot list' to see available session IDs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := export.ParseKind(format)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.session(exportSession)
		if err != nil {
			return err
		}

		dir := outputDir
		if dir == "" {
			dir = a.cfg.Export.Dir
		}

		var sink export.FileSink
		if a.cfg.Export.Prompt && !noPrompt {
			sink = export.NewNegotiatingSink(export.NewGumDialog(dir))
		}

		var result export.Result
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Rendering %s export of %q", kind, sess.Name), func() error {
			var formatErr error
			result, formatErr = export.Format(&sess, kind, export.Options{Now: time.Now(), Location: a.loc})
			return formatErr
		})
		if err != nil {
			return err
		}

		delivery, err := export.Deliver(cmd.Context(), result, sink, &export.DirDownloader{Dir: dir})
		if err != nil {
			return err
		}

		switch delivery.Outcome {
		case export.SaveCancelled:
			internal.PrintInfo("Export cancelled")
		case export.SaveSuccess:
			internal.PrintSuccess(fmt.Sprintf("Export complete: %s saved", result.FileName))
		default:
			internal.PrintSuccess(fmt.Sprintf("Export complete: downloaded to %s", delivery.Path))
		}
		if delivery.Path != "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), delivery.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, txt, csv, pdf)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default: export.dir from the config)")
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Export a specific session by ID")
	exportCmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Never ask where to save")
}
