package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <name...>",
	Short: "Rename a session",
	Long: `Rename a session.

A session that has no messages yet is named after its first message, so a
name given before then is replaced when the first message is sent.`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.RenameSession(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		a.warnUnsaved()

		sess, err := a.store.Session(args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", sess.ID, sess.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
