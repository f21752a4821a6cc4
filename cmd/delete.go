package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Long: `Delete a session and its messages.

The last remaining session cannot be deleted. When the active session is
deleted, the session before it becomes active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.DeleteSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.warnUnsaved()

		active := a.store.Active()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s. Active session: %s (%s)\n", args[0], active.Name, active.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
