package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteMessageCmd represents the delete-message command
var deleteMessageCmd = &cobra.Command{
	Use:   "delete-message <message-id>",
	Short: "Delete one message from whichever session holds it",
	Long: `Delete one message. Message ids are shown by 'mychatbot show --ids'.

Deleting a message never renames its session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		_, sessionID, err := a.store.FindMessage(args[0])
		if err != nil {
			return err
		}
		if !a.store.DeleteMessage(cmd.Context(), args[0]) {
			return fmt.Errorf("message %s could not be deleted", args[0])
		}
		a.warnUnsaved()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted message %s from %s\n", args[0], sessionID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteMessageCmd)
}
