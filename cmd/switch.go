package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch <session-id>",
	Short: "Make a session the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.SwitchActive(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.warnUnsaved()

		active := a.store.Active()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Active session: %s (%s)\n", active.Name, active.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}
