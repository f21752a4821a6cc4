package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newName string

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session",
	Long: `Start a new, empty session and make it the active one.

The session is called "Chat N" until its first message names it, unless
--name is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sess := a.store.CreateSession(cmd.Context())
		if newName != "" {
			if err := a.store.RenameSession(cmd.Context(), sess.ID, newName); err != nil {
				return err
			}
			sess, _ = a.store.Session(sess.ID)
		}
		a.warnUnsaved()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", idStyle.Render(sess.ID), nameStyle.Render(sess.Name))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newName, "name", "", "Name for the new session")
}
