package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest [n]",
	Short: "List suggested questions, or send suggestion n",
	Long: `List the starter questions offered for an empty session.

With a number, the matching suggestion is sent to the active session as if
it had been typed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		suggestions := a.provider.Suggestions()
		if len(args) == 0 {
			for i, q := range suggestions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
			}
			return nil
		}

		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(suggestions) {
			return fmt.Errorf("suggestion must be a number from 1 to %d, got %q", len(suggestions), args[0])
		}
		return sendAndPrint(cmd, a, a.store.ActiveID(), suggestions[n-1])
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
