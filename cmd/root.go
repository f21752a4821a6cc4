package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/mychatbot/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	storagePath string
	backend     string
	ephemeral   bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mychatbot",
	Short: "Chat with a mock assistant in your terminal",
	Long: `A terminal chat app with multiple sessions, search and export.

Running mychatbot without a command opens the interactive chat. Every
session is saved after each change and restored on the next start.

Features:
  • Several chat sessions with automatic naming
  • Search across every session with highlighted matches
  • Export a session as JSON, TXT, CSV or PDF
  • Pluggable storage (sqlite, plain files, or memory)

Quick Start:
  mychatbot                              # Open the chat
  mychatbot send "Hello there"           # Send one message and print the reply
  mychatbot list                         # List sessions
  mychatbot export --format pdf          # Export the active session`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	RunE: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.mychatbot/config.toml)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Storage location (database file, or directory for the file backend)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend (sqlite, file, memory)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep sessions in memory only (same as --backend memory)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
