package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the accessfirst command
var rootCmd = &cobra.Command{
	Use:   "accessfirst",
	Short: "Accessibility-first assistant bot",
	Long: `AccessFirst is a Telegram bot with blind and deaf assistive flows,
local profiles, accessibility preferences and an interaction history.

Available subcommands:
  serve  - Run the bot
  export - Print the stored records of one namespace as JSON`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
