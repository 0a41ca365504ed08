package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slackbridge",
	Short: "slackbridge connects a Slack workspace to a bot-command pipeline",
	Long: `slackbridge is an event-ingestion and normalization layer between the
Slack real-time stream and a generic bot-command pipeline. It classifies
inbound events, resolves Slack markup into plain text, detects messages
addressed to the bot, and routes them as commands.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
