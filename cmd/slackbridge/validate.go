package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/keepmind9/slackbridge/internal/core"
)

var (
	validateConfigFile string
	validateShow       bool
	validateJSON       bool

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  "Load the configuration file, apply defaults, and report validation errors",
		Run: func(cmd *cobra.Command, args []string) {
			config, err := core.LoadConfig(validateConfigFile)
			if err != nil {
				log.Fatalf("Configuration invalid: %v", err)
			}

			fmt.Printf("Configuration %s is valid\n", validateConfigFile)

			if !validateShow {
				return
			}
			if validateJSON {
				// Secrets stay out of the dump
				dump := map[string]interface{}{
					"socket_mode":                config.Slack.AppToken != "",
					"proxy":                      config.Slack.Proxy,
					"parse":                      config.Slack.Parse,
					"link_names":                 config.Slack.LinkNames,
					"supported_message_subtypes": config.Slack.SupportedMessageSubtypes,
					"log_level":                  config.Logging.Level,
				}
				output, err := json.MarshalIndent(dump, "", "  ")
				if err != nil {
					log.Fatalf("Failed to marshal config: %v", err)
				}
				fmt.Println(string(output))
				return
			}
			fmt.Printf("  Socket mode:   %v\n", config.Slack.AppToken != "")
			fmt.Printf("  Proxy:         %s\n", config.Slack.Proxy)
			fmt.Printf("  Parse:         %s\n", config.Slack.Parse)
			fmt.Printf("  Link names:    %v\n", config.Slack.LinkNames)
			fmt.Printf("  Subtypes:      %v\n", config.Slack.SupportedMessageSubtypes)
			fmt.Printf("  Log level:     %s\n", config.Logging.Level)
		},
	}
)

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", "config.yaml", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateShow, "show", false, "Print the effective configuration")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the effective configuration as JSON")
}
