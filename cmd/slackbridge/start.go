package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/keepmind9/slackbridge/internal/core"
	"github.com/keepmind9/slackbridge/internal/logger"
	"github.com/keepmind9/slackbridge/internal/slack"
	"github.com/keepmind9/slackbridge/pkg/constants"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the slackbridge main process",
		Long:  "Negotiate a Slack streaming session and route addressed messages to the command engine",
		Run: func(cmd *cobra.Command, args []string) {
			config, err := core.LoadConfig(configFile)
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}

			logConfig := logger.Config{
				Level:        config.Logging.Level,
				File:         config.Logging.File,
				MaxSize:      config.Logging.MaxSize,
				MaxBackups:   config.Logging.MaxBackups,
				MaxAge:       config.Logging.MaxAge,
				Compress:     config.Logging.Compress,
				EnableStdout: config.Logging.EnableStdout,
			}
			if err := logger.InitLogger(logConfig); err != nil {
				log.Fatalf("Failed to initialize logger: %v", err)
			}

			adapterConfig := slack.Config{
				Token:                    config.Slack.Token,
				AppToken:                 config.Slack.AppToken,
				Proxy:                    config.Slack.Proxy,
				Parse:                    config.Slack.Parse,
				LinkNames:                config.Slack.LinkNames,
				UnfurlLinks:              config.Slack.UnfurlLinks,
				UnfurlMedia:              config.Slack.UnfurlMedia,
				SupportedMessageSubtypes: config.Slack.SupportedMessageSubtypes,
			}

			logger.WithFields(logrus.Fields{
				"config_file": configFile,
				"token":       maskSecret(config.Slack.Token),
				"socket_mode": adapterConfig.SocketMode(),
			}).Info("starting-slackbridge")

			client, err := slack.NewClient(adapterConfig, logger.Component("rpc"))
			if err != nil {
				log.Fatalf("Failed to create Slack client: %v", err)
			}

			engine := core.NewEngine(config.Engine, client, logger.Component("engine"))
			registerBuiltinCommands(engine)
			engine.Subscribe("connected", func(payload interface{}) {
				logger.Info("session-established")
			})

			users := slack.NewMemoryUserDirectory()
			rooms := slack.NewMemoryRoomDirectory()
			resolver := slack.NewResolver(users, rooms)
			dispatcher := slack.NewDispatcher(rooms, resolver, engine, logger.Component("dispatcher"))
			classifier := slack.NewClassifier(
				adapterConfig, users, rooms, dispatcher, engine, logger.Component("classifier"))

			session, err := client.Negotiate()
			if err != nil {
				log.Fatalf("Connection negotiation failed: %v", err)
			}
			engine.SetBotName(session.Self.MentionName)
			logger.WithFields(logrus.Fields{
				"bot_id":       session.Self.ID,
				"mention_name": session.Self.MentionName,
			}).Info("negotiated-slack-session")

			conn, err := slack.Dial(session, adapterConfig, classifier, logger.Component("stream"))
			if err != nil {
				log.Fatalf("Failed to connect event stream: %v", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			runErrChan := make(chan error, 1)
			go func() {
				runErrChan <- conn.Run()
			}()

			select {
			case sig := <-sigChan:
				logger.Infof("Received signal: %v, shutting down gracefully...", sig)
				conn.Stop()
				<-runErrChan
			case err := <-runErrChan:
				if err != nil {
					log.Fatalf("Event stream error: %v", err)
				}
			}

			logger.Info("slackbridge-stopped")
		},
	}
)

func registerBuiltinCommands(engine *core.Engine) {
	engine.RegisterCommand("ping", func(args []string, msg slack.NormalizedMessage) (string, error) {
		return "pong", nil
	})
	engine.RegisterCommand("help", func(args []string, msg slack.NormalizedMessage) (string, error) {
		return fmt.Sprintf("available commands: %s", strings.Join(engine.Commands(), ", ")), nil
	})
}

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")
}

// maskSecret masks sensitive information for logging
func maskSecret(s string) string {
	if len(s) <= constants.MinSecretLengthForMasking {
		return "***"
	}
	return s[:constants.SecretMaskPrefixLength] + "***" + s[len(s)-constants.SecretMaskSuffixLength:]
}
