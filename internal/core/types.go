package core

// Config represents the complete slackbridge configuration structure
type Config struct {
	Slack   SlackConfig   `yaml:"slack"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// SlackConfig represents the Slack adapter configuration. AppToken being
// set selects socket-mode connection negotiation.
type SlackConfig struct {
	Token                    string   `yaml:"token"`
	AppToken                 string   `yaml:"app_token"`
	Proxy                    string   `yaml:"proxy"`
	Parse                    string   `yaml:"parse"`
	LinkNames                bool     `yaml:"link_names"`
	UnfurlLinks              *bool    `yaml:"unfurl_links"`
	UnfurlMedia              *bool    `yaml:"unfurl_media"`
	SupportedMessageSubtypes []string `yaml:"supported_message_subtypes"`
}

// EngineConfig represents command engine configuration
type EngineConfig struct {
	// ReplyToUnknown controls whether unknown commands in direct messages
	// get a hint reply instead of being silently dropped.
	ReplyToUnknown bool `yaml:"reply_to_unknown"`
}

// LoggingConfig represents log configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	File         string `yaml:"file"`
	MaxSize      int    `yaml:"max_size"`
	MaxBackups   int    `yaml:"max_backups"`
	MaxAge       int    `yaml:"max_age"`
	Compress     bool   `yaml:"compress"`
	EnableStdout bool   `yaml:"enable_stdout"`
}
