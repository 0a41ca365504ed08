package constants

import "time"

// Slack Web API
const (
	// APIBaseURL is the base URL for all Slack Web API methods
	APIBaseURL = "https://slack.com/api/"
	// DefaultHTTPTimeout is the timeout for Web API round trips
	DefaultHTTPTimeout = 30 * time.Second
	// HTTPSuccessStatusCode is the standard HTTP success status code
	HTTPSuccessStatusCode = 200
)

// Platform identifiers
const (
	// SystemBotUserID is the reserved id of Slack's own system bot; messages
	// from it are never dispatched
	SystemBotUserID = "USLACKBOT"
	// DirectMessagePrefix is the leading character of direct-message channel ids
	DirectMessagePrefix = "D"
)

// Stream defaults
const (
	// DefaultHandshakeTimeout is the timeout for the websocket handshake
	DefaultHandshakeTimeout = 10 * time.Second
	// DefaultWriteTimeout is the deadline applied to outbound control frames
	DefaultWriteTimeout = 5 * time.Second
)

// Token masking
const (
	// MinSecretLengthForMasking is the minimum secret length to apply masking
	MinSecretLengthForMasking = 10
	// SecretMaskPrefixLength is the length of prefix to show before masking
	SecretMaskPrefixLength = 7
	// SecretMaskSuffixLength is the length of suffix to show after masking
	SecretMaskSuffixLength = 4
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
