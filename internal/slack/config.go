package slack

// Config holds the adapter options recognized by the client, the stream and
// the classifier. cmd/slackbridge fills it from the YAML configuration.
type Config struct {
	// Token is the default bot credential merged into Web API call bodies.
	Token string
	// AppToken, when set, selects socket-mode connection negotiation.
	AppToken string
	// Proxy is an optional outbound proxy URL for HTTP and websocket.
	Proxy string

	// Per-send formatting options for chat.postMessage.
	Parse       string
	LinkNames   bool
	UnfurlLinks *bool
	UnfurlMedia *bool

	// SupportedMessageSubtypes lists the message subtypes to dispatch in
	// addition to the built-in "me_message" default.
	SupportedMessageSubtypes []string
}

// SocketMode reports whether the session negotiates via apps.connections.open.
func (c Config) SocketMode() bool {
	return c.AppToken != ""
}

// subtypeSupported merges the configured subtype list with the built-in
// "me_message" default.
func (c Config) subtypeSupported(subtype string) bool {
	if subtype == "me_message" {
		return true
	}
	for _, s := range c.SupportedMessageSubtypes {
		if s == subtype {
			return true
		}
	}
	return false
}
