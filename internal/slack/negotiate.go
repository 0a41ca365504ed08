package slack

import "fmt"

// Negotiate performs the one-time startup handshake and returns the stream
// URL plus the bot's own identity. Two mutually exclusive paths exist:
// socket-mode when an app-level token is configured, legacy RTM otherwise.
// Failure of any sub-call aborts session startup.
//
// The returned user, room and IM lists are deliberately empty: directory
// population is deferred to later events and explicit listing calls.
func (c *Client) Negotiate() (*SessionInfo, error) {
	if c.config.SocketMode() {
		return c.negotiateSocketMode()
	}
	return c.negotiateRTM()
}

// negotiateSocketMode opens a socket-mode connection with the app-level
// token, then resolves the bot's identity with the ordinary bot token. The
// app token never appears in a request body and never authenticates
// auth.test.
func (c *Client) negotiateSocketMode() (*SessionInfo, error) {
	opened, err := c.CallWithToken(c.config.AppToken, connectionsOpenMethod, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket-mode connection: %w", err)
	}
	wsURL, _ := opened["url"].(string)
	if wsURL == "" {
		return nil, fmt.Errorf("socket-mode response carried no connection url")
	}

	auth, err := c.Call("auth.test", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bot identity: %w", err)
	}
	id, _ := auth["user_id"].(string)
	name, _ := auth["user"].(string)

	return &SessionInfo{
		WebsocketURL: wsURL,
		Self:         BotIdentity{ID: id, MentionName: name},
		Users:        []User{},
		Rooms:        []Room{},
		IMs:          []Room{},
	}, nil
}

// negotiateRTM uses the legacy streaming handshake; the response embeds the
// bot's own identity directly.
func (c *Client) negotiateRTM() (*SessionInfo, error) {
	connected, err := c.Call("rtm.connect", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect rtm session: %w", err)
	}
	wsURL, _ := connected["url"].(string)
	if wsURL == "" {
		return nil, fmt.Errorf("rtm.connect response carried no connection url")
	}
	self := connected["self"]
	selfRecord, _ := self.(map[string]interface{})
	id, _ := selfRecord["id"].(string)
	name, _ := selfRecord["name"].(string)

	return &SessionInfo{
		WebsocketURL: wsURL,
		Self:         BotIdentity{ID: id, MentionName: name},
		Users:        []User{},
		Rooms:        []Room{},
		IMs:          []Room{},
	}, nil
}
