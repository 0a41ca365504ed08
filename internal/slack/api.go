package slack

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SendMessages posts one or more plain-text messages to a channel as the
// bot, joined into a single chat.postMessage call. The configured
// formatting options (parse, link_names, unfurl_links, unfurl_media) apply.
func (c *Client) SendMessages(channelID string, messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	params := map[string]string{
		"channel": channelID,
		"text":    strings.Join(messages, "\n"),
		"as_user": "true",
	}
	c.applyPostOptions(params)
	_, err := c.Call("chat.postMessage", params)
	return err
}

// SendAttachments posts rich attachments to a channel.
func (c *Client) SendAttachments(channelID string, attachments []Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}
	params := map[string]string{
		"channel":     channelID,
		"attachments": string(encoded),
		"as_user":     "true",
	}
	_, err = c.Call("chat.postMessage", params)
	return err
}

// SetTopic sets a channel's topic.
func (c *Client) SetTopic(channelID, topic string) error {
	_, err := c.Call("channels.setTopic", map[string]string{
		"channel": channelID,
		"topic":   topic,
	})
	return err
}

// OpenDirectChannel opens (or resumes) a direct-message channel with a user
// and returns its channel id.
func (c *Client) OpenDirectChannel(userID string) (string, error) {
	body, err := c.Call("conversations.open", map[string]string{"user": userID})
	if err != nil {
		return "", err
	}
	channel, _ := body["channel"].(map[string]interface{})
	id, _ := channel["id"].(string)
	if id == "" {
		return "", fmt.Errorf("conversations.open response carried no channel id")
	}
	return id, nil
}

// ChannelInfo fetches a single channel record.
func (c *Client) ChannelInfo(channelID string) (Room, error) {
	body, err := c.Call("channels.info", map[string]string{"channel": channelID})
	if err != nil {
		return Room{}, err
	}
	record, _ := body["channel"].(map[string]interface{})
	if record == nil {
		return Room{}, fmt.Errorf("channels.info response carried no channel record")
	}
	return roomFromPayload(record), nil
}

// ListUsers fetches the full user roster for deferred directory hydration.
func (c *Client) ListUsers() ([]User, error) {
	body, err := c.Call("users.list", nil)
	if err != nil {
		return nil, err
	}
	raw, _ := body["members"].([]interface{})
	users := make([]User, 0, len(raw))
	for _, entry := range raw {
		if record, ok := entry.(map[string]interface{}); ok {
			users = append(users, userFromPayload(record))
		}
	}
	return users, nil
}

// ListChannels fetches public channels.
func (c *Client) ListChannels() ([]Room, error) { return c.listRooms("channels.list", "channels") }

// ListGroups fetches private groups.
func (c *Client) ListGroups() ([]Room, error) { return c.listRooms("groups.list", "groups") }

// ListMpims fetches multi-party direct channels.
func (c *Client) ListMpims() ([]Room, error) { return c.listRooms("mpim.list", "groups") }

// ListIMs fetches direct-message channels.
func (c *Client) ListIMs() ([]Room, error) { return c.listRooms("im.list", "ims") }

func (c *Client) listRooms(method, key string) ([]Room, error) {
	body, err := c.Call(method, nil)
	if err != nil {
		return nil, err
	}
	raw, _ := body[key].([]interface{})
	rooms := make([]Room, 0, len(raw))
	for _, entry := range raw {
		if record, ok := entry.(map[string]interface{}); ok {
			rooms = append(rooms, roomFromPayload(record))
		}
	}
	return rooms, nil
}

// applyPostOptions merges the configured formatting options into
// chat.postMessage params. link_names is a boolean on our side but Slack
// expects 0/1.
func (c *Client) applyPostOptions(params map[string]string) {
	if c.config.Parse != "" {
		params["parse"] = c.config.Parse
	}
	if c.config.LinkNames {
		params["link_names"] = "1"
	}
	if c.config.UnfurlLinks != nil {
		params["unfurl_links"] = fmt.Sprintf("%t", *c.config.UnfurlLinks)
	}
	if c.config.UnfurlMedia != nil {
		params["unfurl_media"] = fmt.Sprintf("%t", *c.config.UnfurlMedia)
	}
}
