// Package slack implements the Slack side of slackbridge: it classifies
// inbound real-time events, resolves Slack markup into plain text, decides
// whether a message addresses the bot, and hands normalized messages to the
// command pipeline. The outbound side negotiates the streaming connection
// (socket-mode or legacy RTM) and issues authenticated Web API calls.
package slack

// EventEnvelope is one inbound frame from the event stream, tagged by its
// type field. It is constructed once per frame and discarded after handling.
type EventEnvelope struct {
	Type   string
	Fields map[string]interface{}
}

// NewEnvelope builds an envelope from a decoded JSON frame.
func NewEnvelope(fields map[string]interface{}) EventEnvelope {
	typ, _ := fields["type"].(string)
	return EventEnvelope{Type: typ, Fields: fields}
}

// Str returns the named field as a string, or "" if absent or not a string.
func (e EventEnvelope) Str(key string) string {
	s, _ := e.Fields[key].(string)
	return s
}

// Map returns the named field as an object, or nil if absent.
func (e EventEnvelope) Map(key string) map[string]interface{} {
	m, _ := e.Fields[key].(map[string]interface{})
	return m
}

// Has reports whether the named field is present at all.
func (e EventEnvelope) Has(key string) bool {
	_, ok := e.Fields[key]
	return ok
}

// BotIdentity is the bot's own identity as reported during connection
// negotiation. Read-only for the lifetime of the session.
type BotIdentity struct {
	ID          string
	MentionName string
}

// User is a directory entry for a workspace user (bots included).
type User struct {
	ID       string
	Name     string
	RealName string
}

// Room is a directory entry for a channel, group or DM.
type Room struct {
	ID   string
	Name string
}

// NormalizedMessage is the platform-independent message handed to the
// command pipeline. Ownership transfers on hand-off.
type NormalizedMessage struct {
	Body      string
	UserID    string
	RoomID    string
	Private   bool
	Command   bool
	Timestamp string
}

// ReactionPayload carries a reaction_added/reaction_removed event to the
// event bus.
type ReactionPayload struct {
	UserID     string
	Name       string
	ItemUserID string
	Item       map[string]interface{}
	EventTS    string
}

// Attachment is the subset of a Slack message attachment the bridge uses:
// inbound, text/fallback contribute extra message lines; outbound, the
// struct serializes into chat.postMessage attachments.
type Attachment struct {
	Text      string `json:"text,omitempty"`
	Fallback  string `json:"fallback,omitempty"`
	Title     string `json:"title,omitempty"`
	TitleLink string `json:"title_link,omitempty"`
	Color     string `json:"color,omitempty"`
	Pretext   string `json:"pretext,omitempty"`
}

// SessionInfo is the result of connection negotiation. The empty lists
// signal that directory population is deferred to later events and explicit
// listing calls rather than hydrated at startup.
type SessionInfo struct {
	WebsocketURL string
	Self         BotIdentity
	Users        []User
	Rooms        []Room
	IMs          []Room
}

// MessagePipeline receives normalized messages. The production pipeline is
// the command engine; tests inject fakes.
type MessagePipeline interface {
	Receive(msg NormalizedMessage)
}

// EventBus receives named signals emitted by the classifier: "connected",
// "slack_reaction_added" and "slack_reaction_removed".
type EventBus interface {
	Emit(name string, payload interface{})
}

// ControlSender writes a control frame to the live stream connection.
type ControlSender interface {
	SendControl(frame map[string]interface{}) error
}

// attachmentsFromEnvelope extracts inbound attachments from a message event.
func attachmentsFromEnvelope(env EventEnvelope) []Attachment {
	raw, _ := env.Fields["attachments"].([]interface{})
	if len(raw) == 0 {
		return nil
	}
	atts := make([]Attachment, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		var a Attachment
		a.Text, _ = m["text"].(string)
		a.Fallback, _ = m["fallback"].(string)
		atts = append(atts, a)
	}
	return atts
}
