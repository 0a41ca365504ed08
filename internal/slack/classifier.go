package slack

import (
	"github.com/sirupsen/logrus"

	"github.com/keepmind9/slackbridge/pkg/constants"
)

// EventKind is the closed set of recognized inbound event families.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindHello
	KindMessage
	KindReactionAdded
	KindReactionRemoved
	KindUserChange
	KindBotChange
	KindChannelChange
	KindError
)

// kindOf maps an envelope type string onto its event kind. Unrecognized
// types are a normal case, not an error.
func kindOf(eventType string) EventKind {
	switch eventType {
	case "hello":
		return KindHello
	case "message":
		return KindMessage
	case "reaction_added":
		return KindReactionAdded
	case "reaction_removed":
		return KindReactionRemoved
	case "user_change", "team_join":
		return KindUserChange
	case "bot_added", "bot_changed":
		return KindBotChange
	case "channel_created", "channel_rename", "group_rename":
		return KindChannelChange
	case "error":
		return KindError
	default:
		return KindUnknown
	}
}

// Classifier routes inbound event envelopes to their handling strategy.
// Processing is single-threaded per session: each envelope is fully handled
// before the next is read, preserving arrival order for all side effects.
type Classifier struct {
	config     Config
	users      UserDirectory
	rooms      RoomDirectory
	dispatcher *Dispatcher
	bus        EventBus
	control    ControlSender
	log        *logrus.Entry
}

// NewClassifier creates a classifier. The control sender is bound later by
// the stream connection via BindControl.
func NewClassifier(
	config Config,
	users UserDirectory,
	rooms RoomDirectory,
	dispatcher *Dispatcher,
	bus EventBus,
	log *logrus.Entry,
) *Classifier {
	return &Classifier{
		config:     config,
		users:      users,
		rooms:      rooms,
		dispatcher: dispatcher,
		bus:        bus,
		log:        log,
	}
}

// BindControl attaches the live stream connection so the classifier can send
// control frames (presence activation after hello).
func (c *Classifier) BindControl(control ControlSender) {
	c.control = control
}

// Classify dispatches one envelope. It never returns an error: protocol
// oddities are ignored or logged, and the session always continues.
func (c *Classifier) Classify(env EventEnvelope, identity BotIdentity) {
	switch kindOf(env.Type) {
	case KindHello:
		c.handleHello()
	case KindMessage:
		c.handleMessage(env, identity)
	case KindReactionAdded, KindReactionRemoved:
		c.handleReaction(env, identity)
	case KindUserChange:
		c.upsertUserRecord(env.Map("user"))
	case KindBotChange:
		c.upsertUserRecord(env.Map("bot"))
	case KindChannelChange:
		c.upsertRoomRecord(env.Map("channel"))
	case KindError:
		c.handleError(env)
	default:
		// Frames carrying a reply correlation are acknowledgements of our
		// own sends; suppress even the debug log for those.
		if !env.Has("reply_to") {
			c.log.WithField("type", env.Type).Debug("unhandled-event-type")
		}
	}
}

func (c *Classifier) handleHello() {
	c.log.Info("connected-to-slack")
	c.bus.Emit("connected", nil)
	if c.config.SocketMode() && c.control != nil {
		frame := map[string]interface{}{"type": "presence_sub", "presence": "active"}
		if err := c.control.SendControl(frame); err != nil {
			c.log.WithField("error", err).Error("failed-to-send-presence-activation")
		}
	}
}

func (c *Classifier) handleMessage(env EventEnvelope, identity BotIdentity) {
	if subtype := env.Str("subtype"); subtype != "" && !c.config.subtypeSupported(subtype) {
		return
	}
	userID := env.Str("user")
	if userID == constants.SystemBotUserID {
		return
	}
	author := c.ensureUser(userID)
	if author.ID == identity.ID {
		// Self-loopback: the bot seeing its own messages is not an error.
		return
	}
	c.dispatcher.Dispatch(author, env, identity)
}

func (c *Classifier) handleReaction(env EventEnvelope, identity BotIdentity) {
	actorID := env.Str("user")
	c.ensureUser(actorID)
	c.ensureUser(env.Str("item_user"))
	if actorID == identity.ID {
		return
	}
	payload := ReactionPayload{
		UserID:     actorID,
		Name:       env.Str("reaction"),
		ItemUserID: env.Str("item_user"),
		Item:       env.Map("item"),
		EventTS:    env.Str("event_ts"),
	}
	c.bus.Emit("slack_"+env.Type, payload)
}

func (c *Classifier) handleError(env EventEnvelope) {
	details := env.Map("error")
	c.log.WithFields(logrus.Fields{
		"code":    details["code"],
		"message": details["msg"],
	}).Error("slack-reported-error")
}

func (c *Classifier) upsertUserRecord(record map[string]interface{}) {
	if record == nil {
		return
	}
	c.users.UpsertUser(userFromPayload(record))
}

func (c *Classifier) upsertRoomRecord(record map[string]interface{}) {
	if record == nil {
		return
	}
	c.rooms.UpsertRoom(roomFromPayload(record))
}

// ensureUser resolves a user by id, creating a placeholder entry when the
// user is not yet known. Details arrive later via user_change/team_join.
func (c *Classifier) ensureUser(id string) User {
	if id == "" {
		return User{}
	}
	if u, ok := c.users.FindUserByID(id); ok {
		return u
	}
	u := User{ID: id}
	c.users.UpsertUser(u)
	return u
}
