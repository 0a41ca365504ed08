package slack

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/keepmind9/slackbridge/pkg/constants"
)

// Dispatcher builds a NormalizedMessage from a classified message event and
// forwards it to the pipeline. Fire and forget: the pipeline owns the
// message after the hand-off.
type Dispatcher struct {
	rooms    RoomDirectory
	resolver *Resolver
	pipeline MessagePipeline
	log      *logrus.Entry
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(rooms RoomDirectory, resolver *Resolver, pipeline MessagePipeline, log *logrus.Entry) *Dispatcher {
	return &Dispatcher{rooms: rooms, resolver: resolver, pipeline: pipeline, log: log}
}

// Dispatch normalizes one message event. The raw (unresolved) text drives
// mention detection; the resolved text becomes the message body.
func (d *Dispatcher) Dispatch(author User, env EventEnvelope, identity BotIdentity) {
	channelID := env.Str("channel")
	roomID := channelID
	if room, ok := d.rooms.FindRoomByID(channelID); ok {
		roomID = room.ID
	}

	rawText := env.Str("text")
	private := strings.HasPrefix(channelID, constants.DirectMessagePrefix)
	msg := NormalizedMessage{
		Body:      d.resolver.ResolveMessage(rawText, attachmentsFromEnvelope(env)),
		UserID:    author.ID,
		RoomID:    roomID,
		Private:   private,
		Command:   private || Addressed(rawText, identity),
		Timestamp: env.Str("ts"),
	}

	d.log.WithFields(logrus.Fields{
		"user":    msg.UserID,
		"room":    msg.RoomID,
		"command": msg.Command,
		"private": msg.Private,
	}).Debug("dispatching-message")
	d.pipeline.Receive(msg)
}
