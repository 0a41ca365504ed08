package core

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/keepmind9/slackbridge/internal/slack"
)

// Responder posts replies back to Slack channels. *slack.Client satisfies
// it; tests inject fakes.
type Responder interface {
	SendMessages(channelID string, messages []string) error
}

// CommandFunc handles one named command. The returned string, if any, is
// posted back to the originating channel.
type CommandFunc func(args []string, msg slack.NormalizedMessage) (string, error)

// SignalFunc handles one named adapter signal.
type SignalFunc func(payload interface{})

// Engine is the command pipeline the Slack adapter feeds. It implements
// slack.MessagePipeline for normalized messages and slack.EventBus for
// adapter signals.
type Engine struct {
	mu          sync.RWMutex
	handlers    map[string]CommandFunc
	subscribers map[string][]SignalFunc
	responder   Responder
	config      EngineConfig
	botName     string
	log         *logrus.Entry
}

// NewEngine creates an engine posting replies through the given responder.
func NewEngine(config EngineConfig, responder Responder, log *logrus.Entry) *Engine {
	return &Engine{
		handlers:    make(map[string]CommandFunc),
		subscribers: make(map[string][]SignalFunc),
		responder:   responder,
		config:      config,
		log:         log,
	}
}

// SetBotName tells the engine the bot's mention name so a leading bare-name
// address ("name, do this") is stripped before command routing.
func (e *Engine) SetBotName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.botName = name
}

// RegisterCommand registers a handler for a command word (case-insensitive).
func (e *Engine) RegisterCommand(name string, fn CommandFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[strings.ToLower(name)] = fn
}

// Commands returns the sorted-insertion list of registered command names.
func (e *Engine) Commands() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	return names
}

// Subscribe registers a handler for a named adapter signal.
func (e *Engine) Subscribe(name string, fn SignalFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers[name] = append(e.subscribers[name], fn)
}

// Receive implements slack.MessagePipeline. Ambient chatter is dropped;
// addressed messages are routed to their command handler.
func (e *Engine) Receive(msg slack.NormalizedMessage) {
	if !msg.Command {
		e.log.WithFields(logrus.Fields{
			"user": msg.UserID,
			"room": msg.RoomID,
		}).Debug("ignoring-ambient-message")
		return
	}

	name, args := e.splitCommand(msg.Body)
	if name == "" {
		return
	}

	e.mu.RLock()
	handler, ok := e.handlers[name]
	e.mu.RUnlock()
	if !ok {
		e.log.WithField("command", name).Debug("unknown-command")
		if msg.Private && e.config.ReplyToUnknown {
			e.reply(msg.RoomID, fmt.Sprintf("unknown command: %s (try help)", name))
		}
		return
	}

	reply, err := handler(args, msg)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"command": name,
			"error":   err,
		}).Error("command-failed")
		e.reply(msg.RoomID, fmt.Sprintf("command %s failed: %v", name, err))
		return
	}
	if reply != "" {
		e.reply(msg.RoomID, reply)
	}
}

// Emit implements slack.EventBus: log the signal and fan it out to
// subscribers in registration order.
func (e *Engine) Emit(name string, payload interface{}) {
	e.log.WithField("signal", name).Debug("signal-emitted")
	e.mu.RLock()
	subs := e.subscribers[name]
	e.mu.RUnlock()
	for _, fn := range subs {
		fn(payload)
	}
}

func (e *Engine) reply(channelID, text string) {
	if e.responder == nil {
		return
	}
	if err := e.responder.SendMessages(channelID, []string{text}); err != nil {
		e.log.WithFields(logrus.Fields{
			"channel": channelID,
			"error":   err,
		}).Error("failed-to-send-reply")
	}
}

// splitCommand extracts the command word and arguments from a message body.
// A leading address of the bot (the "@name" the resolver leaves behind, or
// the bare mention name with an optional trailing comma or colon) is
// skipped first.
func (e *Engine) splitCommand(body string) (string, []string) {
	e.mu.RLock()
	botName := strings.ToLower(e.botName)
	e.mu.RUnlock()

	fields := strings.Fields(body)
	if len(fields) > 0 {
		head := strings.ToLower(strings.Trim(fields[0], "@,:"))
		if strings.HasPrefix(fields[0], "@") || (botName != "" && head == botName) {
			fields = fields[1:]
		}
	}
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
