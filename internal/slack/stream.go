package slack

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/keepmind9/slackbridge/pkg/constants"
)

// wsConn is the subset of *websocket.Conn the stream loop needs. Tests
// inject a mock instead of dialing a live endpoint.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Connection owns one persistent event stream. Inbound frames are decoded,
// unwrapped (socket-mode) and classified strictly in arrival order.
type Connection struct {
	conn       wsConn
	classifier *Classifier
	identity   BotIdentity
	socketMode bool
	log        *logrus.Entry

	writeMu  sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
}

// Dial connects to the negotiated stream URL and binds the connection to
// the classifier as its control sender.
func Dial(session *SessionInfo, config Config, classifier *Classifier, log *logrus.Entry) (*Connection, error) {
	dialer := websocket.Dialer{HandshakeTimeout: constants.DefaultHandshakeTimeout}
	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", config.Proxy, err)
		}
		dialer.Proxy = http.ProxyURL(proxyURL)
	}
	conn, _, err := dialer.Dial(session.WebsocketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial event stream: %w", err)
	}
	log.WithField("socket_mode", config.SocketMode()).Info("event-stream-connected")
	return NewConnection(conn, session.Self, config.SocketMode(), classifier, log), nil
}

// NewConnection wraps an established websocket connection.
func NewConnection(conn wsConn, identity BotIdentity, socketMode bool, classifier *Classifier, log *logrus.Entry) *Connection {
	c := &Connection{
		conn:       conn,
		classifier: classifier,
		identity:   identity,
		socketMode: socketMode,
		log:        log,
		stopChan:   make(chan struct{}),
	}
	classifier.BindControl(c)
	return c
}

// Run reads frames until the connection closes. A read error after Stop is
// a normal shutdown, not a failure.
func (c *Connection) Run() error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopChan:
				return nil
			default:
				return fmt.Errorf("event stream read failed: %w", err)
			}
		}
		c.handleFrame(data)
	}
}

// handleFrame decodes one frame and routes it through the classifier.
// Socket-mode envelopes are acknowledged and their events_api payloads
// unwrapped before classification.
func (c *Connection) handleFrame(data []byte) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		c.log.WithField("error", err).Warn("discarding-malformed-frame")
		return
	}

	if c.socketMode {
		if envelopeID, _ := fields["envelope_id"].(string); envelopeID != "" {
			ack := map[string]interface{}{"envelope_id": envelopeID}
			if err := c.SendControl(ack); err != nil {
				c.log.WithField("error", err).Warn("failed-to-ack-envelope")
			}
		}
		if frameType, _ := fields["type"].(string); frameType == "events_api" {
			payload, _ := fields["payload"].(map[string]interface{})
			event, ok := payload["event"].(map[string]interface{})
			if !ok {
				return
			}
			fields = event
		}
	}

	c.classifier.Classify(NewEnvelope(fields), c.identity)
}

// SendControl writes one control frame. Writes are serialized; reads stay
// on the Run goroutine.
func (c *Connection) SendControl(frame map[string]interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(frame)
}

// Stop closes the stream; a blocked Run returns nil afterwards.
func (c *Connection) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		if err := c.conn.Close(); err != nil {
			c.log.WithField("error", err).Debug("error-closing-stream")
		}
	})
}
