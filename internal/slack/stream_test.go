package slack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWSConn feeds canned frames and records writes.
type fakeWSConn struct {
	frames  [][]byte
	idx     int
	written []map[string]interface{}
	closed  bool
}

func (f *fakeWSConn) ReadMessage() (int, []byte, error) {
	if f.closed || f.idx >= len(f.frames) {
		return 0, nil, errors.New("use of closed network connection")
	}
	frame := f.frames[f.idx]
	f.idx++
	return 1, frame, nil
}

func (f *fakeWSConn) WriteJSON(v interface{}) error {
	frame, ok := v.(map[string]interface{})
	if !ok {
		return errors.New("unexpected frame type")
	}
	f.written = append(f.written, frame)
	return nil
}

func (f *fakeWSConn) Close() error {
	f.closed = true
	return nil
}

func newStreamFixture(socketMode bool) (*Connection, *fakeWSConn, *fakePipeline, *fakeBus) {
	cfg := Config{}
	if socketMode {
		cfg.AppToken = "xapp-1"
	}
	classifier, _, _, pipeline, bus := newTestClassifier(cfg)
	ws := &fakeWSConn{}
	conn := NewConnection(ws, testIdentity, socketMode, classifier, testLogEntry())
	return conn, ws, pipeline, bus
}

func TestHandleFrame_RTMEventIsClassified(t *testing.T) {
	conn, ws, pipeline, _ := newStreamFixture(false)

	conn.handleFrame([]byte(`{"type":"message","user":"U1","channel":"C1","text":"hi","ts":"1.0"}`))

	require.Len(t, pipeline.received, 1)
	assert.Equal(t, "hi", pipeline.received[0].Body)
	assert.Empty(t, ws.written)
}

func TestHandleFrame_SocketModeUnwrapsAndAcks(t *testing.T) {
	conn, ws, pipeline, _ := newStreamFixture(true)

	frame := `{
		"envelope_id": "e-1",
		"type": "events_api",
		"payload": {"event": {"type":"message","user":"U1","channel":"C1","text":"hi","ts":"1.0"}}
	}`
	conn.handleFrame([]byte(frame))

	require.Len(t, pipeline.received, 1)
	assert.Equal(t, "hi", pipeline.received[0].Body)
	require.Len(t, ws.written, 1)
	assert.Equal(t, "e-1", ws.written[0]["envelope_id"])
}

func TestHandleFrame_SocketModeHelloActivatesPresence(t *testing.T) {
	conn, ws, _, bus := newStreamFixture(true)

	conn.handleFrame([]byte(`{"type":"hello"}`))

	require.Len(t, bus.events, 1)
	assert.Equal(t, "connected", bus.events[0].name)
	// The connection itself is the control sender for the presence frame
	require.Len(t, ws.written, 1)
	assert.Equal(t, "presence_sub", ws.written[0]["type"])
}

func TestHandleFrame_MalformedFrameIsDiscarded(t *testing.T) {
	conn, ws, pipeline, bus := newStreamFixture(true)

	conn.handleFrame([]byte(`{not json`))

	assert.Empty(t, pipeline.received)
	assert.Empty(t, bus.events)
	assert.Empty(t, ws.written)
}

func TestHandleFrame_EventsAPIWithoutEventIsDropped(t *testing.T) {
	conn, _, pipeline, _ := newStreamFixture(true)

	conn.handleFrame([]byte(`{"envelope_id":"e-2","type":"events_api","payload":{}}`))

	assert.Empty(t, pipeline.received)
}

func TestRun_ProcessesFramesUntilReadError(t *testing.T) {
	conn, ws, pipeline, _ := newStreamFixture(false)
	ws.frames = [][]byte{
		[]byte(`{"type":"message","user":"U1","channel":"C1","text":"one","ts":"1"}`),
		[]byte(`{"type":"message","user":"U1","channel":"C1","text":"two","ts":"2"}`),
	}

	err := conn.Run()
	require.Error(t, err)
	assert.Len(t, pipeline.received, 2)
}

func TestRun_ReturnsNilAfterStop(t *testing.T) {
	conn, ws, _, _ := newStreamFixture(false)

	conn.Stop()
	assert.True(t, ws.closed)
	assert.NoError(t, conn.Run())

	// Stop is idempotent
	conn.Stop()
}
