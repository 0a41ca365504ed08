package slack

import (
	"io"

	"github.com/sirupsen/logrus"
)

// fakePipeline records every normalized message it receives.
type fakePipeline struct {
	received []NormalizedMessage
}

func (f *fakePipeline) Receive(msg NormalizedMessage) {
	f.received = append(f.received, msg)
}

type busEvent struct {
	name    string
	payload interface{}
}

// fakeBus records every emitted signal.
type fakeBus struct {
	events []busEvent
}

func (f *fakeBus) Emit(name string, payload interface{}) {
	f.events = append(f.events, busEvent{name: name, payload: payload})
}

// fakeControl records control frames sent over the stream.
type fakeControl struct {
	frames []map[string]interface{}
	err    error
}

func (f *fakeControl) SendControl(frame map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, frame)
	return nil
}

func testLogEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// newTestClassifier wires a classifier over fresh in-memory directories and
// recording fakes.
func newTestClassifier(cfg Config) (*Classifier, *MemoryUserDirectory, *MemoryRoomDirectory, *fakePipeline, *fakeBus) {
	users := NewMemoryUserDirectory()
	rooms := NewMemoryRoomDirectory()
	pipeline := &fakePipeline{}
	bus := &fakeBus{}
	resolver := NewResolver(users, rooms)
	dispatcher := NewDispatcher(rooms, resolver, pipeline, testLogEntry())
	classifier := NewClassifier(cfg, users, rooms, dispatcher, bus, testLogEntry())
	return classifier, users, rooms, pipeline, bus
}
