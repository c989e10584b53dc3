package recorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/protocol"
)

func newTestEngine() (*Engine, chan protocol.Event) {
	bus := event.NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	return NewEngine(bus, "", nil), sub
}

func TestEngine_StartStopLifecycle(t *testing.T) {
	engine, sub := newTestEngine()

	session, err := engine.Start(context.Background(), "run", "https://app.example")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "run", session.Name)
	assert.Equal(t, "https://app.example", session.URL)

	// session push first, then the status transition.
	evt := <-sub
	assert.Equal(t, protocol.EventSession, evt.Event)
	payload := evt.Payload.(map[string]interface{})
	assert.Equal(t, session.ID, payload["sessionId"])

	evt = <-sub
	assert.Equal(t, protocol.EventStatus, evt.Event)
	assert.Equal(t, true, evt.Payload.(map[string]interface{})["recording"])

	stopped, err := engine.Stop()
	require.NoError(t, err)
	assert.Equal(t, session.ID, stopped.ID)

	evt = <-sub
	assert.Equal(t, protocol.EventStopped, evt.Event)
	evt = <-sub
	assert.Equal(t, protocol.EventStatus, evt.Event)
	assert.Equal(t, false, evt.Payload.(map[string]interface{})["recording"])
}

func TestEngine_StartWhileRecording(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.Start(context.Background(), "a", "https://x")
	require.NoError(t, err)

	_, err = engine.Start(context.Background(), "b", "https://y")
	assert.ErrorIs(t, err, ErrAlreadyRecording)
}

func TestEngine_StopWithoutSession(t *testing.T) {
	engine, _ := newTestEngine()
	_, err := engine.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestEngine_Status(t *testing.T) {
	engine, _ := newTestEngine()

	status := engine.Status()
	assert.Equal(t, false, status["recording"])
	assert.NotContains(t, status, "session")

	session, err := engine.Start(context.Background(), "run", "https://x")
	require.NoError(t, err)

	status = engine.Status()
	assert.Equal(t, true, status["recording"])
	assert.Equal(t, session, status["session"])
}

func TestEngine_ForwardRepublishesDeclaredEvents(t *testing.T) {
	bus := event.NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	engine := NewEngine(bus, "", nil)

	engine.forward(map[string]interface{}{
		"type":    "event",
		"event":   "screenshot",
		"payload": map[string]interface{}{"path": "shot-001.png"},
	})

	evt := <-sub
	assert.Equal(t, protocol.EventScreenshot, evt.Event)
	assert.Equal(t, int64(1), evt.Seq)
}

func TestEngine_ForwardDropsNonEvents(t *testing.T) {
	bus := event.NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	engine := NewEngine(bus, "", nil)

	engine.forward("plain text line")
	engine.forward(map[string]interface{}{"type": "req", "id": "r1", "method": "ping"})
	// Declared messages with undeclared event kinds are dropped too.
	engine.forward(map[string]interface{}{"type": "event", "event": "liveFrame", "payload": nil})

	assert.Len(t, sub, 0)
}
