package recorder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/protocol"
)

var (
	// ErrAlreadyRecording is returned by Start while a session is active.
	ErrAlreadyRecording = errors.New("recording already in progress")
	// ErrNotRecording is returned by Stop when no session is active.
	ErrNotRecording = errors.New("no recording in progress")
)

// Session describes one capture session.
type Session struct {
	ID        string `json:"sessionId"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	StartedAt string `json:"startedAt"`
}

// Engine owns the capture session lifecycle. At most one session is
// active at a time. Capture progress reported by the external worker is
// republished on the event bus; the engine does not interpret it beyond
// classifying event-shaped lines.
type Engine struct {
	mu      sync.Mutex
	bus     *event.Bus
	command string
	args    []string

	recording bool
	session   Session
	worker    *CaptureWorker
}

// NewEngine creates a recorder around the event bus. command may be
// empty, in which case sessions are tracked without an external process.
func NewEngine(bus *event.Bus, command string, args []string) *Engine {
	return &Engine{
		bus:     bus,
		command: command,
		args:    args,
	}
}

// Start begins a capture session against the given app URL.
func (e *Engine) Start(ctx context.Context, name, url string) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recording {
		return Session{}, ErrAlreadyRecording
	}

	session := Session{
		ID:        uuid.NewString(),
		Name:      name,
		URL:       url,
		StartedAt: time.Now().Format(time.RFC3339),
	}

	if e.command != "" {
		worker := NewCaptureWorker(e.command, e.args)
		env := map[string]string{
			"WITNESS_SESSION_ID":  session.ID,
			"WITNESS_TARGET_URL":  url,
			"WITNESS_SESSION_TAG": name,
		}
		if err := worker.Start(ctx, env, e.forward); err != nil {
			return Session{}, err
		}
		e.worker = worker
	}

	e.recording = true
	e.session = session
	logger.Infof("capture session %s started for %s", session.ID, url)

	e.bus.Publish(protocol.EventSession, map[string]interface{}{"sessionId": session.ID})
	e.bus.Publish(protocol.EventStatus, e.statusPayload())
	return session, nil
}

// Stop ends the active session and finalizes its artifacts.
func (e *Engine) Stop() (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.recording {
		return Session{}, ErrNotRecording
	}

	if e.worker != nil {
		if err := e.worker.Stop(); err != nil {
			logger.Warnf("capture worker shutdown: %v", err)
		}
		e.worker = nil
	}

	session := e.session
	e.recording = false
	e.session = Session{}
	logger.Infof("capture session %s stopped", session.ID)

	e.bus.Publish(protocol.EventStopped, map[string]interface{}{"sessionId": session.ID})
	e.bus.Publish(protocol.EventStatus, e.statusPayload())
	return session, nil
}

// Status reports the recorder state and the active session, if any.
func (e *Engine) Status() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusPayload()
}

func (e *Engine) statusPayload() map[string]interface{} {
	payload := map[string]interface{}{"recording": e.recording}
	if e.recording {
		payload["session"] = e.session
	}
	return payload
}

// forward republishes event-shaped worker output on the bus. Anything
// that does not classify as an event is dropped.
func (e *Engine) forward(value interface{}) {
	evt, ok := protocol.AsEvent(value)
	if !ok {
		logger.Debugf("capture worker emitted non-event output")
		return
	}
	switch evt.Event {
	case protocol.EventAction, protocol.EventScreenshot, protocol.EventError:
		e.bus.Publish(evt.Event, evt.Payload)
	default:
		logger.Debugf("capture worker emitted undeclared event kind: %s", evt.Event)
	}
}
