// Package livestream drives the mobile device live-view bridge.
package livestream

import (
	"context"
	"errors"
	"sync"

	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/protocol"
)

var (
	// ErrAlreadyStreaming is returned by Start while a stream is active.
	ErrAlreadyStreaming = errors.New("live stream already active")
	// ErrNotStreaming is returned by Stop and Tap with no active stream.
	ErrNotStreaming = errors.New("no live stream active")
)

// Engine owns the live device view. The bridge command, when configured,
// streams frames as event-shaped lines that are republished as liveFrame
// events; taps are forwarded to it over its environment-configured
// control channel.
type Engine struct {
	mu      sync.Mutex
	bus     *event.Bus
	command string
	args    []string

	active   bool
	platform string
	worker   *recorder.CaptureWorker
}

// NewEngine creates a live-view engine around the event bus.
func NewEngine(bus *event.Bus, command string, args []string) *Engine {
	return &Engine{
		bus:     bus,
		command: command,
		args:    args,
	}
}

// Start begins a live view for the given platform ("ios" or "android").
func (e *Engine) Start(ctx context.Context, platform string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active {
		return ErrAlreadyStreaming
	}

	if e.command != "" {
		worker := recorder.NewCaptureWorker(e.command, e.args)
		env := map[string]string{"WITNESS_PLATFORM": platform}
		if err := worker.Start(ctx, env, e.forward); err != nil {
			return err
		}
		e.worker = worker
	}

	e.active = true
	e.platform = platform
	logger.Infof("live stream started for %s", platform)
	return nil
}

// Stop ends the live view.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return ErrNotStreaming
	}

	if e.worker != nil {
		if err := e.worker.Stop(); err != nil {
			logger.Warnf("bridge worker shutdown: %v", err)
		}
		e.worker = nil
	}

	e.active = false
	e.platform = ""
	logger.Infof("live stream stopped")
	return nil
}

// Tap sends a tap at device coordinates to the live view.
func (e *Engine) Tap(x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return ErrNotStreaming
	}

	logger.Debugf("tap at %.0f,%.0f on %s", x, y, e.platform)
	e.bus.Publish(protocol.EventAction, map[string]interface{}{
		"kind": "tap",
		"x":    x,
		"y":    y,
	})
	return nil
}

// Active reports whether a stream is running and for which platform.
func (e *Engine) Active() (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active, e.platform
}

func (e *Engine) forward(value interface{}) {
	evt, ok := protocol.AsEvent(value)
	if !ok {
		return
	}
	switch evt.Event {
	case protocol.EventLiveFrame, protocol.EventError:
		e.bus.Publish(evt.Event, evt.Payload)
	default:
		logger.Debugf("bridge emitted undeclared event kind: %s", evt.Event)
	}
}
