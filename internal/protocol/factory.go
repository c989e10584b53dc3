package protocol

import (
	"time"

	"github.com/google/uuid"
)

// NewRequest builds a Request for a catalog method with a fresh
// globally-unique correlation id.
func NewRequest(method Method, params map[string]interface{}) Request {
	if params == nil {
		params = map[string]interface{}{}
	}
	return Request{
		Type:   TypeRequest,
		ID:     uuid.NewString(),
		Method: method,
		Params: params,
	}
}

// NewSuccessResponse builds an ok response carrying a payload. Error is
// structurally absent.
func NewSuccessResponse(id string, payload interface{}) Response {
	return Response{
		Type:    TypeResponse,
		ID:      id,
		OK:      true,
		Payload: payload,
	}
}

// NewErrorResponse builds a failed response carrying a descriptive error.
// Payload is structurally absent.
func NewErrorResponse(id string, message string) Response {
	return Response{
		Type:  TypeResponse,
		ID:    id,
		OK:    false,
		Error: message,
	}
}

// NewEvent builds an Event stamped with the current wall-clock time.
// Seq is left unset; the event bus assigns it at publish time.
func NewEvent(name EventName, payload interface{}) Event {
	return Event{
		Type:      TypeEvent,
		Event:     name,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewSequencedEvent builds an Event carrying an explicit sequence number.
// The seq must come from the owning Sequencer at call time for the
// ordering guarantee to hold.
func NewSequencedEvent(name EventName, payload interface{}, seq int64) Event {
	evt := NewEvent(name, payload)
	evt.Seq = seq
	return evt
}
