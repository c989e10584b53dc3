// Package protocol defines the typed wire messages exchanged with gateway
// clients: correlated requests and responses plus uncorrelated server pushes.
package protocol

// Type discriminates the three message variants.
type Type string

const (
	TypeRequest  Type = "req"
	TypeResponse Type = "res"
	TypeEvent    Type = "event"
)

// Request is a client-initiated call. The id is a caller-generated opaque
// correlation token, unique per in-flight call.
type Request struct {
	Type   Type                   `json:"type"`
	ID     string                 `json:"id"`
	Method Method                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

// Response answers exactly one Request, identified by the copied id.
// Exactly one of Payload and Error is present, selected by OK.
type Response struct {
	Type    Type        `json:"type"`
	ID      string      `json:"id"`
	OK      bool        `json:"ok"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Event is a server-initiated push. It carries no correlation id, only a
// rising sequence number and a wall-clock millisecond timestamp.
type Event struct {
	Type      Type        `json:"type"`
	Event     EventName   `json:"event"`
	Payload   interface{} `json:"payload"`
	Seq       int64       `json:"seq,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// IsRequest reports whether a decoded value is structurally a Request:
// the discriminant literal plus string id and method. Pure, never panics.
func IsRequest(value interface{}) bool {
	obj, ok := value.(map[string]interface{})
	if !ok || obj["type"] != string(TypeRequest) {
		return false
	}
	if _, ok := obj["id"].(string); !ok {
		return false
	}
	_, ok = obj["method"].(string)
	return ok
}

// IsResponse reports whether a decoded value is structurally a Response.
func IsResponse(value interface{}) bool {
	obj, ok := value.(map[string]interface{})
	if !ok || obj["type"] != string(TypeResponse) {
		return false
	}
	if _, ok := obj["id"].(string); !ok {
		return false
	}
	_, ok = obj["ok"].(bool)
	return ok
}

// IsEvent reports whether a decoded value is structurally an Event.
func IsEvent(value interface{}) bool {
	obj, ok := value.(map[string]interface{})
	if !ok || obj["type"] != string(TypeEvent) {
		return false
	}
	_, ok = obj["event"].(string)
	return ok
}

// AsRequest converts a decoded value into a Request. The second return is
// false when the value does not classify as a Request.
func AsRequest(value interface{}) (Request, bool) {
	if !IsRequest(value) {
		return Request{}, false
	}
	obj := value.(map[string]interface{})
	req := Request{
		Type:   TypeRequest,
		ID:     obj["id"].(string),
		Method: Method(obj["method"].(string)),
	}
	if params, ok := obj["params"].(map[string]interface{}); ok {
		req.Params = params
	}
	return req, true
}

// AsEvent converts a decoded value into an Event. The second return is
// false when the value does not classify as an Event.
func AsEvent(value interface{}) (Event, bool) {
	if !IsEvent(value) {
		return Event{}, false
	}
	obj := value.(map[string]interface{})
	evt := Event{
		Type:    TypeEvent,
		Event:   EventName(obj["event"].(string)),
		Payload: obj["payload"],
	}
	if seq, ok := obj["seq"].(float64); ok {
		evt.Seq = int64(seq)
	}
	if ts, ok := obj["timestamp"].(float64); ok {
		evt.Timestamp = int64(ts)
	}
	return evt, true
}
