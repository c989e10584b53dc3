package output

import (
	"encoding/json"
	"fmt"

	"github.com/witness-rec/witness/internal/protocol"
)

// CallResult wraps a protocol response for rendering.
type CallResult struct {
	Raw *protocol.Response
}

func NewCallResult(raw *protocol.Response) *CallResult {
	return &CallResult{Raw: raw}
}

// Text renders the payload compactly for terminal output.
func (r *CallResult) Text() string {
	if !r.Raw.OK {
		return r.Raw.Error
	}
	if r.Raw.Payload == nil {
		return "ok"
	}
	if s, ok := r.Raw.Payload.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(r.Raw.Payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", r.Raw.Payload)
	}
	return string(data)
}

// JSON renders the full response envelope.
func (r *CallResult) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Raw, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *CallResult) IsError() bool {
	return !r.Raw.OK
}
