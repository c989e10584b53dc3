package protocol

import (
	"github.com/witness-rec/witness/internal/schema"
)

// Method names the operations a gateway client may call. The catalog is
// closed: no method outside it is valid.
type Method string

const (
	MethodPing            Method = "ping"
	MethodRecorderStart   Method = "recorder.start"
	MethodRecorderStop    Method = "recorder.stop"
	MethodRecorderStatus  Method = "recorder.status"
	MethodLiveStreamStart Method = "liveStream.start"
	MethodLiveStreamStop  Method = "liveStream.stop"
	MethodLiveStreamTap   Method = "liveStream.tap"
	MethodProjectList     Method = "project.list"
	MethodProjectGet      Method = "project.get"
	MethodProjectCreate   Method = "project.create"
	MethodProjectDelete   Method = "project.delete"
)

// EventName names the server-push event kinds.
type EventName string

const (
	EventAction     EventName = "action"
	EventScreenshot EventName = "screenshot"
	EventStatus     EventName = "status"
	EventStopped    EventName = "stopped"
	EventSession    EventName = "session"
	EventLiveFrame  EventName = "liveFrame"
	EventError      EventName = "error"
	EventConnected  EventName = "connected"
)

// MethodSpec declares the parameter and result shapes of one method.
type MethodSpec struct {
	Description string
	Params      *schema.Shape
	Result      *schema.Shape
}

var emptyParams = schema.ClosedObject(map[string]*schema.Shape{})

// MethodCatalog is the closed, static map of legal methods.
var MethodCatalog = map[Method]MethodSpec{
	MethodPing: {
		Description: "Liveness check; echoes back a pong payload.",
		Params:      emptyParams,
		Result:      schema.Object(map[string]*schema.Shape{"pong": schema.Boolean()}, "pong"),
	},
	MethodRecorderStart: {
		Description: "Starts an evidence-capture session against the given app URL.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"name": schema.String(),
			"url":  schema.String(),
		}, "name", "url"),
		Result: schema.Object(map[string]*schema.Shape{"sessionId": schema.String()}),
	},
	MethodRecorderStop: {
		Description: "Stops the active capture session and finalizes its artifacts.",
		Params:      emptyParams,
		Result:      schema.Object(nil),
	},
	MethodRecorderStatus: {
		Description: "Reports the recorder state and the active session, if any.",
		Params:      emptyParams,
		Result:      schema.Object(map[string]*schema.Shape{"recording": schema.Boolean()}),
	},
	MethodLiveStreamStart: {
		Description: "Starts a live device view for the given mobile platform.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"platform": schema.Enum("ios", "android"),
		}, "platform"),
		Result: schema.Object(nil),
	},
	MethodLiveStreamStop: {
		Description: "Stops the live device view.",
		Params:      emptyParams,
		Result:      schema.Object(nil),
	},
	MethodLiveStreamTap: {
		Description: "Sends a tap at device coordinates to the live view.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"x": schema.Number(),
			"y": schema.Number(),
		}, "x", "y"),
		Result: schema.Object(nil),
	},
	MethodProjectList: {
		Description: "Lists all evidence projects.",
		Params:      emptyParams,
		Result:      schema.Object(map[string]*schema.Shape{"projects": schema.Array(schema.Object(nil))}),
	},
	MethodProjectGet: {
		Description: "Fetches a single project by id.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"id": schema.String(),
		}, "id"),
		Result: schema.Object(nil),
	},
	MethodProjectCreate: {
		Description: "Creates a new evidence project.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"name": schema.String(),
		}, "name"),
		Result: schema.Object(map[string]*schema.Shape{"id": schema.String()}),
	},
	MethodProjectDelete: {
		Description: "Deletes a project by id.",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"id": schema.String(),
		}, "id"),
		Result: schema.Object(nil),
	},
}

// EventCatalog maps event kinds to their payload shapes.
var EventCatalog = map[EventName]*schema.Shape{
	EventAction:     schema.Object(map[string]*schema.Shape{"kind": schema.String()}),
	EventScreenshot: schema.Object(map[string]*schema.Shape{"path": schema.String()}),
	EventStatus:     schema.Object(map[string]*schema.Shape{"recording": schema.Boolean()}),
	EventStopped:    schema.Object(nil),
	EventSession:    schema.Object(map[string]*schema.Shape{"sessionId": schema.String()}),
	EventLiveFrame:  schema.Object(map[string]*schema.Shape{"data": schema.String()}),
	EventError:      schema.Object(map[string]*schema.Shape{"message": schema.String()}),
	EventConnected:  schema.Object(nil),
}

// Fixed envelope shapes for the three message variants.
var (
	requestShape = schema.Object(map[string]*schema.Shape{
		"type":   schema.Const(string(TypeRequest)),
		"id":     schema.String(),
		"method": schema.String(),
		"params": schema.Object(nil),
	}, "type", "id", "method")

	responseShape = schema.Object(map[string]*schema.Shape{
		"type": schema.Const(string(TypeResponse)),
		"id":   schema.String(),
		"ok":   schema.Boolean(),
	}, "type", "id", "ok")

	eventShape = schema.Object(map[string]*schema.Shape{
		"type":      schema.Const(string(TypeEvent)),
		"event":     schema.String(),
		"seq":       schema.Number(),
		"timestamp": schema.Number(),
	}, "type", "event")
)

// ValidateRequest checks a decoded value against the request envelope.
func ValidateRequest(value interface{}) *schema.Result {
	return schema.Validate(value, requestShape)
}

// ValidateResponse checks a decoded value against the response envelope.
func ValidateResponse(value interface{}) *schema.Result {
	return schema.Validate(value, responseShape)
}

// ValidateEvent checks a decoded value against the event envelope.
func ValidateEvent(value interface{}) *schema.Result {
	return schema.Validate(value, eventShape)
}

// ValidateMethodParams looks the method up in the catalog and validates
// params against its declared shape. Absent params validate as an empty
// object. An unknown method yields exactly one error naming it.
func ValidateMethodParams(method Method, params map[string]interface{}) *schema.Result {
	spec, ok := MethodCatalog[method]
	if !ok {
		return &schema.Result{
			Valid: false,
			Errors: []schema.FieldError{{
				Path:    string(method),
				Message: "Unknown method: " + string(method),
			}},
		}
	}
	if params == nil {
		params = map[string]interface{}{}
	}
	return schema.Validate(params, spec.Params)
}
