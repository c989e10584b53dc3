// Package handlers binds the method catalog to the domain engines. The
// same handler table serves both protocol surfaces: the gateway routes
// typed requests through Dispatch, and the MCP server exposes each
// method as a tool via RegisterCatalogTools.
package handlers

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/witness-rec/witness/internal/domain/livestream"
	"github.com/witness-rec/witness/internal/domain/project"
	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/mcp"
	"github.com/witness-rec/witness/internal/protocol"
	"github.com/witness-rec/witness/internal/schema"
)

// Deps carries the domain engines handlers execute against.
type Deps struct {
	Recorder *recorder.Engine
	Live     *livestream.Engine
	Projects *project.Store
}

// Func executes one method with already-validated parameters.
type Func func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Table builds the method handler table. Every catalog method has an
// entry; a missing entry is a programming error caught by tests.
func Table(deps Deps) map[protocol.Method]Func {
	return map[protocol.Method]Func{
		protocol.MethodPing: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"pong": true}, nil
		},

		protocol.MethodRecorderStart: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			session, err := deps.Recorder.Start(ctx, params["name"].(string), params["url"].(string))
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"sessionId": session.ID}, nil
		},

		protocol.MethodRecorderStop: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			session, err := deps.Recorder.Stop()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"sessionId": session.ID}, nil
		},

		protocol.MethodRecorderStatus: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return deps.Recorder.Status(), nil
		},

		protocol.MethodLiveStreamStart: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			if err := deps.Live.Start(ctx, params["platform"].(string)); err != nil {
				return nil, err
			}
			return map[string]interface{}{}, nil
		},

		protocol.MethodLiveStreamStop: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			if err := deps.Live.Stop(); err != nil {
				return nil, err
			}
			return map[string]interface{}{}, nil
		},

		protocol.MethodLiveStreamTap: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			if err := deps.Live.Tap(toFloat(params["x"]), toFloat(params["y"])); err != nil {
				return nil, err
			}
			return map[string]interface{}{}, nil
		},

		protocol.MethodProjectList: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"projects": deps.Projects.List()}, nil
		},

		protocol.MethodProjectGet: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return deps.Projects.Get(params["id"].(string))
		},

		protocol.MethodProjectCreate: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			return deps.Projects.Create(params["name"].(string))
		},

		protocol.MethodProjectDelete: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
			if err := deps.Projects.Delete(params["id"].(string)); err != nil {
				return nil, err
			}
			return map[string]interface{}{}, nil
		},
	}
}

// Dispatch validates a typed request against the catalog and routes it
// to its handler, producing exactly one correlated response. Validation
// failures and handler failures both come back as data, never panics.
func Dispatch(ctx context.Context, table map[protocol.Method]Func, req protocol.Request) protocol.Response {
	if result := protocol.ValidateMethodParams(req.Method, req.Params); !result.Valid {
		return protocol.NewErrorResponse(req.ID, joinErrors(result))
	}

	handler, ok := table[req.Method]
	if !ok {
		return protocol.NewErrorResponse(req.ID, "Unknown method: "+string(req.Method))
	}

	payload, err := handler(ctx, req.Params)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, err.Error())
	}
	return protocol.NewSuccessResponse(req.ID, payload)
}

// RegisterCatalogTools exposes every catalog method as a dispatch-server
// tool sharing the catalog's parameter shapes and the handler table.
func RegisterCatalogTools(server *mcp.Server, table map[protocol.Method]Func) error {
	methods := make([]string, 0, len(protocol.MethodCatalog))
	for method := range protocol.MethodCatalog {
		methods = append(methods, string(method))
	}
	sort.Strings(methods)

	for _, name := range methods {
		method := protocol.Method(name)
		spec := protocol.MethodCatalog[method]
		handler := table[method]

		tool := &mcp.Tool{
			Name:        name,
			Description: spec.Description,
			Params:      spec.Params,
			Handler: func(args map[string]interface{}) (*mcp.ToolResult, error) {
				payload, err := handler(context.Background(), args)
				if err != nil {
					return nil, err
				}
				rendered, err := json.Marshal(payload)
				if err != nil {
					return nil, err
				}
				return mcp.TextResult(string(rendered)), nil
			},
		}
		if err := server.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

func joinErrors(result *schema.Result) string {
	messages := make([]string, len(result.Errors))
	for i, fieldErr := range result.Errors {
		messages[i] = fieldErr.Error()
	}
	return strings.Join(messages, "; ")
}

// toFloat coerces any numeric representation validation accepts. Script
// calls arrive with int64 values where JSON decoding gives float64.
func toFloat(value interface{}) float64 {
	switch n := value.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
