package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/witness-rec/witness/internal/domain/script"
	"github.com/witness-rec/witness/internal/mcp"
	"github.com/witness-rec/witness/internal/protocol"
	"github.com/witness-rec/witness/internal/schema"
)

// RegisterScriptTool exposes a script.run tool that executes automation
// snippets. Snippets may chain any catalog method via callTool, subject
// to the same parameter validation as direct calls.
func RegisterScriptTool(server *mcp.Server, table map[protocol.Method]Func) error {
	interp := script.NewInterpreter(func(name string, params map[string]interface{}) (interface{}, error) {
		method := protocol.Method(name)
		handler, ok := table[method]
		if !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		if params == nil {
			params = map[string]interface{}{}
		}
		if result := protocol.ValidateMethodParams(method, params); !result.Valid {
			return nil, errors.New(joinErrors(result))
		}
		return handler(context.Background(), params)
	})

	return server.Register(&mcp.Tool{
		Name:        "script.run",
		Description: "Run a JavaScript automation snippet against the recorder",
		Params: schema.ClosedObject(map[string]*schema.Shape{
			"source": schema.String(),
			"args":   schema.Object(nil),
		}, "source"),
		Handler: func(args map[string]interface{}) (*mcp.ToolResult, error) {
			scriptArgs, _ := args["args"].(map[string]interface{})
			value, err := interp.Execute(args["source"].(string), scriptArgs)
			if err != nil {
				return nil, err
			}
			rendered, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			return mcp.TextResult(string(rendered)), nil
		},
	})
}
