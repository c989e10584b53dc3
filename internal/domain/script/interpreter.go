// Package script runs operator automation snippets in a JS sandbox.
package script

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/witness-rec/witness/internal/logger"
)

// ToolCaller chains a script out to another registered tool.
type ToolCaller func(name string, params map[string]interface{}) (interface{}, error)

// Interpreter executes sandboxed JavaScript automation snippets. Scripts
// receive their arguments as an 'args' object and may chain other tools
// with callTool(name, args).
type Interpreter struct {
	vm     *goja.Runtime
	caller ToolCaller
}

// NewInterpreter creates a sandbox bound to the given tool caller.
func NewInterpreter(caller ToolCaller) *Interpreter {
	vm := goja.New()
	// Expose Go structs under their wire names so chained tool results
	// read naturally from scripts.
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	return &Interpreter{
		vm:     vm,
		caller: caller,
	}
}

// Execute runs a snippet with the provided arguments and returns its
// exported result.
func (i *Interpreter) Execute(source string, args map[string]interface{}) (interface{}, error) {
	i.vm.Set("args", args)

	i.vm.Set("log", func(msg interface{}) {
		logger.Infof("[script] %v", msg)
	})

	i.vm.Set("callTool", func(name string, params map[string]interface{}) interface{} {
		if i.caller == nil {
			return "Error: no tool caller available"
		}
		result, err := i.caller(name, params)
		if err != nil {
			return fmt.Sprintf("Error calling %s: %v", name, err)
		}
		return result
	})

	// Wrap the snippet in an IIFE to support 'return'
	wrapped := fmt.Sprintf("(function() { %s })()", source)
	value, err := i.vm.RunString(wrapped)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}
