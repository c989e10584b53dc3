package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/schema"
)

const protocolVersion = "2024-11-05"

// ServerInfo is the static metadata returned by initialize.
type ServerInfo struct {
	Name    string
	Version string
	Title   string
}

// Server dispatches JSON-RPC tool calls over a message stream. Tools are
// registered during a startup phase and the registry is read-only while
// serving; one Server instance processes messages one at a time.
type Server struct {
	info        ServerInfo
	tools       map[string]*Tool
	order       []string
	descriptors []map[string]interface{}
}

// NewServer creates an empty dispatch server.
func NewServer(info ServerInfo) *Server {
	return &Server{
		info:  info,
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry. Names must be unique, and the
// tool's parameter shape must render as JSON Schema; both are checked
// here so a bad tool fails at startup rather than mid-call.
func (s *Server) Register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if _, exists := s.tools[tool.Name]; exists {
		return fmt.Errorf("duplicate tool name: %s", tool.Name)
	}
	descriptor, err := tool.descriptor()
	if err != nil {
		return err
	}
	s.tools[tool.Name] = tool
	s.order = append(s.order, tool.Name)
	s.descriptors = append(s.descriptors, descriptor)
	return nil
}

// Tools returns the registered tool names in registration order.
func (s *Server) Tools() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// HandleRequest processes one request and always produces exactly one
// response carrying the original id. The jsonrpc version field is not
// policed; a missing or stale value is tolerated and answered in 2.0
// form, keeping the error surface to the four standard codes.
func (s *Server) HandleRequest(req *JSONRPCRequest) *JSONRPCResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return NewResponse(req.ID, map[string]interface{}{
			"tools": s.descriptors,
		})
	case "tools/call":
		return s.handleToolCall(req)
	case "ping":
		return NewResponse(req.ID, map[string]interface{}{})
	default:
		return NewErrorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *JSONRPCRequest) *JSONRPCResponse {
	return NewResponse(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]string{
			"name":    s.info.Name,
			"version": s.info.Version,
			"title":   s.info.Title,
		},
	})
}

func (s *Server) handleToolCall(req *JSONRPCRequest) *JSONRPCResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return NewErrorResponse(req.ID, InvalidParams, fmt.Sprintf("Invalid params for tools/call: %v", err))
		}
	}
	if params.Name == "" {
		return NewErrorResponse(req.ID, InvalidParams, "missing required parameter: name")
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		return NewErrorResponse(req.ID, InvalidParams, fmt.Sprintf("Tool not found: %s", params.Name))
	}

	args := params.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}
	if result := schema.Validate(args, tool.Params); !result.Valid {
		return NewErrorResponseWithData(req.ID, InvalidParams, "Invalid params", result.Errors)
	}

	result := s.invoke(tool, args)
	return NewResponse(req.ID, result)
}

// invoke runs the handler, converting failures into isError tool results.
// A handler error is an operation-level failure delivered in a successful
// RPC response; only a panic is downgraded to a generic internal fault.
func (s *Server) invoke(tool *Tool, args map[string]interface{}) (result *ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("tool %s panicked: %v", tool.Name, r)
			result = ErrorResult(fmt.Sprintf("internal error in tool %s: %v", tool.Name, r))
		}
	}()

	result, err := tool.Handler(args)
	if err != nil {
		return ErrorResult(err.Error())
	}
	if result == nil {
		result = TextResult("")
	}
	return result
}

// Serve runs the newline-delimited transport loop: one message per line
// on input, one response line per request on output. Parse failures are
// answered with a parse error and a null id; they never end the loop.
func (s *Server) Serve(input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// 64KB initial, 4MB max - prevents large request failures
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req JSONRPCRequest
		var response *JSONRPCResponse
		if err := json.Unmarshal(line, &req); err != nil {
			response = NewErrorResponse(nil, ParseError, "Parse error")
		} else {
			response = s.HandleRequest(&req)
		}

		if err := s.write(output, response); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input scan error: %w", err)
	}
	return nil
}

func (s *Server) write(output io.Writer, response *JSONRPCResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		// Result was not serializable; still honor one-response-per-request.
		data, _ = json.Marshal(NewErrorResponse(response.ID, InternalError, "Internal error"))
	}
	if _, err = fmt.Fprintf(output, "%s\n", data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
