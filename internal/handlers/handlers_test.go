package handlers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witness-rec/witness/internal/domain/livestream"
	"github.com/witness-rec/witness/internal/domain/project"
	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/mcp"
	"github.com/witness-rec/witness/internal/protocol"
)

func newTestTable(t *testing.T) map[protocol.Method]Func {
	t.Helper()
	bus := event.NewBus(protocol.NewSequencer())
	store, err := project.NewStore(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)
	return Table(Deps{
		Recorder: recorder.NewEngine(bus, "", nil),
		Live:     livestream.NewEngine(bus, "", nil),
		Projects: store,
	})
}

func TestTable_CoversEveryCatalogMethod(t *testing.T) {
	table := newTestTable(t)
	for method := range protocol.MethodCatalog {
		assert.Contains(t, table, method, "no handler for %s", method)
	}
	assert.Len(t, table, len(protocol.MethodCatalog))
}

func TestDispatch_Ping(t *testing.T) {
	table := newTestTable(t)
	req := protocol.Request{Type: protocol.TypeRequest, ID: "r1", Method: protocol.MethodPing, Params: map[string]interface{}{}}

	res := Dispatch(context.Background(), table, req)
	assert.Equal(t, protocol.TypeResponse, res.Type)
	assert.Equal(t, "r1", res.ID)
	assert.True(t, res.OK)
	assert.Equal(t, map[string]interface{}{"pong": true}, res.Payload)
}

func TestDispatch_ValidationFailureSkipsHandler(t *testing.T) {
	table := newTestTable(t)
	table[protocol.MethodProjectGet] = func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		t.Fatal("handler must not run on invalid params")
		return nil, nil
	}

	req := protocol.Request{Type: protocol.TypeRequest, ID: "r2", Method: protocol.MethodProjectGet, Params: map[string]interface{}{}}
	res := Dispatch(context.Background(), table, req)

	assert.Equal(t, "r2", res.ID)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Missing required property: id")
}

func TestDispatch_UnknownMethod(t *testing.T) {
	table := newTestTable(t)
	req := protocol.Request{Type: protocol.TypeRequest, ID: "r3", Method: protocol.Method("recorder.pause")}

	res := Dispatch(context.Background(), table, req)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Unknown method: recorder.pause")
}

func TestDispatch_HandlerErrorBecomesErrorResponse(t *testing.T) {
	table := newTestTable(t)
	req := protocol.Request{Type: protocol.TypeRequest, ID: "r4", Method: protocol.MethodRecorderStop, Params: map[string]interface{}{}}

	res := Dispatch(context.Background(), table, req)
	assert.False(t, res.OK)
	assert.Equal(t, recorder.ErrNotRecording.Error(), res.Error)
}

func TestDispatch_RecorderLifecycle(t *testing.T) {
	table := newTestTable(t)
	ctx := context.Background()

	res := Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "s1", Method: protocol.MethodRecorderStart,
		Params: map[string]interface{}{"name": "run", "url": "https://app.example"},
	})
	require.True(t, res.OK, "error: %s", res.Error)
	sessionID := res.Payload.(map[string]interface{})["sessionId"].(string)
	assert.NotEmpty(t, sessionID)

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "s2", Method: protocol.MethodRecorderStatus,
		Params: map[string]interface{}{},
	})
	require.True(t, res.OK)
	assert.Equal(t, true, res.Payload.(map[string]interface{})["recording"])

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "s3", Method: protocol.MethodRecorderStop,
		Params: map[string]interface{}{},
	})
	require.True(t, res.OK)
	assert.Equal(t, sessionID, res.Payload.(map[string]interface{})["sessionId"])
}

func TestDispatch_ProjectCRUD(t *testing.T) {
	table := newTestTable(t)
	ctx := context.Background()

	res := Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "p1", Method: protocol.MethodProjectCreate,
		Params: map[string]interface{}{"name": "demo"},
	})
	require.True(t, res.OK)
	created := res.Payload.(project.Project)

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "p2", Method: protocol.MethodProjectGet,
		Params: map[string]interface{}{"id": created.ID},
	})
	require.True(t, res.OK)
	assert.Equal(t, created, res.Payload)

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "p3", Method: protocol.MethodProjectList,
		Params: map[string]interface{}{},
	})
	require.True(t, res.OK)
	assert.Len(t, res.Payload.(map[string]interface{})["projects"], 1)

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "p4", Method: protocol.MethodProjectDelete,
		Params: map[string]interface{}{"id": created.ID},
	})
	require.True(t, res.OK)

	res = Dispatch(ctx, table, protocol.Request{
		Type: protocol.TypeRequest, ID: "p5", Method: protocol.MethodProjectGet,
		Params: map[string]interface{}{"id": created.ID},
	})
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "project not found")
}

func TestToFloat_AcceptsEveryValidatedRepresentation(t *testing.T) {
	assert.Equal(t, 2.5, toFloat(2.5))
	assert.Equal(t, 2.5, toFloat(float32(2.5)))
	assert.Equal(t, 3.0, toFloat(3))
	assert.Equal(t, 10.0, toFloat(int64(10)))
	assert.Equal(t, 7.0, toFloat(int32(7)))
	assert.Equal(t, 0.0, toFloat("10"))
}

func TestRegisterCatalogTools_ExposesEveryMethod(t *testing.T) {
	table := newTestTable(t)
	server := mcp.NewServer(mcp.ServerInfo{Name: "witness-test"})
	require.NoError(t, RegisterCatalogTools(server, table))

	names := server.Tools()
	assert.Len(t, names, len(protocol.MethodCatalog))
	assert.Contains(t, names, "ping")
	assert.Contains(t, names, "recorder.start")
	assert.Contains(t, names, "project.delete")
}

func TestRegisterCatalogTools_CallRoundTrip(t *testing.T) {
	table := newTestTable(t)
	server := mcp.NewServer(mcp.ServerInfo{Name: "witness-test"})
	require.NoError(t, RegisterCatalogTools(server, table))

	req := &mcp.JSONRPCRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call",
		Params: []byte(`{"name":"ping","arguments":{}}`),
	}
	res := server.HandleRequest(req)

	require.Nil(t, res.Error)
	result := res.Result.(*mcp.ToolResult)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"pong":true}`, result.Content[0].Text)
}

func TestRegisterCatalogTools_DomainErrorIsToolError(t *testing.T) {
	table := newTestTable(t)
	server := mcp.NewServer(mcp.ServerInfo{Name: "witness-test"})
	require.NoError(t, RegisterCatalogTools(server, table))

	req := &mcp.JSONRPCRequest{
		JSONRPC: "2.0", ID: 2, Method: "tools/call",
		Params: []byte(`{"name":"recorder.stop","arguments":{}}`),
	}
	res := server.HandleRequest(req)

	require.Nil(t, res.Error)
	result := res.Result.(*mcp.ToolResult)
	assert.True(t, result.IsError)
	assert.Equal(t, recorder.ErrNotRecording.Error(), result.Content[0].Text)
}
