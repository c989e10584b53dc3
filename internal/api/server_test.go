package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witness-rec/witness/internal/domain/livestream"
	"github.com/witness-rec/witness/internal/domain/project"
	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/handlers"
	"github.com/witness-rec/witness/internal/protocol"
)

func newTestGateway(t *testing.T) (*Gateway, *event.Bus) {
	t.Helper()
	bus := event.NewBus(protocol.NewSequencer())
	store, err := project.NewStore(filepath.Join(t.TempDir(), "projects.yaml"))
	require.NoError(t, err)

	table := handlers.Table(handlers.Deps{
		Recorder: recorder.NewEngine(bus, "", nil),
		Live:     livestream.NewEngine(bus, "", nil),
		Projects: store,
	})
	return NewGateway(table, bus), bus
}

func postMessage(t *testing.T, g *Gateway, body string) protocol.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res protocol.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestGateway_PingRoundTrip(t *testing.T) {
	g, _ := newTestGateway(t)

	res := postMessage(t, g, `{"type":"req","id":"r1","method":"ping","params":{}}`)
	assert.Equal(t, protocol.TypeResponse, res.Type)
	assert.Equal(t, "r1", res.ID)
	assert.True(t, res.OK)
	assert.Equal(t, map[string]interface{}{"pong": true}, res.Payload)
}

func TestGateway_ParseErrorResponse(t *testing.T) {
	g, _ := newTestGateway(t)

	res := postMessage(t, g, `{not json`)
	assert.False(t, res.OK)
	assert.Equal(t, "Parse error", res.Error)
	assert.Empty(t, res.ID)
}

func TestGateway_RejectsNonRequestMessages(t *testing.T) {
	g, _ := newTestGateway(t)

	res := postMessage(t, g, `{"type":"event","event":"status","payload":{}}`)
	assert.False(t, res.OK)
	assert.Equal(t, "expected a request message", res.Error)

	res = postMessage(t, g, `{"type":"req","method":"ping"}`)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Missing required property: id")
}

func TestGateway_ValidationErrorKeepsCorrelationID(t *testing.T) {
	g, _ := newTestGateway(t)

	res := postMessage(t, g, `{"type":"req","id":"r9","method":"project.get","params":{}}`)
	assert.Equal(t, "r9", res.ID)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Missing required property: id")
}

func TestGateway_UnknownMethod(t *testing.T) {
	g, _ := newTestGateway(t)

	res := postMessage(t, g, `{"type":"req","id":"r2","method":"recorder.pause","params":{}}`)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Unknown method: recorder.pause")
}

func TestGateway_Status(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGateway_CORSPreflight(t *testing.T) {
	g, _ := newTestGateway(t)

	req := httptest.NewRequest(http.MethodOptions, "/message", nil)
	rec := httptest.NewRecorder()
	g.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGateway_EventStream(t *testing.T) {
	g, bus := newTestGateway(t)
	server := httptest.NewServer(g)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() protocol.Event {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var evt protocol.Event
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &evt))
			return evt
		}
	}

	// The first push on a fresh stream is always connected.
	first := readEvent()
	assert.Equal(t, protocol.EventConnected, first.Event)
	assert.Equal(t, int64(1), first.Seq)

	bus.Publish(protocol.EventStatus, map[string]interface{}{"recording": false})
	second := readEvent()
	assert.Equal(t, protocol.EventStatus, second.Event)
	assert.Equal(t, int64(2), second.Seq)
}

func TestGateway_NewStreamDoesNotGreetExistingStreams(t *testing.T) {
	g, bus := newTestGateway(t)
	server := httptest.NewServer(g)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	openStream := func() *bufio.Reader {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return bufio.NewReader(resp.Body)
	}

	readEvent := func(reader *bufio.Reader) protocol.Event {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var evt protocol.Event
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &evt))
			return evt
		}
	}

	first := openStream()
	assert.Equal(t, protocol.EventConnected, readEvent(first).Event)

	second := openStream()
	assert.Equal(t, protocol.EventConnected, readEvent(second).Event)

	// The first stream's next event is the broadcast, not a greeting
	// triggered by the second attach.
	bus.Publish(protocol.EventStatus, map[string]interface{}{"recording": false})
	next := readEvent(first)
	assert.Equal(t, protocol.EventStatus, next.Event)
}
