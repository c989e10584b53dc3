// Package api serves the client-facing gateway: typed request/response
// messages over HTTP and server-initiated events over SSE.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/handlers"
	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/protocol"
)

// Gateway exposes the protocol core over HTTP. One Gateway instance owns
// its handler table and event bus; hosts may run several independently.
type Gateway struct {
	router *mux.Router
	table  map[protocol.Method]handlers.Func
	bus    *event.Bus
}

// NewGateway wires the routes around a handler table and event bus.
func NewGateway(table map[protocol.Method]handlers.Func, bus *event.Bus) *Gateway {
	g := &Gateway{
		router: mux.NewRouter(),
		table:  table,
		bus:    bus,
	}
	g.routes()
	return g
}

func (g *Gateway) routes() {
	g.router.HandleFunc("/message", g.handleMessage).Methods(http.MethodPost)
	g.router.HandleFunc("/events", g.handleEvents).Methods(http.MethodGet)
	g.router.HandleFunc("/status", g.handleStatus).Methods(http.MethodGet)
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Global CORS headers for browser clients
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	g.router.ServeHTTP(w, r)
}

// handleMessage decodes one wire message, classifies it, and answers
// request-shaped input with exactly one correlated response. Bad input
// is answered with an error-shaped response, never a dropped connection.
func (g *Gateway) handleMessage(w http.ResponseWriter, r *http.Request) {
	var value interface{}
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		// No correlation possible; the response carries a synthetic id.
		g.respond(w, protocol.NewErrorResponse("", "Parse error"))
		return
	}

	req, ok := protocol.AsRequest(value)
	if !ok {
		g.respond(w, g.rejectNonRequest(value))
		return
	}

	logger.Debugf("gateway request %s %s", req.ID, req.Method)
	g.respond(w, handlers.Dispatch(r.Context(), g.table, req))
}

// rejectNonRequest builds the error response for input that decoded but
// did not classify as a request.
func (g *Gateway) rejectNonRequest(value interface{}) protocol.Response {
	if protocol.IsResponse(value) || protocol.IsEvent(value) {
		return protocol.NewErrorResponse("", "expected a request message")
	}
	result := protocol.ValidateRequest(value)
	if len(result.Errors) > 0 {
		return protocol.NewErrorResponse("", result.Errors[0].Error())
	}
	return protocol.NewErrorResponse("", "not a recognized message")
}

func (g *Gateway) respond(w http.ResponseWriter, res protocol.Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// handleEvents streams the event bus as SSE. The first event on every
// new stream is a connected push; events carry rising seq numbers and
// are never replies to anything.
func (g *Gateway) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	sub := g.bus.Subscribe()
	defer g.bus.Unsubscribe(sub)

	// Greet only this stream; other open streams must not see it.
	g.bus.Deliver(sub, protocol.EventConnected, map[string]interface{}{})

	for {
		select {
		case evt, open := <-sub:
			if !open {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
