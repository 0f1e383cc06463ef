package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/server"
	"github.com/cbrgm/go-mcp-server/session"
)

func newTestHTTPTransport(t *testing.T) (*HTTPTransport, *server.Server, session.Store) {
	t.Helper()
	reg := registry.New()
	store := session.NewMemoryStore()
	srv, err := server.New(reg, store, "Test Server", "1.0.0")
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	tr := NewHTTP(HTTPConfig{MCPPath: "/mcp", PreferDirectJSON: true}, store)
	return tr, srv, store
}

func initializeRequestBody() []byte {
	req := mcp.Request{
		JSONRPC: mcp.JSONRPCVersion,
		Method:  "initialize",
		ID:      1,
		Params: map[string]any{
			"protocolVersion": mcp.ProtocolVersion,
			"clientInfo":      map[string]any{"name": "test-client", "version": "0.1"},
		},
	}
	data, _ := json.Marshal(req)
	return data
}

func TestHandlePostInitializeAssignsSessionID(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	r.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get(headerMCPSessionID) == "" {
		t.Error("expected a Mcp-Session-Id header to be assigned on initialize")
	}
}

func TestHandlePostMissingSessionIDOnNonInitializeIsBadRequest(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	body, _ := json.Marshal(mcp.Request{JSONRPC: mcp.JSONRPCVersion, Method: "tools/list", ID: 1})
	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing session id, got %d", w.Code)
	}
}

func TestHandlePostUnknownSessionIDIsNotFound(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	body, _ := json.Marshal(mcp.Request{JSONRPC: mcp.JSONRPCVersion, Method: "tools/list", ID: 1})
	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	r.Header.Set(headerMCPSessionID, "does-not-exist")
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown session id, got %d", w.Code)
	}
}

func TestHandlePostKnownSessionIDIsAccepted(t *testing.T) {
	tr, srv, store := newTestHTTPTransport(t)

	initR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	initR.Header.Set("Accept", "application/json")
	initW := httptest.NewRecorder()
	tr.handlePost(context.Background(), srv, initW, initR)
	sessionID := initW.Header().Get(headerMCPSessionID)
	if sessionID == "" {
		t.Fatalf("expected a session id from initialize, got none")
	}

	notifyBody, _ := json.Marshal(mcp.Notification{JSONRPC: mcp.JSONRPCVersion, Method: "notifications/initialized"})
	notifyR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(notifyBody))
	notifyR.Header.Set(headerMCPSessionID, sessionID)
	notifyW := httptest.NewRecorder()
	tr.handlePost(context.Background(), srv, notifyW, notifyR)

	listBody, _ := json.Marshal(mcp.Request{JSONRPC: mcp.JSONRPCVersion, Method: "tools/list", ID: 2})
	listR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(listBody))
	listR.Header.Set(headerMCPSessionID, sessionID)
	listW := httptest.NewRecorder()
	tr.handlePost(context.Background(), srv, listW, listR)

	if listW.Code != http.StatusOK {
		t.Errorf("expected 200 for tools/list with a known session, got %d: %s", listW.Code, listW.Body.String())
	}

	if _, err := store.Get(context.Background(), sessionID); err != nil {
		t.Errorf("expected the session to still exist in the store, got %v", err)
	}
}

func TestHandleDeleteUnknownSessionIsNotFound(t *testing.T) {
	tr, _, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	r.Header.Set(headerMCPSessionID, "does-not-exist")
	w := httptest.NewRecorder()

	tr.handleDelete(context.Background(), w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for deleting an unknown session, got %d", w.Code)
	}
}

func TestHandleDeleteKnownSessionRemovesIt(t *testing.T) {
	tr, srv, store := newTestHTTPTransport(t)
	ctx := context.Background()

	sess := session.New("sess-1")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	r.Header.Set(headerMCPSessionID, "sess-1")
	w := httptest.NewRecorder()

	tr.handleDelete(ctx, w, r)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if _, err := store.Get(ctx, "sess-1"); err == nil {
		t.Error("expected the session to be removed from the store")
	}
	_ = srv
}

func TestHandleGetMissingSessionIDIsBadRequest(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	r.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()

	tr.handleGet(context.Background(), srv, w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleGetUnknownSessionIsNotFound(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	r.Header.Set("Accept", "text/event-stream")
	r.Header.Set(headerMCPSessionID, "does-not-exist")
	w := httptest.NewRecorder()

	tr.handleGet(context.Background(), srv, w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleGetMissingAcceptHeaderIsNotAcceptable(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	w := httptest.NewRecorder()

	tr.handleGet(context.Background(), srv, w, r)

	if w.Code != http.StatusNotAcceptable {
		t.Errorf("expected 406 when Accept omits text/event-stream, got %d", w.Code)
	}
}

func TestHandlePostNeitherJSONNorSSEAcceptableIsNotAcceptable(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	r.Header.Set("Accept", "text/plain")
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if w.Code != http.StatusNotAcceptable {
		t.Errorf("expected 406 when Accept names neither application/json nor text/event-stream, got %d", w.Code)
	}
}

func TestHandlePostSSEOnlyAcceptUsesSSEEvenWhenPreferDirectJSON(t *testing.T) {
	reg := registry.New()
	store := session.NewMemoryStore()
	srv, err := server.New(reg, store, "Test Server", "1.0.0")
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	tr := NewHTTP(HTTPConfig{MCPPath: "/mcp", PreferDirectJSON: true}, store)

	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	r.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if ct := w.Header().Get("Content-Type"); ct != contentTypeSSE {
		t.Errorf("expected an SSE response when Accept only names text/event-stream, got Content-Type %q", ct)
	}
}

func TestHandlePostSSEResponseCarriesMessageEventType(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)

	r := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	r.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("event: message\n")) {
		t.Errorf("expected an SSE frame with an event: message line, got body %q", w.Body.String())
	}
}

func TestHandlePostDirectJSONTimesOutAsInternalError(t *testing.T) {
	reg := registry.New()
	release := make(chan struct{})
	_ = reg.RegisterTool(mcp.ToolSpec{
		Name:        "slow",
		InputSchema: mcp.InputSchema{Type: "object"},
	}, registry.OriginManual, func(ctx context.Context, args map[string]any) (mcp.ToolResult, error) {
		<-release
		return mcp.ToolResult{Content: []mcp.ContentItem{mcp.TextContent("done")}}, nil
	})
	defer close(release)

	store := session.NewMemoryStore()
	srv, err := server.New(reg, store, "Test Server", "1.0.0")
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	tr := NewHTTP(HTTPConfig{MCPPath: "/mcp", PreferDirectJSON: true, RequestTimeout: 10 * time.Millisecond}, store)

	initR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(initializeRequestBody()))
	initR.Header.Set("Accept", "application/json")
	initW := httptest.NewRecorder()
	tr.handlePost(context.Background(), srv, initW, initR)
	sessionID := initW.Header().Get(headerMCPSessionID)
	if sessionID == "" {
		t.Fatal("expected initialize to assign a session id")
	}

	notifyBody, _ := json.Marshal(mcp.Notification{JSONRPC: mcp.JSONRPCVersion, Method: "notifications/initialized"})
	notifyR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(notifyBody))
	notifyR.Header.Set(headerMCPSessionID, sessionID)
	tr.handlePost(context.Background(), srv, httptest.NewRecorder(), notifyR)

	callBody, _ := json.Marshal(mcp.Request{JSONRPC: mcp.JSONRPCVersion, Method: "tools/call", ID: 2, Params: map[string]any{"name": "slow"}})
	callR := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(callBody))
	callR.Header.Set("Accept", "application/json")
	callR.Header.Set(headerMCPSessionID, sessionID)
	callW := httptest.NewRecorder()

	tr.handlePost(context.Background(), srv, callW, callR)

	if callW.Code != http.StatusOK {
		t.Fatalf("expected 200 with a JSON-RPC error body, got %d: %s", callW.Code, callW.Body.String())
	}
	var resp mcp.Response
	if err := json.Unmarshal(callW.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != mcp.ErrorCodeInternalError {
		t.Fatalf("expected a synthesized -32603 once the soft timeout fired, got %+v", resp)
	}
}

func TestStatusPageServesHTML(t *testing.T) {
	tr, srv, _ := newTestHTTPTransport(t)
	_ = srv

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	tr.handleStatusPage(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from the status page, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeHTML {
		t.Errorf("expected HTML content type, got %q", ct)
	}
}
