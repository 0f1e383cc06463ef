package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/server"
	"github.com/cbrgm/go-mcp-server/session"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeSSE  = "text/event-stream; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"

	headerMCPSessionID       = "Mcp-Session-Id"
	headerMCPProtocolVersion = "MCP-Protocol-Version"

	defaultOutboundDrainInterval = time.Second
	defaultEventStoreCapacity    = 256
)

// HTTPConfig holds everything the streamable HTTP transport needs beyond
// the *server.Server and session.Store it is given at construction.
type HTTPConfig struct {
	Port             int
	MCPPath          string
	CORSOrigins      []string
	PreferDirectJSON bool
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	RequestTimeout   time.Duration
}

// HTTPTransport is the streamable-HTTP transport: POST for request/response
// (direct JSON or a single-request SSE stream), GET for a long-lived
// server-push SSE stream, DELETE to terminate a session.
type HTTPTransport struct {
	cfg    HTTPConfig
	store  session.Store
	events *eventStore
	srv    *http.Server

	mu          sync.Mutex
	connections map[string]context.CancelFunc
}

func NewHTTP(cfg HTTPConfig, store session.Store) *HTTPTransport {
	if cfg.MCPPath == "" {
		cfg.MCPPath = "/mcp"
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	return &HTTPTransport{
		cfg:         cfg,
		store:       store,
		events:      newEventStore(defaultEventStoreCapacity),
		connections: make(map[string]context.CancelFunc),
	}
}

func (t *HTTPTransport) Start(ctx context.Context, srv *server.Server) error {
	srv.OnCatalogChanged(t.broadcastCatalogChange(ctx, srv))

	mux := http.NewServeMux()
	handler := t.corsMiddleware(t.securityMiddleware(mux))

	mux.HandleFunc(t.cfg.MCPPath, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			t.handlePost(ctx, srv, w, r)
		case http.MethodGet:
			t.handleGet(ctx, srv, w, r)
		case http.MethodDelete:
			t.handleDelete(ctx, w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		t.handleStatusPage(w, r)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	t.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", t.cfg.Port),
		Handler:      handler,
		ReadTimeout:  t.cfg.ReadTimeout,
		WriteTimeout: t.cfg.WriteTimeout,
		IdleTimeout:  t.cfg.IdleTimeout,
	}

	log.Printf("Starting HTTP transport on port %d...", t.cfg.Port)
	log.Printf("MCP endpoint: http://localhost:%d%s", t.cfg.Port, t.cfg.MCPPath)

	go func() {
		if err := t.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("HTTP transport shutting down")
	return t.Stop()
}

func (t *HTTPTransport) Stop() error {
	t.mu.Lock()
	for id, cancel := range t.connections {
		cancel()
		delete(t.connections, id)
	}
	t.mu.Unlock()

	if t.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), t.cfg.ShutdownTimeout)
		defer cancel()
		return t.srv.Shutdown(ctx)
	}
	return nil
}

// broadcastCatalogChange fans a registry list_changed event out to every
// session with a currently-open GET stream: it queues the notification on
// each session's outbound queue, where the stream's drain loop will pick
// it up and deliver it.
func (t *HTTPTransport) broadcastCatalogChange(ctx context.Context, srv *server.Server) func(registry.ListKind) {
	return func(kind registry.ListKind) {
		t.mu.Lock()
		sessionIDs := make([]string, 0, len(t.connections))
		for id := range t.connections {
			sessionIDs = append(sessionIDs, id)
		}
		t.mu.Unlock()

		for _, id := range sessionIDs {
			sess, err := t.store.Get(ctx, id)
			if err != nil {
				continue
			}
			srv.QueueListChanged(sess, kind)
			if err := t.store.Put(ctx, sess); err != nil {
				log.Printf("error persisting session after queuing list_changed: %v", err)
			}
		}
	}
}

func (t *HTTPTransport) handlePost(ctx context.Context, srv *server.Server, w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		t.writeError(w, nil, mcp.ErrorCodeParseError, "failed to read request body", err.Error())
		return
	}

	msg, err := mcp.DecodeMessage(body)
	if err != nil {
		code, message := mcp.ErrorCodeParseError, "Parse error"
		if rpcErr, ok := err.(*mcp.ErrorResponse); ok {
			code, message = rpcErr.Code, rpcErr.Message
		}
		t.writeError(w, nil, code, message, err.Error())
		return
	}

	sessionID := r.Header.Get(headerMCPSessionID)
	isInitialize := msg.Request != nil && msg.Request.Method == "initialize"
	if sessionID == "" {
		if !isInitialize {
			http.Error(w, "Mcp-Session-Id header is required", http.StatusBadRequest)
			return
		}
		sessionID = uuid.NewString()
	} else if !isInitialize {
		if _, err := t.store.Get(ctx, sessionID); err != nil {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
	}

	acceptHeader := r.Header.Get("Accept")
	acceptsJSON := acceptHeader == "" || strings.Contains(acceptHeader, "application/json") || strings.Contains(acceptHeader, "*/*")
	acceptsSSE := strings.Contains(acceptHeader, "text/event-stream")
	if !acceptsJSON && !acceptsSSE {
		http.Error(w, "Accept header must include application/json or text/event-stream", http.StatusNotAcceptable)
		return
	}
	// Direct JSON and SSE are both acceptable only when the Accept header
	// names both; in that case the server's preferDirectJsonResponse flag
	// decides. Otherwise the single acceptable mode wins regardless of the
	// flag.
	wantsSSE := acceptsSSE && (!acceptsJSON || !t.cfg.PreferDirectJSON)

	reqCtx, cancel := context.WithTimeout(ctx, t.cfg.RequestTimeout)
	defer cancel()
	reqCtx = context.WithValue(reqCtx, mcp.SessionIDKey, sessionID)

	if wantsSSE {
		t.handleSSEResponse(reqCtx, srv, w, sessionID, msg)
		return
	}
	t.handleDirectJSONResponse(reqCtx, srv, w, sessionID, isInitialize, msg)
}

// handleDirectJSONResponse dispatches a decoded Message and writes the
// result(s) as plain JSON: a single object for one request, an array for a
// batch, and no body for pure notifications.
//
// Dispatch runs on its own goroutine so the per-request soft timeout (see
// HTTPConfig.RequestTimeout) can be enforced even when a tool handler never
// returns: if ctx expires before dispatch finishes, any request id that
// hasn't produced a response yet is answered with a synthesized -32603
// rather than leaving the client hanging past the deadline.
func (t *HTTPTransport) handleDirectJSONResponse(ctx context.Context, srv *server.Server, w http.ResponseWriter, sessionID string, isInitialize bool, msg mcp.Message) {
	collector := &collectingSender{}
	dispatchCtx := context.WithValue(ctx, mcp.ResponseSenderKey, collector)

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.dispatch(dispatchCtx, srv, msg)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		collector.fillTimedOut(requestIDs(msg))
	}

	responses := collector.snapshot()
	if len(responses) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set(headerMCPSessionID, sessionID)
	w.Header().Set(headerMCPProtocolVersion, mcp.ProtocolVersion)
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if msg.Batch != nil {
		json.NewEncoder(w).Encode(responses)
		return
	}
	json.NewEncoder(w).Encode(responses[0])
}

// requestIDs collects the JSON-RPC ids of every Request in msg, recursing
// into batch items. Notifications have no id and are excluded: a timeout
// can't leave one "unanswered" since nothing was ever going to answer it.
func requestIDs(msg mcp.Message) []any {
	switch {
	case msg.Request != nil:
		return []any{msg.Request.ID}
	case msg.Batch != nil:
		var ids []any
		for _, item := range msg.Batch {
			ids = append(ids, requestIDs(item)...)
		}
		return ids
	default:
		return nil
	}
}

// handleSSEResponse answers a single POST with its own short-lived SSE
// stream: the request's response (and anything queued onto the session's
// outbound queue while handling it, such as a list_changed notification)
// is delivered as SSE events, then the stream closes.
func (t *HTTPTransport) handleSSEResponse(ctx context.Context, srv *server.Server, w http.ResponseWriter, sessionID string, msg mcp.Message) {
	conn, ok := t.openStream(w, sessionID, -1)
	if !ok {
		return
	}
	defer conn.close()

	sender := &sseResponseSender{conn: conn, store: t.events.stream(sessionID)}
	ctx = context.WithValue(ctx, mcp.ResponseSenderKey, sender)

	t.dispatch(ctx, srv, msg)
	t.drainOutbound(ctx, srv, sessionID, conn)
}

func (t *HTTPTransport) dispatch(ctx context.Context, srv *server.Server, msg mcp.Message) {
	switch {
	case msg.Request != nil:
		if err := srv.HandleRequest(ctx, sessionIDFromContext(ctx), msg.Request); err != nil {
			log.Printf("error handling request: %v", err)
		}
	case msg.Notification != nil:
		srv.HandleNotification(ctx, sessionIDFromContext(ctx), msg.Notification)
	case msg.Batch != nil:
		for _, item := range msg.Batch {
			t.dispatch(ctx, srv, item)
		}
	}
}

// handleGet opens a long-lived SSE stream for server-initiated messages:
// list_changed notifications, elicitation requests, and anything else
// queued onto the session between client requests.
func (t *HTTPTransport) handleGet(ctx context.Context, srv *server.Server, w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		http.Error(w, "Accept header must include text/event-stream", http.StatusNotAcceptable)
		return
	}
	sessionID := r.Header.Get(headerMCPSessionID)
	if sessionID == "" {
		http.Error(w, "Mcp-Session-Id header is required", http.StatusBadRequest)
		return
	}
	if _, err := srv.Sessions().Get(ctx, sessionID); err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	lastEventID := -1
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			lastEventID = id
		}
	}

	conn, ok := t.openStream(w, sessionID, lastEventID)
	if !ok {
		return
	}

	connCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.connections[sessionID] = cancel
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.connections, sessionID)
		t.mu.Unlock()
		conn.close()
	}()

	ticker := time.NewTicker(defaultOutboundDrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-connCtx.Done():
			return
		case <-ticker.C:
			t.drainOutbound(connCtx, srv, sessionID, conn)
		}
	}
}

func (t *HTTPTransport) drainOutbound(ctx context.Context, srv *server.Server, sessionID string, conn *sseConnection) {
	sess, err := srv.Sessions().Get(ctx, sessionID)
	if err != nil {
		return
	}
	pending := sess.Drain()
	if len(pending) == 0 {
		return
	}
	if err := srv.Sessions().Put(ctx, sess); err != nil {
		log.Printf("error persisting session after drain: %v", err)
	}
	store := t.events.stream(sessionID)
	for _, item := range pending {
		if err := conn.sendEvent(store, "message", item); err != nil {
			log.Printf("error delivering queued message: %v", err)
			return
		}
	}
}

// handleDelete terminates a session per spec.md's flagged open question,
// treated as required: it closes the session's open GET stream, if any,
// removes the session from the store, and drops its replay buffer. POST
// requests already in flight for the session are not cancelled.
func (t *HTTPTransport) handleDelete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(headerMCPSessionID)
	if sessionID == "" {
		http.Error(w, "Mcp-Session-Id header is required", http.StatusBadRequest)
		return
	}
	if _, err := t.store.Get(ctx, sessionID); err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	t.mu.Lock()
	if cancel, ok := t.connections[sessionID]; ok {
		cancel()
		delete(t.connections, sessionID)
	}
	t.mu.Unlock()

	t.events.drop(sessionID)

	if err := t.store.Delete(ctx, sessionID); err != nil {
		log.Printf("error deleting session %s: %v", sessionID, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// openStream starts an SSE response. lastEventID < 0 means "no replay
// requested"; otherwise every buffered event after lastEventID is written
// before the handler takes over.
func (t *HTTPTransport) openStream(w http.ResponseWriter, sessionID string, lastEventID int) (*sseConnection, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}

	w.Header().Set("Content-Type", contentTypeSSE)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(headerMCPSessionID, sessionID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	conn := &sseConnection{writer: w, flusher: flusher}

	if lastEventID >= 0 {
		store := t.events.stream(sessionID)
		for _, data := range store.since(lastEventID) {
			conn.writeRaw(data)
		}
	}

	return conn, true
}

func (t *HTTPTransport) writeError(w http.ResponseWriter, id any, code int, message string, data any) {
	errorResp := mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Error:   &mcp.ErrorResponse{Code: code, Message: message, Data: data},
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errorResp)
}

// collectingSender accumulates every response sent during one dispatch
// call, so a batch of requests can be answered with a single JSON array.
type collectingSender struct {
	mu        sync.Mutex
	responses []mcp.Response
}

func (c *collectingSender) SendResponse(response mcp.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, response)
	return nil
}

// snapshot returns a copy of the responses recorded so far. Used instead of
// reading c.responses directly once a timeout may have left the dispatch
// goroutine still running concurrently.
func (c *collectingSender) snapshot() []mcp.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]mcp.Response, len(c.responses))
	copy(out, c.responses)
	return out
}

// fillTimedOut synthesizes a -32603 response for every id in ids that
// doesn't already have a response recorded. The still-running dispatch
// goroutine may keep calling SendResponse after this runs; both append to
// the same slice under the same lock, so no response is lost, but a
// request that finishes right after the deadline may end up answered
// twice - the client sees whichever id it's still waiting on resolved, and
// ignores the stray duplicate since it already has a result.
func (c *collectingSender) fillTimedOut(ids []any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	answered := make(map[any]bool, len(c.responses))
	for _, resp := range c.responses {
		answered[resp.ID] = true
	}

	for _, id := range ids {
		if answered[id] {
			continue
		}
		c.responses = append(c.responses, mcp.Response{
			JSONRPC: mcp.JSONRPCVersion,
			ID:      id,
			Error: &mcp.ErrorResponse{
				Code:    mcp.ErrorCodeInternalError,
				Message: "request timed out",
			},
		})
	}
}

// sseConnection is one open SSE HTTP response, serializing writes since a
// background drain and an in-flight request could both want to send.
type sseConnection struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func (c *sseConnection) sendEvent(store *streamEvents, eventType string, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}

	var buf strings.Builder
	id := store.append(dataBytes)
	fmt.Fprintf(&buf, "id: %d\n", id)
	if eventType != "" {
		fmt.Fprintf(&buf, "event: %s\n", eventType)
	}
	for _, line := range strings.Split(string(dataBytes), "\n") {
		fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteString("\n")

	return c.writeRaw([]byte(buf.String()))
}

func (c *sseConnection) writeRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("stream closed")
	}
	if _, err := c.writer.Write(data); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}

func (c *sseConnection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// sseResponseSender adapts a single request's JSON-RPC response onto an
// sseConnection.
type sseResponseSender struct {
	conn  *sseConnection
	store *streamEvents
}

func (s *sseResponseSender) SendResponse(response mcp.Response) error {
	return s.conn.sendEvent(s.store, "message", response)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func requestID(msg mcp.Message) any {
	if msg.Request != nil {
		return msg.Request.ID
	}
	return nil
}

func sessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(mcp.SessionIDKey).(string); ok {
		return v
	}
	return ""
}

func (t *HTTPTransport) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(t.cfg.CORSOrigins) > 0 {
			origin = strings.Join(t.cfg.CORSOrigins, ", ")
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Last-Event-ID, Mcp-Session-Id, MCP-Protocol-Version")
		w.Header().Set("Access-Control-Allow-Credentials", "false")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, MCP-Protocol-Version")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (t *HTTPTransport) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	t.mu.Lock()
	activeSessions := len(t.connections)
	t.mu.Unlock()

	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>MCP Server</title>
    <style>
        * { box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0;
            padding: 0;
            background: #f8f9fa;
            color: #2c3e50;
            line-height: 1.6;
        }
        .container {
            max-width: 600px;
            margin: 0 auto;
            padding: 3rem 2rem;
        }
        .header {
            text-align: center;
            margin-bottom: 3rem;
        }
        .header h1 {
            margin: 0 0 0.5rem 0;
            font-size: 2rem;
            font-weight: 300;
            color: #2c3e50;
        }
        .header p {
            margin: 0;
            color: #6c757d;
            font-size: 1rem;
        }
        .status {
            background: #d1ecf1;
            color: #0c5460;
            padding: 1rem 1.5rem;
            border-radius: 6px;
            margin-bottom: 2rem;
            text-align: center;
            font-weight: 500;
        }
        .info {
            background: white;
            border-radius: 6px;
            padding: 1.5rem;
            margin-bottom: 2rem;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .info-row {
            display: flex;
            justify-content: space-between;
            padding: 0.5rem 0;
            border-bottom: 1px solid #e9ecef;
        }
        .info-row:last-child { border-bottom: none; }
        .label { color: #6c757d; }
        .value {
            font-family: 'Monaco', 'Consolas', monospace;
            color: #2c3e50;
            font-size: 0.9rem;
        }
        .endpoints {
            background: white;
            border-radius: 6px;
            padding: 1.5rem;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .endpoints h3 {
            margin: 0 0 1rem 0;
            font-size: 1.1rem;
            color: #2c3e50;
        }
        .endpoint {
            display: flex;
            justify-content: space-between;
            align-items: center;
            padding: 0.75rem 0;
            border-bottom: 1px solid #e9ecef;
            font-family: 'Monaco', 'Consolas', monospace;
            font-size: 0.9rem;
        }
        .endpoint:last-child { border-bottom: none; }
        .method {
            background: #007bff;
            color: white;
            padding: 0.2rem 0.5rem;
            border-radius: 3px;
            font-size: 0.75rem;
            font-weight: bold;
            margin-right: 0.5rem;
        }
        .footer {
            text-align: center;
            margin-top: 2rem;
            padding-top: 2rem;
            border-top: 1px solid #e9ecef;
            color: #6c757d;
            font-size: 0.9rem;
        }
        .footer a {
            color: #007bff;
            text-decoration: none;
        }
        .footer a:hover {
            text-decoration: underline;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>MCP Server</h1>
            <p>Model Context Protocol</p>
        </div>

        <div class="status">
            Running on port %d
        </div>

        <div class="info">
            <div class="info-row">
                <span class="label">Protocol</span>
                <span class="value">%s</span>
            </div>
            <div class="info-row">
                <span class="label">Transport</span>
                <span class="value">HTTP + SSE</span>
            </div>
            <div class="info-row">
                <span class="label">Active Streams</span>
                <span class="value">%d</span>
            </div>
        </div>

        <div class="endpoints">
            <h3>Endpoints</h3>
            <div class="endpoint">
                <div><span class="method">POST</span>%s</div>
                <span>JSON-RPC 2.0</span>
            </div>
            <div class="endpoint">
                <div><span class="method">GET</span>%s</div>
                <span>Server-Sent Events</span>
            </div>
            <div class="endpoint">
                <div><span class="method">DELETE</span>%s</div>
                <span>Terminate Session</span>
            </div>
            <div class="endpoint">
                <div><span class="method">GET</span>/health</div>
                <span>Health Check</span>
            </div>
        </div>

        <div class="footer">
            <a href="https://github.com/cbrgm/go-mcp-server">github.com/cbrgm/go-mcp-server</a>
        </div>
    </div>
</body>
</html>`

	fmt.Fprintf(w, html,
		t.cfg.Port,
		mcp.ProtocolVersion,
		activeSessions,
		t.cfg.MCPPath,
		t.cfg.MCPPath,
		t.cfg.MCPPath,
	)
}

func (t *HTTPTransport) securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	})
}
