// Package server implements the MCP request processor: the component that
// owns the handshake state machine, dispatches JSON-RPC methods to the
// registry and session store, and formats their results back onto the
// wire via the ResponseSender installed in the request's context.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/session"
)

// Server dispatches JSON-RPC requests against a Registry and a session
// Store, enforcing the initialize handshake and protocol version
// negotiation before anything else is served.
type Server struct {
	registry     *registry.Registry
	sessions     session.Store
	serverInfo   mcp.ServerInfo
	instructions string
	logger       *slog.Logger
	config       *serverConfig

	catalogListeners []func(registry.ListKind)
}

type serverConfig struct {
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	maxPageSize     int
	logLevel        string
	logJSON         bool
	customLogger    *slog.Logger
	instructions    string

	toolsEnabled              bool
	resourcesEnabled          bool
	resourcesSubscribeEnabled bool
	promptsEnabled            bool
	loggingEnabled            bool
}

// Option configures a Server at construction time.
type Option func(*serverConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serverConfig) { cfg.customLogger = logger }
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(cfg *serverConfig) { cfg.requestTimeout = timeout }
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(cfg *serverConfig) { cfg.shutdownTimeout = timeout }
}

func WithReadTimeout(timeout time.Duration) Option {
	return func(cfg *serverConfig) { cfg.readTimeout = timeout }
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(cfg *serverConfig) { cfg.writeTimeout = timeout }
}

func WithIdleTimeout(timeout time.Duration) Option {
	return func(cfg *serverConfig) { cfg.idleTimeout = timeout }
}

func WithMaxPageSize(size int) Option {
	return func(cfg *serverConfig) { cfg.maxPageSize = size }
}

func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) { cfg.logLevel = level }
}

func WithLogJSON(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.logJSON = enabled }
}

func WithInstructions(instructions string) Option {
	return func(cfg *serverConfig) { cfg.instructions = instructions }
}

// WithToolsCapability enables or disables the tools/* method family. When
// disabled, tools/list and tools/call reply -32601 naming the disabled
// capability, and the initialize response omits "tools" from Capabilities.
func WithToolsCapability(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.toolsEnabled = enabled }
}

// WithResourcesCapability enables or disables the resources/* method
// family (list, templates/list, read). subscribe is gated separately by
// WithResourcesSubscribeCapability.
func WithResourcesCapability(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.resourcesEnabled = enabled }
}

// WithResourcesSubscribeCapability enables or disables resources/subscribe
// and resources/unsubscribe. Both methods also stay disabled whenever the
// base resources capability is disabled, whatever this option says.
func WithResourcesSubscribeCapability(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.resourcesSubscribeEnabled = enabled }
}

// WithPromptsCapability enables or disables the prompts/* method family.
func WithPromptsCapability(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.promptsEnabled = enabled }
}

// WithLoggingCapability enables or disables logging/setLevel.
func WithLoggingCapability(enabled bool) Option {
	return func(cfg *serverConfig) { cfg.loggingEnabled = enabled }
}

// New creates a Server backed by reg and store, using the options pattern
// for everything else.
//
// Example usage:
//
//	srv, err := server.New(reg, store, "My MCP Server", "1.0.0",
//	    server.WithLogger(logger),
//	    server.WithRequestTimeout(30*time.Second),
//	)
func New(reg *registry.Registry, store session.Store, name, version string, opts ...Option) (*Server, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}

	config := &serverConfig{
		requestTimeout:  30 * time.Second,
		shutdownTimeout: 5 * time.Second,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		idleTimeout:     120 * time.Second,
		maxPageSize:     50,
		logLevel:        "info",
		logJSON:         false,

		toolsEnabled:              true,
		resourcesEnabled:          true,
		resourcesSubscribeEnabled: true,
		promptsEnabled:            true,
		loggingEnabled:            true,
	}

	for _, opt := range opts {
		opt(config)
	}

	var logger *slog.Logger
	if config.customLogger != nil {
		logger = config.customLogger
	} else {
		logger = createDefaultLogger(config.logLevel, config.logJSON)
	}

	s := &Server{
		registry:     reg,
		sessions:     store,
		logger:       logger,
		config:       config,
		instructions: config.instructions,
		serverInfo: mcp.ServerInfo{
			Name:    name,
			Version: version,
		},
	}

	reg.OnListChanged(s.broadcastListChanged)

	return s, nil
}

// RequestTimeout returns the configured soft per-request timeout, for a
// transport to apply uniformly across direct-JSON and SSE delivery.
func (s *Server) RequestTimeout() time.Duration { return s.config.requestTimeout }

// Sessions exposes the underlying session store, for a transport to
// create/look up sessions around a request.
func (s *Server) Sessions() session.Store { return s.sessions }

// Logger exposes the configured logger, for callers outside the package
// (a transport, the session reaper) that should log through the same
// sink as the server itself.
func (s *Server) Logger() *slog.Logger { return s.logger }

// OnCatalogChanged subscribes to registry list_changed events. A transport
// uses this to fan the change out to every session it currently tracks,
// since the session.Store interface itself has no enumeration method.
func (s *Server) OnCatalogChanged(fn func(registry.ListKind)) {
	s.catalogListeners = append(s.catalogListeners, fn)
}

func (s *Server) broadcastListChanged(kind registry.ListKind) {
	s.logger.Debug("catalog changed", "kind", kind)
	for _, fn := range s.catalogListeners {
		fn(kind)
	}
}

// QueueListChanged enqueues a notifications/*/list_changed frame onto a
// specific session's outbound queue. Transports call this for every
// session they track when the registry reports a change.
func (s *Server) QueueListChanged(sess *session.Session, kind registry.ListKind) {
	method := map[registry.ListKind]string{
		registry.ListKindTools:     "notifications/tools/list_changed",
		registry.ListKindResources: "notifications/resources/list_changed",
		registry.ListKindPrompts:   "notifications/prompts/list_changed",
	}[kind]
	if method == "" {
		return
	}
	sess.Enqueue(mcp.Notification{JSONRPC: mcp.JSONRPCVersion, Method: method})
}

// HandleRequest processes a single JSON-RPC request for sessionID and
// sends the result through the ResponseSender installed in ctx.
func (s *Server) HandleRequest(ctx context.Context, sessionID string, req *mcp.Request) error {
	s.logger.Debug("handling request", "method", req.Method, "id", req.ID, "session", sessionID)

	if req.Method == "initialize" {
		return s.handleInitialize(ctx, sessionID, req.ID, req.Params)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return s.sendError(ctx, req.ID, mcp.ErrorCodeNotInitialized, "session not found; call initialize first", nil)
	}
	if !sess.IsInitialized() {
		return s.sendError(ctx, req.ID, mcp.ErrorCodeNotInitialized, "server not initialized", nil)
	}
	sess.Touch()
	_ = s.sessions.Put(ctx, sess)

	switch req.Method {
	case "ping":
		return s.handlePing(ctx, req.ID)
	case "tools/list":
		if !s.config.toolsEnabled {
			return s.capabilityDisabled(ctx, req.ID, "tools")
		}
		return s.handleToolsList(ctx, req.ID, req.Params)
	case "tools/call":
		if !s.config.toolsEnabled {
			return s.capabilityDisabled(ctx, req.ID, "tools")
		}
		return s.handleToolsCall(ctx, sess, req.ID, req.Params)
	case "resources/list":
		if !s.config.resourcesEnabled {
			return s.capabilityDisabled(ctx, req.ID, "resources")
		}
		return s.handleResourcesList(ctx, req.ID, req.Params)
	case "resources/templates/list":
		if !s.config.resourcesEnabled {
			return s.capabilityDisabled(ctx, req.ID, "resources")
		}
		return s.handleResourceTemplatesList(ctx, req.ID, req.Params)
	case "resources/read":
		if !s.config.resourcesEnabled {
			return s.capabilityDisabled(ctx, req.ID, "resources")
		}
		return s.handleResourcesRead(ctx, req.ID, req.Params)
	case "resources/subscribe":
		if !s.config.resourcesEnabled || !s.config.resourcesSubscribeEnabled {
			return s.capabilityDisabled(ctx, req.ID, "resources.subscribe")
		}
		return s.handleResourcesSubscribe(ctx, sess, req.ID, req.Params)
	case "resources/unsubscribe":
		if !s.config.resourcesEnabled || !s.config.resourcesSubscribeEnabled {
			return s.capabilityDisabled(ctx, req.ID, "resources.subscribe")
		}
		return s.handleResourcesUnsubscribe(ctx, sess, req.ID, req.Params)
	case "prompts/list":
		if !s.config.promptsEnabled {
			return s.capabilityDisabled(ctx, req.ID, "prompts")
		}
		return s.handlePromptsList(ctx, req.ID, req.Params)
	case "prompts/get":
		if !s.config.promptsEnabled {
			return s.capabilityDisabled(ctx, req.ID, "prompts")
		}
		return s.handlePromptsGet(ctx, req.ID, req.Params)
	case "completion/complete":
		return s.handleCompletionComplete(ctx, req.ID, req.Params)
	case "logging/setLevel":
		if !s.config.loggingEnabled {
			return s.capabilityDisabled(ctx, req.ID, "logging")
		}
		return s.handleLoggingSetLevel(ctx, sess, req.ID, req.Params)
	default:
		s.logger.Warn("unknown method requested", "method", req.Method, "id", req.ID)
		return s.sendError(ctx, req.ID, mcp.ErrorCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method), nil)
	}
}

// capabilityDisabled replies -32601 naming the disabled capability, per
// spec.md §4.F's capability gate.
func (s *Server) capabilityDisabled(ctx context.Context, id any, capability string) error {
	return s.sendError(ctx, id, mcp.ErrorCodeMethodNotFound, fmt.Sprintf("capability disabled: %s", capability), nil)
}

// HandleNotification processes a JSON-RPC notification. Per JSON-RPC
// semantics, failures are logged and never answered.
func (s *Server) HandleNotification(ctx context.Context, sessionID string, n *mcp.Notification) {
	s.logger.Debug("handling notification", "method", n.Method, "session", sessionID)

	switch n.Method {
	case "notifications/initialized":
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			s.logger.Warn("notifications/initialized for unknown session", "session", sessionID)
			return
		}
		// MarkInitialized is a no-op unless initialize already answered
		// successfully for this session: a stray notifications/initialized
		// sent first must have no observable effect.
		sess.MarkInitialized()
		sess.Touch()
		_ = s.sessions.Put(ctx, sess)
	default:
		s.logger.Debug("ignoring unhandled notification", "method", n.Method)
	}
}

func (s *Server) sendResponse(ctx context.Context, id any, result any) error {
	return s.sendResponseDirect(ctx, mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Result:  result,
	})
}

func (s *Server) sendError(ctx context.Context, id any, code int, message string, data any) error {
	return s.sendResponseDirect(ctx, mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      id,
		Error:   &mcp.ErrorResponse{Code: code, Message: message, Data: data},
	})
}

func (s *Server) sendResponseDirect(ctx context.Context, response mcp.Response) error {
	sender, ok := mcp.SenderFromContext(ctx)
	if !ok {
		return fmt.Errorf("missing response sender in context")
	}
	return sender.SendResponse(response)
}

func (s *Server) handleInitialize(ctx context.Context, sessionID string, id any, params any) error {
	initParams, err := parseInitializeParams(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid initialize parameters", err.Error())
	}

	negotiated := mcp.ProtocolVersion
	supported := false
	for _, v := range mcp.SupportedProtocolVersions {
		if v == initParams.ProtocolVersion {
			supported = true
			negotiated = v
			break
		}
	}
	if !supported {
		return s.sendError(ctx, id, mcp.ErrorCodeUnsupportedProtocolVersion,
			fmt.Sprintf("unsupported protocol version: %s", initParams.ProtocolVersion),
			map[string]any{"supported": mcp.SupportedProtocolVersions})
	}

	if existing, err := s.sessions.Get(ctx, sessionID); err == nil && existing.IsHandshakeAnswered() {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidRequest, "session already initialized", nil)
	}

	sess := session.New(sessionID)
	sess.AnswerHandshake(initParams.ClientInfo, negotiated)
	if err := s.sessions.Put(ctx, sess); err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInternalError, "failed to persist session", err.Error())
	}

	s.logger.Info("session initialized", "session", sessionID, "client", initParams.ClientInfo.Name)

	return s.sendResponse(ctx, id, mcp.InitializeResponse{
		ProtocolVersion: negotiated,
		Capabilities:    s.capabilities(),
		ServerInfo:      s.serverInfo,
		Instructions:    s.instructions,
	})
}

// capabilities builds the capability object advertised at initialize time,
// reflecting which method families this Server instance was configured to
// serve. A capability absent or false here causes the corresponding
// method(s) to reply -32601 when invoked (see capabilityDisabled).
func (s *Server) capabilities() map[string]any {
	caps := map[string]any{"completions": map[string]any{}, "elicitation": map[string]any{}}
	if s.config.toolsEnabled {
		caps["tools"] = map[string]bool{"listChanged": true}
	}
	if s.config.resourcesEnabled {
		caps["resources"] = map[string]bool{
			"listChanged": true,
			"subscribe":   s.config.resourcesSubscribeEnabled,
		}
	}
	if s.config.promptsEnabled {
		caps["prompts"] = map[string]bool{"listChanged": true}
	}
	if s.config.loggingEnabled {
		caps["logging"] = map[string]any{}
	}
	return caps
}

func (s *Server) handlePing(ctx context.Context, id any) error {
	return s.sendResponse(ctx, id, map[string]any{})
}

func (s *Server) handleToolsList(ctx context.Context, id any, params any) error {
	cursor, err := parseCursor(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid cursor", err.Error())
	}

	all := s.registry.AllTools()
	page, next := paginate(all, cursor, s.config.maxPageSize)

	result := map[string]any{"tools": page}
	if next != "" {
		result["nextCursor"] = next
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleToolsCall(ctx context.Context, sess *session.Session, id any, params any) error {
	name, args, err := parseCallParams(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid tool call parameters", err.Error())
	}

	spec, handler, err := s.registry.FindTool(name)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, fmt.Sprintf("unknown tool: %s", name), nil)
	}

	schema := spec.InputSchema.AsMap()
	if violations, verr := registry.ValidateArguments(schema, args); verr != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInternalError, "schema validation failed to run", verr.Error())
	} else if len(violations) > 0 {
		first := violations[0]
		message := fmt.Sprintf("%s: %s", first.Pointer, first.Message)
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, message, violations)
	}

	coerced, err := registry.CoerceArguments(spec.InputSchema.Properties, spec.InputSchema.Required, args)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "argument coercion failed", err.Error())
	}

	handlerCtx := session.NewContext(ctx, sess)
	result, err := handler(handlerCtx, coerced)
	if err != nil {
		s.logger.Debug("tool handler returned an error", "tool", name, "error", err)
		return s.sendResponse(ctx, id, mcp.CallToolResult{
			Content: []mcp.ContentItem{mcp.TextContent(err.Error())},
			IsError: true,
		})
	}

	return s.sendResponse(ctx, id, mcp.CallToolResult{Content: result.Content, IsError: false})
}

func (s *Server) handleResourcesList(ctx context.Context, id any, params any) error {
	cursor, err := parseCursor(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid cursor", err.Error())
	}

	all := s.registry.AllResources()
	page, next := paginate(all, cursor, s.config.maxPageSize)

	result := map[string]any{"resources": page}
	if next != "" {
		result["nextCursor"] = next
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleResourceTemplatesList(ctx context.Context, id any, params any) error {
	cursor, err := parseCursor(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid cursor", err.Error())
	}

	all := s.registry.AllTemplates()
	page, next := paginate(all, cursor, s.config.maxPageSize)

	result := map[string]any{"resourceTemplates": page}
	if next != "" {
		result["nextCursor"] = next
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, params any) error {
	uri, err := parseURIParam(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid resource read parameters", err.Error())
	}

	result, err := s.registry.ResolveResource(ctx, uri)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return s.sendError(ctx, id, mcp.ErrorCodeUnsupportedProtocolVersion, fmt.Sprintf("resource not found: %s", uri), nil)
		}
		return s.sendError(ctx, id, mcp.ErrorCodeInternalError, fmt.Sprintf("resource read failed: %s", err.Error()), nil)
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleResourcesSubscribe(ctx context.Context, sess *session.Session, id any, params any) error {
	uri, err := parseURIParam(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid subscribe parameters", err.Error())
	}
	sess.Subscribe(uri)
	_ = s.sessions.Put(ctx, sess)
	return s.sendResponse(ctx, id, map[string]any{})
}

func (s *Server) handleResourcesUnsubscribe(ctx context.Context, sess *session.Session, id any, params any) error {
	uri, err := parseURIParam(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid unsubscribe parameters", err.Error())
	}
	sess.Unsubscribe(uri)
	_ = s.sessions.Put(ctx, sess)
	return s.sendResponse(ctx, id, map[string]any{})
}

func (s *Server) handlePromptsList(ctx context.Context, id any, params any) error {
	cursor, err := parseCursor(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid cursor", err.Error())
	}

	all := s.registry.AllPrompts()
	page, next := paginate(all, cursor, s.config.maxPageSize)

	result := map[string]any{"prompts": page}
	if next != "" {
		result["nextCursor"] = next
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handlePromptsGet(ctx context.Context, id any, params any) error {
	name, rawArgs, err := parsePromptGetParams(params)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "invalid prompt parameters", err.Error())
	}

	_, handler, err := s.registry.FindPrompt(name)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, fmt.Sprintf("unknown prompt: %s", name), nil)
	}

	result, err := handler(ctx, rawArgs)
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, fmt.Sprintf("prompt call failed: %s", err.Error()), nil)
	}
	return s.sendResponse(ctx, id, result)
}

func (s *Server) handleCompletionComplete(ctx context.Context, id any, params any) error {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "params must be an object", nil)
	}

	ref, _ := paramsMap["ref"].(map[string]any)
	argument, _ := paramsMap["argument"].(map[string]any)
	argName, _ := argument["name"].(string)
	argValue, _ := argument["value"].(string)

	var values []string
	var err error
	switch ref["type"] {
	case "ref/prompt":
		name, _ := ref["name"].(string)
		values, err = s.registry.CompletePromptArgument(ctx, name, argName, argValue)
	case "ref/resource":
		uriTemplate, _ := ref["uri"].(string)
		values, err = s.registry.CompleteTemplateVariable(ctx, uriTemplate, argName, argValue)
	default:
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "unsupported completion reference type", nil)
	}
	if err != nil {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "completion failed", err.Error())
	}

	return s.sendResponse(ctx, id, map[string]any{
		"completion": map[string]any{
			"values":  values,
			"total":   len(values),
			"hasMore": false,
		},
	})
}

func (s *Server) handleLoggingSetLevel(ctx context.Context, sess *session.Session, id any, params any) error {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "params must be an object", nil)
	}
	level, ok := paramsMap["level"].(string)
	if !ok || level == "" {
		return s.sendError(ctx, id, mcp.ErrorCodeInvalidParams, "level is required and must be a string", nil)
	}

	sess.SetLogLevel(level)
	_ = s.sessions.Put(ctx, sess)
	return s.sendResponse(ctx, id, map[string]any{})
}

func parseInitializeParams(params any) (mcp.InitializeParams, error) {
	if params == nil {
		return mcp.InitializeParams{}, fmt.Errorf("params cannot be nil")
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return mcp.InitializeParams{}, err
	}
	var out mcp.InitializeParams
	if err := json.Unmarshal(raw, &out); err != nil {
		return mcp.InitializeParams{}, err
	}
	if out.ProtocolVersion == "" {
		return mcp.InitializeParams{}, fmt.Errorf("protocolVersion is required")
	}
	return out, nil
}

func parseCallParams(params any) (string, map[string]any, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("params must be an object")
	}
	name, ok := paramsMap["name"].(string)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("name is required and must be a string")
	}
	args := map[string]any{}
	if rawArgs, exists := paramsMap["arguments"]; exists {
		if m, ok := rawArgs.(map[string]any); ok {
			args = m
		}
	}
	return name, args, nil
}

func parsePromptGetParams(params any) (string, map[string]string, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("params must be an object")
	}
	name, ok := paramsMap["name"].(string)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("name is required and must be a string")
	}
	args := make(map[string]string)
	if rawArgs, exists := paramsMap["arguments"]; exists {
		if m, ok := rawArgs.(map[string]any); ok {
			for k, v := range m {
				if str, ok := v.(string); ok {
					args[k] = str
				}
			}
		}
	}
	return name, args, nil
}

func parseURIParam(params any) (string, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return "", fmt.Errorf("params must be an object")
	}
	uri, ok := paramsMap["uri"].(string)
	if !ok || uri == "" {
		return "", fmt.Errorf("uri is required and must be a string")
	}
	return uri, nil
}

func parseCursor(params any) (int, error) {
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return 0, nil
	}
	raw, exists := paramsMap["cursor"]
	if !exists {
		return 0, nil
	}
	cursorStr, ok := raw.(string)
	if !ok || cursorStr == "" {
		return 0, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor")
	}
	offset, err := strconv.Atoi(string(decoded))
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("malformed cursor")
	}
	return offset, nil
}

func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// paginate slices items[offset:offset+pageSize], returning the page and an
// opaque cursor for the next page ("" once the end is reached).
func paginate[T any](items []T, offset, pageSize int) ([]T, string) {
	if offset >= len(items) {
		return []T{}, ""
	}
	end := offset + pageSize
	if end >= len(items) {
		return items[offset:], ""
	}
	return items[offset:end], encodeCursor(end)
}

func createDefaultLogger(logLevel string, logJSON bool) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	logOutput := os.Stderr
	log.SetOutput(os.Stderr)

	var handler slog.Handler
	if logJSON {
		handler = slog.NewJSONHandler(logOutput, opts)
	} else {
		handler = slog.NewTextHandler(logOutput, opts)
	}
	return slog.New(handler)
}
