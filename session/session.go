// Package session implements per-connection MCP session state: the
// initialization handshake flag, negotiated protocol version, resource
// subscriptions, logging level, and the outbound message queue a
// transport drains to deliver server-initiated messages (list_changed
// notifications, elicitation requests) to a client.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cbrgm/go-mcp-server/mcp"
)

// Session holds the state the protocol engine tracks for one client
// connection, from the initialize handshake onward.
type Session struct {
	mu sync.Mutex

	ID                string         `json:"id"`
	HandshakeAnswered bool           `json:"handshakeAnswered"`
	Initialized       bool           `json:"initialized"`
	ClientInfo        mcp.ClientInfo `json:"clientInfo"`
	ProtocolVersion   string         `json:"protocolVersion"`
	LogLevel          string         `json:"logLevel"`
	CreatedAt         time.Time      `json:"createdAt"`
	LastActivity      time.Time      `json:"lastActivity"`

	subscriptions map[string]bool
	attributes    map[string]any
	outbound      []any
}

// New creates a fresh, not-yet-initialized session.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:            id,
		CreatedAt:     now,
		LastActivity:  now,
		LogLevel:      "info",
		subscriptions: make(map[string]bool),
		attributes:    make(map[string]any),
	}
}

// Touch records activity, resetting the session's TTL clock.
func (s *Session) Touch() {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// AnswerHandshake records a successful initialize response. It does not by
// itself make the session initialized: per the MCP handshake, that only
// happens once the client's notifications/initialized follows.
func (s *Session) AnswerHandshake(clientInfo mcp.ClientInfo, protocolVersion string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HandshakeAnswered = true
	s.ClientInfo = clientInfo
	s.ProtocolVersion = protocolVersion
}

// IsHandshakeAnswered reports whether initialize has already been answered
// for this session (used to reject a second initialize).
func (s *Session) IsHandshakeAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.HandshakeAnswered
}

// MarkInitialized completes the handshake: it takes effect only if
// AnswerHandshake already ran for this session, so a stray
// notifications/initialized sent before a successful initialize response
// has no observable effect.
func (s *Session) MarkInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.HandshakeAnswered {
		s.Initialized = true
	}
}

// IsInitialized reports whether the full handshake (initialize response
// followed by notifications/initialized) has completed.
func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Initialized
}

// Subscribe records interest in change notifications for a resource URI.
func (s *Session) Subscribe(uri string) {
	s.mu.Lock()
	s.subscriptions[uri] = true
	s.mu.Unlock()
}

// Unsubscribe removes interest in a resource URI.
func (s *Session) Unsubscribe(uri string) {
	s.mu.Lock()
	delete(s.subscriptions, uri)
	s.mu.Unlock()
}

// IsSubscribed reports whether this session has subscribed to uri.
func (s *Session) IsSubscribed(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptions[uri]
}

// SetLogLevel records the minimum level the client wants logging/message
// notifications sent at (logging/setLevel).
func (s *Session) SetLogLevel(level string) {
	s.mu.Lock()
	s.LogLevel = level
	s.mu.Unlock()
}

// SetAttribute stores an arbitrary per-session value, for host-defined use
// (e.g. an elicitation response cache, an auth principal).
func (s *Session) SetAttribute(key string, value any) {
	s.mu.Lock()
	s.attributes[key] = value
	s.mu.Unlock()
}

// Attribute retrieves a value set with SetAttribute.
func (s *Session) Attribute(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attributes[key]
	return v, ok
}

// Enqueue appends a server-initiated message (a notification, an
// elicitation request, or a plain response) to this session's outbound
// queue, for a transport to deliver over its SSE stream or next poll.
// msg is one of mcp.Response, mcp.Notification, or mcp.Request.
func (s *Session) Enqueue(msg any) {
	s.mu.Lock()
	s.outbound = append(s.outbound, msg)
	s.mu.Unlock()
}

// Drain removes and returns every message currently queued.
func (s *Session) Drain() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.outbound) == 0 {
		return nil
	}
	drained := s.outbound
	s.outbound = nil
	return drained
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.LastActivity) > ttl
}

// wireSession is the JSON shape a cache-backed store persists. The
// outbound queue is intentionally excluded: it is process-local delivery
// state for whichever transport instance currently owns the connection,
// not durable session state.
type wireSession struct {
	ID                string         `json:"id"`
	HandshakeAnswered bool           `json:"handshakeAnswered"`
	Initialized       bool           `json:"initialized"`
	ClientInfo        mcp.ClientInfo `json:"clientInfo"`
	ProtocolVersion   string         `json:"protocolVersion"`
	LogLevel          string         `json:"logLevel"`
	CreatedAt         time.Time      `json:"createdAt"`
	LastActivity      time.Time      `json:"lastActivity"`
	Subscriptions     []string       `json:"subscriptions,omitempty"`
	Attributes        map[string]any `json:"attributes,omitempty"`
}

// MarshalJSON renders the session for a cache-backed Store.
func (s *Session) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]string, 0, len(s.subscriptions))
	for uri := range s.subscriptions {
		subs = append(subs, uri)
	}

	return json.Marshal(wireSession{
		ID:                s.ID,
		HandshakeAnswered: s.HandshakeAnswered,
		Initialized:       s.Initialized,
		ClientInfo:        s.ClientInfo,
		ProtocolVersion:   s.ProtocolVersion,
		LogLevel:          s.LogLevel,
		CreatedAt:         s.CreatedAt,
		LastActivity:      s.LastActivity,
		Subscriptions:     subs,
		Attributes:        s.attributes,
	})
}

// UnmarshalJSON restores a session persisted by MarshalJSON.
func (s *Session) UnmarshalJSON(data []byte) error {
	var w wireSession
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	s.ID = w.ID
	s.HandshakeAnswered = w.HandshakeAnswered
	s.Initialized = w.Initialized
	s.ClientInfo = w.ClientInfo
	s.ProtocolVersion = w.ProtocolVersion
	s.LogLevel = w.LogLevel
	s.CreatedAt = w.CreatedAt
	s.LastActivity = w.LastActivity

	s.subscriptions = make(map[string]bool, len(w.Subscriptions))
	for _, uri := range w.Subscriptions {
		s.subscriptions[uri] = true
	}
	s.attributes = w.Attributes
	if s.attributes == nil {
		s.attributes = make(map[string]any)
	}
	return nil
}
