package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cbrgm/go-mcp-server/mcp"
)

func TestNewSessionStartsNotInitialized(t *testing.T) {
	s := New("sess-1")
	if s.IsInitialized() {
		t.Error("expected a fresh session to be not-initialized")
	}
	if s.IsHandshakeAnswered() {
		t.Error("expected a fresh session to have no handshake answered")
	}
	if s.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %q", s.LogLevel)
	}
}

func TestAnswerHandshakeAloneDoesNotInitialize(t *testing.T) {
	s := New("sess-1")
	s.AnswerHandshake(mcp.ClientInfo{Name: "client", Version: "1.0"}, "2025-06-18")

	if !s.IsHandshakeAnswered() {
		t.Error("expected handshake to be recorded as answered")
	}
	if s.IsInitialized() {
		t.Error("AnswerHandshake alone must not mark the session initialized")
	}
}

func TestMarkInitializedRequiresAnsweredHandshake(t *testing.T) {
	s := New("sess-1")
	s.MarkInitialized()
	if s.IsInitialized() {
		t.Error("MarkInitialized before AnswerHandshake must have no effect")
	}

	s.AnswerHandshake(mcp.ClientInfo{Name: "client"}, "2025-06-18")
	s.MarkInitialized()
	if !s.IsInitialized() {
		t.Error("expected session to be initialized after AnswerHandshake + MarkInitialized")
	}
}

func TestSubscriptions(t *testing.T) {
	s := New("sess-1")
	if s.IsSubscribed("tea://sencha") {
		t.Error("expected no subscription initially")
	}
	s.Subscribe("tea://sencha")
	if !s.IsSubscribed("tea://sencha") {
		t.Error("expected subscription after Subscribe")
	}
	s.Unsubscribe("tea://sencha")
	if s.IsSubscribed("tea://sencha") {
		t.Error("expected no subscription after Unsubscribe")
	}
}

func TestAttributes(t *testing.T) {
	s := New("sess-1")
	if _, ok := s.Attribute("missing"); ok {
		t.Error("expected Attribute to report absent for an unset key")
	}
	s.SetAttribute("principal", "alice")
	v, ok := s.Attribute("principal")
	if !ok || v != "alice" {
		t.Errorf("expected attribute 'alice', got %v ok=%v", v, ok)
	}
}

func TestEnqueueAndDrain(t *testing.T) {
	s := New("sess-1")
	if drained := s.Drain(); drained != nil {
		t.Errorf("expected nil drain for an empty queue, got %v", drained)
	}

	s.Enqueue(&mcp.Notification{Method: "notifications/tools/list_changed"})
	s.Enqueue(&mcp.Notification{Method: "notifications/resources/list_changed"})

	drained := s.Drain()
	if len(drained) != 2 {
		t.Fatalf("expected 2 drained messages, got %d", len(drained))
	}
	if second := s.Drain(); second != nil {
		t.Errorf("expected the queue to be empty after Drain, got %v", second)
	}
}

func TestExpired(t *testing.T) {
	s := New("sess-1")
	if s.Expired(time.Hour) {
		t.Error("expected a fresh session not to be expired against a 1h TTL")
	}
	s.LastActivity = time.Now().Add(-2 * time.Hour)
	if !s.Expired(time.Hour) {
		t.Error("expected a session idle for 2h to be expired against a 1h TTL")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := New("sess-1")
	s.AnswerHandshake(mcp.ClientInfo{Name: "client", Version: "1.0"}, "2025-06-18")
	s.MarkInitialized()
	s.Subscribe("tea://sencha")
	s.SetAttribute("principal", "alice")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	restored := &Session{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if restored.ID != s.ID {
		t.Errorf("expected ID %q, got %q", s.ID, restored.ID)
	}
	if !restored.IsInitialized() {
		t.Error("expected restored session to be initialized")
	}
	if !restored.IsSubscribed("tea://sencha") {
		t.Error("expected restored session to keep its subscription")
	}
	v, ok := restored.Attribute("principal")
	if !ok || v != "alice" {
		t.Errorf("expected restored attribute 'alice', got %v ok=%v", v, ok)
	}
}

func TestUnmarshalHandlesNilAttributes(t *testing.T) {
	restored := &Session{}
	if err := json.Unmarshal([]byte(`{"id":"sess-1"}`), restored); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := restored.Attribute("anything"); ok {
		t.Error("expected no attributes on a session with an absent attributes field")
	}
}
