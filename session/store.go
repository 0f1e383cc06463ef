package session

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrNotFound is returned when a session id has no corresponding entry.
var ErrNotFound = errors.New("session: not found")

// contextKey is a private type so values this package stores in a
// context.Context never collide with keys set by other packages.
type contextKey string

// sessionContextKey is the key under which the request processor stashes
// the current Session before invoking a tool handler, so a handler that
// needs to queue a server-initiated message (e.g. an elicitation request)
// can reach the session without the core exposing a wider API surface.
const sessionContextKey contextKey = "session"

// NewContext returns a copy of ctx carrying sess, retrievable with
// FromContext.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext returns the Session stashed by NewContext, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	return sess, ok
}

// Store is a pluggable session backend. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the session for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Put creates or overwrites the session under its own ID.
	Put(ctx context.Context, s *Session) error

	// Delete removes a session, if present. Deleting a missing session is
	// not an error.
	Delete(ctx context.Context, id string) error

	// Reap removes every session idle longer than ttl and returns how
	// many were removed.
	Reap(ctx context.Context, ttl time.Duration) (int, error)
}

// StartReaper runs Reap on store every interval until ctx is cancelled.
func StartReaper(ctx context.Context, store Store, ttl, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.Reap(ctx, ttl)
				if err != nil {
					logger.Error("session reap failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("reaped expired sessions", "count", n)
				}
			}
		}
	}()
}
