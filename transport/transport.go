// Package transport provides MCP transport layer implementations.
//
// This package defines the Transport interface and provides implementations
// for the two transport mechanisms the spec requires:
//   - Stdio transport for process-based communication
//   - Streamable HTTP transport (direct JSON or SSE) for network-based
//     communication
//
// All transports use JSON-RPC 2.0 for message exchange and delegate
// protocol logic entirely to a *server.Server; a transport's job is
// framing, session-id plumbing, and error surfacing for its medium.
package transport

import (
	"context"

	"github.com/cbrgm/go-mcp-server/server"
)

// Transport defines the interface for MCP transport mechanisms.
type Transport interface {
	// Start begins listening for requests on this transport.
	// It blocks until the context is cancelled or an error occurs.
	Start(ctx context.Context, srv *server.Server) error

	// Stop gracefully shuts down the transport.
	Stop() error
}
