package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cbrgm/go-mcp-server/mcp"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/server"
)

const (
	DefaultStdioTimeout = 30 * time.Second

	// DefaultStdioFlushInterval is how often the outbound queue is drained
	// to the writer independent of inbound traffic, so a server-initiated
	// message (a list_changed notification, an elicitation request) queued
	// while the client is idle between requests still goes out promptly.
	DefaultStdioFlushInterval = 1 * time.Second

	stdioSessionID = "stdio"
)

// Stdio is a single-connection transport that reads newline-delimited
// JSON-RPC frames from stdin and writes responses to stdout. A process
// using it has exactly one session, "stdio", for the lifetime of the run.
type Stdio struct{}

func NewStdio() *Stdio {
	return &Stdio{}
}

func (t *Stdio) Start(ctx context.Context, srv *server.Server) error {
	log.Println("Starting stdio transport...")

	srv.OnCatalogChanged(func(kind registry.ListKind) {
		sess, err := srv.Sessions().Get(ctx, stdioSessionID)
		if err != nil {
			return
		}
		srv.QueueListChanged(sess, kind)
	})

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	lineChan := make(chan string)
	errChan := make(chan error)

	ticker := time.NewTicker(DefaultStdioFlushInterval)
	defer ticker.Stop()

	go func() {
		defer close(lineChan)
		defer close(errChan)

		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case lineChan <- scanner.Text():
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case <-ctx.Done():
			case errChan <- err:
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stdio transport shutting down")
			return nil
		case err := <-errChan:
			if err != nil {
				log.Printf("Error reading input: %v", err)
			}
			return err
		case <-ticker.C:
			t.flushOutbound(srv, &StdoutSender{})
		case line, ok := <-lineChan:
			if !ok {
				log.Println("Input closed, exiting")
				return nil
			}
			if line == "" {
				continue
			}
			if err := t.handleLine(ctx, srv, line); err != nil {
				log.Printf("Error handling message: %v", err)
			}
		}
	}
}

func (t *Stdio) Stop() error {
	return nil
}

func (t *Stdio) handleLine(ctx context.Context, srv *server.Server, line string) error {
	msg, err := mcp.DecodeMessage([]byte(line))
	if err != nil {
		return t.sendParseError(line, err)
	}

	sender := &StdoutSender{}
	reqCtx := context.WithValue(ctx, mcp.ResponseSenderKey, sender)
	reqCtx = context.WithValue(reqCtx, mcp.SessionIDKey, stdioSessionID)
	reqCtx, cancel := context.WithTimeout(reqCtx, DefaultStdioTimeout)
	defer cancel()

	t.dispatch(reqCtx, srv, sender, msg)
	t.flushOutbound(srv, sender)
	return nil
}

func (t *Stdio) dispatch(ctx context.Context, srv *server.Server, sender *StdoutSender, msg mcp.Message) {
	switch {
	case msg.Request != nil:
		if err := srv.HandleRequest(ctx, stdioSessionID, msg.Request); err != nil {
			log.Printf("error handling request: %v", err)
		}
	case msg.Notification != nil:
		srv.HandleNotification(ctx, stdioSessionID, msg.Notification)
	case msg.Batch != nil:
		for _, item := range msg.Batch {
			t.dispatch(ctx, srv, sender, item)
		}
	}
}

// flushOutbound delivers any server-initiated messages (list_changed
// notifications, elicitation requests) queued on the stdio session. It
// runs after each handled line and on every flush tick.
func (t *Stdio) flushOutbound(srv *server.Server, sender *StdoutSender) {
	sess, err := srv.Sessions().Get(context.Background(), stdioSessionID)
	if err != nil {
		return
	}
	for _, msg := range sess.Drain() {
		if err := sender.sendRaw(msg); err != nil {
			log.Printf("error flushing queued message: %v", err)
		}
	}
}

// sendParseError replies to a frame the decoder rejected. Per spec.md §7, a
// parse error always carries id:null - the frame failed to decode at all,
// so there is no reliable id to echo back.
func (t *Stdio) sendParseError(line string, err error) error {
	code, message := mcp.ErrorCodeParseError, "Parse error"
	if rpcErr, ok := err.(*mcp.ErrorResponse); ok {
		code, message = rpcErr.Code, rpcErr.Message
	}
	errorResp := mcp.Response{
		JSONRPC: mcp.JSONRPCVersion,
		ID:      nil,
		Error: &mcp.ErrorResponse{
			Code:    code,
			Message: message,
			Data:    err.Error(),
		},
	}

	respBytes, marshErr := json.Marshal(errorResp)
	if marshErr != nil {
		return marshErr
	}

	fmt.Println(string(respBytes))
	return nil
}

// StdoutSender implements mcp.ResponseSender by writing newline-delimited
// JSON to stdout.
type StdoutSender struct{}

func (s *StdoutSender) SendResponse(response mcp.Response) error {
	return s.sendRaw(response)
}

func (s *StdoutSender) sendRaw(v any) error {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
