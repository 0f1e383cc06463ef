package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cbrgm/go-mcp-server/cmd/go-mcp-server/handlers"
	"github.com/cbrgm/go-mcp-server/registry"
	"github.com/cbrgm/go-mcp-server/server"
	"github.com/cbrgm/go-mcp-server/session"
	"github.com/cbrgm/go-mcp-server/transport"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"

	sessionStoreMemory = "memory"
	sessionStoreRedis  = "redis"

	minPort = 1
	maxPort = 65535
)

type Config struct {
	TransportType       string        `arg:"--transport,env:MCP_TRANSPORT" default:"stdio" help:"Transport type (stdio|http)"`
	HTTPPort            int           `arg:"--port,env:MCP_PORT" default:"8080" help:"HTTP port"`
	MCPPath             string        `arg:"--mcp-path,env:MCP_PATH" default:"/mcp" help:"HTTP path the MCP endpoint is served on"`
	CORSOrigins         []string      `arg:"--cors-origin,env:MCP_CORS_ORIGINS" help:"Allowed CORS origins (repeatable); default allows any origin"`
	PreferDirectJSON    bool          `arg:"--prefer-direct-json,env:MCP_PREFER_DIRECT_JSON" default:"true" help:"Prefer a direct JSON response over SSE when the client Accept header allows either"`
	ServerName          string        `arg:"--name,env:MCP_SERVER_NAME" default:"MCP Server" help:"Server name"`
	ServerVersion       string        `arg:"--version,env:MCP_SERVER_VERSION" default:"1.0.0" help:"Server version"`
	RequestTimeout      time.Duration `arg:"--request-timeout,env:MCP_REQUEST_TIMEOUT" default:"30s" help:"Soft per-request timeout"`
	ShutdownTimeout     time.Duration `arg:"--shutdown-timeout,env:MCP_SHUTDOWN_TIMEOUT" default:"5s" help:"Shutdown timeout"`
	ReadTimeout         time.Duration `arg:"--read-timeout,env:MCP_READ_TIMEOUT" default:"30s" help:"HTTP read timeout"`
	WriteTimeout        time.Duration `arg:"--write-timeout,env:MCP_WRITE_TIMEOUT" default:"30s" help:"HTTP write timeout"`
	IdleTimeout         time.Duration `arg:"--idle-timeout,env:MCP_IDLE_TIMEOUT" default:"120s" help:"HTTP idle timeout"`
	MaxPageSize         int           `arg:"--max-page-size,env:MCP_MAX_PAGE_SIZE" default:"50" help:"Maximum items per tools/resources/prompts list page"`
	SessionStoreKind    string        `arg:"--session-store,env:MCP_SESSION_STORE" default:"memory" help:"Session store backend (memory|redis)"`
	RedisAddr           string        `arg:"--redis-addr,env:MCP_REDIS_ADDR" default:"localhost:6379" help:"Redis address, when --session-store=redis"`
	SessionTTL          time.Duration `arg:"--session-ttl,env:MCP_SESSION_TTL" default:"1h" help:"Session idle TTL before it is reaped"`
	SessionReapInterval time.Duration `arg:"--session-reap-interval,env:MCP_SESSION_REAP_INTERVAL" default:"60s" help:"How often expired sessions are swept"`
	LogLevel            string        `arg:"--log-level,env:MCP_LOG_LEVEL" default:"info" help:"Log level (debug|info|warn|error)"`
	LogJSON             bool          `arg:"--log-json,env:MCP_LOG_JSON" help:"Output logs in JSON format"`

	DisableTools              bool `arg:"--disable-tools,env:MCP_DISABLE_TOOLS" help:"Disable the tools capability (tools/list, tools/call reply method-not-found)"`
	DisableResources          bool `arg:"--disable-resources,env:MCP_DISABLE_RESOURCES" help:"Disable the resources capability"`
	DisableResourcesSubscribe bool `arg:"--disable-resources-subscribe,env:MCP_DISABLE_RESOURCES_SUBSCRIBE" help:"Disable resources/subscribe and resources/unsubscribe"`
	DisablePrompts            bool `arg:"--disable-prompts,env:MCP_DISABLE_PROMPTS" help:"Disable the prompts capability"`
	DisableLogging            bool `arg:"--disable-logging,env:MCP_DISABLE_LOGGING" help:"Disable logging/setLevel"`
}

func (Config) Description() string {
	return `MCP Server - A Model Context Protocol server implementation

This application provides a sample MCP server implementation that demonstrates
tools, resources, and prompts through the Model Context Protocol (MCP).
It supports both stdio and streamable HTTP transports for integration with
various MCP clients.

Configuration can be provided via command line arguments or environment variables.
Each option's environment variable is listed beside it below; all of them use the prefix "MCP_".

Examples:
  # Run with stdio transport (default)
  go-mcp-server

  # Run with HTTP transport on port 3000
  go-mcp-server --transport http --port 3000

  # Run with HTTP transport backed by a shared Redis session store
  go-mcp-server --transport http --session-store redis --redis-addr redis:6379

  # Set server name via environment variable
  MCP_SERVER_NAME="My MCP Server" go-mcp-server`
}

func (Config) Version() string {
	return "go-mcp-server 1.0.0"
}

func (c *Config) Validate() error {
	switch c.TransportType {
	case transportStdio, transportHTTP:
	default:
		return fmt.Errorf("invalid transport type: %s (must be '%s' or '%s')", c.TransportType, transportStdio, transportHTTP)
	}

	if c.HTTPPort < minPort || c.HTTPPort > maxPort {
		return fmt.Errorf("invalid port: %d (must be %d-%d)", c.HTTPPort, minPort, maxPort)
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"request timeout", c.RequestTimeout},
		{"shutdown timeout", c.ShutdownTimeout},
		{"read timeout", c.ReadTimeout},
		{"write timeout", c.WriteTimeout},
		{"idle timeout", c.IdleTimeout},
		{"session ttl", c.SessionTTL},
		{"session reap interval", c.SessionReapInterval},
	} {
		if d.value <= 0 {
			return fmt.Errorf("invalid %s: %v (must be positive)", d.name, d.value)
		}
	}

	if c.MaxPageSize <= 0 {
		return fmt.Errorf("invalid max page size: %d (must be positive)", c.MaxPageSize)
	}

	switch c.SessionStoreKind {
	case sessionStoreMemory, sessionStoreRedis:
	default:
		return fmt.Errorf("invalid session store: %s (must be '%s' or '%s')", c.SessionStoreKind, sessionStoreMemory, sessionStoreRedis)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be 'debug', 'info', 'warn', or 'error')", c.LogLevel)
	}

	return nil
}

func parseArgs() (*Config, error) {
	var cfg Config

	parser, err := arg.NewParser(arg.Config{
		Program: "go-mcp-server",
	}, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create argument parser: %w", err)
	}

	if err := parser.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func main() {
	cfg, err := parseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	reg := registry.New()
	if err := handlers.RegisterTeaCatalog(reg); err != nil {
		return fmt.Errorf("failed to register catalog: %w", err)
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}

	mcpServer, err := server.New(
		reg, store,
		cfg.ServerName, cfg.ServerVersion,
		server.WithRequestTimeout(cfg.RequestTimeout),
		server.WithShutdownTimeout(cfg.ShutdownTimeout),
		server.WithReadTimeout(cfg.ReadTimeout),
		server.WithWriteTimeout(cfg.WriteTimeout),
		server.WithIdleTimeout(cfg.IdleTimeout),
		server.WithMaxPageSize(cfg.MaxPageSize),
		server.WithLogLevel(cfg.LogLevel),
		server.WithLogJSON(cfg.LogJSON),
		server.WithToolsCapability(!cfg.DisableTools),
		server.WithResourcesCapability(!cfg.DisableResources),
		server.WithResourcesSubscribeCapability(!cfg.DisableResourcesSubscribe),
		server.WithPromptsCapability(!cfg.DisablePrompts),
		server.WithLoggingCapability(!cfg.DisableLogging),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	tr, err := createTransport(cfg, store)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	session.StartReaper(ctx, store, cfg.SessionTTL, cfg.SessionReapInterval, mcpServer.Logger())

	if err := tr.Start(ctx, mcpServer); err != nil {
		return fmt.Errorf("transport start failed: %w", err)
	}

	return nil
}

func newSessionStore(cfg *Config) (session.Store, error) {
	switch cfg.SessionStoreKind {
	case sessionStoreRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(client, cfg.SessionTTL), nil
	default:
		return session.NewMemoryStore(), nil
	}
}

func createTransport(cfg *Config, store session.Store) (transport.Transport, error) {
	switch strings.ToLower(cfg.TransportType) {
	case transportStdio:
		return transport.NewStdio(), nil
	case transportHTTP:
		return transport.NewHTTP(transport.HTTPConfig{
			Port:             cfg.HTTPPort,
			MCPPath:          cfg.MCPPath,
			CORSOrigins:      cfg.CORSOrigins,
			PreferDirectJSON: cfg.PreferDirectJSON,
			ReadTimeout:      cfg.ReadTimeout,
			WriteTimeout:     cfg.WriteTimeout,
			IdleTimeout:      cfg.IdleTimeout,
			ShutdownTimeout:  cfg.ShutdownTimeout,
			RequestTimeout:   cfg.RequestTimeout,
		}, store), nil
	default:
		return nil, fmt.Errorf("invalid transport type: %s (must be '%s' or '%s')", cfg.TransportType, transportStdio, transportHTTP)
	}
}
