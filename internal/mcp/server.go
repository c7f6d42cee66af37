package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/config"
	"github.com/honeycarbs/jobmatch/internal/metrics"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// Version is reported to MCP clients during initialization
var Version = "0.1.0"

// Server wraps an MCP SDK server with an HTTP listener
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	tools   []string
	started atomic.Bool

	cleanup     func()
	cleanupOnce sync.Once
}

// NewServer wires the configured backend and constructs a new MCP HTTP server
func NewServer(ctx context.Context, log *logging.Logger, cfg config.Config) (*Server, error) {
	m := metrics.New()
	res, cleanup, err := initializeResources(ctx, cfg, log, m)
	if err != nil {
		return nil, err
	}
	s := newServer(log, cfg, res)
	s.cleanup = cleanup
	return s, nil
}

func newServer(log *logging.Logger, cfg config.Config, res *Resources) *Server {
	if res.Metrics == nil {
		res.Metrics = metrics.New()
	}

	impl := &sdkmcp.Implementation{
		Name:    "jobmatch",
		Version: Version,
	}
	mcpServer := sdkmcp.NewServer(impl, nil)
	names := NewToolRegistry(log, res.Metrics).RegisterAll(mcpServer, res, cfg.Sheets.SpreadsheetID)

	handler := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", handler)
	mux.Handle("/metrics", res.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           res.Metrics.InstrumentHandler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger:  log,
		config:  cfg,
		srv:     httpSrv,
		tools:   names,
		cleanup: func() {},
	}
}

// Handler exposes the HTTP handler, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Tools lists the registered tool names
func (s *Server) Tools() []string {
	return s.tools
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("MCP HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the listener; in-flight requests finish first
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for MCP HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("MCP HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("MCP HTTP server shutdown complete")
	return nil
}

// Close releases the store and external clients. Call it after Shutdown.
func (s *Server) Close(context.Context) error {
	s.cleanupOnce.Do(s.cleanup)
	return nil
}
