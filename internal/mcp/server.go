// Package mcp exposes a workspace session over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/javafx-support/internal/watcher"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "fxsupport"

// Server serves the fx_* tools for one session.
type Server struct {
	session     *workspace.Session
	mcp         *server.MCPServer
	coordinator *watcher.Coordinator
}

// NewServer registers every tool for session. coordinator may be nil, in
// which case the session is not refreshed while serving.
func NewServer(session *workspace.Session, version string, coordinator *watcher.Coordinator) *Server {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(true))

	AddViewsTool(s, session)
	AddCheckTool(s, session)
	AddFixTool(s, session)
	AddBuilderTool(s, session)

	return &Server{session: session, mcp: s, coordinator: coordinator}
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve runs the stdio transport until a signal, a transport error or ctx is
// done.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.coordinator != nil {
		go func() {
			if err := s.coordinator.Start(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Warning: file watching disabled: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
