// Package mcp exposes the navigation tools over the Model Context
// Protocol: JSON-RPC 2.0, newline-delimited over stdio.
package mcp

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"codenav/internal/contexts"
	"codenav/internal/navigator"
	"codenav/internal/storage"
	"codenav/internal/workspace"
)

// Server is the MCP server. One server owns one workspace session.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *slog.Logger

	version   string
	sessionID string
	startedAt time.Time

	registry     *workspace.Registry
	cache        *contexts.Cache
	nav          *navigator.Navigator
	providerName string
	db           *storage.DB // optional metrics/warming store

	tools map[string]ToolHandler
}

// NewServer creates an MCP server over the given session components.
// db may be nil, disabling metrics persistence.
func NewServer(version string, registry *workspace.Registry, cache *contexts.Cache, nav *navigator.Navigator, providerName string, db *storage.DB, logger *slog.Logger) *Server {
	s := &Server{
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		logger:       logger,
		version:      version,
		sessionID:    uuid.NewString(),
		startedAt:    time.Now(),
		registry:     registry,
		cache:        cache,
		nav:          nav,
		providerName: providerName,
		db:           db,
		tools:        make(map[string]ToolHandler),
	}
	s.registerTools()
	return s
}

// SessionID returns the server's session identifier.
func (s *Server) SessionID() string { return s.sessionID }

// Start begins processing messages until stdin closes.
func (s *Server) Start() error {
	s.logger.Info("MCP server starting",
		"version", s.version,
		"session", s.sessionID,
		"provider", s.providerName,
	)

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				s.cache.Shutdown()
				return nil
			}
			s.logger.Error("error reading message", "error", err.Error())

			if msg != nil && msg.Id != nil {
				_ = s.writeError(msg.Id, ParseError, err.Error())
			}
			continue
		}

		response := s.handleMessage(msg)
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("error writing response", "error", err.Error())
			}
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing)
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}
