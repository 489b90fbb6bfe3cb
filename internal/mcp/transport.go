package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// MaxMessageSize is the maximum size for a single MCP message (1MB).
// This accommodates large reference listings and block analyses.
const MaxMessageSize = 1024 * 1024

// readMessage reads a JSON-RPC message from the input stream
func (s *Server) readMessage() (*Message, error) {
	// Lazily initialize the scanner on first use
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		// Increase buffer size beyond default 64KB to handle large messages
		s.scanner.Buffer(make([]byte, MaxMessageSize), MaxMessageSize)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}
		return nil, io.EOF
	}

	line := s.scanner.Text()
	s.logger.Debug("received message", "raw", line)

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return nil, fmt.Errorf("error parsing JSON-RPC message: %w", err)
	}

	return &msg, nil
}

// writeMessage writes a JSON-RPC message to the output stream
func (s *Server) writeMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling JSON-RPC message: %w", err)
	}

	s.logger.Debug("sending message", "raw", string(data))

	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("error writing to stdout: %w", err)
	}

	return nil
}

// writeError writes an error response
func (s *Server) writeError(id interface{}, code int, message string) error {
	return s.writeMessage(NewErrorMessage(id, code, message, nil))
}
