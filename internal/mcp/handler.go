package mcp

import (
	"encoding/json"
	"fmt"
	"time"

	"codenav/internal/envelope"
	naverrors "codenav/internal/errors"
)

// handleMessage processes an incoming MCP message and returns a response
func (s *Server) handleMessage(msg *Message) *Message {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	return NewErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *Server) handleRequest(msg *Message) *Message {
	s.logger.Debug("handling request", "method", msg.Method, "id", msg.Id)

	switch msg.Method {
	case "initialize":
		return NewResultMessage(msg.Id, s.handleInitialize())
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.toolDefinitions(),
		})
	case "tools/call":
		return s.handleCallToolRequest(msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *Server) handleNotification(msg *Message) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("client initialized", "session", s.sessionID)
	default:
		s.logger.Debug("unknown notification", "method", msg.Method)
	}
}

// handleInitialize answers the MCP handshake.
func (s *Server) handleInitialize() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "codenav",
			"version": s.version,
		},
	}
}

// handleCallToolRequest executes a tool and wraps the envelope into the
// MCP content format. Tool-level failures travel inside the envelope;
// only protocol misuse surfaces as a JSON-RPC error.
func (s *Server) handleCallToolRequest(msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object", nil)
	}
	toolName, ok := params["name"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "Missing tool name", nil)
	}
	toolParams, ok := params["arguments"].(map[string]interface{})
	if !ok {
		toolParams = make(map[string]interface{})
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Unknown tool: %s", toolName), nil)
	}

	s.logger.Info("calling tool", "tool", toolName)

	started := time.Now()
	resp := handler(toolParams)
	s.recordCall(toolName, resp, time.Since(started))

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return NewErrorMessage(msg.Id, InternalError, err.Error(), nil)
	}
	return NewResultMessage(msg.Id, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": string(jsonBytes),
			},
		},
		"isError": !resp.Success,
	})
}

// recordCall persists one tool invocation when the metrics store is on.
func (s *Server) recordCall(toolName string, resp *envelope.Response, duration time.Duration) {
	if s.db == nil {
		return
	}
	code := ""
	if resp.Error != nil {
		code = resp.Error.Code
	}
	if err := s.db.RecordToolCall(toolName, resp.Success, code, duration); err != nil {
		s.logger.Warn("failed to record tool metrics", "tool", toolName, "error", err)
	}
}

// failure shortens the envelope-failure path for handlers.
func failure(code naverrors.ErrorCode, message string) *envelope.Response {
	return envelope.Failure(naverrors.New(code, message, nil))
}
