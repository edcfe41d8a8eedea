// ABOUTME: Transport-independent MCP request dispatcher.
// ABOUTME: Handles initialize, ping, tools/list and tools/call over any JSON-RPC transport.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/sverigesradio-mcp/internal/tools"
)

// Config holds configuration for the MCP server.
type Config struct {
	Tools   *tools.Registry
	Logger  *slog.Logger
	Name    string
	Version string
}

// Server dispatches MCP requests to the tool registry. Transports (stdio,
// Streamable HTTP, SSE) decode messages and hand them to HandleMessage.
type Server struct {
	tools    *tools.Registry
	logger   *slog.Logger
	info     MCPServerInfo
	sessions *sessionStore
	streams  *streamStore
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Tools == nil {
		return nil, errors.New("tool registry is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info := MCPServerInfo{Name: cfg.Name, Version: cfg.Version}
	if info.Name == "" {
		info.Name = "sverigesradio-mcp"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}

	return &Server{
		tools:    cfg.Tools,
		logger:   logger,
		info:     info,
		sessions: newSessionStore(),
		streams:  newStreamStore(),
	}, nil
}

// HandleMessage decodes one JSON-RPC message and dispatches it. It returns
// nil for notifications, which take no reply.
func (s *Server) HandleMessage(ctx context.Context, body []byte) *JSONRPCResponse {
	req, errResp := parseRequest(body)
	if errResp != nil {
		return errResp
	}
	return s.dispatch(ctx, req)
}

// parseRequest validates the JSON-RPC envelope.
func parseRequest(body []byte) (JSONRPCRequest, *JSONRPCResponse) {
	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, errorResponse(nil, JSONRPCParseError, "invalid JSON", nil)
	}
	if req.JSONRPC != "2.0" {
		return req, errorResponse(req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version", nil)
	}
	if req.Method == "" {
		return req, errorResponse(req.ID, JSONRPCInvalidRequest, "method is required", nil)
	}
	return req, nil
}

func (s *Server) dispatch(ctx context.Context, req JSONRPCRequest) *JSONRPCResponse {
	if req.isNotification() {
		if strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Debug("accepted MCP notification", "method", req.Method)
		} else {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		return nil
	}

	s.logger.Debug("MCP request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, JSONRPCMethodNotFound, "method not found", nil)
	}
}

// handleInitialize echoes a supported client version, otherwise offers the latest.
func (s *Server) handleInitialize(req JSONRPCRequest) *JSONRPCResponse {
	var params MCPInitializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, JSONRPCInvalidParams, "invalid params", nil)
		}
	}

	version := latestProtocolVersion
	if supportedProtocolVersions[params.ProtocolVersion] {
		version = params.ProtocolVersion
	}

	s.logger.Info("MCP client initialized",
		"client_name", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol_version", version,
	)

	return resultResponse(req.ID, MCPInitializeResult{
		ProtocolVersion: version,
		Capabilities: map[string]any{
			"tools": map[string]any{},
		},
		ServerInfo: s.info,
	})
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(req JSONRPCRequest) *JSONRPCResponse {
	registered := s.tools.List()
	result := MCPListToolsResult{
		Tools: make([]MCPToolInfo, len(registered)),
	}
	for i, tool := range registered {
		result.Tools[i] = MCPToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}
	}

	s.logger.Debug("tools/list", "count", len(registered))
	return resultResponse(req.ID, result)
}

// handleToolsCall handles tools/call requests.
func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) *JSONRPCResponse {
	var params MCPCallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, JSONRPCInvalidParams, "invalid params", nil)
		}
	}
	if params.Name == "" {
		return errorResponse(req.ID, JSONRPCInvalidParams, "tool name is required", nil)
	}

	// Request ID for log correlation
	requestID := uuid.New().String()
	logger := s.logger.With("tool_name", params.Name, "request_id", requestID)
	logger.Debug("tools/call")

	res, err := s.tools.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.toolError(logger, req.ID, err)
	}

	result := MCPCallToolResult{
		Content: make([]MCPContent, len(res.Content)),
		IsError: res.IsError,
	}
	for i, c := range res.Content {
		result.Content[i] = MCPContent{Type: c.Type, Text: c.Text, MimeType: c.MimeType}
	}

	logger.Debug("tools/call complete", "is_error", result.IsError)
	return resultResponse(req.ID, result)
}

// toolError maps registry failures onto JSON-RPC errors.
func (s *Server) toolError(logger *slog.Logger, id json.RawMessage, err error) *JSONRPCResponse {
	logger.Warn("tool execution failed", "error", err)

	code := JSONRPCInternalError
	message := "tool execution failed"

	switch {
	case errors.Is(err, tools.ErrToolNotFound):
		code = JSONRPCInvalidParams
		message = "tool not found"
	case errors.Is(err, context.DeadlineExceeded):
		message = "tool execution timed out"
	case errors.Is(err, context.Canceled):
		message = "request cancelled"
	}

	return errorResponse(id, code, message, nil)
}

func resultResponse(id json.RawMessage, result any) *JSONRPCResponse {
	return &JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string, data any) *JSONRPCResponse {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
