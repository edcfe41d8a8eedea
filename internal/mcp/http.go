// ABOUTME: Streamable HTTP transport with Mcp-Session-Id session management.
// ABOUTME: Also serves the health endpoint used by hosting platforms.

package mcp

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// mcpSession tracks an active Streamable HTTP client session.
type mcpSession struct {
	id        string
	createdAt time.Time
}

// sessionStore manages active MCP sessions (in-memory).
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*mcpSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*mcpSession)}
}

func (s *sessionStore) create() *mcpSession {
	sess := &mcpSession{
		id:        uuid.New().String(),
		createdAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id string) (*mcpSession, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	return existed
}

func (s *sessionStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RegisterRoutes registers every HTTP endpoint on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/messages", s.handleMessages)
	mux.HandleFunc("/health", s.handleHealth)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.info.Name,
	})
}

// handleMCP is the single Streamable HTTP endpoint supporting POST and DELETE.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodGet:
		// Server-initiated streams are served on /sse instead
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, GET, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleDelete terminates a session.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		http.Error(w, "Bad Request: missing Mcp-Session-Id", http.StatusBadRequest)
		return
	}

	if !s.sessions.delete(sessionID) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.logger.Info("MCP session terminated", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// handlePost processes JSON-RPC messages sent via HTTP POST.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	protoVersion := r.Header.Get("Mcp-Protocol-Version")

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	req, errResp := parseRequest(body)
	if errResp != nil {
		s.writeJSON(w, http.StatusOK, errResp)
		return
	}

	isInitialize := req.Method == "initialize"

	// Protocol version header is not required on initialize
	if !isInitialize && protoVersion != "" && !supportedProtocolVersions[protoVersion] {
		http.Error(w, "Bad Request: unsupported MCP-Protocol-Version", http.StatusBadRequest)
		return
	}

	if isInitialize {
		sess := s.sessions.create()
		s.logger.Info("MCP session created", "session_id", sess.id)
		w.Header().Set("Mcp-Session-Id", sess.id)
	} else {
		if sessionID == "" {
			http.Error(w, "Bad Request: missing Mcp-Session-Id", http.StatusBadRequest)
			return
		}
		if _, ok := s.sessions.get(sessionID); !ok {
			// Session expired or invalid - client must re-initialize
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
	}

	resp := s.dispatch(r.Context(), req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// readBody reads a request body bounded by MaxRequestBodySize. On failure it
// writes a JSON-RPC error and returns false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse(nil, JSONRPCParseError, "failed to read request body", nil))
		return nil, false
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(nil, JSONRPCInvalidRequest, "request body too large", nil))
		return nil, false
	}
	return body, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode JSON response", "error", err)
	}
}
