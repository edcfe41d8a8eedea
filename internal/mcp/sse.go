// ABOUTME: HTTP+SSE transport: a long-lived event stream paired with a POST endpoint.
// ABOUTME: Replies to posted messages are delivered asynchronously as "message" events.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sseKeepAlive is how often an idle stream receives a comment line.
const sseKeepAlive = 25 * time.Second

// sseStream is one connected SSE client.
type sseStream struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	out    chan []byte
}

// send queues a message for the stream, giving up once the stream closes.
func (st *sseStream) send(msg []byte) bool {
	select {
	case st.out <- msg:
		return true
	case <-st.ctx.Done():
		return false
	}
}

// streamStore indexes open SSE streams by session ID.
type streamStore struct {
	mu      sync.RWMutex
	streams map[string]*sseStream
}

func newStreamStore() *streamStore {
	return &streamStore{streams: make(map[string]*sseStream)}
}

func (s *streamStore) open(parent context.Context) *sseStream {
	ctx, cancel := context.WithCancel(parent)
	st := &sseStream{
		id:     uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
		out:    make(chan []byte, 16),
	}
	s.mu.Lock()
	s.streams[st.id] = st
	s.mu.Unlock()
	return st
}

func (s *streamStore) get(id string) (*sseStream, bool) {
	s.mu.RLock()
	st, ok := s.streams[id]
	s.mu.RUnlock()
	return st, ok
}

func (s *streamStore) close(id string) {
	s.mu.Lock()
	st, ok := s.streams[id]
	delete(s.streams, id)
	s.mu.Unlock()
	if ok {
		st.cancel()
	}
}

func (s *streamStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams)
}

// handleSSE opens an event stream and announces the endpoint for posting messages.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	st := s.streams.open(r.Context())
	defer s.streams.close(st.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.logger.Info("SSE stream opened", "session_id", st.id)
	defer s.logger.Info("SSE stream closed", "session_id", st.id)

	fmt.Fprintf(w, "event: endpoint\ndata: /messages?sessionId=%s\n\n", st.id)
	flusher.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-st.ctx.Done():
			return
		case msg := <-st.out:
			if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg); err != nil {
				s.logger.Debug("SSE write failed", "session_id", st.id, "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleMessages accepts a JSON-RPC message for an open SSE stream.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Bad Request: missing sessionId", http.StatusBadRequest)
		return
	}
	st, ok := s.streams.get(sessionID)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, errResp := parseRequest(body)
	if errResp != nil {
		s.writeJSON(w, http.StatusBadRequest, errResp)
		return
	}

	w.WriteHeader(http.StatusAccepted)

	// The reply outlives this POST; it is bound to the stream instead.
	go func() {
		resp := s.dispatch(st.ctx, req)
		if resp == nil {
			return
		}
		data, err := json.Marshal(resp)
		if err != nil {
			s.logger.Warn("failed to encode JSON-RPC response", "error", err)
			return
		}
		if !st.send(data) {
			s.logger.Debug("dropped reply for closed SSE stream", "session_id", st.id, "method", req.Method)
		}
	}()
}
