package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ChatMessage is a message as received by the fake service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a request as received by the fake service.
type ChatRequest struct {
	Authorization string        `json:"-"`
	Model         string        `json:"model"`
	Messages      []ChatMessage `json:"messages"`
	Temperature   float64       `json:"temperature"`
	MaxTokens     int           `json:"max_tokens"`
}

// ChatServer is an httptest server speaking the chat completions API. It
// answers every request with the configured reply, or with Status when set.
type ChatServer struct {
	*httptest.Server
	requests []ChatRequest
	reply    string
	status   int
	mu       sync.Mutex
}

// NewChatServer starts a server that answers with reply. It is closed when
// the test ends.
func NewChatServer(t *testing.T, reply string) *ChatServer {
	t.Helper()
	s := &ChatServer{reply: reply}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetStatus makes the server fail every request with status.
func (s *ChatServer) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the requests received so far.
func (s *ChatServer) Requests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.requests...)
}

func (s *ChatServer) handle(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Authorization = r.Header.Get("Authorization")

	s.mu.Lock()
	s.requests = append(s.requests, req)
	status, reply := s.status, s.reply
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"error":{"message":"unavailable"}}`, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    "chatcmpl-test",
		"model": req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": reply},
		}},
	})
}
