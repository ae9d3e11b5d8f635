package llm

import (
	"context"
	"time"

	"github.com/Veraticus/txn-categorize/internal/model"
)

// Client sends one composed request and returns the raw reply text.
type Client interface {
	Complete(ctx context.Context, req model.ClassificationRequest) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req model.ClassificationRequest) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req model.ClassificationRequest) (string, error) {
	return f(ctx, req)
}

// Config holds configuration for the LLM client and classifier.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Strict      bool
}
