package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient returns scripted replies in order.
type mockClient struct {
	replies []string
	errors  []error
	calls   int
	mu      sync.Mutex
}

func (m *mockClient) Complete(_ context.Context, _ model.ClassificationRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.calls
	m.calls++

	if idx < len(m.errors) && m.errors[idx] != nil {
		return "", m.errors[idx]
	}
	if idx < len(m.replies) {
		return m.replies[idx], nil
	}
	return "", fmt.Errorf("no more mock replies (call %d)", idx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTaxonomy(t *testing.T) *model.Taxonomy {
	t.Helper()
	tax, err := model.NewTaxonomy("sportswear")
	require.NoError(t, err)
	return tax
}

func TestClassifier_Classify(t *testing.T) {
	client := &mockClient{replies: []string{"Category Prediction: sportswear\nBackup Prediction: sales"}}
	c := NewClassifier(client, Config{}, quietLogger())

	result, err := c.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.NoError(t, err)
	assert.Equal(t, model.ClassificationResult{PrimaryCategory: "sportswear", BackupCategory: "sales"}, result)
	assert.Equal(t, 1, client.calls)
}

func TestClassifier_MalformedIsNotRetried(t *testing.T) {
	client := &mockClient{replies: []string{"tax\nfees", "Category Prediction: tax\nBackup Prediction: fees"}}
	c := NewClassifier(client, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, quietLogger())

	_, err := c.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.ErrorIs(t, err, common.ErrMalformedResponse)
	assert.Equal(t, 1, client.calls)
}

func TestClassifier_TransientErrorRetried(t *testing.T) {
	client := &mockClient{
		errors:  []error{&common.RetryableError{Err: errors.New("502"), Retryable: true}},
		replies: []string{"", "Category Prediction: tax\nBackup Prediction: fees"},
	}
	c := NewClassifier(client, Config{MaxRetries: 2, RetryDelay: time.Millisecond}, quietLogger())

	result, err := c.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.NoError(t, err)
	assert.Equal(t, "tax", result.PrimaryCategory)
	assert.Equal(t, 2, client.calls)
}

func TestNewClassifier_RetryDelaysFitTimeout(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantInitial time.Duration
		wantMax     time.Duration
	}{
		{
			name:        "defaults",
			cfg:         Config{},
			wantInitial: time.Second,
			wantMax:     30 * time.Second,
		},
		{
			name:        "two attempts share the default timeout",
			cfg:         Config{MaxRetries: 2, RetryDelay: time.Second},
			wantInitial: time.Second,
			wantMax:     15 * time.Second,
		},
		{
			name:        "retry delay capped by a short timeout",
			cfg:         Config{MaxRetries: 3, RetryDelay: 10 * time.Second, Timeout: 6 * time.Second},
			wantInitial: time.Second,
			wantMax:     time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&mockClient{}, tt.cfg, quietLogger())
			assert.Equal(t, tt.wantInitial, c.retryOpts.InitialDelay)
			assert.Equal(t, tt.wantMax, c.retryOpts.MaxDelay)
		})
	}
}

func TestClassifier_RateLimitRetryWithinTimeout(t *testing.T) {
	limited := &common.RetryableError{Err: fmt.Errorf("%w: 429", common.ErrRateLimit), Retryable: true}
	client := &mockClient{
		errors:  []error{limited},
		replies: []string{"", "Category Prediction: tax\nBackup Prediction: fees"},
	}
	c := NewClassifier(client, Config{MaxRetries: 2, Timeout: 2 * time.Second}, quietLogger())

	result, err := c.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.NoError(t, err)
	assert.Equal(t, "tax", result.PrimaryCategory)
	assert.Equal(t, 2, client.calls)
}

func TestClassifier_DefaultSingleAttempt(t *testing.T) {
	transient := &common.RetryableError{Err: errors.New("503"), Retryable: true}
	client := &mockClient{errors: []error{transient}}
	c := NewClassifier(client, Config{}, quietLogger())

	_, err := c.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 1, client.calls)
}

func TestClassifier_UnknownCategory(t *testing.T) {
	reply := "Category Prediction: groceries\nBackup Prediction: fees"

	lenient := NewClassifier(&mockClient{replies: []string{reply}}, Config{}, quietLogger())
	result, err := lenient.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.NoError(t, err)
	assert.Equal(t, "groceries", result.PrimaryCategory)

	strict := NewClassifier(&mockClient{replies: []string{reply}}, Config{Strict: true}, quietLogger())
	_, err = strict.Classify(context.Background(), testRequest(), testTaxonomy(t))
	require.ErrorIs(t, err, common.ErrUnknownCategory)
}

func TestClassifier_Timeout(t *testing.T) {
	blocking := ClientFunc(func(ctx context.Context, _ model.ClassificationRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	c := NewClassifier(blocking, Config{Timeout: 20 * time.Millisecond}, quietLogger())

	_, err := c.Classify(context.Background(), testRequest(), nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClassifier_NilLogger(t *testing.T) {
	c := NewClassifier(&mockClient{replies: []string{"Category Prediction: tax\nBackup Prediction: fees"}}, Config{}, nil)
	_, err := c.Classify(context.Background(), testRequest(), nil)
	require.NoError(t, err)
}
