package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
)

// Classifier sends classification requests and interprets the replies.
type Classifier struct {
	client    Client
	logger    *slog.Logger
	retryOpts common.RetryOptions
	timeout   time.Duration
	strict    bool
}

// NewClassifier wraps client. A nil logger falls back to slog.Default.
func NewClassifier(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts <= 0 {
		retryOpts.MaxAttempts = 1
	}
	if retryOpts.InitialDelay <= 0 {
		retryOpts.InitialDelay = time.Second
	}

	// timeout covers every attempt, so waits between attempts may use at most
	// half of it in total.
	retryOpts.MaxDelay = timeout / time.Duration(2*retryOpts.MaxAttempts)
	retryOpts.InitialDelay = min(retryOpts.InitialDelay, retryOpts.MaxDelay)

	return &Classifier{
		client:    client,
		logger:    logger,
		retryOpts: retryOpts,
		timeout:   timeout,
		strict:    cfg.Strict,
	}
}

// Classify sends req and parses the reply. tax is used only to report, or in
// strict mode reject, categories the model invented.
func (c *Classifier) Classify(ctx context.Context, req model.ClassificationRequest, tax *model.Taxonomy) (model.ClassificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var reply string
	err := common.WithRetry(ctx, func() error {
		var callErr error
		reply, callErr = c.client.Complete(ctx, req)
		return callErr
	}, c.retryOpts)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("classification request failed: %w", err)
	}

	c.logger.Debug("model replied", "elapsed", time.Since(start), "reply", reply)

	result, err := ParseReply(reply)
	if err != nil {
		c.logger.Warn("unexpected model reply", "reply", reply, "error", err)
		return model.ClassificationResult{}, err
	}

	if err := c.checkTaxonomy(result, tax); err != nil {
		return model.ClassificationResult{}, err
	}

	c.logger.Info("transaction classified",
		"category", result.PrimaryCategory,
		"backup", result.BackupCategory)

	return result, nil
}

// checkTaxonomy accepts unknown categories unless the classifier is strict.
func (c *Classifier) checkTaxonomy(result model.ClassificationResult, tax *model.Taxonomy) error {
	if tax == nil {
		return nil
	}
	for _, name := range []string{result.PrimaryCategory, result.BackupCategory} {
		if tax.Contains(name) {
			continue
		}
		if c.strict {
			return fmt.Errorf("%w: %q", common.ErrUnknownCategory, name)
		}
		c.logger.Warn("model returned a category outside the taxonomy", "category", name)
	}
	return nil
}
