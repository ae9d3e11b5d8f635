package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
)

// ParseReply turns the two-line reply into a result. The first line carries
// the primary category and the second the backup, each after the first ": ".
// Anything else is rejected rather than repaired.
func ParseReply(content string) (model.ClassificationResult, error) {
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return model.ClassificationResult{}, fmt.Errorf("%w: expected 2 lines, got %d", common.ErrMalformedResponse, len(lines))
	}

	primary, err := valueAfterLabel(lines[0], 1)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	backup, err := valueAfterLabel(lines[1], 2)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	return model.ClassificationResult{
		PrimaryCategory: primary,
		BackupCategory:  backup,
	}, nil
}

func valueAfterLabel(line string, n int) (string, error) {
	_, value, found := strings.Cut(line, model.LabelSeparator)
	if !found {
		return "", fmt.Errorf("%w: line %d has no %q separator: %q",
			common.ErrMalformedResponse, n, model.LabelSeparator, line)
	}
	return strings.TrimSpace(value), nil
}
