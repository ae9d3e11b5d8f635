package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 100 * time.Millisecond

// WithSpinner shows an indeterminate spinner on w while fn runs.
func WithSpinner(w io.Writer, description string, fn func() error) error {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := bar.Add(1); err != nil {
					slog.Debug("Failed to update spinner", "error", err)
				}
			}
		}
	}()

	err := fn()

	close(done)
	<-stopped
	if finishErr := bar.Finish(); finishErr != nil {
		slog.Debug("Failed to finish spinner", "error", finishErr)
	}

	return err
}
