package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Veraticus/txn-categorize/internal/common"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines from an input stream and gives up when the context
// is canceled.
type LineReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewLineReader creates a line reader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// ReadLine reads one line without its trailing whitespace.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	// The read goroutine outlives a canceled call until its read returns.
	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.value != "") {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// PromptRow asks for a row number in [0, count) until a valid one is given.
// An empty answer selects defaultRow.
func PromptRow(ctx context.Context, r *LineReader, w io.Writer, count, defaultRow int) (int, error) {
	if count == 0 {
		return 0, fmt.Errorf("%w: dataset is empty", common.ErrIndexOutOfRange)
	}

	for {
		if _, err := fmt.Fprintf(w, "Enter the row number of the transaction you want to categorise [0-%d] (%d): ",
			count-1, defaultRow); err != nil {
			return 0, err
		}

		line, err := r.ReadLine(ctx)
		if err != nil {
			return 0, err
		}
		if line == "" {
			return defaultRow, nil
		}

		row, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintln(w, FormatWarning(fmt.Sprintf("%q is not a number", line)))
		case row < 0 || row >= count:
			fmt.Fprintln(w, FormatWarning(fmt.Sprintf("row %d is outside 0-%d", row, count-1)))
		default:
			return row, nil
		}
	}
}
