package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/dataset"
	tea "github.com/charmbracelet/bubbletea"
)

// PickRow runs the picker on output and returns the chosen row index.
func PickRow(ctx context.Context, ds *dataset.Dataset, start int, input io.Reader, output io.Writer) (int, error) {
	if ds.Len() == 0 {
		return 0, fmt.Errorf("%w: dataset is empty", common.ErrIndexOutOfRange)
	}

	p := tea.NewProgram(NewPicker(ds, start),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("row picker failed: %w", err)
	}

	picker, ok := final.(PickerModel)
	if !ok {
		return 0, fmt.Errorf("row picker returned unexpected model %T", final)
	}

	row, chosen := picker.Selected()
	if !chosen {
		return 0, common.ErrSelectionCanceled
	}
	return row, nil
}
