// Package testutil provides test fixtures for transaction files and a fake
// chat completions service.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SampleCSV is a small dataset with every required column and a Label.
const SampleCSV = `COUNTERPARTY_NAME,MCC_CODE,OPERATION_TYPE,AVG_SPEND_EUR,Label
Adidas Store,5655,purchase,45,label_shopping
Shell,5541,purchase,62.3,label_fuel
`

// WriteFile writes content to name inside a fresh temp dir and returns the
// path. The directory is removed when the test ends.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// WriteXLSX writes rows to the first sheet of a new workbook and returns the
// path.
func WriteXLSX(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to address row %d: %v", i, err)
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}
