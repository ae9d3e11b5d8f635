package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/Veraticus/txn-categorize/internal/model"
)

// Dataset is a loaded transaction table with the label column removed.
type Dataset struct {
	columns []string
	rows    [][]string
	records []model.TransactionRecord
}

// fromTable validates a header plus body and builds the dataset.
func fromTable(table [][]string) (*Dataset, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrDataFormat)
	}

	header := make([]string, len(table[0]))
	for i, h := range table[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	position := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := position[h]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", common.ErrDataFormat, h)
		}
		position[h] = i
	}

	var missing []string
	for _, col := range model.RequiredColumns {
		if _, ok := position[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %s", common.ErrDataFormat, strings.Join(missing, ", "))
	}

	// Keep every column except the label, in file order.
	keep := make([]int, 0, len(header))
	ds := &Dataset{}
	for i, h := range header {
		if h == model.ColumnLabel {
			continue
		}
		keep = append(keep, i)
		ds.columns = append(ds.columns, h)
	}

	for n, raw := range table[1:] {
		if isBlankRow(raw) {
			continue
		}
		cell := func(col string) string {
			i := position[col]
			if i >= len(raw) {
				return ""
			}
			v := strings.TrimSpace(raw[i])
			if isNullMarker(v) {
				return ""
			}
			return v
		}

		rec := model.TransactionRecord{
			CounterpartyName: cell(model.ColumnCounterpartyName),
			MCCCode:          cell(model.ColumnMCCCode),
			OperationType:    cell(model.ColumnOperationType),
		}
		if s := cell(model.ColumnAvgSpendEUR); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s value %q is not a number",
					common.ErrDataFormat, n+2, model.ColumnAvgSpendEUR, s)
			}
			// Non-finite values count as missing.
			if !math.IsInf(v, 0) && !math.IsNaN(v) {
				rec.AvgSpendEUR = &v
			}
		}

		row := make([]string, len(keep))
		for j, i := range keep {
			if i < len(raw) {
				row[j] = strings.TrimSpace(raw[i])
			}
		}

		ds.rows = append(ds.rows, row)
		ds.records = append(ds.records, rec)
	}

	return ds, nil
}

// isBlankRow reports a record with no fields at all. A row of empty cells is
// kept so later rows keep their position.
func isBlankRow(row []string) bool {
	return len(row) == 0
}

// nullMarkers are cell values read as missing, as spreadsheet exports and
// pandas write them.
var nullMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

func isNullMarker(v string) bool {
	_, ok := nullMarkers[v]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns the column names, without the label column.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Row returns the record at the zero-based index.
func (d *Dataset) Row(index int) (model.TransactionRecord, error) {
	if err := d.checkIndex(index); err != nil {
		return model.TransactionRecord{}, err
	}
	return d.records[index], nil
}

// Cells returns the display values of the row at index, aligned with Columns.
func (d *Dataset) Cells(index int) ([]string, error) {
	if err := d.checkIndex(index); err != nil {
		return nil, err
	}
	return append([]string(nil), d.rows[index]...), nil
}

func (d *Dataset) checkIndex(index int) error {
	if index < 0 || index >= len(d.records) {
		if len(d.records) == 0 {
			return fmt.Errorf("%w: %d (dataset is empty)", common.ErrIndexOutOfRange, index)
		}
		return fmt.Errorf("%w: %d not in [0, %d]", common.ErrIndexOutOfRange, index, len(d.records)-1)
	}
	return nil
}
