package model

import "strconv"

// Column names of the uploaded transaction file.
const (
	ColumnCounterpartyName = "COUNTERPARTY_NAME"
	ColumnMCCCode          = "MCC_CODE"
	ColumnOperationType    = "OPERATION_TYPE"
	ColumnAvgSpendEUR      = "AVG_SPEND_EUR"
	// ColumnLabel holds the evaluation label. It is read and then dropped.
	ColumnLabel = "Label"
)

// RequiredColumns lists the columns every input file must carry.
var RequiredColumns = []string{
	ColumnCounterpartyName,
	ColumnMCCCode,
	ColumnOperationType,
	ColumnAvgSpendEUR,
}

// TransactionRecord is one row of an uploaded transaction file.
type TransactionRecord struct {
	AvgSpendEUR      *float64 // nil when the cell was blank
	CounterpartyName string
	MCCCode          string
	OperationType    string
}

// Missing returns the column names of fields that carry no value.
func (r TransactionRecord) Missing() []string {
	var missing []string
	if r.CounterpartyName == "" {
		missing = append(missing, ColumnCounterpartyName)
	}
	if r.MCCCode == "" {
		missing = append(missing, ColumnMCCCode)
	}
	if r.OperationType == "" {
		missing = append(missing, ColumnOperationType)
	}
	if r.AvgSpendEUR == nil {
		missing = append(missing, ColumnAvgSpendEUR)
	}
	return missing
}

// FormatSpend renders the average spend the way it appears in the prompt.
// Integral values keep a trailing ".0" so 45 reads as "45.0".
func (r TransactionRecord) FormatSpend() string {
	if r.AvgSpendEUR == nil {
		return ""
	}
	return FormatAmount(*r.AvgSpendEUR)
}

// FormatAmount renders v in its shortest form, keeping one decimal for integers.
func FormatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}
