package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/dataset"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// indexColumn heads the row-number column of dataset tables.
const indexColumn = "#"

// RenderDataset renders up to limit rows of ds. A limit of zero or less
// renders every row.
func RenderDataset(ds *dataset.Dataset, limit int) string {
	n := ds.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		cells, err := ds.Cells(i)
		if err != nil {
			break
		}
		rows = append(rows, append([]string{strconv.Itoa(i)}, cells...))
	}

	out := renderTable(append([]string{indexColumn}, ds.Columns()...), rows)
	if n < ds.Len() {
		out += "\n" + SubtleStyle.Render(fmt.Sprintf("… %d more rows", ds.Len()-n))
	}
	return out
}

// RenderRow renders a single dataset row with its index.
func RenderRow(ds *dataset.Dataset, index int) (string, error) {
	cells, err := ds.Cells(index)
	if err != nil {
		return "", err
	}
	return renderTable(
		append([]string{indexColumn}, ds.Columns()...),
		[][]string{append([]string{strconv.Itoa(index)}, cells...)},
	), nil
}

// RenderResult renders the two-column prediction table.
func RenderResult(result model.ClassificationResult) string {
	return renderTable(
		[]string{model.PrimaryLabel, model.BackupLabel},
		[][]string{{result.PrimaryCategory, result.BackupCategory}},
	)
}

// RenderCategories renders the taxonomy, marking custom categories.
func RenderCategories(tax *model.Taxonomy) string {
	custom := make(map[string]bool)
	for _, name := range tax.Custom() {
		custom[name] = true
	}

	rows := make([][]string, 0, tax.Len())
	for i, name := range tax.Names() {
		source := "default"
		if custom[name] {
			source = "custom"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), name, source})
	}
	return renderTable([]string{indexColumn, "Category", "Source"}, rows)
}

// RenderRequest renders the composed messages with role headers.
func RenderRequest(req model.ClassificationRequest) string {
	var b strings.Builder
	for i, msg := range req.Messages() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(RenderBox(strings.ToUpper(string(msg.Role)), msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTable(headers []string, rows [][]string) string {
	spendCol := -1
	for i, h := range headers {
		if h == model.ColumnAvgSpendEUR {
			spendCol = i
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return HeaderStyle
			case col == spendCol:
				return CellStyle.Foreground(SpendColor)
			default:
				return CellStyle
			}
		})

	return t.String()
}
