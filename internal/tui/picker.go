// Package tui provides the interactive row picker.
package tui

import (
	"strconv"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/dataset"
	"github.com/Veraticus/txn-categorize/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxColumnWidth = 32
	defaultHeight  = 15
	headerHeight   = 2
	chromeHeight   = 6
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)

	spendStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3FB950"))
)

// PickerModel lets the user choose one dataset row.
type PickerModel struct {
	keys     KeyMap
	help     help.Model
	table    table.Model
	records  *dataset.Dataset
	chosen   int
	done     bool
	canceled bool
}

// NewPicker creates a picker over ds with the cursor on start.
func NewPicker(ds *dataset.Dataset, start int) PickerModel {
	headers := append([]string{"#"}, ds.Columns()...)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	rows := make([]table.Row, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		cells, err := ds.Cells(i)
		if err != nil {
			break
		}
		row := append(table.Row{strconv.Itoa(i)}, cells...)
		for j, c := range row {
			if j < len(widths) && len(c) > widths[j] {
				widths[j] = min(len(c), maxColumnWidth)
			}
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(defaultHeight, max(len(rows), 1))+headerHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#7c3aed"))
	t.SetStyles(s)

	if start > 0 && start < len(rows) {
		t.SetCursor(start)
	}

	return PickerModel{
		keys:    DefaultKeyMap(),
		help:    help.New(),
		table:   t,
		records: ds,
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.table.Rows()) == 0 {
				return m, nil
			}
			m.chosen = m.table.Cursor()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select the transaction you want to categorise"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if rec, err := m.records.Row(m.table.Cursor()); err == nil {
		b.WriteString(rec.CounterpartyName)
		if rec.AvgSpendEUR != nil {
			b.WriteString("  ")
			b.WriteString(spendStyle.Render(model.ColumnAvgSpendEUR + " " + rec.FormatSpend()))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Selected returns the chosen row. The second result is false when the user
// canceled or has not chosen yet.
func (m PickerModel) Selected() (int, bool) {
	return m.chosen, m.done && !m.canceled
}
