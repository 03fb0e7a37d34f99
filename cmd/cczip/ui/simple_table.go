package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows with aligned columns.
// Cells may already be styled; widths are measured without escape codes.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Right lists the columns to right-align (numbers).
	Right map[int]bool
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
		Right:   make(map[int]bool),
	}
}

// AlignRight right-aligns the given columns.
func (t *SimpleTable) AlignRight(cols ...int) *SimpleTable {
	for _, c := range cols {
		t.Right[c] = true
	}
	return t
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(cell))
			}
		}
	}

	// Width includes one space of padding on each side
	for i := range colWidths {
		colWidths[i] += 2
	}

	cellStyle := func(base lipgloss.Style, col int) lipgloss.Style {
		st := base.Padding(0, 1).Width(colWidths[col])
		if t.Right[col] {
			st = st.Align(lipgloss.Right)
		}
		return st
	}

	for i, h := range t.Headers {
		sb.WriteString(cellStyle(styles.Bold, i).Render(h))
	}
	sb.WriteString("\n")

	totalWidth := 0
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(styles.RenderDivider(totalWidth) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(cellStyle(styles.Body, i).Render(cell))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
