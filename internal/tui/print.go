package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"pointtag/internal/dataset"
)

// RenderTable formats a dataset for the terminal with a leading row index.
// Tables longer than maxRows show only their head and tail; maxRows <= 0
// prints everything. Rows whose tagColumn is 1 are highlighted.
func RenderTable(t *dataset.Table, tagColumn string, maxRows int) string {
	idx := make([]int, 0, t.Len())
	elided := maxRows > 0 && t.Len() > maxRows
	if elided {
		head := (maxRows + 1) / 2
		for i := 0; i < head; i++ {
			idx = append(idx, i)
		}
		idx = append(idx, -1)
		for i := t.Len() - maxRows/2; i < t.Len(); i++ {
			idx = append(idx, i)
		}
	} else {
		for i := 0; i < t.Len(); i++ {
			idx = append(idx, i)
		}
	}

	tagIdx := t.Column(tagColumn)
	rows := make([][]string, 0, len(idx))
	tagged := make([]bool, 0, len(idx))
	for _, i := range idx {
		row := make([]string, len(t.Header)+1)
		if i < 0 {
			for c := range row {
				row[c] = "…"
			}
			rows = append(rows, row)
			tagged = append(tagged, false)
			continue
		}
		row[0] = strconv.Itoa(i)
		copy(row[1:], t.Rows[i])
		rows = append(rows, row)
		tagged = append(tagged, tagIdx >= 0 && tagIdx < len(t.Rows[i]) && strings.TrimSpace(t.Rows[i][tagIdx]) == "1")
	}

	tbl := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(append([]string{""}, t.Header...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == ltable.HeaderRow:
				return s.Bold(true)
			case col == 0:
				return s.Inherit(dimStyle)
			case row >= 0 && row < len(tagged) && tagged[row]:
				return s.Inherit(taggedStyle)
			}
			return s
		})
	return tbl.String() + "\n" + fmt.Sprintf("[%d rows x %d columns]", t.Len(), len(t.Header))
}
