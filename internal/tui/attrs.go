package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

// refreshAttrs rebuilds the attributes table from the dataset with the
// preview tags in the tag column.
func (m *Model) refreshAttrs() {
	cols, rows := m.buildAttributes()
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 5})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(maxColW, len(c)+2)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(tcols))
		row = append(row, strconv.Itoa(i))
		row = append(row, r...)
		// pad or truncate to the column count
		for len(row) < len(tcols) {
			row = append(row, "")
		}
		trows = append(trows, table.Row(row[:len(tcols)]))
	}
	// clear rows first so columns and rows never disagree mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the dataset columns, or plain coordinates when
// the picker was started without a table. The tag column always reflects
// the current picks.
func (m *Model) buildAttributes() ([]string, [][]string) {
	t := m.cfg.Table
	if t == nil || t.Len() != len(m.points) {
		cols := []string{m.cfg.XLabel, m.cfg.YLabel, m.cfg.TagColumn}
		rows := make([][]string, len(m.points))
		for i, p := range m.points {
			rows[i] = []string{fmt.Sprintf("%g", p.X), fmt.Sprintf("%g", p.Y), strconv.Itoa(m.tags[i])}
		}
		return cols, rows
	}
	tagIdx := t.Column(m.cfg.TagColumn)
	cols := append([]string(nil), t.Header...)
	if tagIdx < 0 {
		cols = append(cols, m.cfg.TagColumn)
		tagIdx = len(cols) - 1
	}
	rows := make([][]string, t.Len())
	for i, r := range t.Rows {
		row := make([]string, len(cols))
		copy(row, r)
		row[tagIdx] = strconv.Itoa(m.tags[i])
		rows[i] = row
	}
	return cols, rows
}
