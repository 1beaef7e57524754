package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"pointtag/internal/geom"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.plotArea().h-2)
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				m.applyPaste(m.ta.Value())
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showAttrs {
			switch msg.String() {
			case "up", "down", "k", "j", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "q":
			m.done = true
			return m, tea.Quit
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.importPicks(it.path)
				}
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case "esc":
			switch {
			case m.inspectPopup != "":
				m.inspectPopup = ""
			case m.showAttrs:
				m.showAttrs = false
			case m.showSidebar:
				m.showSidebar = false
			}
		case " ":
			if m.hovering {
				m.pickCell(m.hoverCellX, m.hoverCellY)
			}
		case "u", "backspace":
			if len(m.picks) > 0 {
				m.picks = m.picks[:len(m.picks)-1]
				m.retag()
				m.status = fmt.Sprintf("undo: picks=%d tagged=%d", len(m.picks), m.tags.Count())
			}
		case "c":
			m.picks = nil
			m.retag()
			m.status = "picks cleared"
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "r":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.plotArea().h-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			return m, m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "i":
			idx := m.hoverIdx
			if !m.hovering || idx < 0 {
				idx = m.nearestToCenter()
			}
			if idx >= 0 {
				p := m.points[idx]
				meta := []string{
					fmt.Sprintf("index: %d", idx),
					fmt.Sprintf("%s: %g", m.cfg.XLabel, p.X),
					fmt.Sprintf("%s: %g", m.cfg.YLabel, p.Y),
					fmt.Sprintf("tagged: %v", m.tags[idx] == 1),
					fmt.Sprintf("bbox: [%g, %g, %g, %g]", m.bbox.MinX, m.bbox.MinY, m.bbox.MaxX, m.bbox.MaxY),
					fmt.Sprintf("points=%d picks=%d tagged=%d", len(m.points), len(m.picks), m.tags.Count()),
				}
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no point nearby"
				m.status = m.inspectPopup
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		a := m.plotArea()
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, a.h-2)
		}
		if !a.contains(msg.X, msg.Y) || m.showAttrs || m.pasteMode || m.inspectPopup != "" {
			m.hovering = false
			break
		}
		m.hovering = true
		m.hoverCellX = msg.X - a.x
		m.hoverCellY = msg.Y - a.y
		if x, y, ok := m.cellToXY(m.hoverCellX, m.hoverCellY, a.w, a.h); ok {
			m.hoverX, m.hoverY = x, y
			if idx, err := geom.Nearest(m.points, geom.Point{X: x, Y: y}); err == nil {
				m.hoverIdx = idx
			}
		}
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.pickCell(m.hoverCellX, m.hoverCellY)
		case msg.Button == tea.MouseButtonWheelUp:
			if m.zoom < 64 {
				m.zoom *= 1.2
			}
		case msg.Button == tea.MouseButtonWheelDown:
			if m.zoom > 0.05 {
				m.zoom /= 1.2
			}
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// pickCell records a query at the centre of a plot cell.
func (m *Model) pickCell(cx, cy int) {
	a := m.plotArea()
	x, y, ok := m.cellToXY(cx, cy, a.w, a.h)
	if !ok {
		m.status = "nothing to pick"
		return
	}
	if err := m.addPicks(geom.Point{X: x, Y: y}); err != nil {
		m.status = "pick error: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("pick %d at (%.4g, %.4g)  tagged=%d", len(m.picks), x, y, m.tags.Count())
}

// applyPaste adds the picks typed or pasted into the textarea.
func (m *Model) applyPaste(text string) {
	if strings.TrimSpace(text) == "" {
		m.status = "paste: empty"
		return
	}
	pts, err := geom.ParsePicks(text)
	if err != nil {
		m.status = "paste error: " + err.Error()
		return
	}
	if err := m.addPicks(pts...); err != nil {
		m.status = "paste error: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("pasted %d picks  tagged=%d", len(pts), m.tags.Count())
	m.pasteMode = false
	m.ta.Blur()
}
