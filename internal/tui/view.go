package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	a := m.plotArea()
	contentWidth := max(10, m.width)

	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, a.h-2)
	}

	// Header
	header := titleStyle.Render(" " + m.cfg.Title + " ")
	legend := dimStyle.Render(fmt.Sprintf("  %s ↑  points=%d  ", m.cfg.YLabel, len(m.points))) +
		taggedStyle.Render(fmt.Sprintf("tagged=%d", m.tags.Count())) + "  " +
		pickStyle.Render(fmt.Sprintf("picks=%d", len(m.picks)))
	header = lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Top, header, legend))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var plotView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(a.w, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(a.h-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		plotView = lipgloss.Place(a.w, a.h, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.inspectPopup != "":
		maxPopupW := max(20, min(48, contentWidth/2))
		box := boxStyle.MaxWidth(maxPopupW).Render(m.inspectPopup)
		plotView = lipgloss.Place(a.w, a.h, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(a.w)
		m.ta.SetHeight(min(a.h, 12))
		plotView = lipgloss.NewStyle().Width(a.w).Height(a.h).Render(m.ta.View())
	default:
		plotView = lipgloss.NewStyle().Width(a.w).Height(a.h).Render(m.renderPlot(a.w, a.h))
	}

	body := plotView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", plotView)
	}

	// Footer: status, help and cursor position in data coordinates
	status := dimStyle.Render(" " + m.status + " ")
	coords := dimStyle.Render(fmt.Sprintf("  %s → ", m.cfg.XLabel))
	if m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  %s=%.5g %s=%.5g  ", m.cfg.XLabel, m.hoverX, m.cfg.YLabel, m.hoverY))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"click pick",
		"u undo",
		"c clear",
		"Enter done",
		"↑↓←→ pan",
		"+/- zoom",
		"Tab files",
		"p paste",
		"a attrs",
		"i inspect",
		"h help",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
