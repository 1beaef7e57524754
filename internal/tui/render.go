package tui

import (
	"strings"

	"pointtag/internal/geom"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// plotArea is the screen rectangle of the scatter plot; Update and View
// must agree on it.
type plotArea struct {
	x, y int
	w, h int
}

func (m Model) plotArea() plotArea {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	a := plotArea{y: headerHeight, h: contentHeight}
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	a.x = sw
	a.w = max(10, contentWidth-sw-1)
	return a
}

func (a plotArea) contains(x, y int) bool {
	return x >= a.x && x < a.x+a.w && y >= a.y && y < a.y+a.h
}

// screenXYMicro maps a data coordinate into the 2x4 braille microgrid.
func (m Model) screenXYMicro(x, y float64, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (x - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (y - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// cellToXY converts the centre of a plot cell back to data coordinates,
// inverting screenXYMicro.
func (m Model) cellToXY(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.Valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	mx := float64(cx*2) + 0.5
	my := float64(cy*4) + 1.5
	zx := (mx - float64(m.offsetX*2)) / float64(w*2-1)
	zy := 1.0 - (my-float64(m.offsetY*4))/float64(h*4-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	x := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	y := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return x, y, true
}

func (m Model) renderPlot(w, h int) string {
	br := newBrailleBuf(w, h)
	for i, p := range m.points {
		mx, my, ok := m.screenXYMicro(p.X, p.Y, w, h)
		if !ok {
			continue
		}
		br.setPixel(mx, my, i < len(m.tags) && m.tags[i] == 1)
	}
	cells := br.cells()

	put := func(x, y float64, glyph string) {
		mx, my, ok := m.screenXYMicro(x, y, w, h)
		if !ok {
			return
		}
		cx, cy := mx/2, my/4
		if cy >= 0 && cy < len(cells) && cx >= 0 && cx < len(cells[cy]) {
			cells[cy][cx] = glyph
		}
	}
	for _, p := range m.picks {
		put(p.X, p.Y, pickStyle.Render("+"))
	}
	// hovered point last so it stays visible on top of picks
	if m.hovering && m.hoverIdx >= 0 && m.hoverIdx < len(m.points) {
		p := m.points[m.hoverIdx]
		put(p.X, p.Y, hoverStyle.Render("◯"))
	}

	lines := make([]string, len(cells))
	for y, row := range cells {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// nearestToCenter finds the point closest to the centre of the viewport.
func (m Model) nearestToCenter() int {
	a := m.plotArea()
	x, y, ok := m.cellToXY(a.w/2, a.h/2, a.w, a.h)
	if !ok {
		return -1
	}
	idx, err := geom.Nearest(m.points, geom.Point{X: x, Y: y})
	if err != nil {
		return -1
	}
	return idx
}
