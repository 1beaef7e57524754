package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"pointtag/internal/dataset"
	"pointtag/internal/geom"
)

// Config describes what the picker shows besides the points themselves.
type Config struct {
	Title  string
	XLabel string
	YLabel string
	// Table, when set, backs the attributes view. Its rows must line up
	// with the plotted points.
	Table     *dataset.Table
	TagColumn string
}

type Model struct {
	width  int
	height int

	cfg Config

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// pick file explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	points geom.PointSet
	bbox   geom.BBox
	picks  []geom.Point
	tags   geom.TagVector

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverIdx   int
	hoverX     float64
	hoverY     float64

	// attributes table
	showAttrs bool
	tbl       table.Model

	done    bool
	aborted bool
}

// New builds a picker over points. Points are expected to be finite.
func New(points geom.PointSet, cfg Config) Model {
	if cfg.Title == "" {
		cfg.Title = "Points"
	}
	if cfg.XLabel == "" {
		cfg.XLabel = "x"
	}
	if cfg.YLabel == "" {
		cfg.YLabel = "y"
	}
	if cfg.TagColumn == "" {
		cfg.TagColumn = dataset.Tag
	}
	m := Model{
		cfg:         cfg,
		helpVisible: true,
		zoom:        1.0,
		points:      points,
		bbox:        geom.Bounds(points).Pad(0.05),
		tags:        make(geom.TagVector, len(points)),
		hoverIdx:    -1,
		status:      "click the points to tag; Enter when done",
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Pick files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste picks: WKT MULTIPOINT or one \"x y\" per line. Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Picks returns the collected query coordinates in click order.
func (m Model) Picks() []geom.Point {
	return append([]geom.Point(nil), m.picks...)
}

// Tags returns the preview tagging of the current picks.
func (m Model) Tags() geom.TagVector {
	return append(geom.TagVector(nil), m.tags...)
}

// Done reports whether the user finished picking.
func (m Model) Done() bool { return m.done }

// Aborted reports whether the user cancelled with ctrl+c.
func (m Model) Aborted() bool { return m.aborted }

// addPicks appends query coordinates and refreshes the tag preview. The
// picks are left untouched when any new coordinate is rejected.
func (m *Model) addPicks(pts ...geom.Point) error {
	next := append(append([]geom.Point(nil), m.picks...), pts...)
	tags, err := geom.Tag(m.points, next)
	if err != nil {
		return err
	}
	m.picks = next
	m.tags = tags
	if m.showAttrs {
		m.refreshAttrs()
	}
	return nil
}

func (m *Model) retag() {
	tags, err := geom.Tag(m.points, m.picks)
	if err != nil {
		m.status = "tag error: " + err.Error()
		return
	}
	m.tags = tags
	if m.showAttrs {
		m.refreshAttrs()
	}
}
