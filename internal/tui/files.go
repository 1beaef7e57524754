package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"pointtag/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists the files in cwd that can hold pre-collected picks.
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		switch ext {
		case ".csv", ".wkt", ".txt", ".geojson", ".json", ".kml":
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no pick files in current directory"
	}
}

// importPicks appends the picks stored in p.
func (m *Model) importPicks(p string) {
	pts, err := geom.LoadPicks(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	if err := m.addPicks(pts...); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.status = fmt.Sprintf("imported %d picks from %s  tagged=%d", len(pts), filepath.Base(p), m.tags.Count())
}
