// Package dataset holds delimited tables with named columns and the typed
// views the tagging tools need from them.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"pointtag/internal/geom"
)

// Column names of the stereo point tables.
const (
	GroundPointX      = "Ground_Point_X"
	GroundPointY      = "Ground_Point_Y"
	GroundPointZ      = "Ground_Point_Z"
	ImagePointLeftX   = "Image_Point_Left_X"
	ImagePointLeftY   = "Image_Point_Left_Y"
	ImagePointRightX  = "Image_Point_Right_X"
	ImagePointRightY  = "Image_Point_Right_Y"
	DetectorSize      = "Detector_Size"
	NumberOfColumns   = "Number_of_Columns"
	NumberOfRows      = "Number_of_Rows"
	PrincipalDistance = "Principal_Distance"
	Tag               = "Tag"
)

var (
	ErrEmpty          = errors.New("dataset: no header row")
	ErrColumnNotFound = errors.New("dataset: column not found")
	ErrLengthMismatch = errors.New("dataset: length mismatch")
)

// Table is a delimited file kept as text. Cells are stored verbatim so that
// columns nobody touches are written back unchanged.
type Table struct {
	Header []string
	Rows   [][]string
}

// Load reads a CSV file with a header row.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r. Every row must have as many fields as the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmpty
	}
	return &Table{Header: recs[0], Rows: recs[1:]}, nil
}

// Save writes the table to path, truncating any existing file.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the index of the first column called name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// AppendColumn adds a column; vals must have one entry per row.
func (t *Table) AppendColumn(name string, vals []string) error {
	if len(vals) != len(t.Rows) {
		return fmt.Errorf("%w: column %q has %d values for %d rows", ErrLengthMismatch, name, len(vals), len(t.Rows))
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], vals[i])
	}
	return nil
}

// SetTags writes tags into the column called name, adding it when absent.
func (t *Table) SetTags(name string, tags geom.TagVector) error {
	if len(tags) != len(t.Rows) {
		return fmt.Errorf("%w: %d tags for %d rows", ErrLengthMismatch, len(tags), len(t.Rows))
	}
	vals := make([]string, len(tags))
	for i, v := range tags {
		vals[i] = strconv.Itoa(v)
	}
	idx := t.Column(name)
	if idx < 0 {
		return t.AppendColumn(name, vals)
	}
	for i, row := range t.Rows {
		row[idx] = vals[i]
	}
	return nil
}

// Layout holds the column indices of the plotted coordinates.
type Layout struct {
	X int
	Y int
}

// Resolve looks up the coordinate columns by name once.
func (t *Table) Resolve(xName, yName string) (Layout, error) {
	x := t.Column(xName)
	if x < 0 {
		return Layout{}, fmt.Errorf("%w: %q", ErrColumnNotFound, xName)
	}
	y := t.Column(yName)
	if y < 0 {
		return Layout{}, fmt.Errorf("%w: %q", ErrColumnNotFound, yName)
	}
	return Layout{X: x, Y: y}, nil
}

// Points parses the coordinate columns of every row. Blank cells become
// NaN; the tagger rejects them later with a row index.
func (t *Table) Points(l Layout) (geom.PointSet, error) {
	ps := make(geom.PointSet, len(t.Rows))
	for i, row := range t.Rows {
		x, err := parseCell(row, l.X)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d, column %q: %w", i+1, t.Header[l.X], err)
		}
		y, err := parseCell(row, l.Y)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d, column %q: %w", i+1, t.Header[l.Y], err)
		}
		ps[i] = geom.Point{X: x, Y: y}
	}
	return ps, nil
}

func parseCell(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return math.NaN(), nil
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
