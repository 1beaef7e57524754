package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads picked coordinates from a CSV with x/y columns.
// Column detection: x|lon|lng|long|longitude and y|lat|latitude (case-insensitive).
func LoadCSV(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over an arbitrary reader. A row that is too short or
// whose coordinates do not parse is an error naming the line.
func ReadCSV(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idxX, idxY := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x", "lon", "lng", "long", "longitude":
			if idxX == -1 {
				idxX = i
			}
		case "y", "lat", "latitude":
			if idxY == -1 {
				idxY = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return nil, errors.New("csv: x/y columns not found")
	}
	var points []Point
	for i, row := range recs[1:] {
		line := i + 2
		if idxX >= len(row) || idxY >= len(row) {
			return nil, fmt.Errorf("csv: line %d: want %d fields, got %d", line, max(idxX, idxY)+1, len(row))
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}
