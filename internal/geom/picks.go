package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParsePicks reads query coordinates from text. WKT is tried when the text
// starts with a letter; otherwise every non-blank line holds "x y" or "x,y".
// Lines starting with '#' are ignored.
func ParsePicks(text string) ([]Point, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, nil
	}
	if c := s[0]; (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return ParseWKT(s)
	}
	var points []Point
	for n, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(parts) != 2 {
			return nil, fmt.Errorf("picks: line %d: want 2 values, got %d", n+1, len(parts))
		}
		x, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("picks: line %d: %w", n+1, err)
		}
		y, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("picks: line %d: %w", n+1, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// LoadPicks loads pre-collected query coordinates by file extension:
// .csv uses LoadCSV, .geojson and .json use LoadGeoJSON, .kml uses LoadKML,
// and .wkt and .txt go through ParsePicks.
func LoadPicks(path string) ([]Point, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt", ".txt", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ParsePicks(string(data))
	default:
		return nil, fmt.Errorf("picks: unsupported file type %q", ext)
	}
}
