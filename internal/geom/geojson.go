package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var errNoGeoJSONPoints = errors.New("geojson: no points found")

// LoadGeoJSON reads pick coordinates from a GeoJSON file.
func LoadGeoJSON(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGeoJSON(f)
}

// ReadGeoJSON collects the positions of Point and MultiPoint geometries,
// bare or wrapped in a Feature or FeatureCollection. Other geometry types
// are skipped. Only the first two ordinates of a position are used.
func ReadGeoJSON(r io.Reader) ([]Point, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	t, _ := raw["type"].(string)
	if t == "" {
		return nil, errors.New("geojson: missing type")
	}

	var points []Point
	walk := func(g map[string]any) error {
		switch gt, _ := g["type"].(string); gt {
		case "Point":
			p, err := geoPosition(g["coordinates"])
			if err != nil {
				return err
			}
			points = append(points, p)
		case "MultiPoint":
			arr, _ := g["coordinates"].([]any)
			for _, el := range arr {
				p, err := geoPosition(el)
				if err != nil {
					return err
				}
				points = append(points, p)
			}
		}
		return nil
	}

	switch t {
	case "Feature":
		if g, ok := raw["geometry"].(map[string]any); ok {
			if err := walk(g); err != nil {
				return nil, err
			}
		}
	case "FeatureCollection":
		fs, _ := raw["features"].([]any)
		for _, f := range fs {
			fm, _ := f.(map[string]any)
			if g, ok := fm["geometry"].(map[string]any); ok {
				if err := walk(g); err != nil {
					return nil, err
				}
			}
		}
	default:
		if err := walk(raw); err != nil {
			return nil, err
		}
	}
	if len(points) == 0 {
		return nil, errNoGeoJSONPoints
	}
	return points, nil
}

func geoPosition(v any) (Point, error) {
	a, ok := v.([]any)
	if !ok || len(a) < 2 {
		return Point{}, fmt.Errorf("geojson: bad position %v", v)
	}
	x, xok := a[0].(float64)
	y, yok := a[1].(float64)
	if !xok || !yok {
		return Point{}, fmt.Errorf("geojson: bad position %v", v)
	}
	return Point{X: x, Y: y}, nil
}
