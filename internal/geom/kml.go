package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadKML reads pick coordinates from a KML file.
func LoadKML(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadKML(f)
}

type kmlPlacemark struct {
	Point *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

// ReadKML collects Placemark > Point coordinates, in document order. A
// tuple is "x,y[,z]"; the third ordinate is dropped. Placemarks may sit
// directly under kml or inside Document and Folder elements.
func ReadKML(r io.Reader) ([]Point, error) {
	var points []Point
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("kml: %w", err)
		}
		if pm.Point == nil {
			continue
		}
		for _, tuple := range strings.Fields(pm.Point.Coordinates) {
			vals := strings.Split(tuple, ",")
			if len(vals) < 2 {
				return nil, fmt.Errorf("kml: bad coordinate tuple %q", tuple)
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
			if err != nil {
				return nil, fmt.Errorf("kml: %w", err)
			}
			y, err := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("kml: %w", err)
			}
			points = append(points, Point{X: x, Y: y})
		}
	}
	if len(points) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return points, nil
}
