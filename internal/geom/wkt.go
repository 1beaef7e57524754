package geom

import (
	"errors"
	"strconv"
	"strings"
)

// ParseWKT parses a subset of WKT and returns its vertices in order.
// Supported: POINT(x y), MULTIPOINT(x y, ...), MULTIPOINT((x y), ...), LINESTRING(x y, ...)
func ParseWKT(wkt string) ([]Point, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	var kind string
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		kind = "multipoint"
	case strings.HasPrefix(up, "POINT"):
		kind = "point"
	case strings.HasPrefix(up, "LINESTRING"):
		kind = "linestring"
	default:
		return nil, errors.New("unsupported wkt type")
	}
	if strings.HasSuffix(strings.TrimSpace(up[len(kind):]), "EMPTY") {
		return nil, nil
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return nil, errors.New("wkt " + kind + ": invalid")
	}
	// MULTIPOINT((1 2), (3 4)) carries an extra paren level per point
	block := strings.NewReplacer("(", " ", ")", " ").Replace(s[i+1 : j])
	var points []Point
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			return nil, errors.New("wkt " + kind + ": bad tuple " + strconv.Quote(strings.TrimSpace(tup)))
		}
		x, err1 := strconv.ParseFloat(parts[0], 64)
		y, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return nil, errors.New("wkt " + kind + ": bad tuple " + strconv.Quote(strings.TrimSpace(tup)))
		}
		points = append(points, Point{X: x, Y: y})
	}
	if kind == "point" && len(points) != 1 {
		return nil, errors.New("wkt point: expected one coordinate")
	}
	return points, nil
}
