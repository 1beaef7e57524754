package geom

import "math"

// Point is a 2-D coordinate in data space.
type Point struct {
	X float64
	Y float64
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// PointSet is an ordered collection of points; a point's index is its identity.
type PointSet []Point

// TagVector annotates a PointSet index by index: 0 untagged, 1 tagged.
type TagVector []int

// Count returns the number of tagged indices.
func (t TagVector) Count() int {
	n := 0
	for _, v := range t {
		if v != 0 {
			n++
		}
	}
	return n
}

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a positive extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Pad grows the box by frac of its extent on every side. A zero extent
// is widened by one unit so single points and aligned points still plot.
func (b BBox) Pad(frac float64) BBox {
	dx := (b.MaxX - b.MinX) * frac
	dy := (b.MaxY - b.MinY) * frac
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return BBox{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Bounds returns the bounding box of the finite points in ps.
func Bounds(ps PointSet) BBox {
	var bbox BBox
	seen := false
	for _, pt := range ps {
		if !pt.Finite() {
			continue
		}
		if !seen {
			bbox = BBox{MinX: pt.X, MinY: pt.Y, MaxX: pt.X, MaxY: pt.Y}
			seen = true
			continue
		}
		if pt.X < bbox.MinX {
			bbox.MinX = pt.X
		}
		if pt.Y < bbox.MinY {
			bbox.MinY = pt.Y
		}
		if pt.X > bbox.MaxX {
			bbox.MaxX = pt.X
		}
		if pt.Y > bbox.MaxY {
			bbox.MaxY = pt.Y
		}
	}
	return bbox
}
