package geom

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Nearest returns the index of the point in ps closest to q by Euclidean
// distance. Exact ties resolve to the lowest index.
func Nearest(ps PointSet, q Point) (int, error) {
	if len(ps) == 0 {
		return -1, ErrEmptyInput
	}
	if !q.Finite() {
		return -1, &InvalidCoordinateError{Source: "query", Index: 0, Point: q}
	}
	if err := validate("point", ps); err != nil {
		return -1, err
	}
	return nearest(ps, q), nil
}

// Tag marks, for every query, the closest point in ps. The result has the
// same length as ps and is all zero when queries is empty. Neither input is
// modified.
func Tag(ps PointSet, queries []Point) (TagVector, error) {
	if err := validateTagInput(ps, queries); err != nil {
		return nil, err
	}
	tags := make(TagVector, len(ps))
	for _, q := range queries {
		tags[nearest(ps, q)] = 1
	}
	return tags, nil
}

// TagConcurrent is Tag with the nearest-point scans spread over up to
// workers goroutines. The result is identical to Tag.
func TagConcurrent(ctx context.Context, ps PointSet, queries []Point, workers int) (TagVector, error) {
	if err := validateTagInput(ps, queries); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	hits := make([]int, len(queries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hits[i] = nearest(ps, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tags := make(TagVector, len(ps))
	for _, idx := range hits {
		tags[idx] = 1
	}
	return tags, nil
}

func validateTagInput(ps PointSet, queries []Point) error {
	if len(ps) == 0 {
		return ErrEmptyInput
	}
	if err := validate("point", ps); err != nil {
		return err
	}
	return validate("query", queries)
}

func validate(source string, pts []Point) error {
	for i, p := range pts {
		if !p.Finite() {
			return &InvalidCoordinateError{Source: source, Index: i, Point: p}
		}
	}
	return nil
}

// nearest assumes ps is non-empty and every coordinate is finite.
func nearest(ps PointSet, q Point) int {
	best := 0
	bestD := math.Inf(1)
	for i, p := range ps {
		d := math.Hypot(p.X-q.X, p.Y-q.Y)
		if d < bestD {
			best = i
			bestD = d
		}
	}
	return best
}
