package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when there are no reference points to match against.
	ErrEmptyInput = errors.New("geom: empty point set")

	// ErrInvalidCoordinate is matched by every *InvalidCoordinateError.
	ErrInvalidCoordinate = errors.New("geom: invalid coordinate")
)

// InvalidCoordinateError reports a NaN or infinite coordinate.
//
// Source is "point" for the reference set and "query" for picked coordinates.
type InvalidCoordinateError struct {
	Source string
	Index  int
	Point  Point
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("geom: non-finite %s coordinate at index %d: (%v, %v)", e.Source, e.Index, e.Point.X, e.Point.Y)
}

func (e *InvalidCoordinateError) Is(target error) bool { return target == ErrInvalidCoordinate }
