// Package stereo flattens the stereo camera variables of a MAT-file into a
// per-point table.
package stereo

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"pointtag/internal/dataset"
	"pointtag/internal/matfile"
)

// MAT-file variable names.
const (
	VarGroundPoint       = "Ground_Point"
	VarImagePointLeft    = "Image_Point_Left"
	VarImagePointRight   = "Image_Point_Right"
	VarDetectorSize      = "Detector_Size"
	VarNumberOfColumns   = "Number_of_Columns"
	VarNumberOfRows      = "Number_of_Rows"
	VarPrincipalDistance = "Principal_Distance"
)

var ErrMissingVariable = errors.New("stereo: missing variable")

// ShapeError reports a matrix whose shape does not fit the table.
type ShapeError struct {
	Variable string
	Rows     int
	Cols     int
	Want     string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("stereo: %s is %d×%d, want %s", e.Variable, e.Rows, e.Cols, e.Want)
}

type Options struct {
	// IncludeScalars appends the camera constants, repeated on every row.
	IncludeScalars bool
}

type block struct {
	variable string
	columns  []string
}

var pointBlocks = []block{
	{VarGroundPoint, []string{dataset.GroundPointX, dataset.GroundPointY, dataset.GroundPointZ}},
	{VarImagePointLeft, []string{dataset.ImagePointLeftX, dataset.ImagePointLeftY}},
	{VarImagePointRight, []string{dataset.ImagePointRightX, dataset.ImagePointRightY}},
}

var scalarColumns = []block{
	{VarDetectorSize, []string{dataset.DetectorSize}},
	{VarNumberOfColumns, []string{dataset.NumberOfColumns}},
	{VarNumberOfRows, []string{dataset.NumberOfRows}},
	{VarPrincipalDistance, []string{dataset.PrincipalDistance}},
}

// Flatten builds one row per ground point, with its left and right image
// coordinates side by side. The row count is taken from Ground_Point.
func Flatten(f *matfile.File, opts Options) (*dataset.Table, error) {
	mats := make([]*mat.Dense, len(pointBlocks))
	n := -1
	for i, b := range pointBlocks {
		v, err := f.Lookup(b.variable)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, b.variable)
		}
		if v.Cols() != len(b.columns) || (n >= 0 && v.Rows() != n) {
			want := fmt.Sprintf("N×%d", len(b.columns))
			if n >= 0 {
				want = fmt.Sprintf("%d×%d", n, len(b.columns))
			}
			return nil, &ShapeError{Variable: b.variable, Rows: v.Rows(), Cols: v.Cols(), Want: want}
		}
		if n < 0 {
			n = v.Rows()
		}
		mats[i] = v.Dense()
	}

	t := &dataset.Table{Rows: make([][]string, n)}
	for i := range t.Rows {
		t.Rows[i] = make([]string, 0, 7+len(scalarColumns))
	}
	for i, b := range pointBlocks {
		t.Header = append(t.Header, b.columns...)
		if mats[i] == nil {
			continue
		}
		for c := range b.columns {
			col := mat.Col(nil, c, mats[i])
			for r, val := range col {
				t.Rows[r] = append(t.Rows[r], formatValue(val))
			}
		}
	}
	if !opts.IncludeScalars {
		return t, nil
	}
	for _, b := range scalarColumns {
		v, err := f.Lookup(b.variable)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, b.variable)
		}
		s, err := v.Scalar()
		if err != nil {
			return nil, &ShapeError{Variable: b.variable, Rows: v.Rows(), Cols: v.Cols(), Want: "1×1"}
		}
		vals := make([]string, n)
		for i := range vals {
			vals[i] = formatValue(s)
		}
		if err := t.AppendColumn(b.columns[0], vals); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
