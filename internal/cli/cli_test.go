package cli

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointtag/internal/geom"
	"pointtag/internal/tui"
)

const input = `Ground_Point_X,Image_Point_Left_X,Image_Point_Left_Y
100,0,0
200,10,0
300,0,10
`

func newApp(pick PickFunc) (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &App{Stdout: &stdout, Stderr: &stderr, Pick: pick}, &stdout, &stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestTagInteractive(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", input)
	out := filepath.Join(dir, "out.csv")

	var gotCfg tui.Config
	app, stdout, _ := newApp(func(_ context.Context, ps geom.PointSet, cfg tui.Config) ([]geom.Point, error) {
		gotCfg = cfg
		assert.Len(t, ps, 3)
		return []geom.Point{{X: 1, Y: 1}}, nil
	})

	code := app.Tag(context.Background(), []string{"--output_file", out, in})
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "Image_Point_Left_X", gotCfg.XLabel)
	assert.Contains(t, stdout.String(), "Please click on the points")
	assert.Contains(t, stdout.String(), "Tagged data saved to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `Ground_Point_X,Image_Point_Left_X,Image_Point_Left_Y,Tag
100,0,0,1
200,10,0,0
300,0,10,0
`, string(data))
}

func TestTagFromPicksFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", input)
	picks := writeFile(t, dir, "picks.wkt", "MULTIPOINT(9 1, 1 9)")
	out := filepath.Join(dir, "out.csv")

	app, _, _ := newApp(func(context.Context, geom.PointSet, tui.Config) ([]geom.Point, error) {
		t.Fatal("picker must not run when picks are given")
		return nil, nil
	})
	code := app.Tag(context.Background(), []string{"-picks", picks, "-workers", "4", "-quiet", "-o", out, in})
	require.Equal(t, ExitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "100,0,0,0\n200,10,0,1\n300,0,10,1\n")
}

func TestTagErrors(t *testing.T) {
	dir := t.TempDir()
	noPick := func(context.Context, geom.PointSet, tui.Config) ([]geom.Point, error) { return nil, nil }

	t.Run("Usage", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		assert.Equal(t, ExitUsage, app.Tag(context.Background(), nil))
		assert.Contains(t, stderr.String(), "usage: pointtag")
		assert.Contains(t, stderr.String(), ".geojson/.json/.kml")
	})

	t.Run("NotFound", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		missing := filepath.Join(dir, "missing.csv")
		assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{missing}))
		assert.Contains(t, stderr.String(), "Error: The file '"+missing+"' was not found.")
	})

	t.Run("MissingColumn", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		in := writeFile(t, dir, "nocol.csv", "a,b\n1,2\n")
		assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{in}))
		assert.Contains(t, stderr.String(), "column not found")
	})

	t.Run("EmptyPointSet", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		in := writeFile(t, dir, "empty.csv", "Image_Point_Left_X,Image_Point_Left_Y\n")
		assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{in}))
		assert.Contains(t, stderr.String(), geom.ErrEmptyInput.Error())
	})

	t.Run("BlankCoordinate", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		in := writeFile(t, dir, "blank.csv", "Image_Point_Left_X,Image_Point_Left_Y\n1,\n")
		assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{in}))
		assert.Contains(t, stderr.String(), "non-finite point coordinate")
	})

	t.Run("Aborted", func(t *testing.T) {
		app, _, _ := newApp(func(context.Context, geom.PointSet, tui.Config) ([]geom.Point, error) {
			return nil, ErrAborted
		})
		in := writeFile(t, dir, "ok.csv", input)
		out := filepath.Join(dir, "never.csv")
		assert.Equal(t, ExitAborted, app.Tag(context.Background(), []string{"-o", out, in}))
		assert.NoFileExists(t, out)
	})

	t.Run("UnwritableOutput", func(t *testing.T) {
		app, _, stderr := newApp(noPick)
		in := writeFile(t, dir, "ok2.csv", input)
		out := filepath.Join(dir, "no-such-dir", "out.csv")
		assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{"-quiet", "-o", out, in}))
		assert.Contains(t, stderr.String(), "An error occurred while saving the file")
	})
}

// matBytes encodes double matrices as an uncompressed little-endian MAT-file.
func matBytes(vars map[string][][]float64, order []string) []byte {
	le := binary.LittleEndian
	pad := func(b []byte) []byte {
		for len(b)%8 != 0 {
			b = append(b, 0)
		}
		return b
	}
	element := func(typ uint32, body []byte) []byte {
		tag := make([]byte, 8)
		le.PutUint32(tag[0:], typ)
		le.PutUint32(tag[4:], uint32(len(body)))
		return pad(append(tag, body...))
	}
	u32 := func(vals ...uint32) []byte {
		b := make([]byte, 4*len(vals))
		for i, v := range vals {
			le.PutUint32(b[i*4:], v)
		}
		return b
	}

	header := bytes.Repeat([]byte(" "), 128)
	le.PutUint16(header[124:], 0x0100)
	copy(header[126:], "IM")
	out := append([]byte(nil), header...)
	for _, name := range order {
		rows := vars[name]
		r, c := len(rows), len(rows[0])
		data := make([]byte, 8*r*c)
		for j := 0; j < c; j++ {
			for i := 0; i < r; i++ {
				le.PutUint64(data[(j*r+i)*8:], math.Float64bits(rows[i][j]))
			}
		}
		var sub []byte
		sub = append(sub, element(6, u32(6, 0))...)
		sub = append(sub, element(5, u32(uint32(r), uint32(c)))...)
		sub = append(sub, element(1, []byte(name))...)
		sub = append(sub, element(9, data)...)
		out = append(out, element(14, sub)...)
	}
	return out
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "Data.mat")
	require.NoError(t, os.WriteFile(in, matBytes(map[string][][]float64{
		"Ground_Point":       {{1, 2, 3}, {4, 5, 6}},
		"Image_Point_Left":   {{0.5, 1.5}, {2.5, 3.5}},
		"Image_Point_Right":  {{7, 8}, {9, 10}},
		"Detector_Size":      {{0.01}},
		"Number_of_Columns":  {{640}},
		"Number_of_Rows":     {{480}},
		"Principal_Distance": {{35}},
	}, []string{"Ground_Point", "Image_Point_Left", "Image_Point_Right", "Detector_Size", "Number_of_Columns", "Number_of_Rows", "Principal_Distance"}), 0o644))

	out := filepath.Join(dir, "combined_data.csv")
	app, _, stderr := newApp(nil)
	require.Equal(t, ExitOK, app.Convert(context.Background(), []string{"-o", out, in}), stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Ground_Point_X,Ground_Point_Y,Ground_Point_Z,Image_Point_Left_X,Image_Point_Left_Y,Image_Point_Right_X,Image_Point_Right_Y\n"+
		"1,2,3,0.5,1.5,7,8\n"+
		"4,5,6,2.5,3.5,9,10\n", string(data))

	require.Equal(t, ExitOK, app.Convert(context.Background(), []string{"-scalars", "-o", out, in}))
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), ",Detector_Size,Number_of_Columns,Number_of_Rows,Principal_Distance\n")
	assert.Contains(t, string(data), "1,2,3,0.5,1.5,7,8,0.01,640,480,35\n")

	// the converted file feeds straight into the tagger
	app, _, _ = newApp(func(context.Context, geom.PointSet, tui.Config) ([]geom.Point, error) {
		return []geom.Point{{X: 2, Y: 3}}, nil
	})
	tagged := filepath.Join(dir, "tagged.csv")
	require.Equal(t, ExitOK, app.Tag(context.Background(), []string{"-quiet", "-o", tagged, out}))
	data, err = os.ReadFile(tagged)
	require.NoError(t, err)
	assert.Contains(t, string(data), "4,5,6,2.5,3.5,9,10,0.01,640,480,35,1\n")
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()

	app, _, stderr := newApp(nil)
	missing := filepath.Join(dir, "Data.mat")
	assert.Equal(t, ExitFailure, app.Convert(context.Background(), []string{missing}))
	assert.Contains(t, stderr.String(), "was not found")

	notMAT := writeFile(t, dir, "bad.mat", "hello")
	app, _, stderr = newApp(nil)
	assert.Equal(t, ExitFailure, app.Convert(context.Background(), []string{notMAT}))
	assert.Contains(t, stderr.String(), "not a Level 5 MAT-file")

	partial := filepath.Join(dir, "partial.mat")
	require.NoError(t, os.WriteFile(partial, matBytes(map[string][][]float64{
		"Ground_Point": {{1, 2, 3}},
	}, []string{"Ground_Point"}), 0o644))
	app, _, stderr = newApp(nil)
	assert.Equal(t, ExitFailure, app.Convert(context.Background(), []string{"-o", filepath.Join(dir, "x.csv"), partial}))
	assert.Contains(t, stderr.String(), "missing variable")

	app, _, _ = newApp(nil)
	assert.Equal(t, ExitUsage, app.Convert(context.Background(), []string{"a.mat", "b.mat"}))
}

func TestTagMalformedPicks(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", input)
	out := filepath.Join(dir, "out.csv")

	for name, content := range map[string]string{
		"picks.csv": "x,y\n9,1\n1,9oops\n",
		"picks.txt": "9 1\n1 NaN\n",
	} {
		t.Run(name, func(t *testing.T) {
			picks := writeFile(t, dir, name, content)
			app, _, stderr := newApp(nil)
			assert.Equal(t, ExitFailure, app.Tag(context.Background(), []string{"-quiet", "-picks", picks, "-o", out, in}))
			assert.NotEmpty(t, stderr.String())
			assert.NoFileExists(t, out)
		})
	}
}

func TestTagTrailingFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", input)
	picks := writeFile(t, dir, "picks.txt", "1 1\n")
	out := filepath.Join(dir, "out.csv")

	app, stdout, stderr := newApp(nil)
	code := app.Tag(context.Background(), []string{in, "--output_file", out, "-picks", picks, "-quiet"})
	require.Equal(t, ExitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Tagged data saved to")
	assert.FileExists(t, out)

	app, _, _ = newApp(nil)
	assert.Equal(t, ExitUsage, app.Tag(context.Background(), []string{in, "-quiet", "extra.csv"}))
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		positional []string
		output     string
	}{
		{"FlagsFirst", []string{"-o", "out.csv", "in.csv"}, []string{"in.csv"}, "out.csv"},
		{"FlagsLast", []string{"in.csv", "-o", "out.csv"}, []string{"in.csv"}, "out.csv"},
		{"Interleaved", []string{"a", "-o", "out.csv", "b"}, []string{"a", "b"}, "out.csv"},
		{"DoubleDash", []string{"-o", "out.csv", "--", "-weird.csv"}, []string{"-weird.csv"}, "out.csv"},
		{"None", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset := flag.NewFlagSet("test", flag.ContinueOnError)
			output := fset.String("o", "", "")
			got, err := parseArgs(fset, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.positional, got)
			assert.Equal(t, tt.output, *output)
		})
	}
}

func TestPickResult(t *testing.T) {
	_, err := pickResult(nil, fmt.Errorf("%w: %w", tea.ErrProgramKilled, context.Canceled))
	assert.ErrorIs(t, err, ErrAborted)

	_, err = pickResult(nil, errors.New("tty"))
	assert.EqualError(t, err, "tty")

	m := tui.New(geom.PointSet{{X: 0, Y: 0}}, tui.Config{})
	aborted, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	_, err = pickResult(aborted, nil)
	assert.ErrorIs(t, err, ErrAborted)

	picks, err := pickResult(m, nil)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestTagKilledPicker(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", input)
	app, _, stderr := newApp(func(context.Context, geom.PointSet, tui.Config) ([]geom.Point, error) {
		return pickResult(nil, tea.ErrProgramKilled)
	})
	assert.Equal(t, ExitAborted, app.Tag(context.Background(), []string{in}))
	assert.Contains(t, stderr.String(), "Aborted.")
}

func TestConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app, _, stderr := newApp(nil)
	assert.Equal(t, ExitAborted, app.Convert(ctx, []string{filepath.Join(t.TempDir(), "Data.mat")}))
	assert.Contains(t, stderr.String(), "Aborted.")
}
