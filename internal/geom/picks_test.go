package geom

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWKT(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []Point
	}{
		{"Point", "POINT (1 2)", []Point{{1, 2}}},
		{"MultiPoint", "MULTIPOINT (1 2, 3.5 -4)", []Point{{1, 2}, {3.5, -4}}},
		{"MultiPointNested", "multipoint((1 2), (3 4))", []Point{{1, 2}, {3, 4}}},
		{"LineString", "LINESTRING(0 0, 1 1, 2 0)", []Point{{0, 0}, {1, 1}, {2, 0}}},
		{"Empty", "MULTIPOINT EMPTY", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWKT(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []string{"", "POLYGON((0 0, 1 1, 1 0, 0 0))", "POINT(1)", "POINT(1 2, 3 4)", "MULTIPOINT(a b)", "POINT 1 2"} {
		_, err := ParseWKT(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePicks(t *testing.T) {
	got, err := ParsePicks("# picked\n1 2\n\n3.5,4\n -1   -2 \n")
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 2}, {3.5, 4}, {-1, -2}}, got)

	got, err = ParsePicks("MULTIPOINT(5 6, 7 8)")
	require.NoError(t, err)
	assert.Equal(t, []Point{{5, 6}, {7, 8}}, got)

	got, err = ParsePicks("   ")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParsePicks("1 2 3")
	assert.ErrorContains(t, err, "line 1")

	_, err = ParsePicks("1 2\n1 x")
	assert.ErrorContains(t, err, "line 2")
}

func TestReadCSV(t *testing.T) {
	got, err := ReadCSV(strings.NewReader("id,X,Y\n1,10,20\n3, 4.5 ,6\n"))
	require.NoError(t, err)
	assert.Equal(t, []Point{{10, 20}, {4.5, 6}}, got)

	_, err = ReadCSV(strings.NewReader("id,X,Y\n1,10,20\n2,bad,3\n"))
	assert.ErrorContains(t, err, "csv: line 3")

	_, err = ReadCSV(strings.NewReader("x,y\n9,1\n1,9oops\n"))
	assert.ErrorContains(t, err, "csv: line 3")

	_, err = ReadCSV(strings.NewReader("id,x,y\n1,2,3\n4,5\n"))
	assert.ErrorContains(t, err, "want 3 fields, got 2")

	got, err = ReadCSV(strings.NewReader("lat,lon\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []Point{{2, 1}}, got)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2\n"))
	assert.ErrorContains(t, err, "x/y columns not found")

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadPicks(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "picks.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\n1,1\n"), 0o644))
	got, err := LoadPicks(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 1}}, got)

	wktPath := filepath.Join(dir, "picks.wkt")
	require.NoError(t, os.WriteFile(wktPath, []byte("MULTIPOINT(1 1, 2 2)\n"), 0o644))
	got, err = LoadPicks(wktPath)
	require.NoError(t, err)
	assert.Equal(t, []Point{{1, 1}, {2, 2}}, got)

	_, err = LoadPicks(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	kmlPath := filepath.Join(dir, "picks.kml")
	require.NoError(t, os.WriteFile(kmlPath, []byte(`<kml><Placemark><Point><coordinates>3,4</coordinates></Point></Placemark></kml>`), 0o644))
	got, err = LoadPicks(kmlPath)
	require.NoError(t, err)
	assert.Equal(t, []Point{{3, 4}}, got)

	_, err = LoadPicks(filepath.Join(dir, "picks.shp"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestReadGeoJSON(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []Point
		err      string
	}{
		{"Point", `{"type":"Point","coordinates":[1,2]}`, []Point{{1, 2}}, ""},
		{"MultiPoint", `{"type":"MultiPoint","coordinates":[[1,2],[3,4,5]]}`, []Point{{1, 2}, {3, 4}}, ""},
		{"Feature", `{"type":"Feature","geometry":{"type":"Point","coordinates":[-1,0.5]}}`, []Point{{-1, 0.5}}, ""},
		{"FeatureCollection", `{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]}},
			{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[9,9]]}},
			{"type":"Feature","geometry":{"type":"MultiPoint","coordinates":[[2,2]]}}]}`, []Point{{1, 1}, {2, 2}}, ""},
		{"NoPoints", `{"type":"LineString","coordinates":[[0,0],[1,1]]}`, nil, "no points"},
		{"MissingType", `{"coordinates":[1,2]}`, nil, "missing type"},
		{"BadPosition", `{"type":"Point","coordinates":[1]}`, nil, "bad position"},
		{"Malformed", `{`, nil, "geojson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadGeoJSON(strings.NewReader(tt.in))
			if tt.err != "" {
				assert.ErrorContains(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadKML(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark><name>a</name><Point><coordinates>1.5,2,100</coordinates></Point></Placemark>
      <Placemark><LineString><coordinates>0,0 5,5</coordinates></LineString></Placemark>
    </Folder>
    <Placemark><Point><coordinates> 3,4 </coordinates></Point></Placemark>
  </Document>
</kml>`
	got, err := ReadKML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Point{{1.5, 2}, {3, 4}}, got)

	_, err = ReadKML(strings.NewReader(`<kml><Placemark><Point><coordinates>1</coordinates></Point></Placemark></kml>`))
	assert.ErrorContains(t, err, "bad coordinate tuple")

	_, err = ReadKML(strings.NewReader(`<kml></kml>`))
	assert.ErrorContains(t, err, "no points")
}
