package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railviz/internal/journey"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stops.csv",
		"stop_id,stop_name,stop_lat,stop_lon\n"+
			"s2,Central,40.2,-3.2\n"+
			"s1,Airport,40.1,-3.1\n")
	writeFile(t, dir, "routes.csv",
		"route_id,route_short_name,route_long_name,route_color\n"+
			"r1,C1,Coastal Line,0066CC\n")

	d, err := LoadCSVDir(dir)
	require.NoError(t, err)

	stops := d.Stops()
	require.Len(t, stops, 2)
	// sorted by name
	assert.Equal(t, "s1", stops[0].ID)
	assert.Equal(t, "Airport", stops[0].Name)
	assert.Equal(t, 40.1, stops[0].Lat)
	assert.Equal(t, "s2", stops[1].ID)

	r, ok := d.RouteByID("r1")
	require.True(t, ok)
	assert.Equal(t, "Coastal Line", r.LongName)
	assert.Equal(t, "0066CC", r.Color)
}

func TestLoadCSVDirToleratesShortRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stops.csv",
		"stop_id,stop_name,stop_lat,stop_lon\n"+
			"s1,Airport,40.1,-3.1\n"+
			"s2,Central\n")

	d, err := LoadCSVDir(dir)
	require.NoError(t, err)
	require.Len(t, d.Stops(), 2)

	s, ok := d.StopByID("s2")
	require.True(t, ok)
	assert.Equal(t, "Central", s.Name)
	assert.Zero(t, s.Lat)
}

func TestLoadCSVDirMissingRoutesTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stops.csv", "stop_id,stop_name,stop_lat,stop_lon\ns1,Airport,40.1,-3.1\n")

	d, err := LoadCSVDir(dir)
	require.NoError(t, err)
	assert.Len(t, d.Stops(), 1)
	assert.Empty(t, d.Routes())
}

func TestLoadCSVDirMissingStopsFails(t *testing.T) {
	_, err := LoadCSVDir(t.TempDir())
	assert.Error(t, err)
}

func TestDatasetDropsEmptyAndDuplicateIDs(t *testing.T) {
	d := New([]journey.Stop{
		{ID: "s1", Name: "Airport"},
		{ID: "", Name: "Ghost"},
		{ID: "s1", Name: "Airport Again"},
	}, nil)

	require.Len(t, d.Stops(), 1)
	s, ok := d.StopByID("s1")
	require.True(t, ok)
	assert.Equal(t, "Airport", s.Name)
}
