package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"railviz/internal/journey"
)

type stopRow struct {
	StopID   string  `csv:"stop_id"`
	StopName string  `csv:"stop_name"`
	StopLat  float64 `csv:"stop_lat"`
	StopLon  float64 `csv:"stop_lon"`
}

type routeRow struct {
	RouteID        string `csv:"route_id"`
	RouteShortName string `csv:"route_short_name"`
	RouteLongName  string `csv:"route_long_name"`
	RouteColor     string `csv:"route_color"`
}

// LoadCSVDir reads stops.csv and routes.csv from the given directory. The
// files are GTFS-shaped; records with missing trailing columns are accepted.
// A missing routes.csv is tolerated, a missing stops.csv is not.
func LoadCSVDir(dir string) (*Dataset, error) {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var stopRows []stopRow
	if err := unmarshalCSVFile(filepath.Join(dir, "stops.csv"), &stopRows); err != nil {
		return nil, fmt.Errorf("load stops.csv: %w", err)
	}

	var routeRows []routeRow
	routesPath := filepath.Join(dir, "routes.csv")
	if _, err := os.Stat(routesPath); err == nil {
		if err := unmarshalCSVFile(routesPath, &routeRows); err != nil {
			return nil, fmt.Errorf("load routes.csv: %w", err)
		}
	}

	stops := make([]journey.Stop, 0, len(stopRows))
	for _, r := range stopRows {
		stops = append(stops, journey.Stop{
			ID:   r.StopID,
			Name: r.StopName,
			Lat:  r.StopLat,
			Lon:  r.StopLon,
		})
	}
	routes := make([]journey.Route, 0, len(routeRows))
	for _, r := range routeRows {
		routes = append(routes, journey.Route{
			ID:        r.RouteID,
			ShortName: r.RouteShortName,
			LongName:  r.RouteLongName,
			Color:     r.RouteColor,
		})
	}
	return New(stops, routes), nil
}

func unmarshalCSVFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Unmarshal(f, out)
}
