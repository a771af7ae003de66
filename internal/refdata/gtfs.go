package refdata

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/jamespfennell/gtfs"

	"railviz/internal/journey"
)

// LoadGTFS reads a static GTFS feed from a local zip path or an HTTP URL and
// extracts the stop and route reference data from it.
func LoadGTFS(source string) (*Dataset, error) {
	b, err := rawFeed(source)
	if err != nil {
		return nil, err
	}
	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse GTFS feed: %w", err)
	}

	stops := make([]journey.Stop, 0, len(static.Stops))
	for _, s := range static.Stops {
		stop := journey.Stop{ID: s.Id, Name: s.Name}
		if s.Latitude != nil {
			stop.Lat = *s.Latitude
		}
		if s.Longitude != nil {
			stop.Lon = *s.Longitude
		}
		stops = append(stops, stop)
	}
	routes := make([]journey.Route, 0, len(static.Routes))
	for _, r := range static.Routes {
		routes = append(routes, journey.Route{
			ID:        r.Id,
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Color:     r.Color,
		})
	}
	return New(stops, routes), nil
}

func rawFeed(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("download GTFS feed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download GTFS feed: unexpected status %s", resp.Status)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read GTFS feed: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read GTFS feed: %w", err)
	}
	return b, nil
}
