// Package refdata loads the immutable stop and route reference data the
// journey views are rendered against. Data is loaded once per process from
// one of three sources (CSV directory, GTFS static feed, Postgres) and is
// read-only thereafter.
package refdata

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"railviz/internal/config"
	"railviz/internal/journey"
)

// Dataset holds the loaded reference data, keyed by stable identifier.
type Dataset struct {
	stops     []journey.Stop
	routes    []journey.Route
	stopByID  map[string]journey.Stop
	routeByID map[string]journey.Route
}

// New builds a Dataset from loaded rows. Stops are sorted by name so
// station listings render in a stable order; rows without an id are dropped.
func New(stops []journey.Stop, routes []journey.Route) *Dataset {
	d := &Dataset{
		stopByID:  make(map[string]journey.Stop, len(stops)),
		routeByID: make(map[string]journey.Route, len(routes)),
	}
	for _, s := range stops {
		if s.ID == "" {
			continue
		}
		if _, dup := d.stopByID[s.ID]; dup {
			continue
		}
		d.stopByID[s.ID] = s
		d.stops = append(d.stops, s)
	}
	for _, r := range routes {
		if r.ID == "" {
			continue
		}
		if _, dup := d.routeByID[r.ID]; dup {
			continue
		}
		d.routeByID[r.ID] = r
		d.routes = append(d.routes, r)
	}
	sort.Slice(d.stops, func(i, j int) bool {
		if d.stops[i].Name != d.stops[j].Name {
			return d.stops[i].Name < d.stops[j].Name
		}
		return d.stops[i].ID < d.stops[j].ID
	})
	sort.Slice(d.routes, func(i, j int) bool { return d.routes[i].ID < d.routes[j].ID })
	return d
}

func (d *Dataset) Stops() []journey.Stop   { return d.stops }
func (d *Dataset) Routes() []journey.Route { return d.routes }

func (d *Dataset) StopByID(id string) (journey.Stop, bool) {
	s, ok := d.stopByID[id]
	return s, ok
}

func (d *Dataset) RouteByID(id string) (journey.Route, bool) {
	r, ok := d.routeByID[id]
	return r, ok
}

// Load reads the reference data from the source selected in cfg.
func Load(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	var (
		d   *Dataset
		err error
	)
	switch cfg.RefdataSource {
	case config.RefdataCSV:
		d, err = LoadCSVDir(cfg.RefdataDir)
	case config.RefdataGTFS:
		d, err = LoadGTFS(cfg.GTFSSource)
	case config.RefdataPostgres:
		d, err = LoadPostgres(ctx, cfg.DatabaseURL)
	default:
		err = fmt.Errorf("unknown refdata source %q", cfg.RefdataSource)
	}
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("source", string(cfg.RefdataSource)).
		Int("stops", len(d.stops)).
		Int("routes", len(d.routes)).
		Msg("reference data loaded")
	return d, nil
}
