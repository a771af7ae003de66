package refdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"railviz/internal/journey"
)

// LoadPostgres reads the stops and routes tables from a GTFS-shaped Postgres
// database. The connection is opened for the load only; reference data never
// changes during a session, so no pool is kept around.
func LoadPostgres(ctx context.Context, dsn string) (*Dataset, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stops, err := queryStops(ctx, db)
	if err != nil {
		return nil, err
	}
	routes, err := queryRoutes(ctx, db)
	if err != nil {
		return nil, err
	}
	return New(stops, routes), nil
}

func queryStops(ctx context.Context, db *sql.DB) ([]journey.Stop, error) {
	q := `SELECT stop_id, COALESCE(stop_name, ''), COALESCE(stop_lat, 0), COALESCE(stop_lon, 0)
          FROM stops ORDER BY stop_id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query stops: %w", err)
	}
	defer rows.Close()

	var stops []journey.Stop
	for rows.Next() {
		var s journey.Stop
		if err := rows.Scan(&s.ID, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func queryRoutes(ctx context.Context, db *sql.DB) ([]journey.Route, error) {
	q := `SELECT route_id, COALESCE(route_short_name, ''), COALESCE(route_long_name, ''), COALESCE(route_color, '')
          FROM routes ORDER BY route_id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var routes []journey.Route
	for rows.Next() {
		var r journey.Route
		if err := rows.Scan(&r.ID, &r.ShortName, &r.LongName, &r.Color); err != nil {
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}
