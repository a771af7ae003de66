package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RefdataSource selects where the stop/route reference data comes from.
type RefdataSource string

const (
	RefdataCSV      RefdataSource = "csv"
	RefdataGTFS     RefdataSource = "gtfs"
	RefdataPostgres RefdataSource = "postgres"
)

type Config struct {
	PlannerBaseURL string
	PlannerTimeout time.Duration

	ListenAddr  string
	MetricsAddr string

	RefdataSource RefdataSource
	RefdataDir    string
	GTFSSource    string
	DatabaseURL   string

	NATSURL           string
	NATSSubjectPrefix string
	LogNATSSubjects   bool

	PlaybackCompression float64
	PlaybackTick        time.Duration
	ViewportPadding     float64

	Location *time.Location
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.PlannerBaseURL = strings.TrimRight(getenvDefault("PLANNER_BASE_URL", "http://127.0.0.1:8080"), "/")

	if v := os.Getenv("PLANNER_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid PLANNER_TIMEOUT_MS: %q", v)
		}
		cfg.PlannerTimeout = time.Duration(ms) * time.Millisecond
	} else {
		cfg.PlannerTimeout = 10 * time.Second
	}

	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8090")

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	src := RefdataSource(strings.ToLower(getenvDefault("REFDATA_SOURCE", string(RefdataCSV))))
	switch src {
	case RefdataCSV, RefdataGTFS, RefdataPostgres:
		cfg.RefdataSource = src
	default:
		return nil, fmt.Errorf("invalid REFDATA_SOURCE: %q (want csv, gtfs or postgres)", src)
	}

	cfg.RefdataDir = getenvDefault("REFDATA_DIR", "public/data")
	cfg.GTFSSource = os.Getenv("GTFS_SOURCE")
	if cfg.RefdataSource == RefdataGTFS && cfg.GTFSSource == "" {
		return nil, errors.New("GTFS_SOURCE must be set when REFDATA_SOURCE=gtfs")
	}

	// Postgres DSN: prefer DATABASE_URL / PG_DSN, else build from PG* vars.
	// Only required when the postgres source is selected.
	dsn := firstNonEmpty(
		os.Getenv("DATABASE_URL"),
		os.Getenv("PG_DSN"),
	)
	if dsn == "" && cfg.RefdataSource == RefdataPostgres {
		host := getenvDefault("PGHOST", "127.0.0.1")
		port := getenvDefault("PGPORT", "5432")
		user := getenvDefault("PGUSER", "postgres")
		pass := os.Getenv("PGPASSWORD")
		db := os.Getenv("PGDATABASE")
		if db == "" {
			return nil, errors.New("PGDATABASE or DATABASE_URL must be set when REFDATA_SOURCE=postgres")
		}
		sslmode := getenvDefault("PGSSLMODE", "disable")
		if pass != "" {
			dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", urlEscape(user), urlEscape(pass), host, port, db, sslmode)
		} else {
			dsn = fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", urlEscape(user), host, port, db, sslmode)
		}
	}
	cfg.DatabaseURL = dsn

	cfg.NATSURL = getenvDefault("NATS_URL", "nats://127.0.0.1:4222")
	cfg.NATSSubjectPrefix = getenvDefault("NATS_SUBJECT_PREFIX", "railviz.positions")

	if v := os.Getenv("LOG_NATS_SUBJECTS"); v != "" {
		cfg.LogNATSSubjects = truthy(v)
	}

	// Playback compression: real travel seconds per second of animation.
	// The default maps one simulated minute to one second of playback.
	if v := os.Getenv("PLAYBACK_COMPRESSION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid PLAYBACK_COMPRESSION: %q", v)
		}
		cfg.PlaybackCompression = f
	} else {
		cfg.PlaybackCompression = 60.0
	}

	if v := os.Getenv("PLAYBACK_TICK_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid PLAYBACK_TICK_MS: %q", v)
		}
		cfg.PlaybackTick = time.Duration(ms) * time.Millisecond
	} else {
		cfg.PlaybackTick = 100 * time.Millisecond
	}

	// Viewport padding as a fraction of the bounding box span per axis.
	if v := os.Getenv("VIEWPORT_PADDING"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("invalid VIEWPORT_PADDING: %q", v)
		}
		cfg.ViewportPadding = f
	} else {
		cfg.ViewportPadding = 0.1
	}

	// Time zone
	tzName := getenvDefault("TZ", "")
	if tzName == "" {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			return nil, fmt.Errorf("invalid TZ: %v", err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	}
	return false
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func urlEscape(s string) string {
	// Minimal escape for DSN user/pass with special chars
	r := strings.NewReplacer("@", "%40", ":", "%3A", "/", "%2F", "?", "%3F", "#", "%23")
	return r.Replace(s)
}
