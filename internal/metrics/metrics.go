package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Collector struct {
	reg *prometheus.Registry

	JourneysPlanned prometheus.Counter
	JourneysFailed  prometheus.Counter
	SegmentsBuilt   prometheus.Counter

	PlaybacksStarted   prometheus.Counter
	PlaybacksStopped   prometheus.Counter
	PlaybacksCompleted prometheus.Counter

	PositionsPublished  prometheus.Counter
	PositionPublishErrs prometheus.Counter
	PublishDuration     prometheus.Histogram
	CapabilityConnected prometheus.Gauge

	HTTPDuration *prometheus.HistogramVec // method, path, status labels
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		JourneysPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_journeys_planned_total",
			Help: "Total journeys successfully planned.",
		}),
		JourneysFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_journeys_failed_total",
			Help: "Total journey planning requests that failed.",
		}),
		SegmentsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_segments_built_total",
			Help: "Total polyline segments derived from planned journeys.",
		}),
		PlaybacksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_playbacks_started_total",
			Help: "Total playback runs started.",
		}),
		PlaybacksStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_playbacks_stopped_total",
			Help: "Total playback runs cancelled before completion.",
		}),
		PlaybacksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_playbacks_completed_total",
			Help: "Total playback runs that played every segment.",
		}),
		PositionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_positions_published_total",
			Help: "Total marker positions published to the animation capability.",
		}),
		PositionPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railviz_position_publish_errors_total",
			Help: "Total position publish errors.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railviz_position_publish_duration_seconds",
			Help:    "Duration to marshal and publish one position.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		CapabilityConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railviz_capability_connected",
			Help: "1 if the animation capability connection is established, 0 otherwise.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railviz_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(
		c.JourneysPlanned, c.JourneysFailed, c.SegmentsBuilt,
		c.PlaybacksStarted, c.PlaybacksStopped, c.PlaybacksCompleted,
		c.PositionsPublished, c.PositionPublishErrs, c.PublishDuration,
		c.CapabilityConnected, c.HTTPDuration,
	)

	return c
}

// capability.Metrics

func (c *Collector) PublishedInc()  { c.PositionsPublished.Inc() }
func (c *Collector) PublishErrInc() { c.PositionPublishErrs.Inc() }

func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }

func (c *Collector) SetConnected(connected bool) {
	if connected {
		c.CapabilityConnected.Set(1)
	} else {
		c.CapabilityConnected.Set(0)
	}
}

// sequencer.Metrics

func (c *Collector) PlaybackStarted()   { c.PlaybacksStarted.Inc() }
func (c *Collector) PlaybackStopped()   { c.PlaybacksStopped.Inc() }
func (c *Collector) PlaybackCompleted() { c.PlaybacksCompleted.Inc() }

// ObserveHTTP records one API request.
func (c *Collector) ObserveHTTP(method, path string, status int, d time.Duration) {
	c.HTTPDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
	log.Info().Str("addr", addr).Msg("metrics listening")
	return srv
}
