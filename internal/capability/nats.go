// Package capability provides the animation capability positions are pushed
// through during playback: a NATS publisher plus the memoized process-wide
// loader that owns its lifecycle.
package capability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"railviz/internal/journey"
)

// Metrics is the instrumentation surface the publisher feeds.
type Metrics interface {
	PublishedInc()
	PublishErrInc()
	PublishObserve(d time.Duration)
	SetConnected(connected bool)
}

// NATSPublisher pushes interpolated marker positions onto NATS subjects of
// the form {prefix}.{route_id}.{trip_id}.
type NATSPublisher struct {
	nc          *nats.Conn
	prefix      string
	logSubjects bool
	metrics     Metrics
}

func Connect(url, prefix string, logSubjects bool, m Metrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("railviz"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			log.Warn().Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(true)
			}
			log.Info().Msg("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			log.Info().Msg("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.SetConnected(true)
	}
	// The prefix may span several tokens ("railviz.positions"), so only
	// its edges are trimmed; route and trip ids are sanitized per token.
	return &NATSPublisher{nc: nc, prefix: strings.Trim(prefix, "."), logSubjects: logSubjects, metrics: m}, nil
}

// Publish sends one position. Errors are counted and returned; the caller
// decides whether playback carries on.
func (p *NATSPublisher) Publish(pos journey.Position) error {
	subject := fmt.Sprintf("%s.%s.%s", p.prefix, subjectToken(pos.RouteID), subjectToken(pos.TripID))
	b, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Debug().Str("subject", subject).Msg("nats publish")
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.PublishErrInc()
		} else {
			p.metrics.PublishedInc()
		}
	}
	return err
}

// Close drains pending messages before closing the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
