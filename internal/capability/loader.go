package capability

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// LoadError wraps a failed capability load. The failure is absorbed by the
// sequencer, which falls back to static rendering.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load animation capability at %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader memoizes a single connection attempt for the whole process: the
// first sequence to prepare triggers the load, every later sequence reuses
// the outcome, success or failure. Whoever creates the loader owns calling
// Shutdown at session end.
type Loader struct {
	url         string
	prefix      string
	logSubjects bool
	metrics     Metrics

	once sync.Once
	pub  *NATSPublisher
	err  error
}

func NewLoader(url, prefix string, logSubjects bool, m Metrics) *Loader {
	return &Loader{url: url, prefix: prefix, logSubjects: logSubjects, metrics: m}
}

// Load returns the shared publisher, connecting on first use.
func (l *Loader) Load(_ context.Context) (*NATSPublisher, error) {
	l.once.Do(func() {
		pub, err := Connect(l.url, l.prefix, l.logSubjects, l.metrics)
		if err != nil {
			l.err = &LoadError{URL: l.url, Err: err}
			log.Warn().Err(l.err).Msg("animation capability load failed")
			return
		}
		l.pub = pub
		log.Info().Str("url", l.url).Str("prefix", l.prefix).Msg("animation capability loaded")
	})
	return l.pub, l.err
}

// Shutdown releases the publisher if one was ever loaded.
func (l *Loader) Shutdown() {
	if l.pub != nil {
		l.pub.Close()
		l.pub = nil
	}
}
