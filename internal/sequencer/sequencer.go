// Package sequencer replays a journey's segments as a timed marker
// animation. Segments play strictly in index order, each for its real travel
// duration divided by a compression factor, and every interpolated position
// is handed to the injected animation capability.
package sequencer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"railviz/internal/journey"
)

// State of the playback machine.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
	StateStopped  State = "stopped"
)

// Capability is the animation sink positions are pushed to. Implementations
// are loaded once per process and shared across sequences.
type Capability interface {
	Publish(pos journey.Position) error
}

// Loader fetches the capability. The capability package memoizes the single
// load attempt per process; the sequencer just calls through.
type Loader func(ctx context.Context) (Capability, error)

// Metrics is the subset of playback instrumentation the sequencer feeds.
type Metrics interface {
	PlaybackStarted()
	PlaybackStopped()
	PlaybackCompleted()
}

type Sequencer struct {
	loader      Loader
	compression float64
	tick        time.Duration
	loc         *time.Location
	metrics     Metrics

	mu         sync.Mutex
	state      State
	segments   []journey.Segment
	capability Capability
	loaded     bool
	gen        uint64
	cancel     context.CancelFunc
	done       chan struct{}
	lastPos    *journey.Position
}

// New builds a sequencer. compression is real travel seconds per second of
// playback; tick is the interpolation interval; loc is the zone position
// timestamps are stamped in.
func New(loader Loader, compression float64, tick time.Duration, loc *time.Location, m Metrics) *Sequencer {
	if compression <= 0 {
		compression = 60
	}
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sequencer{
		loader:      loader,
		compression: compression,
		tick:        tick,
		loc:         loc,
		metrics:     m,
		state:       StateIdle,
	}
}

// Prepare replaces the segment list. Any in-flight playback is stopped first
// so callbacks from the superseded sequence can never fire afterwards. An
// empty list, or a failed capability load, leaves the sequencer Idle; the
// caller still has the static segments to render.
//
// Loading is entered at most once per process: the first Prepare resolves
// the capability and later ones reuse the outcome, success or failure.
func (s *Sequencer) Prepare(ctx context.Context, segments []journey.Segment) {
	s.Stop()

	s.mu.Lock()
	s.gen++
	s.segments = segments
	s.lastPos = nil
	if len(segments) == 0 {
		s.state = StateIdle
		s.mu.Unlock()
		return
	}
	if s.loaded {
		if s.capability != nil {
			s.state = StateReady
		} else {
			s.state = StateIdle
		}
		s.mu.Unlock()
		return
	}
	s.state = StateLoading
	s.mu.Unlock()

	capability, err := s.loader(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	if err != nil {
		log.Warn().Err(err).Msg("animation capability unavailable, playback disabled")
		s.capability = nil
		s.state = StateIdle
		return
	}
	s.capability = capability
	s.state = StateReady
}

// Start begins playback of the prepared segments. Calling it while already
// playing is a no-op; so is calling it without a prepared sequence.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = StatePlaying
	gen := s.gen
	segments := s.segments
	capability := s.capability
	done := s.done
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.PlaybackStarted()
	}
	log.Info().Int("segments", len(segments)).Msg("playback started")

	go func() {
		defer close(done)
		s.run(ctx, gen, segments, capability)
	}()
}

// Stop cancels an in-flight playback and waits for its goroutine to retire.
// Outside Playing it is a no-op.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	// The run may have finished naturally while we were cancelling; a
	// natural finish already moved the state on and counted itself.
	cancelled := s.state == StatePlaying
	if cancelled {
		s.state = StateStopped
	}
	s.mu.Unlock()

	if !cancelled {
		return
	}
	if s.metrics != nil {
		s.metrics.PlaybackStopped()
	}
	log.Info().Msg("playback stopped")
}

// State reports the current machine state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the most recently interpolated marker position. The
// second return is false before the first position of a playback and after
// the sequence is replaced.
func (s *Sequencer) Position() (journey.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPos == nil {
		return journey.Position{}, false
	}
	return *s.lastPos, true
}

func (s *Sequencer) run(ctx context.Context, gen uint64, segments []journey.Segment, capability Capability) {
	for _, seg := range segments {
		if !s.playSegment(ctx, gen, seg, capability) {
			return
		}
	}
	s.mu.Lock()
	if s.gen == gen && s.state == StatePlaying {
		s.state = StateFinished
	}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.PlaybackCompleted()
	}
	log.Info().Msg("playback finished")
}

// playSegment interpolates the marker along one segment for its compressed
// duration. It returns false when the run was cancelled.
func (s *Sequencer) playSegment(ctx context.Context, gen uint64, seg journey.Segment, capability Capability) bool {
	cum := journey.CumulativeDistances(seg.Positions)
	total := cum[len(cum)-1]
	speed := total / float64(seg.DurationSeconds)

	playDur := time.Duration(float64(seg.DurationSeconds) / s.compression * float64(time.Second))
	if playDur < s.tick {
		playDur = s.tick
	}

	start := time.Now()
	s.emit(gen, seg, cum, 0, speed, capability)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case now := <-ticker.C:
			frac := float64(now.Sub(start)) / float64(playDur)
			if frac >= 1 {
				s.emit(gen, seg, cum, 1, speed, capability)
				return true
			}
			s.emit(gen, seg, cum, frac, speed, capability)
		}
	}
}

// emit publishes the position at the given fraction of the segment, unless
// the sequence has been superseded since the run began.
func (s *Sequencer) emit(gen uint64, seg journey.Segment, cum []float64, frac float64, speed float64, capability Capability) {
	total := cum[len(cum)-1]
	lat, lon, bearing := journey.PointAlong(seg.Positions, cum, total*frac)
	pos := journey.Position{
		Lat:          lat,
		Lon:          lon,
		Bearing:      bearing,
		SegmentIndex: seg.Index,
		Progress:     frac,
		SpeedMps:     speed,
		RouteID:      seg.RouteID,
		TripID:       seg.TripID,
		Timestamp:    time.Now().In(s.loc),
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.lastPos = &pos
	s.mu.Unlock()

	if err := capability.Publish(pos); err != nil {
		log.Warn().Err(err).Int("segment", seg.Index).Msg("position publish failed")
	}
}
