// Package session owns the state of one journey-visualization session: the
// latest planning result, its derived segments and viewport, the selected
// stop, and the playback sequencer. Mutations are serialized so a new plan
// always tears the previous playback down before taking its place.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/twpayne/go-polyline"

	"railviz/internal/journey"
	"railviz/internal/metrics"
	"railviz/internal/refdata"
	"railviz/internal/sequencer"
)

var (
	ErrNoJourney        = errors.New("no journey planned")
	ErrStopNotInJourney = errors.New("stop not in current journey")
	ErrPlaybackNotReady = errors.New("no playback prepared")
)

// Planner produces a journey between two stops. The HTTP client in
// internal/planner implements it; tests substitute a stub.
type Planner interface {
	Plan(ctx context.Context, from, to, at string) (*journey.PlanningResult, error)
}

// SegmentView is one drawable leg of the rendering contract. Polyline is the
// Google encoded form of Positions for clients that prefer it.
type SegmentView struct {
	Index           int          `json:"index"`
	RouteID         string       `json:"route_id,omitempty"`
	RouteName       string       `json:"route_name,omitempty"`
	RouteColor      string       `json:"route_color,omitempty"`
	Positions       [][2]float64 `json:"positions"`
	Polyline        string       `json:"polyline"`
	Color           string       `json:"color"`
	DurationSeconds int          `json:"duration_seconds"`
}

// JourneyView is the full answer handed to the rendering layer after a plan.
type JourneyView struct {
	Origin          string            `json:"origin"`
	OriginName      string            `json:"origin_name"`
	Destination     string            `json:"destination"`
	DestinationName string            `json:"destination_name"`
	StartTime       string            `json:"start_time"`
	ArrivalTime     string            `json:"arrival_time"`
	TotalTravelMin  float64           `json:"total_travel_minutes"`
	StopCount       int               `json:"stop_count"`
	TransferCount   int               `json:"transfer_count"`
	Transfers       []string          `json:"transfers,omitempty"`
	Segments        []SegmentView     `json:"segments"`
	Viewport        *journey.Viewport `json:"viewport,omitempty"`
}

// StationView is one reference stop with its render role relative to the
// current journey and selection.
type StationView struct {
	ID            string       `json:"stop_id"`
	Name          string       `json:"stop_name"`
	Lat           float64      `json:"stop_lat"`
	Lon           float64      `json:"stop_lon"`
	Role          journey.Role `json:"role"`
	ArrivalTime   string       `json:"arrival_time,omitempty"`
	DepartureTime string       `json:"departure_time,omitempty"`
	TransferNote  string       `json:"transfer_note,omitempty"`
}

type Session struct {
	refdata *refdata.Dataset
	planner Planner
	seq     *sequencer.Sequencer
	metrics *metrics.Collector
	padding float64

	// opMu serializes plan/selection/playback mutations; mu guards reads
	// of the swapped state.
	opMu sync.Mutex
	mu   sync.Mutex

	plan     *journey.PlanningResult
	segments []journey.Segment
	view     *JourneyView
	selected *journey.RouteStop
}

func New(ref *refdata.Dataset, p Planner, seq *sequencer.Sequencer, m *metrics.Collector, padding float64) *Session {
	return &Session{
		refdata: ref,
		planner: p,
		seq:     seq,
		metrics: m,
		padding: padding,
	}
}

// Plan asks the planner for a journey, derives segments and viewport from
// the answer, and prepares the sequencer on the new segment list. The
// previous playback, if any, is released first.
func (s *Session) Plan(ctx context.Context, from, to, at string) (*JourneyView, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	pr, err := s.planner.Plan(ctx, from, to, at)
	if err != nil {
		if s.metrics != nil {
			s.metrics.JourneysFailed.Inc()
		}
		return nil, err
	}

	segments := journey.BuildSegments(pr.DetailedRoute)
	view := s.buildView(pr, segments)

	s.mu.Lock()
	s.plan = pr
	s.segments = segments
	s.view = view
	s.selected = nil
	s.mu.Unlock()

	s.seq.Prepare(ctx, segments)

	if s.metrics != nil {
		s.metrics.JourneysPlanned.Inc()
		s.metrics.SegmentsBuilt.Add(float64(len(segments)))
	}
	return view, nil
}

// Current returns the last planned view.
func (s *Session) Current() (*JourneyView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return nil, false
	}
	return s.view, true
}

// Select marks a journey stop as selected. Reselecting the same stop is a
// no-op; selecting a stop that is not part of the current journey fails.
func (s *Session) Select(stopID string) (*journey.RouteStop, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil || len(s.plan.DetailedRoute) == 0 {
		return nil, ErrNoJourney
	}
	if s.selected != nil && s.selected.StopID == stopID {
		return s.selected, nil
	}
	for i := range s.plan.DetailedRoute {
		if s.plan.DetailedRoute[i].StopID == stopID {
			s.selected = &s.plan.DetailedRoute[i]
			return s.selected, nil
		}
	}
	return nil, ErrStopNotInJourney
}

// ClearSelection drops the current selection. Clearing twice is harmless.
func (s *Session) ClearSelection() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

// Stations lists every reference stop with its classification against the
// current journey and selection.
func (s *Session) Stations() []StationView {
	s.mu.Lock()
	plan := s.plan
	selected := s.selected
	s.mu.Unlock()

	stops := s.refdata.Stops()
	out := make([]StationView, 0, len(stops))
	for _, stop := range stops {
		cls := journey.Classify(stop, plan, selected)
		sv := StationView{
			ID:   stop.ID,
			Name: stop.Name,
			Lat:  stop.Lat,
			Lon:  stop.Lon,
			Role: cls.Role,
		}
		if cls.Matched != nil {
			sv.ArrivalTime = cls.Matched.ArrivalTime
			sv.DepartureTime = cls.Matched.DepartureTime
			sv.TransferNote = cls.Matched.TransferNote
		}
		out = append(out, sv)
	}
	return out
}

// Routes lists the reference routes the dataset knows about.
func (s *Session) Routes() []journey.Route {
	return s.refdata.Routes()
}

// StartPlayback starts the prepared sequence. Starting while already playing
// is a no-op; starting with nothing prepared fails.
func (s *Session) StartPlayback() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	switch s.seq.State() {
	case sequencer.StatePlaying:
		return nil
	case sequencer.StateReady:
		s.seq.Start()
		return nil
	default:
		return ErrPlaybackNotReady
	}
}

// StopPlayback cancels an in-flight playback; outside Playing it is a no-op.
func (s *Session) StopPlayback() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.seq.Stop()
}

// Playback reports the sequencer state and, when one exists, the latest
// interpolated marker position.
func (s *Session) Playback() (sequencer.State, *journey.Position) {
	state := s.seq.State()
	if pos, ok := s.seq.Position(); ok {
		return state, &pos
	}
	return state, nil
}

// Close releases the playback resources. The capability itself is process
// wide and owned by its loader.
func (s *Session) Close() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.seq.Stop()
}

// buildView projects a planning result onto the rendering contract. Segment
// route names and colors missing from the planner answer are backfilled from
// the reference routes when the route id is known.
func (s *Session) buildView(pr *journey.PlanningResult, segments []journey.Segment) *JourneyView {
	view := &JourneyView{
		Origin:          pr.Origin,
		OriginName:      pr.OriginName,
		Destination:     pr.Destination,
		DestinationName: pr.DestinationName,
		StartTime:       pr.StartTime,
		ArrivalTime:     pr.ArrivalTime,
		TotalTravelMin:  pr.TotalTravelMin,
		StopCount:       pr.StopCount,
		TransferCount:   pr.TransferCount,
		Transfers:       pr.Transfers,
		Segments:        make([]SegmentView, 0, len(segments)),
	}
	for _, seg := range segments {
		sv := SegmentView{
			Index:           seg.Index,
			RouteID:         seg.RouteID,
			RouteName:       seg.RouteName,
			Positions:       seg.Positions,
			Polyline:        encodePolyline(seg.Positions),
			Color:           seg.Color,
			DurationSeconds: seg.DurationSeconds,
		}
		if route, ok := s.refdata.RouteByID(seg.RouteID); ok {
			if sv.RouteName == "" {
				sv.RouteName = route.LongName
				if sv.RouteName == "" {
					sv.RouteName = route.ShortName
				}
			}
			sv.RouteColor = route.Color
		}
		view.Segments = append(view.Segments, sv)
	}

	points := make([][2]float64, 0, len(pr.DetailedRoute))
	for _, rs := range pr.DetailedRoute {
		points = append(points, [2]float64{rs.Lat, rs.Lon})
	}
	if vp, ok := journey.FitViewport(points, s.padding); ok {
		view.Viewport = &vp
	}
	return view
}

func encodePolyline(positions [][2]float64) string {
	coords := make([][]float64, len(positions))
	for i, p := range positions {
		coords[i] = []float64{p[0], p[1]}
	}
	return string(polyline.EncodeCoords(coords))
}
