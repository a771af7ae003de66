package journey

// BuildSegments turns the planner's flat stop sequence into drawable
// polyline segments. A transfer stop closes the leg it arrives on and opens
// the next one, so it appears as the last point of one segment and the first
// point of its successor. Runs that never reach two members are dropped
// silently; no polyline can be drawn from a single point.
func BuildSegments(route []RouteStop) []Segment {
	if len(route) < 2 {
		return nil
	}
	var segs []Segment
	run := []RouteStop{route[0]}
	carried := false
	for _, rs := range route[1:] {
		run = append(run, rs)
		if !rs.IsTransfer {
			continue
		}
		// The transfer was just appended, so the run has at least two
		// members here.
		segs = append(segs, newSegment(len(segs), run, carried))
		run = []RouteStop{rs}
		carried = true
	}
	if len(run) >= 2 {
		segs = append(segs, newSegment(len(segs), run, carried))
	}
	return segs
}

// newSegment derives one segment from a run of at least two stops. carried
// says whether the run's first stop is a transfer inherited from the
// previous leg; that stop's recorded times belong to the leg it arrived on,
// so the duration is measured from the second stop instead.
func newSegment(index int, run []RouteStop, carried bool) Segment {
	positions := make([][2]float64, len(run))
	for i, rs := range run {
		positions[i] = [2]float64{rs.Lat, rs.Lon}
	}
	start := run[0]
	if carried {
		start = run[1]
	}
	d, err := Duration(start.DepartureTime, run[len(run)-1].ArrivalTime)
	if err != nil || d < 1 {
		d = 1
	}
	return Segment{
		Index:           index,
		RouteID:         start.RouteID,
		RouteName:       start.RouteName,
		TripID:          start.TripID,
		Positions:       positions,
		Color:           SegmentColor(index),
		DurationSeconds: d,
	}
}
