package journey

// Role says how a reference stop should be rendered relative to the current
// journey and selection.
type Role string

const (
	RolePlain             Role = "plain"
	RoleInJourney         Role = "in_journey"
	RoleInJourneySelected Role = "in_journey_selected"
)

// Classification pairs a role with the journey stop that produced it.
// Matched is nil for plain stops.
type Classification struct {
	Role    Role
	Matched *RouteStop
}

// Classify resolves the render role for one reference stop. Matching is two
// stage: an exact stop id match anywhere in the route wins, then an exact
// name match. The stages stay separate because some feeds drift ids between
// the reference data and the planner's answer.
func Classify(stop Stop, plan *PlanningResult, selected *RouteStop) Classification {
	if plan == nil || len(plan.DetailedRoute) == 0 {
		return Classification{Role: RolePlain}
	}
	matched := findRouteStop(plan.DetailedRoute, stop)
	if matched == nil {
		return Classification{Role: RolePlain}
	}
	if selected != nil && selected.StopID == matched.StopID {
		return Classification{Role: RoleInJourneySelected, Matched: matched}
	}
	return Classification{Role: RoleInJourney, Matched: matched}
}

func findRouteStop(route []RouteStop, stop Stop) *RouteStop {
	for i := range route {
		if route[i].StopID == stop.ID {
			return &route[i]
		}
	}
	for i := range route {
		if route[i].StopName == stop.Name {
			return &route[i]
		}
	}
	return nil
}
