package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *PlanningResult {
	return &PlanningResult{
		Origin:      "a",
		Destination: "c",
		DetailedRoute: []RouteStop{
			routeStop("a", 40.0, -3.0, "09:58:00", "10:00:00", false),
			routeStop("b", 40.1, -3.1, "10:20:00", "10:25:00", true),
			routeStop("c", 40.2, -3.2, "10:45:00", "10:46:00", false),
		},
	}
}

func TestClassifyWithoutJourney(t *testing.T) {
	got := Classify(Stop{ID: "a", Name: "Stop a"}, nil, nil)
	assert.Equal(t, RolePlain, got.Role)
	assert.Nil(t, got.Matched)

	got = Classify(Stop{ID: "a", Name: "Stop a"}, &PlanningResult{}, nil)
	assert.Equal(t, RolePlain, got.Role)
}

func TestClassifyRoles(t *testing.T) {
	plan := testPlan()
	selected := &plan.DetailedRoute[1]

	tests := []struct {
		name     string
		stop     Stop
		expected Role
	}{
		{name: "not in journey", stop: Stop{ID: "z", Name: "Stop z"}, expected: RolePlain},
		{name: "in journey", stop: Stop{ID: "a", Name: "Stop a"}, expected: RoleInJourney},
		{name: "selected", stop: Stop{ID: "b", Name: "Stop b"}, expected: RoleInJourneySelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.stop, plan, selected)
			assert.Equal(t, tt.expected, got.Role)
			if tt.expected == RolePlain {
				assert.Nil(t, got.Matched)
			} else {
				require.NotNil(t, got.Matched)
				assert.Equal(t, tt.stop.ID, got.Matched.StopID)
			}
		})
	}
}

func TestClassifyNameFallback(t *testing.T) {
	plan := testPlan()

	// The reference stop's id drifted, but its name still matches.
	got := Classify(Stop{ID: "b-legacy", Name: "Stop b"}, plan, nil)
	assert.Equal(t, RoleInJourney, got.Role)
	require.NotNil(t, got.Matched)
	assert.Equal(t, "b", got.Matched.StopID)
}

func TestClassifyIdMatchBeatsNameMatch(t *testing.T) {
	plan := testPlan()

	// The stop's name collides with the first route stop, but its id matches
	// the last one; the id stage scans the whole route first.
	got := Classify(Stop{ID: "c", Name: "Stop a"}, plan, nil)
	require.NotNil(t, got.Matched)
	assert.Equal(t, "c", got.Matched.StopID)
}

func TestClassifySelectionComparesById(t *testing.T) {
	plan := testPlan()
	selected := &RouteStop{StopID: "c"}

	got := Classify(Stop{ID: "c", Name: "renamed"}, plan, selected)
	assert.Equal(t, RoleInJourneySelected, got.Role)

	got = Classify(Stop{ID: "a", Name: "Stop a"}, plan, selected)
	assert.Equal(t, RoleInJourney, got.Role)
}
