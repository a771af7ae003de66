package planner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestPlanSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/route", r.URL.Path)
		assert.Equal(t, "s1", r.URL.Query().Get("from"))
		assert.Equal(t, "s2", r.URL.Query().Get("to"))
		assert.Equal(t, "08:00:00", r.URL.Query().Get("time"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"origin": "s1", "destination": "s2",
			"start_time": "08:00:00", "arrival_time": "08:45:00",
			"stop_count": 2, "total_travel_minutes": 45,
			"detailed_route": [
				{"stop_id": "s1", "stop_name": "Airport", "latitude": 40.1, "longitude": -3.1,
				 "arrival_time": "08:00:00", "departure_time": "08:00:00", "is_transfer": false},
				{"stop_id": "s2", "stop_name": "Central", "latitude": 40.2, "longitude": -3.2,
				 "arrival_time": "08:45:00", "departure_time": "08:45:00", "is_transfer": false}
			]
		}`))
	})

	pr, err := c.Plan(context.Background(), "s1", "s2", "08:00:00")
	require.NoError(t, err)
	require.Len(t, pr.DetailedRoute, 2)
	assert.Equal(t, "s1", pr.Origin)
	assert.Equal(t, "Central", pr.DetailedRoute[1].StopName)
}

func TestPlanNoRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no connection found", "success": false}`))
	})

	_, err := c.Plan(context.Background(), "s1", "s2", "08:00:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRoute)
	assert.Contains(t, err.Error(), "no connection found")
}

func TestPlanBadRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "missing from", "success": false}`))
	})

	_, err := c.Plan(context.Background(), "", "s2", "08:00:00")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestPlanRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success": true, "detailed_route": []}`))
	})

	pr, err := c.Plan(context.Background(), "s1", "s2", "08:00:00")
	require.NoError(t, err)
	assert.Empty(t, pr.DetailedRoute)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPlanGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Plan(context.Background(), "s1", "s2", "08:00:00")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPlanMalformedBodyDegradesToEmptyRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": tru`))
	})

	pr, err := c.Plan(context.Background(), "s1", "s2", "08:00:00")
	require.NoError(t, err)
	assert.Empty(t, pr.DetailedRoute)
}
