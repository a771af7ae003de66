package journey

import "time"

// Stop is one row of reference data. Loaded once per process, never mutated.
type Stop struct {
	ID   string  `json:"stop_id"`
	Name string  `json:"stop_name"`
	Lat  float64 `json:"stop_lat"`
	Lon  float64 `json:"stop_lon"`
}

// Route is one row of reference data.
type Route struct {
	ID        string `json:"route_id"`
	ShortName string `json:"route_short_name"`
	LongName  string `json:"route_long_name"`
	Color     string `json:"route_color,omitempty"`
}

// RouteStop is one visit of a stop within a planned journey. Times are
// wall-clock strings (HH:MM:SS); hours may exceed 23 for trips that run past
// the end of the service day. IsTransfer marks the boundary between two legs:
// the stop is the last member of the leg that ends there and the first member
// of the leg that starts there.
type RouteStop struct {
	StopID        string  `json:"stop_id"`
	StopName      string  `json:"stop_name"`
	Lat           float64 `json:"latitude"`
	Lon           float64 `json:"longitude"`
	ArrivalTime   string  `json:"arrival_time"`
	DepartureTime string  `json:"departure_time"`
	IsTransfer    bool    `json:"is_transfer"`
	RouteID       string  `json:"route_id"`
	RouteName     string  `json:"route_name"`
	RouteDesc     string  `json:"route_description,omitempty"`
	TripID        string  `json:"trip_id"`
	TripHeadsign  string  `json:"trip_headsign,omitempty"`
	TripShortName string  `json:"trip_short_name,omitempty"`
	Date          string  `json:"date,omitempty"`
	TransferNote  string  `json:"transfer_note,omitempty"`
}

// PlanningResult is the routing collaborator's full answer: the flat stop
// sequence plus summary fields.
type PlanningResult struct {
	Origin          string      `json:"origin"`
	OriginName      string      `json:"origin_name"`
	Destination     string      `json:"destination"`
	DestinationName string      `json:"destination_name"`
	StartTime       string      `json:"start_time"`
	ArrivalTime     string      `json:"arrival_time"`
	TotalTravelMin  float64     `json:"total_travel_minutes"`
	StopCount       int         `json:"stop_count"`
	TransferCount   int         `json:"transfer_count"`
	Transfers       []string    `json:"transfers"`
	DetailedRoute   []RouteStop `json:"detailed_route"`
}

// Segment is a contiguous, drawable leg of a journey. Positions always has
// at least two points; consecutive segments share exactly the boundary
// transfer stop. RouteID/RouteName/TripID identify the leg's vehicle for
// labelling and position publishing.
type Segment struct {
	Index           int          `json:"index"`
	RouteID         string       `json:"route_id,omitempty"`
	RouteName       string       `json:"route_name,omitempty"`
	TripID          string       `json:"trip_id,omitempty"`
	Positions       [][2]float64 `json:"positions"`
	Color           string       `json:"color"`
	DurationSeconds int          `json:"duration_seconds"`
}

// Position is an interpolated marker location during playback.
type Position struct {
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Bearing      float64   `json:"bearing"`
	SegmentIndex int       `json:"segment_index"`
	Progress     float64   `json:"progress"`
	SpeedMps     float64   `json:"speed_mps"`
	RouteID      string    `json:"route_id,omitempty"`
	TripID       string    `json:"trip_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
