// Package api exposes the journey-visualization session over HTTP: planning,
// station classification, selection, and playback control.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"railviz/internal/journey"
	"railviz/internal/metrics"
	"railviz/internal/planner"
	"railviz/internal/sequencer"
	"railviz/internal/session"
)

type API struct {
	session *session.Session
	metrics *metrics.Collector

	// knownPaths keeps the request-duration metric's path label bounded to
	// the registered route set.
	knownPaths map[string]bool
}

func New(s *session.Session, m *metrics.Collector) *API {
	return &API{session: s, metrics: m, knownPaths: map[string]bool{}}
}

// Router wires the REST surface. All answers are JSON with a success flag;
// errors carry `{"error": ..., "success": false}`.
func (api *API) Router() http.Handler {
	router := httprouter.New()
	register := func(method, path string, h http.HandlerFunc) {
		api.knownPaths[path] = true
		router.HandlerFunc(method, path, h)
	}
	register(http.MethodGet, "/v1/healthz", api.healthzHandler)
	register(http.MethodGet, "/v1/stations", api.stationsHandler)
	register(http.MethodGet, "/v1/routes", api.routesHandler)
	register(http.MethodPost, "/v1/journeys", api.planJourneyHandler)
	register(http.MethodGet, "/v1/journeys/current", api.currentJourneyHandler)
	register(http.MethodPut, "/v1/selection", api.selectHandler)
	register(http.MethodDelete, "/v1/selection", api.clearSelectionHandler)
	register(http.MethodPost, "/v1/playback/start", api.startPlaybackHandler)
	register(http.MethodPost, "/v1/playback/stop", api.stopPlaybackHandler)
	register(http.MethodGet, "/v1/playback", api.playbackHandler)
	return api.withRequestLogging(router)
}

// metricPath collapses unregistered request paths into a single label value.
func (api *API) metricPath(path string) string {
	if api.knownPaths[path] {
		return path
	}
	return "unmatched"
}

func (api *API) healthzHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, http.StatusOK, map[string]any{"status": "ok", "success": true})
}

type stationsResponse struct {
	Stations []session.StationView `json:"stations"`
	Success  bool                  `json:"success"`
}

func (api *API) stationsHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, http.StatusOK, stationsResponse{
		Stations: api.session.Stations(),
		Success:  true,
	})
}

type routesResponse struct {
	Routes  []journey.Route `json:"routes"`
	Success bool            `json:"success"`
}

func (api *API) routesHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, http.StatusOK, routesResponse{
		Routes:  api.session.Routes(),
		Success: true,
	})
}

type planRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Time string `json:"time"`
}

type journeyResponse struct {
	*session.JourneyView
	Success bool `json:"success"`
}

func (api *API) planJourneyHandler(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.From == "" || req.To == "" {
		api.sendError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if _, err := journey.ToSeconds(req.Time); err != nil {
		api.sendError(w, http.StatusBadRequest, "time must be HH:MM:SS")
		return
	}

	view, err := api.session.Plan(r.Context(), req.From, req.To, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNoRoute):
			api.sendError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, planner.ErrBadRequest):
			api.sendError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Msg("journey planning failed")
			api.sendError(w, http.StatusBadGateway, "planner unavailable")
		}
		return
	}
	api.sendJSON(w, http.StatusOK, journeyResponse{JourneyView: view, Success: true})
}

func (api *API) currentJourneyHandler(w http.ResponseWriter, r *http.Request) {
	view, ok := api.session.Current()
	if !ok {
		api.sendError(w, http.StatusNotFound, "no journey planned")
		return
	}
	api.sendJSON(w, http.StatusOK, journeyResponse{JourneyView: view, Success: true})
}

type selectRequest struct {
	StopID string `json:"stop_id"`
}

type selectionResponse struct {
	Stop    *journey.RouteStop `json:"stop,omitempty"`
	Success bool               `json:"success"`
}

func (api *API) selectHandler(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StopID == "" {
		api.sendError(w, http.StatusBadRequest, "stop_id is required")
		return
	}
	rs, err := api.session.Select(req.StopID)
	if err != nil {
		api.sendError(w, http.StatusNotFound, err.Error())
		return
	}
	api.sendJSON(w, http.StatusOK, selectionResponse{Stop: rs, Success: true})
}

func (api *API) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	api.session.ClearSelection()
	api.sendJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (api *API) startPlaybackHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.session.StartPlayback(); err != nil {
		api.sendError(w, http.StatusConflict, err.Error())
		return
	}
	api.sendJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (api *API) stopPlaybackHandler(w http.ResponseWriter, r *http.Request) {
	api.session.StopPlayback()
	api.sendJSON(w, http.StatusOK, map[string]any{"success": true})
}

type playbackResponse struct {
	State    sequencer.State   `json:"state"`
	Position *journey.Position `json:"position,omitempty"`
	Success  bool              `json:"success"`
}

func (api *API) playbackHandler(w http.ResponseWriter, r *http.Request) {
	state, pos := api.session.Playback()
	api.sendJSON(w, http.StatusOK, playbackResponse{State: state, Position: pos, Success: true})
}

func (api *API) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func (api *API) sendError(w http.ResponseWriter, status int, msg string) {
	api.sendJSON(w, status, map[string]any{"error": msg, "success": false})
}
