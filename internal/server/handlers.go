package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/planner"
	"github.com/matzehuels/railroute/pkg/stationgraph"
	"github.com/matzehuels/railroute/pkg/timetable"
)

type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Digest     string `json:"digest"`
	Stations   int    `json:"stations"`
	Trips      int    `json:"trips"`
	Departures int    `json:"departures"`
}

type stationResponse struct {
	Station planner.StationRef `json:"station"`
	Trips   []planner.Ride     `json:"trips"`
}

type routeResponse struct {
	Mode    string             `json:"mode"`
	Summary planner.Summary    `json:"summary"`
	Route   stationgraph.Route `json:"route"`
}

type pathResponse struct {
	From   int  `json:"from"`
	To     int  `json:"to"`
	Direct bool `json:"direct"`
	Exists bool `json:"exists"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Digest:     s.plan.Digest,
		Stations:   len(s.plan.Timetable.Stations),
		Trips:      len(s.plan.Timetable.Trips),
		Departures: s.plan.Graph.DepartureCount(),
	})
}

func (s *Server) listStations(w http.ResponseWriter, r *http.Request) {
	out := make([]planner.StationRef, 0, len(s.plan.Timetable.Stations))
	for _, st := range s.plan.Timetable.Stations {
		out = append(out, planner.StationRef{ID: st.ID, Name: st.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupStation(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	id, err := s.plan.StationID(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	canonical, _ := s.plan.StationName(id)
	writeJSON(w, http.StatusOK, planner.StationRef{ID: id, Name: canonical})
}

func (s *Server) stationDepartures(w http.ResponseWriter, r *http.Request) {
	sched, ok := s.schedule(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stationResponse{Station: sched.Station, Trips: sched.Departures})
}

func (s *Server) stationArrivals(w http.ResponseWriter, r *http.Request) {
	sched, ok := s.schedule(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stationResponse{Station: sched.Station, Trips: sched.Arrivals})
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) (planner.Schedule, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "station id must be an integer"))
		return planner.Schedule{}, false
	}
	sched, err := s.plan.Schedule(id)
	if err != nil {
		s.writeError(w, r, err)
		return planner.Schedule{}, false
	}
	return sched, true
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	from, to, err := stationPair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	var (
		route stationgraph.Route
		mode  = stationgraph.WithLayovers
	)
	if at := q.Get("at"); at != "" {
		clock, perr := timetable.ParseClock(at)
		if perr != nil {
			s.writeError(w, r, perr)
			return
		}
		route, err = s.plan.RouteFromTime(r.Context(), clock, from, to)
	} else {
		layovers, perr := boolParam(q.Get("layovers"), true)
		if perr != nil {
			s.writeError(w, r, perr)
			return
		}
		mode = stationgraph.ModeFor(layovers)
		route, err = s.plan.ShortestRoute(r.Context(), from, to, layovers)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.plan.Summarize(route)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, routeResponse{Mode: mode.String(), Summary: summary, Route: route})
}

func (s *Server) path(w http.ResponseWriter, r *http.Request) {
	from, to, err := stationPair(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	direct, err := boolParam(r.URL.Query().Get("direct"), false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var exists bool
	if direct {
		exists, err = s.plan.DirectPathExists(r.Context(), from, to)
	} else {
		exists, err = s.plan.PathExists(r.Context(), from, to)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pathResponse{From: from, To: to, Direct: direct, Exists: exists})
}

func stationPair(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	from, err := strconv.Atoi(q.Get("from"))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "from must be a station id")
	}
	to, err := strconv.Atoi(q.Get("to"))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "to must be a station id")
	}
	return from, to, nil
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidClock, errors.ErrCodeInvalidStation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeStationNotFound, errors.ErrCodeNoRoute:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
