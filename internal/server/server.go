// Package server exposes itinerary queries over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/railroute/pkg/planner"
)

// Server answers queries against one immutable plan.
type Server struct {
	plan   *planner.Plan
	logger *log.Logger
}

// New creates a server for plan. A nil logger uses log.Default.
func New(plan *planner.Plan, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{plan: plan, logger: logger}
}

// Handler returns the router.
//
//	GET /healthz
//	GET /stations
//	GET /stations/lookup?name=
//	GET /stations/{id}
//	GET /stations/{id}/arrivals
//	GET /routes?from=&to=[&layovers=false][&at=HHMM]
//	GET /paths?from=&to=[&direct=true]
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/stations", func(r chi.Router) {
		r.Get("/", s.listStations)
		r.Get("/lookup", s.lookupStation)
		r.Get("/{id}", s.stationDepartures)
		r.Get("/{id}/arrivals", s.stationArrivals)
	})
	r.Get("/routes", s.route)
	r.Get("/paths", s.path)
	return r
}

// HTTPServer returns an unstarted server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
