// Package planner loads a timetable, prepares its itinerary graph and
// answers queries against it.
//
// It sits between the entry points (CLI, HTTP server, interactive menu) and
// pkg/stationgraph, and is where caching, logging and instrumentation
// happen, so every entry point behaves the same.
//
// # Usage
//
//	runner := planner.NewRunner(cache, nil, logger)
//	plan, err := runner.Execute(ctx, planner.Options{
//	    StationsPath: "stations.dat",
//	    TripsPath:    "trains.dat",
//	})
//	if err != nil {
//	    return err
//	}
//	route, err := plan.ShortestRoute(ctx, 1, 3, true)
//
// The first Execute for a timetable runs the O(V³) precomputation and stores
// the next-hop tables under a digest of the timetable. Later runs with the
// same rows restore them from the cache.
package planner

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railroute/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTTL is how long precomputed tables stay in the cache. Tables
	// are keyed by timetable content, so a long TTL never serves stale data.
	DefaultTTL = 7 * 24 * time.Hour

	// TablesFormat versions the cached table encoding.
	TablesFormat = 1
)

// Sources a timetable can be loaded from.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Options configures one Execute call.
type Options struct {
	// StationsPath and TripsPath name the station and trip tables on disk.
	// Ignored when DSN is set.
	StationsPath string
	TripsPath    string

	// DSN loads the timetable from Postgres instead of files.
	DSN string

	// Refresh skips the cache lookup and recomputes the tables.
	Refresh bool

	// TTL for cached tables. Zero means DefaultTTL.
	TTL time.Duration

	// Logger overrides the runner's logger for this call.
	Logger *log.Logger
}

// Source returns where the timetable is read from.
func (o *Options) Source() string {
	if o.DSN != "" {
		return SourcePostgres
	}
	return SourceFile
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ttl must not be negative")
	}
	if o.DSN != "" {
		return nil
	}
	if o.StationsPath == "" || o.TripsPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "need a stations file and a trips file, or a database DSN")
	}
	if err := errors.ValidatePath(o.StationsPath); err != nil {
		return err
	}
	return errors.ValidatePath(o.TripsPath)
}
