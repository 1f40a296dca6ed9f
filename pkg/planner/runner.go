package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railroute/pkg/cache"
	"github.com/matzehuels/railroute/pkg/observability"
	"github.com/matzehuels/railroute/pkg/stationgraph"
	"github.com/matzehuels/railroute/pkg/timetable"
)

// Runner executes the load → build pipeline with caching.
//
// It keeps no per-timetable state, so one Runner can serve several
// timetables from several goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute loads the timetable and builds its graph.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Plan, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	plan := &Plan{}

	loadStart := time.Now()
	tt, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	plan.Timetable = tt
	plan.Stats.LoadTime = time.Since(loadStart)
	plan.Digest = cache.Hash(tt.Digest())

	logger.Info("loaded timetable",
		"source", opts.Source(),
		"stations", len(tt.Stations),
		"trips", len(tt.Trips),
		"duration", plan.Stats.LoadTime)

	buildStart := time.Now()
	g, hit, err := r.BuildWithCacheInfo(ctx, tt, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	plan.Graph = g
	plan.Stats.BuildTime = time.Since(buildStart)
	plan.Stats.Departures = g.DepartureCount()
	plan.Stats.Legs = g.LegCount()
	plan.CacheInfo.TablesHit = hit

	logger.Info("built itinerary graph",
		"departures", plan.Stats.Departures,
		"legs", plan.Stats.Legs,
		"cached", hit,
		"duration", plan.Stats.BuildTime)

	return plan, nil
}

// Load reads the timetable from the source named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*timetable.Timetable, error) {
	start := time.Now()
	tt, err := r.load(ctx, opts)

	stations, trips := 0, 0
	if tt != nil {
		stations, trips = len(tt.Stations), len(tt.Trips)
	}
	observability.Planner().OnLoad(ctx, opts.Source(), stations, trips, time.Since(start), err)
	return tt, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*timetable.Timetable, error) {
	if opts.Source() == SourceFile {
		return timetable.Load(opts.StationsPath, opts.TripsPath)
	}

	db, err := timetable.OpenPostgres(opts.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return timetable.LoadPostgres(ctx, db)
}

// BuildWithCacheInfo builds the graph for tt, restoring the next-hop tables
// from the cache when possible. The bool reports a cache hit.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, tt *timetable.Timetable, opts Options) (*stationgraph.Graph, bool, error) {
	logger := r.logger(opts)
	key := r.Keyer.TablesKey(cache.Hash(tt.Digest()), cache.TablesKeyOpts{Format: TablesFormat})

	if !opts.Refresh {
		if g, ok := r.restore(ctx, tt, key, logger); ok {
			observability.Cache().OnCacheHit(ctx, "tables")
			return g, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "tables")
	}

	start := time.Now()
	g, err := stationgraph.New(tt.Trips, tt.Stations)
	observability.Planner().OnPrecompute(ctx, len(tt.Trips)+len(tt.Stations), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(g.Tables())
	if err != nil {
		return nil, false, fmt.Errorf("encode tables: %w", err)
	}
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "tables", len(data))
	}
	return g, false, nil
}

// restore looks key up and rebuilds the graph around the cached tables.
// Cache errors and stale entries count as misses.
func (r *Runner) restore(ctx context.Context, tt *timetable.Timetable, key string, logger *log.Logger) (*stationgraph.Graph, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var tables stationgraph.Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		logger.Debug("discarding cached tables", "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	g, err := stationgraph.Restore(tt.Trips, tt.Stations, tables)
	if err != nil {
		logger.Debug("discarding cached tables", "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return g, true
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
