package planner

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/railroute/pkg/cache"
	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/observability"
	"github.com/matzehuels/railroute/pkg/stationgraph"
)

const (
	testStations = "1 Central\n2 Harbour\n3 Summit\n"
	testTrips    = "# origin dest dep arr\n1 2 800 900\n2 3 920 1000\n"
)

func writeTimetable(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		StationsPath: filepath.Join(dir, "stations.dat"),
		TripsPath:    filepath.Join(dir, "trains.dat"),
		Logger:       log.New(io.Discard),
	}
	if err := os.WriteFile(opts.StationsPath, []byte(testStations), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(opts.TripsPath, []byte(testTrips), 0644); err != nil {
		t.Fatal(err)
	}
	return opts
}

func testPlan(t *testing.T) *Plan {
	t.Helper()
	plan, err := NewRunner(nil, nil, log.New(io.Discard)).Execute(context.Background(), writeTimetable(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return plan
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"files", Options{StationsPath: "s.dat", TripsPath: "t.dat"}, false},
		{"dsn", Options{DSN: "postgres://localhost/rail"}, false},
		{"nothing", Options{}, true},
		{"missing trips", Options{StationsPath: "s.dat"}, true},
		{"bad path", Options{StationsPath: "s\x00.dat", TripsPath: "t.dat"}, true},
		{"negative ttl", Options{DSN: "x", TTL: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && tt.opts.TTL != DefaultTTL {
				t.Errorf("TTL = %v, want default", tt.opts.TTL)
			}
		})
	}

	if (&Options{DSN: "x"}).Source() != SourcePostgres {
		t.Error("DSN should select the postgres source")
	}
}

func TestExecuteUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.New(io.Discard))
	opts := writeTimetable(t)

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.TablesHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.TablesHit {
		t.Error("second run should hit the cache")
	}
	if first.Digest != second.Digest {
		t.Error("same timetable should have the same digest")
	}

	r1, _ := first.ShortestRoute(ctx, 1, 3, true)
	r2, _ := second.ShortestRoute(ctx, 1, 3, true)
	if r1.Weight() != r2.Weight() || len(r1.Legs) != len(r2.Legs) {
		t.Errorf("restored plan answers differently: %d vs %d", r1.Weight(), r2.Weight())
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.TablesHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteDiscardsCorruptTables(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	runner := NewRunner(c, nil, log.New(io.Discard))
	opts := writeTimetable(t)

	plan, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	key := runner.Keyer.TablesKey(plan.Digest, cache.TablesKeyOpts{Format: TablesFormat})
	if err := c.Set(ctx, key, []byte(`{"vertices":2}`), 0); err != nil {
		t.Fatal(err)
	}

	plan, err = runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute with stale tables: %v", err)
	}
	if plan.CacheInfo.TablesHit {
		t.Error("mismatched tables should be recomputed")
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, log.New(io.Discard))

	_, err := runner.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty options: code = %v", errors.GetCode(err))
	}

	opts := writeTimetable(t)
	opts.TripsPath = filepath.Join(t.TempDir(), "missing.dat")
	_, err = runner.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %v", errors.GetCode(err))
	}
}

func TestPlanQueries(t *testing.T) {
	ctx := context.Background()
	p := testPlan(t)

	r, err := p.ShortestRoute(ctx, 1, 3, true)
	if err != nil {
		t.Fatalf("ShortestRoute: %v", err)
	}
	if r.Weight() != 120 {
		t.Errorf("Weight = %d, want 120", r.Weight())
	}

	_, err = p.ShortestRoute(ctx, 3, 1, true)
	if !errors.Is(err, errors.ErrCodeNoRoute) || !stderrors.Is(err, stationgraph.ErrNoRoute) {
		t.Errorf("3 -> 1: err = %v, want NO_ROUTE wrapping ErrNoRoute", err)
	}

	_, err = p.ShortestRoute(ctx, 0, 3, true)
	if !errors.Is(err, errors.ErrCodeStationNotFound) {
		t.Errorf("station 0: code = %v", errors.GetCode(err))
	}

	r, err = p.RouteFromTime(ctx, 800, 1, 3)
	if err != nil || r.From.Time != 800 {
		t.Errorf("RouteFromTime(800) = %v, %v", r.From, err)
	}
	_, err = p.RouteFromTime(ctx, 861, 1, 3)
	if !errors.Is(err, errors.ErrCodeInvalidClock) {
		t.Errorf("RouteFromTime(861): code = %v", errors.GetCode(err))
	}

	if ok, err := p.PathExists(ctx, 1, 3); !ok || err != nil {
		t.Errorf("PathExists(1, 3) = %v, %v", ok, err)
	}
	if ok, err := p.DirectPathExists(ctx, 1, 3); ok || err != nil {
		t.Errorf("DirectPathExists(1, 3) = %v, %v", ok, err)
	}
	if _, err := p.PathExists(ctx, 1, 4); !errors.Is(err, errors.ErrCodeStationNotFound) {
		t.Errorf("PathExists(1, 4): code = %v", errors.GetCode(err))
	}
}

func TestPlanStationLookups(t *testing.T) {
	p := testPlan(t)

	if name, err := p.StationName(2); err != nil || name != "Harbour" {
		t.Errorf("StationName(2) = %q, %v", name, err)
	}
	if _, err := p.StationName(9); !errors.Is(err, errors.ErrCodeStationNotFound) {
		t.Errorf("StationName(9): code = %v", errors.GetCode(err))
	}
	if id, err := p.StationID("SUMMIT"); err != nil || id != 3 {
		t.Errorf("StationID(SUMMIT) = %d, %v", id, err)
	}
	if _, err := p.StationID("Nowhere"); !errors.Is(err, errors.ErrCodeStationNotFound) {
		t.Errorf("StationID(Nowhere): code = %v", errors.GetCode(err))
	}
	if _, err := p.StationID("  "); !errors.Is(err, errors.ErrCodeInvalidStation) {
		t.Errorf("StationID(blank): code = %v", errors.GetCode(err))
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	p := testPlan(t)

	r, _ := p.ShortestRoute(ctx, 1, 3, true)
	s, err := p.Summarize(r)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.From.Name != "Central" || s.To.Name != "Summit" {
		t.Errorf("Summary endpoints = %v -> %v", s.From, s.To)
	}
	if len(s.Rides) != 2 {
		t.Fatalf("Rides = %d, want 2", len(s.Rides))
	}
	first, second := s.Rides[0], s.Rides[1]
	if first.To.Name != "Harbour" || first.Departure != 800 || first.Arrival != 900 || first.Layover != 20 {
		t.Errorf("first ride = %+v", first)
	}
	if second.From.Name != "Harbour" || second.Minutes != 40 || second.Layover != 0 {
		t.Errorf("second ride = %+v", second)
	}
	if s.RideMinutes != 100 || s.LayoverMinutes != 20 || s.TotalMinutes != 120 {
		t.Errorf("totals = %d/%d/%d", s.RideMinutes, s.LayoverMinutes, s.TotalMinutes)
	}

	if _, err := p.Summarize(stationgraph.InvalidRoute()); !errors.Is(err, errors.ErrCodeNoRoute) {
		t.Errorf("invalid route: code = %v", errors.GetCode(err))
	}
}

func TestSchedule(t *testing.T) {
	p := testPlan(t)

	s, err := p.Schedule(2)
	if err != nil {
		t.Fatalf("Schedule(2): %v", err)
	}
	if len(s.Departures) != 1 || s.Departures[0].To.Name != "Summit" {
		t.Errorf("departures = %+v", s.Departures)
	}
	if len(s.Arrivals) != 1 || s.Arrivals[0].From.Name != "Central" {
		t.Errorf("arrivals = %+v", s.Arrivals)
	}

	if _, err := p.Schedule(4); !errors.Is(err, errors.ErrCodeStationNotFound) {
		t.Errorf("Schedule(4): code = %v", errors.GetCode(err))
	}
	if got := len(p.Schedules()); got != 3 {
		t.Errorf("Schedules = %d, want 3", got)
	}
}

type countingHooks struct {
	observability.NoopPlannerHooks
	mu          sync.Mutex
	loads       int
	precomputes int
	queries     map[string]int
}

func (h *countingHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
}

func (h *countingHooks) OnPrecompute(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.precomputes++
}

func (h *countingHooks) OnQuery(_ context.Context, kind string, _ bool, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.queries[kind]++
}

func TestHooksFire(t *testing.T) {
	hooks := &countingHooks{queries: map[string]int{}}
	observability.SetPlannerHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	p := testPlan(t)
	_, _ = p.ShortestRoute(ctx, 1, 3, false)
	_, _ = p.PathExists(ctx, 1, 3)

	if hooks.loads != 1 || hooks.precomputes != 1 {
		t.Errorf("loads=%d precomputes=%d, want 1/1", hooks.loads, hooks.precomputes)
	}
	if hooks.queries[QueryShortestRoute] != 1 || hooks.queries[QueryPathExists] != 1 {
		t.Errorf("queries = %v", hooks.queries)
	}
}
