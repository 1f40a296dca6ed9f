// Package observability lets the planner report events without depending on
// a metrics backend.
//
// Libraries call the registered hooks; main registers real implementations
// (see internal/metrics) at startup. Until then every hook is a no-op.
//
//	observability.SetPlannerHooks(collector)
//	observability.SetCacheHooks(collector)
//
//	observability.Planner().OnPrecompute(ctx, vertices, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Planner Hooks
// =============================================================================

// PlannerHooks receives events from timetable loading, precomputation and
// itinerary queries.
type PlannerHooks interface {
	// OnLoad records a timetable load from source ("file" or "postgres").
	OnLoad(ctx context.Context, source string, stations, trips int, duration time.Duration, err error)

	// OnPrecompute records one run of the all-pairs precomputation.
	OnPrecompute(ctx context.Context, vertices int, duration time.Duration, err error)

	// OnQuery records one itinerary query. kind names the operation, e.g.
	// "shortest_route" or "path_exists".
	OnQuery(ctx context.Context, kind string, found bool, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP query server.
type HTTPHooks interface {
	// OnResponse records a served request. route is the matched pattern,
	// not the raw path.
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {}
func (NoopPlannerHooks) OnPrecompute(context.Context, int, time.Duration, error)       {}
func (NoopPlannerHooks) OnQuery(context.Context, string, bool, time.Duration)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plannerHooks PlannerHooks = NoopPlannerHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetPlannerHooks registers planner hooks. nil is ignored.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
