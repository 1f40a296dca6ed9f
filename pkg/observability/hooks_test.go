package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPlannerHooks{}
	p.OnLoad(ctx, "file", 3, 2, time.Millisecond, nil)
	p.OnPrecompute(ctx, 5, time.Millisecond, nil)
	p.OnQuery(ctx, "shortest_route", true, time.Microsecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "tables")
	c.OnCacheMiss(ctx, "tables")
	c.OnCacheSet(ctx, "tables", 1024)

	NoopHTTPHooks{}.OnResponse(ctx, "GET", "/routes", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Planner() should default to NoopPlannerHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	planner := &recordingHooks{}
	SetPlannerHooks(planner)
	if Planner() != planner {
		t.Error("SetPlannerHooks should register the hooks")
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should register the hooks")
	}

	http := &testHTTPHooks{}
	SetHTTPHooks(http)
	if HTTP() != http {
		t.Error("SetHTTPHooks should register the hooks")
	}

	Planner().OnQuery(context.Background(), "path_exists", false, time.Millisecond)
	if planner.queries != 1 {
		t.Errorf("registered hook saw %d queries, want 1", planner.queries)
	}

	Reset()
	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Reset() should restore NoopPlannerHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &recordingHooks{}
	SetPlannerHooks(custom)
	SetPlannerHooks(nil)

	if Planner() != custom {
		t.Error("SetPlannerHooks(nil) should be ignored")
	}
}

type recordingHooks struct {
	NoopPlannerHooks
	queries int
}

func (h *recordingHooks) OnQuery(context.Context, string, bool, time.Duration) { h.queries++ }

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
