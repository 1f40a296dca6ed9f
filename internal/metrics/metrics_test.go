package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/railroute/pkg/observability"
)

func TestCollectorHooks(t *testing.T) {
	ctx := context.Background()
	c := NewCollector()

	c.OnLoad(ctx, "file", 3, 2, time.Millisecond, nil)
	c.OnLoad(ctx, "postgres", 0, 0, time.Millisecond, errors.New("down"))
	c.OnPrecompute(ctx, 5, time.Millisecond, nil)
	c.OnQuery(ctx, "shortest_route", true, time.Microsecond)
	c.OnQuery(ctx, "shortest_route", false, time.Microsecond)
	c.OnQuery(ctx, "shortest_route", true, time.Microsecond)
	c.OnCacheMiss(ctx, "tables")
	c.OnCacheSet(ctx, "tables", 2048)
	c.OnResponse(ctx, "GET", "/routes", 200, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"stations", testutil.ToFloat64(c.Stations), 3},
		{"trips", testutil.ToFloat64(c.Trips), 2},
		{"departures", testutil.ToFloat64(c.Departures), 5},
		{"file loads", testutil.ToFloat64(c.Loads.WithLabelValues("file", "ok")), 1},
		{"failed loads", testutil.ToFloat64(c.Loads.WithLabelValues("postgres", "error")), 1},
		{"found queries", testutil.ToFloat64(c.Queries.WithLabelValues("shortest_route", "true")), 2},
		{"empty queries", testutil.ToFloat64(c.Queries.WithLabelValues("shortest_route", "false")), 1},
		{"cache misses", testutil.ToFloat64(c.CacheEvents.WithLabelValues("tables", "miss")), 1},
		{"cache bytes", testutil.ToFloat64(c.CacheSetBytes), 2048},
		{"requests", testutil.ToFloat64(c.Requests.WithLabelValues("GET", "/routes", "200")), 1},
	}
	for _, tc := range checks {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	c := NewCollector()
	c.Register()

	observability.Planner().OnQuery(context.Background(), "path_exists", true, time.Microsecond)
	if got := testutil.ToFloat64(c.Queries.WithLabelValues("path_exists", "true")); got != 1 {
		t.Errorf("queries via registry = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.OnPrecompute(context.Background(), 7, time.Millisecond, nil)

	srv := httptest.NewServer(c.Server(":0").Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "railroute_departure_vertices 7") {
		t.Errorf("/metrics missing gauge:\n%s", body)
	}
}
