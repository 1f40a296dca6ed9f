package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "tables:abc"); hit {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(ctx, "tables:abc", []byte(`{"vertices":5}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "tables:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != `{"vertices":5}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "tables:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "tables:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "tables:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Clear left %d shard directories", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()

	k1 := k.TablesKey("digest", TablesKeyOpts{Format: 1})
	if !strings.HasPrefix(k1, "tables:") {
		t.Errorf("TablesKey = %q, want tables: prefix", k1)
	}
	if k1 == k.TablesKey("digest", TablesKeyOpts{Format: 2}) {
		t.Error("format should change the key")
	}
	if k1 == k.TablesKey("other", TablesKeyOpts{Format: 1}) {
		t.Error("digest should change the key")
	}

	scoped := NewScopedKeyer(nil, "railroute:")
	if got := scoped.TablesKey("digest", TablesKeyOpts{Format: 1}); got != "railroute:"+k1 {
		t.Errorf("ScopedKeyer = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("down")

	tests := []struct {
		name      string
		fail      int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent error", 5, false, 1, true},
		{"recovers", 2, true, 3, false},
		{"gives up", 5, true, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.fail {
					if tt.retryable {
						return Retryable(errDown)
					}
					return errDown
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errDown) {
				t.Errorf("err = %v, want wrapped errDown", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Error("Retryable should wrap and mark the error")
	}
	if IsRetryable(ErrCorrupt) {
		t.Error("plain errors are not retryable")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

// TestRedisCache runs against a real server when RAILROUTE_TEST_REDIS is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("RAILROUTE_TEST_REDIS")
	if addr == "" {
		t.Skip("RAILROUTE_TEST_REDIS not set")
	}
	ctx := context.Background()
	prefix := "railroute-test:" + t.Name() + ":"

	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := prefix + "tables"
	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, key); !hit || err != nil || string(data) != "v" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}

	n, err := c.Clear(ctx)
	if err != nil || n != 1 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("cleared key should miss")
	}
}
