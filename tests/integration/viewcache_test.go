package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Sternrassler/view-cache/internal/testutil"
	"github.com/Sternrassler/view-cache/pkg/backend"
	"github.com/Sternrassler/view-cache/pkg/viewcache"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newCacheView(t *testing.T, redisClient *redis.Client, timeout time.Duration, keys ...viewcache.Key) *viewcache.CacheView {
	t.Helper()

	backends := backend.NewRegistry()
	backends.Register("default", backend.NewRedis(redisClient))

	cv, err := viewcache.New(viewcache.Config{
		Settings: viewcache.DefaultSettings(),
		Backends: backends,
		Timeout:  timeout,
		Keys:     keys,
	})
	if err != nil {
		t.Fatalf("Failed to create cache view: %v", err)
	}
	return cv
}

// TestFullCachingFlow tests the complete flow: miss → handler → store → hit.
func TestFullCachingFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	cv := newCacheView(t, redisClient, time.Minute, viewcache.NewQueryParamsKey("search"))

	calls := 0
	handler := cv.Wrap("list", func(_ context.Context, _ viewcache.View, _ *viewcache.Request) (*viewcache.Response, error) {
		calls++
		resp := viewcache.NewResponse(http.StatusOK, []byte(`[{"id": 1}]`))
		resp.Header.Set("Content-Type", "application/json")
		return resp, nil
	})

	view := &testutil.BareView{ViewName: "ArticleView"}
	ctx := context.Background()

	first, err := handler(ctx, view, testutil.GetRequest("/articles/?search=go"))
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if first.Header.Get("X-Cache") != viewcache.XCacheMiss {
		t.Errorf("First call X-Cache = %q, want MISS", first.Header.Get("X-Cache"))
	}

	second, err := handler(ctx, view, testutil.GetRequest("/articles/?search=go"))
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Handler calls = %d, want 1 (second call must hit)", calls)
	}
	if second.Header.Get("X-Cache") != viewcache.XCacheHit {
		t.Errorf("Second call X-Cache = %q, want HIT", second.Header.Get("X-Cache"))
	}
	if string(second.Body) != `[{"id": 1}]` {
		t.Errorf("Cached body = %q, want original", second.Body)
	}
	if second.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Cached Content-Type = %q, want preserved", second.Header.Get("Content-Type"))
	}

	// A different tracked parameter misses again.
	if _, err := handler(ctx, view, testutil.GetRequest("/articles/?search=rust")); err != nil {
		t.Fatalf("Third call failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("Handler calls = %d, want 2 (different search is a different key)", calls)
	}
}

// TestEntryTTL verifies the stored Redis entry carries the effective timeout.
func TestEntryTTL(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	cv := newCacheView(t, redisClient, 5*time.Minute)

	handler := cv.Wrap("list", func(_ context.Context, _ viewcache.View, _ *viewcache.Request) (*viewcache.Response, error) {
		return viewcache.NewResponse(http.StatusOK, []byte("ok")), nil
	})

	ctx := context.Background()
	if _, err := handler(ctx, &testutil.BareView{ViewName: "ArticleView"}, testutil.GetRequest("/articles/")); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	keys, err := redisClient.Keys(ctx, "viewcache:*").Result()
	if err != nil {
		t.Fatalf("KEYS failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("Stored keys = %d, want 1", len(keys))
	}

	ttl, err := redisClient.TTL(ctx, keys[0]).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL = %v, want about 5m", ttl)
	}
}

// TestNeverExpire verifies TimeoutNever stores the entry without expiry.
func TestNeverExpire(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	cv := newCacheView(t, redisClient, viewcache.TimeoutNever)

	handler := cv.Wrap("list", func(_ context.Context, _ viewcache.View, _ *viewcache.Request) (*viewcache.Response, error) {
		return viewcache.NewResponse(http.StatusOK, []byte("ok")), nil
	})

	ctx := context.Background()
	if _, err := handler(ctx, &testutil.BareView{ViewName: "ArticleView"}, testutil.GetRequest("/articles/")); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	keys, err := redisClient.Keys(ctx, "viewcache:*").Result()
	if err != nil {
		t.Fatalf("KEYS failed: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("Stored keys = %d, want 1", len(keys))
	}

	ttl, err := redisClient.TTL(ctx, keys[0]).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	// go-redis reports -1 (no expiry) as -1ns.
	if ttl != -1 {
		t.Errorf("TTL = %v, want -1 (no expiry)", ttl)
	}
}

// TestDisabledSkipsRedis verifies the disabled sentinel keeps Redis untouched.
func TestDisabledSkipsRedis(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	cv := newCacheView(t, redisClient, viewcache.TimeoutDisabled)

	calls := 0
	handler := cv.Wrap("list", func(_ context.Context, _ viewcache.View, _ *viewcache.Request) (*viewcache.Response, error) {
		calls++
		return viewcache.NewResponse(http.StatusOK, []byte("ok")), nil
	})

	ctx := context.Background()
	view := &testutil.BareView{ViewName: "ArticleView"}
	for i := 0; i < 3; i++ {
		if _, err := handler(ctx, view, testutil.GetRequest("/articles/")); err != nil {
			t.Fatalf("Call %d failed: %v", i, err)
		}
	}

	if calls != 3 {
		t.Errorf("Handler calls = %d, want 3", calls)
	}

	keys, err := redisClient.Keys(ctx, "viewcache:*").Result()
	if err != nil {
		t.Fatalf("KEYS failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Stored keys = %d, want 0 (caching disabled)", len(keys))
	}
}

// TestPerUserEntries verifies user-keyed caching against a real backend.
func TestPerUserEntries(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	cv := newCacheView(t, redisClient, time.Minute, viewcache.UserKey{})

	handler := cv.Wrap("retrieve", func(_ context.Context, _ viewcache.View, r *viewcache.Request) (*viewcache.Response, error) {
		name := viewcache.AnonymousUser
		if r.User != nil {
			name = r.User.ID
		}
		return viewcache.NewResponse(http.StatusOK, []byte(name)), nil
	})

	ctx := context.Background()
	view := &testutil.BareView{ViewName: "ProfileView"}

	alice := testutil.GetRequest("/profile/")
	alice.User = &viewcache.User{ID: "alice"}
	bob := testutil.GetRequest("/profile/")
	bob.User = &viewcache.User{ID: "bob"}

	aliceResp, err := handler(ctx, view, alice)
	if err != nil {
		t.Fatalf("Alice call failed: %v", err)
	}
	bobResp, err := handler(ctx, view, bob)
	if err != nil {
		t.Fatalf("Bob call failed: %v", err)
	}

	if string(aliceResp.Body) != "alice" || string(bobResp.Body) != "bob" {
		t.Errorf("Responses crossed users: alice=%q bob=%q", aliceResp.Body, bobResp.Body)
	}

	// Alice again: must be her entry, not Bob's.
	aliceAgain := testutil.GetRequest("/profile/")
	aliceAgain.User = &viewcache.User{ID: "alice"}
	resp, err := handler(ctx, view, aliceAgain)
	if err != nil {
		t.Fatalf("Alice second call failed: %v", err)
	}
	if string(resp.Body) != "alice" {
		t.Errorf("Cached body = %q, want %q", resp.Body, "alice")
	}
	if resp.Header.Get("X-Cache") != viewcache.XCacheHit {
		t.Errorf("X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}
}
