// ABOUTME: Tests for the caching client's fetch lifecycle.
// ABOUTME: Covers ETag revalidation, retries, backoff, timeouts, stale fallback and the cache bound.

package srclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// step is one scripted reply from fakeDoer.
type step struct {
	status int
	body   string
	header map[string]string
	err    error
}

// fakeDoer replays scripted steps; the last step repeats once reached.
type fakeDoer struct {
	mu    sync.Mutex
	steps []step
	calls []*http.Request
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)
	if len(f.steps) == 0 {
		return nil, errors.New("fakeDoer: no scripted response")
	}
	s := f.steps[0]
	if len(f.steps) > 1 {
		f.steps = f.steps[1:]
	}
	if s.err != nil {
		return nil, s.err
	}

	h := http.Header{}
	for k, v := range s.header {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func (f *fakeDoer) script(steps ...step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = steps
}

func (f *fakeDoer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeDoer) call(i int) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// harness bundles a client with its fake network, clock and recorded backoffs.
type harness struct {
	client *Client
	doer   *fakeDoer
	clock  *testClock

	mu     sync.Mutex
	delays []time.Duration
}

func newHarness(t *testing.T, cfg Config, opts ...Option) *harness {
	t.Helper()

	h := &harness{
		doer:  &fakeDoer{},
		clock: &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	client, err := New(cfg, append([]Option{WithDoer(h.doer)}, opts...)...)
	require.NoError(t, err)

	client.now = h.clock.Now
	client.sleep = func(ctx context.Context, d time.Duration) error {
		h.mu.Lock()
		h.delays = append(h.delays, d)
		h.mu.Unlock()
		return ctx.Err()
	}
	h.client = client
	return h
}

func (h *harness) recordedDelays() []time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]time.Duration(nil), h.delays...)
}

func TestFetch_SendsETagAndServesNotModified(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(
		step{status: 200, body: `{"value":1}`, header: map[string]string{"ETag": "abc", "Cache-Control": "max-age=60"}},
		step{status: 304, header: map[string]string{"Cache-Control": "max-age=60"}},
	)

	first, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	second, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, h.doer.callCount())
	assert.JSONEq(t, string(first), string(second))
	assert.Empty(t, h.doer.call(0).Header.Get("If-None-Match"))
	assert.Equal(t, "abc", h.doer.call(1).Header.Get("If-None-Match"))
}

func TestFetch_NotModifiedRefreshesExpiry(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(
		step{status: 200, body: `{"data":"D"}`, header: map[string]string{"ETag": `"v1"`, "Cache-Control": "max-age=10"}},
		step{status: 304, header: map[string]string{"Cache-Control": "public, max-age=60"}},
	)

	_, err := h.client.Fetch(context.Background(), "programs", nil)
	require.NoError(t, err)

	h.clock.Advance(5 * time.Second)
	revalidatedAt := h.clock.Now()

	data, err := h.client.Fetch(context.Background(), "programs", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"D"}`, string(data))

	keys := h.client.cache.keys()
	require.Len(t, keys, 1)
	entry, ok := h.client.cache.Get(keys[0])
	require.True(t, ok)
	assert.Equal(t, revalidatedAt.Add(60*time.Second), entry.ExpiresAt)
	assert.Equal(t, `"v1"`, entry.ETag)
}

func TestFetch_NoConditionalHeaderOnceExpired(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(
		step{status: 200, body: `{"n":1}`, header: map[string]string{"ETag": "abc", "Cache-Control": "max-age=1"}},
		step{status: 200, body: `{"n":2}`, header: map[string]string{"ETag": "def"}},
	)

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	h.clock.Advance(2 * time.Second)
	data, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	assert.Empty(t, h.doer.call(1).Header.Get("If-None-Match"))
	assert.JSONEq(t, `{"n":2}`, string(data))
}

func TestFetch_NoConditionalHeaderWithoutETag(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{"n":1}`})

	for i := 0; i < 2; i++ {
		_, err := h.client.Fetch(context.Background(), "channels", nil)
		require.NoError(t, err)
	}
	assert.Empty(t, h.doer.call(1).Header.Get("If-None-Match"))
}

func TestFetch_SuccessReplacesEntry(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(
		step{status: 200, body: `{"n":1}`, header: map[string]string{"ETag": "one"}},
		step{status: 200, body: `{"n":2}`, header: map[string]string{"ETag": "two"}},
		step{status: 200, body: `{"n":3}`},
	)

	ctx := context.Background()
	_, err := h.client.Fetch(ctx, "channels", nil)
	require.NoError(t, err)
	data, err := h.client.Fetch(ctx, "channels", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":2}`, string(data))

	key := h.client.cache.keys()[0]
	entry, _ := h.client.cache.Get(key)
	assert.Equal(t, "two", entry.ETag)

	_, err = h.client.Fetch(ctx, "channels", nil)
	require.NoError(t, err)
	entry, _ = h.client.cache.Get(key)
	assert.Empty(t, entry.ETag, "missing ETag replaces the old validator")
	assert.Equal(t, 1, h.client.CacheStats().Total)
}

func TestFetch_StaleFallbackAfterNetworkErrors(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{"cached":true}`, header: map[string]string{"Cache-Control": "max-age=1"}})

	_, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	h.doer.script(step{err: errors.New("connection reset by peer")})

	data, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cached":true}`, string(data))
	assert.Equal(t, 1+DefaultMaxRetries+1, h.doer.callCount())
}

func TestFetch_StaleFallbackAfterServerErrors(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{"cached":true}`})

	_, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)

	h.doer.script(step{status: 503, body: "unavailable"})

	data, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cached":true}`, string(data))
	assert.Equal(t, 1+DefaultMaxRetries+1, h.doer.callCount())
}

func TestFetch_StaleFallbackOnNonRetryableStatus(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{"cached":true}`})

	_, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)

	h.doer.script(step{status: 404, body: "gone"})

	data, err := h.client.Fetch(context.Background(), "news", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cached":true}`, string(data))
	assert.Equal(t, 2, h.doer.callCount(), "404 is not retried")
}

func TestFetch_NetworkErrorWithoutCache(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{err: errors.New("network down")})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, DefaultMaxRetries+1, h.doer.callCount())
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, h.recordedDelays())
}

func TestFetch_StatusFailureWithoutCache(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 404, body: `{"error":"not found"}`, header: map[string]string{"X-Request-Id": "r-1"}})

	_, err := h.client.Fetch(context.Background(), "programs/1", nil)
	require.Error(t, err)

	var failure *StatusFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 404, failure.Response.Status)
	assert.Equal(t, `{"error":"not found"}`, failure.Response.Data)
	assert.Equal(t, "r-1", failure.Response.Headers["x-request-id"])
	assert.Equal(t, "https://api.sr.se/api/v2/programs/1?format=json", failure.Config.URL)
	assert.Equal(t, 1, h.doer.callCount())
	assert.Empty(t, h.recordedDelays())
}

func TestFetch_RetryableStatusThenSuccess(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(
		step{status: 503},
		step{status: 503},
		step{status: 200, body: `{"ok":true}`},
	)

	data, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
	assert.Equal(t, 3, h.doer.callCount())
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}, h.recordedDelays())
}

func TestFetch_RetryStatuses(t *testing.T) {
	tests := []struct {
		status    int
		wantCalls int
	}{
		{429, 3},
		{500, 3},
		{502, 3},
		{503, 3},
		{504, 3},
		{400, 1},
		{401, 1},
		{404, 1},
		{501, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			h := newHarness(t, Config{})
			h.doer.script(step{status: tt.status, body: "nope"})

			_, err := h.client.Fetch(context.Background(), "channels", nil)

			var failure *StatusFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.status, failure.Response.Status)
			assert.Equal(t, tt.wantCalls, h.doer.callCount())
		})
	}
}

func TestFetch_ConfiguredRetries(t *testing.T) {
	t.Run("custom retry count and backoff", func(t *testing.T) {
		h := newHarness(t, Config{MaxRetries: 4, RetryBackoff: 10 * time.Millisecond})
		h.doer.script(step{status: 502})

		_, err := h.client.Fetch(context.Background(), "channels", nil)
		require.Error(t, err)
		assert.Equal(t, 5, h.doer.callCount())
		assert.Equal(t, []time.Duration{
			10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 40 * time.Millisecond,
		}, h.recordedDelays())
	})

	t.Run("negative disables retries", func(t *testing.T) {
		h := newHarness(t, Config{MaxRetries: -1})
		h.doer.script(step{err: errors.New("boom")})

		_, err := h.client.Fetch(context.Background(), "channels", nil)
		require.Error(t, err)
		assert.Equal(t, 1, h.doer.callCount())
	})
}

func TestFetch_CancellationIsNotRetried(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{err: fmt.Errorf("Get: %w", context.Canceled)})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.doer.callCount())
}

func TestFetch_CancelledDuringBackoff(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 503})

	ctx, cancel := context.WithCancel(context.Background())
	h.client.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := h.client.Fetch(ctx, "channels", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.doer.callCount())
}

func TestFetch_TimeoutAbortsInFlightAttempt(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Fetch(context.Background(), "channels", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int32(1), hits.Load(), "timeouts are never retried")
}

func TestFetch_TimeoutFallsBackToCache(t *testing.T) {
	var slow atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"channels":[{"id":132}]}`))
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	slow.Store(true)
	data, err := client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"channels":[{"id":132}]}`, string(data))
}

func TestFetch_DefaultExpiry(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	entry, ok := h.client.cache.Get(h.client.cache.keys()[0])
	require.True(t, ok)
	assert.WithinDuration(t, h.clock.Now().Add(300*time.Second), entry.ExpiresAt, time.Millisecond)
}

func TestFetch_InvalidJSONIsAFailure(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: "<html>oops</html>"})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidJSON)
	assert.Equal(t, 0, h.client.CacheStats().Total)
}

func TestFetch_NotModifiedWithoutCacheIsAFailure(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 304})

	_, err := h.client.Fetch(context.Background(), "channels", nil)

	var failure *StatusFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 304, failure.Response.Status)
}

func TestFetch_NotModifiedAfterClearStillReturnsSnapshot(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{"v":1}`, header: map[string]string{"ETag": "e"}})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	h.client.doer = &clearingDoer{client: h.client}

	data, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))
	assert.Equal(t, 0, h.client.CacheStats().Total, "revalidation does not resurrect cleared entries")
}

// clearingDoer clears the cache mid-flight and answers 304.
type clearingDoer struct {
	client *Client
}

func (d *clearingDoer) Do(req *http.Request) (*http.Response, error) {
	d.client.ClearCache()
	return &http.Response{
		StatusCode: http.StatusNotModified,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func TestFetch_RequestHeaders(t *testing.T) {
	h := newHarness(t, Config{UserAgent: "test-agent/2.0"})
	h.doer.script(step{status: 200, body: `{}`})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	req := h.doer.call(0)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "test-agent/2.0", req.Header.Get("User-Agent"))
}

func TestFetchPaginated_ForcesPaginationFlag(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	_, err := h.client.FetchPaginated(context.Background(), "programs", Params{"page": 2, "pagination": false})
	require.NoError(t, err)

	q := h.doer.call(0).URL.Query()
	assert.Equal(t, "true", q.Get("pagination"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "json", q.Get("format"))
}

func TestFetch_DistinctParamsAreDistinctEntries(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	ctx := context.Background()
	_, _ = h.client.Fetch(ctx, "programs", Params{"page": 1})
	_, _ = h.client.Fetch(ctx, "programs", Params{"page": 2})
	_, _ = h.client.Fetch(ctx, "/programs", Params{"page": 1})

	assert.Equal(t, 2, h.client.CacheStats().Total)
}

func TestClient_CacheIsBounded(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	ctx := context.Background()
	for i := 0; i <= DefaultMaxCacheEntries; i++ {
		_, err := h.client.Fetch(ctx, fmt.Sprintf("episodes/%d", i), nil)
		require.NoError(t, err)
	}

	assert.Equal(t, DefaultMaxCacheEntries, h.client.CacheStats().Total)
	keys := h.client.cache.keys()
	assert.Equal(t, "https://api.sr.se/api/v2/episodes/1?format=json", keys[0], "first inserted URL is evicted")
	assert.Equal(t, "https://api.sr.se/api/v2/episodes/300?format=json", keys[len(keys)-1])
}

func TestClient_CacheStatsPartition(t *testing.T) {
	h := newHarness(t, Config{})
	ctx := context.Background()

	h.doer.script(step{status: 200, body: `{}`, header: map[string]string{"Cache-Control": "max-age=10"}})
	_, _ = h.client.Fetch(ctx, "a", nil)
	_, _ = h.client.Fetch(ctx, "b", nil)

	h.doer.script(step{status: 200, body: `{}`, header: map[string]string{"Cache-Control": "max-age=1000"}})
	_, _ = h.client.Fetch(ctx, "c", nil)

	h.clock.Advance(60 * time.Second)

	stats := h.client.CacheStats()
	assert.Equal(t, Stats{Total: 3, Valid: 1, Expired: 2}, stats)
	assert.Equal(t, stats.Total, stats.Valid+stats.Expired)
}

func TestClient_ClearCache(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	require.Equal(t, 1, h.client.CacheStats().Total)

	h.client.ClearCache()
	assert.Equal(t, Stats{}, h.client.CacheStats())

	h.doer.script(step{err: errors.New("offline")})
	_, err = h.client.Fetch(context.Background(), "channels", nil)
	assert.Error(t, err, "cleared entries no longer mask failures")
}

func TestFetch_NormalizerShapesUnmaskedFailures(t *testing.T) {
	var seen []error
	normalize := func(err error) error {
		seen = append(seen, err)
		return fmt.Errorf("normalized: %w", err)
	}

	h := newHarness(t, Config{}, WithNormalizer(normalize))
	h.doer.script(step{status: 400, body: "bad"})

	_, err := h.client.Fetch(context.Background(), "channels", Params{"page": 0})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "normalized: "))
	require.Len(t, seen, 1)

	var failure *StatusFailure
	assert.True(t, errors.As(seen[0], &failure))
}

func TestFetch_NormalizerNotCalledWhenMasked(t *testing.T) {
	calls := 0
	h := newHarness(t, Config{}, WithNormalizer(func(err error) error {
		calls++
		return err
	}))
	h.doer.script(step{status: 200, body: `{}`})
	_, err := h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)

	h.doer.script(step{status: 500})
	_, err = h.client.Fetch(context.Background(), "channels", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestFetch_ConcurrentIdenticalRequestsAreIndependent(t *testing.T) {
	h := newHarness(t, Config{})
	h.doer.script(step{status: 200, body: `{}`})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.client.Fetch(context.Background(), "channels", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, h.doer.callCount())
	assert.Equal(t, 1, h.client.CacheStats().Total)
}

// gatedDoer blocks every request until release is closed.
type gatedDoer struct {
	calls   atomic.Int32
	release chan struct{}
}

func (d *gatedDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	<-d.release
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(`{"shared":true}`)),
		Request:    req,
	}, nil
}

func TestFetch_CoalescedRequestsShareOneAttempt(t *testing.T) {
	doer := &gatedDoer{release: make(chan struct{})}
	client, err := New(Config{CoalesceRequests: true}, WithDoer(doer))
	require.NoError(t, err)

	const callers = 5
	results := make(chan json.RawMessage, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := client.Fetch(context.Background(), "channels", nil)
			if err == nil {
				results <- data
			}
		}()
	}

	require.Eventually(t, func() bool { return doer.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(doer.release)
	wg.Wait()
	close(results)

	assert.Equal(t, int32(1), doer.calls.Load())
	count := 0
	for data := range results {
		assert.JSONEq(t, `{"shared":true}`, string(data))
		count++
	}
	assert.Equal(t, callers, count)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "://nope"})
	assert.Error(t, err)
}
