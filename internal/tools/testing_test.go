// ABOUTME: Shared test doubles for tool handler tests.
// ABOUTME: fakeFetcher serves canned payloads per endpoint and records every call.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

type fetchCall struct {
	endpoint  string
	params    map[string]string
	paginated bool
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string]string),
		errs:      make(map[string]error),
	}
}

func (f *fakeFetcher) respond(endpoint, body string) *fakeFetcher {
	f.responses[endpoint] = body
	return f
}

func (f *fakeFetcher) fail(endpoint string, err error) *fakeFetcher {
	f.errs[endpoint] = err
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, endpoint string, params srclient.Params) (json.RawMessage, error) {
	return f.record(endpoint, params, false)
}

func (f *fakeFetcher) FetchPaginated(_ context.Context, endpoint string, params srclient.Params) (json.RawMessage, error) {
	return f.record(endpoint, params, true)
}

func (f *fakeFetcher) record(endpoint string, params srclient.Params, paginated bool) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fetchCall{endpoint: endpoint, params: render(params), paginated: paginated})
	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}
	body, ok := f.responses[endpoint]
	if !ok {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(body), nil
}

func (f *fakeFetcher) lastCall(t *testing.T) fetchCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "expected a fetch")
	return f.calls[len(f.calls)-1]
}

// render flattens params the way they reach the query string, dropping nils.
func render(params srclient.Params) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func newTestHandlers(f srclient.Fetcher) *handlers {
	return &handlers{
		client: f,
		now:    func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

// decodeResult parses the JSON block of a tool result.
func decodeResult(t *testing.T, content []Content) map[string]any {
	t.Helper()
	require.NotEmpty(t, content)
	last := content[len(content)-1]
	require.Equal(t, "application/json", last.MimeType)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Text), &out))
	return out
}
