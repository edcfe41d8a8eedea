// ABOUTME: Typed access to cached API payloads.
// ABOUTME: Call sites declare the response shape; the client itself only stores raw JSON.

package srclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// Fetcher is the client contract consumed by the tool layer.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params Params) (json.RawMessage, error)
	FetchPaginated(ctx context.Context, endpoint string, params Params) (json.RawMessage, error)
}

// Get fetches endpoint and decodes the payload into T.
func Get[T any](ctx context.Context, f Fetcher, endpoint string, params Params) (T, error) {
	var out T
	data, err := f.Fetch(ctx, endpoint, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return out, nil
}

// GetPaginated is Get over FetchPaginated.
func GetPaginated[T any](ctx context.Context, f Fetcher, endpoint string, params Params) (T, error) {
	var out T
	data, err := f.FetchPaginated(ctx, endpoint, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return out, nil
}
