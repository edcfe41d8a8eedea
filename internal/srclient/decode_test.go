// ABOUTME: Tests for typed payload decoding over a Fetcher.

package srclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	data      json.RawMessage
	err       error
	paginated bool
	endpoint  string
	params    Params
}

func (s *stubFetcher) Fetch(_ context.Context, endpoint string, params Params) (json.RawMessage, error) {
	s.endpoint, s.params = endpoint, params
	return s.data, s.err
}

func (s *stubFetcher) FetchPaginated(_ context.Context, endpoint string, params Params) (json.RawMessage, error) {
	s.paginated = true
	s.endpoint, s.params = endpoint, params
	return s.data, s.err
}

type channelPayload struct {
	Channel struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

func TestGet_DecodesPayload(t *testing.T) {
	f := &stubFetcher{data: json.RawMessage(`{"channel":{"id":132,"name":"P1"}}`)}

	got, err := Get[channelPayload](context.Background(), f, "channels/132", nil)
	require.NoError(t, err)

	assert.Equal(t, 132, got.Channel.ID)
	assert.Equal(t, "P1", got.Channel.Name)
	assert.False(t, f.paginated)
	assert.Equal(t, "channels/132", f.endpoint)
}

func TestGetPaginated_UsesPaginatedFetch(t *testing.T) {
	f := &stubFetcher{data: json.RawMessage(`{"channel":{"id":1}}`)}

	_, err := GetPaginated[channelPayload](context.Background(), f, "channels", Params{"page": 2})
	require.NoError(t, err)

	assert.True(t, f.paginated)
	assert.Equal(t, Params{"page": 2}, f.params)
}

func TestGet_PropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	f := &stubFetcher{err: boom}

	_, err := Get[channelPayload](context.Background(), f, "channels", nil)
	assert.ErrorIs(t, err, boom)
}

func TestGet_ShapeMismatch(t *testing.T) {
	f := &stubFetcher{data: json.RawMessage(`{"channel":"not an object"}`)}

	_, err := Get[channelPayload](context.Background(), f, "channels/1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding channels/1 response")
}
