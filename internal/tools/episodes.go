// ABOUTME: Episode tools: per-program listings, search, lookups and batch fetch.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

// maxBatchEpisodes bounds get_episodes_batch so the ids query stays short.
const maxBatchEpisodes = 50

func episodeTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "list_episodes",
			Description: "List episodes for a program, newest first, optionally limited to a date range.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"},"fromDate":{"type":"string","description":"From date (YYYY-MM-DD)"},"toDate":{"type":"string","description":"To date (YYYY-MM-DD)"},"audioQuality":{"type":"string","enum":["lo","normal","hi"],"description":"Audio quality for listen and download links"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["programId"]}`),
			Handler:     h.listEpisodes,
		},
		{
			Name:        "search_episodes",
			Description: "Full-text search across episode titles and descriptions.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Search text"},"channelId":{"type":"number","description":"Limit to a channel"},"programId":{"type":"number","description":"Limit to a program"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["query"]}`),
			Handler:     h.searchEpisodes,
		},
		{
			Name:        "get_episode",
			Description: "Get one episode with description, publish date, audio files and broadcast info.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"episodeId":{"type":"number","description":"Episode ID"}},"required":["episodeId"]}`),
			Handler:     h.getEpisode,
		},
		{
			Name:        "get_episodes_batch",
			Description: "Get several episodes in one call.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"episodeIds":{"type":"array","items":{"type":"number"},"minItems":1,"maxItems":50,"description":"Episode IDs"}},"required":["episodeIds"]}`),
			Handler:     h.getEpisodesBatch,
		},
		{
			Name:        "get_latest_episode",
			Description: "Get the most recently published episode of a program.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"}},"required":["programId"]}`),
			Handler:     h.getLatestEpisode,
		},
	}
}

type episodeList struct {
	Episodes   []json.RawMessage `json:"episodes"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

type listEpisodesArgs struct {
	ProgramID    int    `json:"programId" validate:"required"`
	FromDate     string `json:"fromDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate       string `json:"toDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AudioQuality string `json:"audioQuality,omitempty" validate:"omitempty,oneof=lo normal hi"`
	pageArgs
}

func (h *handlers) listEpisodes(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[listEpisodesArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[episodeList](ctx, h.client, "episodes/index", srclient.Params{
		"programid":    args.ProgramID,
		"fromdate":     opt(args.FromDate),
		"todate":       opt(args.ToDate),
		"audioquality": opt(args.AudioQuality),
		"page":         args.Page,
		"size":         args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Episodes = orEmpty(resp.Episodes)
	return asJSONContent(resp, fmt.Sprintf("%d episodes", len(resp.Episodes)))
}

type searchEpisodesArgs struct {
	Query     string `json:"query" validate:"required"`
	ChannelID *int   `json:"channelId,omitempty"`
	ProgramID *int   `json:"programId,omitempty"`
	pageArgs
}

func (h *handlers) searchEpisodes(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[searchEpisodesArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[episodeList](ctx, h.client, "episodes/search", srclient.Params{
		"query":     args.Query,
		"channelid": args.ChannelID,
		"programid": args.ProgramID,
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Episodes = orEmpty(resp.Episodes)
	return asJSONContent(resp, fmt.Sprintf("%d episodes matching %q", len(resp.Episodes), args.Query))
}

type episodeIDArgs struct {
	EpisodeID int `json:"episodeId" validate:"required"`
}

type singleEpisode struct {
	Episode json.RawMessage `json:"episode"`
}

func (h *handlers) getEpisode(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[episodeIDArgs](raw)
	if err != nil {
		return nil, err
	}

	data, err := h.client.Fetch(ctx, "episodes/get", srclient.Params{"id": args.EpisodeID})
	if err != nil {
		return nil, err
	}

	var resp singleEpisode
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding episode: %w", err)
	}

	return asJSONContent(map[string]json.RawMessage{
		"episode": firstPresent(data, resp.Episode),
	}, "")
}

type episodesBatchArgs struct {
	EpisodeIDs []int `json:"episodeIds" validate:"required,min=1,max=50,dive,min=1"`
}

func (h *handlers) getEpisodesBatch(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[episodesBatchArgs](raw)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(args.EpisodeIDs))
	for i, id := range args.EpisodeIDs {
		ids[i] = strconv.Itoa(id)
	}

	resp, err := srclient.Get[episodeList](ctx, h.client, "episodes/getlist", srclient.Params{
		"ids":  strings.Join(ids, ","),
		"size": maxBatchEpisodes,
	})
	if err != nil {
		return nil, err
	}

	episodes := orEmpty(resp.Episodes)
	return asJSONContent(map[string]any{"episodes": episodes},
		fmt.Sprintf("%d of %d episodes found", len(episodes), len(args.EpisodeIDs)))
}

func (h *handlers) getLatestEpisode(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[programIDArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.Get[singleEpisode](ctx, h.client, "episodes/getlatest", srclient.Params{
		"programid": args.ProgramID,
	})
	if err != nil {
		return nil, err
	}

	return asJSONContent(map[string]json.RawMessage{
		"episode": firstPresent(json.RawMessage("null"), resp.Episode),
	}, "")
}
