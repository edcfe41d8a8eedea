// ABOUTME: News tools: news programs and the latest news episodes.

package tools

import (
	"context"
	"encoding/json"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func newsTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "list_news_programs",
			Description: "List all news programs (Ekot, Ekonomiekot, local P4 news and more).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			Handler:     h.listNewsPrograms,
		},
		{
			Name:        "get_latest_news_episodes",
			Description: "Get the most recent news episodes across all news programs.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			Handler:     h.getLatestNewsEpisodes,
		},
	}
}

func (h *handlers) listNewsPrograms(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	if _, err := parseArgs[noArgs](raw); err != nil {
		return nil, err
	}

	resp, err := srclient.Get[programList](ctx, h.client, "news", srclient.Params{"pagination": false})
	if err != nil {
		return nil, err
	}

	return asJSONContent(map[string]any{"programs": orEmpty(resp.Programs)}, "")
}

func (h *handlers) getLatestNewsEpisodes(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	if _, err := parseArgs[noArgs](raw); err != nil {
		return nil, err
	}

	resp, err := srclient.Get[episodeList](ctx, h.client, "news/episodes", nil)
	if err != nil {
		return nil, err
	}

	return asJSONContent(map[string]any{
		"episodes":   orEmpty(resp.Episodes),
		"pagination": resp.Pagination,
		"timestamp":  h.timestamp(),
	}, "")
}
