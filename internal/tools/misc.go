// ABOUTME: Miscellaneous tools: toplists, extra broadcasts, episode groups, podfiles and combined search.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func miscTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "list_toplists",
			Description: "List the most popular programs and podcasts right now.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.listToplists,
		},
		{
			Name:        "list_extra_broadcasts",
			Description: "List extra broadcasts such as live sport and special events outside the regular schedule.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channelId":{"type":"number","description":"Filter on channel"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.listExtraBroadcasts,
		},
		{
			Name:        "get_episode_group",
			Description: "Get an episode group (a curated collection of episodes, e.g. a series or theme).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"groupId":{"type":"number","description":"Episode group ID"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["groupId"]}`),
			Handler:     h.getEpisodeGroup,
		},
		{
			Name:        "search_all",
			Description: "Search programs, episodes and songs at once and return the top hits from each.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Search text"},"limit":{"type":"number","description":"Hits per category (default 5, max 25)"}},"required":["query"]}`),
			Handler:     h.searchAll,
		},
		{
			Name:        "list_podfiles",
			Description: "List downloadable podcast files for a program.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["programId"]}`),
			Handler:     h.listPodfiles,
		},
	}
}

func (h *handlers) listToplists(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[pageArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[struct {
		Shows      []json.RawMessage `json:"shows"`
		Pagination json.RawMessage   `json:"pagination"`
	}](ctx, h.client, "toplists", srclient.Params{
		"page": args.Page,
		"size": args.Size,
	})
	if err != nil {
		return nil, err
	}

	return asJSONContent(map[string]any{
		"toplist":    orEmpty(resp.Shows),
		"pagination": resp.Pagination,
	}, "")
}

type extraBroadcastsArgs struct {
	ChannelID *int `json:"channelId,omitempty"`
	pageArgs
}

func (h *handlers) listExtraBroadcasts(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[extraBroadcastsArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[broadcastList](ctx, h.client, "extra/broadcasts", srclient.Params{
		"channelid": args.ChannelID,
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Broadcasts = orEmpty(resp.Broadcasts)
	return asJSONContent(resp, fmt.Sprintf("%d extra broadcasts", len(resp.Broadcasts)))
}

type episodeGroupArgs struct {
	GroupID int `json:"groupId" validate:"required"`
	pageArgs
}

func (h *handlers) getEpisodeGroup(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[episodeGroupArgs](raw)
	if err != nil {
		return nil, err
	}

	data, err := h.client.FetchPaginated(ctx, "episodes/group", srclient.Params{
		"id":   args.GroupID,
		"page": args.Page,
		"size": args.Size,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		EpisodeGroup json.RawMessage `json:"episodegroup"`
		Pagination   json.RawMessage `json:"pagination"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding episode group: %w", err)
	}

	return asJSONContent(map[string]json.RawMessage{
		"episodeGroup": firstPresent(data, resp.EpisodeGroup),
		"pagination":   firstPresent(json.RawMessage("null"), resp.Pagination),
	}, "")
}

type searchAllArgs struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=25"`
}

// searchAll fans out to the program, episode and song searches. Any failing
// search fails the whole call.
func (h *handlers) searchAll(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[searchAllArgs](raw)
	if err != nil {
		return nil, err
	}
	limit := args.Limit
	if limit == 0 {
		limit = 5
	}

	var (
		programs programList
		episodes episodeList
		songs    songList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		programs, err = srclient.GetPaginated[programList](gctx, h.client, "programs", srclient.Params{
			"query": args.Query,
			"size":  limit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		episodes, err = srclient.GetPaginated[episodeList](gctx, h.client, "episodes/search", srclient.Params{
			"query": args.Query,
			"size":  limit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		songs, err = srclient.GetPaginated[songList](gctx, h.client, "playlists", srclient.Params{
			"query": args.Query,
			"size":  limit,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	programHits := truncate(orEmpty(programs.Programs), limit)
	episodeHits := truncate(orEmpty(episodes.Episodes), limit)
	songHits := truncate(songs.items(), limit)

	return asJSONContent(map[string]any{
		"query":    args.Query,
		"programs": programHits,
		"episodes": episodeHits,
		"songs":    songHits,
	}, fmt.Sprintf("%q: %d programs, %d episodes, %d songs",
		args.Query, len(programHits), len(episodeHits), len(songHits)))
}

func truncate(items []json.RawMessage, n int) []json.RawMessage {
	if len(items) > n {
		return items[:n]
	}
	return items
}

type podfileList struct {
	Podfiles   []json.RawMessage `json:"podfiles"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) listPodfiles(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[programPageArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[podfileList](ctx, h.client, "podfiles", srclient.Params{
		"programid": args.ProgramID,
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Podfiles = orEmpty(resp.Podfiles)
	return asJSONContent(resp, fmt.Sprintf("%d podfiles", len(resp.Podfiles)))
}
