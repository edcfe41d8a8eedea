// ABOUTME: Playlist tools: songs on air now, per-episode playlists and song search.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func playlistTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "get_playlist_rightnow",
			Description: "Show the song playing right now on a channel, plus the previous and next song.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channelId":{"type":"number","description":"Channel ID (e.g. 164 for P3)"}},"required":["channelId"]}`),
			Handler:     h.getPlaylistRightNow,
		},
		{
			Name:        "get_episode_playlist",
			Description: "Get the full song list played in an episode.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"episodeId":{"type":"number","description":"Episode ID"}},"required":["episodeId"]}`),
			Handler:     h.getEpisodePlaylist,
		},
		{
			Name:        "search_playlists",
			Description: "Search played songs by title, artist or album.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Song, artist or album"},"channelId":{"type":"number","description":"Filter on channel"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.searchPlaylists,
		},
	}
}

type nowPlaying struct {
	Song         json.RawMessage `json:"song"`
	NextSong     json.RawMessage `json:"nextsong"`
	PreviousSong json.RawMessage `json:"previoussong"`
	Channel      json.RawMessage `json:"channel"`
}

type getPlaylistRightNowArgs struct {
	ChannelID int `json:"channelId" validate:"required"`
}

func (h *handlers) getPlaylistRightNow(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[getPlaylistRightNowArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.Get[struct {
		Playlist *nowPlaying `json:"playlist"`
		nowPlaying
	}](ctx, h.client, "playlists/rightnow", srclient.Params{"channelid": args.ChannelID})
	if err != nil {
		return nil, err
	}

	playing := resp.nowPlaying
	if resp.Playlist != nil {
		playing = *resp.Playlist
	}

	null := json.RawMessage("null")
	return asJSONContent(map[string]any{
		"currentSong":  firstPresent(null, playing.Song),
		"nextSong":     firstPresent(null, playing.NextSong),
		"previousSong": firstPresent(null, playing.PreviousSong),
		"channel":      firstPresent(null, playing.Channel),
		"timestamp":    h.timestamp(),
	}, "")
}

func (h *handlers) getEpisodePlaylist(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[episodeIDArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.Get[struct {
		Song     []json.RawMessage `json:"song"`
		Playlist []json.RawMessage `json:"playlist"`
	}](ctx, h.client, "playlists/getplaylistbyepisodeid", srclient.Params{"id": args.EpisodeID})
	if err != nil {
		return nil, err
	}

	songs := resp.Song
	if songs == nil {
		songs = resp.Playlist
	}
	songs = orEmpty(songs)

	return asJSONContent(map[string]any{
		"playlist":  songs,
		"episodeId": args.EpisodeID,
	}, fmt.Sprintf("%d songs", len(songs)))
}

type searchPlaylistsArgs struct {
	Query     string `json:"query,omitempty"`
	ChannelID *int   `json:"channelId,omitempty"`
	pageArgs
}

type songList struct {
	Playlists  []json.RawMessage `json:"playlists"`
	Playlist   []json.RawMessage `json:"playlist"`
	Song       []json.RawMessage `json:"song"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (l songList) items() []json.RawMessage {
	switch {
	case l.Playlists != nil:
		return l.Playlists
	case l.Playlist != nil:
		return l.Playlist
	default:
		return orEmpty(l.Song)
	}
}

func (h *handlers) searchPlaylists(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[searchPlaylistsArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[songList](ctx, h.client, "playlists", srclient.Params{
		"query":     opt(args.Query),
		"channelid": args.ChannelID,
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	results := resp.items()
	return asJSONContent(map[string]any{
		"results":    results,
		"pagination": resp.Pagination,
	}, fmt.Sprintf("%d songs", len(results)))
}
