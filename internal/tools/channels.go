// ABOUTME: Channel tools: list live channels and fetch a single channel.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func channelTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "list_channels",
			Description: "List Sveriges Radio channels (P1, P2, P3, P4 regional and web channels) with live audio links and current images.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channelType":{"type":"string","description":"Filter on channel type, e.g. \"Rikskanal\" or \"Lokal kanal\""},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.listChannels,
		},
		{
			Name:        "get_channel",
			Description: "Get details for one channel including tagline, live audio URL and schedule link.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channelId":{"type":"number","description":"Channel ID, e.g. 132 for P1"}},"required":["channelId"]}`),
			Handler:     h.getChannel,
		},
	}
}

type listChannelsArgs struct {
	ChannelType string `json:"channelType,omitempty"`
	pageArgs
}

type channelList struct {
	Channels   []json.RawMessage `json:"channels"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) listChannels(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[listChannelsArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[channelList](ctx, h.client, "channels", srclient.Params{
		"channeltype": opt(args.ChannelType),
		"page":        args.Page,
		"size":        args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Channels = orEmpty(resp.Channels)
	return asJSONContent(resp, fmt.Sprintf("%d channels", len(resp.Channels)))
}

type getChannelArgs struct {
	ChannelID int `json:"channelId" validate:"required"`
}

func (h *handlers) getChannel(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[getChannelArgs](raw)
	if err != nil {
		return nil, err
	}

	data, err := h.client.Fetch(ctx, fmt.Sprintf("channels/%d", args.ChannelID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Channel json.RawMessage `json:"channel"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding channel: %w", err)
	}

	return asJSONContent(map[string]json.RawMessage{
		"channel": firstPresent(data, resp.Channel),
	}, "")
}
