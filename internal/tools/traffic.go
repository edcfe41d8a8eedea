// ABOUTME: Traffic tools: road traffic messages and traffic areas.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func trafficTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "get_traffic_messages",
			Description: "Get current traffic messages (accidents, roadworks, disruptions), optionally for one traffic area.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"trafficAreaName":{"type":"string","description":"Traffic area, e.g. \"Stockholm\" or \"Uppland\""},"date":{"type":"string","description":"Date (YYYY-MM-DD)"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.getTrafficMessages,
		},
		{
			Name:        "get_traffic_areas",
			Description: "List traffic areas, or find the area containing a GPS position when latitude and longitude are given.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"latitude":{"type":"number","description":"Latitude for a GPS lookup"},"longitude":{"type":"number","description":"Longitude for a GPS lookup"}}}`),
			Handler:     h.getTrafficAreas,
		},
	}
}

type trafficMessagesArgs struct {
	TrafficAreaName string `json:"trafficAreaName,omitempty"`
	Date            string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	pageArgs
}

type messageList struct {
	Messages   []json.RawMessage `json:"messages"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) getTrafficMessages(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[trafficMessagesArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[messageList](ctx, h.client, "traffic/messages", srclient.Params{
		"trafficareaname": opt(args.TrafficAreaName),
		"date":            opt(args.Date),
		"page":            args.Page,
		"size":            args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Messages = orEmpty(resp.Messages)
	return asJSONContent(resp, fmt.Sprintf("%d traffic messages", len(resp.Messages)))
}

type trafficAreasArgs struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (h *handlers) getTrafficAreas(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[trafficAreasArgs](raw)
	if err != nil {
		return nil, err
	}

	data, err := h.client.Fetch(ctx, "traffic/areas", srclient.Params{
		"latitude":  args.Latitude,
		"longitude": args.Longitude,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Area       json.RawMessage   `json:"area"`
		Areas      []json.RawMessage `json:"areas"`
		Pagination json.RawMessage   `json:"pagination"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding traffic areas: %w", err)
	}

	if args.Latitude != nil && args.Longitude != nil {
		return asJSONContent(map[string]json.RawMessage{
			"area": firstPresent(data, resp.Area),
		}, "")
	}

	return asJSONContent(map[string]any{
		"areas":      orEmpty(resp.Areas),
		"pagination": resp.Pagination,
	}, "")
}
