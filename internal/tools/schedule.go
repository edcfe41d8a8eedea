// ABOUTME: Schedule tools: channel day schedules, program broadcasts and what is on air now.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func scheduleTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "get_channel_schedule",
			Description: "Get the schedule (tablå) for a channel on a given day or date range.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"channelId":{"type":"number","description":"Channel ID"},"date":{"type":"string","description":"Day (YYYY-MM-DD), defaults to today"},"fromDate":{"type":"string","description":"From date (YYYY-MM-DD)"},"toDate":{"type":"string","description":"To date (YYYY-MM-DD)"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["channelId"]}`),
			Handler:     h.getChannelSchedule,
		},
		{
			Name:        "get_program_broadcasts",
			Description: "List available broadcasts (full-length recordings) for a program.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}},"required":["programId"]}`),
			Handler:     h.getProgramBroadcasts,
		},
		{
			Name:        "get_all_rightnow",
			Description: "Show what is on air right now on every channel: previous, current and next program.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"sort":{"type":"string","description":"Sort order, e.g. \"channel.name\""},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.getAllRightNow,
		},
	}
}

type channelScheduleArgs struct {
	ChannelID int    `json:"channelId" validate:"required"`
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FromDate  string `json:"fromDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate    string `json:"toDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	pageArgs
}

func (h *handlers) getChannelSchedule(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[channelScheduleArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[scheduleList](ctx, h.client, "scheduledepisodes", srclient.Params{
		"channelid": args.ChannelID,
		"date":      opt(args.Date),
		"fromdate":  opt(args.FromDate),
		"todate":    opt(args.ToDate),
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Schedule = orEmpty(resp.Schedule)
	return asJSONContent(resp, fmt.Sprintf("%d scheduled episodes", len(resp.Schedule)))
}

type programPageArgs struct {
	ProgramID int `json:"programId" validate:"required"`
	pageArgs
}

type broadcastList struct {
	Broadcasts []json.RawMessage `json:"broadcasts"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) getProgramBroadcasts(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[programPageArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[broadcastList](ctx, h.client, "broadcasts", srclient.Params{
		"programid": args.ProgramID,
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Broadcasts = orEmpty(resp.Broadcasts)
	return asJSONContent(resp, "")
}

type rightNowArgs struct {
	Sort string `json:"sort,omitempty"`
	pageArgs
}

func (h *handlers) getAllRightNow(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[rightNowArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[channelList](ctx, h.client, "scheduledepisodes/rightnow", srclient.Params{
		"sort": opt(args.Sort),
		"page": args.Page,
		"size": args.Size,
	})
	if err != nil {
		return nil, err
	}

	return asJSONContent(map[string]any{
		"channels":   orEmpty(resp.Channels),
		"pagination": resp.Pagination,
		"timestamp":  h.timestamp(),
	}, "")
}
