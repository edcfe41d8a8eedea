// ABOUTME: Program tools: search, details, categories and per-program schedule.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2389/sverigesradio-mcp/internal/srclient"
)

func programTools(h *handlers) []*Tool {
	return []*Tool{
		{
			Name:        "search_programs",
			Description: "Search Sveriges Radio programs (e.g. Ekot, P3 Dokumentär, Sommar i P1). Filter by category, channel, podcast availability and more.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string","description":"Text search in program names"},"programCategoryId":{"type":"number","description":"Filter on category ID (see list_program_categories)"},"channelId":{"type":"number","description":"Filter on channel ID"},"hasOnDemand":{"type":"boolean","description":"Only programs available as podcast/on demand"},"isArchived":{"type":"boolean","description":"Include archived programs"},"filter":{"type":"string","description":"Filter field, e.g. \"program.name\""},"filterValue":{"type":"string","description":"Filter value"},"sort":{"type":"string","description":"Sort order, e.g. \"name\" or \"name+desc\""},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page (max 100)"}}}`),
			Handler:     h.searchPrograms,
		},
		{
			Name:        "get_program",
			Description: "Get detailed information about a program including description, channel, contact info and podcast groups.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"}},"required":["programId"]}`),
			Handler:     h.getProgram,
		},
		{
			Name:        "list_program_categories",
			Description: "List all program categories (e.g. News, Music, Sport, Culture, Society).",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
			Handler:     h.listProgramCategories,
		},
		{
			Name:        "get_program_schedule",
			Description: "Get the broadcast schedule for a program: when it airs and on which channels.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"programId":{"type":"number","description":"Program ID"},"fromDate":{"type":"string","description":"From date (YYYY-MM-DD)"},"toDate":{"type":"string","description":"To date (YYYY-MM-DD)"},"page":{"type":"number","description":"Page number"},"size":{"type":"number","description":"Items per page"}},"required":["programId"]}`),
			Handler:     h.getProgramSchedule,
		},
	}
}

type searchProgramsArgs struct {
	Query             string `json:"query,omitempty"`
	ProgramCategoryID *int   `json:"programCategoryId,omitempty"`
	ChannelID         *int   `json:"channelId,omitempty"`
	HasOnDemand       *bool  `json:"hasOnDemand,omitempty"`
	IsArchived        *bool  `json:"isArchived,omitempty"`
	Filter            string `json:"filter,omitempty"`
	FilterValue       string `json:"filterValue,omitempty"`
	Sort              string `json:"sort,omitempty"`
	pageArgs
}

type programList struct {
	Programs   []json.RawMessage `json:"programs"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) searchPrograms(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[searchProgramsArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[programList](ctx, h.client, "programs", srclient.Params{
		"query":             opt(args.Query),
		"programcategoryid": args.ProgramCategoryID,
		"channelid":         args.ChannelID,
		"hasondemand":       args.HasOnDemand,
		"isarchived":        args.IsArchived,
		"filter":            opt(args.Filter),
		"filtervalue":       opt(args.FilterValue),
		"sort":              opt(args.Sort),
		"page":              args.Page,
		"size":              args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Programs = orEmpty(resp.Programs)
	return asJSONContent(resp, fmt.Sprintf("%d programs", len(resp.Programs)))
}

type programIDArgs struct {
	ProgramID int `json:"programId" validate:"required"`
}

func (h *handlers) getProgram(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[programIDArgs](raw)
	if err != nil {
		return nil, err
	}

	data, err := h.client.Fetch(ctx, fmt.Sprintf("programs/%d", args.ProgramID), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Program json.RawMessage `json:"program"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}

	return asJSONContent(map[string]json.RawMessage{
		"program": firstPresent(data, resp.Program),
	}, "")
}

func (h *handlers) listProgramCategories(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	if _, err := parseArgs[noArgs](raw); err != nil {
		return nil, err
	}

	resp, err := srclient.Get[struct {
		Categories []json.RawMessage `json:"programcategories"`
	}](ctx, h.client, "programcategories", srclient.Params{"pagination": false})
	if err != nil {
		return nil, err
	}

	categories := orEmpty(resp.Categories)
	return asJSONContent(map[string]any{"categories": categories},
		fmt.Sprintf("%d program categories", len(categories)))
}

type programScheduleArgs struct {
	ProgramID int    `json:"programId" validate:"required"`
	FromDate  string `json:"fromDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate    string `json:"toDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	pageArgs
}

type scheduleList struct {
	Schedule   []json.RawMessage `json:"schedule"`
	Pagination json.RawMessage   `json:"pagination,omitempty"`
}

func (h *handlers) getProgramSchedule(ctx context.Context, raw json.RawMessage) ([]Content, error) {
	args, err := parseArgs[programScheduleArgs](raw)
	if err != nil {
		return nil, err
	}

	resp, err := srclient.GetPaginated[scheduleList](ctx, h.client, "scheduledepisodes", srclient.Params{
		"programid": args.ProgramID,
		"fromdate":  opt(args.FromDate),
		"todate":    opt(args.ToDate),
		"page":      args.Page,
		"size":      args.Size,
	})
	if err != nil {
		return nil, err
	}

	resp.Schedule = orEmpty(resp.Schedule)
	return asJSONContent(resp, "")
}
