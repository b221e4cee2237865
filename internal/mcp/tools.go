package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/pplog/internal/program"
)

// defaultHistoryLimit caps get_history when no limit is given.
const defaultHistoryLimit = 10

type unknownDayError string

func (e unknownDayError) Error() string {
	return fmt.Sprintf("unknown day %q (want one of %v)", string(e), program.DayNames())
}

func errUnknownDay(day string) error { return unknownDayError(day) }

// validDay accepts the empty string and catalog day names.
func validDay(day string) error {
	if day == "" {
		return nil
	}
	if _, ok := program.Lookup(day); !ok {
		return errUnknownDay(day)
	}
	return nil
}

// --- Tool definitions ---

var toolGetCurrentDay = mcp.NewTool("get_current_day",
	mcp.WithDescription("Return the rotation cursor (the number of the next training day) and the day it selects, with every exercise and its per-set rep targets."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List completed training days, newest first. Each record has the day number, day name, completion date, per-set weight and reps, total weight (sum of weight x reps) and total reps."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records. Defaults to 10; 0 returns all.")),
	mcp.WithString("day", mcp.Description("Only return this day."), mcp.Enum(program.Push, program.Pull, program.Legs)),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Volume progression per training day: completion dates with total weight and total reps, oldest first. Omit day to get every day."),
	mcp.WithString("day", mcp.Description("Day name."), mcp.Enum(program.Push, program.Pull, program.Legs)),
)

// --- Tool handlers ---

func (h *handlers) getCurrentDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := h.ds.CurrentDay(ctx)
	if err != nil {
		h.log.Error("mcp get_current_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(current)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := req.GetString("day", "")
	if err := validDay(day); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultHistoryLimit)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}

	records, err := h.ds.History(ctx, day, limit)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := req.GetString("day", "")
	if err := validDay(day); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	series, err := h.ds.Progress(ctx, day)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
