package mcp

import (
	"context"

	"github.com/claude/pplog/internal/models"
	"github.com/claude/pplog/internal/program"
	"github.com/claude/pplog/internal/progress"
	"github.com/claude/pplog/internal/tracker"
)

// CurrentDay is the cursor and the day it selects.
type CurrentDay struct {
	DayNumber int         `json:"dayNumber"`
	Day       program.Day `json:"day"`
}

// DataSource abstracts the data layer for MCP tools. TrackerSource (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	CurrentDay(ctx context.Context) (CurrentDay, error)
	// History returns records newest first, optionally filtered by day
	// name. limit <= 0 means no limit.
	History(ctx context.Context, day string, limit int) ([]models.HistoryRecord, error)
	// Progress returns one series for day, or every day's series when day
	// is empty.
	Progress(ctx context.Context, day string) ([]progress.Series, error)
}

// TrackerSource serves MCP tools from an in-process tracker.
type TrackerSource struct {
	Tracker *tracker.Tracker
}

// Compile-time check: TrackerSource satisfies DataSource.
var _ DataSource = TrackerSource{}

func (s TrackerSource) CurrentDay(_ context.Context) (CurrentDay, error) {
	cursor, day := s.Tracker.Current()
	return CurrentDay{DayNumber: cursor, Day: day}, nil
}

func (s TrackerSource) History(_ context.Context, day string, limit int) ([]models.HistoryRecord, error) {
	records := s.Tracker.History()
	out := make([]models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if day != "" && rec.DayName != day {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s TrackerSource) Progress(_ context.Context, day string) ([]progress.Series, error) {
	if day == "" {
		return s.Tracker.ProgressAll(), nil
	}
	series, ok := s.Tracker.Progress(day)
	if !ok {
		return nil, errUnknownDay(day)
	}
	return []progress.Series{series}, nil
}
