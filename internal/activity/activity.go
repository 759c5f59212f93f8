// Package activity keeps the audit trail of what operators changed through
// the console.
package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/corpweb/sitedesk/storage/db"
	"github.com/oklog/ulid/v2"
)

const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionReorder = "reorder"
	ActionFeature = "feature"
	ActionUpload  = "upload"
)

// Entry is one recorded change.
type Entry struct {
	ID       string
	Operator string
	Screen   string
	Action   string
	RecordID string
	Detail   string
	At       time.Time
}

// ScreenCount is how many changes a screen saw in a window.
type ScreenCount struct {
	Screen string
	Total  int
}

type Queries interface {
	CreateActivity(ctx context.Context, arg db.CreateActivityParams) (db.Activity, error)
	ListRecentActivity(ctx context.Context, limit int64) ([]db.Activity, error)
	CountActivityByScreenSince(ctx context.Context, since int64) ([]db.CountActivityByScreenSinceRow, error)
	DeleteActivityBefore(ctx context.Context, before int64) (int64, error)
}

// Log writes and reads the activity table.
type Log struct {
	queries Queries
	now     func() time.Time
}

func NewLog(queries Queries) *Log {
	return &Log{queries: queries, now: time.Now}
}

// Record appends e, stamping its id and time.
func (l *Log) Record(ctx context.Context, e Entry) (Entry, error) {
	e.At = l.now()
	e.ID = ulid.MustNew(ulid.Timestamp(e.At), ulid.DefaultEntropy()).String()

	row, err := l.queries.CreateActivity(ctx, db.CreateActivityParams{
		ID:        e.ID,
		Operator:  e.Operator,
		Screen:    e.Screen,
		Action:    e.Action,
		RecordID:  e.RecordID,
		Detail:    e.Detail,
		CreatedAt: e.At.UnixMilli(),
	})
	if err != nil {
		return Entry{}, fmt.Errorf("record activity: %w", err)
	}
	return fromRow(row), nil
}

// Recent returns the latest n entries, newest first.
func (l *Log) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := l.queries.ListRecentActivity(ctx, int64(n))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out, nil
}

// CountsSince returns per-screen totals over the window ending now,
// busiest first.
func (l *Log) CountsSince(ctx context.Context, window time.Duration) ([]ScreenCount, error) {
	since := l.now().Add(-window).UnixMilli()
	rows, err := l.queries.CountActivityByScreenSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}
	out := make([]ScreenCount, len(rows))
	for i, r := range rows {
		out[i] = ScreenCount{Screen: r.Screen, Total: int(r.Total)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// Prune drops entries older than keep.
func (l *Log) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	n, err := l.queries.DeleteActivityBefore(ctx, l.now().Add(-keep).UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return n, nil
}

func fromRow(r db.Activity) Entry {
	return Entry{
		ID:       r.ID,
		Operator: r.Operator,
		Screen:   r.Screen,
		Action:   r.Action,
		RecordID: r.RecordID,
		Detail:   r.Detail,
		At:       time.UnixMilli(r.CreatedAt),
	}
}
