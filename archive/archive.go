// Package archive keeps a local log of generated task sheets.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mealroute/models"
)

// GroupSummary is one driver group as archived.
type GroupSummary struct {
	DriverID string             `json:"driverId"`
	Driver   string             `json:"driver"`
	Items    int                `json:"items"`
	Summary  models.TaskSummary `json:"summary"`
}

// Run is one archived generation.
type Run struct {
	ID          string             `json:"id"`
	Date        models.Date        `json:"date"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Source      string             `json:"source"`
	Format      string             `json:"format,omitempty"`
	Totals      models.TaskSummary `json:"totals"`
	Groups      []GroupSummary     `json:"groups"`
}

// NewRun summarizes tasks. Empty groups are left out.
func NewRun(tasks models.DailyTasks, source, format string, at time.Time) Run {
	r := Run{
		ID:          uuid.NewString(),
		Date:        tasks.Date,
		GeneratedAt: at.UTC(),
		Source:      source,
		Format:      format,
		Totals:      tasks.Totals(),
		Groups:      []GroupSummary{},
	}
	tasks.Each(func(g *models.DriverTaskGroup) {
		if len(g.Items) == 0 {
			return
		}
		r.Groups = append(r.Groups, GroupSummary{
			DriverID: g.DriverID,
			Driver:   g.BoyName,
			Items:    len(g.Items),
			Summary:  g.Summary,
		})
	})
	return r
}

// Query filters runs. Zero fields match everything.
type Query struct {
	From  models.Date
	To    models.Date
	Limit int
}

// Store persists runs.
type Store interface {
	Append(ctx context.Context, r Run) error
	Query(ctx context.Context, q Query) ([]Run, error)
	Close() error
}

// NopStore discards runs; used when no archive path is configured.
type NopStore struct{}

func (NopStore) Append(context.Context, Run) error { return nil }

func (NopStore) Query(context.Context, Query) ([]Run, error) { return nil, nil }

func (NopStore) Close() error { return nil }

// Open returns a SQLite store at path, or a NopStore when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return NopStore{}, nil
	}
	return NewSQLiteStore(path)
}
