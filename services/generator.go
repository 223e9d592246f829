package services

import (
	"context"
	"fmt"
	"time"

	"mealroute/archive"
	"mealroute/logger"
	"mealroute/metrics"
	"mealroute/models"
)

// Generation purposes that are not export formats. View, stats and driver
// runs only read the sheet, so they are neither archived nor counted.
const (
	PurposeView     = "view"
	PurposeStats    = "stats"
	PurposeDriver   = "driver"
	PurposeDispatch = "dispatch"
)

func recordsRun(purpose string) bool {
	switch purpose {
	case PurposeView, PurposeStats, PurposeDriver:
		return false
	}
	return true
}

// Generator loads a snapshot, runs the task engine and records the run.
// Sink, Archive and Log may be nil.
type Generator struct {
	Source  SnapshotSource
	Sink    metrics.TaskSink
	Archive archive.Store
	Log     logger.Logger
	Now     func() time.Time
}

// Generate builds the task sheet for day. purpose is an export format or one
// of the Purpose constants; exports and dispatches are archived and update the
// sink. Archive failures are logged, not returned.
func (g *Generator) Generate(ctx context.Context, day models.Date, purpose string) (models.DailyTasks, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	log := g.Log
	if log == nil {
		log = logger.Nop()
	}

	start := now()
	snap, err := g.Source.Load(ctx)
	if err != nil {
		return models.DailyTasks{}, fmt.Errorf("load %s: %w", g.Source.Name(), err)
	}
	tasks := snap.Generate(day)
	took := now().Sub(start)

	record := recordsRun(purpose)
	if record && g.Sink != nil {
		g.Sink.RecordGeneration(tasks, g.Source.Name(), took)
	}
	total := tasks.Totals()
	log.Infow("tasks generated", map[string]any{
		"date":       day.String(),
		"source":     g.Source.Name(),
		"purpose":    purpose,
		"items":      tasks.ItemCount(),
		"deliver":    total.Tiffins,
		"collect":    total.EmptyBoxes,
		"unassigned": len(tasks.Groups[models.UnassignedGroup].Items),
	})
	if record && g.Archive != nil {
		if err := g.Archive.Append(ctx, archive.NewRun(tasks, g.Source.Name(), purpose, now())); err != nil {
			log.Warnf("archive run for %s: %v", day, err)
		}
	}
	return tasks, nil
}

// DispatchTargets returns the groups to message for a dispatch: linked
// drivers with items, minus those in already unless force is set.
func DispatchTargets(tasks models.DailyTasks, already map[string]bool, force bool) (targets []*models.DriverTaskGroup, unlinked []string) {
	tasks.Each(func(g *models.DriverTaskGroup) {
		if g.DriverID == models.UnassignedGroup || len(g.Items) == 0 {
			return
		}
		if g.ChatID == 0 {
			unlinked = append(unlinked, g.BoyName)
			return
		}
		if already[g.DriverID] && !force {
			return
		}
		targets = append(targets, g)
	})
	return targets, unlinked
}
