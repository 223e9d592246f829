// Package metrics exposes task generation, export and dispatch counters.
package metrics

import (
	"time"

	"mealroute/models"
)

// TaskSink records what the service does with task sheets.
type TaskSink interface {
	RecordGeneration(tasks models.DailyTasks, source string, took time.Duration)
	RecordExport(format string, err error)
	RecordDispatch(sent, failed int)
}

// NopSink implements TaskSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(models.DailyTasks, string, time.Duration) {}

func (NopSink) RecordExport(string, error) {}

func (NopSink) RecordDispatch(int, int) {}
