package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealroute/archive"
	"mealroute/metrics"
	"mealroute/models"
)

type memSource struct {
	snap Snapshot
	err  error
}

func (m memSource) Name() string { return "mem" }

func (m memSource) Load(context.Context) (Snapshot, error) { return m.snap, m.err }

type memArchive struct {
	archive.NopStore
	runs []archive.Run
}

func (m *memArchive) Append(_ context.Context, r archive.Run) error {
	m.runs = append(m.runs, r)
	return nil
}

type countSink struct {
	metrics.NopSink
	generations int
	source      string
}

func (c *countSink) RecordGeneration(_ models.DailyTasks, source string, _ time.Duration) {
	c.generations++
	c.source = source
}

func TestGenerator_Generate(t *testing.T) {
	src := memSource{snap: Snapshot{
		Clients: []models.Client{client("1", "z1", "p2")},
		Staff:   testStaff(),
		Plans:   testPlans(),
	}}
	arch := &memArchive{}
	sink := &countSink{}
	fixed := time.Date(2024, 1, 15, 5, 0, 0, 0, time.UTC)
	g := &Generator{Source: src, Sink: sink, Archive: arch, Now: func() time.Time { return fixed }}

	tasks, err := g.Generate(context.Background(), jan15, "pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, tasks.Groups["a"].Summary.Tiffins)

	assert.Equal(t, 1, sink.generations)
	assert.Equal(t, "mem", sink.source)
	require.Len(t, arch.runs, 1)
	assert.Equal(t, "pdf", arch.runs[0].Format)
	assert.Equal(t, fixed, arch.runs[0].GeneratedAt)
}

func TestGenerator_LoadError(t *testing.T) {
	g := &Generator{Source: memSource{err: errors.New("down")}}
	_, err := g.Generate(context.Background(), jan15, PurposeView)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load mem")
}

func TestGenerator_ReadOnlyPurposes(t *testing.T) {
	src := memSource{snap: Snapshot{
		Clients: []models.Client{client("1", "z1", "p2")},
		Staff:   testStaff(),
		Plans:   testPlans(),
	}}
	arch := &memArchive{}
	sink := &countSink{}
	g := &Generator{Source: src, Sink: sink, Archive: arch}

	for _, purpose := range []string{PurposeView, PurposeStats, PurposeDriver} {
		tasks, err := g.Generate(context.Background(), jan15, purpose)
		require.NoError(t, err, purpose)
		assert.Equal(t, 2, tasks.Groups["a"].Summary.Tiffins, purpose)
	}
	assert.Zero(t, sink.generations)
	assert.Empty(t, arch.runs)

	_, err := g.Generate(context.Background(), jan15, PurposeDispatch)
	require.NoError(t, err)
	assert.Equal(t, 1, sink.generations)
	require.Len(t, arch.runs, 1)
	assert.Equal(t, PurposeDispatch, arch.runs[0].Format)
}

func TestDispatchTargets(t *testing.T) {
	staff := testStaff()
	staff[0].ChatID = 111 // Anil linked
	staff[1].ChatID = 0   // Babu not linked
	clients := []models.Client{client("1", "z1", "p1"), client("2", "z2", "p1"), client("3", "z9", "p1")}
	tasks := GenerateDailyTasks(jan15, clients, staff, testPlans())

	targets, unlinked := DispatchTargets(tasks, nil, false)
	require.Len(t, targets, 1)
	assert.Equal(t, "a", targets[0].DriverID)
	assert.Equal(t, int64(111), targets[0].ChatID)
	assert.Equal(t, []string{"Babu"}, unlinked)

	targets, _ = DispatchTargets(tasks, map[string]bool{"a": true}, false)
	assert.Empty(t, targets)
	targets, _ = DispatchTargets(tasks, map[string]bool{"a": true}, true)
	assert.Len(t, targets, 1)
}
