package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"mealroute/models"
)

// Snapshot is the set of records one task generation reads. Zones are only
// needed when a snapshot is imported.
type Snapshot struct {
	Zones   []models.Zone   `json:"zones,omitempty"`
	Clients []models.Client `json:"clients"`
	Staff   []models.Staff  `json:"staff"`
	Plans   []models.Plan   `json:"plans"`
}

// Generate runs the task engine over the snapshot.
func (s Snapshot) Generate(day models.Date) models.DailyTasks {
	return GenerateDailyTasks(day, s.Clients, s.Staff, s.Plans)
}

// SnapshotSource supplies snapshots. Staff must come back in zone tie-break order.
type SnapshotSource interface {
	Load(ctx context.Context) (Snapshot, error)
	Name() string
}

// PostgresSource reads the live tables through db.Pool.
type PostgresSource struct{}

func (PostgresSource) Name() string { return "postgres" }

func (PostgresSource) Load(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	var err error
	if s.Clients, err = ListClients(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Staff, err = ListStaff(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Plans, err = ListPlans(ctx); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// JSONFileSource reads a snapshot exported as JSON.
type JSONFileSource struct {
	Path string
}

func (j JSONFileSource) Name() string { return "json:" + j.Path }

func (j JSONFileSource) Load(ctx context.Context) (Snapshot, error) {
	f, err := os.Open(j.Path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadSnapshot decodes a JSON snapshot. Staff are put in priority order,
// keeping file order among equal priorities, the same order ListStaff uses.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	for i, c := range s.Clients {
		if c.StartDate.IsZero() || c.EndDate.IsZero() {
			return Snapshot{}, fmt.Errorf("client %d (%s): start and end date are required", i, c.ID)
		}
	}
	sort.SliceStable(s.Staff, func(a, b int) bool { return s.Staff[a].Priority < s.Staff[b].Priority })
	return s, nil
}
