package services

import (
	"context"
	"fmt"
)

// ImportResult counts the records written by ImportSnapshot.
type ImportResult struct {
	Zones   int
	Plans   int
	Staff   int
	Clients int
}

// ValidateSnapshot runs the per-record checks of the Save functions over the
// whole snapshot, so a bad record is reported before anything is written.
func ValidateSnapshot(s Snapshot) error {
	for i, p := range s.Plans {
		if err := ValidatePlan(p); err != nil {
			return fmt.Errorf("plan %d (%s): %w", i, p.ID, err)
		}
	}
	for i, c := range s.Clients {
		if err := ValidateClient(c); err != nil {
			return fmt.Errorf("client %d (%s): %w", i, c.ID, err)
		}
	}
	return nil
}

// ImportSnapshot upserts zones, plans, staff and clients, in that order so
// references resolve. Records keep their IDs; running it twice is harmless.
func ImportSnapshot(ctx context.Context, s Snapshot) (ImportResult, error) {
	var res ImportResult
	if err := ValidateSnapshot(s); err != nil {
		return res, err
	}
	for _, z := range s.Zones {
		if _, err := SaveZone(ctx, z); err != nil {
			return res, fmt.Errorf("zone %s: %w", z.ID, err)
		}
		res.Zones++
	}
	for _, p := range s.Plans {
		if _, err := SavePlan(ctx, p); err != nil {
			return res, fmt.Errorf("plan %s: %w", p.ID, err)
		}
		res.Plans++
	}
	for _, st := range s.Staff {
		if _, err := SaveStaff(ctx, st); err != nil {
			return res, fmt.Errorf("staff %s: %w", st.ID, err)
		}
		res.Staff++
	}
	for _, c := range s.Clients {
		if _, err := SaveClient(ctx, c); err != nil {
			return res, fmt.Errorf("client %s: %w", c.ID, err)
		}
		res.Clients++
	}
	return res, nil
}
