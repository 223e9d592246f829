package services

import (
	"context"
	"fmt"
	"sort"

	"mealroute/db"
	"mealroute/models"
)

// DefaultExpiringDays is how far ahead a subscription counts as "expiring soon".
const DefaultExpiringDays = 3

// DaysLeft returns the days from today to the client's end date (negative once expired).
func DaysLeft(c models.Client, today models.Date) int {
	return today.DaysUntil(c.EndDate)
}

// ExpiresWithinDays reports whether c ends between today and today+days, both inclusive.
func ExpiresWithinDays(c models.Client, today models.Date, days int) bool {
	if c.EndDate.IsZero() {
		return false
	}
	left := DaysLeft(c, today)
	return left >= 0 && left <= days
}

// ExpiringClients filters clients with an active status that end within days, soonest first.
func ExpiringClients(clients []models.Client, today models.Date, days int) []models.Client {
	var out []models.Client
	for _, c := range clients {
		if c.IsActiveStatus() && ExpiresWithinDays(c, today, days) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out
}

// ListExpiringClients loads clients and returns the ones ending within days.
func ListExpiringClients(ctx context.Context, today models.Date, days int) ([]models.Client, error) {
	clients, err := ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return ExpiringClients(clients, today, days), nil
}

// RenewedEndDate returns the end date after extending c by days. An expired
// subscription restarts from today instead of accumulating the gap.
func RenewedEndDate(c models.Client, today models.Date, days int) models.Date {
	base := c.EndDate
	if base.Before(today.AddDays(-1)) {
		base = today.AddDays(-1)
	}
	return base.AddDays(days)
}

// RenewClient extends the client's end date by days and reactivates it.
func RenewClient(ctx context.Context, id string, days int, today models.Date) (*models.Client, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be > 0")
	}
	c, err := GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	end := RenewedEndDate(*c, today, days)
	start := c.StartDate
	if c.EndDate.Before(today.AddDays(-1)) {
		// lapsed subscription: the new window starts today
		start = today
	}
	_, err = db.Pool.Exec(ctx, `
		UPDATE clients SET start_date = $1, end_date = $2, status = 'active', updated_at = now()
		WHERE id = $3`,
		start.Time(), end.Time(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("renew client: %w", err)
	}
	c.StartDate, c.EndDate, c.Status = start, end, models.ClientStatusActive
	return c, nil
}

// PauseClient stops deliveries without touching the window.
func PauseClient(ctx context.Context, id string) error {
	return setClientStatus(ctx, id, models.ClientStatusPaused)
}

// ResumeClient makes a paused client schedulable again.
func ResumeClient(ctx context.Context, id string) error {
	return setClientStatus(ctx, id, models.ClientStatusActive)
}

func setClientStatus(ctx context.Context, id, status string) error {
	res, err := db.Pool.Exec(ctx, `UPDATE clients SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}
