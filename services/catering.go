package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
)

var ErrEventNotFound = errors.New("catering event not found")

// CreateCateringEvent stores a catering order and returns its ID.
func CreateCateringEvent(ctx context.Context, e models.CateringEvent) (string, error) {
	if strings.TrimSpace(e.Name) == "" {
		return "", fmt.Errorf("event name is required")
	}
	if e.Date.IsZero() {
		return "", fmt.Errorf("event date is required")
	}
	if e.Pax < 0 || e.Amount < 0 || e.Advance < 0 {
		return "", fmt.Errorf("pax, amount and advance must be >= 0")
	}
	if e.Advance > e.Amount {
		return "", fmt.Errorf("advance %d exceeds amount %d", e.Advance, e.Amount)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO catering_events (id, name, client_name, address, event_date, event_time, pax, amount, advance, description)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''))`,
		e.ID, strings.TrimSpace(e.Name), e.ClientName, e.Address, e.Date.Time(), e.Time,
		e.Pax, e.Amount, e.Advance, e.Description,
	)
	if err != nil {
		return "", fmt.Errorf("create catering event: %w", err)
	}
	return e.ID, nil
}

// ListUpcomingEvents returns events on or after from, earliest first.
func ListUpcomingEvents(ctx context.Context, from models.Date, limit int) ([]models.CateringEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(client_name, ''), COALESCE(address, ''), event_date,
		       COALESCE(event_time, ''), pax, amount, advance, COALESCE(description, '')
		FROM catering_events
		WHERE event_date >= $1
		ORDER BY event_date, event_time
		LIMIT $2`,
		from.Time(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var list []models.CateringEvent
	for rows.Next() {
		var e models.CateringEvent
		var day time.Time
		if err := rows.Scan(&e.ID, &e.Name, &e.ClientName, &e.Address, &day, &e.Time,
			&e.Pax, &e.Amount, &e.Advance, &e.Description); err != nil {
			return nil, err
		}
		e.Date = models.DateOf(day)
		list = append(list, e)
	}
	return list, rows.Err()
}

func DeleteCateringEvent(ctx context.Context, id string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM catering_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
