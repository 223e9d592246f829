package services

import (
	"context"
	"fmt"
	"strings"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
)

// RecordCollection stores cash a driver collected from clients.
func RecordCollection(ctx context.Context, staffID string, amount int64, day models.Date, note string) (*models.LedgerEntry, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be > 0")
	}
	s, err := GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrStaffNotFound
	}
	e := models.LedgerEntry{
		ID:      uuid.NewString(),
		StaffID: staffID,
		Amount:  amount,
		Date:    day,
		Type:    models.LedgerTypeCollection,
		Note:    strings.TrimSpace(note),
	}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO ledger_entries (id, staff_id, amount, entry_date, type, note)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING created_at`,
		e.ID, e.StaffID, e.Amount, e.Date.Time(), e.Type, e.Note,
	).Scan(&e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record collection: %w", err)
	}
	return &e, nil
}

// CollectionTotals sums collections per driver between from and to, both inclusive.
// A zero from or to leaves that side open.
func CollectionTotals(ctx context.Context, from, to models.Date) ([]models.StaffCollection, error) {
	var fromArg, toArg any
	if !from.IsZero() {
		fromArg = from.Time()
	}
	if !to.IsZero() {
		toArg = to.Time()
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.name, COALESCE(SUM(l.amount), 0), COUNT(l.id)
		FROM staff s
		JOIN ledger_entries l ON l.staff_id = s.id
		WHERE l.type = 'collection'
		  AND ($1::date IS NULL OR l.entry_date >= $1::date)
		  AND ($2::date IS NULL OR l.entry_date <= $2::date)
		GROUP BY s.id, s.name
		ORDER BY s.name`,
		fromArg, toArg,
	)
	if err != nil {
		return nil, fmt.Errorf("collection totals: %w", err)
	}
	defer rows.Close()

	var list []models.StaffCollection
	for rows.Next() {
		var c models.StaffCollection
		if err := rows.Scan(&c.StaffID, &c.StaffName, &c.Total, &c.Entries); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GrandTotal sums the totals of a collection report.
func GrandTotal(list []models.StaffCollection) int64 {
	var sum int64
	for _, c := range list {
		sum += c.Total
	}
	return sum
}
