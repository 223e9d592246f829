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
	"github.com/jackc/pgx/v5"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidWindow  = errors.New("start date must not be after end date")
)

const clientColumns = `id, name, COALESCE(phone, ''), COALESCE(address, ''), COALESCE(zone_id, ''),
	plan_id, COALESCE(assigned_driver_id, ''), start_date, end_date, status,
	is_trial, has_rice, rice_qty, custom_cost`

func scanClient(row pgx.Row) (models.Client, error) {
	var c models.Client
	var start, end time.Time
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.ZoneID,
		&c.PlanID, &c.AssignedDriverID, &start, &end, &c.Status,
		&c.IsTrial, &c.HasRice, &c.RiceQty, &c.CustomCost)
	if err != nil {
		return models.Client{}, err
	}
	c.StartDate = models.DateOf(start)
	c.EndDate = models.DateOf(end)
	return c, nil
}

// ListClients returns every client in creation order, which is the display order on task sheets.
func ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetClient loads a client by ID, or nil if there is none.
func GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, err := scanClient(db.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ValidateClient checks the fields the task generator relies on.
func ValidateClient(c models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("start and end date are required")
	}
	if c.StartDate.After(c.EndDate) {
		return ErrInvalidWindow
	}
	switch c.Status {
	case "", models.ClientStatusActive, models.ClientStatusPaused, models.ClientStatusCancelled:
	default:
		return fmt.Errorf("invalid client status: %s", c.Status)
	}
	if c.HasRice && c.RiceQty < 1 {
		return fmt.Errorf("rice quantity must be >= 1")
	}
	return nil
}

// SaveClient inserts or updates c and returns its ID. A new ID is generated when c.ID is empty.
func SaveClient(ctx context.Context, c models.Client) (string, error) {
	if err := ValidateClient(c); err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ClientStatusActive
	}
	if c.PlanID == "" {
		c.PlanID = models.PlanCustom
	}
	if !c.HasRice {
		c.RiceQty = 0
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO clients (id, name, phone, address, zone_id, plan_id, assigned_driver_id,
		                     start_date, end_date, status, is_trial, has_rice, rice_qty, custom_cost)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''),
		        $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			zone_id = EXCLUDED.zone_id,
			plan_id = EXCLUDED.plan_id,
			assigned_driver_id = EXCLUDED.assigned_driver_id,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			status = EXCLUDED.status,
			is_trial = EXCLUDED.is_trial,
			has_rice = EXCLUDED.has_rice,
			rice_qty = EXCLUDED.rice_qty,
			custom_cost = EXCLUDED.custom_cost,
			updated_at = now()`,
		c.ID, strings.TrimSpace(c.Name), strings.TrimSpace(c.Phone), strings.TrimSpace(c.Address),
		c.ZoneID, c.PlanID, c.AssignedDriverID,
		c.StartDate.Time(), c.EndDate.Time(), c.Status, c.IsTrial, c.HasRice, c.RiceQty, c.CustomCost,
	)
	if err != nil {
		return "", fmt.Errorf("save client: %w", err)
	}
	return c.ID, nil
}

func DeleteClient(ctx context.Context, id string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}
