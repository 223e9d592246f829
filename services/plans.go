package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPlanNotFound = errors.New("plan not found")

func ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, people, price, deposit, duration_days, COALESCE(description, '')
		FROM plans
		ORDER BY people, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.Plan
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.People, &p.Price, &p.Deposit, &p.DurationDays, &p.Description); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var p models.Plan
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, people, price, deposit, duration_days, COALESCE(description, '')
		FROM plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.People, &p.Price, &p.Deposit, &p.DurationDays, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ValidatePlan rejects plans the task generator could not size. People must be
// at least 1 here, so a stored zero never reaches BoxesPerDelivery.
func ValidatePlan(p models.Plan) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.ID == models.PlanCustom {
		return fmt.Errorf("plan id %q is reserved", models.PlanCustom)
	}
	if p.People < 1 {
		return fmt.Errorf("people must be >= 1")
	}
	if p.Price < 0 || p.Deposit < 0 {
		return fmt.Errorf("price and deposit must be >= 0")
	}
	return nil
}

// SavePlan inserts or updates p and returns its ID.
func SavePlan(ctx context.Context, p models.Plan) (string, error) {
	if err := ValidatePlan(p); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DurationDays <= 0 {
		p.DurationDays = 28
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO plans (id, name, people, price, deposit, duration_days, description)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, people = EXCLUDED.people, price = EXCLUDED.price,
			deposit = EXCLUDED.deposit, duration_days = EXCLUDED.duration_days,
			description = EXCLUDED.description`,
		p.ID, strings.TrimSpace(p.Name), p.People, p.Price, p.Deposit, p.DurationDays, p.Description,
	)
	if err != nil {
		return "", fmt.Errorf("save plan: %w", err)
	}
	return p.ID, nil
}

// DeletePlan removes a plan. Clients on it keep their plan ID and are sized
// as a custom plan until moved.
func DeletePlan(ctx context.Context, id string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
