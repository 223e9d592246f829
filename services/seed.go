package services

import (
	"context"
	"fmt"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
)

// DefaultZones are the Hyderabad delivery areas the business started with.
var DefaultZones = []models.Zone{
	{Name: "Abids", AreaGroup: "Central"},
	{Name: "Koti", AreaGroup: "Central"},
	{Name: "Nampally", AreaGroup: "Central"},
	{Name: "Himayatnagar", AreaGroup: "Central"},
	{Name: "Banjara Hills", AreaGroup: "West"},
	{Name: "Jubilee Hills", AreaGroup: "West"},
	{Name: "Madhapur", AreaGroup: "West"},
	{Name: "Hitech City", AreaGroup: "West"},
	{Name: "Kondapur", AreaGroup: "West"},
	{Name: "Gachibowli", AreaGroup: "West"},
	{Name: "Manikonda", AreaGroup: "West"},
	{Name: "Financial District", AreaGroup: "West"},
	{Name: "Secunderabad", AreaGroup: "North"},
	{Name: "Begumpet", AreaGroup: "North"},
	{Name: "Tarnaka", AreaGroup: "North"},
	{Name: "Kukatpally", AreaGroup: "North"},
	{Name: "Uppal", AreaGroup: "East"},
	{Name: "LB Nagar", AreaGroup: "East"},
	{Name: "Dilsukhnagar", AreaGroup: "East"},
	{Name: "Mehdipatnam", AreaGroup: "South"},
	{Name: "Tolichowki", AreaGroup: "South"},
	{Name: "Attapur", AreaGroup: "South"},
	{Name: "Miyapur", AreaGroup: "Outer"},
	{Name: "Chandanagar", AreaGroup: "Outer"},
	{Name: "Kompally", AreaGroup: "Outer"},
}

// DefaultPlans is the 28-day catalog plus the one-off trial.
var DefaultPlans = []models.Plan{
	{Name: "1 Person (Monthly)", People: 1, Price: 6800, Deposit: 2100, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "2 People (Monthly)", People: 2, Price: 7800, Deposit: 2100, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "3 People (Monthly)", People: 3, Price: 9800, Deposit: 2100, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "4 People (Monthly)", People: 4, Price: 12500, Deposit: 3800, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "5 People (Monthly)", People: 5, Price: 15000, Deposit: 3800, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "6 People (Monthly)", People: 6, Price: 17500, Deposit: 3800, DurationDays: 28, Description: "28 Days Subscription"},
	{Name: "Trial Meal (2 Pax)", People: 2, Price: 360, Deposit: 0, DurationDays: 1, Description: "One time trial"},
}

// SeedResult counts rows inserted by SeedDefaults.
type SeedResult struct {
	Zones int
	Plans int
}

// SeedDefaults inserts DefaultZones and DefaultPlans. Rows whose name already
// exists are left alone, so it can run on every deploy.
func SeedDefaults(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	for _, z := range DefaultZones {
		tag, err := db.Pool.Exec(ctx, `
			INSERT INTO zones (id, name, area_group) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING`,
			uuid.NewString(), z.Name, z.AreaGroup,
		)
		if err != nil {
			return res, fmt.Errorf("seed zone %s: %w", z.Name, err)
		}
		res.Zones += int(tag.RowsAffected())
	}
	for _, p := range DefaultPlans {
		if err := ValidatePlan(p); err != nil {
			return res, fmt.Errorf("seed plan %s: %w", p.Name, err)
		}
		tag, err := db.Pool.Exec(ctx, `
			INSERT INTO plans (id, name, people, price, deposit, duration_days, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO NOTHING`,
			uuid.NewString(), p.Name, p.People, p.Price, p.Deposit, p.DurationDays, p.Description,
		)
		if err != nil {
			return res, fmt.Errorf("seed plan %s: %w", p.Name, err)
		}
		res.Plans += int(tag.RowsAffected())
	}
	return res, nil
}
