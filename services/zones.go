package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
)

var ErrZoneNotFound = errors.New("zone not found")

// ListZones returns all zones grouped by area.
func ListZones(ctx context.Context) ([]models.Zone, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(area_group, '')
		FROM zones
		ORDER BY area_group NULLS LAST, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var res []models.Zone
	for rows.Next() {
		var z models.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.AreaGroup); err != nil {
			return nil, err
		}
		res = append(res, z)
	}
	return res, rows.Err()
}

// SaveZone inserts or updates a zone and returns its ID.
func SaveZone(ctx context.Context, z models.Zone) (string, error) {
	if strings.TrimSpace(z.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO zones (id, name, area_group)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, area_group = EXCLUDED.area_group`,
		z.ID, strings.TrimSpace(z.Name), z.AreaGroup,
	)
	if err != nil {
		return "", fmt.Errorf("save zone: %w", err)
	}
	return z.ID, nil
}

// DeleteZone removes a zone. Clients in it keep their record with no zone and
// fall into the unassigned group until reassigned.
func DeleteZone(ctx context.Context, id string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM zones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrZoneNotFound
	}
	return nil
}
