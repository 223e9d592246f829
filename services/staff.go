package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"mealroute/db"
	"mealroute/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrStaffNotFound = errors.New("staff not found")

const staffSelect = `
	SELECT s.id, s.name, COALESCE(s.phone, ''), s.priority, s.chat_id,
	       COALESCE(array_agg(sz.zone_id ORDER BY sz.zone_id) FILTER (WHERE sz.zone_id IS NOT NULL), '{}')
	FROM staff s
	LEFT JOIN staff_zones sz ON sz.staff_id = s.id`

func scanStaff(row pgx.Row) (models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Priority, &s.ChatID, &s.ZoneIDs)
	return s, err
}

// ListStaff returns staff ordered by priority, then creation time. This order
// decides which driver gets a zone that several drivers cover.
func ListStaff(ctx context.Context) ([]models.Staff, error) {
	rows, err := db.Pool.Query(ctx, staffSelect+`
		GROUP BY s.id
		ORDER BY s.priority, s.created_at, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var list []models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetStaff loads a staff member by ID, or nil if there is none.
func GetStaff(ctx context.Context, id string) (*models.Staff, error) {
	s, err := scanStaff(db.Pool.QueryRow(ctx, staffSelect+` WHERE s.id = $1 GROUP BY s.id`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetStaffByChatID returns the staff member linked to a Telegram chat, or nil.
func GetStaffByChatID(ctx context.Context, chatID int64) (*models.Staff, error) {
	if chatID == 0 {
		return nil, nil
	}
	s, err := scanStaff(db.Pool.QueryRow(ctx, staffSelect+` WHERE s.chat_id = $1 GROUP BY s.id LIMIT 1`, chatID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// SaveStaff inserts or updates s together with its zone set and returns its ID.
func SaveStaff(ctx context.Context, s models.Staff) (string, error) {
	if strings.TrimSpace(s.Name) == "" {
		return "", fmt.Errorf("name is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	zones := models.NormalizeZoneIDs("", s.ZoneIDs)
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO staff (id, name, phone, priority)
			VALUES ($1, $2, NULLIF($3, ''), $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name, phone = EXCLUDED.phone, priority = EXCLUDED.priority, updated_at = now()`,
			s.ID, strings.TrimSpace(s.Name), strings.TrimSpace(s.Phone), s.Priority,
		)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM staff_zones WHERE staff_id = $1`, s.ID); err != nil {
			return err
		}
		for _, z := range zones {
			if _, err := tx.Exec(ctx, `INSERT INTO staff_zones (staff_id, zone_id) VALUES ($1, $2)`, s.ID, z); err != nil {
				return fmt.Errorf("zone %s: %w", z, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save staff: %w", err)
	}
	return s.ID, nil
}

func DeleteStaff(ctx context.Context, id string) error {
	res, err := db.Pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// NormalizePhone keeps the last 10 digits of a phone number, dropping
// country codes, spaces and punctuation.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return d
}

// PhonesMatch compares two phone numbers by their last 10 digits.
func PhonesMatch(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}

// LinkStaffChat finds the staff member whose phone matches and stores chatID
// on it. It returns nil when no staff member has that phone.
func LinkStaffChat(ctx context.Context, phone string, chatID int64) (*models.Staff, error) {
	list, err := ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		if !PhonesMatch(s.Phone, phone) {
			continue
		}
		_, err := db.Pool.Exec(ctx, `UPDATE staff SET chat_id = $1, updated_at = now() WHERE id = $2`, chatID, s.ID)
		if err != nil {
			return nil, fmt.Errorf("link staff chat: %w", err)
		}
		s.ChatID = chatID
		return &s, nil
	}
	return nil, nil
}

// UnlinkStaffChat clears the Telegram chat of a staff member, so the next
// dispatch reports them as not linked.
func UnlinkStaffChat(ctx context.Context, staffID string) error {
	res, err := db.Pool.Exec(ctx, `UPDATE staff SET chat_id = 0, updated_at = now() WHERE id = $1`, staffID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}
