package services

import (
	"context"
	"encoding/json"
	"fmt"

	"mealroute/db"
	"mealroute/models"
)

const (
	outboundRole    = "system/outbound"
	sentViaDispatch = "task_dispatch"
)

// SaveOutboundMessage persists an outbound bot message with JSON metadata.
func SaveOutboundMessage(ctx context.Context, chatID int64, content string, meta map[string]any) error {
	metaJSON := "{}"
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO messages (chat_id, role, content, meta)
		VALUES ($1, $2, $3, $4::jsonb)`,
		chatID, outboundRole, content, metaJSON,
	)
	return err
}

// SaveDispatchMessage records that a driver was sent their task list for day.
func SaveDispatchMessage(ctx context.Context, chatID int64, staffID string, day models.Date, content string) error {
	return SaveOutboundMessage(ctx, chatID, content, map[string]any{
		"sent_via": sentViaDispatch,
		"staff_id": staffID,
		"date":     day.String(),
	})
}

// DispatchedStaff returns the IDs of staff already sent their list for day.
func DispatchedStaff(ctx context.Context, day models.Date) (map[string]bool, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT meta->>'staff_id' FROM messages
		WHERE role = $1 AND meta->>'sent_via' = $2 AND meta->>'date' = $3`,
		outboundRole, sentViaDispatch, day.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
