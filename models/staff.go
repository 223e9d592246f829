package models

import "encoding/json"

// Staff is a delivery driver. ZoneIDs is the normalized set of zones the driver covers.
type Staff struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	ZoneIDs  []string `json:"assignedZoneIds"`
	Priority int      `json:"priority,omitempty"`
	ChatID   int64    `json:"chatId,omitempty"`
}

// NormalizeZoneIDs merges the legacy single zone and the zone list into one
// de-duplicated list, keeping first-seen order.
func NormalizeZoneIDs(single string, list []string) []string {
	out := make([]string, 0, len(list)+1)
	seen := make(map[string]struct{}, len(list)+1)
	add := func(z string) {
		if z == "" {
			return
		}
		if _, ok := seen[z]; ok {
			return
		}
		seen[z] = struct{}{}
		out = append(out, z)
	}
	for _, z := range list {
		add(z)
	}
	add(single)
	return out
}

// UnmarshalJSON accepts both "assignedZoneId" and "assignedZoneIds".
func (s *Staff) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"`
		Phone           string   `json:"phone"`
		AssignedZoneID  string   `json:"assignedZoneId"`
		AssignedZoneIDs []string `json:"assignedZoneIds"`
		Priority        int      `json:"priority"`
		ChatID          int64    `json:"chatId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = Staff{
		ID:       raw.ID,
		Name:     raw.Name,
		Phone:    raw.Phone,
		ZoneIDs:  NormalizeZoneIDs(raw.AssignedZoneID, raw.AssignedZoneIDs),
		Priority: raw.Priority,
		ChatID:   raw.ChatID,
	}
	return nil
}
