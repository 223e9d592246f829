package models

const (
	ClientStatusActive    = "active"
	ClientStatusPaused    = "paused"
	ClientStatusCancelled = "cancelled"

	// PlanCustom marks a client without a catalog plan; such clients get one box.
	PlanCustom = "custom"
)

// Client is a subscriber. StartDate and EndDate bound the subscription, both inclusive.
type Client struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	ZoneID           string `json:"zoneId"`
	PlanID           string `json:"planId"`
	AssignedDriverID string `json:"assignedDriverId,omitempty"`
	StartDate        Date   `json:"startDate"`
	EndDate          Date   `json:"endDate"`
	Status           string `json:"status,omitempty"`
	IsTrial          bool   `json:"isTrial"`
	HasRice          bool   `json:"hasRice"`
	RiceQty          int    `json:"riceQty"`
	CustomCost       int64  `json:"customCost,omitempty"`
}

// IsActiveStatus reports whether the status allows scheduling. An unset status counts as active.
func (c Client) IsActiveStatus() bool {
	return c.Status == "" || c.Status == ClientStatusActive
}
