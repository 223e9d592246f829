package models

// UnassignedGroup is the key of the catch-all group for clients without a driver.
const UnassignedGroup = "unassigned"

// TaskItem is one client's delivery for a day.
type TaskItem struct {
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Address     string `json:"address"`
	Plan        string `json:"plan"`
	ToDeliver   int    `json:"toDeliver"`
	HasRice     bool   `json:"hasRice"`
	RiceQty     int    `json:"riceQty"`
	ToPickup    int    `json:"toPickup"`
	IsTrial     bool   `json:"isTrial"`
}

// TaskSummary totals a group: Tiffins to deliver, EmptyBoxes to collect.
type TaskSummary struct {
	Tiffins    int `json:"tiffins"`
	EmptyBoxes int `json:"emptyBoxes"`
}

// DriverTaskGroup is a driver's list for a day.
type DriverTaskGroup struct {
	DriverID string      `json:"driverId"`
	BoyName  string      `json:"boyName"`
	BoyPhone string      `json:"boyPhone"`
	ChatID   int64       `json:"-"`
	Items    []TaskItem  `json:"items"`
	Summary  TaskSummary `json:"summary"`
}

// DailyTasks is the generated task sheet. Order lists the Groups keys in
// render order: the unassigned group first, then staff in input order.
type DailyTasks struct {
	Date   Date                        `json:"date"`
	Groups map[string]*DriverTaskGroup `json:"groups"`
	Order  []string                    `json:"-"`
}

// Each calls fn for every group in render order, empty groups included.
func (t DailyTasks) Each(fn func(g *DriverTaskGroup)) {
	for _, id := range t.Order {
		if g, ok := t.Groups[id]; ok {
			fn(g)
		}
	}
}

// Totals sums every group.
func (t DailyTasks) Totals() TaskSummary {
	var s TaskSummary
	for _, g := range t.Groups {
		s.Tiffins += g.Summary.Tiffins
		s.EmptyBoxes += g.Summary.EmptyBoxes
	}
	return s
}

// ItemCount returns the number of task items across all groups.
func (t DailyTasks) ItemCount() int {
	n := 0
	for _, g := range t.Groups {
		n += len(g.Items)
	}
	return n
}
