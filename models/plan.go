package models

// Plan is a catalog subscription plan. People is the number of boxes per delivery.
type Plan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	People       int    `json:"people"`
	Price        int64  `json:"price"`
	Deposit      int64  `json:"deposit"`
	DurationDays int    `json:"duration,omitempty"`
	Description  string `json:"description,omitempty"`
}

// BoxesPerDelivery returns People, or 1 when People is unset or not positive.
func (p Plan) BoxesPerDelivery() int {
	if p.People > 0 {
		return p.People
	}
	return 1
}
