package models

// CateringEvent is a one-off catering order.
type CateringEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ClientName  string `json:"clientName"`
	Address     string `json:"address"`
	Date        Date   `json:"date"`
	Time        string `json:"time"`
	Pax         int    `json:"pax"`
	Amount      int64  `json:"amount"`
	Advance     int64  `json:"advance"`
	Description string `json:"description,omitempty"`
}

// Balance is the amount still due.
func (e CateringEvent) Balance() int64 {
	return e.Amount - e.Advance
}
