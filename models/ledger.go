package models

import "time"

// LedgerTypeCollection is cash a driver collected from a client.
const LedgerTypeCollection = "collection"

type LedgerEntry struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staffId"`
	Amount    int64     `json:"amount"`
	Date      Date      `json:"date"`
	Type      string    `json:"type"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// StaffCollection totals ledger collections for one driver.
type StaffCollection struct {
	StaffID   string
	StaffName string
	Total     int64
	Entries   int
}

type DashboardStats struct {
	ActiveClients int
	ExpiringSoon  int
	TotalStaff    int
}
