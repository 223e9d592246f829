package services

import (
	"context"

	"mealroute/models"
)

// ComputeStats counts active clients, subscriptions expiring within days, and staff.
func ComputeStats(clients []models.Client, staff []models.Staff, today models.Date, days int) models.DashboardStats {
	st := models.DashboardStats{TotalStaff: len(staff)}
	for _, c := range clients {
		if c.IsActiveStatus() {
			st.ActiveClients++
		}
		if ExpiresWithinDays(c, today, days) {
			st.ExpiringSoon++
		}
	}
	return st
}

// DashboardStats loads clients and staff and computes the dashboard numbers.
func DashboardStats(ctx context.Context, today models.Date, days int) (models.DashboardStats, error) {
	clients, err := ListClients(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	staff, err := ListStaff(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return ComputeStats(clients, staff, today, days), nil
}
