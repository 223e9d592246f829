package report

import (
	"strconv"

	"mealroute/models"
)

// Columns is the header of the flat exports (XLSX, CSV).
var Columns = []string{"Date", "Driver", "Client", "Phone", "Address", "Deliver_Boxes", "Rice", "Collect_Empty"}

// Row is one task item flattened with its driver.
type Row struct {
	Date         string `json:"date"`
	Driver       string `json:"driver"`
	Client       string `json:"client"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DeliverBoxes int    `json:"deliverBoxes"`
	Rice         int    `json:"rice"`
	CollectEmpty int    `json:"collectEmpty"`
}

// Rows flattens tasks in group render order. Rice is the quantity when the
// client takes rice, else 0.
func Rows(tasks models.DailyTasks) []Row {
	var rows []Row
	day := tasks.Date.String()
	tasks.Each(func(g *models.DriverTaskGroup) {
		for _, it := range g.Items {
			rice := 0
			if it.HasRice {
				rice = it.RiceQty
			}
			rows = append(rows, Row{
				Date:         day,
				Driver:       g.BoyName,
				Client:       it.ClientName,
				Phone:        it.ClientPhone,
				Address:      it.Address,
				DeliverBoxes: it.ToDeliver,
				Rice:         rice,
				CollectEmpty: it.ToPickup,
			})
		}
	})
	return rows
}

// Strings returns r in Columns order.
func (r Row) Strings() []string {
	return []string{
		r.Date,
		r.Driver,
		r.Client,
		r.Phone,
		r.Address,
		strconv.Itoa(r.DeliverBoxes),
		strconv.Itoa(r.Rice),
		strconv.Itoa(r.CollectEmpty),
	}
}

func (r Row) values() []interface{} {
	return []interface{}{r.Date, r.Driver, r.Client, r.Phone, r.Address, r.DeliverBoxes, r.Rice, r.CollectEmpty}
}
