package services

import (
	"fmt"
	"net/url"
	"strings"

	"mealroute/models"
)

// maxCardButtons caps map buttons on one card; Telegram rejects very large keyboards.
const maxCardButtons = 20

// CardButton is one inline button (text + callback_data or url).
type CardButton struct {
	Text         string
	CallbackData string
	URL          string // if set, use as URL button instead of callback
}

// CardContent is the text and optional inline keyboard of a bot message.
type CardContent struct {
	Text    string
	Buttons [][]CardButton
}

// AddonLabel is the add-on column text: "Rice (n)" or "-".
func AddonLabel(it models.TaskItem) string {
	if it.HasRice {
		return fmt.Sprintf("Rice (%d)", it.RiceQty)
	}
	return "-"
}

// MapsURL returns a Google Maps search link for address.
func MapsURL(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}

// BuildDriverCard renders one driver's list for day with a map button per stop.
func BuildDriverCard(g *models.DriverTaskGroup, day models.Date) CardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "🚚 Delivery List - %s\n", day)
	fmt.Fprintf(&b, "Driver: %s\n", g.BoyName)
	fmt.Fprintf(&b, "Deliver: %d | Collect: %d\n", g.Summary.Tiffins, g.Summary.EmptyBoxes)
	if len(g.Items) == 0 {
		b.WriteString("\nNo deliveries today.")
		return CardContent{Text: b.String()}
	}
	var buttons [][]CardButton
	for i, it := range g.Items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, it.ClientName)
		if it.IsTrial {
			b.WriteString(" [TRIAL]")
		}
		if it.ClientPhone != "" {
			fmt.Fprintf(&b, " · %s", it.ClientPhone)
		}
		if it.Address != "" {
			fmt.Fprintf(&b, "\n   %s", it.Address)
		}
		fmt.Fprintf(&b, "\n   Deliver %d (%s)", it.ToDeliver, it.Plan)
		if it.HasRice {
			fmt.Fprintf(&b, " + %s", AddonLabel(it))
		}
		if it.ToPickup > 0 {
			fmt.Fprintf(&b, " · Collect %d", it.ToPickup)
		}
		if it.Address != "" && len(buttons) < maxCardButtons {
			buttons = append(buttons, []CardButton{{
				Text: fmt.Sprintf("📍 %d. %s", i+1, it.ClientName),
				URL:  MapsURL(it.Address),
			}})
		}
	}
	return CardContent{Text: b.String(), Buttons: buttons}
}

// BuildAdminSummary renders every non-empty group of tasks with totals.
func BuildAdminSummary(tasks models.DailyTasks) CardContent {
	var b strings.Builder
	total := tasks.Totals()
	fmt.Fprintf(&b, "📋 Daily Delivery Tasks - %s\n", tasks.Date)
	fmt.Fprintf(&b, "Total: %d stops · Deliver %d · Collect %d\n", tasks.ItemCount(), total.Tiffins, total.EmptyBoxes)
	if tasks.ItemCount() == 0 {
		b.WriteString("\nNo deliveries found for this date. Check active subscriptions or staff assignments.")
	}
	tasks.Each(func(g *models.DriverTaskGroup) {
		if len(g.Items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s (%d stops): Deliver %d | Collect %d", g.BoyName, len(g.Items), g.Summary.Tiffins, g.Summary.EmptyBoxes)
		for _, it := range g.Items {
			fmt.Fprintf(&b, "\n  • %s - %d", it.ClientName, it.ToDeliver)
			if it.HasRice {
				fmt.Fprintf(&b, " + %s", AddonLabel(it))
			}
			if it.ToPickup > 0 {
				fmt.Fprintf(&b, " / collect %d", it.ToPickup)
			}
		}
		b.WriteString("\n")
	})
	day := tasks.Date.String()
	return CardContent{
		Text: strings.TrimRight(b.String(), "\n"),
		Buttons: [][]CardButton{
			{{Text: "📄 PDF", CallbackData: "pdf:" + day}, {Text: "📊 Excel", CallbackData: "xlsx:" + day}},
			{{Text: "🚚 Send to drivers", CallbackData: "dispatch:" + day}},
		},
	}
}
