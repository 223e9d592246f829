package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"mealroute/archive"
	"mealroute/models"
	"mealroute/services"
)

// Telegram rejects messages over 4096 characters.
const maxMessageLen = 4000

// parseCommand splits "/cmd@bot a b" into ("cmd", ["a", "b"]). Text that is
// not a command yields "".
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}

// parseDateArg returns the first argument as a date, or today when absent.
func parseDateArg(args []string, today models.Date) (models.Date, error) {
	if len(args) == 0 {
		return today, nil
	}
	return models.ParseDate(args[0])
}

// parseDispatchArgs reads "[date] [force]" in either order.
func parseDispatchArgs(args []string, today models.Date) (models.Date, bool, error) {
	day, force := today, false
	for _, a := range args {
		if strings.EqualFold(a, "force") {
			force = true
			continue
		}
		d, err := models.ParseDate(a)
		if err != nil {
			return models.Date{}, false, err
		}
		day = d
	}
	return day, force, nil
}

const addEventUsage = "Usage: /addevent <YYYY-MM-DD> <HH:MM> <pax> <amount> <advance> <name...>"

// parseEventArgs reads the /addevent arguments into an event.
func parseEventArgs(args []string) (models.CateringEvent, error) {
	if len(args) < 6 {
		return models.CateringEvent{}, errors.New(addEventUsage)
	}
	day, err := models.ParseDate(args[0])
	if err != nil {
		return models.CateringEvent{}, err
	}
	if _, err := time.Parse("15:04", args[1]); err != nil {
		return models.CateringEvent{}, fmt.Errorf("time %q: want HH:MM", args[1])
	}
	pax, err := strconv.Atoi(args[2])
	if err != nil || pax < 0 {
		return models.CateringEvent{}, fmt.Errorf("pax %q: want a number >= 0", args[2])
	}
	var money [2]int64
	for i, a := range args[3:5] {
		if money[i], err = strconv.ParseInt(a, 10, 64); err != nil || money[i] < 0 {
			return models.CateringEvent{}, fmt.Errorf("amount %q: want a number >= 0", a)
		}
	}
	if money[1] > money[0] {
		return models.CateringEvent{}, fmt.Errorf("advance %d exceeds amount %d", money[1], money[0])
	}
	return models.CateringEvent{
		Name:    strings.Join(args[5:], " "),
		Date:    day,
		Time:    args[1],
		Pax:     pax,
		Amount:  money[0],
		Advance: money[1],
	}, nil
}

// Record kinds /remove accepts.
var removeKinds = []string{"client", "staff", "plan", "zone"}

// parseRemoveArgs reads "/remove <kind> <id>".
func parseRemoveArgs(args []string) (kind, id string, err error) {
	usage := fmt.Errorf("usage: /remove %s <id>", strings.Join(removeKinds, "|"))
	if len(args) != 2 {
		return "", "", usage
	}
	kind = strings.ToLower(args[0])
	for _, k := range removeKinds {
		if k == kind {
			return kind, args[1], nil
		}
	}
	return "", "", usage
}

func monthStart(d models.Date) models.Date {
	t := d.Time()
	return models.NewDate(t.Year(), t.Month(), 1)
}

// splitMessage cuts text into chunks of at most limit bytes, on line breaks when possible.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
				cur.Reset()
			}
			cut := runeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
	}
	return chunks
}

// runeCut returns the largest index <= limit that does not split a UTF-8
// sequence. It always advances by at least one rune.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return cut
}

func formatDispatchResult(day models.Date, sent, failed, already int, force bool, unlinked []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚚 Dispatch %s\nSent: %d", day, sent)
	if failed > 0 {
		fmt.Fprintf(&b, "\nFailed: %d", failed)
	}
	if already > 0 && !force {
		fmt.Fprintf(&b, "\nAlready sent earlier: %d (use /dispatch %s force to resend)", already, day)
	}
	if len(unlinked) > 0 {
		fmt.Fprintf(&b, "\nNot linked to Telegram: %s", strings.Join(unlinked, ", "))
	}
	return b.String()
}

func formatExpiring(list []models.Client, today models.Date, days int) string {
	if len(list) == 0 {
		return fmt.Sprintf("No subscriptions ending within %d days.", days)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "⏳ Ending within %d days (%d)", days, len(list))
	for _, c := range list {
		left := services.DaysLeft(c, today)
		when := fmt.Sprintf("%d days left", left)
		switch left {
		case 0:
			when = "ends today"
		case 1:
			when = "1 day left"
		}
		fmt.Fprintf(&b, "\n• %s (%s) - %s, %s", c.Name, c.ID, c.EndDate, when)
	}
	return b.String()
}

func formatStats(st models.DashboardStats, tasks models.DailyTasks) string {
	total := tasks.Totals()
	unassigned := 0
	if g, ok := tasks.Groups[models.UnassignedGroup]; ok {
		unassigned = len(g.Items)
	}
	return fmt.Sprintf(
		"📈 Dashboard (%s)\n\nActive clients: %d\nExpiring soon: %d\nStaff: %d\n\nToday: %d stops · Deliver %d · Collect %d\nUnassigned: %d",
		tasks.Date, st.ActiveClients, st.ExpiringSoon, st.TotalStaff,
		tasks.ItemCount(), total.Tiffins, total.EmptyBoxes, unassigned,
	)
}

func formatHistory(runs []archive.Run, loc *time.Location) string {
	if len(runs) == 0 {
		return "No generations archived yet."
	}
	var b strings.Builder
	b.WriteString("🗂 Recent generations")
	for _, r := range runs {
		purpose := r.Format
		if purpose == "" {
			purpose = "-"
		}
		fmt.Fprintf(&b, "\n• %s for %s (%s): Deliver %d · Collect %d · %d drivers",
			r.GeneratedAt.In(loc).Format("02 Jan 15:04"), r.Date, purpose,
			r.Totals.Tiffins, r.Totals.EmptyBoxes, len(r.Groups))
	}
	return b.String()
}

func formatEvents(events []models.CateringEvent) string {
	if len(events) == 0 {
		return "No upcoming catering events."
	}
	var b strings.Builder
	b.WriteString("🍱 Upcoming events")
	for _, e := range events {
		fmt.Fprintf(&b, "\n• %s %s - %s", e.Date, e.Time, e.Name)
		if e.ClientName != "" {
			fmt.Fprintf(&b, " for %s", e.ClientName)
		}
		fmt.Fprintf(&b, "\n   %d pax · Total %d · Advance %d · Due %d · id %s", e.Pax, e.Amount, e.Advance, e.Balance(), e.ID)
	}
	return b.String()
}

func formatLedger(list []models.StaffCollection, from, to models.Date) string {
	if len(list) == 0 {
		return fmt.Sprintf("No collections between %s and %s.", from, to)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 Collections %s - %s", from, to)
	for _, c := range list {
		fmt.Fprintf(&b, "\n• %s: %d (%d entries)", c.StaffName, c.Total, c.Entries)
	}
	fmt.Fprintf(&b, "\nTotal: %d", services.GrandTotal(list))
	return b.String()
}
