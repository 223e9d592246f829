package bot

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealroute/archive"
	"mealroute/models"
)

var today = models.MustParseDate("2024-01-15")

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		cmd  string
		args []string
	}{
		{"/tasks", "tasks", []string{}},
		{"/tasks 2024-01-16", "tasks", []string{"2024-01-16"}},
		{"/PDF@mealroute_bot  2024-01-16 ", "pdf", []string{"2024-01-16"}},
		{"hello", "", nil},
		{"", "", nil},
	}
	for _, tt := range tests {
		cmd, args := parseCommand(tt.text)
		assert.Equal(t, tt.cmd, cmd, tt.text)
		assert.Equal(t, tt.args, args, tt.text)
	}
}

func TestParseDateArg(t *testing.T) {
	d, err := parseDateArg(nil, today)
	require.NoError(t, err)
	assert.Equal(t, today, d)

	d, err = parseDateArg([]string{"2024-02-01"}, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", d.String())

	_, err = parseDateArg([]string{"tomorrow"}, today)
	assert.Error(t, err)
}

func TestParseDispatchArgs(t *testing.T) {
	day, force, err := parseDispatchArgs(nil, today)
	require.NoError(t, err)
	assert.Equal(t, today, day)
	assert.False(t, force)

	day, force, err = parseDispatchArgs([]string{"force", "2024-01-16"}, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", day.String())
	assert.True(t, force)

	_, _, err = parseDispatchArgs([]string{"now"}, today)
	assert.Error(t, err)
}

func TestMonthStart(t *testing.T) {
	assert.Equal(t, "2024-01-01", monthStart(today).String())
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	text := "aaaa\nbbbb\ncccc"
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, splitMessage(text, 10))

	long := strings.Repeat("x", 25)
	chunks := splitMessage(long, 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, chunks)
	for _, c := range splitMessage(strings.Repeat("line of text\n", 50), 100) {
		assert.LessOrEqual(t, len(c), 100)
	}
}

func TestSplitMessage_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("a", maxMessageLen-1) + strings.Repeat("ह", 10)
	chunks := splitMessage(text, maxMessageLen)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk of %d bytes is not valid UTF-8", len(c))
		assert.LessOrEqual(t, len(c), maxMessageLen)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
	assert.Len(t, chunks[0], maxMessageLen-1)

	for _, c := range splitMessage(strings.Repeat("ह", 5), 2) {
		assert.Equal(t, "ह", c)
	}
}

func TestFormatExpiring(t *testing.T) {
	list := []models.Client{
		{ID: "c1", Name: "Ravi", EndDate: today},
		{ID: "c2", Name: "Sita", EndDate: today.AddDays(1)},
		{ID: "c3", Name: "Anu", EndDate: today.AddDays(3)},
	}
	out := formatExpiring(list, today, 3)
	assert.Contains(t, out, "Ravi (c1) - 2024-01-15, ends today")
	assert.Contains(t, out, "Sita (c2) - 2024-01-16, 1 day left")
	assert.Contains(t, out, "Anu (c3) - 2024-01-18, 3 days left")
	assert.Equal(t, "No subscriptions ending within 3 days.", formatExpiring(nil, today, 3))
}

func TestFormatDispatchResult(t *testing.T) {
	out := formatDispatchResult(today, 2, 1, 1, false, []string{"Babu"})
	assert.Contains(t, out, "Sent: 2")
	assert.Contains(t, out, "Failed: 1")
	assert.Contains(t, out, "/dispatch 2024-01-15 force")
	assert.Contains(t, out, "Not linked to Telegram: Babu")

	forced := formatDispatchResult(today, 3, 0, 1, true, nil)
	assert.NotContains(t, forced, "Already sent")
	assert.NotContains(t, forced, "Failed")
}

func TestFormatStats(t *testing.T) {
	tasks := models.DailyTasks{
		Date: today,
		Groups: map[string]*models.DriverTaskGroup{
			models.UnassignedGroup: {Items: []models.TaskItem{{ToDeliver: 1}}, Summary: models.TaskSummary{Tiffins: 1}},
		},
		Order: []string{models.UnassignedGroup},
	}
	out := formatStats(models.DashboardStats{ActiveClients: 5, ExpiringSoon: 2, TotalStaff: 3}, tasks)
	assert.Contains(t, out, "Active clients: 5")
	assert.Contains(t, out, "Expiring soon: 2")
	assert.Contains(t, out, "Today: 1 stops · Deliver 1 · Collect 0")
	assert.Contains(t, out, "Unassigned: 1")
}

func TestFormatHistory(t *testing.T) {
	runs := []archive.Run{{
		Date:        today,
		GeneratedAt: time.Date(2024, 1, 15, 1, 30, 0, 0, time.UTC),
		Format:      "pdf",
		Totals:      models.TaskSummary{Tiffins: 12, EmptyBoxes: 10},
		Groups:      []archive.GroupSummary{{Driver: "Anil"}, {Driver: "Babu"}},
	}}
	loc := time.FixedZone("IST", 5*3600+1800)
	out := formatHistory(runs, loc)
	assert.Contains(t, out, "15 Jan 07:00 for 2024-01-15 (pdf): Deliver 12 · Collect 10 · 2 drivers")
	assert.Equal(t, "No generations archived yet.", formatHistory(nil, loc))
}

func TestFormatEventsAndLedger(t *testing.T) {
	events := []models.CateringEvent{{ID: "e1", Name: "Wedding", ClientName: "Rao", Date: today, Time: "19:00", Pax: 100, Amount: 50000, Advance: 20000}}
	out := formatEvents(events)
	assert.Contains(t, out, "2024-01-15 19:00 - Wedding for Rao")
	assert.Contains(t, out, "Due 30000 · id e1")

	ledger := formatLedger([]models.StaffCollection{
		{StaffName: "Anil", Total: 1500, Entries: 2},
		{StaffName: "Babu", Total: 500, Entries: 1},
	}, monthStart(today), today)
	assert.Contains(t, ledger, "Collections 2024-01-01 - 2024-01-15")
	assert.Contains(t, ledger, "Anil: 1500 (2 entries)")
	assert.Contains(t, ledger, "Total: 2000")
}

func TestParseEventArgs(t *testing.T) {
	e, err := parseEventArgs(strings.Fields("2024-02-10 19:30 120 60000 20000 Rao wedding reception"))
	require.NoError(t, err)
	assert.Equal(t, "Rao wedding reception", e.Name)
	assert.Equal(t, "2024-02-10", e.Date.String())
	assert.Equal(t, "19:30", e.Time)
	assert.Equal(t, 120, e.Pax)
	assert.Equal(t, int64(60000), e.Amount)
	assert.Equal(t, int64(20000), e.Advance)
	assert.Equal(t, int64(40000), e.Balance())

	tests := []struct {
		name string
		args string
	}{
		{"too few", "2024-02-10 19:30 120 60000 20000"},
		{"bad date", "10-02-2024 19:30 120 60000 20000 Party"},
		{"bad time", "2024-02-10 7pm 120 60000 20000 Party"},
		{"negative pax", "2024-02-10 19:30 -1 60000 20000 Party"},
		{"bad amount", "2024-02-10 19:30 120 60k 20000 Party"},
		{"advance over amount", "2024-02-10 19:30 120 1000 2000 Party"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseEventArgs(strings.Fields(tt.args))
			assert.Error(t, err)
		})
	}
}

func TestParseRemoveArgs(t *testing.T) {
	kind, id, err := parseRemoveArgs([]string{"Staff", "s1"})
	require.NoError(t, err)
	assert.Equal(t, "staff", kind)
	assert.Equal(t, "s1", id)

	for _, args := range [][]string{nil, {"client"}, {"driver", "d1"}, {"zone", "z1", "extra"}} {
		_, _, err := parseRemoveArgs(args)
		assert.Error(t, err, "%v", args)
	}
}
