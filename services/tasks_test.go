package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealroute/models"
)

var (
	jan1  = models.MustParseDate("2024-01-01")
	jan14 = models.MustParseDate("2024-01-14")
	jan15 = models.MustParseDate("2024-01-15")
	jan31 = models.MustParseDate("2024-01-31")
)

func testPlans() []models.Plan {
	return []models.Plan{
		{ID: "p1", Name: "1 Person", People: 1},
		{ID: "p2", Name: "2 People", People: 2},
		{ID: "p0", Name: "Legacy", People: 0},
	}
}

func testStaff() []models.Staff {
	return []models.Staff{
		{ID: "a", Name: "Anil", Phone: "900", ZoneIDs: []string{"z1"}},
		{ID: "b", Name: "Babu", Phone: "901", ZoneIDs: []string{"z2", "z3"}},
		{ID: "c", Name: "Chandu", Phone: "902", ZoneIDs: []string{"z2"}},
	}
}

func client(id, zone, plan string) models.Client {
	return models.Client{
		ID: id, Name: "Client " + id, Phone: "98" + id, Address: id + " Street",
		ZoneID: zone, PlanID: plan,
		StartDate: jan1, EndDate: jan31,
		Status: models.ClientStatusActive,
	}
}

// groupOf returns the group key holding clientID, failing if it appears in zero or several groups.
func groupOf(t *testing.T, tasks models.DailyTasks, clientID string) (string, models.TaskItem) {
	t.Helper()
	var key string
	var item models.TaskItem
	hits := 0
	for k, g := range tasks.Groups {
		for _, it := range g.Items {
			if it.ClientID == clientID {
				key, item = k, it
				hits++
			}
		}
	}
	require.Equal(t, 1, hits, "client %s must appear in exactly one group", clientID)
	return key, item
}

func TestGenerate_TwoPersonPlanMidMonth(t *testing.T) {
	tasks := GenerateDailyTasks(jan15, []models.Client{client("1", "z1", "p2")}, testStaff(), testPlans())
	key, item := groupOf(t, tasks, "1")
	assert.Equal(t, "a", key)
	assert.Equal(t, 2, item.ToDeliver)
	assert.Equal(t, 2, item.ToPickup)
	assert.Equal(t, "2 People", item.Plan)
}

func TestGenerate_FirstDayHasNoPickup(t *testing.T) {
	tasks := GenerateDailyTasks(jan1, []models.Client{client("1", "z1", "p2")}, testStaff(), testPlans())
	_, item := groupOf(t, tasks, "1")
	assert.Equal(t, 2, item.ToDeliver)
	assert.Equal(t, 0, item.ToPickup)
}

func TestGenerate_TrialNeverPicksUp(t *testing.T) {
	c := client("1", "z1", "p2")
	c.IsTrial = true
	tasks := GenerateDailyTasks(jan15, []models.Client{c}, testStaff(), testPlans())
	_, item := groupOf(t, tasks, "1")
	assert.Equal(t, 2, item.ToDeliver)
	assert.Equal(t, 0, item.ToPickup)
	assert.True(t, item.IsTrial)
}

func TestGenerate_Eligibility(t *testing.T) {
	unset := client("unset", "z1", "p1")
	unset.Status = ""
	paused := client("paused", "z1", "p1")
	paused.Status = models.ClientStatusPaused
	cancelled := client("cancelled", "z1", "p1")
	cancelled.Status = models.ClientStatusCancelled
	expired := client("expired", "z1", "p1")
	expired.EndDate = jan14
	future := client("future", "z1", "p1")
	future.StartDate = jan31
	lastDay := client("lastday", "z1", "p1")
	lastDay.EndDate = jan15

	tasks := GenerateDailyTasks(jan15, []models.Client{unset, paused, cancelled, expired, future, lastDay}, testStaff(), testPlans())

	var ids []string
	tasks.Each(func(g *models.DriverTaskGroup) {
		for _, it := range g.Items {
			ids = append(ids, it.ClientID)
		}
	})
	assert.ElementsMatch(t, []string{"unset", "lastday"}, ids)
}

func TestGenerate_OverrideBeatsZone(t *testing.T) {
	c := client("1", "z1", "p1")
	c.AssignedDriverID = "b"
	tasks := GenerateDailyTasks(jan15, []models.Client{c}, testStaff(), testPlans())
	key, _ := groupOf(t, tasks, "1")
	assert.Equal(t, "b", key)
}

func TestGenerate_UnknownOverrideFallsBackToZone(t *testing.T) {
	c := client("1", "z2", "p1")
	c.AssignedDriverID = "ghost"
	tasks := GenerateDailyTasks(jan15, []models.Client{c}, testStaff(), testPlans())
	key, _ := groupOf(t, tasks, "1")
	assert.Equal(t, "b", key, "override miss should fall through to the zone match")
}

func TestGenerate_FirstZoneMatchWins(t *testing.T) {
	// b and c both cover z2; b comes first.
	tasks := GenerateDailyTasks(jan15, []models.Client{client("1", "z2", "p1"), client("2", "z2", "p1")}, testStaff(), testPlans())
	for _, id := range []string{"1", "2"} {
		key, _ := groupOf(t, tasks, id)
		assert.Equal(t, "b", key)
	}
	assert.Empty(t, tasks.Groups["c"].Items)

	staff := testStaff()
	staff[1], staff[2] = staff[2], staff[1]
	tasks = GenerateDailyTasks(jan15, []models.Client{client("1", "z2", "p1")}, staff, testPlans())
	key, _ := groupOf(t, tasks, "1")
	assert.Equal(t, "c", key)
}

func TestGenerate_NoZoneMatchIsUnassigned(t *testing.T) {
	tasks := GenerateDailyTasks(jan15, []models.Client{client("1", "z9", "p1"), client("2", "", "p1")}, testStaff(), testPlans())
	for _, id := range []string{"1", "2"} {
		key, _ := groupOf(t, tasks, id)
		assert.Equal(t, models.UnassignedGroup, key)
	}
	u := tasks.Groups[models.UnassignedGroup]
	assert.Equal(t, "UNASSIGNED", u.BoyName)
	assert.Equal(t, "-", u.BoyPhone)
}

func TestGenerate_AllGroupsPresentWhenEmpty(t *testing.T) {
	tasks := GenerateDailyTasks(jan15, nil, testStaff(), testPlans())
	require.Len(t, tasks.Groups, 4)
	for _, k := range []string{models.UnassignedGroup, "a", "b", "c"} {
		g, ok := tasks.Groups[k]
		require.True(t, ok, "group %s missing", k)
		assert.Empty(t, g.Items)
		assert.Equal(t, models.TaskSummary{}, g.Summary)
	}
	assert.Equal(t, []string{models.UnassignedGroup, "a", "b", "c"}, tasks.Order)

	noStaff := GenerateDailyTasks(jan15, nil, nil, nil)
	assert.Contains(t, noStaff.Groups, models.UnassignedGroup)
}

func TestGenerate_DeliveryQuantities(t *testing.T) {
	custom := client("custom", "z1", models.PlanCustom)
	unknown := client("unknown", "z1", "no-such-plan")
	zero := client("zero", "z1", "p0")
	tasks := GenerateDailyTasks(jan15, []models.Client{custom, unknown, zero}, testStaff(), testPlans())

	_, it := groupOf(t, tasks, "custom")
	assert.Equal(t, 1, it.ToDeliver)
	assert.Equal(t, 1, it.ToPickup)
	assert.Equal(t, "Custom", it.Plan)

	_, it = groupOf(t, tasks, "unknown")
	assert.Equal(t, 1, it.ToDeliver)
	assert.Equal(t, 1, it.ToPickup)
	assert.Equal(t, "Custom", it.Plan)

	_, it = groupOf(t, tasks, "zero")
	assert.Equal(t, 1, it.ToDeliver)
	assert.Equal(t, "Legacy", it.Plan)
}

func TestGenerate_RiceIsPassthrough(t *testing.T) {
	c := client("1", "z1", "p2")
	c.HasRice = true
	c.RiceQty = 3
	tasks := GenerateDailyTasks(jan15, []models.Client{c}, testStaff(), testPlans())
	_, it := groupOf(t, tasks, "1")
	assert.True(t, it.HasRice)
	assert.Equal(t, 3, it.RiceQty)
	assert.Equal(t, 2, it.ToDeliver)
	assert.Equal(t, 2, it.ToPickup)
}

func TestGenerate_SummariesAndOrder(t *testing.T) {
	c1 := client("1", "z1", "p2")
	c2 := client("2", "z1", "p1")
	c2.StartDate = jan15 // first day, no pickup
	c3 := client("3", "z1", "p2")
	c3.IsTrial = true
	tasks := GenerateDailyTasks(jan15, []models.Client{c1, c2, c3}, testStaff(), testPlans())

	g := tasks.Groups["a"]
	require.Len(t, g.Items, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{g.Items[0].ClientID, g.Items[1].ClientID, g.Items[2].ClientID})

	deliver, pickup := 0, 0
	for _, it := range g.Items {
		deliver += it.ToDeliver
		pickup += it.ToPickup
	}
	assert.Equal(t, models.TaskSummary{Tiffins: deliver, EmptyBoxes: pickup}, g.Summary)
	assert.Equal(t, models.TaskSummary{Tiffins: 5, EmptyBoxes: 2}, g.Summary)
	assert.Equal(t, 3, tasks.ItemCount())
	assert.Equal(t, models.TaskSummary{Tiffins: 5, EmptyBoxes: 2}, tasks.Totals())
}

func TestTaskEngine_ReusableAcrossDates(t *testing.T) {
	e := NewTaskEngine(testStaff(), testPlans())
	clients := []models.Client{client("1", "z1", "p2")}
	first := e.Generate(jan1, clients)
	mid := e.Generate(jan15, clients)
	again := e.Generate(jan1, clients)

	assert.Equal(t, 0, first.Groups["a"].Summary.EmptyBoxes)
	assert.Equal(t, 2, mid.Groups["a"].Summary.EmptyBoxes)
	assert.Equal(t, first, again)
}
