package services

import "mealroute/models"

const (
	unassignedName  = "UNASSIGNED"
	unassignedPhone = "-"
	customPlanLabel = "Custom"
)

// TaskEngine builds daily task sheets. Staff order is significant: when several
// drivers cover a zone, the first one in the slice gets the client.
// ListStaff returns staff ordered by priority, so that order is the one to pass.
type TaskEngine struct {
	staff     []models.Staff
	staffByID map[string]int
	zoneOwner map[string]int
	plans     map[string]models.Plan
}

// NewTaskEngine indexes staff and plans once; the engine can then be reused for any date.
func NewTaskEngine(staff []models.Staff, plans []models.Plan) *TaskEngine {
	e := &TaskEngine{
		staff:     staff,
		staffByID: make(map[string]int, len(staff)),
		zoneOwner: make(map[string]int),
		plans:     make(map[string]models.Plan, len(plans)),
	}
	for i, s := range staff {
		if _, dup := e.staffByID[s.ID]; !dup {
			e.staffByID[s.ID] = i
		}
		for _, z := range s.ZoneIDs {
			if _, taken := e.zoneOwner[z]; !taken {
				e.zoneOwner[z] = i
			}
		}
	}
	for _, p := range plans {
		e.plans[p.ID] = p
	}
	return e
}

// GenerateDailyTasks is NewTaskEngine(staff, plans).Generate(target, clients).
func GenerateDailyTasks(target models.Date, clients []models.Client, staff []models.Staff, plans []models.Plan) models.DailyTasks {
	return NewTaskEngine(staff, plans).Generate(target, clients)
}

// Generate returns one group per staff member plus the unassigned group, with
// every client scheduled for target in exactly one of them.
func (e *TaskEngine) Generate(target models.Date, clients []models.Client) models.DailyTasks {
	out := models.DailyTasks{
		Date:   target,
		Groups: make(map[string]*models.DriverTaskGroup, len(e.staff)+1),
		Order:  make([]string, 0, len(e.staff)+1),
	}
	out.Groups[models.UnassignedGroup] = &models.DriverTaskGroup{
		DriverID: models.UnassignedGroup,
		BoyName:  unassignedName,
		BoyPhone: unassignedPhone,
		Items:    []models.TaskItem{},
	}
	out.Order = append(out.Order, models.UnassignedGroup)
	for _, s := range e.staff {
		if _, ok := out.Groups[s.ID]; ok {
			continue
		}
		out.Groups[s.ID] = &models.DriverTaskGroup{
			DriverID: s.ID,
			BoyName:  s.Name,
			BoyPhone: s.Phone,
			ChatID:   s.ChatID,
			Items:    []models.TaskItem{},
		}
		out.Order = append(out.Order, s.ID)
	}

	for _, c := range clients {
		state := ClientWindow(c).Evaluate(target)
		if !state.Today || !c.IsActiveStatus() {
			continue
		}
		item := e.taskItem(c, state)
		g := out.Groups[e.resolveDriver(c)]
		g.Items = append(g.Items, item)
		g.Summary.Tiffins += item.ToDeliver
		g.Summary.EmptyBoxes += item.ToPickup
	}
	return out
}

// resolveDriver returns the group key for c: the override driver if it exists,
// else the first driver covering c's zone, else the unassigned group.
func (e *TaskEngine) resolveDriver(c models.Client) string {
	if c.AssignedDriverID != "" {
		if i, ok := e.staffByID[c.AssignedDriverID]; ok {
			return e.staff[i].ID
		}
	}
	if c.ZoneID != "" {
		if i, ok := e.zoneOwner[c.ZoneID]; ok {
			return e.staff[i].ID
		}
	}
	return models.UnassignedGroup
}

// boxes returns the per-delivery box count and plan label for c.
func (e *TaskEngine) boxes(c models.Client) (int, string) {
	if c.PlanID != models.PlanCustom {
		if p, ok := e.plans[c.PlanID]; ok {
			return p.BoxesPerDelivery(), p.Name
		}
	}
	return 1, customPlanLabel
}

func (e *TaskEngine) taskItem(c models.Client, state WindowState) models.TaskItem {
	deliver, label := e.boxes(c)
	pickup := 0
	// Trial orders are one-off: nothing goes back.
	if state.Yesterday && !c.IsTrial {
		pickup = deliver
	}
	return models.TaskItem{
		ClientID:    c.ID,
		ClientName:  c.Name,
		ClientPhone: c.Phone,
		Address:     c.Address,
		Plan:        label,
		ToDeliver:   deliver,
		HasRice:     c.HasRice,
		RiceQty:     c.RiceQty,
		ToPickup:    pickup,
		IsTrial:     c.IsTrial,
	}
}
