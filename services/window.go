package services

import "mealroute/models"

// Window is an inclusive [Start, End] subscription interval.
type Window struct {
	Start models.Date
	End   models.Date
}

// WindowState reports whether a window covers a target day and the day before it.
type WindowState struct {
	Today     bool
	Yesterday bool
}

// ClientWindow returns the subscription window of c.
func ClientWindow(c models.Client) Window {
	return Window{Start: c.StartDate, End: c.EndDate}
}

// ActiveOn reports whether day falls inside w. Both ends count as inside.
func (w Window) ActiveOn(day models.Date) bool {
	return !day.Before(w.Start) && !day.After(w.End)
}

// Evaluate checks w against target and target-1.
func (w Window) Evaluate(target models.Date) WindowState {
	return WindowState{
		Today:     w.ActiveOn(target),
		Yesterday: w.ActiveOn(target.AddDays(-1)),
	}
}
