// Package menus implements workout menu definitions: named, recurring
// workouts with the weekdays they are scheduled on.
package menus

import "time"

type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// AllDays in the weekday enum order used for "today" resolution,
// Sunday=0 through Saturday=6.
var AllDays = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

type Menu struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	ScheduledDays []DayOfWeek `json:"scheduledDays"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ScheduledOn reports whether the menu is scheduled on the given day.
func (m Menu) ScheduledOn(day DayOfWeek) bool {
	for _, d := range m.ScheduledDays {
		if d == day {
			return true
		}
	}
	return false
}
