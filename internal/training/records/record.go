// Package records implements logged training sessions: one record per
// session against a menu, holding the ordered sets performed.
package records

import "time"

// DateLayout is the calendar date format records are keyed by.
const DateLayout = "2006-01-02"

type Set struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	// optional, seconds
	Duration *int `json:"duration,omitempty"`
	RestTime *int `json:"restTime,omitempty"`
}

type Record struct {
	ID     string `json:"id"`
	MenuID string `json:"menuId"`
	// calendar date of the session, YYYY-MM-DD, immutable after creation
	Date      string    `json:"date"`
	Sets      []Set     `json:"sets"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
