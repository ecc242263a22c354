// Package schedule resolves which menus are due on a given weekday.
package schedule

import (
	"context"
	"time"

	"github.com/ksasaki/traininglog/internal/training/menus"
)

type menusLister interface {
	ListByScheduledDay(ctx context.Context, userID string, day menus.DayOfWeek) ([]menus.Menu, error)
}

type Resolver struct {
	menus menusLister
	// injectable for deterministic "today" in tests
	NowFunc func() time.Time
}

func NewResolver(menusRepo menusLister) *Resolver {
	return &Resolver{
		menus:   menusRepo,
		NowFunc: time.Now,
	}
}

// DayAt maps a point in time to its weekday, Sunday=0 through
// Saturday=6.
func DayAt(t time.Time) menus.DayOfWeek {
	return menus.AllDays[int(t.Weekday())]
}

func (r *Resolver) TodaysSchedule(ctx context.Context, userID string) (menus.DayOfWeek, []menus.Menu, error) {
	day := DayAt(r.NowFunc())
	scheduled, err := r.menus.ListByScheduledDay(ctx, userID, day)
	if err != nil {
		return day, nil, err
	}
	return day, scheduled, nil
}

func (r *Resolver) ScheduleByDay(ctx context.Context, userID string, day menus.DayOfWeek) ([]menus.Menu, error) {
	return r.menus.ListByScheduledDay(ctx, userID, day)
}
