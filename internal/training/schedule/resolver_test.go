package schedule_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/storage"
	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/internal/training/schedule"
)

func TestDayAt(t *testing.T) {
	testCases := []struct {
		date     time.Time
		expected menus.DayOfWeek
	}{
		{time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), menus.Monday},
		{time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC), menus.Thursday},
		{time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC), menus.Saturday},
		{time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC), menus.Sunday},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, schedule.DayAt(tc.date), tc.date.String())
	}
}

func TestResolver_ScheduleByDay(t *testing.T) {
	menusRepo := menus.NewRepo(storage.NewMemoryAdapter())
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, menusRepo.Add(ctx, "u1", menus.Menu{
		ID:            "m1",
		Name:          "Squat",
		ScheduledDays: []menus.DayOfWeek{menus.Monday, menus.Thursday},
		CreatedAt:     now,
		UpdatedAt:     now,
	}))

	resolver := schedule.NewResolver(menusRepo)

	monday, err := resolver.ScheduleByDay(ctx, "u1", menus.Monday)
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, "m1", monday[0].ID)

	tuesday, err := resolver.ScheduleByDay(ctx, "u1", menus.Tuesday)
	require.NoError(t, err)
	assert.Empty(t, tuesday)
}

func TestResolver_TodaysSchedule(t *testing.T) {
	menusRepo := menus.NewRepo(storage.NewMemoryAdapter())
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, menusRepo.Add(ctx, "u1", menus.Menu{
		ID:            "m1",
		Name:          "Squat",
		ScheduledDays: []menus.DayOfWeek{menus.Monday},
		CreatedAt:     now,
		UpdatedAt:     now,
	}))

	resolver := schedule.NewResolver(menusRepo)
	// a Monday
	resolver.NowFunc = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	day, scheduled, err := resolver.TodaysSchedule(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, menus.Monday, day)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "m1", scheduled[0].ID)
}

func TestHandler_Today(t *testing.T) {
	menusRepo := menus.NewRepo(storage.NewMemoryAdapter())
	resolver := schedule.NewResolver(menusRepo)
	// a Sunday, nothing scheduled
	resolver.NowFunc = func() time.Time { return time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC) }
	handler := schedule.NewHandler(resolver)

	req := httptest.NewRequest("GET", "/api/schedule/today", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
	rr := httptest.NewRecorder()
	handler.HandleToday(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env struct {
		Success bool                           `json:"success"`
		Data    schedule.TodayScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, menus.Sunday, env.Data.Day)
	assert.Empty(t, env.Data.Menus)
}
