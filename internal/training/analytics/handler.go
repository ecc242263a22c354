package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/internal/training/records"
	"github.com/ksasaki/traininglog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analytics_test

type recordsLister interface {
	List(ctx context.Context, userID string) ([]records.Record, error)
	ListByMenu(ctx context.Context, userID, menuID string) ([]records.Record, error)
}

type menusLister interface {
	List(ctx context.Context, userID string) ([]menus.Menu, error)
}

const (
	defaultWindowDays = 30

	// computed aggregates are cheap to rebuild, so the cache expires
	// quickly by default to keep fresh records visible
	defaultCacheTTLSeconds = 60
)

type SummaryResponse struct {
	TotalSessions    int                `json:"totalSessions"`
	WeeklyFrequency  []WeeklyFrequency  `json:"weeklyFrequency"`
	MonthlyFrequency []MonthlyFrequency `json:"monthlyFrequency"`
	MuscleGroups     []MuscleGroupStats `json:"muscleGroups"`
}

type Handler struct {
	records         recordsLister
	menus           menusLister
	cache           *freecache.Cache
	cacheTTLSeconds int

	// replaced in tests for deterministic windows
	NowFunc func() time.Time
}

func NewHandler(recordsRepo recordsLister, menusRepo menusLister, cacheTTLSeconds int) *Handler {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = defaultCacheTTLSeconds
	}
	megabyte := 1024 * 1024
	return &Handler{
		records:         recordsRepo,
		menus:           menusRepo,
		cache:           freecache.NewCache(10 * megabyte),
		cacheTTLSeconds: cacheTTLSeconds,
		NowFunc:         time.Now,
	}
}

// HandleSummary composes the dashboard payload: all frequency and
// muscle group aggregates over the requested window.
func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.summary")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	days, err := windowDays(r)
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	if handler.sendCached(w, userID, r) {
		return
	}

	recordList, menuList, err := handler.fetchRecordsAndMenus(ctx, userID)
	if err != nil {
		log.Errorf("analytics summary, fetch data for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	recent := FilterRecentRecords(recordList, days, handler.NowFunc())
	summary := SummaryResponse{
		TotalSessions:    len(recent),
		WeeklyFrequency:  CalculateWeeklyFrequency(recent),
		MonthlyFrequency: CalculateMonthlyFrequency(recent),
		MuscleGroups:     CalculateMuscleGroupStats(recent, menuList),
	}

	handler.sendAndCache(w, userID, r, summary)
}

// HandleFrequency serves the weekly or monthly session counts,
// selected by the `type` query parameter.
func (handler *Handler) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.frequency")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	frequencyType := r.URL.Query().Get("type")
	if frequencyType == "" {
		frequencyType = "weekly"
	}
	if frequencyType != "weekly" && frequencyType != "monthly" {
		pkg.SendError(w, http.StatusBadRequest, "invalid frequency type")
		return
	}

	days, err := windowDays(r)
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	if handler.sendCached(w, userID, r) {
		return
	}

	recordList, err := handler.records.List(ctx, userID)
	if err != nil {
		log.Errorf("analytics frequency, list records for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	recent := FilterRecentRecords(recordList, days, handler.NowFunc())

	var payload any
	if frequencyType == "monthly" {
		payload = CalculateMonthlyFrequency(recent)
	} else {
		payload = CalculateWeeklyFrequency(recent)
	}

	handler.sendAndCache(w, userID, r, payload)
}

// HandleProgress serves per-session progress points for one menu,
// oldest first, so clients can chart the trend directly.
func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.progress")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	menuID := mux.Vars(r)["menuId"]
	if menuID == "" {
		pkg.SendError(w, http.StatusBadRequest, "menu id is required")
		return
	}

	days, err := windowDays(r)
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	if handler.sendCached(w, userID, r) {
		return
	}

	recordList, err := handler.records.ListByMenu(ctx, userID, menuID)
	if err != nil {
		log.Errorf("analytics progress, list records for menu [%s], user [%s]: %s", menuID, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	recent := FilterRecentRecords(recordList, days, handler.NowFunc())
	handler.sendAndCache(w, userID, r, CalculateProgress(recent))
}

// HandleMuscleGroups serves per-muscle-group session stats inferred
// from menu names.
func (handler *Handler) HandleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.muscleGroups")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	days, err := windowDays(r)
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	if handler.sendCached(w, userID, r) {
		return
	}

	recordList, menuList, err := handler.fetchRecordsAndMenus(ctx, userID)
	if err != nil {
		log.Errorf("analytics muscle groups, fetch data for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	recent := FilterRecentRecords(recordList, days, handler.NowFunc())
	handler.sendAndCache(w, userID, r, CalculateMuscleGroupStats(recent, menuList))
}

// fetchRecordsAndMenus loads both collections in parallel, as neither
// query depends on the other.
func (handler *Handler) fetchRecordsAndMenus(ctx context.Context, userID string) ([]records.Record, []menus.Menu, error) {
	type recordsResult struct {
		recordList []records.Record
		err        error
	}
	type menusResult struct {
		menuList []menus.Menu
		err      error
	}

	recordsChan := make(chan recordsResult, 1)
	menusChan := make(chan menusResult, 1)

	go func() {
		recordList, err := handler.records.List(ctx, userID)
		recordsChan <- recordsResult{recordList: recordList, err: err}
	}()
	go func() {
		menuList, err := handler.menus.List(ctx, userID)
		menusChan <- menusResult{menuList: menuList, err: err}
	}()

	recordsRes := <-recordsChan
	menusRes := <-menusChan

	if recordsRes.err != nil {
		return nil, nil, fmt.Errorf("list records: %w", recordsRes.err)
	}
	if menusRes.err != nil {
		return nil, nil, fmt.Errorf("list menus: %w", menusRes.err)
	}
	return recordsRes.recordList, menusRes.menuList, nil
}

func windowDays(r *http.Request) (int, error) {
	daysParam := r.URL.Query().Get("days")
	if daysParam == "" {
		return defaultWindowDays, nil
	}
	days, err := strconv.Atoi(daysParam)
	if err != nil || days <= 0 {
		return 0, apperrors.NewValidation("invalid days parameter")
	}
	return days, nil
}

func cacheKey(userID string, r *http.Request) []byte {
	return []byte(fmt.Sprintf("%s::%s?%s", userID, r.URL.Path, r.URL.RawQuery))
}

// sendCached writes a cached response if one exists and reports
// whether it did. The cache holds the marshaled envelope, so a hit
// writes it back verbatim.
func (handler *Handler) sendCached(w http.ResponseWriter, userID string, r *http.Request) bool {
	cached, err := handler.cache.Get(cacheKey(userID, r))
	if err != nil {
		return false
	}
	log.Tracef("analytics cache hit: %s", r.URL.Path)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
	return true
}

func (handler *Handler) sendAndCache(w http.ResponseWriter, userID string, r *http.Request, payload any) {
	envelopeBytes, err := json.Marshal(pkg.Envelope{Success: true, Data: payload})
	if err != nil {
		log.Errorf("failed to marshal analytics payload for %s: %s", r.URL.Path, err)
		pkg.SendError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := handler.cache.Set(cacheKey(userID, r), envelopeBytes, handler.cacheTTLSeconds); err != nil {
		log.Errorf("failed to cache analytics payload for %s: %s", r.URL.Path, err)
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, envelopeBytes)
}
