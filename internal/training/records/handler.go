package records

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/metrics"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=records_test

type recordsRepo interface {
	Add(ctx context.Context, userID string, record Record) error
	Get(ctx context.Context, userID, id string) (*Record, error)
	List(ctx context.Context, userID string) ([]Record, error)
	ListByMenu(ctx context.Context, userID, menuID string) ([]Record, error)
	GetLatestByMenu(ctx context.Context, userID, menuID string) (*Record, error)
	Update(ctx context.Context, userID string, record Record) error
	Delete(ctx context.Context, userID, id string) error
}

type menuGetter interface {
	Get(ctx context.Context, userID, id string) (*menus.Menu, error)
}

type SetInput struct {
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	Duration *int    `json:"duration,omitempty"`
	RestTime *int    `json:"restTime,omitempty"`
}

type CreateRecordRequest struct {
	MenuID  string     `json:"menuId"`
	Date    string     `json:"date"`
	Sets    []SetInput `json:"sets"`
	Comment string     `json:"comment"`
}

type UpdateRecordRequest struct {
	Sets    *[]SetInput `json:"sets,omitempty"`
	Comment *string     `json:"comment,omitempty"`
}

type DeleteRecordResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo           recordsRepo
	menus          menuGetter
	metricsManager *metrics.Manager
}

func NewHandler(repo recordsRepo, menus menuGetter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		menus:          menus,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.create")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create record, unmarshal json params: %s", err)
		pkg.SendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateCreateRecordRequest(req); err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	// the record must reference a menu owned by the same user
	if _, err := handler.menus.Get(ctx, userID, req.MenuID); err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	now := time.Now()
	record := Record{
		ID:        uuid.NewString(),
		MenuID:    req.MenuID,
		Date:      req.Date,
		Sets:      setsFromInput(req.Sets),
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := handler.repo.Add(ctx, userID, record); err != nil {
		log.Errorf("failed to add record for menu [%s], user [%s]: %s", record.MenuID, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	handler.metricsManager.CounterRecordsCreated.Inc()
	log.Debugf("new record added: %s [menu %s, %d sets]", record.ID, record.MenuID, len(record.Sets))

	pkg.SendEnvelope(w, http.StatusCreated, record)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var (
		recordList []Record
		err        error
	)
	if menuID := r.URL.Query().Get("menuId"); menuID != "" {
		recordList, err = handler.repo.ListByMenu(ctx, userID, menuID)
	} else {
		recordList, err = handler.repo.List(ctx, userID)
	}
	if err != nil {
		log.Errorf("failed to list records for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}
	if recordList == nil {
		recordList = []Record{}
	}

	pkg.SendEnvelope(w, http.StatusOK, recordList)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	record, err := handler.repo.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Errorf("failed to get record for user [%s]: %s", userID, err)
		}
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, record)
}

// HandleLatestByMenu returns the most recent record for a menu, or a
// success envelope without data when the menu has no records.
func (handler *Handler) HandleLatestByMenu(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.latestByMenu")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	menuID := mux.Vars(r)["menuId"]
	record, err := handler.repo.GetLatestByMenu(ctx, userID, menuID)
	if err != nil {
		log.Errorf("failed to get latest record for menu [%s], user [%s]: %s", menuID, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	if record == nil {
		pkg.SendEnvelope(w, http.StatusOK, nil)
		return
	}
	pkg.SendEnvelope(w, http.StatusOK, record)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.update")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update record, unmarshal json params: %s", err)
		pkg.SendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := handler.repo.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	// no fields given: return the record unchanged, without a write
	if req.Sets == nil && req.Comment == nil {
		pkg.SendEnvelope(w, http.StatusOK, record)
		return
	}

	if req.Sets != nil {
		if err := validateSets(*req.Sets); err != nil {
			pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
			return
		}
		record.Sets = setsFromInput(*req.Sets)
	}
	if req.Comment != nil {
		record.Comment = *req.Comment
	}

	record.UpdatedAt = time.Now()
	if err := handler.repo.Update(ctx, userID, *record); err != nil {
		log.Errorf("failed to update record [%s] for user [%s]: %s", record.ID, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, record)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if !apperrors.IsNotFound(err) {
			log.Errorf("failed to delete record [%s] for user [%s]: %s", id, userID, err)
		}
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, DeleteRecordResponse{DeletedID: id})
}

func validateCreateRecordRequest(req CreateRecordRequest) error {
	if req.MenuID == "" {
		return apperrors.NewValidation("menu id is required")
	}
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return apperrors.NewValidation("invalid date format, expected YYYY-MM-DD")
	}
	return validateSets(req.Sets)
}

// validateSets checks every set; the first violation's message is the
// one surfaced.
func validateSets(sets []SetInput) error {
	if len(sets) == 0 {
		return apperrors.NewValidation("at least one set is required")
	}
	for _, set := range sets {
		if set.Weight <= 0 {
			return apperrors.NewValidation("set weight must be greater than zero")
		}
		if set.Reps <= 0 {
			return apperrors.NewValidation("set reps must be greater than zero")
		}
	}
	return nil
}

func setsFromInput(inputs []SetInput) []Set {
	sets := make([]Set, len(inputs))
	for i, input := range inputs {
		sets[i] = Set{
			ID:       uuid.NewString(),
			Weight:   input.Weight,
			Reps:     input.Reps,
			Duration: input.Duration,
			RestTime: input.RestTime,
		}
	}
	return sets
}
