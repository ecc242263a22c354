package menus

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/metrics"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=menus_test

type menusRepo interface {
	Add(ctx context.Context, userID string, menu Menu) error
	Get(ctx context.Context, userID, id string) (*Menu, error)
	List(ctx context.Context, userID string) ([]Menu, error)
	Update(ctx context.Context, userID string, menu Menu) error
	Delete(ctx context.Context, userID, id string) error
}

type CreateMenuRequest struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	ScheduledDays []DayOfWeek `json:"scheduledDays"`
}

type UpdateMenuRequest struct {
	Name          *string      `json:"name,omitempty"`
	Description   *string      `json:"description,omitempty"`
	ScheduledDays *[]DayOfWeek `json:"scheduledDays,omitempty"`
}

type DeleteMenuResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo           menusRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo menusRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.menus.create")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create menu, unmarshal json params: %s", err)
		pkg.SendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateMenuFields(req.Name, req.ScheduledDays); err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	now := time.Now()
	menu := Menu{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		ScheduledDays: req.ScheduledDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := handler.repo.Add(ctx, userID, menu); err != nil {
		log.Errorf("failed to add menu [%s] for user [%s]: %s", menu.Name, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	handler.metricsManager.CounterMenusCreated.Inc()
	log.Debugf("new menu added: %s [%s]", menu.Name, menu.ID)

	pkg.SendEnvelope(w, http.StatusCreated, menu)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.menus.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	menuList, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list menus for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}
	if menuList == nil {
		menuList = []Menu{}
	}

	pkg.SendEnvelope(w, http.StatusOK, menuList)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.menus.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	menu, err := handler.repo.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Errorf("failed to get menu for user [%s]: %s", userID, err)
		}
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, menu)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.menus.update")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update menu, unmarshal json params: %s", err)
		pkg.SendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	menu, err := handler.repo.Get(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	// no fields given: return the menu unchanged, without a write
	if req.Name == nil && req.Description == nil && req.ScheduledDays == nil {
		pkg.SendEnvelope(w, http.StatusOK, menu)
		return
	}

	if req.Name != nil {
		menu.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.ScheduledDays != nil {
		menu.ScheduledDays = *req.ScheduledDays
	}

	if err := validateMenuFields(menu.Name, menu.ScheduledDays); err != nil {
		pkg.SendError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	menu.UpdatedAt = time.Now()
	if err := handler.repo.Update(ctx, userID, *menu); err != nil {
		log.Errorf("failed to update menu [%s] for user [%s]: %s", menu.ID, userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, menu)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.menus.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if !apperrors.IsNotFound(err) {
			log.Errorf("failed to delete menu [%s] for user [%s]: %s", id, userID, err)
		}
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}

	pkg.SendEnvelope(w, http.StatusOK, DeleteMenuResponse{DeletedID: id})
}

func validateMenuFields(name string, scheduledDays []DayOfWeek) error {
	if name == "" {
		return apperrors.NewValidation("menu name is required")
	}
	if len(scheduledDays) == 0 {
		return apperrors.NewValidation("at least one scheduled day is required")
	}
	for _, day := range scheduledDays {
		if !day.Valid() {
			return apperrors.NewValidation("invalid day of week: %s", day)
		}
	}
	return nil
}
