package schedule

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/pkg"
)

type TodayScheduleResponse struct {
	Day   menus.DayOfWeek `json:"day"`
	Menus []menus.Menu    `json:"menus"`
}

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.schedule.today")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		pkg.SendError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	day, scheduled, err := handler.resolver.TodaysSchedule(ctx, userID)
	if err != nil {
		log.Errorf("failed to get todays schedule for user [%s]: %s", userID, err)
		pkg.SendError(w, apperrors.HTTPStatus(err), apperrors.ClientMessage(err))
		return
	}
	if scheduled == nil {
		scheduled = []menus.Menu{}
	}

	pkg.SendEnvelope(w, http.StatusOK, TodayScheduleResponse{
		Day:   day,
		Menus: scheduled,
	})
}
