package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cuetrack/pool-league/internal/platform/logging"
	"github.com/cuetrack/pool-league/internal/usecase"
)

type Handler struct {
	scheduleService *usecase.ScheduleService
	calendarService *usecase.CalendarService
	lineupService   *usecase.LineupService
	matchService    *usecase.MatchService
	handicapService *usecase.HandicapService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	calendarService *usecase.CalendarService,
	lineupService *usecase.LineupService,
	matchService *usecase.MatchService,
	handicapService *usecase.HandicapService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService: scheduleService,
		calendarService: calendarService,
		lineupService:   lineupService,
		matchService:    matchService,
		handicapService: handicapService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
