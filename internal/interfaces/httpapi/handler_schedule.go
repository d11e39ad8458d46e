package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateSchedule")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	result, err := h.scheduleService.Generate(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "generate schedule failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, generateScheduleDTO{
		WeekCount:    result.WeekCount,
		MatchCount:   result.MatchCount,
		ByeCount:     result.ByeCount,
		SkippedPairs: result.SkippedPairs,
	})
}

func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearSchedule")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	if err := h.scheduleService.Clear(ctx, seasonID); err != nil {
		h.logger.WarnContext(ctx, "clear schedule failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cleared"})
}
