package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetCalendarConflicts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCalendarConflicts")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	conflicts, err := h.calendarService.Conflicts(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "calendar conflicts failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, calendarToDTO(ctx, conflicts))
}
