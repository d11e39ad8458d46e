package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cuetrack/pool-league/internal/usecase"
)

func (h *Handler) GetHandicapThresholds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHandicapThresholds")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("difference"))
	difference, err := strconv.Atoi(raw)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: difference %q is not an integer", usecase.ErrInvalidInput, raw))
		return
	}

	row, err := h.handicapService.Thresholds(ctx, difference)
	if err != nil {
		h.logger.WarnContext(ctx, "handicap lookup failed", "difference", difference, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, handicapRowDTO{
		Difference:  row.Difference,
		GamesToWin:  row.GamesToWin,
		GamesToTie:  row.GamesToTie,
		GamesToLose: row.GamesToLose,
	})
}

func (h *Handler) ListHandicapChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHandicapChart")
	defer span.End()

	rows, err := h.handicapService.Chart(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list handicap chart failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]handicapRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, handicapRowDTO{
			Difference:  row.Difference,
			GamesToWin:  row.GamesToWin,
			GamesToTie:  row.GamesToTie,
			GamesToLose: row.GamesToLose,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
