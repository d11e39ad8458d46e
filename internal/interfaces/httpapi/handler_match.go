package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cuetrack/pool-league/internal/usecase"
)

func (h *Handler) ListMatchesBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	matches, err := h.matchService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	m, err := h.matchService.GetByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(ctx, m))
}

func (h *Handler) VerifyMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	result, err := h.matchService.Verify(ctx, principal, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "verify match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, verifyResultDTO{
		Match:              matchToDTO(ctx, result.Match),
		Completed:          result.Completed,
		TiebreakerRequired: result.TiebreakerRequired,
	})
}
