package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/cuetrack/pool-league/internal/usecase"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, err := h.lineupService.GetByMatchAndTeam(ctx, principal, matchID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) SaveLineupSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveLineupSelection")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))

	var req lineupSelectionRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	slots := make([]usecase.LineupSlotInput, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, usecase.LineupSlotInput{
			PlayerID:   s.PlayerID,
			Handicap:   s.Handicap,
			Substitute: s.Substitute,
		})
	}

	item, err := h.lineupService.SaveSelection(ctx, principal, matchID, teamID, usecase.SaveSelectionInput{
		Slots:   slots,
		Version: req.Version,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup selection failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) LockLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req lineupVersionRequest
	if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.lineupService.Lock(ctx, principal, lineupID, req.Version)
	if err != nil {
		h.logger.WarnContext(ctx, "lock lineup failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) UnlockLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockLineup")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req lineupVersionRequest
	if err := jsoniter.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.lineupService.Unlock(ctx, principal, lineupID, req.Version)
	if err != nil {
		h.logger.WarnContext(ctx, "unlock lineup failed", "lineup_id", lineupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}

func (h *Handler) ResolveDoubleDuty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveDoubleDuty")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	lineupID := strings.TrimSpace(r.PathValue("lineupID"))
	var req doubleDutyRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineupService.ResolveDoubleDuty(ctx, principal, lineupID, req.PlayerID, req.Version)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve double duty failed", "lineup_id", lineupID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(ctx, item))
}
