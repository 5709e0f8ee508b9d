package rest

import (
	"net/http"
	"strconv"

	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
)

// handleRecentMatches returns the most recently finished games.
func (h *Handler) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	out, err := h.config.MatchRepo.ListRecentMatches(r.Context(), &matchRepo.ListRecentMatchesInput{
		Limit: limit,
	})
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to load match history")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"matches": out.Matches})
}
