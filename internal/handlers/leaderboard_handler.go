package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// LeaderboardHandler serves the ranking endpoints
type LeaderboardHandler struct {
	leaderboards *service.LeaderboardService
	log          *zap.SugaredLogger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboards *service.LeaderboardService, log *zap.SugaredLogger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboards: leaderboards, log: log}
}

// Global handles GET /api/leaderboard/global
func (h *LeaderboardHandler) Global(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboards.Global()
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Weekly handles GET /api/leaderboard/weekly
func (h *LeaderboardHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboards.Weekly()
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Subject handles GET /api/leaderboard/subjects/{id}
func (h *LeaderboardHandler) Subject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	entries, err := h.leaderboards.Subject(subjectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// MyRank handles GET /api/leaderboard/me
func (h *LeaderboardHandler) MyRank(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	rank, err := h.leaderboards.MyRank(identity.Profile.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}
