package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

const defaultHistoryLimit = 20

// GameHandler serves the quiz play endpoints
type GameHandler struct {
	gameService *service.GameService
	log         *zap.SugaredLogger
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *service.GameService, log *zap.SugaredLogger) *GameHandler {
	return &GameHandler{gameService: gameService, log: log}
}

// Start handles POST /api/game/sessions
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var input struct {
		SubjectID int64 `json:"subject_id"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	game, err := h.gameService.StartGame(identity.Profile.ID, input.SubjectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

// Get handles GET /api/game/sessions/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	game, err := h.gameService.GetGame(identity.Profile.ID, sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

// Answer handles POST /api/game/sessions/{id}/answers
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var input struct {
		QuestionID     int64  `json:"question_id"`
		SelectedAnswer string `json:"selected_answer"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	result, err := h.gameService.SubmitAnswer(identity.Profile.ID, sessionID, input.QuestionID, input.SelectedAnswer)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Complete handles POST /api/game/sessions/{id}/complete
func (h *GameHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	sessionID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	summary, err := h.gameService.CompleteGame(identity.Profile.ID, sessionID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// History handles GET /api/game/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	sessions, err := h.gameService.GetHistory(identity.Profile.ID, limit)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrNotFound
	}
	return id, nil
}
