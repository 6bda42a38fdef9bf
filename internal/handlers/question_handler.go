package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// QuestionHandler serves question administration
type QuestionHandler struct {
	content *service.ContentService
	log     *zap.SugaredLogger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(content *service.ContentService, log *zap.SugaredLogger) *QuestionHandler {
	return &QuestionHandler{content: content, log: log}
}

// List handles GET /api/admin/questions with an optional subject_id filter
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	var subjectID int64
	if v := r.URL.Query().Get("subject_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, h.log, service.ErrValidation)
			return
		}
		subjectID = id
	}

	questions, err := h.content.ListQuestions(subjectID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Get handles GET /api/admin/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	question, err := h.content.GetQuestion(id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// Create handles POST /api/admin/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.QuestionInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	question, err := h.content.CreateQuestion(input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// Update handles PUT /api/admin/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var input service.QuestionInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	question, err := h.content.UpdateQuestion(id, input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /api/admin/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.content.DeleteQuestion(id); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
