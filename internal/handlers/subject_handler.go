package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// SubjectHandler serves subject listing and administration
type SubjectHandler struct {
	content *service.ContentService
	log     *zap.SugaredLogger
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(content *service.ContentService, log *zap.SugaredLogger) *SubjectHandler {
	return &SubjectHandler{content: content, log: log}
}

// List handles GET /api/subjects. Players only see active subjects.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.content.ListSubjects(true)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

// AdminList handles GET /api/admin/subjects, including inactive subjects
// and each subject's question pool size
func (h *SubjectHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.content.ListSubjectsWithCounts()
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

// Get handles GET /api/subjects/{id}
func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	subject, err := h.content.GetSubject(id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// Create handles POST /api/admin/subjects
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.SubjectInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	subject, err := h.content.CreateSubject(input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

// Update handles PUT /api/admin/subjects/{id}
func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var input service.SubjectInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	subject, err := h.content.UpdateSubject(id, input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// Delete handles DELETE /api/admin/subjects/{id}
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.content.DeleteSubject(id); err != nil {
		respondError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
