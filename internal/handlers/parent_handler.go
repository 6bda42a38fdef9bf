package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// ParentHandler serves the parent monitoring endpoints
type ParentHandler struct {
	parentService *service.ParentService
	log           *zap.SugaredLogger
}

// NewParentHandler creates a new parent handler
func NewParentHandler(parentService *service.ParentService, log *zap.SugaredLogger) *ParentHandler {
	return &ParentHandler{parentService: parentService, log: log}
}

// Children handles GET /api/parent/children
func (h *ParentHandler) Children(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	students, err := h.parentService.LinkedStudents(identity.Profile.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, students)
}

// LinkChild handles POST /api/parent/children
func (h *ParentHandler) LinkChild(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var input service.LinkStudentInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := h.parentService.LinkStudent(identity.Profile.ID, input); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "linked"})
}

// ChildDetail handles GET /api/parent/children/{id}
func (h *ParentHandler) ChildDetail(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	detail, err := h.parentService.StudentDetail(identity.Profile.ID, studentID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}
