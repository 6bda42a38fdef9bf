package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"cerdas/internal/service"
)

// StudentHandler serves the student home view
type StudentHandler struct {
	dashboards *service.DashboardService
	log        *zap.SugaredLogger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(dashboards *service.DashboardService, log *zap.SugaredLogger) *StudentHandler {
	return &StudentHandler{dashboards: dashboards, log: log}
}

// Dashboard handles GET /api/student/dashboard
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	dashboard, err := h.dashboards.ForStudent(identity.Profile.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}
