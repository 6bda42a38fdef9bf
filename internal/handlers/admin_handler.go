package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/repository"
	"cerdas/internal/service"
)

// AdminHandler serves user administration, invitations and exports
type AdminHandler struct {
	profiles *repository.ProfileRepository
	auth     *service.AuthService
	content  *service.ContentService
	email    *service.EmailService
	export   *service.ExportService
	log      *zap.SugaredLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	profiles *repository.ProfileRepository,
	auth *service.AuthService,
	content *service.ContentService,
	email *service.EmailService,
	export *service.ExportService,
	log *zap.SugaredLogger,
) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		auth:     auth,
		content:  content,
		email:    email,
		export:   export,
		log:      log,
	}
}

// ListProfiles handles GET /api/admin/profiles with an optional role filter
func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		respondError(w, h.log, service.ErrValidation)
		return
	}

	profiles, err := h.profiles.List(role)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// UpdateProfile handles PUT /api/admin/profiles/{id}
func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	var input struct {
		FullName  string      `json:"full_name"`
		AvatarURL string      `json:"avatar_url"`
		Role      models.Role `json:"role"`
	}
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}
	if input.FullName == "" || !input.Role.Valid() {
		respondError(w, h.log, service.ErrValidation)
		return
	}

	existing, err := h.profiles.GetByID(id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if existing == nil {
		respondError(w, h.log, service.ErrNotFound)
		return
	}

	if err := h.profiles.Update(id, input.FullName, input.AvatarURL, input.Role); err != nil {
		respondError(w, h.log, err)
		return
	}

	updated, err := h.profiles.GetByID(id)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Invite handles POST /api/admin/invites. The account is provisioned with
// the chosen role right away; the invitation email is best effort.
func (h *AdminHandler) Invite(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	var input service.InviteInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	profile, err := h.auth.Invite(input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if h.email.IsEnabled() {
		if err := h.email.SendInviteEmail(r.Context(), profile.Email, identity.Profile.FullName, string(profile.Role)); err != nil {
			h.log.Errorw("failed to send invite email", "error", err, "to", profile.Email)
		}
	}

	writeJSON(w, http.StatusCreated, profile)
}

// ListAchievements handles GET /api/admin/achievements
func (h *AdminHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.content.ListAchievements()
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

// CreateAchievement handles POST /api/admin/achievements
func (h *AdminHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var input service.AchievementInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, h.log, err)
		return
	}

	achievement, err := h.content.CreateAchievement(input)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, achievement)
}

// ExportStudents handles GET /api/admin/export/students
func (h *AdminHandler) ExportStudents(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("siswa-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.export.WriteStudentsXLSX(w); err != nil {
		h.log.Errorw("failed to export students", "error", err)
	}
}
