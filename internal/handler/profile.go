package handler

import (
	"log/slog"
	"net/http"

	"synapse/internal/domain/models"
	"synapse/internal/domain/services"
	"synapse/internal/httputil"
)

// ProfileHandler handles the caller's profile
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// PatchProfileRequest is the body of PATCH /api/users/me/profile.
// memory_notes distinguishes absent, null (clear) and a value.
type PatchProfileRequest struct {
	Name        *string                 `json:"name"`
	Language    *string                 `json:"language"`
	Profession  *string                 `json:"profession"`
	Interests   []string                `json:"interests"`
	MemoryNotes httputil.OptionalString `json:"memory_notes"`
}

// GetProfile returns the caller's profile, creating it on first access
// GET /api/users/me/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetOrCreateProfile(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpsertProfile creates or merges the caller's profile
// PUT /api/users/me/profile
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpsertProfileRequest
	if !parseBody(w, r, &req) {
		return
	}

	profile, err := h.profileService.UpsertProfile(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// PatchProfile applies a partial update
// PATCH /api/users/me/profile
func (h *ProfileHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	var req PatchProfileRequest
	if !parseBody(w, r, &req) {
		return
	}

	update := &models.UpdateProfileRequest{
		Name:       req.Name,
		Language:   req.Language,
		Profession: req.Profession,
		Interests:  req.Interests,
		MemoryNotes: models.OptionalMemoryNotes{
			Present: req.MemoryNotes.Present,
			Value:   req.MemoryNotes.Value,
		},
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), httputil.GetUserID(r), update)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}
