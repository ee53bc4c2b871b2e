package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/usecase"
)

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyProfile")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.profileService.Get(ctx, s.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", s.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMyProfile")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.profileService.Update(ctx, usecase.UpdateProfileInput{
		UserID:         s.UserID,
		FullName:       req.FullName,
		AvatarURL:      req.AvatarURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Certifications: req.Certifications,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update profile failed", "user_id", s.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(ctx, item))
}
