package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/usecase"
)

func (h *Handler) SelectRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectRole")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req selectRoleRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.profileService.SelectRole(ctx, usecase.SelectRoleInput{
		UserID: s.UserID,
		Role:   req.Role,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "select role failed", "user_id", s.UserID, "role", req.Role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, onboardingResultDTO{
		Profile: profileToDTO(ctx, item),
		Next:    access.OnboardingTarget(item.Role),
	})
}

func (h *Handler) CompleteCaregiverOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteCaregiverOnboarding")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req completeCaregiverRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.profileService.CompleteCaregiver(ctx, usecase.CompleteCaregiverInput{
		UserID:       s.UserID,
		FullName:     req.FullName,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
		Location:     req.Location,
		CareTypes:    req.CareTypes,
		Experience:   req.Experience,
		HourlyRate:   req.HourlyRate,
		Availability: req.Availability,
		Timing:       req.Timing,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete caregiver onboarding failed", "user_id", s.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "caregiver onboarding completed", "user_id", s.UserID)
	writeSuccess(ctx, w, http.StatusOK, onboardingResultDTO{
		Profile: profileToDTO(ctx, item),
		Next:    access.PathDashboard,
	})
}

func (h *Handler) CompleteCareseekerOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteCareseekerOnboarding")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req completeCareseekerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.profileService.CompleteCareseeker(ctx, usecase.CompleteCareseekerInput{
		UserID:       s.UserID,
		FullName:     req.FullName,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
		Location:     req.Location,
		CareNeeds:    req.CareNeeds,
		CareDetails:  req.CareDetails,
		Schedule:     req.Schedule,
		CareHours:    req.CareHours,
		UrgencyLevel: req.UrgencyLevel,
		BudgetMin:    req.BudgetMin,
		BudgetMax:    req.BudgetMax,
		ZipCode:      req.ZipCode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete careseeker onboarding failed", "user_id", s.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "careseeker onboarding completed", "user_id", s.UserID)
	writeSuccess(ctx, w, http.StatusOK, onboardingResultDTO{
		Profile: profileToDTO(ctx, item),
		Next:    access.PathDashboard,
	})
}
