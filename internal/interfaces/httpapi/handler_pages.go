package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type landingDTO struct {
	Authenticated       bool   `json:"authenticated"`
	Role                string `json:"role,omitempty"`
	OnboardingCompleted bool   `json:"onboardingCompleted"`
	Next                string `json:"next,omitempty"`
}

type roleSelectionDTO struct {
	Roles       []optionDTO `json:"roles"`
	CurrentRole string      `json:"currentRole,omitempty"`
}

type caregiverWizardDTO struct {
	CareTypes        []optionDTO `json:"careTypes"`
	ExperienceLevels []optionDTO `json:"experienceLevels"`
	Weekdays         []optionDTO `json:"weekdays"`
	Draft            *profileDTO `json:"draft,omitempty"`
}

type careseekerWizardDTO struct {
	CareNeeds     []optionDTO `json:"careNeeds"`
	CareHours     []optionDTO `json:"careHours"`
	UrgencyLevels []optionDTO `json:"urgencyLevels"`
	Weekdays      []optionDTO `json:"weekdays"`
	Draft         *profileDTO `json:"draft,omitempty"`
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Landing")
	defer span.End()

	s, ok := sessionFromContext(ctx)
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, landingDTO{})
		return
	}

	out := landingDTO{Authenticated: true}
	item, err := h.profileService.Get(ctx, s.UserID)
	switch {
	case err == nil:
		view := item.View()
		out.Role = string(view.Role)
		out.OnboardingCompleted = view.OnboardingCompleted
		out.Next = access.LandingTarget(&view)
	case errors.Is(err, usecase.ErrNotFound):
		out.Next = access.LandingTarget(nil)
	default:
		h.logger.WarnContext(ctx, "load profile for landing failed", "user_id", s.UserID, "error", err)
		out.Next = access.LandingTarget(nil)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RoleSelectionPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RoleSelectionPage")
	defer span.End()

	draft, err := h.currentProfile(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := roleSelectionDTO{Roles: optionsToDTO(profile.Roles)}
	if draft != nil {
		out.CurrentRole = string(draft.Role)
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CaregiverOnboardingPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CaregiverOnboardingPage")
	defer span.End()

	draft, err := h.currentProfile(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, caregiverWizardDTO{
		CareTypes:        optionsToDTO(profile.CareTypes),
		ExperienceLevels: optionsToDTO(profile.ExperienceLevels),
		Weekdays:         weekdayOptions(),
		Draft:            draftToDTO(ctx, draft),
	})
}

func (h *Handler) CareseekerOnboardingPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CareseekerOnboardingPage")
	defer span.End()

	draft, err := h.currentProfile(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, careseekerWizardDTO{
		CareNeeds:     optionsToDTO(profile.CareTypes),
		CareHours:     optionsToDTO(profile.CareHours),
		UrgencyLevels: optionsToDTO(profile.UrgencyLevels),
		Weekdays:      weekdayOptions(),
		Draft:         draftToDTO(ctx, draft),
	})
}

// currentProfile returns the caller's profile, preferring the copy the access
// router already loaded. A missing profile yields nil.
func (h *Handler) currentProfile(ctx context.Context) (*profile.Profile, error) {
	s, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if result, ok := accessResultFromContext(ctx); ok && result.Profile != nil {
		return result.Profile, nil
	}

	item, err := h.profileService.Get(ctx, s.UserID)
	switch {
	case err == nil:
		return &item, nil
	case errors.Is(err, usecase.ErrNotFound):
		return nil, nil
	default:
		h.logger.WarnContext(ctx, "load current profile failed", "user_id", s.UserID, "error", err)
		return nil, err
	}
}

func draftToDTO(ctx context.Context, p *profile.Profile) *profileDTO {
	if p == nil {
		return nil
	}
	out := profileToDTO(ctx, *p)
	return &out
}
