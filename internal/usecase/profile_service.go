package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/domain/user"
)

type SelectRoleInput struct {
	UserID string
	Role   string
}

type CompleteCaregiverInput struct {
	UserID       string
	FullName     string
	AvatarURL    string
	Bio          string
	Location     string
	CareTypes    []string
	Experience   string
	HourlyRate   float64
	Availability map[string]bool
	Timing       string
}

type CompleteCareseekerInput struct {
	UserID       string
	FullName     string
	AvatarURL    string
	Bio          string
	Location     string
	CareNeeds    []string
	CareDetails  string
	Schedule     map[string]bool
	CareHours    []string
	UrgencyLevel string
	BudgetMin    float64
	BudgetMax    float64
	ZipCode      string
}

// UpdateProfileInput carries optional edits; nil fields are left untouched.
type UpdateProfileInput struct {
	UserID         string
	FullName       *string
	AvatarURL      *string
	Bio            *string
	Location       *string
	Certifications []string
}

type ProfileService struct {
	profileRepo profile.Repository
	now         func() time.Time
}

func NewProfileService(profileRepo profile.Repository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (profile.Profile, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	item, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile not found", ErrNotFound)
	}
	return item, nil
}

// Ensure creates a blank profile for a first sign-in. created reports whether
// a new row was written.
func (s *ProfileService) Ensure(ctx context.Context, session user.Session) (profile.Profile, bool, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.Ensure")
	defer span.End()

	if !session.Valid() {
		return profile.Profile{}, false, fmt.Errorf("%w: session has no user", ErrUnauthorized)
	}

	existing, exists, err := s.profileRepo.GetByUserID(ctx, session.UserID)
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}
	if exists {
		return existing, false, nil
	}

	now := s.now().UTC()
	created := profile.Profile{
		UserID:    session.UserID,
		Email:     strings.TrimSpace(session.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profileRepo.Upsert(ctx, created); err != nil {
		recordSpanError(span, err)
		return profile.Profile{}, false, fmt.Errorf("create profile: %w", err)
	}
	return created, true, nil
}

func (s *ProfileService) SelectRole(ctx context.Context, input SelectRoleInput) (profile.Profile, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.SelectRole")
	defer span.End()

	role := profile.ParseRole(input.Role)
	if !role.Valid() {
		return profile.Profile{}, fmt.Errorf("%w: role must be caregiver or careseeker", ErrInvalidInput)
	}

	return s.mergeProfile(ctx, input.UserID, func(p *profile.Profile, _ bool) error {
		if p.OnboardingCompleted {
			return fmt.Errorf("%w: onboarding already completed", ErrConflict)
		}
		if p.Role != role {
			p.Caregiver = nil
			p.Careseeker = nil
		}
		p.Role = role
		p.OnboardingCompleted = false
		return nil
	})
}

func (s *ProfileService) CompleteCaregiver(ctx context.Context, input CompleteCaregiverInput) (profile.Profile, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.CompleteCaregiver")
	defer span.End()

	details, err := validateCaregiver(input)
	if err != nil {
		return profile.Profile{}, err
	}

	return s.mergeProfile(ctx, input.UserID, func(p *profile.Profile, _ bool) error {
		if err := ensureRoleSwitchAllowed(*p, profile.RoleCaregiver); err != nil {
			return err
		}
		if p.Caregiver != nil {
			details.Certifications = p.Caregiver.Certifications
		}
		applyCommon(p, input.FullName, input.AvatarURL, input.Bio, input.Location)
		p.Role = profile.RoleCaregiver
		p.Caregiver = &details
		p.Careseeker = nil
		p.OnboardingCompleted = true
		return nil
	})
}

func (s *ProfileService) CompleteCareseeker(ctx context.Context, input CompleteCareseekerInput) (profile.Profile, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.CompleteCareseeker")
	defer span.End()

	details, err := validateCareseeker(input)
	if err != nil {
		return profile.Profile{}, err
	}

	return s.mergeProfile(ctx, input.UserID, func(p *profile.Profile, _ bool) error {
		if err := ensureRoleSwitchAllowed(*p, profile.RoleCareseeker); err != nil {
			return err
		}
		applyCommon(p, input.FullName, input.AvatarURL, input.Bio, input.Location)
		p.Role = profile.RoleCareseeker
		p.Careseeker = &details
		p.Caregiver = nil
		p.OnboardingCompleted = true
		return nil
	})
}

func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (profile.Profile, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileService.Update")
	defer span.End()

	if input.FullName != nil && strings.TrimSpace(*input.FullName) == "" {
		return profile.Profile{}, fmt.Errorf("%w: full_name cannot be empty", ErrInvalidInput)
	}
	certifications := trimList(input.Certifications)

	return s.mergeProfile(ctx, input.UserID, func(p *profile.Profile, exists bool) error {
		if !exists {
			return fmt.Errorf("%w: profile not found", ErrNotFound)
		}
		if input.Certifications != nil {
			if p.Role != profile.RoleCaregiver || p.Caregiver == nil {
				return fmt.Errorf("%w: certifications are only kept for caregivers", ErrInvalidInput)
			}
			details := *p.Caregiver
			details.Certifications = certifications
			p.Caregiver = &details
		}
		setTrimmed(&p.FullName, input.FullName)
		setTrimmed(&p.AvatarURL, input.AvatarURL)
		setTrimmed(&p.Bio, input.Bio)
		setTrimmed(&p.Location, input.Location)
		return nil
	})
}

// mergeProfile loads the profile, applies mutate and writes it back. A missing
// profile is started from scratch.
func (s *ProfileService) mergeProfile(ctx context.Context, userID string, mutate func(p *profile.Profile, exists bool) error) (profile.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	existing, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	now := s.now().UTC()
	out := existing
	out.UserID = userID
	if err := mutate(&out, exists); err != nil {
		return profile.Profile{}, err
	}
	if !out.Consistent() {
		return profile.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, profile.ErrRoleRequired)
	}
	if !exists {
		out.CreatedAt = now
	}
	out.UpdatedAt = now

	if err := s.profileRepo.Upsert(ctx, out); err != nil {
		if errors.Is(err, profile.ErrRoleRequired) {
			return profile.Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return profile.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return out, nil
}

func ensureRoleSwitchAllowed(p profile.Profile, role profile.Role) error {
	if p.OnboardingCompleted && p.Role.Valid() && p.Role != role {
		return fmt.Errorf("%w: profile already completed onboarding as %s", ErrConflict, p.Role)
	}
	return nil
}

func applyCommon(p *profile.Profile, fullName, avatarURL, bio, location string) {
	if v := strings.TrimSpace(fullName); v != "" {
		p.FullName = v
	}
	if v := strings.TrimSpace(avatarURL); v != "" {
		p.AvatarURL = v
	}
	if v := strings.TrimSpace(bio); v != "" {
		p.Bio = v
	}
	if v := strings.TrimSpace(location); v != "" {
		p.Location = v
	}
}

func validateCaregiver(input CompleteCaregiverInput) (profile.CaregiverDetails, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return profile.CaregiverDetails{}, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Location) == "" {
		return profile.CaregiverDetails{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	careTypes, err := validateCareCategories("care_types", input.CareTypes)
	if err != nil {
		return profile.CaregiverDetails{}, err
	}

	experience := strings.TrimSpace(input.Experience)
	if !profile.HasOption(profile.ExperienceLevels, experience) {
		return profile.CaregiverDetails{}, fmt.Errorf("%w: experience %q is not supported", ErrInvalidInput, input.Experience)
	}
	if input.HourlyRate < 0 || math.IsNaN(input.HourlyRate) || math.IsInf(input.HourlyRate, 0) {
		return profile.CaregiverDetails{}, fmt.Errorf("%w: hourly_rate must be a non-negative number", ErrInvalidInput)
	}

	availability, unknown := profile.NormalizeWeekMap(input.Availability)
	if len(unknown) > 0 {
		return profile.CaregiverDetails{}, fmt.Errorf("%w: availability has unknown days %v", ErrInvalidInput, unknown)
	}

	return profile.CaregiverDetails{
		CareTypes:    careTypes,
		Experience:   experience,
		HourlyRate:   input.HourlyRate,
		Availability: availability,
		Timing:       strings.TrimSpace(input.Timing),
	}, nil
}

func validateCareseeker(input CompleteCareseekerInput) (profile.CareseekerDetails, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Location) == "" {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}

	careNeeds, err := validateCareCategories("care_needs", input.CareNeeds)
	if err != nil {
		return profile.CareseekerDetails{}, err
	}

	hours := cleanList(input.CareHours)
	for _, h := range hours {
		if !profile.HasOption(profile.CareHours, h) {
			return profile.CareseekerDetails{}, fmt.Errorf("%w: care_hours value %q is not supported", ErrInvalidInput, h)
		}
	}

	urgency := strings.TrimSpace(input.UrgencyLevel)
	if !profile.HasOption(profile.UrgencyLevels, urgency) {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: urgency_level %q is not supported", ErrInvalidInput, input.UrgencyLevel)
	}
	if input.BudgetMin < 0 || input.BudgetMax < 0 {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: budget must be non-negative", ErrInvalidInput)
	}
	if input.BudgetMin > input.BudgetMax {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: budget_min must not exceed budget_max", ErrInvalidInput)
	}

	schedule, unknown := profile.NormalizeWeekMap(input.Schedule)
	if len(unknown) > 0 {
		return profile.CareseekerDetails{}, fmt.Errorf("%w: schedule has unknown days %v", ErrInvalidInput, unknown)
	}

	return profile.CareseekerDetails{
		CareNeeds:    careNeeds,
		CareDetails:  strings.TrimSpace(input.CareDetails),
		Schedule:     schedule,
		CareHours:    hours,
		UrgencyLevel: urgency,
		BudgetMin:    input.BudgetMin,
		BudgetMax:    input.BudgetMax,
		ZipCode:      strings.TrimSpace(input.ZipCode),
	}, nil
}

func validateCareCategories(field string, values []string) ([]string, error) {
	out := cleanList(values)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s requires at least one value", ErrInvalidInput, field)
	}
	for _, v := range out {
		if !profile.HasOption(profile.CareTypes, v) {
			return nil, fmt.Errorf("%w: %s value %q is not supported", ErrInvalidInput, field, v)
		}
	}
	return out, nil
}

// cleanList lower-cases, trims and de-duplicates values while keeping order.
func cleanList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func trimList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
