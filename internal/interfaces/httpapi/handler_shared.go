package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type Handler struct {
	profileService   *usecase.ProfileService
	authService      *usecase.AuthService
	listingService   *usecase.ListingService
	dashboardService *usecase.DashboardService
	auditService     *usecase.ProfileAuditService
	cookies          CookieConfig
	logger           *logging.Logger
	validator        *validator.Validate
	now              func() time.Time
}

func NewHandler(
	profileService *usecase.ProfileService,
	authService *usecase.AuthService,
	listingService *usecase.ListingService,
	dashboardService *usecase.DashboardService,
	auditService *usecase.ProfileAuditService,
	cookies CookieConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		profileService:   profileService,
		authService:      authService,
		listingService:   listingService,
		dashboardService: dashboardService,
		auditService:     auditService,
		cookies:          cookies,
		logger:           logger,
		validator:        validator.New(),
		now:              time.Now,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON decodes a strict JSON body. An empty body is accepted when
// allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// requireSession returns the session placed in the context by RequireAuth or
// the access router.
func requireSession(ctx context.Context) (user.Session, error) {
	s, ok := sessionFromContext(ctx)
	if ok {
		return s, nil
	}
	if result, ok := accessResultFromContext(ctx); ok && result.Decision.Rule == access.RuleIdentityUnavailable {
		return user.Session{}, fmt.Errorf("%w: identity provider unavailable", usecase.ErrDependencyUnavailable)
	}
	return user.Session{}, fmt.Errorf("%w: session is missing from request context", usecase.ErrUnauthorized)
}

type selectRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type completeCaregiverRequest struct {
	FullName     string          `json:"full_name" validate:"required,max=120"`
	AvatarURL    string          `json:"avatar_url" validate:"omitempty,url,max=500"`
	Bio          string          `json:"bio" validate:"max=2000"`
	Location     string          `json:"location" validate:"required,max=200"`
	CareTypes    []string        `json:"care_types" validate:"required,min=1,dive,required"`
	Experience   string          `json:"experience" validate:"required"`
	HourlyRate   float64         `json:"hourly_rate" validate:"gte=0,lte=1000"`
	Availability map[string]bool `json:"availability"`
	Timing       string          `json:"timing" validate:"max=100"`
}

type completeCareseekerRequest struct {
	FullName     string          `json:"full_name" validate:"required,max=120"`
	AvatarURL    string          `json:"avatar_url" validate:"omitempty,url,max=500"`
	Bio          string          `json:"bio" validate:"max=2000"`
	Location     string          `json:"location" validate:"required,max=200"`
	CareNeeds    []string        `json:"care_needs" validate:"required,min=1,dive,required"`
	CareDetails  string          `json:"care_details" validate:"max=2000"`
	Schedule     map[string]bool `json:"schedule"`
	CareHours    []string        `json:"care_hours" validate:"dive,required"`
	UrgencyLevel string          `json:"urgency_level" validate:"required"`
	BudgetMin    float64         `json:"budget_min" validate:"gte=0"`
	BudgetMax    float64         `json:"budget_max" validate:"gte=0"`
	ZipCode      string          `json:"zip_code" validate:"max=20"`
}

type updateProfileRequest struct {
	FullName       *string  `json:"full_name" validate:"omitempty,min=1,max=120"`
	AvatarURL      *string  `json:"avatar_url" validate:"omitempty,max=500"`
	Bio            *string  `json:"bio" validate:"omitempty,max=2000"`
	Location       *string  `json:"location" validate:"omitempty,max=200"`
	Certifications []string `json:"certifications" validate:"omitempty,max=20,dive,max=120"`
}

type profileAuditRequest struct {
	MaxWorkers int  `json:"max_workers" validate:"gte=0,lte=32"`
	DryRun     bool `json:"dry_run"`
}

type optionDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type caregiverDetailsDTO struct {
	CareTypes      []string        `json:"careTypes"`
	Experience     string          `json:"experience,omitempty"`
	HourlyRate     float64         `json:"hourlyRate"`
	Availability   map[string]bool `json:"availability,omitempty"`
	Timing         string          `json:"timing,omitempty"`
	Certifications []string        `json:"certifications,omitempty"`
}

type careseekerDetailsDTO struct {
	CareNeeds    []string        `json:"careNeeds"`
	CareDetails  string          `json:"careDetails,omitempty"`
	Schedule     map[string]bool `json:"schedule,omitempty"`
	CareHours    []string        `json:"careHours,omitempty"`
	UrgencyLevel string          `json:"urgencyLevel,omitempty"`
	BudgetMin    float64         `json:"budgetMin"`
	BudgetMax    float64         `json:"budgetMax"`
	ZipCode      string          `json:"zipCode,omitempty"`
}

type profileDTO struct {
	UserID              string                `json:"userId"`
	Email               string                `json:"email,omitempty"`
	FullName            string                `json:"fullName"`
	AvatarURL           string                `json:"avatarUrl,omitempty"`
	Bio                 string                `json:"bio,omitempty"`
	Location            string                `json:"location,omitempty"`
	Role                string                `json:"role,omitempty"`
	OnboardingCompleted bool                  `json:"onboardingCompleted"`
	Caregiver           *caregiverDetailsDTO  `json:"caregiver,omitempty"`
	Careseeker          *careseekerDetailsDTO `json:"careseeker,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// listingCardDTO is the public view of a profile; contact details stay private.
type listingCardDTO struct {
	UserID     string   `json:"userId"`
	FullName   string   `json:"fullName"`
	AvatarURL  string   `json:"avatarUrl,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Location   string   `json:"location,omitempty"`
	Role       string   `json:"role"`
	Categories []string `json:"categories"`
	HourlyRate float64  `json:"hourlyRate,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Timing     string   `json:"timing,omitempty"`
	Urgency    string   `json:"urgency,omitempty"`
	BudgetMax  float64  `json:"budgetMax,omitempty"`
}

type listingPageDTO struct {
	Items      []listingCardDTO `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
}

type dashboardDTO struct {
	Profile           profileDTO            `json:"profile"`
	CompletionPercent int                   `json:"completionPercent"`
	QuickActions      []usecase.QuickAction `json:"quickActions"`
	CounterpartRole   string                `json:"counterpartRole,omitempty"`
	CounterpartCount  int                   `json:"counterpartCount"`
}

type onboardingResultDTO struct {
	Profile profileDTO `json:"profile"`
	Next    string     `json:"next"`
}

func optionsToDTO(options []profile.Option) []optionDTO {
	out := make([]optionDTO, 0, len(options))
	for _, o := range options {
		out = append(out, optionDTO{ID: o.ID, Label: o.Label})
	}
	return out
}

func profileToDTO(ctx context.Context, p profile.Profile) profileDTO {
	_, span := startSpan(ctx, "httpapi.profileToDTO")
	defer span.End()

	out := profileDTO{
		UserID:              p.UserID,
		Email:               p.Email,
		FullName:            p.FullName,
		AvatarURL:           p.AvatarURL,
		Bio:                 p.Bio,
		Location:            p.Location,
		Role:                string(p.Role),
		OnboardingCompleted: p.OnboardingCompleted,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if c := p.Caregiver; c != nil {
		out.Caregiver = &caregiverDetailsDTO{
			CareTypes:      nonNil(c.CareTypes),
			Experience:     c.Experience,
			HourlyRate:     c.HourlyRate,
			Availability:   c.Availability,
			Timing:         c.Timing,
			Certifications: c.Certifications,
		}
	}
	if s := p.Careseeker; s != nil {
		out.Careseeker = &careseekerDetailsDTO{
			CareNeeds:    nonNil(s.CareNeeds),
			CareDetails:  s.CareDetails,
			Schedule:     s.Schedule,
			CareHours:    s.CareHours,
			UrgencyLevel: s.UrgencyLevel,
			BudgetMin:    s.BudgetMin,
			BudgetMax:    s.BudgetMax,
			ZipCode:      s.ZipCode,
		}
	}
	return out
}

func listingCardToDTO(p profile.Profile) listingCardDTO {
	out := listingCardDTO{
		UserID:     p.UserID,
		FullName:   p.FullName,
		AvatarURL:  p.AvatarURL,
		Bio:        p.Bio,
		Location:   p.Location,
		Role:       string(p.Role),
		Categories: nonNil(p.Categories()),
	}
	if c := p.Caregiver; c != nil {
		out.HourlyRate = c.HourlyRate
		out.Experience = c.Experience
		out.Timing = c.Timing
	}
	if s := p.Careseeker; s != nil {
		out.Urgency = s.UrgencyLevel
		out.BudgetMax = s.BudgetMax
	}
	return out
}

func weekdayOptions() []optionDTO {
	out := make([]optionDTO, 0, len(profile.Weekdays))
	for _, d := range profile.Weekdays {
		out = append(out, optionDTO{ID: d, Label: strings.ToUpper(d[:1]) + d[1:]})
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
