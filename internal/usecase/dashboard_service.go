package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/sourcegraph/conc/pool"
)

type QuickAction struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type Dashboard struct {
	Profile           profile.Profile
	CompletionPercent int
	QuickActions      []QuickAction
	CounterpartRole   profile.Role
	CounterpartCount  int
}

type DashboardService struct {
	profileRepo profile.Repository
	listings    dashboardListingCounter
}

type dashboardListingCounter interface {
	Count(ctx context.Context, role profile.Role) (int, error)
}

func NewDashboardService(profileRepo profile.Repository, listings dashboardListingCounter) *DashboardService {
	return &DashboardService{
		profileRepo: profileRepo,
		listings:    listings,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID string, role profile.Role) (Dashboard, error) {
	ctx, span := startSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	if userID == "" {
		return Dashboard{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	var (
		item   profile.Profile
		exists bool
		count  int
	)

	// role is a hint from the access check; counting starts before the profile
	// read completes and is discarded if the stored role differs.
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		item, exists, err = s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return nil
	})
	if role.Valid() {
		p.Go(func(ctx context.Context) error {
			var err error
			count, err = s.listings.Count(ctx, role.Counterpart())
			if err != nil {
				return fmt.Errorf("count %s listings: %w", role.Counterpart(), err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		recordSpanError(span, err)
		return Dashboard{}, err
	}
	if !exists {
		return Dashboard{}, fmt.Errorf("%w: profile not found", ErrNotFound)
	}

	if item.Role != role {
		count = 0
		if item.Role.Valid() {
			n, err := s.listings.Count(ctx, item.Role.Counterpart())
			if err != nil {
				return Dashboard{}, fmt.Errorf("count %s listings: %w", item.Role.Counterpart(), err)
			}
			count = n
		}
	}

	return Dashboard{
		Profile:           item,
		CompletionPercent: item.CompletionPercent(),
		QuickActions:      quickActionsFor(item.Role),
		CounterpartRole:   item.Role.Counterpart(),
		CounterpartCount:  count,
	}, nil
}

func quickActionsFor(role profile.Role) []QuickAction {
	switch role {
	case profile.RoleCaregiver:
		return []QuickAction{
			{Title: "Update Availability", Path: "/profile/availability"},
			{Title: "View Requests", Path: "/requests"},
			{Title: "Edit Profile", Path: "/profile/edit"},
		}
	case profile.RoleCareseeker:
		return []QuickAction{
			{Title: "Find Caregivers", Path: "/v1/caregivers"},
			{Title: "Manage Bookings", Path: "/bookings"},
			{Title: "Edit Profile", Path: "/profile/edit"},
		}
	default:
		return []QuickAction{
			{Title: "Complete Your Profile", Path: "/onboarding/role-selection"},
		}
	}
}
