package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/carelink/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	byUserID map[string]profile.Profile
}

func NewProfileRepository(seed []profile.Profile) *ProfileRepository {
	byUserID := make(map[string]profile.Profile, len(seed))
	for _, p := range seed {
		byUserID[p.UserID] = cloneProfile(p)
	}
	return &ProfileRepository{byUserID: byUserID}
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUserID[strings.TrimSpace(userID)]
	if !ok {
		return profile.Profile{}, false, nil
	}
	return cloneProfile(p), true, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, item profile.Profile) error {
	userID := strings.TrimSpace(item.UserID)
	if userID == "" {
		return fmt.Errorf("upsert profile: user id is required")
	}
	if !item.Consistent() {
		return fmt.Errorf("upsert profile user_id=%s: %w", userID, profile.ErrRoleRequired)
	}

	item.UserID = userID
	r.mu.Lock()
	if existing, ok := r.byUserID[userID]; ok && item.CreatedAt.IsZero() {
		item.CreatedAt = existing.CreatedAt
	}
	r.byUserID[userID] = cloneProfile(item)
	r.mu.Unlock()
	return nil
}

func (r *ProfileRepository) ListCompletedByRole(_ context.Context, role profile.Role) ([]profile.Profile, error) {
	return r.collect(func(p profile.Profile) bool {
		return p.OnboardingCompleted && p.Role == role
	}), nil
}

func (r *ProfileRepository) ListInconsistent(_ context.Context) ([]profile.Profile, error) {
	return r.collect(func(p profile.Profile) bool {
		return !p.Consistent()
	}), nil
}

// collect returns matching profiles, most recently updated first.
func (r *ProfileRepository) collect(match func(profile.Profile) bool) []profile.Profile {
	r.mu.RLock()
	out := make([]profile.Profile, 0, len(r.byUserID))
	for _, p := range r.byUserID {
		if match(p) {
			out = append(out, cloneProfile(p))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b profile.Profile) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return out
}

func cloneProfile(p profile.Profile) profile.Profile {
	if p.Caregiver != nil {
		details := *p.Caregiver
		details.CareTypes = slices.Clone(details.CareTypes)
		details.Certifications = slices.Clone(details.Certifications)
		details.Availability = maps.Clone(details.Availability)
		p.Caregiver = &details
	}
	if p.Careseeker != nil {
		details := *p.Careseeker
		details.CareNeeds = slices.Clone(details.CareNeeds)
		details.CareHours = slices.Clone(details.CareHours)
		details.Schedule = maps.Clone(details.Schedule)
		p.Careseeker = &details
	}
	return p
}
