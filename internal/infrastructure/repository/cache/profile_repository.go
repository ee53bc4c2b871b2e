package cache

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/carelink/internal/domain/profile"
	basecache "github.com/riskibarqy/carelink/internal/platform/cache"
)

type profileLookup struct {
	value  profile.Profile
	exists bool
}

// ProfileRepository memoizes profile reads in process. Writes go straight to
// next, then drop the user's entry and every role listing.
type ProfileRepository struct {
	next   profile.Repository
	byUser *basecache.Store[profileLookup]
	byRole *basecache.Store[[]profile.Profile]
}

func NewProfileRepository(next profile.Repository, ttl time.Duration) *ProfileRepository {
	return &ProfileRepository{
		next:   next,
		byUser: basecache.New[profileLookup](ttl),
		byRole: basecache.New[[]profile.Profile](ttl),
	}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	found, err := r.byUser.GetOrLoad(ctx, strings.TrimSpace(userID), func(ctx context.Context) (profileLookup, error) {
		item, exists, err := r.next.GetByUserID(ctx, userID)
		return profileLookup{value: item, exists: exists}, err
	})
	if err != nil {
		return profile.Profile{}, false, err
	}
	return found.value, found.exists, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, item profile.Profile) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.byUser.Delete(strings.TrimSpace(item.UserID))
	r.byRole.Clear()
	return nil
}

func (r *ProfileRepository) ListCompletedByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	items, err := r.byRole.GetOrLoad(ctx, string(role), func(ctx context.Context) ([]profile.Profile, error) {
		return r.next.ListCompletedByRole(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	// Callers may sort or trim the slice; the cached one stays intact.
	return append([]profile.Profile(nil), items...), nil
}

// ListInconsistent always reads through; the audit job must see current rows.
func (r *ProfileRepository) ListInconsistent(ctx context.Context) ([]profile.Profile, error) {
	return r.next.ListInconsistent(ctx)
}
