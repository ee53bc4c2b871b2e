package profile

import (
	"context"
	"errors"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error
	ListCompletedByRole(ctx context.Context, role Role) ([]Profile, error)
	ListInconsistent(ctx context.Context) ([]Profile, error)
}

// ErrRoleRequired is returned by stores that enforce
// onboarding_completed => role is set.
var ErrRoleRequired = errors.New("onboarding completed without role")
