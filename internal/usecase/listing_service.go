package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/carelink/internal/domain/listing"
	"github.com/riskibarqy/carelink/internal/domain/profile"
)

type ListingService struct {
	profileRepo     profile.Repository
	defaultPageSize int
}

func NewListingService(profileRepo profile.Repository, defaultPageSize int) *ListingService {
	return &ListingService{
		profileRepo:     profileRepo,
		defaultPageSize: defaultPageSize,
	}
}

// Browse lists completed profiles of query.Role after filtering and paging.
func (s *ListingService) Browse(ctx context.Context, query listing.Query) (listing.Page, error) {
	ctx, span := startSpan(ctx, "usecase.ListingService.Browse")
	defer span.End()

	if !query.Role.Valid() {
		return listing.Page{}, fmt.Errorf("%w: listing role must be caregiver or careseeker", ErrInvalidInput)
	}
	query = query.Normalized(s.defaultPageSize)

	items, err := s.profileRepo.ListCompletedByRole(ctx, query.Role)
	if err != nil {
		recordSpanError(span, err)
		return listing.Page{}, fmt.Errorf("list %s profiles: %w", query.Role, err)
	}
	return listing.Apply(items, query), nil
}

// Count reports how many completed profiles of role exist.
func (s *ListingService) Count(ctx context.Context, role profile.Role) (int, error) {
	if !role.Valid() {
		return 0, nil
	}
	items, err := s.profileRepo.ListCompletedByRole(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("list %s profiles: %w", role, err)
	}
	return len(items), nil
}
