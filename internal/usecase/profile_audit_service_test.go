package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	profilemock "github.com/riskibarqy/carelink/internal/mocks/domain/profile"
	"github.com/stretchr/testify/mock"
)

func TestProfileAuditService_Run(t *testing.T) {
	t.Parallel()

	repo := profilemock.NewRepository(t)
	svc := NewProfileAuditService(repo, logging.NewNop())

	repo.On("ListInconsistent", mock.Anything).Return([]profile.Profile{
		{UserID: "u3", OnboardingCompleted: true},
		{UserID: "u1", OnboardingCompleted: true},
		{UserID: "u2", OnboardingCompleted: true},
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p profile.Profile) bool {
		return p.UserID != "u2" && !p.OnboardingCompleted
	})).Return(nil).Twice()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(p profile.Profile) bool {
		return p.UserID == "u2"
	})).Return(errors.New("write timeout")).Once()

	got, err := svc.Run(context.Background(), ProfileAuditInput{MaxWorkers: 8})
	if err != nil {
		t.Fatalf("run audit: %v", err)
	}
	if got.ScannedCount != 3 || got.RepairedCount != 2 || got.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.WorkerCount != 3 {
		t.Fatalf("worker count should be capped by task count, got %d", got.WorkerCount)
	}
	if got.Items[0].UserID != "u1" || got.Items[1].Status != auditStatusFailed {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
}

func TestProfileAuditService_DryRunSkipsWrites(t *testing.T) {
	t.Parallel()

	repo := profilemock.NewRepository(t)
	svc := NewProfileAuditService(repo, logging.NewNop())
	repo.On("ListInconsistent", mock.Anything).
		Return([]profile.Profile{{UserID: "u1", OnboardingCompleted: true}}, nil).
		Once()

	got, err := svc.Run(context.Background(), ProfileAuditInput{DryRun: true})
	if err != nil {
		t.Fatalf("run audit: %v", err)
	}
	if got.SkippedCount != 1 || got.RepairedCount != 0 || !got.DryRun {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestProfileAuditService_ListError(t *testing.T) {
	t.Parallel()

	repo := profilemock.NewRepository(t)
	svc := NewProfileAuditService(repo, logging.NewNop())
	repo.On("ListInconsistent", mock.Anything).Return(nil, errors.New("boom")).Once()

	if _, err := svc.Run(context.Background(), ProfileAuditInput{}); err == nil {
		t.Fatalf("expected error")
	}
}
