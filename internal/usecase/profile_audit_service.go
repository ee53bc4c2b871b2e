package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/platform/logging"
)

const (
	defaultAuditWorkers = 4
	maxAuditWorkers     = 32

	auditStatusRepaired = "repaired"
	auditStatusFailed   = "failed"
	auditStatusSkipped  = "skipped"
)

type ProfileAuditInput struct {
	MaxWorkers int
	// DryRun reports what would be repaired without writing.
	DryRun bool
}

type ProfileAuditResult struct {
	ScannedCount  int                `json:"scanned_count"`
	RepairedCount int                `json:"repaired_count"`
	FailedCount   int                `json:"failed_count"`
	SkippedCount  int                `json:"skipped_count"`
	WorkerCount   int                `json:"worker_count"`
	DryRun        bool               `json:"dry_run"`
	Items         []ProfileAuditItem `json:"items"`
}

type ProfileAuditItem struct {
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ProfileAuditService finds profiles marked as onboarded without a role and
// reopens their onboarding.
type ProfileAuditService struct {
	profileRepo profile.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewProfileAuditService(profileRepo profile.Repository, logger *logging.Logger) *ProfileAuditService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileAuditService{
		profileRepo: profileRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ProfileAuditService) Run(ctx context.Context, input ProfileAuditInput) (ProfileAuditResult, error) {
	ctx, span := startSpan(ctx, "usecase.ProfileAuditService.Run")
	defer span.End()

	items, err := s.profileRepo.ListInconsistent(ctx)
	if err != nil {
		recordSpanError(span, err)
		return ProfileAuditResult{}, fmt.Errorf("list inconsistent profiles: %w", err)
	}

	workerCount := normalizeAuditWorkerCount(input.MaxWorkers, len(items))
	result := ProfileAuditResult{
		ScannedCount: len(items),
		WorkerCount:  workerCount,
		DryRun:       input.DryRun,
		Items:        make([]ProfileAuditItem, 0, len(items)),
	}
	if len(items) == 0 {
		return result, nil
	}

	rows := make(chan ProfileAuditItem, len(items))
	var repaired, failed, skipped atomic.Int32

	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return ProfileAuditResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for _, item := range items {
		item := item
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			start := time.Now()
			row := ProfileAuditItem{UserID: item.UserID}
			row.Status, row.Message = s.repair(ctx, item, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case auditStatusRepaired:
				repaired.Add(1)
			case auditStatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			rows <- row
		}); err != nil {
			wg.Done()
			return ProfileAuditResult{}, fmt.Errorf("submit audit task: %w", err)
		}
	}

	wg.Wait()
	close(rows)

	for row := range rows {
		result.Items = append(result.Items, row)
	}
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].UserID < result.Items[j].UserID
	})

	result.RepairedCount = int(repaired.Load())
	result.FailedCount = int(failed.Load())
	result.SkippedCount = int(skipped.Load())

	s.logger.InfoContext(ctx, "profile audit finished",
		"scanned", result.ScannedCount,
		"repaired", result.RepairedCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
		"dry_run", input.DryRun,
	)
	return result, nil
}

func (s *ProfileAuditService) repair(ctx context.Context, item profile.Profile, dryRun bool) (string, string) {
	if item.Consistent() {
		return auditStatusSkipped, "profile already consistent"
	}
	if dryRun {
		return auditStatusSkipped, "dry run"
	}

	item.OnboardingCompleted = false
	item.UpdatedAt = s.now().UTC()
	if err := s.profileRepo.Upsert(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "repair profile failed", "user_id", item.UserID, "error", err)
		return auditStatusFailed, err.Error()
	}
	return auditStatusRepaired, ""
}

func normalizeAuditWorkerCount(requested, tasks int) int {
	n := requested
	if n <= 0 {
		n = defaultAuditWorkers
	}
	if n > maxAuditWorkers {
		n = maxAuditWorkers
	}
	if tasks > 0 && n > tasks {
		n = tasks
	}
	if n < 1 {
		n = 1
	}
	return n
}
