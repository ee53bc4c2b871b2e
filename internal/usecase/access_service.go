package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SessionProvider resolves an access token into the caller's session.
// Invalid or expired tokens must be reported as ErrUnauthorized.
type SessionProvider interface {
	GetSession(ctx context.Context, accessToken string) (user.Session, error)
}

type AccessConfig struct {
	// FailOpen lets requests through unmodified when the identity provider
	// cannot be reached. When false the caller is handled as a guest.
	FailOpen bool
}

type AccessResult struct {
	Decision      access.Decision
	Authenticated bool
	Session       user.Session
	Profile       *profile.Profile
}

type AccessService struct {
	sessions    SessionProvider
	profileRepo profile.Repository
	cfg         AccessConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewAccessService(sessions SessionProvider, profileRepo profile.Repository, cfg AccessConfig, logger *logging.Logger) *AccessService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AccessService{
		sessions:    sessions,
		profileRepo: profileRepo,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Evaluate gathers the caller's session and profile and runs the redirect
// policy for path. Collaborator failures never surface as errors.
func (s *AccessService) Evaluate(ctx context.Context, path, accessToken string) AccessResult {
	ctx, span := startSpan(ctx, "usecase.AccessService.Evaluate")
	defer span.End()

	result := AccessResult{}
	accessToken = strings.TrimSpace(accessToken)
	if accessToken != "" {
		session, err := s.sessions.GetSession(ctx, accessToken)
		switch {
		case err == nil && session.Valid() && !session.Expired(s.now()):
			result.Authenticated = true
			result.Session = session
		case err == nil, errors.Is(err, ErrUnauthorized):
		default:
			recordSpanError(span, err)
			if s.cfg.FailOpen {
				s.logger.WarnContext(ctx, "identity lookup failed, passing request through",
					"path", path,
					"error", err,
				)
				result.Decision = access.Allow(access.RuleIdentityUnavailable)
				return result
			}
			s.logger.WarnContext(ctx, "identity lookup failed, treating caller as guest",
				"path", path,
				"error", err,
			)
		}
	}

	state := access.State{Authenticated: result.Authenticated}
	if result.Authenticated && access.NeedsProfile(path) {
		item, exists, err := s.profileRepo.GetByUserID(ctx, result.Session.UserID)
		switch {
		case err != nil:
			recordSpanError(span, err)
			s.logger.WarnContext(ctx, "profile lookup failed",
				"user_id", result.Session.UserID,
				"path", path,
				"error", err,
			)
		case exists:
			result.Profile = &item
			v := item.View()
			state.Profile = &v
		}
	}

	result.Decision = access.Decide(path, state)
	span.SetAttributes(
		attribute.String("access.action", string(result.Decision.Action)),
		attribute.String("access.rule", string(result.Decision.Rule)),
	)
	return result
}
