package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/logging"
)

// CodeExchanger trades a one-time authorization code for a session.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (user.Session, error)
}

type AuthConfig struct {
	AuthorizeURL string
	CallbackURL  string
}

type AuthMode string

const (
	AuthModeSignIn AuthMode = "signin"
	AuthModeSignUp AuthMode = "signup"
)

type CallbackResult struct {
	Session        user.Session
	Redirect       string
	ProfileCreated bool
}

type AuthService struct {
	exchanger CodeExchanger
	profiles  *ProfileService
	cfg       AuthConfig
	logger    *logging.Logger
}

func NewAuthService(exchanger CodeExchanger, profiles *ProfileService, cfg AuthConfig, logger *logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		exchanger: exchanger,
		profiles:  profiles,
		cfg:       cfg,
		logger:    logger,
	}
}

// AuthorizeURL builds the identity provider URL the browser is sent to.
func (s *AuthService) AuthorizeURL(mode AuthMode) (string, error) {
	if mode != AuthModeSignIn && mode != AuthModeSignUp {
		return "", fmt.Errorf("%w: unsupported auth mode %q", ErrInvalidInput, mode)
	}
	base := strings.TrimSpace(s.cfg.AuthorizeURL)
	if base == "" {
		return "", fmt.Errorf("%w: identity authorize url is not configured", ErrDependencyUnavailable)
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse authorize url: %w", err)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("mode", string(mode))
	if callback := strings.TrimSpace(s.cfg.CallbackURL); callback != "" {
		q.Set("redirect_uri", callback)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HandleCallback completes a sign-in. It never fails: errors fall back to the
// role selection page, a missing code falls back to home.
func (s *AuthService) HandleCallback(ctx context.Context, code string) CallbackResult {
	ctx, span := startSpan(ctx, "usecase.AuthService.HandleCallback")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return CallbackResult{Redirect: access.PathHome}
	}

	session, err := s.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		recordSpanError(span, err)
		s.logger.WarnContext(ctx, "auth code exchange failed", "error", err)
		return CallbackResult{Redirect: access.PathRoleSelection}
	}
	if !session.Valid() {
		return CallbackResult{Redirect: access.PathHome}
	}

	item, created, err := s.profiles.Ensure(ctx, session)
	if err != nil {
		recordSpanError(span, err)
		s.logger.WarnContext(ctx, "ensure profile after sign-in failed",
			"user_id", session.UserID,
			"error", err,
		)
		return CallbackResult{Session: session, Redirect: access.PathRoleSelection}
	}
	if created {
		s.logger.InfoContext(ctx, "profile created on first sign-in", "user_id", session.UserID)
		return CallbackResult{Session: session, Redirect: access.PathRoleSelection, ProfileCreated: true}
	}

	view := item.View()
	return CallbackResult{Session: session, Redirect: access.LandingTarget(&view)}
}
