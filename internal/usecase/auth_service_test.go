package usecase

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	profilemock "github.com/riskibarqy/carelink/internal/mocks/domain/profile"
	usecasemock "github.com/riskibarqy/carelink/internal/mocks/usecase"
	"github.com/stretchr/testify/mock"
)

func newTestAuthService(t *testing.T) (*AuthService, *usecasemock.CodeExchanger, *profilemock.Repository) {
	t.Helper()
	exchanger := usecasemock.NewCodeExchanger(t)
	repo := profilemock.NewRepository(t)
	svc := NewAuthService(exchanger, NewProfileService(repo), AuthConfig{
		AuthorizeURL: "https://id.example.com/authorize?client_id=carelink",
		CallbackURL:  "https://carelink.example.com/auth/callback",
	}, logging.NewNop())
	return svc, exchanger, repo
}

func TestAuthService_AuthorizeURL(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestAuthService(t)
	raw, err := svc.AuthorizeURL(AuthModeSignUp)
	if err != nil {
		t.Fatalf("authorize url: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse authorize url: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "carelink" || q.Get("mode") != "signup" || q.Get("response_type") != "code" {
		t.Fatalf("unexpected query: %s", u.RawQuery)
	}
	if q.Get("redirect_uri") != "https://carelink.example.com/auth/callback" {
		t.Fatalf("unexpected redirect_uri: %s", q.Get("redirect_uri"))
	}

	if _, err := svc.AuthorizeURL("magic"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_HandleCallback(t *testing.T) {
	t.Parallel()

	t.Run("missing code goes home", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		if got := svc.HandleCallback(context.Background(), ""); got.Redirect != access.PathHome {
			t.Fatalf("unexpected redirect: %s", got.Redirect)
		}
	})

	t.Run("exchange failure falls back to role selection", func(t *testing.T) {
		svc, exchanger, _ := newTestAuthService(t)
		exchanger.On("ExchangeCode", mock.Anything, "bad").Return(user.Session{}, ErrUnauthorized).Once()

		got := svc.HandleCallback(context.Background(), "bad")
		if got.Redirect != access.PathRoleSelection || got.Session.Valid() {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("first sign-in creates profile", func(t *testing.T) {
		svc, exchanger, repo := newTestAuthService(t)
		exchanger.On("ExchangeCode", mock.Anything, "code-1").
			Return(user.Session{UserID: "u1", Email: "u1@example.com", AccessToken: "tok"}, nil).
			Once()
		repo.On("GetByUserID", mock.Anything, "u1").Return(profile.Profile{}, false, nil).Once()
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("profile.Profile")).Return(nil).Once()

		got := svc.HandleCallback(context.Background(), "code-1")
		if !got.ProfileCreated || got.Redirect != access.PathRoleSelection || got.Session.AccessToken != "tok" {
			t.Fatalf("unexpected result: %+v", got)
		}
	})

	t.Run("returning caregiver resumes onboarding", func(t *testing.T) {
		svc, exchanger, repo := newTestAuthService(t)
		exchanger.On("ExchangeCode", mock.Anything, "code-2").Return(user.Session{UserID: "u2"}, nil).Once()
		repo.On("GetByUserID", mock.Anything, "u2").
			Return(profile.Profile{UserID: "u2", Role: profile.RoleCaregiver}, true, nil).
			Once()

		if got := svc.HandleCallback(context.Background(), "code-2"); got.Redirect != access.PathCaregiverOnboarding {
			t.Fatalf("unexpected redirect: %s", got.Redirect)
		}
	})

	t.Run("completed profile lands on dashboard", func(t *testing.T) {
		svc, exchanger, repo := newTestAuthService(t)
		exchanger.On("ExchangeCode", mock.Anything, "code-3").Return(user.Session{UserID: "u3"}, nil).Once()
		repo.On("GetByUserID", mock.Anything, "u3").
			Return(profile.Profile{UserID: "u3", Role: profile.RoleCareseeker, OnboardingCompleted: true}, true, nil).
			Once()

		if got := svc.HandleCallback(context.Background(), "code-3"); got.Redirect != access.PathDashboard {
			t.Fatalf("unexpected redirect: %s", got.Redirect)
		}
	})

	t.Run("profile store failure keeps session", func(t *testing.T) {
		svc, exchanger, repo := newTestAuthService(t)
		exchanger.On("ExchangeCode", mock.Anything, "code-4").Return(user.Session{UserID: "u4"}, nil).Once()
		repo.On("GetByUserID", mock.Anything, "u4").Return(profile.Profile{}, false, errors.New("db down")).Once()

		got := svc.HandleCallback(context.Background(), "code-4")
		if got.Redirect != access.PathRoleSelection || got.Session.UserID != "u4" {
			t.Fatalf("unexpected result: %+v", got)
		}
	})
}
