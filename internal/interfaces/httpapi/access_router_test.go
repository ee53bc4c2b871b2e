package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type evaluatorFunc func(ctx context.Context, path, token string) usecase.AccessResult

func (f evaluatorFunc) Evaluate(ctx context.Context, path, token string) usecase.AccessResult {
	return f(ctx, path, token)
}

func newAccessRouterForTest(t *testing.T, evaluator AccessEvaluator, next http.Handler) http.Handler {
	t.Helper()
	metrics, err := NewMetrics(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	return AccessRouter(evaluator, CookieConfig{Name: testCookieName}, metrics, logging.NewNop(), next)
}

func TestAccessRouter_PanicPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	router := newAccessRouterForTest(t, evaluatorFunc(func(context.Context, string, string) usecase.AccessResult {
		panic("profile store exploded")
	}), next)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through after panic, called=%v status=%d", called, rec.Code)
	}
}

func TestAccessRouter_SkipsAPIRoutes(t *testing.T) {
	router := newAccessRouterForTest(t, evaluatorFunc(func(context.Context, string, string) usecase.AccessResult {
		t.Fatalf("evaluator must not run for api routes")
		return usecase.AccessResult{}
	}), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/v1/profile/me", "/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: expected 204, got %d", path, rec.Code)
		}
	}
}

func TestAccessRouter_RedirectsWithoutCallingNext(t *testing.T) {
	router := newAccessRouterForTest(t, evaluatorFunc(func(_ context.Context, path, _ string) usecase.AccessResult {
		return usecase.AccessResult{Decision: access.Decide(path, access.State{})}
	}), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next must not run on redirect")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/onboarding/caregiver", nil))

	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != access.PathHome {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAccessRouter_ForwardsSessionToHandlers(t *testing.T) {
	var gotToken string
	router := newAccessRouterForTest(t, evaluatorFunc(func(_ context.Context, _ string, token string) usecase.AccessResult {
		gotToken = token
		return usecase.AccessResult{
			Decision:      access.Allow(access.RulePass),
			Authenticated: true,
			Session:       user.Session{UserID: "u1", AccessToken: token},
		}
	}), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFromContext(r.Context())
		if !ok || s.UserID != "u1" {
			t.Fatalf("expected session in context, got %+v", s)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || gotToken != "header-token" {
		t.Fatalf("unexpected result: status=%d token=%q", rec.Code, gotToken)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid session must keep its cookie")
	}
}

func TestAccessRouter_KeepsCookieDuringIdentityOutage(t *testing.T) {
	router := newAccessRouterForTest(t, evaluatorFunc(func(context.Context, string, string) usecase.AccessResult {
		return usecase.AccessResult{Decision: access.Allow(access.RuleIdentityUnavailable)}
	}), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected pass-through with cookie kept, status=%d cookies=%v", rec.Code, rec.Result().Cookies())
	}
}
