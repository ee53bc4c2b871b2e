package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/usecase"
)

const (
	testCookieName = "cl_session"
	testJobToken   = "job-secret"
)

type fakeSessions struct {
	sessions map[string]user.Session
	errs     map[string]error
}

func (f fakeSessions) GetSession(_ context.Context, token string) (user.Session, error) {
	if err, ok := f.errs[token]; ok {
		return user.Session{}, err
	}
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return user.Session{}, usecase.ErrUnauthorized
}

func (f fakeSessions) ExchangeCode(_ context.Context, code string) (user.Session, error) {
	return f.GetSession(context.Background(), "code:"+code)
}

type testServer struct {
	router http.Handler
	repo   *memory.ProfileRepository
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	logger := logging.NewNop()
	seed := append(memory.SeedProfiles(),
		profile.Profile{UserID: "giver-draft", Role: profile.RoleCaregiver},
		profile.Profile{
			UserID:              "seeker-done",
			FullName:            "Robert Hale",
			Location:            "Denver, CO",
			Role:                profile.RoleCareseeker,
			OnboardingCompleted: true,
			Careseeker:          &profile.CareseekerDetails{CareNeeds: []string{"child"}, UrgencyLevel: "flexible"},
		},
	)
	repo := memory.NewProfileRepository(seed)

	sessions := fakeSessions{
		sessions: map[string]user.Session{
			"tok-new":         {UserID: "newcomer", Email: "new@example.com", AccessToken: "tok-new"},
			"tok-giver":       {UserID: "giver-draft", AccessToken: "tok-giver"},
			"tok-seeker":      {UserID: "seeker-done", AccessToken: "tok-seeker"},
			"code:code-giver": {UserID: "giver-draft", AccessToken: "tok-giver", ExpiresAt: time.Now().Add(time.Hour)},
		},
		errs: map[string]error{
			"tok-outage": usecase.ErrDependencyUnavailable,
		},
	}

	profileService := usecase.NewProfileService(repo)
	listingService := usecase.NewListingService(repo, listingDefaultPageSizeForTest)
	handler := NewHandler(
		profileService,
		usecase.NewAuthService(sessions, profileService, usecase.AuthConfig{
			AuthorizeURL: "https://id.example.com/authorize",
			CallbackURL:  "http://localhost:8080/auth/callback",
		}, logger),
		listingService,
		usecase.NewDashboardService(repo, listingService),
		usecase.NewProfileAuditService(repo, logger),
		CookieConfig{Name: testCookieName},
		logger,
	)
	metrics, err := NewMetrics(nil)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	accessService := usecase.NewAccessService(sessions, repo, usecase.AccessConfig{FailOpen: true}, logger)
	router := NewRouter(handler, accessService, sessions, metrics, logger, RouterConfig{
		Cookies:          CookieConfig{Name: testCookieName},
		InternalJobToken: testJobToken,
	})
	return testServer{router: router, repo: repo}
}

const listingDefaultPageSizeForTest = 6

func (s testServer) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestRouter_PageRedirects(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		token  string
		target string
	}{
		{name: "guest on dashboard", path: "/dashboard", target: access.PathHome},
		{name: "guest on nested profile page", path: "/profile/settings", target: access.PathHome},
		{name: "new user on signin", path: "/auth/signin", token: "tok-new", target: access.PathRoleSelection},
		{name: "draft caregiver on dashboard", path: "/dashboard", token: "tok-giver", target: access.PathCaregiverOnboarding},
		{name: "completed careseeker on onboarding", path: "/onboarding/careseeker", token: "tok-seeker", target: access.PathDashboard},
		{name: "completed careseeker on signup", path: "/auth/signup", token: "tok-seeker", target: access.PathDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, tt.token, "")
			if rec.Code != http.StatusTemporaryRedirect {
				t.Fatalf("expected 307, got %d body=%s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Location"); got != tt.target {
				t.Fatalf("expected redirect to %s, got %s", tt.target, got)
			}
		})
	}
}

func TestRouter_PagePassThrough(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/auth/signin", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected guest signin page, got %d", rec.Code)
	}
	got := decodeData[authorizeDTO](t, rec)
	if !strings.Contains(got.AuthorizeURL, "mode=signin") {
		t.Fatalf("unexpected authorize url: %s", got.AuthorizeURL)
	}

	rec = srv.do(t, http.MethodGet, "/onboarding/caregiver", "tok-giver", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected caregiver wizard, got %d", rec.Code)
	}
	wizard := decodeData[caregiverWizardDTO](t, rec)
	if wizard.Draft == nil || wizard.Draft.UserID != "giver-draft" || len(wizard.Weekdays) != 7 {
		t.Fatalf("unexpected wizard: %+v", wizard)
	}
}

func TestRouter_CallbackSetsCookieAndResumesOnboarding(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/auth/callback?code=code-giver", "", "")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != access.PathCaregiverOnboarding {
		t.Fatalf("unexpected redirect: %s", got)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			session = c
		}
	}
	if session == nil || session.Value != "tok-giver" || !session.HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", session)
	}

	rec = srv.do(t, http.MethodGet, "/auth/callback", "", "")
	if got := rec.Header().Get("Location"); got != access.PathHome {
		t.Fatalf("missing code should go home, got %s", got)
	}
}

func TestRouter_IdentityOutageFailsOpen(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/dashboard", "tok-outage", "")
	if rec.Code == http.StatusTemporaryRedirect {
		t.Fatalf("expected pass-through during identity outage")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected dashboard to report 503 without a session, got %d", rec.Code)
	}
}

func TestRouter_StaleCookieIsCleared(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/", "tok-revoked", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected landing page, got %d", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected stale session cookie to be cleared")
	}
}

func TestRouter_OnboardingFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v1/onboarding/role", "", `{"role":"caregiver"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPut, "/v1/onboarding/role", "tok-new", `{"role":"caregiver"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("select role: %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decodeData[onboardingResultDTO](t, rec); got.Next != access.PathCaregiverOnboarding {
		t.Fatalf("unexpected next step: %+v", got)
	}

	rec = srv.do(t, http.MethodPost, "/v1/onboarding/caregiver", "tok-new", `{"full_name":"Ana Ruiz","location":"Austin, TX","care_types":["elderly"],"experience":"3-5","hourly_rate":22,"availability":{"monday":true}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete caregiver: %d body=%s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, "/onboarding/caregiver", "tok-new", "")
	if got := rec.Header().Get("Location"); rec.Code != http.StatusTemporaryRedirect || got != access.PathDashboard {
		t.Fatalf("completed profile should leave onboarding, got %d %s", rec.Code, got)
	}

	rec = srv.do(t, http.MethodGet, "/dashboard", "tok-new", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d body=%s", rec.Code, rec.Body.String())
	}
	dashboard := decodeData[dashboardDTO](t, rec)
	if dashboard.CounterpartRole != string(profile.RoleCareseeker) || dashboard.CounterpartCount == 0 {
		t.Fatalf("unexpected dashboard: %+v", dashboard)
	}

	rec = srv.do(t, http.MethodPut, "/v1/onboarding/role", "tok-new", `{"role":"careseeker"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 once onboarding is completed, got %d", rec.Code)
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPut, "/v1/profile/me", "tok-seeker", `{"full_name":"R","is_admin":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_Listings(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/caregivers?category=elderly", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list caregivers: %d", rec.Code)
	}
	page := decodeData[listingPageDTO](t, rec)
	if page.TotalItems != 2 || page.PageSize != listingDefaultPageSizeForTest {
		t.Fatalf("unexpected page: %+v", page)
	}

	rec = srv.do(t, http.MethodGet, "/v1/careseekers?page_size=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page_size, got %d", rec.Code)
	}
}

func TestRouter_SignOut(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/auth/signout", "tok-seeker", "")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != access.PathHome {
		t.Fatalf("unexpected signout response: %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("expected cookie removal, got %q", rec.Header().Get("Set-Cookie"))
	}
}

func TestRouter_ProfileAuditJob(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/internal/jobs/profile-audit", "", `{"dry_run":true}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/profile-audit", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("run audit: %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decodeData[usecase.ProfileAuditResult](t, rec); got.ScannedCount != 0 {
		t.Fatalf("unexpected audit result: %+v", got)
	}
}

func TestRouter_MetricsAndRequestID(t *testing.T) {
	srv := newTestServer(t)
	_ = srv.do(t, http.MethodGet, "/dashboard", "", "")

	rec := srv.do(t, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `carelink_access_decisions_total{action="redirect",rule="guest_protected"} 1`) {
		t.Fatalf("missing access decision metric:\n%s", rec.Body.String())
	}
	if id := rec.Header().Get(requestIDHeader); len(id) != 36 {
		t.Fatalf("expected generated request id, got %q", id)
	}
}
