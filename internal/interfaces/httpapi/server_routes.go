package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics *Metrics) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
}

// registerPageRoutes serves the page view models. Redirects for these paths
// are decided by the access router before the handlers run.
func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /{$}", handler.Landing)
	mux.HandleFunc("GET /auth/signin", handler.SignInPage)
	mux.HandleFunc("GET /auth/signup", handler.SignUpPage)
	mux.HandleFunc("GET /auth/callback", handler.AuthCallback)
	mux.HandleFunc("GET /onboarding/role-selection", handler.RoleSelectionPage)
	mux.HandleFunc("GET /onboarding/caregiver", handler.CaregiverOnboardingPage)
	mux.HandleFunc("GET /onboarding/careseeker", handler.CareseekerOnboardingPage)
	mux.HandleFunc("GET /dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /profile", handler.GetMyProfile)
}

func registerPublicAPIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/caregivers", handler.ListCaregivers)
	mux.HandleFunc("GET /v1/careseekers", handler.ListCareseekers)
	mux.HandleFunc("POST /v1/auth/signout", handler.SignOut)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, sessions usecase.SessionProvider, cookies CookieConfig) {
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, cookies, h)
	}

	mux.Handle("PUT /v1/onboarding/role", authed(handler.SelectRole))
	mux.Handle("POST /v1/onboarding/caregiver", authed(handler.CompleteCaregiverOnboarding))
	mux.Handle("POST /v1/onboarding/careseeker", authed(handler.CompleteCareseekerOnboarding))
	mux.Handle("GET /v1/profile/me", authed(handler.GetMyProfile))
	mux.Handle("PUT /v1/profile/me", authed(handler.UpdateMyProfile))
	mux.Handle("GET /v1/dashboard", authed(handler.GetDashboard))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/profile-audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunProfileAuditJob)))
}
