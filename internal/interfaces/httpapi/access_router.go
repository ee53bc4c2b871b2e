package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/usecase"
)

// AccessEvaluator is satisfied by usecase.AccessService.
type AccessEvaluator interface {
	Evaluate(ctx context.Context, path, accessToken string) usecase.AccessResult
}

// AccessRouter runs the session and onboarding redirect policy in front of
// page routes. API, health and metrics routes are not routed by it. A panic
// during evaluation lets the request through unmodified.
func AccessRouter(evaluator AccessEvaluator, cookies CookieConfig, metrics *Metrics, logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !routedByAccessPolicy(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := startSpan(r.Context(), "httpapi.AccessRouter")
		defer span.End()

		result, err := evaluateAccess(ctx, evaluator, r.URL.Path, sessionToken(r, cookies))
		if err != nil {
			logger.ErrorContext(ctx, "access evaluation recovered, passing request through",
				"path", r.URL.Path,
				"error", err,
			)
			metrics.observeDecision(access.Allow(access.RuleEvaluationRecovered))
			next.ServeHTTP(w, r)
			return
		}
		metrics.observeDecision(result.Decision)

		if hasSessionCookie(r, cookies) && !result.Authenticated && result.Decision.Rule != access.RuleIdentityUnavailable {
			clearSessionCookie(w, cookies)
		}

		if result.Decision.Redirect() {
			logger.DebugContext(ctx, "access redirect",
				"path", r.URL.Path,
				"target", result.Decision.Target,
				"rule", string(result.Decision.Rule),
			)
			http.Redirect(w, r, result.Decision.Target, http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccessResult(ctx, result)))
	})
}

func evaluateAccess(ctx context.Context, evaluator AccessEvaluator, path, token string) (result usecase.AccessResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("access evaluation panic: %v", rec)
		}
	}()
	return evaluator.Evaluate(ctx, path, token), nil
}

func routedByAccessPolicy(path string) bool {
	for _, prefix := range []string{"/v1", "/healthz", "/metrics"} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return false
		}
	}
	return true
}

func hasSessionCookie(r *http.Request, cookies CookieConfig) bool {
	cookie, err := r.Cookie(cookies.name())
	return err == nil && strings.TrimSpace(cookie.Value) != ""
}
