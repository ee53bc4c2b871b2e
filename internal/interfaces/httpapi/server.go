package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type RouterConfig struct {
	Cookies            CookieConfig
	CORSAllowedOrigins []string
	InternalJobToken   string
}

func NewRouter(
	handler *Handler,
	accessService AccessEvaluator,
	sessions usecase.SessionProvider,
	metrics *Metrics,
	logger *logging.Logger,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerPageRoutes(mux, handler)
	registerPublicAPIRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, sessions, cfg.Cookies)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	routed := AccessRouter(accessService, cfg.Cookies, metrics, logger, mux)
	return RequestTracing(RequestID(metrics.Instrument(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, routed))))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
