package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/domain/profile"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	s, err := requireSession(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	roleHint := profile.RoleNone
	if result, ok := accessResultFromContext(ctx); ok && result.Profile != nil {
		roleHint = result.Profile.Role
	}

	dashboard, err := h.dashboardService.Get(ctx, s.UserID, roleHint)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "user_id", s.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardDTO{
		Profile:           profileToDTO(ctx, dashboard.Profile),
		CompletionPercent: dashboard.CompletionPercent,
		QuickActions:      dashboard.QuickActions,
		CounterpartRole:   string(dashboard.CounterpartRole),
		CounterpartCount:  dashboard.CounterpartCount,
	})
}
