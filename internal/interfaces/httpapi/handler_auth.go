package httpapi

import (
	"net/http"

	"github.com/riskibarqy/carelink/internal/domain/access"
	"github.com/riskibarqy/carelink/internal/usecase"
)

type authorizeDTO struct {
	Mode         string `json:"mode"`
	AuthorizeURL string `json:"authorizeUrl"`
}

func (h *Handler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.writeAuthorize(w, r, usecase.AuthModeSignIn)
}

func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.writeAuthorize(w, r, usecase.AuthModeSignUp)
}

func (h *Handler) writeAuthorize(w http.ResponseWriter, r *http.Request, mode usecase.AuthMode) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Authorize")
	defer span.End()

	target, err := h.authService.AuthorizeURL(mode)
	if err != nil {
		h.logger.ErrorContext(ctx, "build authorize url failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, authorizeDTO{Mode: string(mode), AuthorizeURL: target})
}

// AuthCallback finishes the identity provider redirect. It always answers
// with a redirect.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AuthCallback")
	defer span.End()

	if errCode := r.URL.Query().Get("error"); errCode != "" {
		h.logger.WarnContext(ctx, "identity provider returned error on callback",
			"error_code", errCode,
			"error_description", r.URL.Query().Get("error_description"),
		)
	}

	result := h.authService.HandleCallback(ctx, r.URL.Query().Get("code"))
	if result.Session.Valid() && result.Session.AccessToken != "" {
		setSessionCookie(w, h.cookies, result.Session, h.now())
	}

	http.Redirect(w, r, result.Redirect, http.StatusTemporaryRedirect)
}

// SignOut drops the session cookie. It works without a valid session so that
// stale cookies can always be cleared.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignOut")
	defer span.End()

	if s, ok := sessionFromContext(ctx); ok {
		h.logger.InfoContext(ctx, "user signed out", "user_id", s.UserID)
	}
	clearSessionCookie(w, h.cookies)
	http.Redirect(w, r, access.PathHome, http.StatusSeeOther)
}
