package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/carelink/internal/domain/user"
)

const defaultSessionCookieName = "carelink_session"

type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	// MaxAge bounds cookies for sessions that carry no expiry.
	MaxAge time.Duration
}

func (c CookieConfig) name() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return defaultSessionCookieName
}

// sessionToken reads the access token from the session cookie, falling back
// to an Authorization bearer header for API clients.
func sessionToken(r *http.Request, cfg CookieConfig) string {
	if cookie, err := r.Cookie(cfg.name()); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, s user.Session, now time.Time) {
	cookie := &http.Cookie{
		Name:     cfg.name(),
		Value:    s.AccessToken,
		Path:     "/",
		Domain:   strings.TrimSpace(cfg.Domain),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case !s.ExpiresAt.IsZero():
		cookie.Expires = s.ExpiresAt.UTC()
		cookie.MaxAge = max(int(s.ExpiresAt.Sub(now).Seconds()), 1)
	case cfg.MaxAge > 0:
		cookie.MaxAge = int(cfg.MaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		Domain:   strings.TrimSpace(cfg.Domain),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}
