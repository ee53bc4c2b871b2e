package anubis

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/platform/cache"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/platform/resilience"
	"github.com/riskibarqy/carelink/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const maxResponseBytes = 1 << 20

var (
	errAnubisTransient = crerr.New("anubis transient failure")
	jsonAPI            = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Config struct {
	BaseURL         string
	IntrospectPath  string
	TokenPath       string
	AdminKey        string
	ClientID        string
	ClientSecret    string
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client talks to the Anubis identity service. Introspection results are
// cached per token hash and both calls share one circuit breaker.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	tokenURL      string
	cfg           Config
	sessions      *cache.Store[user.Session]
	breaker       *resilience.CircuitBreaker
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("anubis circuit state changed", "from", from, "to", to)
		}
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: endpointURL(cfg.BaseURL, cfg.IntrospectPath),
		tokenURL:      endpointURL(cfg.BaseURL, cfg.TokenPath),
		cfg:           cfg,
		sessions:      cache.New[user.Session](cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries)),
		breaker:       resilience.NewCircuitBreaker(breakerCfg),
		logger:        logger,
	}
}

func (c *Client) GetSession(ctx context.Context, accessToken string) (user.Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return user.Session{}, crerr.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	cacheKey := hashToken(accessToken)
	if session, ok := c.sessions.Get(cacheKey); ok {
		return session, nil
	}

	var decoded introspectResponse
	err := c.post(ctx, c.introspectURL, introspectRequest{Token: accessToken}, &decoded)
	if err != nil {
		return user.Session{}, err
	}
	if !decoded.Active {
		return user.Session{}, crerr.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Session{}, crerr.Wrap(usecase.ErrDependencyUnavailable, "invalid introspect response: user_id is empty")
	}

	session := user.Session{
		UserID:      decoded.UserID,
		Email:       decoded.Email,
		AccessToken: accessToken,
	}
	if decoded.Exp > 0 {
		session.ExpiresAt = time.Unix(decoded.Exp, 0).UTC()
	}
	c.sessions.SetUntil(cacheKey, session, session.ExpiresAt)
	return session, nil
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (user.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return user.Session{}, crerr.Wrap(usecase.ErrInvalidInput, "code is required")
	}

	var decoded tokenResponse
	err := c.post(ctx, c.tokenURL, tokenRequest{
		GrantType:    "authorization_code",
		Code:         code,
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
	}, &decoded)
	if err != nil {
		if crerr.Is(err, usecase.ErrUnauthorized) {
			return user.Session{}, crerr.Wrap(err, "exchange authorization code")
		}
		return user.Session{}, err
	}
	if strings.TrimSpace(decoded.AccessToken) == "" || strings.TrimSpace(decoded.User.ID) == "" {
		return user.Session{}, crerr.Wrap(usecase.ErrDependencyUnavailable, "invalid token response")
	}

	session := user.Session{
		UserID:       decoded.User.ID,
		Email:        decoded.User.Email,
		AccessToken:  decoded.AccessToken,
		RefreshToken: decoded.RefreshToken,
	}
	if decoded.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().UTC().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	}
	c.sessions.SetUntil(hashToken(session.AccessToken), session, session.ExpiresAt)
	return session, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	err := c.breaker.Execute(func() error {
		return c.doPost(ctx, endpoint, payload, out)
	}, isCircuitFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "anubis circuit open", "endpoint", endpoint)
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "anubis circuit open")
	}
	return err
}

func (c *Client) doPost(ctx context.Context, endpoint string, payload, out any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := jsonAPI.NewEncoder(buf).Encode(payload); err != nil {
		return crerr.Wrap(err, "encode anubis request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(buf.String()))
	if err != nil {
		return crerr.Wrap(err, "create anubis request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if key := strings.TrimSpace(c.cfg.AdminKey); key != "" {
		req.Header.Set("x-admin-key", key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return crerr.Mark(crerr.Wrap(usecase.ErrDependencyUnavailable, err.Error()), errAnubisTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return crerr.Mark(crerr.Wrap(usecase.ErrDependencyUnavailable, "read anubis response"), errAnubisTransient)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return crerr.Wrapf(usecase.ErrUnauthorized, "anubis rejected request with status %d", resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden:
		// Our admin key was refused; the caller's token says nothing either way.
		c.logger.ErrorContext(ctx, "anubis refused admin key", "endpoint", endpoint)
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "anubis refused admin key")
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnContext(ctx, "anubis request failed",
			"endpoint", endpoint,
			"status_code", resp.StatusCode,
		)
		return crerr.Mark(crerr.Wrapf(usecase.ErrDependencyUnavailable, "anubis status %d", resp.StatusCode), errAnubisTransient)
	case resp.StatusCode != http.StatusOK:
		return crerr.Wrapf(usecase.ErrDependencyUnavailable, "anubis unexpected status %d", resp.StatusCode)
	}

	if err := jsonAPI.Unmarshal(body, out); err != nil {
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "decode anubis response")
	}
	return nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}
