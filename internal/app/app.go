package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	rdb "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/carelink/internal/config"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/infrastructure/identity/anubis"
	"github.com/riskibarqy/carelink/internal/infrastructure/identity/jwtsession"
	cacherepo "github.com/riskibarqy/carelink/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/carelink/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/carelink/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/carelink/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/carelink/internal/interfaces/httpapi"
	"github.com/riskibarqy/carelink/internal/platform/logging"
	"github.com/riskibarqy/carelink/internal/platform/resilience"
	"github.com/riskibarqy/carelink/internal/usecase"
)

// Server is the wired HTTP server plus the resources it owns.
type Server struct {
	HTTP    *http.Server
	closers []func() error
}

// Close releases store connections. It does not stop the HTTP server.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	srv := &Server{}
	profileRepo, err := buildProfileRepository(ctx, cfg, logger, srv)
	if err != nil {
		_ = srv.Close()
		return nil, err
	}

	identityClient := anubis.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		anubis.Config{
			BaseURL:         cfg.IdentityBaseURL,
			IntrospectPath:  cfg.IdentityIntrospectPath,
			TokenPath:       cfg.IdentityTokenPath,
			AdminKey:        cfg.IdentityAdminKey,
			ClientID:        cfg.IdentityClientID,
			ClientSecret:    cfg.IdentityClientSecret,
			CacheTTL:        cfg.IdentityCacheTTL,
			CacheMaxEntries: cfg.IdentityCacheMaxEntries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.IdentityCircuitEnabled,
				FailureThreshold: cfg.IdentityCircuitFailureCount,
				OpenTimeout:      cfg.IdentityCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.IdentityCircuitHalfOpenMax,
			},
		},
		logger,
	)

	var sessions usecase.SessionProvider = identityClient
	if cfg.IdentityJWTSecret != "" {
		verifier, err := jwtsession.NewVerifier(cfg.IdentityJWTSecret, cfg.IdentityJWTIssuer, 0)
		if err != nil {
			_ = srv.Close()
			return nil, fmt.Errorf("build jwt session verifier: %w", err)
		}
		sessions = verifier
		logger.Info("session verification uses local jwt verifier")
	}

	profileSvc := usecase.NewProfileService(profileRepo)
	listingSvc := usecase.NewListingService(profileRepo, cfg.ListingPageSize)
	accessSvc := usecase.NewAccessService(sessions, profileRepo, usecase.AccessConfig{FailOpen: cfg.AccessFailOpen}, logger)
	authSvc := usecase.NewAuthService(identityClient, profileSvc, usecase.AuthConfig{
		AuthorizeURL: cfg.IdentityAuthorizeURL,
		CallbackURL:  cfg.IdentityCallbackURL,
	}, logger)
	dashboardSvc := usecase.NewDashboardService(profileRepo, listingSvc)
	auditSvc := usecase.NewProfileAuditService(profileRepo, logger)

	cookies := httpapi.CookieConfig{
		Name:   cfg.SessionCookieName,
		Domain: cfg.SessionCookieDomain,
		Secure: cfg.SessionCookieSecure,
		MaxAge: cfg.SessionMaxAge,
	}
	metrics, err := httpapi.NewMetrics(nil)
	if err != nil {
		_ = srv.Close()
		return nil, fmt.Errorf("build metrics: %w", err)
	}

	handler := httpapi.NewHandler(profileSvc, authSvc, listingSvc, dashboardSvc, auditSvc, cookies, logger)
	router := httpapi.NewRouter(handler, accessSvc, sessions, metrics, logger, httpapi.RouterConfig{
		Cookies:            cookies,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return srv, nil
}

// buildProfileRepository stacks the configured store with the redis and
// in-process caches. Closers for opened connections are registered on srv.
func buildProfileRepository(ctx context.Context, cfg config.Config, logger *logging.Logger, srv *Server) (profile.Repository, error) {
	var repo profile.Repository
	switch cfg.ProfileStore {
	case config.StorePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, db.Close)
		repo = postgres.NewProfileRepository(db)
		logger.Info("profile store ready", "store", config.StorePostgres, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		repo = memory.NewProfileRepository(memory.SeedProfiles())
		logger.Info("profile store ready", "store", config.StoreMemory)
	}

	if cfg.RedisURL != "" {
		opts, err := rdb.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := rdb.NewClient(opts)
		srv.closers = append(srv.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, profile reads will fall through", "addr", opts.Addr, "error", err)
		}
		repo = redisrepo.NewProfileRepository(repo, client, "", cfg.RedisTTL, logger)
	}

	if cfg.CacheEnabled {
		repo = cacherepo.NewProfileRepository(repo, cfg.CacheTTL)
	}

	return repo, nil
}
