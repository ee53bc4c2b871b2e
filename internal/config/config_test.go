package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/carelink/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProfileStore != StoreMemory {
		t.Fatalf("unexpected ProfileStore: %q", cfg.ProfileStore)
	}
	if !cfg.AccessFailOpen {
		t.Fatalf("expected AccessFailOpen=true by default")
	}
	if cfg.SessionCookieName != "carelink_session" || cfg.SessionCookieSecure {
		t.Fatalf("unexpected cookie defaults: name=%q secure=%v", cfg.SessionCookieName, cfg.SessionCookieSecure)
	}
	if cfg.ListingPageSize != 6 {
		t.Fatalf("unexpected ListingPageSize: %d", cfg.ListingPageSize)
	}
	if cfg.IdentityTimeout != 3*time.Second {
		t.Fatalf("unexpected IdentityTimeout: %s", cfg.IdentityTimeout)
	}
	if cfg.IdentityAuthorizeURL != "http://localhost:8081/oauth/authorize" {
		t.Fatalf("unexpected IdentityAuthorizeURL: %q", cfg.IdentityAuthorizeURL)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_SecureCookieByEnv(t *testing.T) {
	t.Run("stage defaults to secure cookies", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvStage)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SessionCookieSecure {
			t.Fatalf("expected SessionCookieSecure=true outside dev")
		}
	})

	t.Run("explicit override wins", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvStage)
		t.Setenv("SESSION_COOKIE_SECURE", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SessionCookieSecure {
			t.Fatalf("expected SessionCookieSecure=false")
		}
	})
}

func TestLoad_ProdRequiresHTTPSCallback(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("IDENTITY_CALLBACK_URL", "http://carelink.example.com/auth/callback")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for plain http callback in prod")
	}
}

func TestLoad_ProfileStoreValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROFILE_STORE", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown PROFILE_STORE")
	}

	t.Setenv("PROFILE_STORE", "Postgres")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProfileStore != StorePostgres {
		t.Fatalf("unexpected ProfileStore: %q", cfg.ProfileStore)
	}
}

func TestLoad_AccessFailOpenParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ACCESS_FAIL_OPEN", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AccessFailOpen {
		t.Fatalf("expected AccessFailOpen=false")
	}

	t.Setenv("ACCESS_FAIL_OPEN", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error for ACCESS_FAIL_OPEN")
	}
}

func TestLoad_IdentityConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("IDENTITY_BASE_URL", "https://id.example.com/")
	t.Setenv("IDENTITY_TIMEOUT", "2s")
	t.Setenv("IDENTITY_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("IDENTITY_CACHE_MAX_ENTRIES", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IdentityAuthorizeURL != "https://id.example.com/oauth/authorize" {
		t.Fatalf("unexpected IdentityAuthorizeURL: %q", cfg.IdentityAuthorizeURL)
	}
	if cfg.IdentityTimeout != 2*time.Second || cfg.IdentityCircuitFailureCount != 3 || cfg.IdentityCacheMaxEntries != 500 {
		t.Fatalf("unexpected identity config: %+v", cfg)
	}
}

func TestLoad_IdentityValidation(t *testing.T) {
	cases := map[string][2]string{
		"zero timeout":         {"IDENTITY_TIMEOUT", "0s"},
		"bad circuit count":    {"IDENTITY_CIRCUIT_FAILURE_COUNT", "0"},
		"bad half open":        {"IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ", "x"},
		"short jwt secret":     {"IDENTITY_JWT_SECRET", "short"},
		"negative cache size":  {"IDENTITY_CACHE_MAX_ENTRIES", "-1"},
		"oversized page size":  {"LISTING_PAGE_SIZE", "51"},
		"negative session age": {"SESSION_MAX_AGE", "-1h"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "carelink-edge")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "carelink-edge" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.carelink.example , ,https://admin.carelink.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.carelink.example" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", ", ,")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for empty origin list")
	}
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("REDIS_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CacheEnabled || cfg.CacheTTL != 45*time.Second {
		t.Fatalf("unexpected cache config: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" || cfg.RedisTTL != 2*time.Minute {
		t.Fatalf("unexpected redis config: url=%q ttl=%s", cfg.RedisURL, cfg.RedisTTL)
	}
}
