package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "hockey-dashboard-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.Timezone != time.UTC {
		t.Fatalf("expected UTC timezone, got %v", cfg.Timezone)
	}
	if cfg.PollWorkers != 8 {
		t.Fatalf("unexpected poll workers: %d", cfg.PollWorkers)
	}
	if cfg.MetadataCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected metadata cache ttl: %s", cfg.MetadataCacheTTL)
	}
	if cfg.DBEnabled || cfg.RedisEnabled {
		t.Fatalf("expected optional stores disabled by default")
	}
	if cfg.RedisStreamPrefix != "dashboard.updates" || cfg.RedisViewTTL != 2*time.Hour {
		t.Fatalf("unexpected redis defaults: %q %s", cfg.RedisStreamPrefix, cfg.RedisViewTTL)
	}
	if !cfg.HockeyAPICircuitEnabled || cfg.HockeyAPICircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_SERVICE_NAME", "hockey-dashboard-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "hockey-dashboard-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	isolateEnv(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://rinkside.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://rinkside.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})

	t.Run("only separators", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " , ,")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for empty CORS origin list")
		}
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "APP_READ_TIMEOUT", value: "soon"},
		{key: "APP_WRITE_TIMEOUT", value: "-1s"},
		{key: "APP_TIMEZONE", value: "Mars/Olympus_Mons"},
		{key: "HOCKEY_API_TIMEOUT", value: "0s"},
		{key: "HOCKEY_API_MAX_RETRIES", value: "-1"},
		{key: "HOCKEY_API_CIRCUIT_ENABLED", value: "maybe"},
		{key: "HOCKEY_API_CIRCUIT_FAILURE_COUNT", value: "0"},
		{key: "HOCKEY_API_CIRCUIT_OPEN_TIMEOUT", value: "bad"},
		{key: "HOCKEY_API_CIRCUIT_HALF_OPEN_MAX_REQ", value: "0"},
		{key: "METADATA_CACHE_TTL", value: "bad"},
		{key: "POLL_WORKERS", value: "0"},
		{key: "DB_ENABLED", value: "yes please"},
		{key: "DB_DISABLE_PREPARED_BINARY_RESULT", value: "not-bool"},
		{key: "REDIS_DB", value: "-2"},
		{key: "REDIS_VIEW_TTL", value: "0s"},
		{key: "PYROSCOPE_UPLOAD_RATE", value: "bad"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_HockeyAPIAndStores(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_TIMEZONE", "America/Toronto")
	t.Setenv("HOCKEY_API_BASE_URL", "https://stats.example.com/api")
	t.Setenv("HOCKEY_API_TOKEN", " secret ")
	t.Setenv("HOCKEY_API_TIMEOUT", "4s")
	t.Setenv("HOCKEY_API_MAX_RETRIES", "3")
	t.Setenv("POLL_WORKERS", "2")
	t.Setenv("METADATA_CATALOG_PATH", "config/catalog.yaml")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_STREAM_PREFIX", "rink")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Timezone.String() != "America/Toronto" {
		t.Fatalf("unexpected timezone: %s", cfg.Timezone)
	}
	if cfg.HockeyAPIBaseURL != "https://stats.example.com/api" || cfg.HockeyAPIToken != "secret" {
		t.Fatalf("unexpected hockey api settings: %q %q", cfg.HockeyAPIBaseURL, cfg.HockeyAPIToken)
	}
	if cfg.HockeyAPITimeout != 4*time.Second || cfg.HockeyAPIMaxRetries != 3 {
		t.Fatalf("unexpected hockey api timeout/retries: %s %d", cfg.HockeyAPITimeout, cfg.HockeyAPIMaxRetries)
	}
	if cfg.PollWorkers != 2 || cfg.MetadataCatalogPath != "config/catalog.yaml" {
		t.Fatalf("unexpected poll/metadata settings: %d %q", cfg.PollWorkers, cfg.MetadataCatalogPath)
	}
	if !cfg.DBEnabled || !cfg.RedisEnabled || cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 3 || cfg.RedisStreamPrefix != "rink" {
		t.Fatalf("unexpected store settings: %+v", cfg)
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "HOCKEY_API_BASE_URL=https://dotenv.example.com/api\nPOLL_WORKERS=5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("APP_DOTENV_PATH", path)
	// Registered so t.Setenv restores the unset state after godotenv writes them.
	t.Setenv("HOCKEY_API_BASE_URL", "")
	t.Setenv("POLL_WORKERS", "9")
	os.Unsetenv("HOCKEY_API_BASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HockeyAPIBaseURL != "https://dotenv.example.com/api" {
		t.Fatalf("expected value from dotenv file, got %q", cfg.HockeyAPIBaseURL)
	}
	if cfg.PollWorkers != 9 {
		t.Fatalf("expected environment to win over dotenv, got %d", cfg.PollWorkers)
	}
}

func TestLoad_DotenvMalformed(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "bad.env")
	if err := os.WriteFile(path, []byte("NOT A VALID LINE WITHOUT EQUALS\n'unterminated"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("APP_DOTENV_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed dotenv file")
	}
}
