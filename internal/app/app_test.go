package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/config"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                         config.EnvDev,
		HTTPAddr:                       ":0",
		ReadTimeout:                    time.Second,
		WriteTimeout:                   time.Second,
		Timezone:                       time.UTC,
		CORSAllowedOrigins:             []string{"*"},
		HockeyAPIBaseURL:               "http://127.0.0.1:1/api",
		HockeyAPITimeout:               time.Second,
		HockeyAPICircuitFailureCount:   5,
		HockeyAPICircuitOpenTimeout:    time.Second,
		HockeyAPICircuitHalfOpenMaxReq: 1,
		MetadataCacheTTL:               time.Minute,
		PollWorkers:                    2,
	}
}

func TestNew_ServesHealthz(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Archive is disabled without a database.
	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/games/7/archive/latest", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for archive without db, got %d", rec.Code)
	}

	// Nothing cached yet; a reload request must still be safe.
	a.ReloadMetadata()

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_LoadsCatalogFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `event_types:
  - {id: 1, name: Shot on Goal}
shot_types:
  - {id: 10, name: Goal}
periods:
  - {id: 1, name: "1st", order: 1}
teams:
  - {id: 3, name: Otters, short: OTT}
players:
  - {id: 30, team_id: 3, first_name: Ada, last_name: Lind, number: 30, position: goalie}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfg := testConfig()
	cfg.MetadataCatalogPath = path
	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "empty addr", mutate: func(c *config.Config) { c.HTTPAddr = "" }},
		{name: "bad base url", mutate: func(c *config.Config) { c.HockeyAPIBaseURL = "ftp://stats" }},
		{name: "missing catalog", mutate: func(c *config.Config) { c.MetadataCatalogPath = "/nonexistent/catalog.yaml" }},
		{name: "unreachable redis", mutate: func(c *config.Config) {
			c.RedisEnabled = true
			c.RedisAddr = "127.0.0.1:1"
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
