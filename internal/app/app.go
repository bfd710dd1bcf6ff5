package app

import (
	"context"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/hockey-dashboard/external/hockeyapi"
	"github.com/riskibarqy/hockey-dashboard/internal/config"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/infrastructure/catalog"
	"github.com/riskibarqy/hockey-dashboard/internal/infrastructure/publisher"
	"github.com/riskibarqy/hockey-dashboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hockey-dashboard/internal/interfaces/httpapi"
	"github.com/riskibarqy/hockey-dashboard/internal/interfaces/livews"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/resilience"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

// App owns the HTTP server and every long-lived dependency behind it.
type App struct {
	Server *http.Server

	logger   *logging.Logger
	live     *usecase.LiveDashboardService
	metadata *usecase.MetadataService
	hub      *livews.Hub
	db       *sqlx.DB
	redis    *redis.Client
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.closeStores()
		}
	}()

	client, err := hockeyapi.NewClient(hockeyapi.ClientConfig{
		BaseURL:    cfg.HockeyAPIBaseURL,
		Token:      cfg.HockeyAPIToken,
		Timeout:    cfg.HockeyAPITimeout,
		MaxRetries: cfg.HockeyAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.HockeyAPICircuitEnabled,
			FailureThreshold: cfg.HockeyAPICircuitFailureCount,
			OpenTimeout:      cfg.HockeyAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.HockeyAPICircuitHalfOpenMaxReq,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build hockey api client: %w", err)
	}

	var fallback metadata.Source
	if cfg.MetadataCatalogPath != "" {
		src, err := catalog.LoadFile(cfg.MetadataCatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load metadata catalog: %w", err)
		}
		fallback = src
	}
	metadataSvc := usecase.NewMetadataService(usecase.MetadataServiceConfig{
		Source:   client,
		Fallback: fallback,
		TTL:      cfg.MetadataCacheTTL,
		Logger:   logger,
	})

	a.metadata = metadataSvc

	a.hub = livews.NewHub(cfg.CORSAllowedOrigins, logger)
	observers := []usecase.DashboardObserver{a.hub}

	var archive *usecase.SnapshotArchive
	if cfg.DBEnabled {
		if a.db, err = openDB(ctx, cfg); err != nil {
			return nil, err
		}
		archive = usecase.NewSnapshotArchive(postgres.NewRawDataRepository(a.db), "")
		observers = append(observers, archive)
	}
	if cfg.RedisEnabled {
		if a.redis, err = openRedis(ctx, cfg); err != nil {
			return nil, err
		}
		observers = append(observers, publisher.NewRedisDashboard(a.redis, publisher.RedisDashboardConfig{
			StreamPrefix: cfg.RedisStreamPrefix,
			ViewTTL:      cfg.RedisViewTTL,
		}))
	}

	clock := gameclock.NewNormalizer(cfg.Timezone)
	a.live, err = usecase.NewLiveDashboardService(usecase.LiveDashboardConfig{
		Backend:   client,
		Catalog:   metadataSvc,
		Clock:     clock,
		Workers:   cfg.PollWorkers,
		Logger:    logger,
		Observers: observers,
	})
	if err != nil {
		return nil, fmt.Errorf("build live dashboard service: %w", err)
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Live:       a.live,
		Counters:   usecase.NewCounterService(client, a.live, logger),
		SprayChart: usecase.NewSprayChartService(client, metadataSvc, a.live, clock),
		Events:     usecase.NewGameEventService(client, a.live, logger),
		Archive:    archive,
		Stream:     a.hub,
		Logger:     logger,
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"db_enabled", cfg.DBEnabled,
		"redis_enabled", cfg.RedisEnabled,
		"catalog_fallback", fallback != nil,
		"poll_workers", cfg.PollWorkers,
	)
	ok = true
	return a, nil
}

// ReloadMetadata drops the cached option lists; the next dashboard build
// fetches them again.
func (a *App) ReloadMetadata() {
	if a.metadata == nil {
		return
	}
	dropped := a.metadata.Invalidate()
	a.logger.Info("metadata reload requested", "entries_dropped", dropped)
}

// Shutdown stops the HTTP server, then the pollers, then the push channels
// and stores they feed.
func (a *App) Shutdown(ctx context.Context) error {
	var errs error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "shutdown http server"))
		}
	}
	if a.live != nil {
		if err := a.live.Close(ctx); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close live dashboards"))
		}
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if err := a.closeStores(); err != nil {
		errs = crerr.CombineErrors(errs, err)
	}
	return errs
}

func (a *App) closeStores() error {
	var errs error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close redis"))
		}
		a.redis = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = crerr.CombineErrors(errs, crerr.Wrap(err, "close db"))
		}
		a.db = nil
	}
	return errs
}
