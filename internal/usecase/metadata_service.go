package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/cache"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	metadataCachePrefix = "metadata:"
	catalogCacheKey     = metadataCachePrefix + "catalog"
)

// MetadataService serves the option lists (event types, shot types, periods,
// teams, players) that every derivation looks names up in.
type MetadataService struct {
	source   metadata.Source
	fallback metadata.Source
	cache    *cache.Store[*metadata.Catalog]
	logger   *logging.Logger
	lastGood atomic.Pointer[metadata.Catalog]
}

type MetadataServiceConfig struct {
	Source metadata.Source
	// Fallback is consulted when Source fails; usually the static catalog file.
	Fallback metadata.Source
	TTL      time.Duration
	Logger   *logging.Logger
}

func NewMetadataService(cfg MetadataServiceConfig) *MetadataService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MetadataService{
		source:   cfg.Source,
		fallback: cfg.Fallback,
		cache:    cache.NewStore[*metadata.Catalog](ttl),
		logger:   logger,
	}
}

// Catalog returns the cached catalog, loading it on a miss. A failed load
// falls back to the static catalog, then to the last good catalog.
func (s *MetadataService) Catalog(ctx context.Context) (*metadata.Catalog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MetadataService.Catalog")
	defer span.End()

	return s.cache.GetOrLoad(ctx, catalogCacheKey, s.load)
}

// Invalidate drops every cached metadata entry so the next call reloads it.
// The last good catalog is kept as the fallback of last resort.
func (s *MetadataService) Invalidate() int {
	dropped := s.cache.DeletePrefix(metadataCachePrefix)
	s.logger.Info("metadata cache invalidated", "entries", dropped)
	return dropped
}

func (s *MetadataService) load(ctx context.Context) (*metadata.Catalog, error) {
	if s.source != nil {
		opts, err := loadOptions(ctx, s.source)
		if err == nil {
			catalog := metadata.NewCatalog(opts)
			s.lastGood.Store(catalog)
			return catalog, nil
		}
		s.logger.WarnContext(ctx, "load metadata from backend failed", "error", err)
	}

	if s.fallback != nil {
		opts, err := loadOptions(ctx, s.fallback)
		if err == nil {
			s.logger.InfoContext(ctx, "using static metadata catalog",
				"event_types", len(opts.EventTypes),
				"periods", len(opts.Periods),
			)
			return metadata.NewCatalog(opts), nil
		}
		s.logger.WarnContext(ctx, "load static metadata catalog failed", "error", err)
	}

	if catalog := s.lastGood.Load(); catalog != nil {
		return catalog, nil
	}
	return nil, fmt.Errorf("%w: metadata catalog is unavailable", ErrDependencyUnavailable)
}

// loadOptions fetches every option list concurrently and fails as a whole
// when any list fails.
func loadOptions(ctx context.Context, src metadata.Source) (metadata.Options, error) {
	var (
		opts       metadata.Options
		eventTypes []metadata.EventType
		shotTypes  []metadata.ShotType
		periods    []metadata.Period
		teams      []team.Team
		players    []player.Player
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := src.ListEventTypes(ctx)
		if err != nil {
			return fmt.Errorf("list event types: %w", err)
		}
		eventTypes = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := src.ListShotTypes(ctx)
		if err != nil {
			return fmt.Errorf("list shot types: %w", err)
		}
		shotTypes = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := src.ListPeriods(ctx)
		if err != nil {
			return fmt.Errorf("list periods: %w", err)
		}
		periods = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := src.ListTeams(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := src.ListPlayers(ctx)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		players = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return metadata.Options{}, err
	}

	opts.EventTypes = eventTypes
	opts.ShotTypes = shotTypes
	opts.Periods = periods
	opts.Teams = teams
	opts.Players = players
	return opts, nil
}
