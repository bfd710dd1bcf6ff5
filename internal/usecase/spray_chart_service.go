package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/spraychart"
	"go.opentelemetry.io/otel/attribute"
)

type SprayChartInput struct {
	GameID     int64
	View       string
	SeasonID   int64
	ShotTypeID int64
	Flip       bool
}

// SprayChartService builds goalie, player and full-game spray charts from the
// backend's spray-chart query.
type SprayChartService struct {
	events  gameevent.Repository
	catalog catalogProvider
	live    *LiveDashboardService
	clock   gameclock.Normalizer
}

func NewSprayChartService(events gameevent.Repository, catalog catalogProvider, live *LiveDashboardService, clock gameclock.Normalizer) *SprayChartService {
	return &SprayChartService{
		events:  events,
		catalog: catalog,
		live:    live,
		clock:   clock,
	}
}

func (s *SprayChartService) Build(ctx context.Context, in SprayChartInput) ([]spraychart.Marker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SprayChartService.Build",
		attribute.Int64("game.id", in.GameID),
		attribute.String("spraychart.view", in.View),
	)
	defer span.End()

	if in.GameID <= 0 {
		return nil, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}
	view, ok := gameevent.ViewByName(in.View)
	if !ok {
		return nil, fmt.Errorf("%w: unknown spray chart view %q", ErrInvalidInput, in.View)
	}

	records, err := s.events.ListForSprayChart(ctx, in.GameID, gameevent.SprayChartFilter{
		SeasonID:   in.SeasonID,
		ShotTypeID: in.ShotTypeID,
	})
	if err != nil {
		return nil, fmt.Errorf("list spray chart events game_id=%d: %w", in.GameID, err)
	}

	catalog, err := s.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	opts := livegame.SprayChartOptions(catalog, s.clock, s.gameStart(in.GameID), view, in.Flip, nil)
	return spraychart.Transform(tagEvents(records, catalog), opts), nil
}

// gameStart is taken from the live dashboard when the game is being watched;
// otherwise times are shown raw.
func (s *SprayChartService) gameStart(gameID int64) time.Time {
	if s.live == nil {
		return time.Time{}
	}
	d, err := s.live.Dashboard(gameID)
	if err != nil {
		return time.Time{}
	}
	start, _ := s.clock.GameStart(d.Snapshot.StartTime)
	return start
}
