package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/rink"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// GameEventService forwards event edits to the backend of record and then
// refreshes the live dashboard so the timeline reflects them.
type GameEventService struct {
	events gameevent.Repository
	live   *LiveDashboardService
	logger *logging.Logger
}

func NewGameEventService(events gameevent.Repository, live *LiveDashboardService, logger *logging.Logger) *GameEventService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameEventService{events: events, live: live, logger: logger}
}

func (s *GameEventService) Create(ctx context.Context, gameID int64, rec gameevent.Record) (int64, *livegame.Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameEventService.Create", attribute.Int64("game.id", gameID))
	defer span.End()

	rec.GameID = gameID
	if err := validateEventRecord(rec); err != nil {
		return 0, nil, err
	}

	id, err := s.events.Create(ctx, rec)
	if err != nil {
		return 0, nil, fmt.Errorf("create game event game_id=%d: %w", gameID, err)
	}
	return id, s.refresh(ctx, gameID), nil
}

func (s *GameEventService) Update(ctx context.Context, gameID, eventID int64, rec gameevent.Record) (*livegame.Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameEventService.Update",
		attribute.Int64("game.id", gameID),
		attribute.Int64("event.id", eventID),
	)
	defer span.End()

	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id must be greater than zero", ErrInvalidInput)
	}
	rec.GameID = gameID
	rec.ID = eventID
	if err := validateEventRecord(rec); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, eventID, rec); err != nil {
		return nil, fmt.Errorf("update game event id=%d: %w", eventID, err)
	}
	return s.refresh(ctx, gameID), nil
}

func (s *GameEventService) Delete(ctx context.Context, gameID, eventID int64) (*livegame.Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameEventService.Delete",
		attribute.Int64("game.id", gameID),
		attribute.Int64("event.id", eventID),
	)
	defer span.End()

	if gameID <= 0 || eventID <= 0 {
		return nil, fmt.Errorf("%w: game id and event id must be greater than zero", ErrInvalidInput)
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return nil, fmt.Errorf("delete game event id=%d: %w", eventID, err)
	}
	return s.refresh(ctx, gameID), nil
}

// refresh is best effort: the edit already succeeded upstream, so a failed
// refresh only delays the dashboard until the next tick.
func (s *GameEventService) refresh(ctx context.Context, gameID int64) *livegame.Dashboard {
	if s.live == nil {
		return nil
	}
	d, err := s.live.Refresh(ctx, gameID)
	if err != nil {
		s.logger.WarnContext(ctx, "refresh after game event change failed", "game_id", gameID, "error", err)
		return nil
	}
	return d
}

func validateEventRecord(rec gameevent.Record) error {
	switch {
	case rec.GameID <= 0:
		return fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	case rec.EventTypeID <= 0:
		return fmt.Errorf("%w: event type is required", ErrInvalidInput)
	case rec.TeamID <= 0:
		return fmt.Errorf("%w: team is required", ErrInvalidInput)
	case rec.PeriodID <= 0:
		return fmt.Errorf("%w: period is required", ErrInvalidInput)
	}
	for _, v := range []int{rec.IceTopOffset, rec.IceLeftOffset, rec.NetTopOffset, rec.NetLeftOffset} {
		if v < 0 || v > rink.Scale {
			return fmt.Errorf("%w: offsets must be within 0..%d", ErrInvalidInput, rink.Scale)
		}
	}
	return nil
}
