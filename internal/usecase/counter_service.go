package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type AdjustInput struct {
	GameID int64
	Side   livegame.Side
	Row    livegame.RowKind
	Field  string
	Delta  int
}

type AdjustResult struct {
	Previous int
	Value    int
	RowID    int64
	// Skipped is set when the row has no backend id yet; the local value is
	// kept and no patch is sent.
	Skipped   bool
	Dashboard *livegame.Dashboard
}

// CounterService applies optimistic counter edits and reconciles them with
// the backend of record.
type CounterService struct {
	backend livegame.Backend
	live    *LiveDashboardService
	logger  *logging.Logger
	locks   keyedMutex
}

func NewCounterService(backend livegame.Backend, live *LiveDashboardService, logger *logging.Logger) *CounterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CounterService{
		backend: backend,
		live:    live,
		logger:  logger,
	}
}

// Adjust moves one sub-counter by delta (+1 or -1, floored at zero). The new
// value is visible before the patch is sent; a failed patch restores the
// previous value. Adjustments of the same field run one at a time.
func (s *CounterService) Adjust(ctx context.Context, in AdjustInput) (AdjustResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CounterService.Adjust",
		attribute.Int64("game.id", in.GameID),
		attribute.String("counter.row", string(in.Row)),
		attribute.String("counter.field", in.Field),
	)
	defer span.End()

	in.Field = strings.TrimSpace(in.Field)
	if err := validateAdjustInput(in); err != nil {
		return AdjustResult{}, err
	}

	unlock := s.locks.Lock(fmt.Sprintf("%d:%s:%s:%s", in.GameID, in.Side, in.Row, in.Field))
	defer unlock()

	change, err := s.live.mutateCounter(ctx, in.GameID, in.Side, in.Row, in.Field, func(current int) int {
		return max(0, current+in.Delta)
	})
	if err != nil {
		return AdjustResult{}, err
	}
	result := AdjustResult{
		Previous:  change.Previous,
		Value:     change.Value,
		RowID:     change.RowID,
		Dashboard: change.Dashboard,
	}

	if change.RowID <= 0 {
		s.logger.InfoContext(ctx, "counter row has no backend id yet, keeping local value",
			"game_id", in.GameID,
			"side", in.Side,
			"row", in.Row,
			"field", in.Field,
		)
		result.Skipped = true
		return result, nil
	}

	if err := s.backend.PatchCounterRow(ctx, in.Row, change.RowID, map[string]int{in.Field: change.Value}); err != nil {
		reverted, revertErr := s.live.mutateCounter(ctx, in.GameID, in.Side, in.Row, in.Field, func(int) int {
			return change.Previous
		})
		if revertErr != nil {
			s.logger.ErrorContext(ctx, "revert optimistic counter failed", "game_id", in.GameID, "error", revertErr)
		} else {
			result.Dashboard = reverted.Dashboard
		}
		result.Value = change.Previous

		s.logger.WarnContext(ctx, "counter update rejected, reverted local value",
			"game_id", in.GameID,
			"side", in.Side,
			"row", in.Row,
			"row_id", change.RowID,
			"field", in.Field,
			"value", change.Previous,
			"error", err,
		)
		return result, fmt.Errorf("%w: patch %s row %d: %w", ErrOptimisticRejected, in.Row, change.RowID, err)
	}

	if d, err := s.live.Refresh(ctx, in.GameID); err != nil {
		s.logger.WarnContext(ctx, "reconciling refresh after counter update failed", "game_id", in.GameID, "error", err)
	} else {
		result.Dashboard = d
	}
	return result, nil
}

func validateAdjustInput(in AdjustInput) error {
	if in.GameID <= 0 {
		return fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}
	if in.Side != livegame.SideHome && in.Side != livegame.SideAway {
		return fmt.Errorf("%w: side must be home or away", ErrInvalidInput)
	}
	if !in.Row.Patchable() {
		return fmt.Errorf("%w: counter row %q cannot be adjusted", ErrInvalidInput, in.Row)
	}
	if !in.Row.HasField(in.Field) {
		return fmt.Errorf("%w: unknown %s field %q", ErrInvalidInput, in.Row, in.Field)
	}
	if in.Delta != 1 && in.Delta != -1 {
		return fmt.Errorf("%w: delta must be +1 or -1", ErrInvalidInput)
	}
	return nil
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
