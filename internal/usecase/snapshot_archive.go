package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/rawdata"
	"go.opentelemetry.io/otel/attribute"
)

const (
	archiveEntityLiveData = "live_data"
	defaultArchiveSource  = "hockey-api"
)

// SnapshotArchive stores every distinct live_data payload that became the
// current dashboard. Optimistic writes reuse the last payload and are skipped.
type SnapshotArchive struct {
	repo   rawdata.Repository
	source string

	mu       sync.Mutex
	lastHash map[int64]string
}

func NewSnapshotArchive(repo rawdata.Repository, source string) *SnapshotArchive {
	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultArchiveSource
	}
	return &SnapshotArchive{
		repo:     repo,
		source:   source,
		lastHash: make(map[int64]string),
	}
}

func (a *SnapshotArchive) DashboardUpdated(ctx context.Context, d *livegame.Dashboard) error {
	if d == nil || len(d.Snapshot.RawPayload) == 0 {
		return nil
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotArchive.DashboardUpdated")
	defer span.End()

	payloadJSON := strings.TrimSpace(string(d.Snapshot.RawPayload))
	sum := sha256.Sum256([]byte(payloadJSON))
	hash := hex.EncodeToString(sum[:])

	a.mu.Lock()
	unchanged := a.lastHash[d.GameID] == hash
	a.mu.Unlock()
	if unchanged {
		return nil
	}

	refreshedAt := d.RefreshedAt.UTC()
	item := rawdata.Payload{
		Source:          a.source,
		EntityType:      archiveEntityLiveData,
		EntityKey:       archiveEntityKey(d.GameID),
		GameID:          d.GameID,
		PayloadJSON:     payloadJSON,
		PayloadHash:     hash,
		SourceUpdatedAt: &refreshedAt,
	}
	if err := a.repo.UpsertMany(ctx, []rawdata.Payload{item}); err != nil {
		return fmt.Errorf("archive live data game_id=%d: %w", d.GameID, err)
	}

	a.mu.Lock()
	a.lastHash[d.GameID] = hash
	a.mu.Unlock()
	return nil
}

// Latest returns the last archived live_data payload of gameID.
func (a *SnapshotArchive) Latest(ctx context.Context, gameID int64) (rawdata.Payload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotArchive.Latest", attribute.Int64("game.id", gameID))
	defer span.End()

	if gameID <= 0 {
		return rawdata.Payload{}, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}
	item, ok, err := a.repo.Get(ctx, rawdata.Key{
		Source:     a.source,
		EntityType: archiveEntityLiveData,
		EntityKey:  archiveEntityKey(gameID),
	})
	if err != nil {
		return rawdata.Payload{}, fmt.Errorf("get archived live data game_id=%d: %w", gameID, err)
	}
	if !ok {
		return rawdata.Payload{}, fmt.Errorf("%w: no archived live data for game %d", ErrNotFound, gameID)
	}
	return item, nil
}

func archiveEntityKey(gameID int64) string {
	return fmt.Sprintf("game:%d", gameID)
}
