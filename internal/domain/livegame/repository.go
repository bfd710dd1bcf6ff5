package livegame

import (
	"context"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
)

// LiveData is one live_data response. Events stay flat until the event-type
// catalog is available to tag them.
type LiveData struct {
	Snapshot Snapshot
	Events   []gameevent.Record
}

// Backend is the backend of record for live game state and counter rows.
type Backend interface {
	FetchLiveData(ctx context.Context, gameID int64) (LiveData, error)
	PatchCounterRow(ctx context.Context, kind RowKind, rowID int64, fields map[string]int) error
}
