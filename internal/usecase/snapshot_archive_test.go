package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/rawdata"
	rawdatamock "github.com/riskibarqy/hockey-dashboard/internal/mocks/domain/rawdata"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotArchive_StoresDistinctPayloads(t *testing.T) {
	ctx := context.Background()
	repo := rawdatamock.NewRepository(t)
	repo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(items []rawdata.Payload) bool {
			if len(items) != 1 {
				return false
			}
			item := items[0]
			return item.Source == "hockey-api" &&
				item.EntityType == "live_data" &&
				item.EntityKey == "game:7" &&
				item.GameID == 7 &&
				len(item.PayloadHash) == 64 &&
				item.SourceUpdatedAt != nil
		})).
		Return(nil).
		Twice()

	archive := NewSnapshotArchive(repo, "")
	d := &livegame.Dashboard{
		GameID:      7,
		RefreshedAt: time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC),
		Snapshot:    livegame.Snapshot{RawPayload: []byte(`{"game_id":7,"home":{"goals":1}}`)},
	}

	require.NoError(t, archive.DashboardUpdated(ctx, d))
	// Same payload after an optimistic edit: nothing to store.
	require.NoError(t, archive.DashboardUpdated(ctx, d))

	next := *d
	next.Snapshot.RawPayload = []byte(`{"game_id":7,"home":{"goals":2}}`)
	require.NoError(t, archive.DashboardUpdated(ctx, &next))

	require.NoError(t, archive.DashboardUpdated(ctx, &livegame.Dashboard{GameID: 7}))
}

func TestSnapshotArchive_Latest(t *testing.T) {
	ctx := context.Background()
	repo := rawdatamock.NewRepository(t)
	key := rawdata.Key{Source: "hockey-api", EntityType: "live_data", EntityKey: "game:7"}
	repo.
		On("Get", mock.Anything, key).
		Return(rawdata.Payload{GameID: 7, PayloadJSON: `{"game_id":7}`}, true, nil).
		Once()
	repo.
		On("Get", mock.Anything, rawdata.Key{Source: "hockey-api", EntityType: "live_data", EntityKey: "game:8"}).
		Return(rawdata.Payload{}, false, nil).
		Once()

	archive := NewSnapshotArchive(repo, "hockey-api")

	got, err := archive.Latest(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, `{"game_id":7}`, got.PayloadJSON)

	if _, err := archive.Latest(ctx, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
