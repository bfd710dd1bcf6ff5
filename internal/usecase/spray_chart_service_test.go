package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
	gameeventmock "github.com/riskibarqy/hockey-dashboard/internal/mocks/domain/gameevent"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticCatalog struct {
	catalog *metadata.Catalog
	err     error
}

func (s staticCatalog) Catalog(context.Context) (*metadata.Catalog, error) {
	return s.catalog, s.err
}

func testCatalog() *metadata.Catalog {
	return metadata.NewCatalog(metadata.Options{
		EventTypes: []metadata.EventType{
			{ID: 1, Name: gameevent.EventTypeShotOnGoal},
			{ID: 2, Name: gameevent.EventTypeFaceoff},
		},
		ShotTypes: []metadata.ShotType{
			{ID: 10, Name: gameevent.ShotTypeGoal},
			{ID: 11, Name: gameevent.ShotTypeSave},
		},
		Periods: []metadata.Period{{ID: 1, Name: "1st"}},
		Teams:   []team.Team{{ID: 1, Name: "Ravens"}},
		Players: []player.Player{{ID: 9, TeamID: 1, FirstName: "Ana", LastName: "Kova", Number: 17}},
	})
}

func TestSprayChartService_BuildGoalieView(t *testing.T) {
	ctx := context.Background()
	events := gameeventmock.NewRepository(t)
	events.
		On("ListForSprayChart", mock.Anything, testGameID, gameevent.SprayChartFilter{SeasonID: 2026}).
		Return([]gameevent.Record{
			{ID: 1, GameID: testGameID, EventTypeID: 1, ShotTypeID: 10, TeamID: 1, PlayerID: 9, PeriodID: 1, IceTopOffset: 450, IceLeftOffset: 300},
			{ID: 2, GameID: testGameID, EventTypeID: 2, TeamID: 1, PeriodID: 1, IceTopOffset: 500, IceLeftOffset: 500},
			{ID: 3, GameID: testGameID, EventTypeID: 1, ShotTypeID: 11, TeamID: 1, PeriodID: 1, IceTopOffset: 100, IceLeftOffset: 200},
		}, nil).
		Once()

	service := NewSprayChartService(events, staticCatalog{catalog: testCatalog()}, nil, gameclock.NewNormalizer(time.UTC))

	markers, err := service.Build(ctx, SprayChartInput{GameID: testGameID, View: "goalie", SeasonID: 2026})
	require.NoError(t, err)
	require.Len(t, markers, 2)
	require.Equal(t, gameevent.CategoryGoal, markers[0].Category)
	require.Equal(t, gameevent.CategorySave, markers[1].Category)
	require.Equal(t, 1, markers[0].Index)
	require.Equal(t, 2, markers[1].Index)
	require.NotNil(t, markers[0].Ice)
	require.InDelta(t, 45.0, markers[0].Ice.Top, 1e-9)
	require.InDelta(t, 30.0, markers[0].Ice.Left, 1e-9)
}

func TestSprayChartService_Errors(t *testing.T) {
	ctx := context.Background()

	service := NewSprayChartService(gameeventmock.NewRepository(t), staticCatalog{catalog: testCatalog()}, nil, gameclock.NewNormalizer(nil))
	if _, err := service.Build(ctx, SprayChartInput{GameID: testGameID, View: "referee"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown view, got %v", err)
	}
	if _, err := service.Build(ctx, SprayChartInput{View: "game"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing game, got %v", err)
	}

	events := gameeventmock.NewRepository(t)
	events.
		On("ListForSprayChart", mock.Anything, testGameID, gameevent.SprayChartFilter{}).
		Return(nil, errors.New("status=500")).
		Once()
	service = NewSprayChartService(events, staticCatalog{catalog: testCatalog()}, nil, gameclock.NewNormalizer(nil))
	if _, err := service.Build(ctx, SprayChartInput{GameID: testGameID}); err == nil {
		t.Fatalf("expected backend error")
	}
}
