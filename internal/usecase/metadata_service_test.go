package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
	metadatamock "github.com/riskibarqy/hockey-dashboard/internal/mocks/domain/metadata"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectFullSource(src *metadatamock.Source, eventTypes []metadata.EventType) {
	src.On("ListEventTypes", mock.Anything).Return(eventTypes, nil).Once()
	src.On("ListShotTypes", mock.Anything).Return([]metadata.ShotType{{ID: 1, Name: "Goal"}}, nil).Once()
	src.On("ListPeriods", mock.Anything).Return([]metadata.Period{{ID: 1, Name: "1st"}}, nil).Once()
	src.On("ListTeams", mock.Anything).Return([]team.Team{{ID: 1, Name: "Ravens"}}, nil).Once()
	src.On("ListPlayers", mock.Anything).Return([]player.Player{{ID: 9, TeamID: 1, FirstName: "Ana", LastName: "Kova"}}, nil).Once()
}

func TestMetadataService_CatalogIsCached(t *testing.T) {
	ctx := context.Background()
	src := metadatamock.NewSource(t)
	expectFullSource(src, []metadata.EventType{{ID: 3, Name: "Shot on Goal"}})

	service := NewMetadataService(MetadataServiceConfig{Source: src})

	first, err := service.Catalog(ctx)
	require.NoError(t, err)
	name, ok := first.EventTypeName(3)
	require.True(t, ok)
	require.Equal(t, "Shot on Goal", name)

	second, err := service.Catalog(ctx)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestMetadataService_FallsBackToStaticCatalog(t *testing.T) {
	ctx := context.Background()
	src := metadatamock.NewSource(t)
	src.On("ListEventTypes", mock.Anything).Return(nil, errors.New("status=503")).Once()
	src.On("ListShotTypes", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListPeriods", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListTeams", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListPlayers", mock.Anything).Return(nil, nil).Maybe()

	static := metadatamock.NewSource(t)
	expectFullSource(static, []metadata.EventType{{ID: 4, Name: "Faceoff"}})

	service := NewMetadataService(MetadataServiceConfig{Source: src, Fallback: static})

	catalog, err := service.Catalog(ctx)
	require.NoError(t, err)
	name, ok := catalog.EventTypeName(4)
	require.True(t, ok)
	require.Equal(t, "Faceoff", name)
}

func TestMetadataService_KeepsLastGoodCatalog(t *testing.T) {
	ctx := context.Background()
	src := metadatamock.NewSource(t)
	expectFullSource(src, []metadata.EventType{{ID: 3, Name: "Shot on Goal"}})

	service := NewMetadataService(MetadataServiceConfig{Source: src})
	good, err := service.Catalog(ctx)
	require.NoError(t, err)

	src.On("ListEventTypes", mock.Anything).Return(nil, errors.New("timeout")).Once()
	src.On("ListShotTypes", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListPeriods", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListTeams", mock.Anything).Return(nil, nil).Maybe()
	src.On("ListPlayers", mock.Anything).Return(nil, nil).Maybe()

	require.Equal(t, 1, service.Invalidate())
	got, err := service.Catalog(ctx)
	require.NoError(t, err)
	require.Same(t, good, got)
}

func TestMetadataService_UnavailableWithoutAnySource(t *testing.T) {
	service := NewMetadataService(MetadataServiceConfig{})
	if _, err := service.Catalog(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
