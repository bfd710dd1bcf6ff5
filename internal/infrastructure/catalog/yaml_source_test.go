package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
event_types:
  - {id: 1, name: Shot on Goal}
  - {id: 2, name: Faceoff}
shot_types:
  - {id: 3, name: Save}
periods:
  - {id: 1, name: "1st", order: 1}
  - {id: 4, name: OT, order: 4}
teams:
  - {id: 10, name: Lakers, short: LAK}
players:
  - {id: 100, team_id: 10, first_name: Ada, last_name: Stone, number: 31, position: goalie}
`

func TestParse(t *testing.T) {
	src, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	ctx := context.Background()
	events, err := src.ListEventTypes(ctx)
	require.NoError(t, err)
	require.Equal(t, []metadata.EventType{{ID: 1, Name: "Shot on Goal"}, {ID: 2, Name: "Faceoff"}}, events)

	periods, err := src.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	require.Equal(t, 4, periods[1].Order)

	players, err := src.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, player.PositionGoalie, players[0].Position)

	cat := metadata.NewCatalog(metadata.Options{EventTypes: events, Periods: periods})
	if name, ok := cat.EventTypeName(2); !ok || name != "Faceoff" {
		t.Fatalf("expected Faceoff, got %q", name)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown field", raw: "event_typez: []\n"},
		{name: "team without name", raw: "teams:\n  - {id: 1}\n"},
		{name: "player with unknown position", raw: "players:\n  - {id: 1, team_id: 2, last_name: X, position: coach}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	src, err := LoadFile(path)
	require.NoError(t, err)
	teams, err := src.ListTeams(context.Background())
	require.NoError(t, err)
	require.Equal(t, "LAK", teams[0].Short)

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
