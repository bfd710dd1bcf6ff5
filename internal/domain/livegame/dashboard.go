package livegame

import (
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/spraychart"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/timeline"
)

// Dashboard is the complete display value for one game. It is rebuilt from a
// snapshot and swapped as a whole; nothing mutates it after Build.
type Dashboard struct {
	GameID      int64               `json:"game_id"`
	Sequence    uint64              `json:"sequence"`
	RefreshedAt time.Time           `json:"refreshed_at"`
	Snapshot    Snapshot            `json:"snapshot"`
	Stats       StatBoard           `json:"stats"`
	Timeline    []timeline.Entry    `json:"timeline"`
	SprayChart  []spraychart.Marker `json:"spray_chart"`
}

type BuildOptions struct {
	Catalog  *metadata.Catalog
	Clock    gameclock.Normalizer
	Sequence uint64
	Now      time.Time

	// Previous keeps spray-chart numbering stable across refreshes.
	Previous *Dashboard
}

func Build(s Snapshot, opts BuildOptions) *Dashboard {
	gameStart, _ := opts.Clock.GameStart(s.StartTime)

	var index map[int64]int
	if opts.Previous != nil {
		index = spraychart.IndexMap(opts.Previous.SprayChart)
	}

	clock := opts.Clock
	return &Dashboard{
		GameID:      s.GameID,
		Sequence:    opts.Sequence,
		RefreshedAt: opts.Now,
		Snapshot:    s,
		Stats:       Aggregate(s),
		Timeline: timeline.Build(timeline.Input{
			Events:    s.Events,
			Catalog:   opts.Catalog,
			GameStart: gameStart,
			Clock:     &clock,
		}),
		SprayChart: spraychart.Transform(s.Events, SprayChartOptions(opts.Catalog, clock, gameStart, gameevent.ViewGame, false, index)),
	}
}

// WithCounter returns a copy with one sub-counter replaced and stats
// recomputed. Timeline and spray chart are shared with the receiver.
func (d *Dashboard) WithCounter(side Side, kind RowKind, field string, value int, sequence uint64) (*Dashboard, error) {
	snapshot, err := d.Snapshot.WithCounter(side, kind, field, value)
	if err != nil {
		return nil, err
	}
	next := *d
	next.Snapshot = snapshot
	next.Stats = Aggregate(snapshot)
	next.Sequence = sequence
	return &next, nil
}

// SprayChartOptions wires catalog lookups and the game clock into transformer
// options for the given view.
func SprayChartOptions(catalog *metadata.Catalog, clock gameclock.Normalizer, gameStart time.Time, view gameevent.View, flip bool, index map[int64]int) spraychart.Options {
	return spraychart.Options{
		View:           view,
		EventTypeName:  catalog.EventTypeName,
		ShotTypeName:   catalog.ShotTypeName,
		TeamName:       catalog.TeamName,
		PlayerName:     catalog.PlayerName,
		PeriodName:     catalog.PeriodName,
		FormatTime:     elapsedFormatter(clock, gameStart),
		Flip:           flip,
		IndexByEventID: index,
	}
}

func elapsedFormatter(clock gameclock.Normalizer, gameStart time.Time) func(string) string {
	if gameStart.IsZero() {
		return nil
	}
	return func(raw string) string { return clock.ElapsedLabel(raw, gameStart) }
}
