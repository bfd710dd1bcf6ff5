package timeline

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameclock"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/video"
)

const UnknownEventLabel = "UNKNOWN EVENT"

// Entry is either a period header or one rendered event row.
type Entry struct {
	Header      bool             `json:"header"`
	PeriodID    int64            `json:"period_id"`
	Period      string           `json:"period,omitempty"`
	EventID     int64            `json:"event_id,omitempty"`
	Elapsed     string           `json:"elapsed,omitempty"`
	Team        string           `json:"team,omitempty"`
	Event       string           `json:"event,omitempty"`
	Player      string           `json:"player,omitempty"`
	Description string           `json:"description,omitempty"`
	Video       *video.Reference `json:"video,omitempty"`
}

type Input struct {
	Events    []gameevent.Event
	Catalog   *metadata.Catalog
	GameStart time.Time
	// Clock defaults to a normalizer in the game start's location.
	Clock *gameclock.Normalizer
}

type row struct {
	event   gameevent.Event
	elapsed time.Duration
}

// Build groups events by period, orders periods by their sort key and events
// by elapsed time descending (ties by id ascending), and emits a header before
// each period's rows.
func Build(in Input) []Entry {
	if len(in.Events) == 0 {
		return []Entry{}
	}
	clock := gameclock.NewNormalizer(in.GameStart.Location())
	if in.Clock != nil {
		clock = *in.Clock
	}

	grouped := make(map[int64][]row)
	for _, ev := range in.Events {
		grouped[ev.PeriodID] = append(grouped[ev.PeriodID], row{
			event:   ev,
			elapsed: clock.Elapsed(ev.Time, in.GameStart),
		})
	}

	periods := make([]metadata.Period, 0, len(grouped))
	for id := range grouped {
		p, ok := in.Catalog.Period(id)
		if !ok {
			p = metadata.Period{ID: id}
		}
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].SortKey() != periods[j].SortKey() {
			return periods[i].SortKey() < periods[j].SortKey()
		}
		return periods[i].ID < periods[j].ID
	})

	out := make([]Entry, 0, len(in.Events)+len(periods))
	for _, p := range periods {
		rows := grouped[p.ID]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].elapsed != rows[j].elapsed {
				return rows[i].elapsed > rows[j].elapsed
			}
			return rows[i].event.ID < rows[j].event.ID
		})

		out = append(out, Entry{Header: true, PeriodID: p.ID, Period: p.Label()})
		for _, r := range rows {
			out = append(out, eventEntry(r, p, in.Catalog))
		}
	}
	return out
}

func eventEntry(r row, p metadata.Period, catalog *metadata.Catalog) Entry {
	ev := r.event
	entry := Entry{
		PeriodID:    p.ID,
		Period:      p.Label(),
		EventID:     ev.ID,
		Elapsed:     gameclock.FormatElapsed(r.elapsed),
		Event:       eventLabel(ev, catalog),
		Description: ev.Note,
	}
	if name, ok := catalog.TeamName(ev.TeamID); ok {
		entry.Team = name
	}
	if name, ok := catalog.PlayerName(ev.PlayerID); ok {
		entry.Player = name
	}
	if ev.VideoURL != "" {
		if ref, err := video.Parse(ev.VideoURL); err == nil {
			entry.Video = &ref
		}
	}
	return entry
}

// eventLabel is the uppercased shot category for shots and the uppercased
// event-type name otherwise.
func eventLabel(ev gameevent.Event, catalog *metadata.Catalog) string {
	name, ok := catalog.EventTypeName(ev.EventTypeID)
	if !ok {
		return UnknownEventLabel
	}

	if shot, isShot := ev.Shot(); isShot {
		shotType, _ := catalog.ShotTypeName(shot.ShotTypeID)
		category := gameevent.Classify(gameevent.Input{
			EventType:     name,
			ShotType:      shotType,
			ScoringChance: shot.ScoringChance,
			GoalType:      shot.GoalType,
		}, gameevent.ViewGame)
		if category != gameevent.CategoryNone {
			return strings.ToUpper(string(category))
		}
	}
	return strings.ToUpper(name)
}
