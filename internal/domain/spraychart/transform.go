package spraychart

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/rink"
)

// Resolver looks a display name up by id.
type Resolver func(id int64) (string, bool)

type Options struct {
	View gameevent.View

	EventTypeName Resolver
	ShotTypeName  Resolver

	TeamName      Resolver
	DefaultTeam   string
	PlayerName    Resolver
	DefaultPlayer string
	PeriodName    Resolver

	// FormatTime renders the raw event time; nil shows the raw value.
	FormatTime func(raw string) string

	// Flip mirrors the left axis for goalie-perspective charts.
	Flip bool

	// IndexByEventID pins display indexes across refreshes.
	IndexByEventID map[int64]int
}

// Marker is one classified shot-location dot.
type Marker struct {
	EventID  int64              `json:"event_id"`
	Index    int                `json:"index"`
	Category gameevent.Category `json:"category"`
	TeamID   int64              `json:"team_id"`
	PlayerID int64              `json:"player_id"`
	PeriodID int64              `json:"period_id"`
	Team     string             `json:"team,omitempty"`
	Player   string             `json:"player,omitempty"`
	Time     string             `json:"time,omitempty"`
	Period   string             `json:"period,omitempty"`
	Ice      *rink.Point        `json:"ice,omitempty"`
	Net      *rink.Point        `json:"net,omitempty"`
	Tooltip  string             `json:"tooltip"`
}

// Transform classifies events for the view and turns the accepted ones into
// markers. Events classified as none are skipped. Pinned events keep their
// index; every other event is numbered after the highest pinned index, so no
// two markers share one.
func Transform(events []gameevent.Event, opts Options) []Marker {
	out := make([]Marker, 0, len(events))
	next := nextFreeIndex(opts.IndexByEventID)
	used := make(map[int]struct{}, len(events))
	for _, ev := range events {
		category := gameevent.Classify(classifierInput(ev, opts), opts.View)
		if category == gameevent.CategoryNone {
			continue
		}

		index, ok := opts.IndexByEventID[ev.ID]
		if _, taken := used[index]; !ok || index <= 0 || taken {
			index = next
			next++
		}
		used[index] = struct{}{}

		marker := Marker{
			EventID:  ev.ID,
			Index:    index,
			Category: category,
			TeamID:   ev.TeamID,
			PlayerID: ev.PlayerID,
			PeriodID: ev.PeriodID,
			Team:     resolve(opts.TeamName, ev.TeamID, opts.DefaultTeam),
			Player:   resolve(opts.PlayerName, ev.PlayerID, opts.DefaultPlayer),
			Period:   resolve(opts.PeriodName, ev.PeriodID, ""),
			Time:     formatTime(opts.FormatTime, ev.Time),
			Ice:      point(ev.Ice, opts.Flip),
		}
		if shot, ok := ev.Shot(); ok {
			marker.Net = point(shot.Net, opts.Flip)
		}
		marker.Tooltip = tooltip(marker, ev.Note)

		out = append(out, marker)
	}
	return out
}

// IndexMap captures the current index of every marker so a later Transform can
// keep the same numbering.
func IndexMap(markers []Marker) map[int64]int {
	out := make(map[int64]int, len(markers))
	for _, m := range markers {
		out[m.EventID] = m.Index
	}
	return out
}

func nextFreeIndex(pinned map[int64]int) int {
	highest := 0
	for _, index := range pinned {
		if index > highest {
			highest = index
		}
	}
	return highest + 1
}

func classifierInput(ev gameevent.Event, opts Options) gameevent.Input {
	in := gameevent.Input{
		EventType: resolve(opts.EventTypeName, ev.EventTypeID, ""),
	}
	if shot, ok := ev.Shot(); ok {
		in.ShotType = resolve(opts.ShotTypeName, shot.ShotTypeID, "")
		in.ScoringChance = shot.ScoringChance
		in.GoalType = shot.GoalType
	}
	return in
}

func point(o gameevent.Offsets, flip bool) *rink.Point {
	if o.IsUnset() {
		return nil
	}
	p := rink.ConvertView(o.Top, o.Left, flip)
	return &p
}

func tooltip(m Marker, description string) string {
	lines := []string{fmt.Sprintf("#%d — %s", m.Index, m.Category)}
	lines = appendLine(lines, "Player", m.Player)
	lines = appendLine(lines, "Team", m.Team)
	lines = appendLine(lines, "Time", m.Time)
	lines = appendLine(lines, "Period", m.Period)
	if description = strings.TrimSpace(description); description != "" {
		lines = append(lines, description)
	}
	return strings.Join(lines, "\n")
}

func appendLine(lines []string, label, value string) []string {
	if value == "" {
		return lines
	}
	return append(lines, label+": "+value)
}

func resolve(fn Resolver, id int64, fallback string) string {
	if fn != nil && id > 0 {
		if name, ok := fn(id); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return strings.TrimSpace(fallback)
}

func formatTime(fn func(string) string, raw string) string {
	if raw == "" {
		return ""
	}
	if fn == nil {
		return raw
	}
	return fn(raw)
}
