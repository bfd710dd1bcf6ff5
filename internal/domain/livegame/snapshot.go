package livegame

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
)

// Side picks one of the two teams of a game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func ParseSide(raw string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(raw))) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	default:
		return "", false
	}
}

func (s Side) Other() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

type TeamState struct {
	TeamID      int64        `json:"team_id"`
	GoalieID    int64        `json:"goalie_id"`
	Goals       int          `json:"goals"`
	FaceoffWins int          `json:"faceoff_wins"`
	Counters    TeamCounters `json:"counters"`
}

// Snapshot is the live state of one game as returned by a single poll.
// It is replaced wholesale, never merged.
type Snapshot struct {
	GameID          int64             `json:"game_id"`
	StartTime       string            `json:"start_time"`
	CurrentPeriodID int64             `json:"current_period_id"`
	Home            TeamState         `json:"home"`
	Away            TeamState         `json:"away"`
	Events          []gameevent.Event `json:"-"`

	// RawPayload is the undecoded backend body, kept for archiving.
	RawPayload []byte `json:"-"`
}

func (s Snapshot) Team(side Side) TeamState {
	if side == SideAway {
		return s.Away
	}
	return s.Home
}

func (s Snapshot) WithTeam(side Side, team TeamState) Snapshot {
	if side == SideAway {
		s.Away = team
	} else {
		s.Home = team
	}
	return s
}

// WithCounter returns a copy with one sub-counter replaced.
func (s Snapshot) WithCounter(side Side, kind RowKind, field string, value int) (Snapshot, error) {
	team := s.Team(side)
	row, ok := team.Counters.Row(kind)
	if !ok {
		return s, fmt.Errorf("unknown counter row %q", kind)
	}
	next, err := row.With(field, value)
	if err != nil {
		return s, err
	}
	team.Counters = team.Counters.WithRow(next)
	return s.WithTeam(side, team), nil
}

// CarryCounterIDs copies patch-target ids from prev into next for every
// patchable row that next arrived without.
func CarryCounterIDs(prev, next Snapshot) Snapshot {
	for _, side := range []Side{SideHome, SideAway} {
		prevTeam := prev.Team(side)
		nextTeam := next.Team(side)
		for _, kind := range []RowKind{RowExits, RowEntries} {
			prevRow, _ := prevTeam.Counters.Row(kind)
			nextRow, _ := nextTeam.Counters.Row(kind)
			if nextRow.HasID() || !prevRow.HasID() {
				continue
			}
			nextTeam.Counters = nextTeam.Counters.WithRow(nextRow.WithID(prevRow.ID()))
		}
		next = next.WithTeam(side, nextTeam)
	}
	return next
}
