package gameevent

import (
	"strings"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/rink"
)

// Kind is the payload discriminator derived from the event-type name.
type Kind string

const (
	KindShot         Kind = "shot"
	KindTurnover     Kind = "turnover"
	KindFaceoff      Kind = "faceoff"
	KindPenalty      Kind = "penalty"
	KindGoalieChange Kind = "goalie_change"
	KindOther        Kind = "other"
)

// Canonical event-type and shot-type names used by the entry forms.
const (
	EventTypeShotOnGoal   = "Shot on Goal"
	EventTypeFaceoff      = "Faceoff"
	EventTypePenalty      = "Penalty"
	EventTypeTurnover     = "Turnover"
	EventTypeGoalieChange = "Goalie Change"

	ShotTypeGoal    = "Goal"
	ShotTypeSave    = "Save"
	ShotTypeBlocked = "Blocked"
	ShotTypeMissed  = "Missed the net"

	GoalTypePowerPlay   = "Power Play"
	GoalTypeShortHanded = "Short Handed"
)

func KindFromName(eventTypeName string) Kind {
	switch {
	case sameName(eventTypeName, EventTypeShotOnGoal):
		return KindShot
	case sameName(eventTypeName, EventTypeTurnover):
		return KindTurnover
	case sameName(eventTypeName, EventTypeFaceoff):
		return KindFaceoff
	case sameName(eventTypeName, EventTypePenalty):
		return KindPenalty
	case sameName(eventTypeName, EventTypeGoalieChange):
		return KindGoalieChange
	default:
		return KindOther
	}
}

// Offsets is a raw (0-1000) location pair as recorded by the entry form.
type Offsets struct {
	Top  int
	Left int
}

func (o Offsets) IsUnset() bool {
	return rink.IsUnset(o.Top, o.Left)
}

// Event is one immutable game event. Fields shared by every event type live on
// the struct; type-specific data lives in Payload.
type Event struct {
	ID             int64
	GameID         int64
	EventTypeID    int64
	TeamID         int64
	PlayerID       int64
	SecondPlayerID int64
	PeriodID       int64
	Zone           string
	Note           string
	Time           string
	VideoURL       string
	Ice            Offsets
	Payload        Payload
}

func (e Event) Kind() Kind {
	if e.Payload == nil {
		return KindOther
	}
	return e.Payload.Kind()
}

// Shot returns the shot payload when the event is a shot.
func (e Event) Shot() (ShotPayload, bool) {
	p, ok := e.Payload.(ShotPayload)
	return p, ok
}

// Payload is implemented by every per-kind payload.
type Payload interface {
	Kind() Kind
}

type ShotPayload struct {
	ShotTypeID    int64
	ScoringChance bool
	GoalType      string
	GoalieID      int64
	Net           Offsets
}

func (ShotPayload) Kind() Kind { return KindShot }

type TurnoverPayload struct {
	Zone string
}

func (TurnoverPayload) Kind() Kind { return KindTurnover }

type FaceoffPayload struct {
	WinnerID int64
	LoserID  int64
}

func (FaceoffPayload) Kind() Kind { return KindFaceoff }

type PenaltyPayload struct {
	Duration string
}

func (PenaltyPayload) Kind() Kind { return KindPenalty }

type GoalieChangePayload struct {
	GoalieID int64
}

func (GoalieChangePayload) Kind() Kind { return KindGoalieChange }

// GenericPayload carries events whose type has no dedicated payload.
type GenericPayload struct{}

func (GenericPayload) Kind() Kind { return KindOther }

// Record is the flat wire shape of an event as returned by the backend.
type Record struct {
	ID              int64
	GameID          int64
	EventTypeID     int64
	TeamID          int64
	PlayerID        int64
	SecondPlayerID  int64
	GoalieID        int64
	ShotTypeID      int64
	PeriodID        int64
	ScoringChance   bool
	IceTopOffset    int
	IceLeftOffset   int
	NetTopOffset    int
	NetLeftOffset   int
	Zone            string
	Note            string
	GoalType        string
	Time            string
	PenaltyDuration string
	VideoURL        string
}

// FromRecord builds the tagged event. eventTypeName picks the payload; unknown
// names produce a GenericPayload rather than failing.
func FromRecord(rec Record, eventTypeName string) Event {
	ev := Event{
		ID:             rec.ID,
		GameID:         rec.GameID,
		EventTypeID:    rec.EventTypeID,
		TeamID:         rec.TeamID,
		PlayerID:       rec.PlayerID,
		SecondPlayerID: rec.SecondPlayerID,
		PeriodID:       rec.PeriodID,
		Zone:           strings.TrimSpace(rec.Zone),
		Note:           strings.TrimSpace(rec.Note),
		Time:           strings.TrimSpace(rec.Time),
		VideoURL:       strings.TrimSpace(rec.VideoURL),
		Ice:            Offsets{Top: rec.IceTopOffset, Left: rec.IceLeftOffset},
	}

	switch KindFromName(eventTypeName) {
	case KindShot:
		ev.Payload = ShotPayload{
			ShotTypeID:    rec.ShotTypeID,
			ScoringChance: rec.ScoringChance,
			GoalType:      strings.TrimSpace(rec.GoalType),
			GoalieID:      rec.GoalieID,
			Net:           Offsets{Top: rec.NetTopOffset, Left: rec.NetLeftOffset},
		}
	case KindTurnover:
		ev.Payload = TurnoverPayload{Zone: ev.Zone}
	case KindFaceoff:
		ev.Payload = FaceoffPayload{WinnerID: rec.PlayerID, LoserID: rec.SecondPlayerID}
	case KindPenalty:
		ev.Payload = PenaltyPayload{Duration: strings.TrimSpace(rec.PenaltyDuration)}
	case KindGoalieChange:
		ev.Payload = GoalieChangePayload{GoalieID: rec.GoalieID}
	default:
		ev.Payload = GenericPayload{}
	}

	return ev
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
