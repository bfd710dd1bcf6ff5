package hockeyapi

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
)

// relation accepts either {"data": T} or a bare T.
type relation[T any] struct {
	Data T
	Set  bool
}

func (r *relation[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Set = false
		return nil
	}

	var wrapped struct {
		Data *T `json:"data"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
		r.Data = *wrapped.Data
		r.Set = true
		return nil
	}

	var direct T
	if err := sonic.Unmarshal(trimmed, &direct); err != nil {
		return err
	}
	r.Data = direct
	r.Set = true
	return nil
}

type liveDataWire struct {
	GameID          int64  `json:"game_id"`
	StartTime       string `json:"start_time"`
	CurrentPeriodID int64  `json:"current_period_id"`

	HomeTeamID      int64 `json:"home_team_id"`
	AwayTeamID      int64 `json:"away_team_id"`
	HomeGoalieID    int64 `json:"home_goalie_id"`
	AwayGoalieID    int64 `json:"away_goalie_id"`
	HomeGoals       int   `json:"home_goals"`
	AwayGoals       int   `json:"away_goals"`
	HomeFaceoffWins int   `json:"home_faceoff_wins"`
	AwayFaceoffWins int   `json:"away_faceoff_wins"`

	HomeExit      map[string]any `json:"home_defensive_zone_exit"`
	AwayExit      map[string]any `json:"away_defensive_zone_exit"`
	HomeEntry     map[string]any `json:"home_offensive_zone_entry"`
	AwayEntry     map[string]any `json:"away_offensive_zone_entry"`
	HomeShots     map[string]any `json:"home_shots"`
	AwayShots     map[string]any `json:"away_shots"`
	HomeTurnovers map[string]any `json:"home_turnovers"`
	AwayTurnovers map[string]any `json:"away_turnovers"`

	Events relation[[]eventWire] `json:"events"`
}

func (w liveDataWire) toLiveData(gameID int64, raw []byte) livegame.LiveData {
	if w.GameID > 0 {
		gameID = w.GameID
	}
	snapshot := livegame.Snapshot{
		GameID:          gameID,
		StartTime:       strings.TrimSpace(w.StartTime),
		CurrentPeriodID: w.CurrentPeriodID,
		Home: livegame.TeamState{
			TeamID:      w.HomeTeamID,
			GoalieID:    w.HomeGoalieID,
			Goals:       w.HomeGoals,
			FaceoffWins: w.HomeFaceoffWins,
			Counters: livegame.TeamCounters{
				Exits:     counterRow(livegame.RowExits, w.HomeExit),
				Entries:   counterRow(livegame.RowEntries, w.HomeEntry),
				Shots:     counterRow(livegame.RowShots, w.HomeShots),
				Turnovers: counterRow(livegame.RowTurnovers, w.HomeTurnovers),
			},
		},
		Away: livegame.TeamState{
			TeamID:      w.AwayTeamID,
			GoalieID:    w.AwayGoalieID,
			Goals:       w.AwayGoals,
			FaceoffWins: w.AwayFaceoffWins,
			Counters: livegame.TeamCounters{
				Exits:     counterRow(livegame.RowExits, w.AwayExit),
				Entries:   counterRow(livegame.RowEntries, w.AwayEntry),
				Shots:     counterRow(livegame.RowShots, w.AwayShots),
				Turnovers: counterRow(livegame.RowTurnovers, w.AwayTurnovers),
			},
		},
		RawPayload: raw,
	}

	records := make([]gameevent.Record, 0, len(w.Events.Data))
	for _, ev := range w.Events.Data {
		rec := ev.toRecord()
		if rec.GameID == 0 {
			rec.GameID = gameID
		}
		records = append(records, rec)
	}
	return livegame.LiveData{Snapshot: snapshot, Events: records}
}

// counterRow reads a row object whose sub-counters sit next to its id. The
// backend sometimes sends numbers as strings, so values go through getInt64.
func counterRow(kind livegame.RowKind, raw map[string]any) livegame.CounterRow {
	src := relationDataMap(raw)
	values := make(map[string]int, len(kind.Fields()))
	for _, field := range kind.Fields() {
		values[field] = int(getInt64(src, field))
	}
	return livegame.NewCounterRow(kind, getInt64(src, "id"), values)
}

type eventWire struct {
	ID              int64  `json:"id,omitempty"`
	GameID          int64  `json:"game_id"`
	EventTypeID     int64  `json:"event_type_id"`
	TeamID          int64  `json:"team_id"`
	PlayerID        int64  `json:"player_id,omitempty"`
	SecondPlayerID  int64  `json:"second_player_id,omitempty"`
	GoalieID        int64  `json:"goalie_id,omitempty"`
	ShotTypeID      int64  `json:"shot_type_id,omitempty"`
	PeriodID        int64  `json:"period_id"`
	ScoringChance   bool   `json:"scoring_chance"`
	IceTopOffset    int    `json:"ice_top_offset"`
	IceLeftOffset   int    `json:"ice_left_offset"`
	NetTopOffset    int    `json:"net_top_offset"`
	NetLeftOffset   int    `json:"net_left_offset"`
	Zone            string `json:"zone,omitempty"`
	Note            string `json:"note,omitempty"`
	GoalType        string `json:"goal_type,omitempty"`
	Time            string `json:"time"`
	PenaltyDuration string `json:"penalty_duration,omitempty"`
	VideoURL        string `json:"youtube_link,omitempty"`
}

func (w eventWire) toRecord() gameevent.Record {
	return gameevent.Record{
		ID:              w.ID,
		GameID:          w.GameID,
		EventTypeID:     w.EventTypeID,
		TeamID:          w.TeamID,
		PlayerID:        w.PlayerID,
		SecondPlayerID:  w.SecondPlayerID,
		GoalieID:        w.GoalieID,
		ShotTypeID:      w.ShotTypeID,
		PeriodID:        w.PeriodID,
		ScoringChance:   w.ScoringChance,
		IceTopOffset:    w.IceTopOffset,
		IceLeftOffset:   w.IceLeftOffset,
		NetTopOffset:    w.NetTopOffset,
		NetLeftOffset:   w.NetLeftOffset,
		Zone:            strings.TrimSpace(w.Zone),
		Note:            strings.TrimSpace(w.Note),
		GoalType:        strings.TrimSpace(w.GoalType),
		Time:            strings.TrimSpace(w.Time),
		PenaltyDuration: strings.TrimSpace(w.PenaltyDuration),
		VideoURL:        strings.TrimSpace(w.VideoURL),
	}
}

func eventWireFromRecord(rec gameevent.Record) eventWire {
	return eventWire{
		ID:              rec.ID,
		GameID:          rec.GameID,
		EventTypeID:     rec.EventTypeID,
		TeamID:          rec.TeamID,
		PlayerID:        rec.PlayerID,
		SecondPlayerID:  rec.SecondPlayerID,
		GoalieID:        rec.GoalieID,
		ShotTypeID:      rec.ShotTypeID,
		PeriodID:        rec.PeriodID,
		ScoringChance:   rec.ScoringChance,
		IceTopOffset:    rec.IceTopOffset,
		IceLeftOffset:   rec.IceLeftOffset,
		NetTopOffset:    rec.NetTopOffset,
		NetLeftOffset:   rec.NetLeftOffset,
		Zone:            rec.Zone,
		Note:            rec.Note,
		GoalType:        rec.GoalType,
		Time:            rec.Time,
		PenaltyDuration: rec.PenaltyDuration,
		VideoURL:        rec.VideoURL,
	}
}

type sprayChartRequest struct {
	SeasonID   int64 `json:"season_id,omitempty"`
	ShotTypeID int64 `json:"shot_type_id,omitempty"`
}

type createdWire struct {
	ID int64 `json:"id"`
}

type namedWire struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func relationDataMap(raw any) map[string]any {
	if raw == nil {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data
	}
	return obj
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	value, ok := src[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	switch typed := src[key].(type) {
	case float64:
		return int64(typed)
	case float32:
		return int64(typed)
	case int:
		return int64(typed)
	case int64:
		return typed
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}
