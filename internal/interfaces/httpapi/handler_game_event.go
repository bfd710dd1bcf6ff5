package httpapi

import (
	"net/http"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/spraychart"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

type sprayChartRequest struct {
	View       string `json:"view" validate:"omitempty,oneof=goalie player game"`
	SeasonID   int64  `json:"season_id" validate:"gte=0"`
	ShotTypeID int64  `json:"shot_type_id" validate:"gte=0"`
	Flip       bool   `json:"flip"`
}

type gameEventRequest struct {
	EventTypeID     int64  `json:"event_type_id" validate:"required,gt=0"`
	TeamID          int64  `json:"team_id" validate:"required,gt=0"`
	PeriodID        int64  `json:"period_id" validate:"required,gt=0"`
	PlayerID        int64  `json:"player_id" validate:"gte=0"`
	SecondPlayerID  int64  `json:"second_player_id" validate:"gte=0"`
	GoalieID        int64  `json:"goalie_id" validate:"gte=0"`
	ShotTypeID      int64  `json:"shot_type_id" validate:"gte=0"`
	ScoringChance   bool   `json:"scoring_chance"`
	IceTopOffset    int    `json:"ice_top_offset" validate:"gte=0,lte=1000"`
	IceLeftOffset   int    `json:"ice_left_offset" validate:"gte=0,lte=1000"`
	NetTopOffset    int    `json:"net_top_offset" validate:"gte=0,lte=1000"`
	NetLeftOffset   int    `json:"net_left_offset" validate:"gte=0,lte=1000"`
	Zone            string `json:"zone" validate:"max=32"`
	Note            string `json:"note" validate:"max=500"`
	GoalType        string `json:"goal_type" validate:"max=32"`
	Time            string `json:"time" validate:"max=64"`
	PenaltyDuration string `json:"penalty_duration" validate:"max=32"`
	VideoURL        string `json:"video_url" validate:"omitempty,max=500"`
}

func (req gameEventRequest) toRecord(gameID int64) gameevent.Record {
	return gameevent.Record{
		GameID:          gameID,
		EventTypeID:     req.EventTypeID,
		TeamID:          req.TeamID,
		PlayerID:        req.PlayerID,
		SecondPlayerID:  req.SecondPlayerID,
		GoalieID:        req.GoalieID,
		ShotTypeID:      req.ShotTypeID,
		PeriodID:        req.PeriodID,
		ScoringChance:   req.ScoringChance,
		IceTopOffset:    req.IceTopOffset,
		IceLeftOffset:   req.IceLeftOffset,
		NetTopOffset:    req.NetTopOffset,
		NetLeftOffset:   req.NetLeftOffset,
		Zone:            req.Zone,
		Note:            req.Note,
		GoalType:        req.GoalType,
		Time:            req.Time,
		PenaltyDuration: req.PenaltyDuration,
		VideoURL:        req.VideoURL,
	}
}

type gameEventDTO struct {
	EventID   int64               `json:"event_id"`
	Deleted   bool                `json:"deleted,omitempty"`
	Dashboard *livegame.Dashboard `json:"dashboard,omitempty"`
}

type sprayChartDTO struct {
	GameID  int64               `json:"game_id"`
	View    string              `json:"view"`
	Markers []spraychart.Marker `json:"markers"`
}

func (h *Handler) BuildSprayChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildSprayChart")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req sprayChartRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	markers, err := h.sprayChart.Build(ctx, usecase.SprayChartInput{
		GameID:     gameID,
		View:       req.View,
		SeasonID:   req.SeasonID,
		ShotTypeID: req.ShotTypeID,
		Flip:       req.Flip,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "build spray chart failed", "game_id", gameID, "view", req.View, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, _ := gameevent.ViewByName(req.View)
	if markers == nil {
		markers = []spraychart.Marker{}
	}
	writeSuccess(ctx, w, http.StatusOK, sprayChartDTO{GameID: gameID, View: view.Name(), Markers: markers})
}

func (h *Handler) CreateGameEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGameEvent")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req gameEventRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	eventID, d, err := h.events.Create(ctx, gameID, req.toRecord(gameID))
	if err != nil {
		h.logger.WarnContext(ctx, "create game event failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, gameEventDTO{EventID: eventID, Dashboard: d})
}

func (h *Handler) UpdateGameEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateGameEvent")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req gameEventRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	d, err := h.events.Update(ctx, gameID, eventID, req.toRecord(gameID))
	if err != nil {
		h.logger.WarnContext(ctx, "update game event failed", "game_id", gameID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, gameEventDTO{EventID: eventID, Dashboard: d})
}

func (h *Handler) DeleteGameEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGameEvent")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	d, err := h.events.Delete(ctx, gameID, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete game event failed", "game_id", gameID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, gameEventDTO{EventID: eventID, Deleted: true, Dashboard: d})
}
