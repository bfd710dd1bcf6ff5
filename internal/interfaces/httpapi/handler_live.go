package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

type watchDTO struct {
	GameID              int64               `json:"game_id"`
	Watching            bool                `json:"watching"`
	PollIntervalSeconds int                 `json:"poll_interval_seconds,omitempty"`
	Dashboard           *livegame.Dashboard `json:"dashboard,omitempty"`
}

type adjustCounterRequest struct {
	Side  string `json:"side" validate:"required,oneof=home away"`
	Row   string `json:"row" validate:"required,oneof=exits entries shots turnovers"`
	Field string `json:"field" validate:"required,max=64"`
	Delta int    `json:"delta" validate:"required,oneof=-1 1"`
}

type adjustCounterDTO struct {
	Previous  int                 `json:"previous"`
	Value     int                 `json:"value"`
	RowID     int64               `json:"row_id"`
	Skipped   bool                `json:"skipped"`
	Dashboard *livegame.Dashboard `json:"dashboard,omitempty"`
}

type archivedPayloadDTO struct {
	Source          string          `json:"source"`
	EntityType      string          `json:"entity_type"`
	EntityKey       string          `json:"entity_key"`
	GameID          int64           `json:"game_id"`
	PayloadHash     string          `json:"payload_hash"`
	SourceUpdatedAt *time.Time      `json:"source_updated_at,omitempty"`
	IngestedAt      time.Time       `json:"ingested_at"`
	Payload         json.RawMessage `json:"payload"`
}

func (h *Handler) WatchGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WatchGame")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	handle, err := h.live.Watch(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "watch game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := watchDTO{
		GameID:              handle.GameID(),
		Watching:            handle.Active(),
		PollIntervalSeconds: int(usecase.PollInterval / time.Second),
	}
	if d, err := h.live.Dashboard(gameID); err == nil {
		out.Dashboard = d
	}
	writeSuccess(ctx, w, http.StatusAccepted, out)
}

func (h *Handler) UnwatchGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnwatchGame")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !h.live.Cancel(gameID) {
		writeError(ctx, w, fmt.Errorf("%w: game %d is not being watched", usecase.ErrNotFound, gameID))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, watchDTO{GameID: gameID, Watching: false})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	d, err := h.live.Dashboard(gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, d)
}

func (h *Handler) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshDashboard")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	d, err := h.live.Refresh(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh dashboard failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, d)
}

func (h *Handler) StreamDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.stream == nil {
		writeError(ctx, w, fmt.Errorf("%w: live stream is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	current, _ := h.live.Dashboard(gameID)
	if err := h.stream.ServeGame(w, r, gameID, current); err != nil {
		// The upgrader has already answered the request.
		h.logger.WarnContext(ctx, "open live stream failed", "game_id", gameID, "error", err)
	}
}

func (h *Handler) AdjustCounter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdjustCounter")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req adjustCounterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	side, _ := livegame.ParseSide(req.Side)
	row, _ := livegame.ParseRowKind(req.Row)

	res, err := h.counters.Adjust(ctx, usecase.AdjustInput{
		GameID: gameID,
		Side:   side,
		Row:    row,
		Field:  req.Field,
		Delta:  req.Delta,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "adjust counter failed",
			"game_id", gameID,
			"side", req.Side,
			"row", req.Row,
			"field", req.Field,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adjustCounterDTO{
		Previous:  res.Previous,
		Value:     res.Value,
		RowID:     res.RowID,
		Skipped:   res.Skipped,
		Dashboard: res.Dashboard,
	})
}

func (h *Handler) GetLatestArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestArchive")
	defer span.End()

	gameID, err := tracedGameID(span, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if h.archive == nil {
		writeError(ctx, w, fmt.Errorf("%w: snapshot archive is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	item, err := h.archive.Latest(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, archivedPayloadDTO{
		Source:          item.Source,
		EntityType:      item.EntityType,
		EntityKey:       item.EntityKey,
		GameID:          item.GameID,
		PayloadHash:     item.PayloadHash,
		SourceUpdatedAt: item.SourceUpdatedAt,
		IngestedAt:      item.IngestedAt,
		Payload:         json.RawMessage(item.PayloadJSON),
	})
}
