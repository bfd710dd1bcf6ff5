package hockeyapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/gameevent"
)

// ListForSprayChart is a read over POST, so it is retried like a GET.
func (c *Client) ListForSprayChart(ctx context.Context, gameID int64, filter gameevent.SprayChartFilter) ([]gameevent.Record, error) {
	var payload relation[[]eventWire]
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/game/%d/spray-chart", gameID),
		body:   sprayChartRequest{SeasonID: filter.SeasonID, ShotTypeID: filter.ShotTypeID},
		retry:  true,
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch spray chart game_id=%d: %w", gameID, err)
	}

	out := make([]gameevent.Record, 0, len(payload.Data))
	for _, item := range payload.Data {
		rec := item.toRecord()
		if rec.GameID == 0 {
			rec.GameID = gameID
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, rec gameevent.Record) (int64, error) {
	rec.ID = 0
	var payload relation[createdWire]
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/game-event",
		body:   eventWireFromRecord(rec),
	}, &payload)
	if err != nil {
		return 0, fmt.Errorf("create game event game_id=%d: %w", rec.GameID, err)
	}
	return payload.Data.ID, nil
}

func (c *Client) Update(ctx context.Context, eventID int64, rec gameevent.Record) error {
	rec.ID = eventID
	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/game-event/%d", eventID),
		body:   eventWireFromRecord(rec),
	}, nil)
	if err != nil {
		return fmt.Errorf("update game event id=%d: %w", eventID, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, eventID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/game-event/%d", eventID),
	}, nil)
	if err != nil {
		return fmt.Errorf("delete game event id=%d: %w", eventID, err)
	}
	return nil
}
