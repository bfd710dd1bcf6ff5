package hockeyapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/usecase"
)

var counterRowPaths = map[livegame.RowKind]string{
	livegame.RowExits:   "/defensive-zone-exit/%d",
	livegame.RowEntries: "/offensive-zone-entry/%d",
}

func (c *Client) FetchLiveData(ctx context.Context, gameID int64) (livegame.LiveData, error) {
	if gameID <= 0 {
		return livegame.LiveData{}, fmt.Errorf("%w: game id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload relation[liveDataWire]
	raw, err := c.do(ctx, getRequest(fmt.Sprintf("/game/%d/live_data", gameID)), &payload)
	if err != nil {
		return livegame.LiveData{}, fmt.Errorf("fetch live data game_id=%d: %w", gameID, err)
	}
	if !payload.Set {
		return livegame.LiveData{}, fmt.Errorf("fetch live data game_id=%d: empty payload", gameID)
	}
	return payload.Data.toLiveData(gameID, raw), nil
}

// PatchCounterRow sends only the given fields. Patches are not retried; the
// caller reverts its optimistic value on failure.
func (c *Client) PatchCounterRow(ctx context.Context, kind livegame.RowKind, rowID int64, fields map[string]int) error {
	pathFormat, ok := counterRowPaths[kind]
	if !ok {
		return fmt.Errorf("%w: counter row %q has no patch endpoint", usecase.ErrInvalidInput, kind)
	}
	if rowID <= 0 {
		return fmt.Errorf("%w: counter row id must be greater than zero", usecase.ErrInvalidInput)
	}
	if len(fields) == 0 {
		return nil
	}

	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf(pathFormat, rowID),
		body:   fields,
	}, nil)
	if err != nil {
		return fmt.Errorf("patch %s row_id=%d: %w", kind, rowID, err)
	}
	return nil
}
