package hockeyapi

import (
	"context"
	"fmt"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
)

func (c *Client) listNamed(ctx context.Context, path string) ([]namedWire, error) {
	var payload relation[[]namedWire]
	if _, err := c.do(ctx, getRequest(path), &payload); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return payload.Data, nil
}

func (c *Client) ListEventTypes(ctx context.Context) ([]metadata.EventType, error) {
	items, err := c.listNamed(ctx, "/event-type")
	if err != nil {
		return nil, err
	}
	out := make([]metadata.EventType, 0, len(items))
	for _, item := range items {
		out = append(out, metadata.EventType{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func (c *Client) ListShotTypes(ctx context.Context) ([]metadata.ShotType, error) {
	items, err := c.listNamed(ctx, "/shot-type")
	if err != nil {
		return nil, err
	}
	out := make([]metadata.ShotType, 0, len(items))
	for _, item := range items {
		out = append(out, metadata.ShotType{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func (c *Client) ListPeriods(ctx context.Context) ([]metadata.Period, error) {
	items, err := c.listNamed(ctx, "/period")
	if err != nil {
		return nil, err
	}
	out := make([]metadata.Period, 0, len(items))
	for _, item := range items {
		out = append(out, metadata.Period{ID: item.ID, Name: item.Name, Order: item.Order})
	}
	return out, nil
}

func (c *Client) ListTeams(ctx context.Context) ([]team.Team, error) {
	var payload relation[[]map[string]any]
	if _, err := c.do(ctx, getRequest("/team"), &payload); err != nil {
		return nil, fmt.Errorf("fetch /team: %w", err)
	}
	out := make([]team.Team, 0, len(payload.Data))
	for _, item := range payload.Data {
		t := team.Team{
			ID:    getInt64(item, "id"),
			Name:  getString(item, "name"),
			Short: firstNonEmpty(getString(item, "short_name"), getString(item, "abbreviation")),
		}
		if t.ID <= 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ListPlayers tolerates jersey numbers sent as strings and either
// first/last or a single full name.
func (c *Client) ListPlayers(ctx context.Context) ([]player.Player, error) {
	var payload relation[[]map[string]any]
	if _, err := c.do(ctx, getRequest("/player"), &payload); err != nil {
		return nil, fmt.Errorf("fetch /player: %w", err)
	}
	out := make([]player.Player, 0, len(payload.Data))
	for _, item := range payload.Data {
		p := player.Player{
			ID:        getInt64(item, "id"),
			TeamID:    getInt64(item, "team_id"),
			FirstName: getString(item, "first_name"),
			LastName:  firstNonEmpty(getString(item, "last_name"), getString(item, "name")),
			Number:    int(getInt64(item, "number")),
			Position:  player.NormalizePosition(getString(item, "position")),
		}
		if p.ID <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
