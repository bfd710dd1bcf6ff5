package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
)

type EventType struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type ShotType struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// Period is one segment of a game. Order is optional; zero means "sort by id".
type Period struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

// SortKey is the explicit order when set, otherwise the id.
func (p Period) SortKey() int64 {
	if p.Order > 0 {
		return int64(p.Order)
	}
	return p.ID
}

// Label returns the period name or "Period <id>" when the name is blank.
func (p Period) Label() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Period %d", p.ID)
}

// Options is the raw option lists as loaded from a source.
type Options struct {
	EventTypes []EventType
	ShotTypes  []ShotType
	Periods    []Period
	Teams      []team.Team
	Players    []player.Player
}

// Source loads option lists. The backend of record and the static catalog
// file both implement it.
type Source interface {
	ListEventTypes(ctx context.Context) ([]EventType, error)
	ListShotTypes(ctx context.Context) ([]ShotType, error)
	ListPeriods(ctx context.Context) ([]Period, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
	ListPlayers(ctx context.Context) ([]player.Player, error)
}

// Catalog is an immutable, indexed view of Options.
type Catalog struct {
	opts       Options
	eventTypes map[int64]string
	shotTypes  map[int64]string
	periods    map[int64]Period
	teams      map[int64]team.Team
	players    map[int64]player.Player
}

func NewCatalog(opts Options) *Catalog {
	c := &Catalog{
		opts:       opts,
		eventTypes: make(map[int64]string, len(opts.EventTypes)),
		shotTypes:  make(map[int64]string, len(opts.ShotTypes)),
		periods:    make(map[int64]Period, len(opts.Periods)),
		teams:      make(map[int64]team.Team, len(opts.Teams)),
		players:    make(map[int64]player.Player, len(opts.Players)),
	}
	for _, item := range opts.EventTypes {
		c.eventTypes[item.ID] = strings.TrimSpace(item.Name)
	}
	for _, item := range opts.ShotTypes {
		c.shotTypes[item.ID] = strings.TrimSpace(item.Name)
	}
	for _, item := range opts.Periods {
		c.periods[item.ID] = item
	}
	for _, item := range opts.Teams {
		c.teams[item.ID] = item
	}
	for _, item := range opts.Players {
		c.players[item.ID] = item
	}
	return c
}

func (c *Catalog) Options() Options {
	if c == nil {
		return Options{}
	}
	return c.opts
}

func (c *Catalog) EventTypeName(id int64) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.eventTypes[id]
	return name, ok && name != ""
}

func (c *Catalog) ShotTypeName(id int64) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.shotTypes[id]
	return name, ok && name != ""
}

func (c *Catalog) Period(id int64) (Period, bool) {
	if c == nil {
		return Period{}, false
	}
	p, ok := c.periods[id]
	return p, ok
}

func (c *Catalog) PeriodName(id int64) (string, bool) {
	p, ok := c.Period(id)
	if !ok {
		return "", false
	}
	return p.Label(), true
}

func (c *Catalog) TeamName(id int64) (string, bool) {
	if c == nil {
		return "", false
	}
	t, ok := c.teams[id]
	if !ok {
		return "", false
	}
	label := t.Label()
	return label, label != ""
}

func (c *Catalog) PlayerName(id int64) (string, bool) {
	if c == nil {
		return "", false
	}
	p, ok := c.players[id]
	if !ok {
		return "", false
	}
	name := p.DisplayName()
	return name, name != ""
}

func (c *Catalog) Periods() []Period {
	if c == nil {
		return nil
	}
	out := make([]Period, len(c.opts.Periods))
	copy(out, c.opts.Periods)
	return out
}
