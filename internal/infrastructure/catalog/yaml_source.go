package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/riskibarqy/hockey-dashboard/internal/domain/metadata"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/player"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/team"
	"gopkg.in/yaml.v3"
)

type fileDocument struct {
	EventTypes []metadata.EventType `yaml:"event_types"`
	ShotTypes  []metadata.ShotType  `yaml:"shot_types"`
	Periods    []metadata.Period    `yaml:"periods"`
	Teams      []teamEntry          `yaml:"teams"`
	Players    []playerEntry        `yaml:"players"`
}

type teamEntry struct {
	ID    int64  `yaml:"id"`
	Name  string `yaml:"name"`
	Short string `yaml:"short"`
}

type playerEntry struct {
	ID        int64  `yaml:"id"`
	TeamID    int64  `yaml:"team_id"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Number    int    `yaml:"number"`
	Position  string `yaml:"position"`
}

// YAMLSource serves option lists from a static catalog file. It is parsed
// once; the lists never change for the life of the process.
type YAMLSource struct {
	opts metadata.Options
}

func LoadFile(path string) (*YAMLSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	src, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return src, nil
}

func Parse(raw []byte) (*YAMLSource, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	opts := metadata.Options{
		EventTypes: doc.EventTypes,
		ShotTypes:  doc.ShotTypes,
		Periods:    doc.Periods,
		Teams:      make([]team.Team, 0, len(doc.Teams)),
		Players:    make([]player.Player, 0, len(doc.Players)),
	}
	for _, item := range doc.Teams {
		t := team.Team{ID: item.ID, Name: item.Name, Short: item.Short}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("team %d: %w", item.ID, err)
		}
		opts.Teams = append(opts.Teams, t)
	}
	for _, item := range doc.Players {
		p := player.Player{
			ID:        item.ID,
			TeamID:    item.TeamID,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Number:    item.Number,
			Position:  player.NormalizePosition(item.Position),
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("player %d: %w", item.ID, err)
		}
		opts.Players = append(opts.Players, p)
	}

	return &YAMLSource{opts: opts}, nil
}

func (s *YAMLSource) ListEventTypes(context.Context) ([]metadata.EventType, error) {
	return append([]metadata.EventType(nil), s.opts.EventTypes...), nil
}

func (s *YAMLSource) ListShotTypes(context.Context) ([]metadata.ShotType, error) {
	return append([]metadata.ShotType(nil), s.opts.ShotTypes...), nil
}

func (s *YAMLSource) ListPeriods(context.Context) ([]metadata.Period, error) {
	return append([]metadata.Period(nil), s.opts.Periods...), nil
}

func (s *YAMLSource) ListTeams(context.Context) ([]team.Team, error) {
	return append([]team.Team(nil), s.opts.Teams...), nil
}

func (s *YAMLSource) ListPlayers(context.Context) ([]player.Player, error) {
	return append([]player.Player(nil), s.opts.Players...), nil
}
