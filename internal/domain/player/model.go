package player

import (
	"fmt"
	"strings"
)

// Position is the roster slot a player dresses in.
type Position string

const (
	PositionGoalie  Position = "G"
	PositionDefense Position = "D"
	PositionForward Position = "F"
)

var AllPositions = map[Position]struct{}{
	PositionGoalie:  {},
	PositionDefense: {},
	PositionForward: {},
}

// NormalizePosition maps the free-text roster position onto the known set.
func NormalizePosition(raw string) Position {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "G", "GOALIE", "GOALTENDER":
		return PositionGoalie
	case "D", "DEF", "DEFENSE", "DEFENCE", "LD", "RD":
		return PositionDefense
	case "F", "FWD", "FORWARD", "C", "CENTER", "LW", "RW", "WING":
		return PositionForward
	default:
		return ""
	}
}

// Player is a rostered skater or goalie.
type Player struct {
	ID        int64
	TeamID    int64
	FirstName string
	LastName  string
	Number    int
	Position  Position
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.DisplayName() == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}

// DisplayName renders "First Last", or whichever half is present.
func (p Player) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (p Player) IsGoalie() bool {
	return p.Position == PositionGoalie
}
