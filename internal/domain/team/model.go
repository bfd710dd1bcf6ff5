package team

import (
	"fmt"
	"strings"
)

// Team is a club that can appear on either side of a game.
type Team struct {
	ID    int64
	Name  string
	Short string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Label prefers the full name and falls back to the short code.
func (t Team) Label() string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return strings.TrimSpace(t.Short)
}
