package livegame

import "math"

type TeamStats struct {
	TeamID         int64          `json:"team_id"`
	Goals          int            `json:"goals"`
	FaceoffWins    int            `json:"faceoff_wins"`
	FaceoffPercent int            `json:"faceoff_percent"`
	Exits          map[string]int `json:"exits"`
	Entries        map[string]int `json:"entries"`
	Shots          map[string]int `json:"shots"`
	Turnovers      map[string]int `json:"turnovers"`
}

// StatBoard always carries both teams so they are replaced together.
type StatBoard struct {
	Home TeamStats `json:"home"`
	Away TeamStats `json:"away"`
}

// FaceoffPercent is round(team / (team + other) * 100), or 0 when no faceoffs
// were taken.
func FaceoffPercent(team, other int) int {
	if team < 0 {
		team = 0
	}
	if other < 0 {
		other = 0
	}
	total := team + other
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(team) / float64(total) * 100))
}

// Aggregate derives the stat board. Faceoff percentage is the only computed
// value; every counter is copied through.
func Aggregate(s Snapshot) StatBoard {
	return StatBoard{
		Home: teamStats(s.Home, s.Away.FaceoffWins),
		Away: teamStats(s.Away, s.Home.FaceoffWins),
	}
}

func teamStats(team TeamState, otherFaceoffWins int) TeamStats {
	return TeamStats{
		TeamID:         team.TeamID,
		Goals:          team.Goals,
		FaceoffWins:    team.FaceoffWins,
		FaceoffPercent: FaceoffPercent(team.FaceoffWins, otherFaceoffWins),
		Exits:          team.Counters.Exits.Values(),
		Entries:        team.Counters.Entries.Values(),
		Shots:          team.Counters.Shots.Values(),
		Turnovers:      team.Counters.Turnovers.Values(),
	}
}
