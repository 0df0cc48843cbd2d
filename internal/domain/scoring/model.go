package scoring

import (
	"github.com/qpfl/league-core/internal/domain/player"
)

// PlayerScore is one rostered player's result for a week.
type PlayerScore struct {
	Name      string          `json:"name"`
	Position  player.Position `json:"position"`
	NFLTeam   string          `json:"nfl_team"`
	Starter   bool            `json:"starter"`
	Found     bool            `json:"found"`
	Points    float64         `json:"points"`
	Breakdown Breakdown       `json:"breakdown"`
	Stats     *RawStats       `json:"stats,omitempty"`
	Notes     []string        `json:"notes,omitempty"`
}

func (p PlayerScore) Ref() player.Ref {
	return player.Ref{Name: p.Name, Position: p.Position}
}

// TeamScore holds a team's week total and the per-player detail behind it.
// Only starters count toward Total.
type TeamScore struct {
	Team     string        `json:"team"`
	Total    float64       `json:"total"`
	Starters []PlayerScore `json:"starters"`
	Bench    []PlayerScore `json:"bench,omitempty"`
}

// WeekScores is the persisted result document for one scored week.
type WeekScores struct {
	Season int         `json:"season"`
	Week   int         `json:"week"`
	Teams  []TeamScore `json:"teams"`
}

func (w WeekScores) Team(team string) (TeamScore, bool) {
	for _, item := range w.Teams {
		if item.Team == team {
			return item, true
		}
	}
	return TeamScore{}, false
}

// Totals maps team abbreviation to week total.
func (w WeekScores) Totals() map[string]float64 {
	out := make(map[string]float64, len(w.Teams))
	for _, item := range w.Teams {
		out[item.Team] = item.Total
	}
	return out
}

// TeamTotal sums starter points and rounds the result.
func TeamTotal(starters []PlayerScore) float64 {
	total := 0.0
	for _, item := range starters {
		total += item.Points
	}
	return Round(total)
}
