package scoring

import (
	"fmt"
	"math"

	"github.com/qpfl/league-core/internal/domain/league"
)

const (
	playerScoreMin        = -20.0
	playerScoreMax        = 100.0
	teamTotalMin          = 0.0
	teamTotalMax          = 300.0
	breakdownTolerance    = 0.1
	starterAverageCeiling = 50.0
)

// Issue is one finding from ValidateScores.
type Issue struct {
	Team    string `json:"team"`
	Player  string `json:"player,omitempty"`
	Message string `json:"message"`
}

// Report splits sanity findings into hard errors and warnings.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// ValidateScores sanity-checks a scored week. Non-finite numbers are errors;
// everything else is advisory.
func ValidateScores(scores WeekScores, cfg league.Config) Report {
	report := Report{Errors: []Issue{}, Warnings: []Issue{}}

	for _, team := range scores.Teams {
		players := append(append([]PlayerScore{}, team.Starters...), team.Bench...)
		for _, item := range players {
			checkPlayer(&report, team.Team, item)
		}

		if !finite(team.Total) {
			report.Errors = append(report.Errors, Issue{Team: team.Team, Message: fmt.Sprintf("%s total is not a finite number (%v)", team.Team, team.Total)})
			continue
		}
		if team.Total < teamTotalMin || team.Total > teamTotalMax {
			report.Warnings = append(report.Warnings, Issue{Team: team.Team, Message: fmt.Sprintf("%s total %.2f is outside [%.0f, %.0f]", team.Team, team.Total, teamTotalMin, teamTotalMax)})
		}

		starters := cfg.StarterCount()
		if starters == 0 {
			starters = len(team.Starters)
		}
		if starters > 0 {
			if avg := team.Total / float64(starters); avg > starterAverageCeiling {
				report.Warnings = append(report.Warnings, Issue{Team: team.Team, Message: fmt.Sprintf("%s averages %.2f points per starter", team.Team, avg)})
			}
		}
	}

	return report
}

func checkPlayer(report *Report, team string, item PlayerScore) {
	if !finite(item.Points) {
		report.Errors = append(report.Errors, Issue{Team: team, Player: item.Name, Message: fmt.Sprintf("%s (%s) score is not a finite number (%v)", item.Name, item.Position, item.Points)})
		return
	}
	for _, category := range item.Breakdown.Categories() {
		if !finite(item.Breakdown[category]) {
			report.Errors = append(report.Errors, Issue{Team: team, Player: item.Name, Message: fmt.Sprintf("%s (%s) category %s is not a finite number", item.Name, item.Position, category)})
			return
		}
	}

	if item.Points < playerScoreMin || item.Points > playerScoreMax {
		report.Warnings = append(report.Warnings, Issue{Team: team, Player: item.Name, Message: fmt.Sprintf("%s (%s) scored %.2f, outside [%.0f, %.0f]", item.Name, item.Position, item.Points, playerScoreMin, playerScoreMax)})
	}
	if sum := item.Breakdown.Sum(); math.Abs(sum-item.Points) > breakdownTolerance {
		report.Warnings = append(report.Warnings, Issue{Team: team, Player: item.Name, Message: fmt.Sprintf("%s (%s) breakdown sums to %.2f but total is %.2f", item.Name, item.Position, sum, item.Points)})
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
