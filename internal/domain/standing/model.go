package standing

import (
	"math"
	"sort"
	"strings"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/domain/scoring"
)

// Matchup is one decided head-to-head game.
type Matchup struct {
	Week      int     `json:"week"`
	Home      string  `json:"home"`
	Away      string  `json:"away"`
	HomeScore float64 `json:"home_score"`
	AwayScore float64 `json:"away_score"`
}

// Winner returns the winning team, or "" on a tie.
func (m Matchup) Winner() string {
	switch {
	case m.HomeScore > m.AwayScore:
		return m.Home
	case m.AwayScore > m.HomeScore:
		return m.Away
	default:
		return ""
	}
}

type WeekResult struct {
	Week     int       `json:"week"`
	Matchups []Matchup `json:"matchups"`
}

// Standing is one team's cumulative record.
type Standing struct {
	Rank          int     `json:"rank"`
	Team          string  `json:"team"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

func (s Standing) Games() int {
	return s.Wins + s.Losses + s.Ties
}

// WinPct counts a tie as half a win.
func (s Standing) WinPct() float64 {
	if s.Games() == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(s.Games())
}

// BuildWeekResult pairs scheduled fixtures with week totals. Fixtures missing
// either total are returned as unplayed.
func BuildWeekResult(week int, fixtures []league.Fixture, totals map[string]float64) (WeekResult, []league.Fixture) {
	out := WeekResult{Week: week, Matchups: make([]Matchup, 0, len(fixtures))}
	unplayed := make([]league.Fixture, 0)
	for _, fixture := range fixtures {
		home, okHome := totals[fixture.Home]
		away, okAway := totals[fixture.Away]
		if !okHome || !okAway {
			unplayed = append(unplayed, fixture)
			continue
		}
		out.Matchups = append(out.Matchups, Matchup{
			Week:      week,
			Home:      fixture.Home,
			Away:      fixture.Away,
			HomeScore: home,
			AwayScore: away,
		})
	}
	return out, unplayed
}

// Compute folds weekly results into ranked standings. Order is win percentage,
// then points for, then head-to-head when exactly two teams are level, then
// team abbreviation.
func Compute(results []WeekResult, teams []string) []Standing {
	rows := make(map[string]*Standing, len(teams))
	row := func(team string) *Standing {
		if item, ok := rows[team]; ok {
			return item
		}
		item := &Standing{Team: team}
		rows[team] = item
		return item
	}
	for _, team := range teams {
		row(team)
	}

	h2h := make(map[string]int)
	for _, result := range results {
		for _, m := range result.Matchups {
			home, away := row(m.Home), row(m.Away)
			home.PointsFor += m.HomeScore
			home.PointsAgainst += m.AwayScore
			away.PointsFor += m.AwayScore
			away.PointsAgainst += m.HomeScore

			switch m.Winner() {
			case m.Home:
				home.Wins++
				away.Losses++
				h2h[pairKey(m.Home, m.Away)]++
				h2h[pairKey(m.Away, m.Home)]--
			case m.Away:
				away.Wins++
				home.Losses++
				h2h[pairKey(m.Away, m.Home)]++
				h2h[pairKey(m.Home, m.Away)]--
			default:
				home.Ties++
				away.Ties++
			}
		}
	}

	out := make([]Standing, 0, len(rows))
	for _, item := range rows {
		item.PointsFor = scoring.Round(item.PointsFor)
		item.PointsAgainst = scoring.Round(item.PointsAgainst)
		out = append(out, *item)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := compareRecord(out[i], out[j]); c != 0 {
			return c > 0
		}
		return out[i].Team < out[j].Team
	})

	for start := 0; start < len(out); {
		end := start + 1
		for end < len(out) && compareRecord(out[start], out[end]) == 0 {
			end++
		}
		if end-start == 2 && h2h[pairKey(out[start+1].Team, out[start].Team)] > 0 {
			out[start], out[start+1] = out[start+1], out[start]
		}
		start = end
	}

	for idx := range out {
		out[idx].Rank = idx + 1
	}
	return out
}

func compareRecord(a, b Standing) int {
	if d := a.WinPct() - b.WinPct(); math.Abs(d) > 1e-9 {
		if d > 0 {
			return 1
		}
		return -1
	}
	if d := a.PointsFor - b.PointsFor; math.Abs(d) > 1e-6 {
		if d > 0 {
			return 1
		}
		return -1
	}
	return 0
}

func pairKey(a, b string) string {
	return strings.ToUpper(a) + ">" + strings.ToUpper(b)
}
