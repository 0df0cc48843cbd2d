package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/qpfl/league-core/internal/domain/player"
)

// Breakdown maps a scoring category to the unrounded points it contributed.
type Breakdown map[string]float64

func (b Breakdown) Categories() []string {
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Sum adds categories in key order so the float result is reproducible.
func (b Breakdown) Sum() float64 {
	total := 0.0
	for _, key := range b.Categories() {
		total += b[key]
	}
	return total
}

func (b Breakdown) add(category string, pts float64) {
	if pts != 0 {
		b[category] += pts
	}
}

// Result is the output of one rule evaluation.
type Result struct {
	Points    float64
	Breakdown Breakdown
	Notes     []string
}

// Score evaluates the rule set for pos. It has no side effects and the same
// input always yields the same Result.
func Score(pos player.Position, raw RawStats) (Result, error) {
	var res Result
	switch {
	case pos.IsSkill():
		res = scoreSkill(raw)
	case pos == player.PositionKicker:
		res = scoreKicker(raw)
	case pos == player.PositionDefense:
		res = scoreDefense(raw)
	case pos == player.PositionHeadCoach:
		res = scoreHeadCoach(raw)
	case pos == player.PositionOffensiveLine:
		res = scoreOffensiveLine(raw)
	default:
		return Result{}, fmt.Errorf("no scoring rules for position %q", pos)
	}

	res.Points = Round(res.Breakdown.Sum())
	return res, nil
}

// Round rounds to two decimal places, half away from zero. Non-finite values
// are returned untouched so sanity checks can flag them.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func scoreSkill(raw RawStats) Result {
	b := Breakdown{}

	b.add("passing_yards", raw.PassingYards/25)
	b.add("rushing_yards", raw.RushingYards/10)
	b.add("receiving_yards", raw.ReceivingYards/10)

	tds := raw.PassingTDs + raw.RushingTDs + raw.ReceivingTDs + raw.FumbleRecoveryTDs
	b.add("touchdowns", float64(6*tds))

	turnovers := raw.PassingInterceptions + raw.SackFumblesLost + raw.RushingFumblesLost +
		raw.ReceivingFumblesLost + raw.ExtraFumblesLost
	b.add("turnovers", float64(-2*turnovers))
	b.add("turnover_tds", float64(-4*(raw.PickSixes+raw.FumbleSixes)))

	b.add("two_point_conversions", float64(2*(raw.Passing2PT+raw.Rushing2PT+raw.Receiving2PT)))

	return Result{Breakdown: b}
}

func scoreKicker(raw RawStats) Result {
	b := Breakdown{}

	b.add("pat_made", float64(raw.PATMade))
	b.add("pat_missed", float64(-2*raw.PATMissed))
	b.add("pat_blocked", float64(-2*raw.PATBlocked))

	b.add("fg_1_29", float64(raw.FGMade0To19+raw.FGMade20To29))
	b.add("fg_30_39", float64(2*raw.FGMade30To39))
	b.add("fg_40_49", float64(3*raw.FGMade40To49))
	b.add("fg_50_59", float64(4*raw.FGMade50To59))
	b.add("fg_60+", float64(5*raw.FGMade60Plus))

	b.add("fg_missed", float64(-raw.FGMissed))
	b.add("fg_blocked", float64(-raw.FGBlocked))

	return Result{Breakdown: b}
}

// PointsAllowedTier maps points allowed onto the D/ST tier bonus.
func PointsAllowedTier(pointsAllowed int) int {
	switch {
	case pointsAllowed <= 0:
		return 8
	case pointsAllowed <= 9:
		return 6
	case pointsAllowed <= 13:
		return 4
	case pointsAllowed <= 17:
		return 2
	case pointsAllowed <= 31:
		return -2
	case pointsAllowed <= 35:
		return -4
	default:
		return -6
	}
}

func scoreDefense(raw RawStats) Result {
	b := Breakdown{}
	var notes []string

	b["points_allowed"] = float64(PointsAllowedTier(raw.PointsAllowed))

	b.add("interceptions", float64(2*raw.DefInterceptions))

	recoveries := max(raw.FumbleRecoveryOpp, raw.OpponentFumblesLost)
	b.add("fumble_recoveries", float64(2*recoveries))

	sacks := math.Trunc(raw.DefSacks)
	if raw.PBPSacks != nil {
		if float64(*raw.PBPSacks) != raw.DefSacks {
			notes = append(notes, fmt.Sprintf("sacks: play-by-play count %d used over box score %g", *raw.PBPSacks, raw.DefSacks))
		}
		sacks = float64(*raw.PBPSacks)
	}
	b.add("sacks", sacks)

	b.add("safeties", float64(2*raw.DefSafeties))
	b.add("blocked_kicks", float64(2*(raw.BlockedPunts+raw.BlockedFGs)))
	b.add("blocked_pats", float64(raw.BlockedPATs))

	tds := raw.DefTDs + raw.FumbleRecoveryTDs + raw.SpecialTeamsTDs
	b.add("defensive_st_tds", float64(4*tds))

	return Result{Breakdown: b, Notes: notes}
}

// MarginPoints maps a head coach's game margin onto points.
func MarginPoints(margin int) int {
	switch {
	case margin >= 20:
		return 4
	case margin >= 10:
		return 3
	case margin >= 1:
		return 2
	case margin == 0:
		return 0
	case margin >= -9:
		return -1
	case margin >= -20:
		return -2
	default:
		return -3
	}
}

func scoreHeadCoach(raw RawStats) Result {
	b := Breakdown{}
	margin := raw.PointsScored - raw.PointsAllowed
	category := "margin"
	switch {
	case margin > 0:
		category = "win_margin"
	case margin < 0:
		category = "loss_margin"
	}
	b.add(category, float64(MarginPoints(margin)))
	return Result{Breakdown: b}
}

func scoreOffensiveLine(raw RawStats) Result {
	b := Breakdown{}

	netPassing := raw.PassingYards - math.Abs(raw.SackYardsLost)
	b.add("passing_yards", math.Floor(netPassing/100))
	b.add("rushing_yards", math.Floor(raw.RushingYards/50))
	b.add("sacks_allowed", float64(-raw.SacksSuffered))
	b.add("ol_touchdowns", float64(6*raw.OLTouchdowns))

	return Result{Breakdown: b}
}
