package league

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/qpfl/league-core/internal/domain/player"
)

var (
	ErrInvalidConfig = errors.New("invalid league config")
	ErrUnknownTeam   = errors.New("unknown team")
)

// Config is the read-only league configuration handed to every service at construction.
type Config struct {
	CurrentSeason      int                     `json:"current_season" validate:"required,gte=1990"`
	Teams              []string                `json:"teams" validate:"required,min=2,unique,dive,required"`
	RosterSlots        map[player.Position]int `json:"roster_slots" validate:"required,dive,gte=0"`
	StarterSlots       map[player.Position]int `json:"starter_slots" validate:"required,dive,gte=0"`
	TaxiSlots          int                     `json:"taxi_slots" validate:"gte=0"`
	TradeDeadlineWeek  int                     `json:"trade_deadline_week" validate:"gte=1"`
	RegularSeasonWeeks int                     `json:"regular_season_weeks" validate:"gte=1"`
	PlayoffWeeks       []int                   `json:"playoff_weeks" validate:"dive,gte=1"`
	PlayoffStructure   []Bracket               `json:"playoff_structure" validate:"dive"`
	Schedule           []Fixture               `json:"schedule,omitempty" validate:"dive"`
}

// Bracket groups final seeds into a playoff bracket.
type Bracket struct {
	Name  string `json:"name" validate:"required"`
	Seeds []int  `json:"seeds" validate:"required,min=2,dive,gte=1"`
}

// Fixture is one regular-season head-to-head matchup.
type Fixture struct {
	Week int    `json:"week" validate:"gte=1"`
	Home string `json:"home" validate:"required"`
	Away string `json:"away" validate:"required"`
}

func DefaultConfig() Config {
	return Config{
		CurrentSeason: 2025,
		Teams:         []string{"GSA", "CGK", "RPA", "S/T", "CWR", "SLS", "AST", "WJK", "J/J", "ITH"},
		RosterSlots: map[player.Position]int{
			player.PositionQuarterback:   3,
			player.PositionRunningBack:   4,
			player.PositionWideReceiver:  5,
			player.PositionTightEnd:      3,
			player.PositionKicker:        2,
			player.PositionDefense:       2,
			player.PositionHeadCoach:     2,
			player.PositionOffensiveLine: 2,
		},
		StarterSlots: map[player.Position]int{
			player.PositionQuarterback:   1,
			player.PositionRunningBack:   2,
			player.PositionWideReceiver:  2,
			player.PositionTightEnd:      1,
			player.PositionKicker:        1,
			player.PositionDefense:       1,
			player.PositionHeadCoach:     1,
			player.PositionOffensiveLine: 1,
		},
		TaxiSlots:          4,
		TradeDeadlineWeek:  12,
		RegularSeasonWeeks: 15,
		PlayoffWeeks:       []int{16, 17},
		PlayoffStructure: []Bracket{
			{Name: "Championship", Seeds: []int{1, 2, 3, 4}},
			{Name: "Mid Bowl", Seeds: []int{5, 6}},
			{Name: "Sewer Series", Seeds: []int{7, 8}},
			{Name: "Toilet Bowl", Seeds: []int{9, 10}},
		},
	}
}

// Validate checks cross-field rules that struct tags cannot express.
func (c Config) Validate() error {
	for pos, slots := range c.StarterSlots {
		if !pos.Valid() {
			return fmt.Errorf("%w: unknown starter position %q", ErrInvalidConfig, pos)
		}
		if slots > c.RosterSlots[pos] {
			return fmt.Errorf("%w: starter slots for %s (%d) exceed roster slots (%d)", ErrInvalidConfig, pos, slots, c.RosterSlots[pos])
		}
	}
	for pos := range c.RosterSlots {
		if !pos.Valid() {
			return fmt.Errorf("%w: unknown roster position %q", ErrInvalidConfig, pos)
		}
	}
	if c.TradeDeadlineWeek > c.RegularSeasonWeeks+1 {
		return fmt.Errorf("%w: trade deadline week %d is after the regular season", ErrInvalidConfig, c.TradeDeadlineWeek)
	}
	for _, week := range c.PlayoffWeeks {
		if week <= c.RegularSeasonWeeks {
			return fmt.Errorf("%w: playoff week %d overlaps the regular season", ErrInvalidConfig, week)
		}
	}

	seen := make(map[int]struct{})
	for _, bracket := range c.PlayoffStructure {
		for _, seed := range bracket.Seeds {
			if _, ok := seen[seed]; ok {
				return fmt.Errorf("%w: seed %d is in more than one bracket", ErrInvalidConfig, seed)
			}
			if seed > len(c.Teams) {
				return fmt.Errorf("%w: seed %d exceeds team count %d", ErrInvalidConfig, seed, len(c.Teams))
			}
			seen[seed] = struct{}{}
		}
	}

	for _, fixture := range c.Schedule {
		if fixture.Week > c.RegularSeasonWeeks {
			return fmt.Errorf("%w: fixture week %d is outside the regular season", ErrInvalidConfig, fixture.Week)
		}
		if !c.HasTeam(fixture.Home) || !c.HasTeam(fixture.Away) {
			return fmt.Errorf("%w: fixture %s vs %s names an unknown team", ErrInvalidConfig, fixture.Home, fixture.Away)
		}
		if strings.EqualFold(fixture.Home, fixture.Away) {
			return fmt.Errorf("%w: team %s scheduled against itself in week %d", ErrInvalidConfig, fixture.Home, fixture.Week)
		}
	}

	return nil
}

// LastSeasonWeek is the last playoff week, or the last regular-season week when
// the league has no playoffs.
func (c Config) LastSeasonWeek() int {
	if len(c.PlayoffWeeks) == 0 {
		return c.RegularSeasonWeeks
	}
	return slices.Max(c.PlayoffWeeks)
}

// TradeWindowOpen reports whether trades may be proposed during week.
// The window is closed from the deadline through the end of the season.
func (c Config) TradeWindowOpen(week int) bool {
	return week < c.TradeDeadlineWeek || week > c.LastSeasonWeek()
}

func (c Config) HasTeam(team string) bool {
	for _, item := range c.Teams {
		if strings.EqualFold(item, team) {
			return true
		}
	}
	return false
}

// CanonicalTeam returns the configured spelling of team.
func (c Config) CanonicalTeam(team string) (string, error) {
	for _, item := range c.Teams {
		if strings.EqualFold(item, strings.TrimSpace(team)) {
			return item, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTeam, team)
}

// StarterCount is the number of starters a full lineup fields.
func (c Config) StarterCount() int {
	total := 0
	for _, slots := range c.StarterSlots {
		total += slots
	}
	return total
}

// FixturesForWeek returns the scheduled matchups for week in declaration order.
func (c Config) FixturesForWeek(week int) []Fixture {
	out := make([]Fixture, 0, len(c.Teams)/2)
	for _, fixture := range c.Schedule {
		if fixture.Week == week {
			out = append(out, fixture)
		}
	}
	return out
}
