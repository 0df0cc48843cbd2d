package player

import (
	"fmt"
	"sort"
	"strings"
)

// Position represents the fantasy roster positions used by the league.
type Position string

const (
	PositionQuarterback   Position = "QB"
	PositionRunningBack   Position = "RB"
	PositionWideReceiver  Position = "WR"
	PositionTightEnd      Position = "TE"
	PositionKicker        Position = "K"
	PositionDefense       Position = "D/ST"
	PositionHeadCoach     Position = "HC"
	PositionOffensiveLine Position = "OL"
)

// Positions lists every position in lineup display order.
var Positions = []Position{
	PositionQuarterback,
	PositionRunningBack,
	PositionWideReceiver,
	PositionTightEnd,
	PositionKicker,
	PositionDefense,
	PositionHeadCoach,
	PositionOffensiveLine,
}

var AllPositions = map[Position]struct{}{
	PositionQuarterback:   {},
	PositionRunningBack:   {},
	PositionWideReceiver:  {},
	PositionTightEnd:      {},
	PositionKicker:        {},
	PositionDefense:       {},
	PositionHeadCoach:     {},
	PositionOffensiveLine: {},
}

func (p Position) Valid() bool {
	_, ok := AllPositions[p]
	return ok
}

// IsSkill reports whether the position is scored with the yardage/touchdown rules.
func (p Position) IsSkill() bool {
	switch p {
	case PositionQuarterback, PositionRunningBack, PositionWideReceiver, PositionTightEnd:
		return true
	default:
		return false
	}
}

// IsTeamUnit reports whether the position is a whole NFL team unit, named after the team.
func (p Position) IsTeamUnit() bool {
	return p == PositionDefense || p == PositionOffensiveLine
}

// Order returns the display index of the position, or len(Positions) when unknown.
func (p Position) Order() int {
	for idx, item := range Positions {
		if item == p {
			return idx
		}
	}
	return len(Positions)
}

// SortedPositions returns the keys of m in display order; unknown positions sort last.
func SortedPositions[T any](m map[Position]T) []Position {
	out := make([]Position, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order() != out[j].Order() {
			return out[i].Order() < out[j].Order()
		}
		return out[i] < out[j]
	})
	return out
}

func ParsePosition(raw string) (Position, error) {
	value := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "DST" || value == "DEF" {
		value = PositionDefense
	}
	if !value.Valid() {
		return "", fmt.Errorf("invalid player position: %s", raw)
	}
	return value, nil
}

// Status tracks where a player currently sits league-wide.
type Status string

const (
	StatusActive  Status = "active"
	StatusTaxi    Status = "taxi"
	StatusDropped Status = "dropped"
	StatusFAPool  Status = "fa_pool"
)

// Player is an NFL athlete (or coach/unit) that can be rostered.
type Player struct {
	Name     string   `json:"name"`
	NFLTeam  string   `json:"nfl_team"`
	Position Position `json:"position"`
	Status   Status   `json:"status,omitempty"`
}

func (p Player) Ref() Ref {
	return Ref{Name: p.Name, Position: p.Position}
}

// Key is the normalized identity used for lookups.
func (p Player) Key() string {
	return p.Ref().Key()
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if len(strings.TrimSpace(p.NFLTeam)) < 2 {
		return fmt.Errorf("player %s has invalid nfl team %q", p.Name, p.NFLTeam)
	}
	return nil
}

// Ref identifies a player by (name, position).
type Ref struct {
	Name     string   `json:"name" validate:"required"`
	Position Position `json:"position" validate:"required"`
}

func (r Ref) Key() string {
	return string(r.Position) + "|" + NormalizeName(r.Name)
}

func (r Ref) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Position)
}

// Matches compares two references by position and normalized name.
func (r Ref) Matches(other Ref) bool {
	return r.Position == other.Position && NormalizeName(r.Name) == NormalizeName(other.Name)
}
