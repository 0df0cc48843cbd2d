package roster

import (
	"fmt"
	"strings"

	"github.com/qpfl/league-core/internal/domain/player"
)

// Violation codes reported by roster and lineup validation.
const (
	CodeRosterSlotsExceeded  = "roster_slots_exceeded"
	CodeTaxiSlotsExceeded    = "taxi_slots_exceeded"
	CodeDuplicatePlayer      = "duplicate_player"
	CodeActiveAndTaxi        = "active_and_taxi"
	CodePositionMismatch     = "position_mismatch"
	CodePlayerOnMultipleTeam = "player_on_multiple_teams"
	CodeMissingStarter       = "missing_starter"
	CodeTooManyStarters      = "too_many_starters"
	CodeStarterNotOnRoster   = "starter_not_on_roster"
	CodeStarterOnTaxi        = "starter_on_taxi"
	CodeDuplicateStarter     = "duplicate_starter"
)

// Violation is a rule breach returned as data.
type Violation struct {
	Code     string          `json:"code"`
	Team     string          `json:"team"`
	Position player.Position `json:"position,omitempty"`
	Player   string          `json:"player,omitempty"`
	Message  string          `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// IsIntegrity reports whether the violation means league data is corrupt
// rather than a single team breaking a rule.
func (v Violation) IsIntegrity() bool {
	return v.Code == CodePlayerOnMultipleTeam
}

// IsWarning reports whether the violation is advisory only.
func (v Violation) IsWarning() bool {
	return v.Code == CodeMissingStarter
}

func (v Violation) key() string {
	return v.Code + "|" + v.Team + "|" + string(v.Position) + "|" + player.NormalizeName(v.Player)
}

type Violations []Violation

func (vs Violations) Error() string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.Message)
	}
	return strings.Join(parts, "; ")
}

// Hard drops advisory violations.
func (vs Violations) Hard() Violations {
	out := make(Violations, 0, len(vs))
	for _, v := range vs {
		if !v.IsWarning() {
			out = append(out, v)
		}
	}
	return out
}

func (vs Violations) Warnings() Violations {
	out := make(Violations, 0)
	for _, v := range vs {
		if v.IsWarning() {
			out = append(out, v)
		}
	}
	return out
}

// Introduced returns the violations in vs that were not already present in before.
func (vs Violations) Introduced(before Violations) Violations {
	seen := make(map[string]struct{}, len(before))
	for _, v := range before {
		seen[v.key()] = struct{}{}
	}
	out := make(Violations, 0)
	for _, v := range vs {
		if _, ok := seen[v.key()]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func newViolation(code, team string, pos player.Position, name, format string, args ...any) Violation {
	return Violation{
		Code:     code,
		Team:     team,
		Position: pos,
		Player:   name,
		Message:  fmt.Sprintf(format, args...),
	}
}
