package draftpick

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidID = errors.New("invalid draft pick id")

var idPattern = regexp.MustCompile(`^(\d{4})-R(\d+)-(.+)$`)

// DraftPick is a future selection. OriginalTeam never changes; CurrentOwner
// moves only through an accepted trade.
type DraftPick struct {
	Year         int    `json:"year"`
	Round        int    `json:"round"`
	OriginalTeam string `json:"original_team"`
	CurrentOwner string `json:"current_owner"`
	PickNumber   int    `json:"pick_number,omitempty"`
}

// ID is the stable wire identifier `{year}-R{round}-{original team}`.
func (p DraftPick) ID() string {
	return FormatID(p.Year, p.Round, p.OriginalTeam)
}

func FormatID(year, round int, originalTeam string) string {
	return fmt.Sprintf("%d-R%d-%s", year, round, originalTeam)
}

// ParseID decodes an identifier produced by FormatID.
func ParseID(id string) (year, round int, originalTeam string, err error) {
	match := idPattern.FindStringSubmatch(strings.TrimSpace(id))
	if match == nil {
		return 0, 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	year, err = strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: year in %q", ErrInvalidID, id)
	}
	round, err = strconv.Atoi(match[2])
	if err != nil || round < 1 {
		return 0, 0, "", fmt.Errorf("%w: round in %q", ErrInvalidID, id)
	}
	return year, round, match[3], nil
}
