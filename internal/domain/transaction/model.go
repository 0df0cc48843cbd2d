package transaction

import (
	"time"

	"github.com/qpfl/league-core/internal/domain/player"
	"github.com/qpfl/league-core/internal/domain/trade"
)

type Type string

const (
	TypeTaxiActivation Type = "taxi_activation"
	TypeFAActivation   Type = "fa_activation"
	TypeTrade          Type = "trade"
)

const (
	timestampLayout       = "2006-01-02T15:04:05"
	timestampLayoutMicros = "2006-01-02T15:04:05.000000"
)

// Assets is the logged side of a trade: player names and pick ids.
type Assets struct {
	Players []string `json:"players"`
	Picks   []string `json:"picks"`
}

func assetsOf(a trade.Assets) *Assets {
	out := &Assets{Players: make([]string, 0, len(a.Players)), Picks: make([]string, 0, len(a.Picks))}
	for _, ref := range a.Players {
		out.Players = append(out.Players, ref.Name)
	}
	out.Picks = append(out.Picks, a.Picks...)
	return out
}

// Entry is an append-only audit record. Field names, value shapes and field
// order are a wire contract with the archived transaction log. Season,
// trade_id and position are additions that archived entries do not carry.
type Entry struct {
	Type             Type    `json:"type"`
	Team             string  `json:"team,omitempty"`
	Proposer         string  `json:"proposer,omitempty"`
	Partner          string  `json:"partner,omitempty"`
	Activated        string  `json:"activated,omitempty"`
	Added            string  `json:"added,omitempty"`
	Released         string  `json:"released,omitempty"`
	ProposerGives    *Assets `json:"proposer_gives,omitempty"`
	ProposerReceives *Assets `json:"proposer_receives,omitempty"`
	Week             int     `json:"week"`
	Timestamp        string  `json:"timestamp"`

	Season   int             `json:"season,omitempty"`
	TradeID  string          `json:"trade_id,omitempty"`
	Position player.Position `json:"position,omitempty"`
}

// FormatTimestamp renders at in UTC without a zone suffix, with microseconds
// only when they are non-zero.
func FormatTimestamp(at time.Time) string {
	at = at.UTC().Truncate(time.Microsecond)
	if at.Nanosecond() == 0 {
		return at.Format(timestampLayout)
	}
	return at.Format(timestampLayoutMicros)
}

// ParseTimestamp reads a logged timestamp as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04:05.999999", raw, time.UTC)
}

func NewTaxiActivation(team string, activated, released player.Player, season, week int, at time.Time) Entry {
	return Entry{
		Type:      TypeTaxiActivation,
		Team:      team,
		Activated: activated.Name,
		Released:  released.Name,
		Week:      week,
		Timestamp: FormatTimestamp(at),
		Season:    season,
		Position:  activated.Position,
	}
}

func NewFAActivation(team string, added, released player.Player, season, week int, at time.Time) Entry {
	return Entry{
		Type:      TypeFAActivation,
		Team:      team,
		Added:     added.Name,
		Released:  released.Name,
		Week:      week,
		Timestamp: FormatTimestamp(at),
		Season:    season,
		Position:  added.Position,
	}
}

func NewTrade(t trade.Trade, week int, at time.Time) Entry {
	return Entry{
		Type:             TypeTrade,
		Proposer:         t.Proposer,
		Partner:          t.Partner,
		ProposerGives:    assetsOf(t.ProposerGives),
		ProposerReceives: assetsOf(t.ProposerReceives),
		Week:             week,
		Timestamp:        FormatTimestamp(at),
		Season:           t.Season,
		TradeID:          t.ID,
	}
}
