package trade

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/qpfl/league-core/internal/domain/player"
)

var (
	ErrNotPending  = errors.New("trade is not pending")
	ErrNotPartner  = errors.New("only the trade partner may respond")
	ErrNotProposer = errors.New("only the proposer may cancel")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// Assets is one side of a trade.
type Assets struct {
	Players []player.Ref `json:"players"`
	Picks   []string     `json:"picks"`
}

func (a Assets) Empty() bool {
	return len(a.Players) == 0 && len(a.Picks) == 0
}

func (a Assets) Clone() Assets {
	out := Assets{Players: slices.Clone(a.Players), Picks: slices.Clone(a.Picks)}
	if out.Players == nil {
		out.Players = []player.Ref{}
	}
	if out.Picks == nil {
		out.Picks = []string{}
	}
	return out
}

func (a Assets) String() string {
	parts := make([]string, 0, len(a.Players)+len(a.Picks))
	for _, ref := range a.Players {
		parts = append(parts, ref.String())
	}
	parts = append(parts, a.Picks...)
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

// Trade is a proposal between two teams. It is immutable once it leaves pending.
type Trade struct {
	ID               string     `json:"id"`
	Season           int        `json:"season"`
	Week             int        `json:"week"`
	Proposer         string     `json:"proposer"`
	Partner          string     `json:"partner"`
	ProposerGives    Assets     `json:"proposer_gives"`
	ProposerReceives Assets     `json:"proposer_receives"`
	Status           Status     `json:"status"`
	ProposedAt       time.Time  `json:"proposed_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy       string     `json:"resolved_by,omitempty"`
}

func (t Trade) Clone() Trade {
	out := t
	out.ProposerGives = t.ProposerGives.Clone()
	out.ProposerReceives = t.ProposerReceives.Clone()
	if t.ResolvedAt != nil {
		at := *t.ResolvedAt
		out.ResolvedAt = &at
	}
	return out
}

func (t *Trade) Accept(responder string, at time.Time) error {
	if !strings.EqualFold(responder, t.Partner) {
		return fmt.Errorf("%w: %s is not %s", ErrNotPartner, responder, t.Partner)
	}
	return t.resolve(StatusAccepted, t.Partner, at)
}

func (t *Trade) Reject(responder string, at time.Time) error {
	if !strings.EqualFold(responder, t.Partner) {
		return fmt.Errorf("%w: %s is not %s", ErrNotPartner, responder, t.Partner)
	}
	return t.resolve(StatusRejected, t.Partner, at)
}

func (t *Trade) Cancel(requester string, at time.Time) error {
	if !strings.EqualFold(requester, t.Proposer) {
		return fmt.Errorf("%w: %s is not %s", ErrNotProposer, requester, t.Proposer)
	}
	return t.resolve(StatusCancelled, t.Proposer, at)
}

// CheckPending returns ErrNotPending naming the current status.
func (t Trade) CheckPending() error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: trade %s is already %s", ErrNotPending, t.ID, t.Status)
	}
	return nil
}

func (t *Trade) resolve(next Status, actor string, at time.Time) error {
	if err := t.CheckPending(); err != nil {
		return err
	}
	resolvedAt := at.UTC()
	t.Status = next
	t.ResolvedAt = &resolvedAt
	t.ResolvedBy = actor
	return nil
}
