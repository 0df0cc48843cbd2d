package trade

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func pending() Trade {
	return Trade{ID: "ab12cd34", Proposer: "GSA", Partner: "CGK", Status: StatusPending}
}

func TestTransitions(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		apply   func(*Trade) error
		wantErr error
		want    Status
	}{
		{name: "partner accepts", apply: func(tr *Trade) error { return tr.Accept("CGK", now) }, want: StatusAccepted},
		{name: "partner rejects", apply: func(tr *Trade) error { return tr.Reject("cgk", now) }, want: StatusRejected},
		{name: "proposer cancels", apply: func(tr *Trade) error { return tr.Cancel("GSA", now) }, want: StatusCancelled},
		{name: "proposer cannot accept", apply: func(tr *Trade) error { return tr.Accept("GSA", now) }, wantErr: ErrNotPartner, want: StatusPending},
		{name: "partner cannot cancel", apply: func(tr *Trade) error { return tr.Cancel("CGK", now) }, wantErr: ErrNotProposer, want: StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := pending()
			err := tt.apply(&tr)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tr.Status != tt.want {
				t.Fatalf("status=%s want=%s", tr.Status, tt.want)
			}
		})
	}
}

func TestResolvedByUsesConfiguredSpelling(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	rejected := pending()
	if err := rejected.Reject("cgk", now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.ResolvedBy != "CGK" {
		t.Fatalf("resolved_by=%q want CGK", rejected.ResolvedBy)
	}

	cancelled := pending()
	if err := cancelled.Cancel("gsa", now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.ResolvedBy != "GSA" {
		t.Fatalf("resolved_by=%q want GSA", cancelled.ResolvedBy)
	}
}

func TestTerminalTradeCannotTransitionAgain(t *testing.T) {
	now := time.Now()
	tr := pending()
	if err := tr.Cancel("GSA", now); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	err := tr.Accept("CGK", now)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	if !strings.Contains(err.Error(), "cancelled") {
		t.Fatalf("error should name the terminal status: %v", err)
	}
	if tr.Status != StatusCancelled || tr.ResolvedBy != "GSA" {
		t.Fatalf("terminal trade mutated: %+v", tr)
	}
}
