package draftpick

import (
	"errors"
	"testing"
)

func TestIDRoundTrip(t *testing.T) {
	cases := []DraftPick{
		{Year: 2026, Round: 1, OriginalTeam: "GSA"},
		{Year: 2027, Round: 12, OriginalTeam: "S/T"},
		{Year: 2026, Round: 3, OriginalTeam: "J/J"},
		{Year: 2030, Round: 2, OriginalTeam: "A-R2-B"},
	}

	for _, tc := range cases {
		year, round, owner, err := ParseID(tc.ID())
		if err != nil {
			t.Fatalf("ParseID(%q): %v", tc.ID(), err)
		}
		if year != tc.Year || round != tc.Round || owner != tc.OriginalTeam {
			t.Fatalf("round trip mismatch for %q: got %d %d %q", tc.ID(), year, round, owner)
		}
	}
}

func TestFormatID(t *testing.T) {
	if got := FormatID(2026, 1, "GSA"); got != "2026-R1-GSA" {
		t.Fatalf("unexpected id: %s", got)
	}
}

func TestParseIDInvalid(t *testing.T) {
	for _, raw := range []string{"", "2026-1-GSA", "26-R1-GSA", "2026-R0-GSA", "2026-R1-", "2026-Rx-GSA"} {
		if _, _, _, err := ParseID(raw); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("ParseID(%q) expected ErrInvalidID, got %v", raw, err)
		}
	}
}
