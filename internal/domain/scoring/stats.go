package scoring

// RawStats is one player's (or team unit's) box score for a week.
// Field names follow the nflverse weekly stat columns.
type RawStats struct {
	PassingYards         float64 `json:"passing_yards,omitempty"`
	RushingYards         float64 `json:"rushing_yards,omitempty"`
	ReceivingYards       float64 `json:"receiving_yards,omitempty"`
	PassingTDs           int     `json:"passing_tds,omitempty"`
	RushingTDs           int     `json:"rushing_tds,omitempty"`
	ReceivingTDs         int     `json:"receiving_tds,omitempty"`
	FumbleRecoveryTDs    int     `json:"fumble_recovery_tds,omitempty"`
	PassingInterceptions int     `json:"passing_interceptions,omitempty"`
	SackFumblesLost      int     `json:"sack_fumbles_lost,omitempty"`
	RushingFumblesLost   int     `json:"rushing_fumbles_lost,omitempty"`
	ReceivingFumblesLost int     `json:"receiving_fumbles_lost,omitempty"`
	ExtraFumblesLost     int     `json:"extra_fumbles_lost,omitempty"`
	PickSixes            int     `json:"pick_sixes,omitempty"`
	FumbleSixes          int     `json:"fumble_sixes,omitempty"`
	Passing2PT           int     `json:"passing_2pt_conversions,omitempty"`
	Rushing2PT           int     `json:"rushing_2pt_conversions,omitempty"`
	Receiving2PT         int     `json:"receiving_2pt_conversions,omitempty"`

	PATMade      int `json:"pat_made,omitempty"`
	PATMissed    int `json:"pat_missed,omitempty"`
	PATBlocked   int `json:"pat_blocked,omitempty"`
	FGMade0To19  int `json:"fg_made_0_19,omitempty"`
	FGMade20To29 int `json:"fg_made_20_29,omitempty"`
	FGMade30To39 int `json:"fg_made_30_39,omitempty"`
	FGMade40To49 int `json:"fg_made_40_49,omitempty"`
	FGMade50To59 int `json:"fg_made_50_59,omitempty"`
	FGMade60Plus int `json:"fg_made_60_,omitempty"`
	FGMissed     int `json:"fg_missed,omitempty"`
	FGBlocked    int `json:"fg_blocked,omitempty"`

	PointsScored        int     `json:"points_scored"`
	PointsAllowed       int     `json:"points_allowed"`
	DefInterceptions    int     `json:"def_interceptions,omitempty"`
	FumbleRecoveryOpp   int     `json:"fumble_recovery_opp,omitempty"`
	OpponentFumblesLost int     `json:"opponent_fumbles_lost,omitempty"`
	DefSacks            float64 `json:"def_sacks,omitempty"`
	PBPSacks            *int    `json:"pbp_sacks,omitempty"`
	DefSafeties         int     `json:"def_safeties,omitempty"`
	BlockedPunts        int     `json:"blocked_punts,omitempty"`
	BlockedFGs          int     `json:"blocked_fgs,omitempty"`
	BlockedPATs         int     `json:"blocked_pats,omitempty"`
	DefTDs              int     `json:"def_tds,omitempty"`
	SpecialTeamsTDs     int     `json:"special_teams_tds,omitempty"`

	SackYardsLost float64 `json:"sack_yards_lost,omitempty"`
	SacksSuffered int     `json:"sacks_suffered,omitempty"`
	OLTouchdowns  int     `json:"ol_touchdowns,omitempty"`
}
