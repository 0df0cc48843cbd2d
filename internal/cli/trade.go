package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/domain/trade"
	"github.com/qpfl/league-core/internal/usecase"
)

func newTradeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Propose, answer and cancel trades",
	}

	cmd.AddCommand(newTradeProposeCmd(e))
	cmd.AddCommand(newTradeRespondCmd(e))
	cmd.AddCommand(newTradeCancelCmd(e))

	return cmd
}

func newTradeProposeCmd(e *env) *cobra.Command {
	var (
		from, to             string
		give, receive        []string
		givePicks, recvPicks []string
		week                 int
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Propose a trade between two teams",
		Example: `  qpfl trade propose --from GSA --to CGK --week 5 \
    --give "RB:Saquon Barkley" --give-pick 2026-R1-GSA --receive "WR:Justin Jefferson"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWeek(week); err != nil {
				return err
			}
			gives, err := parseRefs(give)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}
			receives, err := parseRefs(receive)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}

			t, err := e.app.Ledger.ProposeTrade(cmd.Context(), usecase.ProposeTradeInput{
				Season:         e.opts.season,
				Proposer:       from,
				Partner:        to,
				GivePlayers:    gives,
				GivePicks:      givePicks,
				ReceivePlayers: receives,
				ReceivePicks:   recvPicks,
				Week:           week,
			})
			if err != nil {
				return err
			}
			return printTrade(e.out(), t)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Proposing team")
	cmd.Flags().StringVar(&to, "to", "", "Partner team")
	cmd.Flags().StringArrayVar(&give, "give", nil, "Player the proposer gives, as POS:Name (repeatable)")
	cmd.Flags().StringArrayVar(&givePicks, "give-pick", nil, "Draft pick the proposer gives, e.g. 2026-R1-GSA (repeatable)")
	cmd.Flags().StringArrayVar(&receive, "receive", nil, "Player the proposer receives, as POS:Name (repeatable)")
	cmd.Flags().StringArrayVar(&recvPicks, "receive-pick", nil, "Draft pick the proposer receives (repeatable)")
	cmd.Flags().IntVar(&week, "week", 0, "Current NFL week")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}

func newTradeRespondCmd(e *env) *cobra.Command {
	var (
		team           string
		accept, reject bool
		week           int
	)

	cmd := &cobra.Command{
		Use:   "respond <trade-id>",
		Short: "Accept or reject a pending trade as the partner team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.app.Ledger.RespondTrade(cmd.Context(), usecase.RespondTradeInput{
				Season:    e.opts.season,
				TradeID:   args[0],
				Responder: team,
				Accept:    accept,
				Week:      week,
			})
			if err != nil {
				return err
			}
			return printTrade(e.out(), t)
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Responding (partner) team")
	cmd.Flags().BoolVar(&accept, "accept", false, "Accept the trade")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the trade")
	cmd.Flags().IntVar(&week, "week", 0, "Week to log the transaction under (default: proposal week)")
	_ = cmd.MarkFlagRequired("team")
	cmd.MarkFlagsOneRequired("accept", "reject")
	cmd.MarkFlagsMutuallyExclusive("accept", "reject")

	return cmd
}

func newTradeCancelCmd(e *env) *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "cancel <trade-id>",
		Short: "Withdraw a pending trade as the proposing team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := e.app.Ledger.CancelTrade(cmd.Context(), usecase.CancelTradeInput{
				Season:    e.opts.season,
				TradeID:   args[0],
				Requester: team,
			})
			if err != nil {
				return err
			}
			return printTrade(e.out(), t)
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Proposing team")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func printTrade(out *Output, t trade.Trade) error {
	return out.Print(t, func(o *Output) error {
		if err := o.Line("trade %s (%s, week %d)", t.ID, t.Status, t.Week); err != nil {
			return err
		}
		if err := o.Line("  %s gives:    %s", t.Proposer, assetsLine(t.ProposerGives.Players, t.ProposerGives.Picks)); err != nil {
			return err
		}
		return o.Line("  %s receives: %s", t.Proposer, assetsLine(t.ProposerReceives.Players, t.ProposerReceives.Picks))
	})
}
