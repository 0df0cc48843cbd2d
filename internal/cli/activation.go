package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qpfl/league-core/internal/usecase"
)

type activateFunc func(context.Context, usecase.ActivationInput) (usecase.ActivationResult, error)

func newTaxiCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxi",
		Short: "Taxi squad commands",
	}
	cmd.AddCommand(newActivateCmd(e, "Promote a taxi squad player to the active roster", func(ctx context.Context, in usecase.ActivationInput) (usecase.ActivationResult, error) {
		return e.app.Ledger.ActivateFromTaxi(ctx, in)
	}))
	return cmd
}

func newFACmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fa",
		Short: "Free-agent pool commands",
	}
	cmd.AddCommand(newActivateCmd(e, "Sign a player from the FA pool, releasing a rostered player", func(ctx context.Context, in usecase.ActivationInput) (usecase.ActivationResult, error) {
		return e.app.Ledger.ActivateFromFAPool(ctx, in)
	}))
	return cmd
}

func newActivateCmd(e *env, short string, activate activateFunc) *cobra.Command {
	var (
		team, player, release string
		week                  int
	)

	cmd := &cobra.Command{
		Use:   "activate",
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireWeek(week); err != nil {
				return err
			}
			in, err := parseRef(player)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}
			out, err := parseRef(release)
			if err != nil {
				return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
			}

			result, err := activate(cmd.Context(), usecase.ActivationInput{
				Season:   e.opts.season,
				Team:     team,
				Activate: in,
				Release:  out,
				Week:     week,
			})
			if err != nil {
				return err
			}

			return e.out().Print(result, func(o *Output) error {
				if err := o.Line("%s: %s in, %s out (%s)", result.Entry.Team, in, out, result.Entry.Type); err != nil {
					return err
				}
				return o.Table([]string{"POS", "PLAYER", "NFL", "STATUS"}, rosterRows(result.Roster))
			})
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team making the move")
	cmd.Flags().StringVar(&player, "player", "", "Player to activate, as POS:Name")
	cmd.Flags().StringVar(&release, "release", "", "Active player to release, as POS:Name")
	cmd.Flags().IntVar(&week, "week", 0, "Current NFL week")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("release")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}
