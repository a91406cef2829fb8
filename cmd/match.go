package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
)

type matchSummary struct {
	firstWins  int
	secondWins int
	draws      int
	aborted    int
}

func (that *matchSummary) add(status entity.Status) {
	switch {
	case status.IsWon() && status.Winner == entity.FirstMover:
		that.firstWins++
	case status.IsWon():
		that.secondWins++
	case status.IsDraw():
		that.draws++
	default:
		that.aborted++
	}
}

func newMatchCmd(opts *options) *cobra.Command {
	var (
		first  string
		second string
		games  int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Play headless games between two automated providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if games <= 0 {
				return fmt.Errorf("--games must be positive, got %d", games)
			}

			conf, err := loadConfig(opts)
			if err != nil {
				return err
			}

			logger := newLogger(conf, cmd.ErrOrStderr())

			repos, err := repository.Open(cmd.Context(), logger, conf)
			if err != nil {
				return fmt.Errorf("could not open storage: %w", err)
			}
			defer func() {
				if err := repos.Close(); err != nil {
					logger.Error("could not close storage", "error", err)
				}
			}()

			if second == "" {
				second = conf.Game.Provider
			}

			registry := service.NewDefaultRegistry(logger, conf.Providers, conf.Game.Provider)
			match := usecase.NewMatch(logger, registry, repos.Games, nil, conf.Game.InvalidMoveLimit)

			out := cmd.OutOrStdout()
			var summary matchSummary

			for i := 0; i < games; i++ {
				record, err := match.Play(cmd.Context(), first, second)
				if err != nil {
					return err
				}

				summary.add(record.Status)

				if _, err = fmt.Fprintf(out, "game %s: %s after %d moves\n%s\n", record.ID, record.Status.String(), len(record.Moves), record.Board.String()); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(out, "%s (O) wins: %d, %s (X) wins: %d, draws: %d, aborted: %d\n",
				first, summary.firstWins, second, summary.secondWins, summary.draws, summary.aborted)

			return err
		},
	}

	cmd.Flags().StringVar(&first, "first", service.ProviderMinimax, "provider for the first mover (O)")
	cmd.Flags().StringVar(&second, "second", "", "provider for the second mover (X); defaults to game.provider")
	cmd.Flags().IntVarP(&games, "games", "n", 1, "number of games to play")

	return cmd
}
