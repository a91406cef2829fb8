package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-duel/mocks/usecase"
)

func newMatchRegistry() *service.Registry {
	registry := service.NewRegistry(service.ProviderMinimax)
	registry.Register(service.Provider{ID: service.ProviderMinimax, Model: "local"}, service.NewMinimaxBot())
	registry.Register(service.Provider{ID: service.ProviderRandom, Model: "local"}, service.NewRandomBot())

	return registry
}

func TestMatch_Play(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Two perfect players draw and the record is stored", func(t *testing.T) {
		// Given: minimax on both sides
		games := mockedUseCase.NewMockgameRepo(t)
		games.EXPECT().
			CreateOrUpdate(mock.Anything, mock.MatchedBy(func(record *entity.GameRecord) bool {
				return record.Provider == "minimax-local vs minimax-local" && record.HumanRole == entity.NoPlayer
			})).
			Return(nil).
			Once()

		match := NewMatch(logger, newMatchRegistry(), games, nil, tictactoe.DefaultInvalidMoveLimit)

		// When: playing the match
		record, err := match.Play(context.Background(), service.ProviderMinimax, service.ProviderMinimax)

		// Then: it is a draw over nine moves
		require.NoError(t, err)
		assert.Equal(t, entity.Draw(), record.Status)
		assert.Len(t, record.Moves, 9)
	})

	t.Run("Minimax never loses to random", func(t *testing.T) {
		games := mockedUseCase.NewMockgameRepo(t)
		games.EXPECT().CreateOrUpdate(mock.Anything, mock.Anything).Return(nil).Times(10)

		match := NewMatch(logger, newMatchRegistry(), games, nil, tictactoe.DefaultInvalidMoveLimit)

		for i := 0; i < 10; i++ {
			record, err := match.Play(context.Background(), service.ProviderRandom, service.ProviderMinimax)
			require.NoError(t, err)
			assert.NotEqual(t, entity.Won(entity.FirstMover), record.Status)
		}
	})

	t.Run("Unknown provider is rejected", func(t *testing.T) {
		match := NewMatch(logger, newMatchRegistry(), mockedUseCase.NewMockgameRepo(t), nil, tictactoe.DefaultInvalidMoveLimit)

		_, err := match.Play(context.Background(), "nope", service.ProviderRandom)

		require.ErrorIs(t, err, apperror.ErrProviderNotFound)
	})
}
