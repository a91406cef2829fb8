package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gameRepoFactory func(t *testing.T) (context.Context, GameRepository)

func gameRepositories() map[string]gameRepoFactory {
	return map[string]gameRepoFactory{
		"memory": func(*testing.T) (context.Context, GameRepository) {
			return context.Background(), NewMemoryGameRepository()
		},
		"redis": func(t *testing.T) (context.Context, GameRepository) {
			ctx, st := suite.New(t)
			return ctx, NewGameRepository(st.Storage)
		},
		"sqlite": func(t *testing.T) (context.Context, GameRepository) {
			ctx, st := suite.NewSQLite(t)
			return ctx, NewSQLGameRepository(st.SQLite.Connection)
		},
	}
}

func finishedRecord(id string) *entity.GameRecord {
	board, _ := entity.Board{}.Apply(1, 1, entity.MarkO)

	return &entity.GameRecord{
		ID:        id,
		Provider:  "deepseek",
		HumanRole: entity.SecondMover,
		Board:     board,
		Moves: []entity.MoveRequest{
			{Player: entity.FirstMover, Target: entity.Position{Row: 1, Col: 1}, Tokens: 42},
		},
		Status:     entity.Aborted(entity.ReasonInvalidMoveLimit),
		Tokens:     map[entity.PlayerID]int{entity.FirstMover: 42},
		StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		FinishedAt: time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC),
	}
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	for name, newRepo := range gameRepositories() {
		t.Run(name, func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a finished game record
			game := finishedRecord("123")

			// When: CreateOrUpdate is called twice
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
			game.Provider = "random"
			err := gameRepo.CreateOrUpdate(ctx, game)

			// Then: the last write wins
			require.NoError(t, err)

			stored, err := gameRepo.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, "random", stored.Provider)
		})
	}
}

func TestGameRepository_GetByID(t *testing.T) {
	for name, newRepo := range gameRepositories() {
		t.Run(name+"/GetByID_Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a stored game record
			game := finishedRecord("123")
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// When: GetByID is called with existing ID
			retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

			// Then: the retrieved game should match the saved game
			require.NoError(t, err)
			assert.Equal(t, game.ID, retrievedGame.ID)
			assert.Equal(t, game.Status, retrievedGame.Status)
			assert.Equal(t, game.Board, retrievedGame.Board)
			assert.Equal(t, game.Moves, retrievedGame.Moves)
			assert.Equal(t, game.Tokens, retrievedGame.Tokens)
			assert.True(t, game.FinishedAt.Equal(retrievedGame.FinishedAt))
		})

		t.Run(name+"/GetByID_NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: GetByID is called with non-existent ID
			retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
			assert.Empty(t, retrievedGame.ID)
		})
	}
}

func TestGameRepository_DeleteByID(t *testing.T) {
	for name, newRepo := range gameRepositories() {
		t.Run(name+"/DeleteByID_Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a stored game record
			game := finishedRecord("123")
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

			// When: DeleteByID is called with existing ID
			err := gameRepo.DeleteByID(ctx, game.ID)

			// Then: it is gone
			require.NoError(t, err)

			_, err = gameRepo.GetByID(ctx, game.ID)
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		})

		t.Run(name+"/DeleteByID_NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: DeleteByID is called with non-existent ID
			err := gameRepo.DeleteByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		})
	}
}

func TestGameRepository_RedisKeyspace(t *testing.T) {
	ctx, st := suite.New(t)
	gameRepo := NewGameRepository(st.Storage)

	// Given: a stored game record
	require.NoError(t, gameRepo.CreateOrUpdate(ctx, finishedRecord("abc")))

	// When: listing the keys in redis
	keys, err := st.Storage.Keys(ctx, "tictactoe:*").Result()

	// Then: the record lives under the game namespace
	require.NoError(t, err)
	assert.Equal(t, []string{"tictactoe:game:abc"}, keys)
}
