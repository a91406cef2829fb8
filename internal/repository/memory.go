package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// NewMemoryGameRepository keeps records for the lifetime of the process.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string][]byte),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.GameRecord) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = gameJSON

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.GameRecord, error) {
	that.mu.RLock()
	gameJSON, ok := that.games[id]
	that.mu.RUnlock()

	if !ok {
		return &entity.GameRecord{}, apperror.ErrGameNotFound
	}

	var existingGame entity.GameRecord
	if err := json.Unmarshal(gameJSON, &existingGame); err != nil {
		return &entity.GameRecord{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

type memoryScore struct {
	mu    sync.Mutex
	score entity.Score
}

func NewMemoryScoreRepository() ScoreRepository {
	return &memoryScore{}
}

func (that *memoryScore) Increment(_ context.Context, outcome entity.Outcome) (entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.score.Add(outcome)

	return that.score, nil
}

func (that *memoryScore) Get(_ context.Context) (entity.Score, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.score, nil
}
