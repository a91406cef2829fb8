package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const gameRecordPrefix = "tictactoe:game:"

// GameRepository keeps finished game records by ID.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error
	GetByID(ctx context.Context, id string) (*entity.GameRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

type redisGameRecords struct {
	client *redis.Client
}

// NewGameRepository stores each record as a JSON string under tictactoe:game:<id>.
func NewGameRepository(client *redis.Client) GameRepository {
	return &redisGameRecords{
		client: client,
	}
}

func gameRecordKey(id string) string {
	return gameRecordPrefix + id
}

func (that *redisGameRecords) CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error {
	payload, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameRecordKey(game.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("could not store game record %s: %w", game.ID, err)
	}

	return nil
}

func (that *redisGameRecords) GetByID(ctx context.Context, id string) (*entity.GameRecord, error) {
	payload, err := that.client.Get(ctx, gameRecordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &entity.GameRecord{}, apperror.ErrGameNotFound
	}

	if err != nil {
		return &entity.GameRecord{}, fmt.Errorf("could not load game record %s: %w", id, err)
	}

	var record entity.GameRecord
	if err = json.Unmarshal(payload, &record); err != nil {
		return &entity.GameRecord{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &record, nil
}

func (that *redisGameRecords) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameRecordKey(id)).Result()
	if err != nil {
		return fmt.Errorf("could not delete game record %s: %w", id, err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}
