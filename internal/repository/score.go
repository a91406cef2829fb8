package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const scoreKey = "tictactoe:score"

type ScoreRepository interface {
	Increment(ctx context.Context, outcome entity.Outcome) (entity.Score, error)
	Get(ctx context.Context) (entity.Score, error)
}

type dbScore struct {
	client *redis.Client
}

// NewScoreRepository stores the score board as a redis hash keyed by outcome.
func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Increment(ctx context.Context, outcome entity.Outcome) (entity.Score, error) {
	if err := that.client.HIncrBy(ctx, scoreKey, string(outcome), 1).Err(); err != nil {
		return entity.Score{}, fmt.Errorf("failed to increment score: %w", err)
	}

	return that.Get(ctx)
}

func (that *dbScore) Get(ctx context.Context) (entity.Score, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey).Result()
	if err != nil {
		return entity.Score{}, fmt.Errorf("failed to get score: %w", err)
	}

	counts := make(map[entity.Outcome]int, len(fields))
	for outcome, value := range fields {
		count, err := strconv.Atoi(value)
		if err != nil {
			return entity.Score{}, fmt.Errorf("failed to parse %s count: %w", outcome, err)
		}

		counts[entity.Outcome(outcome)] = count
	}

	return scoreFrom(counts), nil
}

func scoreFrom(counts map[entity.Outcome]int) entity.Score {
	return entity.Score{
		AutomatedWins: counts[entity.OutcomeAutomatedWin],
		HumanWins:     counts[entity.OutcomeHumanWin],
		Draws:         counts[entity.OutcomeDraw],
	}
}
