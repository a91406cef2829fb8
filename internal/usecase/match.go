package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

// Match plays a single headless session between two automated providers.
type Match struct {
	logger    *slog.Logger
	registry  playerRegistry
	gameRepo  gameRepo
	publisher tictactoe.Publisher

	invalidMoveLimit int
}

func NewMatch(logger *slog.Logger, registry playerRegistry, gameRepo gameRepo, publisher tictactoe.Publisher, invalidMoveLimit int) *Match {
	return &Match{
		logger:           logger.With("component", "match"),
		registry:         registry,
		gameRepo:         gameRepo,
		publisher:        publisher,
		invalidMoveLimit: invalidMoveLimit,
	}
}

func (that *Match) Play(ctx context.Context, firstID, secondID string) (*entity.GameRecord, error) {
	first, err := that.registry.Get(firstID)
	if err != nil {
		return nil, fmt.Errorf("failed to get first mover: %w", err)
	}

	second, err := that.registry.Get(secondID)
	if err != nil {
		return nil, fmt.Errorf("failed to get second mover: %w", err)
	}

	sessionID := uuid.NewString()
	log := that.logger.With("method", "Play", "sessionID", sessionID, "first", firstID, "second", secondID)

	coordinator := tictactoe.NewCoordinator(that.logger, that.publisher, that.invalidMoveLimit)
	coordinator.Start(sessionID, tictactoe.Players{First: first, Second: second})

	status, err := coordinator.Play(ctx)
	if err != nil {
		return nil, fmt.Errorf("match interrupted: %w", err)
	}

	log.Info("match finished", "status", status.String())

	record := coordinator.Record(firstID+" vs "+secondID, entity.NoPlayer)
	if err = that.gameRepo.CreateOrUpdate(ctx, record); err != nil {
		log.Error("failed to store game record", "error", err)
	}

	return record, nil
}
