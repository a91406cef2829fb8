package tictactoe

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// HumanPlayer asks the UI for a move through the gate.
type HumanPlayer struct {
	gate *Gate
}

func NewHumanPlayer(gate *Gate) *HumanPlayer {
	return &HumanPlayer{gate: gate}
}

func (that *HumanPlayer) RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	if err := that.gate.OpenForTurn(board); err != nil {
		if errors.Is(err, apperror.ErrGateClosed) {
			return entity.MoveRequest{}, fmt.Errorf("%w: %w", apperror.ErrShutdown, err)
		}
		return entity.MoveRequest{}, fmt.Errorf("failed to open gate: %w", err)
	}

	pos, err := that.gate.AwaitMove(ctx)
	if err != nil {
		return entity.MoveRequest{}, err
	}

	return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: pos}, nil
}
