package service

import (
	"context"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// RandomBot plays a uniformly random empty cell.
type RandomBot struct{}

func NewRandomBot() *RandomBot {
	return &RandomBot{}
}

func (that *RandomBot) RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	if err := ctx.Err(); err != nil {
		return entity.MoveRequest{}, err
	}

	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.MoveRequest{}, apperror.ErrNoAvailableMoves
	}

	chosenCell := availableCells[rand.Intn(len(availableCells))] //nolint: gosec // it's ok

	return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: chosenCell}, nil
}

// MinimaxBot plays a perfect game. Among equally scored moves it picks the first
// in row-major order, so it is deterministic.
type MinimaxBot struct{}

func NewMinimaxBot() *MinimaxBot {
	return &MinimaxBot{}
}

func (that *MinimaxBot) RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	if err := ctx.Err(); err != nil {
		return entity.MoveRequest{}, err
	}

	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.MoveRequest{}, apperror.ErrNoAvailableMoves
	}

	best := availableCells[0]
	bestScore := -2 * scoreWin
	for _, cell := range availableCells {
		next, err := board.Apply(cell.Row, cell.Col, mark)
		if err != nil {
			continue
		}

		score := -negamax(next, opponent(mark), -2*scoreWin, 2*scoreWin, 1)
		if score > bestScore {
			best, bestScore = cell, score
		}
	}

	return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: best}, nil
}

const scoreWin = 100

// negamax scores board from the point of view of mark, who moves next.
// Faster wins and slower losses score higher.
func negamax(board entity.Board, mark entity.Cell, alpha, beta, depth int) int {
	switch result := board.Evaluate(); result.Kind {
	case entity.ResultWin:
		if result.Mark == mark {
			return scoreWin - depth
		}
		return depth - scoreWin
	case entity.ResultDraw:
		return 0
	}

	best := -2 * scoreWin
	for _, cell := range board.EmptyCells() {
		next, err := board.Apply(cell.Row, cell.Col, mark)
		if err != nil {
			continue
		}

		score := -negamax(next, opponent(mark), -beta, -alpha, depth+1)
		best = max(best, score)
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	return best
}

func opponent(mark entity.Cell) entity.Cell {
	if mark == entity.MarkO {
		return entity.MarkX
	}
	return entity.MarkO
}
