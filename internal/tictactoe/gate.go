package tictactoe

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// Gate hands exactly one human move from the UI loop to the logic loop per turn.
//
// The coordinator opens the gate with the board the human is moving on, then
// blocks in AwaitMove. The UI loop calls Submit on every click; the first click
// on an empty cell while the gate is open is recorded and closes the gate, all
// other clicks are ignored. Shutdown closes the gate permanently and releases
// any waiter.
type Gate struct {
	mu    sync.Mutex
	open  bool
	board entity.Board

	// ready holds at most one move; it is drained whenever the gate is (re)opened or reset.
	ready chan entity.Position

	done     chan struct{}
	doneOnce sync.Once
}

func NewGate() *Gate {
	return &Gate{
		ready: make(chan entity.Position, 1),
		done:  make(chan struct{}),
	}
}

// OpenForTurn starts accepting input against board and drops any stale move.
func (that *Gate) OpenForTurn(board entity.Board) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	select {
	case <-that.done:
		return apperror.ErrGateClosed
	default:
	}

	that.drain()
	that.board = board
	that.open = true

	return nil
}

// Submit records a click. It returns false unless the gate is open and the cell is empty.
func (that *Gate) Submit(row, col int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.open || !that.board.IsLegal(row, col) {
		return false
	}

	that.open = false
	that.ready <- entity.Position{Row: row, Col: col}

	return true
}

// AwaitMove blocks until Submit succeeds, the gate is shut down or ctx is done.
func (that *Gate) AwaitMove(ctx context.Context) (entity.Position, error) {
	select {
	case pos := <-that.ready:
		return pos, nil
	case <-that.done:
		return entity.Position{}, apperror.ErrShutdown
	case <-ctx.Done():
		that.close()
		return entity.Position{}, fmt.Errorf("%w: %w", apperror.ErrShutdown, ctx.Err())
	}
}

func (that *Gate) IsOpen() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.open
}

// Reset closes the gate and discards any pending move before a new session.
func (that *Gate) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.open = false
	that.board = entity.Board{}
	that.drain()
}

// Shutdown permanently closes the gate and wakes a blocked AwaitMove.
func (that *Gate) Shutdown() {
	that.doneOnce.Do(func() {
		close(that.done)
	})
	that.close()
}

func (that *Gate) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.open = false
}

// drain must be called with mu held.
func (that *Gate) drain() {
	select {
	case <-that.ready:
	default:
	}
}
