package tictactoe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errProviderDown = errors.New("provider down")

// scriptedPlayer answers with the next scripted move on each call.
type scriptedPlayer struct {
	mu     sync.Mutex
	moves  []entity.Position
	errs   map[int]error
	calls  int
	before func(call int)
}

func (that *scriptedPlayer) RequestMove(ctx context.Context, _ entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	that.mu.Lock()
	call := that.calls
	that.calls++
	that.mu.Unlock()

	if that.before != nil {
		that.before(call)
	}

	if err := ctx.Err(); err != nil {
		return entity.MoveRequest{}, err
	}

	if err, ok := that.errs[call]; ok {
		return entity.MoveRequest{}, err
	}

	if call >= len(that.moves) {
		return entity.MoveRequest{}, fmt.Errorf("script exhausted after %d calls", call)
	}

	return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: that.moves[call]}, nil
}

func (that *scriptedPlayer) Calls() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.calls
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []entity.Snapshot
}

func (that *recordingPublisher) PublishBoardSnapshot(snapshot entity.Snapshot) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots = append(that.snapshots, snapshot)
}

func (that *recordingPublisher) All() []entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Snapshot(nil), that.snapshots...)
}

func (that *recordingPublisher) Last() entity.Snapshot {
	all := that.All()
	if len(all) == 0 {
		return entity.Snapshot{}
	}
	return all[len(all)-1]
}

func newTestCoordinator(publisher Publisher) *Coordinator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCoordinator(logger, publisher, DefaultInvalidMoveLimit)
}

func pos(row, col int) entity.Position {
	return entity.Position{Row: row, Col: col}
}

func TestCoordinator_Play(t *testing.T) {
	t.Run("Turn passes to the second mover after a legal move", func(t *testing.T) {
		// Given: the first mover takes the center
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var seen State
		first := &scriptedPlayer{moves: []entity.Position{pos(1, 1)}}
		second := &scriptedPlayer{before: func(int) {
			seen = coordinator.State()
			cancel()
		}}
		coordinator.Start("s1", Players{First: first, Second: second})

		// When: playing until the second mover is asked
		_, err := coordinator.Play(ctx)

		// Then: the second mover owns the turn and the board shows the center mark
		require.ErrorIs(t, err, apperror.ErrShutdown)
		assert.Equal(t, awaitingMove(entity.SecondMover), seen)

		snapshots := publisher.All()
		require.Len(t, snapshots, 1)
		assert.Equal(t, entity.MarkO, snapshots[0].Board[1][1])
		assert.Equal(t, entity.SecondMover, snapshots[0].Turn)
		assert.Equal(t, entity.FirstMover, snapshots[0].LastMover)
		assert.Equal(t, entity.ResultNone, snapshots[0].Board.Evaluate().Kind)
		assert.Empty(t, snapshots[0].TerminalMessage)
	})

	t.Run("First mover completes the top row and wins", func(t *testing.T) {
		// Given: alternating legal moves with O on the top row
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		first := &scriptedPlayer{moves: []entity.Position{pos(0, 0), pos(0, 1), pos(0, 2)}}
		second := &scriptedPlayer{moves: []entity.Position{pos(1, 0), pos(1, 1)}}
		coordinator.Start("s2", Players{First: first, Second: second})

		// When: playing the session
		status, err := coordinator.Play(context.Background())

		// Then: the first mover wins and the terminal snapshot is published
		require.NoError(t, err)
		assert.Equal(t, entity.Won(entity.FirstMover), status)
		assert.Equal(t, finished(entity.Won(entity.FirstMover)), coordinator.State())

		last := publisher.Last()
		assert.Equal(t, entity.Result{Kind: entity.ResultWin, Mark: entity.MarkO}, last.Board.Evaluate())
		assert.Equal(t, "WINNER O", last.TerminalMessage)
		assert.Equal(t, entity.NoPlayer, last.Turn)
		assert.Len(t, publisher.All(), 5)
	})

	t.Run("Full board without a line ends in a draw", func(t *testing.T) {
		// Given: a scripted game that fills the board without a line
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		first := &scriptedPlayer{moves: []entity.Position{pos(0, 0), pos(0, 2), pos(1, 0), pos(2, 1), pos(2, 2)}}
		second := &scriptedPlayer{moves: []entity.Position{pos(0, 1), pos(1, 1), pos(1, 2), pos(2, 0)}}
		coordinator.Start("s3", Players{First: first, Second: second})

		// When: playing the session
		status, err := coordinator.Play(context.Background())

		// Then: it is a draw
		require.NoError(t, err)
		assert.Equal(t, entity.Draw(), status)
		assert.Equal(t, "DRAW", publisher.Last().TerminalMessage)
		assert.Empty(t, publisher.Last().Board.EmptyCells())
	})

	t.Run("Three illegal attempts abort the session", func(t *testing.T) {
		// Given: the second mover keeps choosing the occupied center
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		first := &scriptedPlayer{moves: []entity.Position{pos(1, 1)}}
		second := &scriptedPlayer{moves: []entity.Position{pos(1, 1), pos(1, 1), pos(1, 1)}}
		coordinator.Start("s4", Players{First: first, Second: second})

		// When: playing the session
		status, err := coordinator.Play(context.Background())

		// Then: the session is aborted after the third attempt without touching the board
		require.NoError(t, err)
		assert.Equal(t, entity.Aborted(entity.ReasonInvalidMoveLimit), status)
		assert.Equal(t, 3, second.Calls())
		assert.Equal(t, 1, first.Calls())
		assert.Equal(t, 3, coordinator.InvalidMoveCount())

		var expected entity.Board
		expected[1][1] = entity.MarkO
		last := publisher.Last()
		assert.Equal(t, expected, last.Board)
		assert.Equal(t, "ABORTED: invalid move limit", last.TerminalMessage)
		assert.Len(t, publisher.All(), 2)
	})

	t.Run("Illegal attempts are counted and reset by a legal move", func(t *testing.T) {
		// Given: the second mover misses twice, then plays a legal move
		coordinator := newTestCoordinator(nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var counts []int
		second := &scriptedPlayer{
			moves: []entity.Position{pos(1, 1), pos(5, 5), pos(0, 0)},
			before: func(int) {
				counts = append(counts, coordinator.InvalidMoveCount())
			},
		}
		first := &scriptedPlayer{
			moves: []entity.Position{pos(1, 1)},
			before: func(call int) {
				if call == 1 {
					counts = append(counts, coordinator.InvalidMoveCount())
					cancel()
				}
			},
		}
		coordinator.Start("s5", Players{First: first, Second: second})

		// When: playing until the first mover is asked again
		_, err := coordinator.Play(ctx)

		// Then: the counter went 0, 1, 2 and reset to 0 after the legal move
		require.ErrorIs(t, err, apperror.ErrShutdown)
		assert.Equal(t, []int{0, 1, 2, 0}, counts)
	})

	t.Run("Unparsable automated move aborts immediately", func(t *testing.T) {
		// Given: an automated player returning garbage
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		first := &scriptedPlayer{errs: map[int]error{0: fmt.Errorf("%w: %q", apperror.ErrUnparsableMove, "center please")}}
		second := &scriptedPlayer{}
		coordinator.Start("s6", Players{First: first, Second: second})

		// When: playing the session
		status, err := coordinator.Play(context.Background())

		// Then: the session aborts without counting an invalid move
		require.NoError(t, err)
		assert.Equal(t, entity.Aborted(entity.ReasonUnparsableMove), status)
		assert.Equal(t, 0, coordinator.InvalidMoveCount())
		assert.Equal(t, 1, first.Calls())
		assert.Equal(t, 0, second.Calls())
		assert.Equal(t, "ABORTED: "+entity.ReasonUnparsableMove, publisher.Last().TerminalMessage)
	})

	t.Run("Transport failure aborts the session", func(t *testing.T) {
		coordinator := newTestCoordinator(nil)
		first := &scriptedPlayer{errs: map[int]error{0: errProviderDown}}
		coordinator.Start("s7", Players{First: first, Second: &scriptedPlayer{}})

		status, err := coordinator.Play(context.Background())

		require.NoError(t, err)
		assert.Equal(t, entity.Aborted(entity.ReasonProviderFailure), status)
	})

	t.Run("Move claimed for the wrong player counts as illegal", func(t *testing.T) {
		// Given: a first mover whose adapter reports the other mark
		coordinator := newTestCoordinator(nil)
		wrong := playerFunc(func(context.Context, entity.Board, entity.Cell) (entity.MoveRequest, error) {
			return entity.MoveRequest{Player: entity.SecondMover, Target: pos(0, 0)}, nil
		})
		coordinator.Start("s8", Players{First: wrong, Second: &scriptedPlayer{}})

		// When: playing
		status, err := coordinator.Play(context.Background())

		// Then: it is treated like any illegal move
		require.NoError(t, err)
		assert.Equal(t, entity.Aborted(entity.ReasonInvalidMoveLimit), status)
		assert.True(t, coordinator.Snapshot().Board.IsEmpty())
	})

	t.Run("Play before Start fails", func(t *testing.T) {
		coordinator := newTestCoordinator(nil)

		_, err := coordinator.Play(context.Background())

		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Play twice on one session fails", func(t *testing.T) {
		coordinator := newTestCoordinator(nil)
		coordinator.Start("s9", Players{
			First:  &scriptedPlayer{errs: map[int]error{0: errProviderDown}},
			Second: &scriptedPlayer{},
		})
		_, err := coordinator.Play(context.Background())
		require.NoError(t, err)

		_, err = coordinator.Play(context.Background())

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestCoordinator_HumanPlayer(t *testing.T) {
	t.Run("Human move arrives through the gate", func(t *testing.T) {
		// Given: a human second mover behind a gate
		gate := NewGate()
		publisher := &recordingPublisher{}
		coordinator := newTestCoordinator(publisher)
		first := &scriptedPlayer{moves: []entity.Position{pos(0, 0), pos(0, 1), pos(0, 2)}}
		coordinator.Start("h1", Players{First: first, Second: NewHumanPlayer(gate)})

		clicks := []entity.Position{pos(1, 0), pos(1, 1)}
		go func() {
			for _, click := range clicks {
				for !gate.Submit(click.Row, click.Col) {
					time.Sleep(time.Millisecond)
				}
			}
		}()

		// When: playing the session
		status, err := coordinator.Play(context.Background())

		// Then: both clicks were applied as X and O won
		require.NoError(t, err)
		assert.Equal(t, entity.Won(entity.FirstMover), status)
		last := publisher.Last()
		assert.Equal(t, entity.MarkX, last.Board[1][0])
		assert.Equal(t, entity.MarkX, last.Board[1][1])
	})

	t.Run("Shutdown while waiting for the human unblocks Play", func(t *testing.T) {
		// Given: the logic side is blocked waiting for a click
		gate := NewGate()
		coordinator := newTestCoordinator(nil)
		first := &scriptedPlayer{moves: []entity.Position{pos(1, 1)}}
		coordinator.Start("h2", Players{First: first, Second: NewHumanPlayer(gate)})

		errCh := make(chan error, 1)
		go func() {
			_, err := coordinator.Play(context.Background())
			errCh <- err
		}()

		require.Eventually(t, gate.IsOpen, time.Second, time.Millisecond)

		// When: shutdown is raised
		gate.Shutdown()

		// Then: Play returns promptly without a delivered move
		select {
		case err := <-errCh:
			require.ErrorIs(t, err, apperror.ErrShutdown)
		case <-time.After(time.Second):
			t.Fatal("Play did not return after shutdown")
		}

		snapshot := coordinator.Snapshot()
		assert.Equal(t, entity.MarkO, snapshot.Board[1][1])
		assert.Len(t, snapshot.Board.EmptyCells(), 8)
		assert.True(t, snapshot.Status.IsInProgress())
	})
}

func TestCoordinator_Record(t *testing.T) {
	// Given: a finished session with token usage
	coordinator := newTestCoordinator(nil)
	first := playerFunc(func(_ context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
		cells := board.EmptyCells()
		return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: cells[0], Tokens: 10}, nil
	})
	second := playerFunc(func(_ context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
		cells := board.EmptyCells()
		return entity.MoveRequest{Player: entity.PlayerForMark(mark), Target: cells[len(cells)-1]}, nil
	})
	coordinator.Start("r1", Players{First: first, Second: second})

	status, err := coordinator.Play(context.Background())
	require.NoError(t, err)

	// When: building the record
	record := coordinator.Record("random", entity.SecondMover)

	// Then: it reflects the session
	require.NotNil(t, record)
	assert.Equal(t, "r1", record.ID)
	assert.Equal(t, status, record.Status)
	assert.Equal(t, "random", record.Provider)
	assert.NotEmpty(t, record.Moves)
	assert.Equal(t, entity.FirstMover, record.Moves[0].Player)

	firstMoves := 0
	for _, move := range record.Moves {
		if move.Player == entity.FirstMover {
			firstMoves++
		}
	}
	assert.Equal(t, firstMoves*10, record.Tokens[entity.FirstMover])
}

type playerFunc func(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error)

func (that playerFunc) RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	return that(ctx, board, mark)
}
