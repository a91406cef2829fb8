package tictactoe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const DefaultInvalidMoveLimit = 3

// Player supplies moves for one side. Implementations may block for a long time;
// they must return once ctx is done.
type Player interface {
	RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error)
}

// Publisher receives a snapshot after every accepted move and on termination.
type Publisher interface {
	PublishBoardSnapshot(snapshot entity.Snapshot)
}

type Players struct {
	First  Player
	Second Player
}

func (that Players) get(id entity.PlayerID) Player {
	if id == entity.FirstMover {
		return that.First
	}
	return that.Second
}

// Coordinator runs the turn state machine for one session at a time.
//
// The session is only touched while holding mu. Players are called without the
// lock, so the UI side can keep reading state while a move is pending.
type Coordinator struct {
	logger           *slog.Logger
	publisher        Publisher
	invalidMoveLimit int
	now              func() time.Time

	mu      sync.RWMutex
	session *GameSession
	players Players
	state   State
}

func NewCoordinator(logger *slog.Logger, publisher Publisher, invalidMoveLimit int) *Coordinator {
	if invalidMoveLimit <= 0 {
		invalidMoveLimit = DefaultInvalidMoveLimit
	}

	return &Coordinator{
		logger:           logger.With("component", "coordinator"),
		publisher:        publisher,
		invalidMoveLimit: invalidMoveLimit,
		now:              time.Now,
		state:            State{Kind: StateAwaitingFirstMove},
	}
}

// Start replaces the current session with a fresh one.
func (that *Coordinator) Start(sessionID string, players Players) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session = NewGameSession(sessionID, that.now())
	that.players = players
	that.state = State{Kind: StateAwaitingFirstMove}
}

// Play drives the session started by Start until it is finished. The returned
// error is non-nil only when ctx is done or the human gate was shut down.
func (that *Coordinator) Play(ctx context.Context) (entity.Status, error) {
	that.mu.Lock()
	if that.session == nil {
		that.mu.Unlock()
		return entity.Status{}, apperror.ErrGameIsNotStarted
	}

	if that.state.Kind != StateAwaitingFirstMove {
		that.mu.Unlock()
		return entity.Status{}, apperror.ErrGameFinished
	}

	sessionID := that.session.ID
	that.setState(awaitingMove(entity.FirstMover))
	that.mu.Unlock()

	log := that.logger.With("method", "Play", "sessionID", sessionID)
	log.Info("session started")

	for {
		state, board := that.pending()
		if state.Kind == StateFinished {
			log.Info("session finished", "status", state.Status.String())
			return state.Status, nil
		}

		player := that.players.get(state.Player)
		request, err := player.RequestMove(ctx, board, state.Player.Mark())
		if err != nil {
			if errors.Is(err, apperror.ErrShutdown) {
				return entity.Status{}, fmt.Errorf("session %s interrupted: %w", sessionID, err)
			}

			if ctx.Err() != nil {
				return entity.Status{}, fmt.Errorf("session %s interrupted: %w: %w", sessionID, apperror.ErrShutdown, ctx.Err())
			}

			that.fail(state.Player, err)
			continue
		}

		that.handleMove(state.Player, request)
	}
}

func (that *Coordinator) State() State {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.state
}

func (that *Coordinator) Snapshot() entity.Snapshot {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.session == nil {
		return entity.Snapshot{Status: entity.InProgress()}
	}

	return that.session.Snapshot()
}

func (that *Coordinator) InvalidMoveCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.session == nil {
		return 0
	}

	return that.session.InvalidMoveCount
}

func (that *Coordinator) Record(provider string, human entity.PlayerID) *entity.GameRecord {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.session == nil {
		return nil
	}

	return that.session.Record(provider, human, that.now())
}

// pending returns the current state and a copy of the board to hand to a player.
func (that *Coordinator) pending() (State, entity.Board) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.state, that.session.Board
}

// handleMove validates and applies request in one critical section.
func (that *Coordinator) handleMove(player entity.PlayerID, request entity.MoveRequest) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := that.session
	target := request.Target
	log := that.logger.With("method", "handleMove", "sessionID", session.ID, "player", player, "target", target.String())

	that.setState(validating(player, target))

	legal := request.Player == player && session.Board.IsLegal(target.Row, target.Col)
	if !legal {
		session.InvalidMoveCount++
		log.Warn("invalid move", "attempt", session.InvalidMoveCount, "limit", that.invalidMoveLimit)

		if session.InvalidMoveCount >= that.invalidMoveLimit {
			that.finish(entity.Aborted(entity.ReasonInvalidMoveLimit))
			return
		}

		that.setState(awaitingMove(player))
		return
	}

	board, err := session.Board.Apply(target.Row, target.Col, player.Mark())
	if err != nil {
		// IsLegal passed, so this only fires on a corrupted board
		log.Error("failed to apply move", "error", err)
		that.finish(entity.Aborted(err.Error()))
		return
	}

	session.Board = board
	session.InvalidMoveCount = 0
	session.LastMover = player
	session.Moves = append(session.Moves, entity.MoveRequest{Player: player, Target: target, Tokens: request.Tokens})
	session.Tokens[player] += request.Tokens

	log.Info("move accepted")

	switch result := board.Evaluate(); result.Kind {
	case entity.ResultWin:
		that.finish(entity.Won(entity.PlayerForMark(result.Mark)))
	case entity.ResultDraw:
		that.finish(entity.Draw())
	default:
		that.setState(awaitingMove(player.Other()))
		that.publish(session.Snapshot())
	}
}

// fail aborts the session after an automated player error.
func (that *Coordinator) fail(player entity.PlayerID, err error) {
	reason := entity.ReasonProviderFailure
	if errors.Is(err, apperror.ErrUnparsableMove) {
		reason = entity.ReasonUnparsableMove
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.logger.Error("player failed to move", "sessionID", that.session.ID, "player", player, "error", err)
	that.finish(entity.Aborted(reason))
}

// finish publishes the terminal snapshot, then exposes the Finished state. Must hold mu.
func (that *Coordinator) finish(status entity.Status) {
	that.session.Status = status
	that.session.TurnOwner = entity.NoPlayer
	that.publish(that.session.Snapshot())
	that.setState(finished(status))
}

// setState must be called with mu held.
func (that *Coordinator) setState(state State) {
	if state.Kind == StateAwaitingMove {
		that.session.TurnOwner = state.Player
	}

	that.logger.Debug("state transition", "from", that.state.Kind.String(), "to", state.Kind.String(), "player", state.Player)
	that.state = state
}

func (that *Coordinator) publish(snapshot entity.Snapshot) {
	if that.publisher != nil {
		that.publisher.PublishBoardSnapshot(snapshot)
	}
}
