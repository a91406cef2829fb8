package tictactoe

import (
	"maps"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// GameSession is the mutable record of one game. Only the Coordinator mutates it.
type GameSession struct {
	ID               string
	Board            entity.Board
	TurnOwner        entity.PlayerID
	Status           entity.Status
	InvalidMoveCount int

	LastMover entity.PlayerID
	Moves     []entity.MoveRequest
	Tokens    map[entity.PlayerID]int
	StartedAt time.Time
}

func NewGameSession(id string, now time.Time) *GameSession {
	return &GameSession{
		ID:        id,
		TurnOwner: entity.NoPlayer,
		Status:    entity.InProgress(),
		Tokens:    make(map[entity.PlayerID]int, 2),
		StartedAt: now,
	}
}

// Snapshot returns a deep copy safe to hand to the UI side.
func (that *GameSession) Snapshot() entity.Snapshot {
	snapshot := entity.Snapshot{
		SessionID: that.ID,
		Board:     that.Board,
		Turn:      that.TurnOwner,
		LastMover: that.LastMover,
		Status:    that.Status,
	}

	if that.Status.IsFinished() {
		snapshot.TerminalMessage = terminalMessage(that.Status)
	}

	return snapshot
}

func (that *GameSession) Record(provider string, human entity.PlayerID, finishedAt time.Time) *entity.GameRecord {
	return &entity.GameRecord{
		ID:         that.ID,
		Provider:   provider,
		HumanRole:  human,
		Board:      that.Board,
		Moves:      slices.Clone(that.Moves),
		Status:     that.Status,
		Tokens:     maps.Clone(that.Tokens),
		StartedAt:  that.StartedAt,
		FinishedAt: finishedAt,
	}
}

func terminalMessage(status entity.Status) string {
	switch status.Kind {
	case entity.StatusWon:
		return "WINNER " + string(status.Winner.Mark())
	case entity.StatusDraw:
		return "DRAW"
	case entity.StatusAborted:
		return "ABORTED: " + status.Reason
	default:
		return ""
	}
}
