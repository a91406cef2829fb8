package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type StateKind int

const (
	StateAwaitingFirstMove StateKind = iota
	StateAwaitingMove
	StateValidating
	StateFinished
)

func (that StateKind) String() string {
	switch that {
	case StateAwaitingFirstMove:
		return "awaiting_first_move"
	case StateAwaitingMove:
		return "awaiting_move"
	case StateValidating:
		return "validating"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(that))
	}
}

// State is the coordinator's position in the turn cycle. Player is set for
// AwaitingMove and Validating, Target for Validating, Status for Finished.
type State struct {
	Kind   StateKind
	Player entity.PlayerID
	Target entity.Position
	Status entity.Status
}

func awaitingMove(player entity.PlayerID) State {
	return State{Kind: StateAwaitingMove, Player: player}
}

func validating(player entity.PlayerID, target entity.Position) State {
	return State{Kind: StateValidating, Player: player, Target: target}
}

func finished(status entity.Status) State {
	return State{Kind: StateFinished, Status: status}
}
