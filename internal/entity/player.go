package entity

import "fmt"

type PlayerID string

const (
	NoPlayer PlayerID = ""

	FirstMover  PlayerID = "first"
	SecondMover PlayerID = "second"
)

func (that PlayerID) Mark() Cell {
	switch that {
	case FirstMover:
		return MarkO
	case SecondMover:
		return MarkX
	default:
		return EmptyCell
	}
}

func (that PlayerID) Other() PlayerID {
	if that == FirstMover {
		return SecondMover
	}
	return FirstMover
}

func (that PlayerID) Valid() bool {
	return that == FirstMover || that == SecondMover
}

func ParsePlayerID(value string) (PlayerID, error) {
	switch PlayerID(value) {
	case FirstMover, SecondMover:
		return PlayerID(value), nil
	default:
		return NoPlayer, fmt.Errorf("unknown player role %q", value)
	}
}

func PlayerForMark(mark Cell) PlayerID {
	switch mark {
	case MarkO:
		return FirstMover
	case MarkX:
		return SecondMover
	default:
		return NoPlayer
	}
}

// MoveRequest is a candidate move for player; Tokens carries provider usage when known.
type MoveRequest struct {
	Player PlayerID `json:"player"`
	Target Position `json:"target"`
	Tokens int      `json:"tokens,omitempty"`
}
