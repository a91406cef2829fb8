package ui

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	statusThinking = "AI thinking..."
	statusWaiting  = "Press restart to play again"
)

// View is everything a renderer needs for one frame. It is a copy and never
// shared with the logic side.
type View struct {
	Version      uint64          `json:"version"`
	Snapshot     entity.Snapshot `json:"snapshot"`
	Score        entity.Score    `json:"score"`
	HumanRole    entity.PlayerID `json:"human_role"`
	InputEnabled bool            `json:"input_enabled"`
	Provider     string          `json:"provider"`
	StatusLine   string          `json:"status_line"`
	Closed       bool            `json:"closed"`
}

func statusLine(snapshot entity.Snapshot, human entity.PlayerID, inputEnabled bool) string {
	if snapshot.Status.IsFinished() {
		return snapshot.TerminalMessage
	}

	if !inputEnabled {
		return statusWaiting
	}

	turn := snapshot.Turn
	if turn == entity.NoPlayer {
		turn = entity.FirstMover
	}

	if turn == human {
		return fmt.Sprintf("Your turn (%s) - Click a cell", human.Mark())
	}

	return statusThinking
}
