package entity

import "time"

// Snapshot is an immutable copy of a session handed to the UI side.
type Snapshot struct {
	SessionID       string   `json:"session_id"`
	Board           Board    `json:"board"`
	Turn            PlayerID `json:"turn,omitempty"`
	LastMover       PlayerID `json:"last_mover,omitempty"`
	Status          Status   `json:"status"`
	TerminalMessage string   `json:"terminal_message,omitempty"`
}

// GameRecord is what gets stored once a session is finished.
type GameRecord struct {
	ID         string           `json:"id"`
	Provider   string           `json:"provider,omitempty"`
	HumanRole  PlayerID         `json:"human_role,omitempty"`
	Board      Board            `json:"board"`
	Moves      []MoveRequest    `json:"moves"`
	Status     Status           `json:"status"`
	Tokens     map[PlayerID]int `json:"tokens,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}
