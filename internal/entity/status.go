package entity

import "fmt"

type StatusKind string

const (
	StatusInProgress StatusKind = "in_progress"
	StatusWon        StatusKind = "won"
	StatusDraw       StatusKind = "draw"
	StatusAborted    StatusKind = "aborted"
)

const (
	ReasonInvalidMoveLimit = "invalid move limit"
	ReasonUnparsableMove   = "automated player produced an unparsable move"
	ReasonProviderFailure  = "automated player request failed"
)

type Status struct {
	Kind   StatusKind `json:"kind"`
	Winner PlayerID   `json:"winner,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

func InProgress() Status {
	return Status{Kind: StatusInProgress}
}

func Won(player PlayerID) Status {
	return Status{Kind: StatusWon, Winner: player}
}

func Draw() Status {
	return Status{Kind: StatusDraw}
}

func Aborted(reason string) Status {
	return Status{Kind: StatusAborted, Reason: reason}
}

func (that Status) IsFinished() bool {
	return that.Kind != StatusInProgress && that.Kind != ""
}

func (that Status) IsInProgress() bool {
	return that.Kind == StatusInProgress
}

func (that Status) IsWon() bool {
	return that.Kind == StatusWon
}

func (that Status) IsDraw() bool {
	return that.Kind == StatusDraw
}

func (that Status) IsAborted() bool {
	return that.Kind == StatusAborted
}

func (that Status) String() string {
	switch that.Kind {
	case StatusInProgress:
		return "in progress"
	case StatusWon:
		return fmt.Sprintf("won by %s mover (%s)", that.Winner, that.Winner.Mark())
	case StatusDraw:
		return "draw"
	case StatusAborted:
		return "aborted: " + that.Reason
	default:
		return string(that.Kind)
	}
}

type Outcome string

const (
	OutcomeAutomatedWin Outcome = "automated_win"
	OutcomeHumanWin     Outcome = "human_win"
	OutcomeDraw         Outcome = "draw"
)

// OutcomeFor maps a finished status to a score outcome. Aborted sessions score nothing.
func OutcomeFor(status Status, human PlayerID) (Outcome, bool) {
	switch {
	case status.IsWon() && status.Winner == human:
		return OutcomeHumanWin, true
	case status.IsWon():
		return OutcomeAutomatedWin, true
	case status.IsDraw():
		return OutcomeDraw, true
	default:
		return "", false
	}
}

type Score struct {
	AutomatedWins int `json:"automated_wins"`
	HumanWins     int `json:"human_wins"`
	Draws         int `json:"draws"`
}

func (that *Score) Add(outcome Outcome) {
	switch outcome {
	case OutcomeAutomatedWin:
		that.AutomatedWins++
	case OutcomeHumanWin:
		that.HumanWins++
	case OutcomeDraw:
		that.Draws++
	}
}
