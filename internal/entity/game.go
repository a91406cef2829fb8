package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

const BoardSize = 3

type Cell string

const (
	EmptyCell Cell = ""

	MarkO Cell = "O"
	MarkX Cell = "X"
)

// Position addresses a cell by row and column, both in [0, BoardSize).
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

func (that Position) InRange() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// WinLines is checked in order: rows, columns, main diagonal, anti-diagonal.
var WinLines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a value type: assigning or passing it copies every cell.
type Board [BoardSize][BoardSize]Cell

type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultWin
	ResultDraw
)

type Result struct {
	Kind ResultKind
	Mark Cell
}

func (that Board) IsLegal(row, col int) bool {
	if !(Position{Row: row, Col: col}).InRange() {
		return false
	}

	return that[row][col] == EmptyCell
}

// Apply returns a copy of the board with mark placed at (row, col).
func (that Board) Apply(row, col int, mark Cell) (Board, error) {
	if !(Position{Row: row, Col: col}).InRange() {
		return that, fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidCell, row, col)
	}

	if that[row][col] != EmptyCell {
		return that, fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, row, col)
	}

	that[row][col] = mark

	return that, nil
}

func (that Board) Evaluate() Result {
	for _, line := range WinLines {
		a := that[line[0].Row][line[0].Col]
		b := that[line[1].Row][line[1].Col]
		c := that[line[2].Row][line[2].Col]
		if a != EmptyCell && a == b && b == c {
			return Result{Kind: ResultWin, Mark: a}
		}
	}

	// the game will continue until all the squares are full
	if len(that.EmptyCells()) > 0 {
		return Result{Kind: ResultNone}
	}

	return Result{Kind: ResultDraw}
}

func (that Board) EmptyCells() []Position {
	cells := make([]Position, 0, BoardSize*BoardSize)
	for row := range that {
		for col := range that[row] {
			if that[row][col] == EmptyCell {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}

	return cells
}

// String renders the board one row per line with '.' for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for row := range that {
		for col := range that[row] {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if that[row][col] == EmptyCell {
				sb.WriteByte('.')
			} else {
				sb.WriteString(string(that[row][col]))
			}
		}
		if row < BoardSize-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func (that Board) IsEmpty() bool {
	return len(that.EmptyCells()) == BoardSize*BoardSize
}
