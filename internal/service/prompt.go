package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const systemPrompt = `You are an autonomous Tic-Tac-Toe agent.
GENERAL RULES:
1. You play exactly one move per turn.
2. A move must target a cell that currently contains '.' (empty).
3. Choose the strongest legal move for {{SYMBOL}} only.
4. Never choose a filled cell.
5. Never describe reasoning, analysis, or commentary.

OBJECTIVE:
Maximize your chance of winning and minimize opponent advantage.

WIN-MAXIMIZATION STRATEGY (APPLY IN ORDER):
1. Immediate Win: play any move that wins instantly.
2. Block Opponent: if opponent can win next turn, block that move.
3. Center: take (1,1) if empty.
4. Corners: take any available corner.
5. Best Available: choose the most advantageous remaining empty cell.

RULES:
- You must pick exactly one empty cell.
- Never select a filled square.
- No explanations.

OUTPUT FORMAT (STRICT):
Return only:

    row,col

No other text, punctuation, or formatting.
`

const playerTemplate = `make your move.

YOUR SYMBOL: {{SYMBOL}}
BOARD STATE:
{{BOARD}}

OUTPUT FORMAT (STRICT):
Return only:

    row,col

No other text, punctuation, or formatting.
`

var coordPattern = regexp.MustCompile(`(-?\d+)\s*[, ]\s*(-?\d+)`)

func SystemPrompt(mark entity.Cell) string {
	return strings.ReplaceAll(systemPrompt, "{{SYMBOL}}", string(mark))
}

func PlayerPrompt(mark entity.Cell, board entity.Board) string {
	replacer := strings.NewReplacer("{{SYMBOL}}", string(mark), "{{BOARD}}", board.String())
	return replacer.Replace(playerTemplate)
}

// ParseCoord extracts the first "row,col" pair from a model reply. The pair is
// not range checked; the coordinator treats out of range targets as illegal moves.
func ParseCoord(reply string) (entity.Position, error) {
	match := coordPattern.FindStringSubmatch(reply)
	if match == nil {
		return entity.Position{}, fmt.Errorf("%w: %q", apperror.ErrUnparsableMove, reply)
	}

	row, err := parseIndex(match[1])
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: row %q: %w", apperror.ErrUnparsableMove, match[1], err)
	}

	col, err := parseIndex(match[2])
	if err != nil {
		return entity.Position{}, fmt.Errorf("%w: col %q: %w", apperror.ErrUnparsableMove, match[2], err)
	}

	return entity.Position{Row: row, Col: col}, nil
}

// parseIndex maps numbers too large for an int to -1 so they stay illegal moves.
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return -1, nil
	}

	return n, err
}
