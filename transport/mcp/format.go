package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

var instructions = `Quoridor - Complete Instructions

GAME OBJECTIVE:
Be the first to bring your pawn to the far side of the board.
Player 1 starts at row 8, column 4 and wins on reaching row 0.
Player 2 starts at row 0, column 4 and wins on reaching row 8.

BOARD:
9x9 cells addressed as (row, col), both 0-based. Row 0 is the top.
In the board drawing, "1" and "2" are the pawns, "|" is a vertical wall
segment, "-" a horizontal wall segment and "+" the middle of a wall.

TURNS:
Players alternate. On your turn either move your pawn or place a wall.
A refused action does not use up your turn.

MOVING:
• Step one cell up, down, left or right unless a wall is in the way.
• Straight jump: when the opponent is next to you with no wall between,
  jump over them to the cell right behind, provided no wall is behind them.
• Diagonal jump: when the straight jump is blocked by a wall or the board
  edge behind the opponent, move to a cell beside the opponent instead,
  provided no wall separates the opponent from that cell.
• Use legal_moves to see every destination you may choose.

WALLS:
• Each wall is two cells long and blocks movement between the cells it runs along.
• The anchor is the top-left cell a wall touches, row and column 0-7.
• A horizontal wall runs along the anchor's bottom edge, over the anchor and
  the cell to its right.
• A vertical wall runs along the anchor's right edge, beside the anchor and
  the cell below it.
• Walls cannot overlap or cross each other.
• A wall may never cut a player off from their goal row completely.
• Each player has a limited stock of walls (10 in the classic rules).

REFUSAL CODES:
` + refusalCodes() + `

AFTER THE GAME:
Once a player has won, further actions are refused until new_game is called.

Good luck!`

// refusalCodes lists every rejection code with its default message.
func refusalCodes() string {
	var b strings.Builder
	for i, r := range engine.Rejections() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• %s: %s", r.Code(), r.Error())
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.State))
}

func formatGameState(state *engine.Snapshot) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	for p, pos := range state.Positions {
		fmt.Fprintf(&result, "Player %d: %v, goal row %d, walls left %d\n",
			p+1, pos, goalRow(state, p), remainingWalls(state, p))
	}
	fmt.Fprintf(&result, "Actions: %d\n", state.TotalActions)

	if state.GameOver() {
		fmt.Fprintf(&result, "🏆 Player %d has won! Use new_game to play again.\n", state.Winner+1)
	} else {
		fmt.Fprintf(&result, "Turn: player %d\n", state.CurrentPlayer+1)
	}

	result.WriteString("\n")
	result.WriteString(renderBoard(state))
	return result.String()
}

func goalRow(state *engine.Snapshot, p int) int {
	if p < len(state.GoalRows) {
		return state.GoalRows[p]
	}
	return -1
}

func remainingWalls(state *engine.Snapshot, p int) int {
	if p < len(state.RemainingWalls) {
		return state.RemainingWalls[p]
	}
	return 0
}

// renderBoard draws the board on the fine grid: cells on even/even points,
// wall slots everywhere else.
func renderBoard(state *engine.Snapshot) string {
	parts := make(map[engine.Coordinate]bool, len(state.WallParts))
	for _, part := range state.WallParts {
		parts[part] = true
	}
	pawns := make(map[engine.Coordinate]int, len(state.Positions))
	for p, pos := range state.Positions {
		pawns[pos.Fine()] = p + 1
	}

	var b strings.Builder
	b.WriteString("  ")
	for col := 0; col < engine.BoardSize; col++ {
		fmt.Fprintf(&b, "%d ", col)
	}
	b.WriteString("\n")

	for fr := 0; fr < engine.FineSize; fr++ {
		if fr%2 == 0 {
			fmt.Fprintf(&b, "%d ", fr/2)
		} else {
			b.WriteString("  ")
		}
		for fc := 0; fc < engine.FineSize; fc++ {
			point := engine.Coordinate{Row: fr, Col: fc}
			switch {
			case fr%2 == 0 && fc%2 == 0:
				if p, ok := pawns[point]; ok {
					fmt.Fprintf(&b, "%d", p)
				} else {
					b.WriteString(".")
				}
			case !parts[point]:
				b.WriteString(" ")
			case fr%2 == 1 && fc%2 == 1:
				b.WriteString("+")
			case fr%2 == 1:
				b.WriteString("-")
			default:
				b.WriteString("|")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatActionResult(kind string, result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s accepted: %s\n", kind, result.Message)
	} else {
		code := ""
		if result.Rejection != nil {
			code = " [" + result.Rejection.Code + "]"
		}
		fmt.Fprintf(&b, "✗ %s refused%s: %s\n", kind, code, result.Message)
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.State))
	return b.String()
}

func formatLegalMoves(moves []engine.Coordinate) string {
	if len(moves) == 0 {
		return "No legal moves (the game may be over)"
	}
	cells := make([]string, len(moves))
	for i, m := range moves {
		cells[i] = m.String()
	}
	return fmt.Sprintf("Legal moves (%d): %s", len(moves), strings.Join(cells, " "))
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Action History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, action := range history.Actions {
		status := "✓"
		if !action.Accepted {
			status = "✗ " + action.Rejection
		}
		target := action.Target.String()
		if action.Kind == engine.ActionWall {
			target += " " + string(action.Orientation)
		}
		result += fmt.Sprintf("%d. Player %d %s %s %s\n",
			action.Number, action.Player+1, action.Kind, target, status)
	}

	return result
}
