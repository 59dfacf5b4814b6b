package engine

import "fmt"

// AttemptMove moves the current player to dest and passes the turn. A
// Rejection is returned, and nothing changes, when the move is illegal.
// It panics if dest is not on the board.
func (g *Game) AttemptMove(dest Coordinate) error {
	err := g.CheckMove(dest)
	g.record(ActionMove, dest, "", err)
	if err != nil {
		return err
	}

	g.positions[g.current] = dest
	g.advanceTurn()
	return nil
}

// CheckMove reports whether the current player may move to dest, without
// changing the game. It panics if dest is not on the board.
func (g *Game) CheckMove(dest Coordinate) error {
	if !dest.InGrid() {
		panic(fmt.Sprintf("engine: move destination %v is off the board", dest))
	}
	from := g.positions[g.current]

	switch distance := from.Manhattan(dest); {
	case distance == 0:
		return RejectNoAction
	case distance > 2:
		return RejectTooFar
	case distance == 1:
		if g.lattice.Blocks(from, dest) {
			return RejectThroughWall
		}
		return nil
	}

	diff := dest.Sub(from)
	if diff.Row == 0 || diff.Col == 0 {
		return g.checkStraightJump(from, dest, diff)
	}
	return g.checkDiagonalJump(from, dest)
}

// LegalMoves returns every cell the current player may move to, in row
// then column order.
func (g *Game) LegalMoves() []Coordinate {
	from := g.positions[g.current]
	var moves []Coordinate
	for row := from.Row - 2; row <= from.Row+2; row++ {
		for col := from.Col - 2; col <= from.Col+2; col++ {
			dest := Coordinate{Row: row, Col: col}
			if dest.InGrid() && g.CheckMove(dest) == nil {
				moves = append(moves, dest)
			}
		}
	}
	return moves
}

// checkStraightJump validates a two-step move along a row or column: an
// opponent must stand on the cell in between with no wall on either side.
func (g *Game) checkStraightJump(from, dest, diff Coordinate) error {
	enemy := from.Add(diff.Div(2))
	if !g.occupiedByOpponent(enemy) {
		return RejectJumpNoOpponent
	}
	if g.lattice.Blocks(from, enemy) {
		return RejectJumpWallBetween
	}
	if g.lattice.Blocks(enemy, dest) {
		return RejectJumpWallBehind
	}
	return nil
}

// checkDiagonalJump validates a move to a diagonal neighbour. It is only
// allowed beside an adjacent opponent whose straight jump is impossible.
// Candidates are filtered condition by condition; the first condition that
// leaves none names the rejection.
func (g *Game) checkDiagonalJump(from, dest Coordinate) error {
	enemies := filter(g.opponents(), func(e Coordinate) bool {
		return from.Manhattan(e) == 1
	})
	if len(enemies) == 0 {
		return RejectJumpNoOpponent
	}

	enemies = filter(enemies, func(e Coordinate) bool {
		return e.Manhattan(dest) == 1
	})
	if len(enemies) == 0 {
		return RejectJumpNoOpponent
	}

	enemies = filter(enemies, func(e Coordinate) bool {
		return !g.lattice.Blocks(from, e)
	})
	if len(enemies) == 0 {
		return RejectJumpWallBetween
	}

	enemies = filter(enemies, func(e Coordinate) bool {
		behind := e.Add(e.Sub(from))
		return !behind.InGrid() || g.lattice.Blocks(e, behind)
	})
	if len(enemies) == 0 {
		return RejectJumpNoWallBehind
	}

	enemies = filter(enemies, func(e Coordinate) bool {
		return !g.lattice.Blocks(e, dest)
	})
	if len(enemies) == 0 {
		return RejectJumpWallToDestination
	}
	return nil
}

func (g *Game) occupiedByOpponent(pos Coordinate) bool {
	for _, e := range g.opponents() {
		if e == pos {
			return true
		}
	}
	return false
}

func filter(cells []Coordinate, keep func(Coordinate) bool) []Coordinate {
	var result []Coordinate
	for _, c := range cells {
		if keep(c) {
			result = append(result, c)
		}
	}
	return result
}
