package engine

import "fmt"

// WallParts returns the three fine points covered by a wall anchored at cell.
func WallParts(cell Coordinate, o Orientation) [3]Coordinate {
	primary, secondary := o.axes()
	base := cell.Fine().Add(secondary)

	var parts [3]Coordinate
	for n := range parts {
		parts[n] = base.Add(primary.Mul(n))
	}
	return parts
}

// ValidWallAnchor reports whether a wall anchored at cell fits on the board
// in either orientation.
func ValidWallAnchor(cell Coordinate) bool {
	return cell.InGrid() && cell.Row < BoardSize-1 && cell.Col < BoardSize-1
}

// AttemptPlaceWall places one of the current player's walls and passes the
// turn. A Rejection is returned, and nothing changes, when the wall is
// illegal. It panics on an invalid anchor or orientation.
func (g *Game) AttemptPlaceWall(cell Coordinate, o Orientation) error {
	err := g.CheckWall(cell, o)
	g.record(ActionWall, cell, o, err)
	if err != nil {
		return err
	}

	parts := WallParts(cell, o)
	g.lattice.add(parts[:]...)
	g.walls = append(g.walls, PlacedWall{Cell: cell, Orientation: o, Player: g.current})
	g.wallCounts[g.current]--
	g.advanceTurn()
	return nil
}

// CheckWall reports whether the current player may place a wall, without
// changing the game. The connectivity check runs on a copy of the lattice.
func (g *Game) CheckWall(cell Coordinate, o Orientation) error {
	if !o.Valid() {
		panic(fmt.Sprintf("engine: invalid wall orientation %q", o))
	}
	if !ValidWallAnchor(cell) {
		panic(fmt.Sprintf("engine: wall anchor %v does not fit on the board", cell))
	}

	if g.wallCounts[g.current] == 0 {
		return RejectNoWallLeft
	}

	parts := WallParts(cell, o)
	for _, p := range parts {
		if g.lattice.Has(p) {
			return RejectWallOverlap
		}
	}

	candidate := g.lattice.Union(parts[:]...)
	for p := range g.positions {
		if !g.CanReachGoal(p, candidate) {
			if p == g.current {
				return RejectBlockSelf
			}
			return RejectBlockOther
		}
	}
	return nil
}
