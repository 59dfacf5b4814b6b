package engine

import "github.com/zyedidia/generic/mapset"

// CanReachGoal reports whether player can walk from their current cell to
// any cell of their goal row without crossing a part of lattice. Other
// players never block the path.
func (g *Game) CanReachGoal(player int, lattice Lattice) bool {
	g.mustPlayer(player)

	start := g.positions[player]
	if g.isGoal(player, start) {
		return true
	}

	stack := []Coordinate{start}
	visited := mapset.New[Coordinate]()
	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(pos) {
			continue
		}
		visited.Put(pos)

		for _, n := range neighbors(pos, lattice) {
			if g.isGoal(player, n) {
				return true
			}
			if !visited.Has(n) {
				stack = append(stack, n)
			}
		}
	}
	return false
}
