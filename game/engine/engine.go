package engine

import (
	"fmt"
	"time"
)

// Start cells and goal rows, indexed by player.
var (
	playerStarts = [MaxPlayers]Coordinate{{Row: 8, Col: 4}, {Row: 0, Col: 4}}
	goalRows     = [MaxPlayers]int{0, BoardSize - 1}
)

// Game holds the state of a single game and enforces its rules.
type Game struct {
	positions  []Coordinate
	wallCounts []int
	lattice    Lattice
	walls      []PlacedWall
	current    int
	history    []ActionRecord
}

// NewGame creates a game for playerCount players using the default wall
// budget. It panics if playerCount is not between 1 and MaxPlayers.
func NewGame(playerCount int) *Game {
	if playerCount < 1 || playerCount > MaxPlayers {
		panic(fmt.Sprintf("engine: unsupported player count %d", playerCount))
	}
	return newGame(playerCount, DefaultTotalWalls/playerCount)
}

// NewGameWithConfig creates a game from a validated rule set.
func NewGameWithConfig(config *GameConfig) (*Game, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return newGame(config.PlayerCount, config.WallsPerPlayer()), nil
}

func newGame(playerCount, wallsPerPlayer int) *Game {
	g := &Game{
		positions:  make([]Coordinate, playerCount),
		wallCounts: make([]int, playerCount),
		lattice:    NewLattice(),
		walls:      []PlacedWall{},
		history:    []ActionRecord{},
	}
	for i := range playerCount {
		g.positions[i] = playerStarts[i]
		g.wallCounts[i] = wallsPerPlayer
	}
	return g
}

// PlayerCount returns the number of players.
func (g *Game) PlayerCount() int {
	return len(g.positions)
}

// CurrentPlayer returns the index of the player whose turn it is.
func (g *Game) CurrentPlayer() int {
	return g.current
}

// Position returns the cell a player stands on.
func (g *Game) Position(player int) Coordinate {
	g.mustPlayer(player)
	return g.positions[player]
}

// RemainingWalls returns how many walls a player may still place.
func (g *Game) RemainingWalls(player int) int {
	g.mustPlayer(player)
	return g.wallCounts[player]
}

// GoalRow returns the row a player must reach.
func (g *Game) GoalRow(player int) int {
	g.mustPlayer(player)
	return goalRows[player]
}

// Lattice returns the committed wall lattice. Callers must treat it as read-only.
func (g *Game) Lattice() Lattice {
	return g.lattice
}

// Walls returns the committed walls in placement order.
func (g *Game) Walls() []PlacedWall {
	return append([]PlacedWall(nil), g.walls...)
}

// History returns every attempted action, accepted or not.
func (g *Game) History() []ActionRecord {
	return append([]ActionRecord(nil), g.history...)
}

// HasWon reports whether a player stands on their goal row.
func (g *Game) HasWon(player int) bool {
	g.mustPlayer(player)
	return g.isGoal(player, g.positions[player])
}

// Winner returns the index of the player who has won, or NoWinner.
func (g *Game) Winner() int {
	for p := range g.positions {
		if g.HasWon(p) {
			return p
		}
	}
	return NoWinner
}

// Snapshot returns a copy of the game state suitable for serialisation.
func (g *Game) Snapshot() *Snapshot {
	goals := make([]int, len(g.positions))
	for p := range g.positions {
		goals[p] = goalRows[p]
	}
	return &Snapshot{
		PlayerCount:    len(g.positions),
		Positions:      append([]Coordinate(nil), g.positions...),
		GoalRows:       goals,
		RemainingWalls: append([]int(nil), g.wallCounts...),
		Walls:          g.Walls(),
		WallParts:      g.lattice.Parts(),
		CurrentPlayer:  g.current,
		Winner:         g.Winner(),
		TotalActions:   len(g.history),
	}
}

// advanceTurn passes the turn to the next player unless the player who just
// acted has won, in which case the turn index stays on the winner.
func (g *Game) advanceTurn() {
	if g.HasWon(g.current) {
		return
	}
	g.current = (g.current + 1) % len(g.positions)
}

func (g *Game) isGoal(player int, pos Coordinate) bool {
	return pos.Row == goalRows[player]
}

// opponents returns the positions of every player but the current one.
func (g *Game) opponents() []Coordinate {
	result := make([]Coordinate, 0, len(g.positions)-1)
	for p, pos := range g.positions {
		if p != g.current {
			result = append(result, pos)
		}
	}
	return result
}

func (g *Game) mustPlayer(player int) {
	if player < 0 || player >= len(g.positions) {
		panic(fmt.Sprintf("engine: player index %d out of range", player))
	}
}

// record appends an attempt to the history.
func (g *Game) record(kind ActionKind, target Coordinate, orientation Orientation, err error) {
	entry := ActionRecord{
		Number:      len(g.history) + 1,
		Player:      g.current,
		Kind:        kind,
		From:        g.positions[g.current],
		Target:      target,
		Orientation: orientation,
		Accepted:    err == nil,
		Timestamp:   time.Now().Unix(),
	}
	if r, ok := err.(Rejection); ok {
		entry.Rejection = r.Code()
	}
	g.history = append(g.history, entry)
}
