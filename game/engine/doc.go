// Package engine provides the rules engine for the wall-and-jump board game.
//
// The engine package implements the game mechanics including:
//   - The 9x9 cell grid and the doubled-resolution "fine" grid where walls live
//   - Move legality, including straight and diagonal jumps over an opponent
//   - Wall placement legality: overlap checks and the connectivity invariant
//   - Turn progression and win detection
//   - Rule-set configuration loading and validation
//
// Core Types:
//
// Game owns player positions, remaining wall counts, the committed wall
// lattice and the current turn. Coordinate addresses both cells and fine
// points. Lattice is the append-only set of wall parts. Rejection is the
// closed set of rule violations an action can be refused with.
//
// Usage:
//
//	game := engine.NewGame(2)
//
//	if err := game.AttemptMove(engine.Coordinate{Row: 7, Col: 4}); err != nil {
//		var rejection engine.Rejection
//		if errors.As(err, &rejection) {
//			fmt.Println(rejection.Code(), rejection)
//		}
//	}
//
//	err := game.AttemptPlaceWall(engine.Coordinate{Row: 3, Col: 3}, engine.Horizontal)
//
// Game Rules:
//
// Player 0 starts at (8,4) and must reach row 0; player 1 starts at (0,4)
// and must reach row 8. On each turn the current player either moves or
// places one of their walls. A wall is rejected when it overlaps a committed
// wall or when it would leave any player without a path to their goal row.
//
// Every rule violation is returned as a Rejection and leaves the game
// untouched. Passing a coordinate outside the board, an invalid wall anchor,
// an unknown orientation or an unknown player index is a caller bug and
// panics.
//
// A Game is not safe for concurrent use.
package engine
