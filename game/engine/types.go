package engine

import "strings"

const (
	// BoardSize is the number of cells on each side of the board.
	BoardSize = 9
	// FineSize is the number of fine points on each side of the board.
	FineSize = 2*BoardSize - 1

	// Rule-set limits
	DefaultPlayerCount = 2
	MaxPlayers         = 2
	DefaultTotalWalls  = 20
	MaxTotalWalls      = 40

	// NoWinner is reported by Winner and Snapshot while nobody has won.
	NoWinner = -1
)

// Coordinate is a (row, col) pair in either cell space or fine space.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Orientation is the direction a wall runs along.
type Orientation string

const (
	// Horizontal walls run along a row gap and block vertical movement.
	Horizontal Orientation = "horizontal"
	// Vertical walls run along a column gap and block horizontal movement.
	Vertical Orientation = "vertical"
)

// ParseOrientation accepts "horizontal", "vertical" and their one-letter forms.
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "horizontal":
		return Horizontal, true
	case "v", "vertical":
		return Vertical, true
	}
	return "", false
}

// Valid reports whether o is one of the two known orientations.
func (o Orientation) Valid() bool {
	return o == Horizontal || o == Vertical
}

// axes returns the step between consecutive parts and the offset of the
// first part from the anchor's fine coordinate.
func (o Orientation) axes() (primary, secondary Coordinate) {
	if o == Vertical {
		return Coordinate{Row: 1}, Coordinate{Col: 1}
	}
	return Coordinate{Col: 1}, Coordinate{Row: 1}
}

// PlacedWall is a committed wall together with the player who placed it.
type PlacedWall struct {
	Cell        Coordinate  `json:"cell"`
	Orientation Orientation `json:"orientation"`
	Player      int         `json:"player"`
}

// ActionKind distinguishes the two kinds of turn.
type ActionKind string

const (
	ActionMove ActionKind = "move"
	ActionWall ActionKind = "wall"
)

// ActionRecord represents a single attempted action in the game history
type ActionRecord struct {
	Number      int         `json:"number"`
	Player      int         `json:"player"`
	Kind        ActionKind  `json:"kind"`
	From        Coordinate  `json:"from"`
	Target      Coordinate  `json:"target"`
	Orientation Orientation `json:"orientation,omitempty"`
	Accepted    bool        `json:"accepted"`
	Rejection   string      `json:"rejection,omitempty"`
	Timestamp   int64       `json:"timestamp"`
}

// Snapshot is a read-only, serialisable view of a game.
type Snapshot struct {
	PlayerCount    int          `json:"player_count"`
	Positions      []Coordinate `json:"positions"`
	GoalRows       []int        `json:"goal_rows"`
	RemainingWalls []int        `json:"remaining_walls"`
	Walls          []PlacedWall `json:"walls"`
	WallParts      []Coordinate `json:"wall_parts"`
	CurrentPlayer  int          `json:"current_player"`
	Winner         int          `json:"winner"`
	TotalActions   int          `json:"total_actions"`

	// Revision orders snapshots of one hosted game across restarts. The
	// engine leaves it zero; the session layer stamps it.
	Revision uint64 `json:"revision,omitempty"`
}

// GameOver reports whether the snapshot has a winner.
func (s *Snapshot) GameOver() bool {
	return s.Winner != NoWinner
}
