package engine

import "fmt"

// steps lists the orthogonal moves: north, south, west, east.
var steps = [4]Coordinate{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

// InGrid reports whether c is a cell of the board.
func (c Coordinate) InGrid() bool {
	return 0 <= c.Row && c.Row < BoardSize && 0 <= c.Col && c.Col < BoardSize
}

// InFineGrid reports whether c is a point of the fine grid.
func (c Coordinate) InFineGrid() bool {
	return 0 <= c.Row && c.Row < FineSize && 0 <= c.Col && c.Col < FineSize
}

func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{Row: c.Row + o.Row, Col: c.Col + o.Col}
}

func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{Row: c.Row - o.Row, Col: c.Col - o.Col}
}

func (c Coordinate) Mul(n int) Coordinate {
	return Coordinate{Row: c.Row * n, Col: c.Col * n}
}

// Div divides both components by n, rounding towards negative infinity.
func (c Coordinate) Div(n int) Coordinate {
	return Coordinate{Row: floorDiv(c.Row, n), Col: floorDiv(c.Col, n)}
}

// Manhattan returns |Δrow| + |Δcol|.
func (c Coordinate) Manhattan(o Coordinate) int {
	d := c.Sub(o)
	return abs(d.Row) + abs(d.Col)
}

// Fine maps a cell to its fine-grid point.
func (c Coordinate) Fine() Coordinate {
	return c.Mul(2)
}

// Slot returns the fine point between two orthogonally adjacent cells.
func Slot(a, b Coordinate) Coordinate {
	return a.Add(b)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func floorDiv(a, n int) int {
	q := a / n
	if (a%n != 0) && ((a < 0) != (n < 0)) {
		q--
	}
	return q
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
