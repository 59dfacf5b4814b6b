package engine

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Lattice is the set of fine points covered by walls. A fine point between
// two adjacent cells being present means that adjacency is blocked.
type Lattice struct {
	parts mapset.Set[Coordinate]
}

// NewLattice returns a lattice holding the given parts.
func NewLattice(parts ...Coordinate) Lattice {
	l := Lattice{parts: mapset.New[Coordinate]()}
	l.add(parts...)
	return l
}

// Has reports whether p is covered by a wall.
func (l Lattice) Has(p Coordinate) bool {
	return l.parts.Has(p)
}

// Blocks reports whether a wall separates the adjacent cells a and b.
func (l Lattice) Blocks(a, b Coordinate) bool {
	return l.Has(Slot(a, b))
}

// Size returns the number of covered fine points.
func (l Lattice) Size() int {
	return l.parts.Size()
}

// Union returns a new lattice with parts added; l is left unchanged.
func (l Lattice) Union(parts ...Coordinate) Lattice {
	u := NewLattice()
	l.parts.Each(func(p Coordinate) {
		u.parts.Put(p)
	})
	u.add(parts...)
	return u
}

// Parts returns the covered points sorted by row, then column.
func (l Lattice) Parts() []Coordinate {
	parts := make([]Coordinate, 0, l.Size())
	l.parts.Each(func(p Coordinate) {
		parts = append(parts, p)
	})
	slices.SortFunc(parts, func(a, b Coordinate) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
	return parts
}

func (l *Lattice) add(parts ...Coordinate) {
	for _, p := range parts {
		l.parts.Put(p)
	}
}

// neighbors yields the in-grid cells orthogonally adjacent to pos that no
// wall in lattice separates from it.
func neighbors(pos Coordinate, lattice Lattice) []Coordinate {
	result := make([]Coordinate, 0, len(steps))
	for _, step := range steps {
		n := pos.Add(step)
		if n.InGrid() && !lattice.Blocks(pos, n) {
			result = append(result, n)
		}
	}
	return result
}
