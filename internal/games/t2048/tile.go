package t2048

import "fmt"

// Position is a board coordinate. X selects the column, Y the row.
type Position struct {
	X, Y int
}

// NoPosition marks animations that are not tied to any cell.
var NoPosition = Position{X: -1, Y: -1}

// Add returns p shifted by the vector v.
func (p Position) Add(v Position) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Tile is a numbered piece occupying one cell.
type Tile struct {
	Pos   Position
	Value int

	// MergedFrom holds the two source tiles when this tile was produced by
	// a merge during the current move. Reset at the start of every move.
	MergedFrom []*Tile
}

// NewTile creates a tile at p with the given value.
func NewTile(p Position, value int) *Tile {
	return &Tile{Pos: p, Value: value}
}

// Clone returns an independent copy carrying position and value only.
func (t *Tile) Clone() *Tile {
	return &Tile{Pos: t.Pos, Value: t.Value}
}

// Merged reports whether the tile was produced by a merge this move.
func (t *Tile) Merged() bool {
	return t.MergedFrom != nil
}
