package t2048

import "math/rand"

// Grid owns the live field, the undo snapshot and a staging buffer.
//
// Undo is two-phase: PrepareSaveTiles stages the board at the start of a
// move and SaveTiles commits the staged copy once the move is known to have
// changed the board. The undo field therefore never holds a half-applied move.
type Grid struct {
	field     *Field
	undoField *Field
	buffer    *Field
}

// NewGrid creates a grid with three empty size×size fields.
func NewGrid(size int) *Grid {
	return &Grid{
		field:     NewField(size),
		undoField: NewField(size),
		buffer:    NewField(size),
	}
}

// Field returns the live field.
func (g *Grid) Field() *Field {
	return g.field
}

// UndoField returns the last committed snapshot.
func (g *Grid) UndoField() *Field {
	return g.undoField
}

// Size returns the board dimension.
func (g *Grid) Size() int {
	return g.field.Size()
}

// AreCellsAvailable reports whether at least one cell is empty.
func (g *Grid) AreCellsAvailable() bool {
	return len(g.field.EmptyPositions()) > 0
}

// RandomAvailablePosition picks an empty cell uniformly. ok is false when
// the board is full.
func (g *Grid) RandomAvailablePosition(rng *rand.Rand) (p Position, ok bool) {
	available := g.field.EmptyPositions()
	if len(available) == 0 {
		return Position{}, false
	}
	return available[rng.Intn(len(available))], true
}

// IsCellAvailable reports whether p is empty (or outside the board).
func (g *Grid) IsCellAvailable(p Position) bool {
	return !g.field.HasContent(p)
}

// CellContent returns the tile at p, or nil when p is empty or out of bounds.
func (g *Grid) CellContent(p Position) *Tile {
	if !g.field.HasContent(p) {
		return nil
	}
	return g.field.Get(p)
}

// IsCellWithinBounds reports whether p is on the board.
func (g *Grid) IsCellWithinBounds(p Position) bool {
	return g.field.IsWithinBounds(p)
}

// InsertTile places t at its own position, replacing any occupant.
func (g *Grid) InsertTile(t *Tile) {
	g.field.Set(t.Pos, t)
}

// RemoveTile empties the cell at t's position.
func (g *Grid) RemoveTile(t *Tile) {
	g.field.Unset(t.Pos)
}

// PrepareSaveTiles stages the live board. Call before mutating for a move.
func (g *Grid) PrepareSaveTiles() {
	g.buffer.CopyFrom(g.field)
}

// SaveTiles commits the staged board as the undo snapshot.
func (g *Grid) SaveTiles() {
	g.undoField.CopyFrom(g.buffer)
}

// RevertTiles restores the live board from the undo snapshot.
func (g *Grid) RevertTiles() {
	g.field.CopyFrom(g.undoField)
}

// ClearGrid empties the live field only.
func (g *Grid) ClearGrid() {
	g.field.Clear()
}
