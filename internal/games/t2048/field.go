package t2048

import "fmt"

// Field is a fixed-size square of optional tiles indexed by Position.
// Accessing a position outside the field is a programming error and panics;
// callers gate with IsWithinBounds first.
type Field struct {
	size  int
	cells [][]*Tile // cells[x][y]
}

// NewField creates an empty size×size field.
func NewField(size int) *Field {
	f := &Field{size: size}
	f.cells = f.empty()
	return f
}

// Size returns the field dimension.
func (f *Field) Size() int {
	return f.size
}

// Get returns the tile at p, or nil if the cell is empty.
func (f *Field) Get(p Position) *Tile {
	f.mustContain(p)
	return f.cells[p.X][p.Y]
}

// Set stores t at p. It does not touch t.Pos.
func (f *Field) Set(p Position, t *Tile) {
	f.mustContain(p)
	f.cells[p.X][p.Y] = t
}

// Unset empties the cell at p.
func (f *Field) Unset(p Position) {
	f.mustContain(p)
	f.cells[p.X][p.Y] = nil
}

// Clear empties every cell. The size is unchanged.
func (f *Field) Clear() {
	f.cells = f.empty()
}

// HasContent reports whether p is inside the field and occupied.
func (f *Field) HasContent(p Position) bool {
	return f.IsWithinBounds(p) && f.cells[p.X][p.Y] != nil
}

// IsWithinBounds reports whether p addresses a cell of this field.
func (f *Field) IsWithinBounds(p Position) bool {
	return p.X >= 0 && p.X < f.size && p.Y >= 0 && p.Y < f.size
}

// CopyFrom replaces the contents of f with clones of the tiles in src.
func (f *Field) CopyFrom(src *Field) {
	if src.size != f.size {
		panic(fmt.Sprintf("t2048: cannot copy %dx%d field into %dx%d field", src.size, src.size, f.size, f.size))
	}
	src.ForEach(func(p Position, t *Tile) {
		if t == nil {
			f.Unset(p)
			return
		}
		f.Set(p, t.Clone())
	})
}

// Tiles returns a snapshot list of all occupied cells' tiles.
func (f *Field) Tiles() []*Tile {
	var tiles []*Tile
	f.ForEach(func(_ Position, t *Tile) {
		if t != nil {
			tiles = append(tiles, t)
		}
	})
	return tiles
}

// EmptyPositions returns a snapshot list of all empty cells.
func (f *Field) EmptyPositions() []Position {
	var positions []Position
	f.ForEach(func(p Position, t *Tile) {
		if t == nil {
			positions = append(positions, p)
		}
	})
	return positions
}

// ForEach visits every cell, x outer and y inner, both ascending.
func (f *Field) ForEach(fn func(p Position, t *Tile)) {
	for x := range f.size {
		for y := range f.size {
			fn(Position{X: x, Y: y}, f.cells[x][y])
		}
	}
}

// Values returns the tile values as rows (values[y][x]), 0 for empty cells.
func (f *Field) Values() [][]int {
	values := make([][]int, f.size)
	for y := range values {
		values[y] = make([]int, f.size)
	}
	f.ForEach(func(p Position, t *Tile) {
		if t != nil {
			values[p.Y][p.X] = t.Value
		}
	})
	return values
}

func (f *Field) mustContain(p Position) {
	if !f.IsWithinBounds(p) {
		panic(fmt.Sprintf("t2048: position %v outside %dx%d field", p, f.size, f.size))
	}
}

func (f *Field) empty() [][]*Tile {
	cells := make([][]*Tile, f.size)
	for x := range cells {
		cells[x] = make([]*Tile, f.size)
	}
	return cells
}
