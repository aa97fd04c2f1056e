package t2048

import "fmt"

// Direction represents a move direction. The numeric values match the
// input contract: 0 up, 1 right, 2 down, 3 left.
type Direction int

const (
	DirUp Direction = iota
	DirRight
	DirDown
	DirLeft
)

// Directions lists all moves in input order.
var Directions = []Direction{DirUp, DirRight, DirDown, DirLeft}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four moves.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirLeft
}

// Vector returns the unit step for d.
func (d Direction) Vector() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirRight:
		return Position{X: 1, Y: 0}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	default:
		return Position{}
	}
}

// buildTraversal returns 0..size-1, reversed when the vector component is +1
// so tiles nearest the destination edge are processed first.
func buildTraversal(size, component int) []int {
	order := make([]int, size)
	for i := range order {
		if component == 1 {
			order[i] = size - 1 - i
		} else {
			order[i] = i
		}
	}
	return order
}

// findFarthestPosition walks from p along vector while cells are empty.
// previous is the last empty cell reached (or p itself), next is the first
// blocked or out-of-bounds position after it.
func findFarthestPosition(g *Grid, p, vector Position) (previous, next Position) {
	next = p
	for {
		previous = next
		next = previous.Add(vector)
		if !g.IsCellWithinBounds(next) || !g.IsCellAvailable(next) {
			return previous, next
		}
	}
}

// tileMatchesAvailable reports whether any two 4-neighbours hold equal values.
func tileMatchesAvailable(g *Grid) bool {
	size := g.Size()
	for x := range size {
		for y := range size {
			p := Position{X: x, Y: y}
			tile := g.CellContent(p)
			if tile == nil {
				continue
			}
			for _, d := range Directions {
				other := g.CellContent(p.Add(d.Vector()))
				if other != nil && other.Value == tile.Value {
					return true
				}
			}
		}
	}
	return false
}

// movesAvailable reports whether any move could still change the board.
func movesAvailable(g *Grid) bool {
	return g.AreCellsAvailable() || tileMatchesAvailable(g)
}
