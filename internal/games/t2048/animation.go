package t2048

import "time"

// AnimationKind identifies a visual effect. Rendering is up to the consumer.
type AnimationKind int

const (
	// AnimationSpawn grows a freshly spawned tile.
	AnimationSpawn AnimationKind = iota
	// AnimationMove slides a tile from Extras[0], Extras[1] to its cell.
	AnimationMove
	// AnimationMerge pops a tile produced by a merge.
	AnimationMerge
	// AnimationFade fades in the end-of-game overlay (global only).
	AnimationFade
)

// String implements fmt.Stringer.
func (k AnimationKind) String() string {
	switch k {
	case AnimationSpawn:
		return "spawn"
	case AnimationMove:
		return "move"
	case AnimationMerge:
		return "merge"
	case AnimationFade:
		return "fade"
	default:
		return "unknown"
	}
}

// AnimationCell is a time-bounded effect descriptor.
type AnimationCell struct {
	Pos      Position
	Kind     AnimationKind
	Duration time.Duration
	Delay    time.Duration
	Extras   []int

	elapsed time.Duration
}

// Tick advances the cell's clock.
func (a *AnimationCell) Tick(elapsed time.Duration) {
	a.elapsed += elapsed
}

// Elapsed returns the accumulated time.
func (a *AnimationCell) Elapsed() time.Duration {
	return a.elapsed
}

// Active reports whether the start delay has passed.
func (a *AnimationCell) Active() bool {
	return a.elapsed >= a.Delay
}

// Done reports whether the effect has run past its end.
func (a *AnimationCell) Done() bool {
	return a.elapsed > a.Delay+a.Duration
}

// Progress returns (elapsed-delay)/duration, never below zero.
// It can exceed 1 on the last tick before removal.
func (a *AnimationCell) Progress() float64 {
	if a.Duration <= 0 {
		if a.Active() {
			return 1
		}
		return 0
	}
	return max(0, float64(a.elapsed-a.Delay)/float64(a.Duration))
}

// AnimationGrid tracks per-cell and global animation lists.
// It is not safe for concurrent use; callers confine it to one goroutine.
type AnimationGrid struct {
	size   int
	cells  [][][]*AnimationCell // cells[x][y]
	global []*AnimationCell

	active       int
	oneMoreFrame bool
}

// NewAnimationGrid creates an empty animation grid for a size×size board.
func NewAnimationGrid(size int) *AnimationGrid {
	g := &AnimationGrid{size: size}
	g.cells = make([][][]*AnimationCell, size)
	for x := range g.cells {
		g.cells[x] = make([][]*AnimationCell, size)
	}
	return g
}

// StartAnimation registers a new effect at p, or globally when p is NoPosition.
func (g *AnimationGrid) StartAnimation(p Position, kind AnimationKind, duration, delay time.Duration, extras []int) {
	cell := &AnimationCell{
		Pos:      p,
		Kind:     kind,
		Duration: duration,
		Delay:    delay,
		Extras:   extras,
	}
	if p == NoPosition {
		g.global = append(g.global, cell)
	} else {
		g.cells[p.X][p.Y] = append(g.cells[p.X][p.Y], cell)
	}
	g.active++
}

// TickAll advances every animation and drops the ones that finished.
func (g *AnimationGrid) TickAll(elapsed time.Duration) {
	g.global = g.tickList(g.global, elapsed)
	for x := range g.cells {
		for y := range g.cells[x] {
			g.cells[x][y] = g.tickList(g.cells[x][y], elapsed)
		}
	}
}

func (g *AnimationGrid) tickList(list []*AnimationCell, elapsed time.Duration) []*AnimationCell {
	kept := list[:0]
	for _, a := range list {
		a.Tick(elapsed)
		if a.Done() {
			g.active--
			continue
		}
		kept = append(kept, a)
	}
	// Drop references held past the new length.
	for i := len(kept); i < len(list); i++ {
		list[i] = nil
	}
	return kept
}

// Cells returns the live animation list at p.
func (g *AnimationGrid) Cells(p Position) []*AnimationCell {
	return g.cells[p.X][p.Y]
}

// Global returns the live list of board-wide animations.
func (g *AnimationGrid) Global() []*AnimationCell {
	return g.global
}

// Count returns the number of tracked animations.
func (g *AnimationGrid) Count() int {
	return g.active
}

// CancelAnimations drops every animation.
func (g *AnimationGrid) CancelAnimations() {
	for x := range g.cells {
		for y := range g.cells[x] {
			g.cells[x][y] = nil
		}
	}
	g.global = nil
	g.active = 0
}

// IsAnimationActive reports whether any animation is running. After the last
// one ends it reports true exactly once more so the renderer can draw a
// settled frame.
func (g *AnimationGrid) IsAnimationActive() bool {
	switch {
	case g.active != 0:
		g.oneMoreFrame = true
		return true
	case g.oneMoreFrame:
		g.oneMoreFrame = false
		return true
	default:
		return false
	}
}
