package t2048

import (
	"math/rand"
	"time"
)

// State encodes the game mode. Even values accept moves, odd or negative
// values do not, and a won state is the preceding mode plus one.
type State int

const (
	StateLost       State = -1
	StateNormal     State = 0
	StateWon        State = 1
	StateEndless    State = 2
	StateEndlessWon State = 3
)

const winBit = 1

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLost:
		return "lost"
	case StateNormal:
		return "normal"
	case StateWon:
		return "won"
	case StateEndless:
		return "endless"
	case StateEndlessWon:
		return "endless_won"
	default:
		return "invalid"
	}
}

// Valid reports whether s is one of the five known modes.
func (s State) Valid() bool {
	return s >= StateLost && s <= StateEndlessWon
}

// Defaults used when Options fields are left zero.
const (
	DefaultSize              = 4
	DefaultWinValue          = 2048
	DefaultTileTypes         = 21
	DefaultSpawn4Probability = 0.1
	DefaultStartTiles        = 2
	DefaultBaseAnimation     = 100 * time.Millisecond
	DefaultFadeFactor        = 5
)

// Options configures an Engine.
type Options struct {
	Size              int
	WinValue          int     // first win threshold
	TileTypes         int     // distinct tile faces; endless ceiling is 2^(TileTypes-1)
	Spawn4Probability float64 // chance a spawned tile is a 4; zero selects the default
	StartTiles        int
	BaseAnimation     time.Duration
	FadeFactor        int // end-of-game fade lasts FadeFactor × BaseAnimation

	// HighScore is the best score known before this session.
	HighScore int
	// OnHighScore is called whenever a new high score is recorded.
	OnHighScore func(score int)
	// Rand drives tile spawning. Seeded from the clock when nil.
	Rand *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.WinValue <= 0 {
		o.WinValue = DefaultWinValue
	}
	if o.TileTypes <= 0 {
		o.TileTypes = DefaultTileTypes
	}
	if o.Spawn4Probability <= 0 || o.Spawn4Probability > 1 {
		o.Spawn4Probability = DefaultSpawn4Probability
	}
	if o.StartTiles <= 0 {
		o.StartTiles = DefaultStartTiles
	}
	if o.BaseAnimation <= 0 {
		o.BaseAnimation = DefaultBaseAnimation
	}
	if o.FadeFactor <= 0 {
		o.FadeFactor = DefaultFadeFactor
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Engine resolves moves and owns all game state. It is not safe for
// concurrent use: Move, NewGame, RevertUndoState and animation ticking must
// be serialized by the caller.
type Engine struct {
	size  int
	grid  *Grid
	anims *AnimationGrid
	rng   *rand.Rand

	state       State
	lastState   State
	bufferState State

	score       int
	lastScore   int
	bufferScore int
	highScore   int
	storedHigh  int
	canUndo     bool
	onHighScore func(int)

	startingMaxValue int
	endingMaxValue   int
	spawn4           float64
	startTiles       int

	moveTime         time.Duration
	spawnTime        time.Duration
	notificationTime time.Duration
	notificationWait time.Duration
}

// NewEngine creates an engine with an empty board. Call NewGame to seed it.
func NewEngine(opts Options) *Engine {
	opts = opts.withDefaults()
	base := opts.BaseAnimation
	return &Engine{
		size:             opts.Size,
		grid:             NewGrid(opts.Size),
		anims:            NewAnimationGrid(opts.Size),
		rng:              opts.Rand,
		highScore:        opts.HighScore,
		storedHigh:       opts.HighScore,
		onHighScore:      opts.OnHighScore,
		startingMaxValue: opts.WinValue,
		endingMaxValue:   1 << (opts.TileTypes - 1),
		spawn4:           opts.Spawn4Probability,
		startTiles:       opts.StartTiles,
		moveTime:         base,
		spawnTime:        base,
		notificationTime: base * time.Duration(opts.FadeFactor),
		notificationWait: 2 * base,
	}
}

// NewGame commits the current board as the undo point, clears it, reconciles
// the high score and seeds the starting tiles.
func (e *Engine) NewGame() {
	e.prepareUndoState()
	e.saveUndoState()
	e.grid.ClearGrid()
	e.anims.CancelAnimations()

	e.highScore = e.storedHigh
	if e.score >= e.highScore {
		e.highScore = e.score
		e.recordHighScore()
	}
	e.score = 0
	e.state = StateNormal

	for range e.startTiles {
		e.addRandomTile()
	}
}

// Move slides every tile toward dir, merging equal pairs once per move.
// It reports whether the board changed. Any running animations are cancelled.
func (e *Engine) Move(dir Direction) bool {
	e.anims.CancelAnimations()
	if !e.IsActive() || !dir.Valid() {
		return false
	}

	e.prepareUndoState()
	vector := dir.Vector()
	traversalX := buildTraversal(e.size, vector.X)
	traversalY := buildTraversal(e.size, vector.Y)
	moved := false

	e.prepareTiles()

	for _, x := range traversalX {
		for _, y := range traversalY {
			p := Position{X: x, Y: y}
			tile := e.grid.CellContent(p)
			if tile == nil {
				continue
			}

			previous, next := findFarthestPosition(e.grid, p, vector)
			nextTile := e.grid.CellContent(next)

			if nextTile != nil && nextTile.Value == tile.Value && !nextTile.Merged() {
				e.mergeInto(tile, nextTile)
			} else {
				e.moveTile(tile, previous)
				e.anims.StartAnimation(previous, AnimationMove, e.moveTime, 0, []int{x, y, 0})
			}

			if tile.Pos != p {
				moved = true
			}
		}
	}

	if moved {
		e.saveUndoState()
		e.addRandomTile()
	}
	// A locked board loses even when the move itself changed nothing.
	e.checkLose()
	return moved
}

// mergeInto replaces target with a doubled tile and retires tile.
func (e *Engine) mergeInto(tile, target *Tile) {
	from := tile.Pos
	merged := NewTile(target.Pos, tile.Value*2)
	merged.MergedFrom = []*Tile{tile, target}

	e.grid.InsertTile(merged)
	e.grid.RemoveTile(tile)

	// The retired tile's position converges on the merge cell so the move
	// registers as a change even when it did not slide.
	tile.Pos = merged.Pos

	e.anims.StartAnimation(merged.Pos, AnimationMove, e.moveTime, 0, []int{from.X, from.Y})
	e.anims.StartAnimation(merged.Pos, AnimationMerge, e.spawnTime, e.moveTime, nil)

	e.score += merged.Value
	e.highScore = max(e.highScore, e.score)

	if merged.Value >= e.winValue() && !e.GameWon() {
		e.state += winBit
		e.endGame()
	}
}

func (e *Engine) moveTile(tile *Tile, p Position) {
	e.grid.Field().Unset(tile.Pos)
	e.grid.Field().Set(p, tile)
	tile.Pos = p
}

func (e *Engine) prepareTiles() {
	for _, tile := range e.grid.Field().Tiles() {
		tile.MergedFrom = nil
	}
}

func (e *Engine) addRandomTile() {
	if !e.grid.AreCellsAvailable() {
		return
	}
	value := 2
	if e.rng.Float64() < e.spawn4 {
		value = 4
	}
	p, _ := e.grid.RandomAvailablePosition(e.rng)
	e.spawnTile(NewTile(p, value))
}

func (e *Engine) spawnTile(tile *Tile) {
	e.grid.InsertTile(tile)
	e.anims.StartAnimation(tile.Pos, AnimationSpawn, e.spawnTime, e.moveTime, nil)
}

func (e *Engine) checkLose() {
	if !movesAvailable(e.grid) && !e.GameWon() {
		e.state = StateLost
		e.endGame()
	}
}

func (e *Engine) endGame() {
	e.anims.StartAnimation(NoPosition, AnimationFade, e.notificationTime, e.notificationWait, nil)
	if e.score >= e.highScore {
		e.highScore = e.score
		e.recordHighScore()
	}
}

func (e *Engine) recordHighScore() {
	if e.highScore == e.storedHigh {
		return
	}
	e.storedHigh = e.highScore
	if e.onHighScore != nil {
		e.onHighScore(e.highScore)
	}
}

func (e *Engine) prepareUndoState() {
	e.grid.PrepareSaveTiles()
	e.bufferScore = e.score
	e.bufferState = e.state
}

func (e *Engine) saveUndoState() {
	e.grid.SaveTiles()
	e.canUndo = true
	e.lastScore = e.bufferScore
	e.lastState = e.bufferState
}

// RevertUndoState restores the board, score and state from before the last
// completed move. It works once per move and reports whether anything was
// restored.
func (e *Engine) RevertUndoState() bool {
	if !e.canUndo {
		return false
	}
	e.canUndo = false
	e.anims.CancelAnimations()
	e.grid.RevertTiles()
	e.score = e.lastScore
	e.state = e.lastState
	return true
}

// SetEndlessMode continues a won game past the win tile. It only acts while
// the game is in StateWon and reports whether the state changed.
func (e *Engine) SetEndlessMode() bool {
	if e.state != StateWon {
		return false
	}
	e.state = StateEndless
	return true
}

func (e *Engine) winValue() int {
	if !e.CanContinue() {
		return e.endingMaxValue
	}
	return e.startingMaxValue
}

// IsActive reports whether the game accepts moves.
func (e *Engine) IsActive() bool {
	return !(e.GameWon() || e.GameLost())
}

// GameWon reports whether the state is one of the won modes.
func (e *Engine) GameWon() bool {
	return e.state > 0 && e.state%2 != 0
}

// GameLost reports whether the game is over.
func (e *Engine) GameLost() bool {
	return e.state == StateLost
}

// CanContinue reports whether endless mode is still available.
func (e *Engine) CanContinue() bool {
	return !(e.state == StateEndless || e.state == StateEndlessWon)
}

// CanUndo reports whether RevertUndoState would restore anything.
func (e *Engine) CanUndo() bool { return e.canUndo }

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// HighScore returns the best score seen, including the running game.
func (e *Engine) HighScore() int { return e.highScore }

// State returns the current mode.
func (e *Engine) State() State { return e.state }

// Size returns the board dimension.
func (e *Engine) Size() int { return e.size }

// Grid exposes the board for rendering and persistence.
func (e *Engine) Grid() *Grid { return e.grid }

// Animations exposes the animation bookkeeping for rendering.
func (e *Engine) Animations() *AnimationGrid { return e.anims }

// WinValue returns the tile value that currently triggers a win.
func (e *Engine) WinValue() int { return e.winValue() }

// MaxTile returns the largest value on the live board.
func (e *Engine) MaxTile() int {
	best := 0
	for _, t := range e.grid.Field().Tiles() {
		best = max(best, t.Value)
	}
	return best
}
