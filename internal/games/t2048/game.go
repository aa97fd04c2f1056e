package t2048

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/twozero/internal/config"
	"github.com/vovakirdan/twozero/internal/core"
)

// Game adapts an Engine to the frame-driven platform loop. It translates
// input actions into engine operations, advances animations by wall-clock
// time and renders the board into a core.Screen.
type Game struct {
	opts   Options
	engine *Engine

	screenW  int
	screenH  int
	tooSmall bool
}

// New creates a game with the given engine options. Call Reset before the
// first Step.
func New(opts Options) *Game {
	return &Game{opts: opts}
}

// OptionsFromConfig maps a loaded configuration onto engine options.
func OptionsFromConfig(cfg config.GameConfig) Options {
	return Options{
		Size:              cfg.Board.Size,
		WinValue:          cfg.Rules.WinValue,
		TileTypes:         cfg.Rules.TileTypes,
		Spawn4Probability: cfg.Rules.Spawn4Probability,
		StartTiles:        cfg.Board.StartTiles,
		BaseAnimation:     time.Duration(cfg.Animation.BaseMS) * time.Millisecond,
		FadeFactor:        cfg.Animation.FadeFactor,
	}
}

// ID returns the game identifier used for score tables and save slots.
func (g *Game) ID() string {
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "2048"
}

// Reset builds a fresh engine seeded from cfg and starts a new game. The best
// score of any previous engine carries over.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	opts := g.opts
	opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	if g.engine != nil {
		opts.HighScore = max(opts.HighScore, g.engine.HighScore())
	}
	g.engine = NewEngine(opts)
	g.engine.NewGame()
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Restore replaces the running game with a saved one. The engine keeps the
// random source created by Reset.
func (g *Game) Restore(s SavedState) error {
	if g.engine == nil {
		g.Reset(core.DefaultConfig())
	}
	return g.engine.Load(s)
}

// Resize updates the screen dimensions used by Render.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < g.minWidth() || h < g.minHeight()
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// Step applies the frame's actions in order and advances animations by
// elapsed. Only the first move of a frame is attempted; later ones are
// dropped even when the first changed nothing.
func (g *Game) Step(in core.InputFrame, elapsed time.Duration) core.StepResult {
	var res core.StepResult
	g.engine.Animations().TickAll(elapsed)

	if g.tooSmall {
		res.State = g.State()
		return res
	}

	moveTried := false
	for _, a := range in.Actions {
		switch {
		case a.IsMove():
			if moveTried {
				continue
			}
			moveTried = true
			res.Moved = g.engine.Move(directionFor(a))
		case a == core.ActionUndo:
			g.engine.RevertUndoState()
		case a == core.ActionNewGame:
			g.engine.NewGame()
		case a == core.ActionContinue:
			g.engine.SetEndlessMode()
		}
	}

	res.State = g.State()
	return res
}

// State returns the platform-facing summary of the game.
func (g *Game) State() core.GameState {
	e := g.engine
	return core.GameState{
		Score:       e.Score(),
		HighScore:   e.HighScore(),
		MaxTile:     e.MaxTile(),
		GameOver:    !e.IsActive(),
		Won:         e.GameWon(),
		CanContinue: e.GameWon() && e.CanContinue(),
		Animating:   e.Animations().Count() > 0,
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | U: Undo | N: New | C: Continue | Esc: Menu"
}

func directionFor(a core.Action) Direction {
	switch a {
	case core.ActionUp:
		return DirUp
	case core.ActionRight:
		return DirRight
	case core.ActionDown:
		return DirDown
	case core.ActionLeft:
		return DirLeft
	default:
		return Direction(-1)
	}
}
