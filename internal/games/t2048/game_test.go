package t2048

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/twozero/internal/config"
	"github.com/vovakirdan/twozero/internal/core"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g := New(Options{})
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 11})
	return g
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t)

	if got := len(g.Engine().Grid().Field().Tiles()); got != DefaultStartTiles {
		t.Errorf("Reset seeded %d tiles, want %d", got, DefaultStartTiles)
	}
	st := g.State()
	if st.Score != 0 || st.GameOver || st.Won {
		t.Errorf("fresh state = %+v", st)
	}
}

func TestGameResetIsDeterministic(t *testing.T) {
	a := newTestGame(t)
	b := newTestGame(t)

	if !equalBoards(a, b) {
		t.Error("same seed should give the same starting board")
	}
}

func TestGameStepMoves(t *testing.T) {
	g := newTestGame(t)
	moved := false

	for _, a := range []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown} {
		in := core.NewInputFrame()
		in.Set(a)
		if g.Step(in, 16*time.Millisecond).Moved {
			moved = true
		}
	}
	if !moved {
		t.Error("no move changed a fresh board")
	}
}

func TestGameStepOneMovePerFrame(t *testing.T) {
	g := newTestGame(t)
	g.Engine().Grid().ClearGrid()
	g.Engine().Grid().InsertTile(NewTile(Position{X: 0, Y: 0}, 2))

	in := core.NewInputFrame()
	in.Set(core.ActionRight)
	in.Set(core.ActionDown)
	g.Step(in, 0)

	// Only the first move ran, so the tile is still on the top row.
	if tile := g.Engine().Grid().CellContent(Position{X: 3, Y: 0}); tile == nil || tile.Value != 2 {
		t.Errorf("expected the tile at (3,0) after a single move right, board %v", g.Engine().Grid().Field().Values())
	}
}

func TestGameStepDropsMovesAfterNoop(t *testing.T) {
	g := newTestGame(t)
	g.Engine().Grid().ClearGrid()
	g.Engine().Grid().InsertTile(NewTile(Position{X: 0, Y: 0}, 2))

	in := core.NewInputFrame()
	in.Set(core.ActionUp) // already against the top edge
	in.Set(core.ActionRight)
	res := g.Step(in, 0)

	if res.Moved {
		t.Error("Moved should be false when the only attempted move changed nothing")
	}
	if tile := g.Engine().Grid().CellContent(Position{X: 0, Y: 0}); tile == nil || tile.Value != 2 {
		t.Errorf("second move key should be dropped, board %v", g.Engine().Grid().Field().Values())
	}
}

func TestGameStepUndoAndNewGame(t *testing.T) {
	g := newTestGame(t)
	start := g.Engine().Grid().Field().Values()

	in := core.NewInputFrame()
	for _, a := range []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown} {
		in.Clear()
		in.Set(a)
		if g.Step(in, 0).Moved {
			break
		}
	}

	in.Clear()
	in.Set(core.ActionUndo)
	g.Step(in, 0)
	if !equalValues(g.Engine().Grid().Field().Values(), start) {
		t.Error("undo action should restore the starting board")
	}

	in.Clear()
	in.Set(core.ActionNewGame)
	g.Step(in, 0)
	if g.State().Score != 0 || len(g.Engine().Grid().Field().Tiles()) != DefaultStartTiles {
		t.Error("new game action should reseed the board")
	}
}

func TestGameStepTicksAnimations(t *testing.T) {
	g := newTestGame(t)
	if !g.State().Animating {
		t.Fatal("starting tiles should spawn with an animation")
	}
	g.Step(core.NewInputFrame(), time.Second)
	if g.State().Animating {
		t.Error("animations should finish after a second")
	}
}

func TestGameContinueAction(t *testing.T) {
	g := newTestGame(t)
	e := g.Engine()
	e.Grid().ClearGrid()
	e.Grid().InsertTile(NewTile(Position{X: 0, Y: 0}, 1024))
	e.Grid().InsertTile(NewTile(Position{X: 1, Y: 0}, 1024))

	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	g.Step(in, 0)
	st := g.State()
	if !st.Won || !st.CanContinue || !st.GameOver {
		t.Fatalf("state after win = %+v", st)
	}

	in.Clear()
	in.Set(core.ActionContinue)
	g.Step(in, 0)
	if st := g.State(); st.GameOver || st.CanContinue {
		t.Errorf("state after continue = %+v", st)
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t)
	scr := core.NewScreen(80, 24)

	g.Step(core.NewInputFrame(), time.Second)
	g.Render(scr)
	out := scr.String()

	for _, want := range []string{"2048", "Score: 0", "Best: 0", "Goal: 2048", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	g := newTestGame(t)
	g.Resize(20, 6)

	scr := core.NewScreen(20, 6)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("small screen should show a notice:\n%s", scr.String())
	}
}

func TestGameRenderLostOverlay(t *testing.T) {
	g := newTestGame(t)
	err := g.Restore(SavedState{
		Size: 4,
		Cells: [][]int{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		},
		UndoCells: make4x4(),
		State:     StateLost,
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	if !strings.Contains(scr.String(), "GAME OVER") {
		t.Errorf("lost game should show the overlay:\n%s", scr.String())
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[int]string{
		2:       "2",
		2048:    "2048",
		131072:  "131072",
		1048576: "1024k",
	}
	for v, want := range tests {
		if got := formatValue(v); got != want {
			t.Errorf("formatValue(%d) = %q, want %q", v, got, want)
		}
	}
}

func make4x4() [][]int {
	rows := make([][]int, 4)
	for i := range rows {
		rows[i] = make([]int, 4)
	}
	return rows
}

func equalBoards(a, b *Game) bool {
	return equalValues(a.Engine().Grid().Field().Values(), b.Engine().Grid().Field().Values())
}

func equalValues(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	config.ApplyPreset(&cfg, config.PresetSmall)

	g := New(OptionsFromConfig(cfg))
	g.Reset(core.DefaultConfig())

	e := g.Engine()
	if e.Size() != 3 || e.WinValue() != 512 {
		t.Errorf("engine %dx%d wins at %d, want 3x3 at 512", e.Size(), e.Size(), e.WinValue())
	}
}
