package t2048

import (
	"math/rand"
	"reflect"
	"testing"
)

// newTestEngine builds an engine whose live board holds rows (rows[y][x]).
func newTestEngine(t *testing.T, rows [][]int, opts Options) *Engine {
	t.Helper()
	opts.Size = len(rows)
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	e := NewEngine(opts)
	for y, row := range rows {
		for x, v := range row {
			if v != 0 {
				e.grid.InsertTile(NewTile(Position{X: x, Y: y}, v))
			}
		}
	}
	return e
}

func boardSum(e *Engine) int {
	sum := 0
	for _, tile := range e.Grid().Field().Tiles() {
		sum += tile.Value
	}
	return sum
}

func TestMoveMergesVerticalPair(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, Options{})

	if !e.Move(DirUp) {
		t.Fatal("Move(up) should change the board")
	}
	if got := e.Grid().CellContent(Position{X: 0, Y: 0}); got == nil || got.Value != 4 {
		t.Fatalf("(0,0) = %v, want 4", got)
	}
	if e.Score() != 4 {
		t.Errorf("Score() = %d, want 4", e.Score())
	}
	if got := len(e.Grid().Field().Tiles()); got != 2 {
		t.Errorf("board has %d tiles, want merged tile plus one spawn", got)
	}
	if !e.CanUndo() {
		t.Error("a successful move should enable undo")
	}
}

func TestMoveRowResolution(t *testing.T) {
	tests := []struct {
		name  string
		row   []int
		dir   Direction
		want  []int // leading cells in the move direction
		score int
	}{
		{"single merge", []int{2, 2, 0, 0}, DirLeft, []int{4}, 4},
		{"no chain merge", []int{4, 4, 4, 4}, DirLeft, []int{8, 8}, 16},
		{"merged tile does not merge again", []int{2, 2, 4, 0}, DirLeft, []int{4, 4}, 4},
		{"leading pair merges first", []int{2, 2, 2, 0}, DirLeft, []int{4, 2}, 4},
		{"leading pair merges first rightward", []int{0, 2, 2, 2}, DirRight, []int{4, 2}, 4},
		{"slide across gap", []int{2, 0, 0, 2}, DirLeft, []int{4}, 4},
		{"slide without merge", []int{0, 2, 0, 4}, DirLeft, []int{2, 4}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, [][]int{
				tc.row,
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			}, Options{})

			if !e.Move(tc.dir) {
				t.Fatal("move should change the board")
			}
			row := e.Grid().Field().Values()[0]
			for i, want := range tc.want {
				x := i
				if tc.dir == DirRight {
					x = len(row) - 1 - i
				}
				if row[x] != want {
					t.Errorf("row = %v, want %v leading", row, tc.want)
					break
				}
			}
			if e.Score() != tc.score {
				t.Errorf("Score() = %d, want %d", e.Score(), tc.score)
			}
		})
	}
}

func TestMoveOnLockedBoardLoses(t *testing.T) {
	rows := [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	e := newTestEngine(t, rows, Options{})

	for _, d := range Directions {
		if e.Move(d) {
			t.Errorf("Move(%v) changed a locked board", d)
		}
	}
	if e.State() != StateLost {
		t.Errorf("State() = %v, want lost", e.State())
	}
	if !reflect.DeepEqual(e.Grid().Field().Values(), rows) {
		t.Errorf("board changed: %v", e.Grid().Field().Values())
	}
	if e.Score() != 0 || e.CanUndo() {
		t.Error("no-op moves must not touch score or undo")
	}
	if got := len(e.Animations().Global()); got != 1 {
		t.Errorf("global animations = %d, want one fade", got)
	}
}

func TestMoveWithoutChangeKeepsPlaying(t *testing.T) {
	rows := [][]int{
		{2, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	e := newTestEngine(t, rows, Options{})

	if e.Move(DirUp) || e.Move(DirLeft) {
		t.Fatal("tiles already against the top-left edge should not move")
	}
	if e.State() != StateNormal {
		t.Errorf("State() = %v, want normal", e.State())
	}
	if len(e.Grid().Field().Tiles()) != 2 {
		t.Error("a move that changed nothing must not spawn")
	}
}

func TestMoveInvalidDirection(t *testing.T) {
	e := newTestEngine(t, [][]int{{2, 0}, {0, 0}}, Options{})
	if e.Move(Direction(9)) {
		t.Error("invalid direction should not move")
	}
}

func TestMoveLosesWhenBoardLocks(t *testing.T) {
	// Sliding the bottom row left leaves (3,3) as the only empty cell;
	// the spawned 4 has no equal neighbour.
	e := newTestEngine(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 8},
		{0, 8, 2, 8},
	}, Options{Spawn4Probability: 1})

	if !e.Move(DirLeft) {
		t.Fatal("Move(left) should change the board")
	}
	if e.State() != StateLost || !e.GameLost() || e.IsActive() {
		t.Fatalf("State() = %v, want lost", e.State())
	}
	if len(e.Animations().Global()) != 1 || e.Animations().Global()[0].Kind != AnimationFade {
		t.Error("losing should start the fade overlay")
	}
	if e.Move(DirUp) {
		t.Error("a lost game must ignore moves")
	}
}

func TestLostIffNoMovesAvailable(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want bool
	}{
		{"empty cell", [][]int{{2, 4}, {4, 0}}, true},
		{"horizontal pair", [][]int{{2, 2}, {4, 8}}, true},
		{"vertical pair", [][]int{{2, 4}, {2, 8}}, true},
		{"locked", [][]int{{2, 4}, {4, 2}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, tc.rows, Options{})
			if got := movesAvailable(e.Grid()); got != tc.want {
				t.Errorf("movesAvailable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWinThenEndless(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{1024, 1024, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, Options{TileTypes: 13})

	e.Move(DirLeft)
	if e.State() != StateWon || !e.GameWon() || e.IsActive() {
		t.Fatalf("State() = %v, want won", e.State())
	}
	if !e.CanContinue() {
		t.Error("a first win should offer endless mode")
	}
	if e.Move(DirRight) {
		t.Error("a won game must ignore moves")
	}

	if !e.SetEndlessMode() {
		t.Fatal("SetEndlessMode() should switch a won game to endless")
	}
	if e.State() != StateEndless || !e.IsActive() || e.CanContinue() {
		t.Fatalf("State() = %v, want endless", e.State())
	}
	if e.WinValue() != 4096 {
		t.Errorf("WinValue() = %d, want the endless ceiling 4096", e.WinValue())
	}
	if e.SetEndlessMode() {
		t.Error("SetEndlessMode() should only act on a won game")
	}

	// A second 2048 does not win again.
	e.grid.ClearGrid()
	e.grid.InsertTile(NewTile(Position{X: 0, Y: 0}, 2048))
	e.grid.InsertTile(NewTile(Position{X: 1, Y: 0}, 1024))
	e.grid.InsertTile(NewTile(Position{X: 2, Y: 0}, 1024))
	e.Move(DirLeft)
	if e.State() != StateEndless {
		t.Fatalf("State() = %v, want endless", e.State())
	}

	e.Move(DirLeft)
	if got := e.Grid().CellContent(Position{X: 0, Y: 0}); got == nil || got.Value != 4096 {
		t.Fatalf("(0,0) = %v, want 4096", got)
	}
	if e.State() != StateEndlessWon || !e.GameWon() || e.CanContinue() {
		t.Errorf("State() = %v, want endless_won", e.State())
	}
}

func TestWinSkipsLossCheck(t *testing.T) {
	// The winning merge leaves (3,3) as the only empty cell and the spawned
	// 4 has no equal neighbour, so the board is locked but still won.
	e := newTestEngine(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 8},
		{1024, 1024, 8, 16},
	}, Options{Spawn4Probability: 1})

	if !e.Move(DirLeft) {
		t.Fatal("Move(left) should change the board")
	}
	if tile := e.Grid().CellContent(Position{X: 3, Y: 3}); tile == nil || tile.Value != 4 {
		t.Fatalf("expected a spawned 4 at (3,3), board %v", e.Grid().Field().Values())
	}
	if movesAvailable(e.Grid()) {
		t.Fatalf("board should be locked: %v", e.Grid().Field().Values())
	}
	if e.State() != StateWon {
		t.Errorf("State() = %v, want won", e.State())
	}
}

func TestUndo(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{2, 2, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, Options{})
	before := e.Grid().Field().Values()

	if e.RevertUndoState() {
		t.Fatal("undo before any move should be a no-op")
	}

	e.Move(DirLeft)
	if e.Score() != 4 {
		t.Fatalf("Score() = %d, want 4", e.Score())
	}

	if !e.RevertUndoState() {
		t.Fatal("undo after a move should restore")
	}
	if !reflect.DeepEqual(e.Grid().Field().Values(), before) {
		t.Errorf("undo restored %v, want %v", e.Grid().Field().Values(), before)
	}
	if e.Score() != 0 || e.State() != StateNormal {
		t.Errorf("undo restored score %d state %v", e.Score(), e.State())
	}
	if e.RevertUndoState() {
		t.Error("a second undo must be a no-op")
	}
}

func TestUndoRestoresLostGame(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 8},
		{0, 8, 2, 8},
	}, Options{Spawn4Probability: 1})

	e.Move(DirLeft)
	if !e.GameLost() {
		t.Fatal("setup should lose")
	}
	e.RevertUndoState()
	if e.State() != StateNormal || !e.IsActive() {
		t.Errorf("undo should reopen the game, State() = %v", e.State())
	}
}

func TestNewGame(t *testing.T) {
	var recorded []int
	e := newTestEngine(t, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, Options{HighScore: 2, OnHighScore: func(s int) { recorded = append(recorded, s) }})

	e.Move(DirLeft)
	if e.HighScore() != 4 {
		t.Fatalf("HighScore() = %d, want 4", e.HighScore())
	}

	e.NewGame()
	if e.Score() != 0 || e.State() != StateNormal {
		t.Errorf("NewGame left score %d state %v", e.Score(), e.State())
	}
	if got := len(e.Grid().Field().Tiles()); got != DefaultStartTiles {
		t.Errorf("NewGame seeded %d tiles, want %d", got, DefaultStartTiles)
	}
	if !reflect.DeepEqual(recorded, []int{4}) {
		t.Errorf("recorded high scores %v, want [4]", recorded)
	}

	e.NewGame()
	if len(recorded) != 1 {
		t.Errorf("unchanged high score recorded again: %v", recorded)
	}

	// Undo reaches back across NewGame only to the board it replaced.
	replaced := e.Grid().Field().Values()
	e.NewGame()
	if !e.RevertUndoState() {
		t.Fatal("NewGame should leave an undo point")
	}
	if !reflect.DeepEqual(e.Grid().Field().Values(), replaced) {
		t.Errorf("undo restored %v, want %v", e.Grid().Field().Values(), replaced)
	}
}

func TestNewGameUndoOnFreshEngine(t *testing.T) {
	e := NewEngine(Options{Rand: rand.New(rand.NewSource(7))})
	e.NewGame()

	if !e.RevertUndoState() {
		t.Fatal("NewGame commits an undo point")
	}
	if len(e.Grid().Field().Tiles()) != 0 {
		t.Error("undo after the first NewGame should restore the empty board")
	}
}

func TestMoveAnimations(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{2, 2, 0, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, Options{})
	e.Move(DirLeft)

	// (0,0) holds the stationary tile's move, the merging tile's move from
	// (1,0) and the merge pop.
	mergeCell := e.Animations().Cells(Position{X: 0, Y: 0})
	kinds := map[AnimationKind]int{}
	for _, a := range mergeCell {
		kinds[a.Kind]++
		if a.Kind == AnimationMove && len(a.Extras) == 2 && !reflect.DeepEqual(a.Extras, []int{1, 0}) {
			t.Errorf("merge move extras = %v, want [1 0]", a.Extras)
		}
		if a.Kind == AnimationMerge && a.Delay != DefaultBaseAnimation {
			t.Errorf("merge delay = %v, want %v", a.Delay, DefaultBaseAnimation)
		}
	}
	if kinds[AnimationMove] != 2 || kinds[AnimationMerge] != 1 {
		t.Errorf("merge cell animations = %v, want two moves and one merge", kinds)
	}

	slide := e.Animations().Cells(Position{X: 1, Y: 0})
	if len(slide) == 0 || slide[0].Kind != AnimationMove || !reflect.DeepEqual(slide[0].Extras, []int{3, 0, 0}) {
		t.Errorf("slide animations = %+v, want move from (3,0)", slide)
	}

	spawns := 0
	e.Grid().Field().ForEach(func(p Position, _ *Tile) {
		for _, a := range e.Animations().Cells(p) {
			if a.Kind == AnimationSpawn {
				spawns++
				if a.Delay != DefaultBaseAnimation {
					t.Errorf("spawn delay = %v, want %v", a.Delay, DefaultBaseAnimation)
				}
			}
		}
	})
	if spawns != 1 {
		t.Errorf("spawn animations = %d, want 1", spawns)
	}
}

func TestRandomPlayConservesMass(t *testing.T) {
	e := NewEngine(Options{Rand: rand.New(rand.NewSource(42))})
	e.NewGame()

	rng := rand.New(rand.NewSource(99))
	for range 500 {
		if !e.IsActive() {
			break
		}
		before := boardSum(e)
		tilesBefore := len(e.Grid().Field().Tiles())
		score := e.Score()

		moved := e.Move(Directions[rng.Intn(len(Directions))])
		after := boardSum(e)

		if !moved {
			if after != before {
				t.Fatalf("no-op move changed the board sum %d -> %d", before, after)
			}
			continue
		}
		if spawned := after - before; spawned != 2 && spawned != 4 {
			t.Fatalf("board sum changed by %d, want one spawned 2 or 4", spawned)
		}
		merges := tilesBefore + 1 - len(e.Grid().Field().Tiles())
		if merges == 0 && e.Score() != score {
			t.Fatalf("score changed without merges")
		}
		if e.Score() < score || e.HighScore() < e.Score() {
			t.Fatalf("score %d high %d after %d", e.Score(), e.HighScore(), score)
		}
		for _, tile := range e.Grid().Field().Tiles() {
			if !isTileValue(tile.Value) {
				t.Fatalf("tile value %d is not a power of two", tile.Value)
			}
		}
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateLost:       "lost",
		StateNormal:     "normal",
		StateWon:        "won",
		StateEndless:    "endless",
		StateEndlessWon: "endless_won",
		State(7):        "invalid",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
