package t2048

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned by Load for data that cannot describe a game.
var ErrInvalidState = errors.New("t2048: invalid saved state")

// SavedState is everything needed to round-trip a game through storage.
// Cells and UndoCells are rows (Cells[y][x]) with 0 for empty cells.
type SavedState struct {
	Size      int     `json:"size"`
	Cells     [][]int `json:"cells"`
	UndoCells [][]int `json:"undo_cells"`
	Score     int     `json:"score"`
	HighScore int     `json:"high_score"`
	LastScore int     `json:"last_score"`
	CanUndo   bool    `json:"can_undo"`
	State     State   `json:"state"`
	LastState State   `json:"last_state"`
}

// Save captures the engine state. Animations are not part of it.
func (e *Engine) Save() SavedState {
	return SavedState{
		Size:      e.size,
		Cells:     e.grid.Field().Values(),
		UndoCells: e.grid.UndoField().Values(),
		Score:     e.score,
		HighScore: e.highScore,
		LastScore: e.lastScore,
		CanUndo:   e.canUndo,
		State:     e.state,
		LastState: e.lastState,
	}
}

// Load replaces the engine state with s. In-flight animations are dropped.
// On error the engine is left untouched.
func (e *Engine) Load(s SavedState) error {
	if err := s.validate(e.size); err != nil {
		return err
	}

	e.anims.CancelAnimations()
	fillField(e.grid.Field(), s.Cells)
	fillField(e.grid.UndoField(), s.UndoCells)

	e.score = s.Score
	e.highScore = max(s.HighScore, e.storedHigh)
	e.lastScore = s.LastScore
	e.canUndo = s.CanUndo
	e.state = s.State
	e.lastState = s.LastState
	return nil
}

func (s SavedState) validate(size int) error {
	if s.Size != size {
		return fmt.Errorf("%w: board size %d, engine size %d", ErrInvalidState, s.Size, size)
	}
	if !s.State.Valid() || !s.LastState.Valid() {
		return fmt.Errorf("%w: state codes %d/%d", ErrInvalidState, s.State, s.LastState)
	}
	if s.Score < 0 || s.HighScore < 0 || s.LastScore < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidState)
	}
	if err := validateCells(s.Cells, size); err != nil {
		return fmt.Errorf("%w: cells: %v", ErrInvalidState, err)
	}
	if err := validateCells(s.UndoCells, size); err != nil {
		return fmt.Errorf("%w: undo cells: %v", ErrInvalidState, err)
	}
	return nil
}

func validateCells(cells [][]int, size int) error {
	if len(cells) != size {
		return fmt.Errorf("%d rows, want %d", len(cells), size)
	}
	for y, row := range cells {
		if len(row) != size {
			return fmt.Errorf("row %d has %d cells, want %d", y, len(row), size)
		}
		for x, v := range row {
			if v != 0 && !isTileValue(v) {
				return fmt.Errorf("value %d at (%d,%d)", v, x, y)
			}
		}
	}
	return nil
}

// isTileValue reports whether v is a power of two no smaller than 2.
func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

func fillField(f *Field, cells [][]int) {
	f.Clear()
	for y, row := range cells {
		for x, v := range row {
			if v > 0 {
				p := Position{X: x, Y: y}
				f.Set(p, NewTile(p, v))
			}
		}
	}
}

// Snapshot is a read-only summary of the board for spectators and tests.
type Snapshot struct {
	Size      int     `json:"size"`
	Cells     [][]int `json:"cells"`
	Score     int     `json:"score"`
	HighScore int     `json:"high_score"`
	MaxTile   int     `json:"max_tile"`
	State     string  `json:"state"`
	CanUndo   bool    `json:"can_undo"`
}

// Snapshot returns the current board summary.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Size:      e.size,
		Cells:     e.grid.Field().Values(),
		Score:     e.score,
		HighScore: e.highScore,
		MaxTile:   e.MaxTile(),
		State:     e.state.String(),
		CanUndo:   e.canUndo,
	}
}
