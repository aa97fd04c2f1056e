package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveScore(ScoreEntry{GameID: "2048", Score: 64}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	if high, _ := store.HighScore("2048"); high != 64 {
		t.Errorf("HighScore() after reopen = %d, want 64", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	entries := []ScoreEntry{
		{GameID: "2048", Player: "local", Score: 100, MaxTile: 16},
		{GameID: "2048", Player: "alice", Score: 50, MaxTile: 8},
		{GameID: "2048", Player: "local", Score: 3000, MaxTile: 2048, Won: true},
		{GameID: "other", Score: 500},
	}
	for _, e := range entries {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []int{3000, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}
	if !scores[0].Won || scores[0].MaxTile != 2048 || scores[0].Player != "local" {
		t.Errorf("top entry fields lost: %+v", scores[0])
	}
	if scores[1].Won {
		t.Error("Won flag should round-trip false")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore(ScoreEntry{GameID: "test", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("AllScores() returned %d, want 5", len(all))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 300})
	if high, _ = store.HighScore("2048"); high != 300 {
		t.Errorf("HighScore() = %d, want 300 from finished games", high)
	}

	// A recorded high score from a running game counts too.
	if err := store.RecordHighScore("2048", 450); err != nil {
		t.Fatalf("RecordHighScore() failed: %v", err)
	}
	if high, _ = store.HighScore("2048"); high != 450 {
		t.Errorf("HighScore() = %d, want 450", high)
	}

	// Lower values never overwrite.
	store.RecordHighScore("2048", 200)
	if high, _ = store.HighScore("2048"); high != 450 {
		t.Errorf("HighScore() = %d after lower record, want 450", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 100})
	store.RecordHighScore("2048", 900)
	store.SaveScore(ScoreEntry{GameID: "other", Score: 300})

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("2048", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if high, _ := store.HighScore("2048"); high != 0 {
		t.Errorf("HighScore() after clear = %d, want 0", high)
	}
	if scores, _ := store.TopScores("other", 10); len(scores) != 1 {
		t.Error("other games should not be affected by clearing")
	}
}

type savedBoard struct {
	Cells [][]int `json:"cells"`
	Score int     `json:"score"`
}

func TestStoreSaveLoadGame(t *testing.T) {
	store := openTestStore(t)

	var got savedBoard
	if err := store.LoadGame("2048", "local", &got); !errors.Is(err, ErrNoSave) {
		t.Fatalf("LoadGame() on empty slot = %v, want ErrNoSave", err)
	}

	first := savedBoard{Cells: [][]int{{2, 0}, {0, 4}}, Score: 12}
	if err := store.SaveGame("2048", "local", first); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	second := savedBoard{Cells: [][]int{{8, 0}, {0, 4}}, Score: 20}
	if err := store.SaveGame("2048", "local", second); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}
	store.SaveGame("2048", "alice", first)

	if err := store.LoadGame("2048", "local", &got); err != nil {
		t.Fatalf("LoadGame() failed: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("LoadGame() = %+v, want %+v", got, second)
	}

	if err := store.DeleteGame("2048", "local"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if err := store.LoadGame("2048", "local", &got); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadGame() after delete = %v, want ErrNoSave", err)
	}
	if err := store.LoadGame("2048", "alice", &got); err != nil {
		t.Errorf("other slots should survive a delete: %v", err)
	}
	if err := store.DeleteGame("2048", "nobody"); err != nil {
		t.Errorf("deleting an empty slot should succeed: %v", err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() on empty game failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 100, MaxTile: 64})
	store.SaveScore(ScoreEntry{GameID: "2048", Score: 300, MaxTile: 2048, Won: true})

	stats, err = store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.Wins != 1 || stats.BestTile != 2048 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalScore != 400 {
		t.Errorf("score stats = %+v", stats)
	}
}
