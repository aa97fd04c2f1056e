package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/twozero/internal/platform/tui"
	"github.com/vovakirdan/twozero/internal/storage"
)

var (
	flagLimit int
	flagAll   bool
	flagClear bool
	flagTable bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the score history",
	Long: `Display the best recorded games and a summary.

Examples:
  twozero scores
  twozero scores --limit 25
  twozero scores --all
  twozero scores --table
  twozero scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Show every recorded game, newest first")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the score history and best score")
	scoresCmd.Flags().BoolVar(&flagTable, "table", false, "Browse scores in the interactive table")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(tui.GameID); err != nil {
			return err
		}
		fmt.Println("Score history cleared.")
		return nil
	}

	if flagTable {
		return runScoreTable(store)
	}

	var scores []storage.ScoreEntry
	if flagAll {
		scores, err = store.AllScores(tui.GameID)
	} else {
		scores, err = store.TopScores(tui.GameID, flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Println("High Scores - 2048")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'twozero play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Tile", "Won", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "----", "---", "------", "----")

	for i, entry := range scores {
		won := "no"
		if entry.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-8d  %-8d  %-6s  %-12s  %s\n",
			i+1, entry.Score, entry.MaxTile, won, entry.Player, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	stats, err := store.GetGameStats(tui.GameID)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	fmt.Printf("Best: %d  Games: %d  Wins: %d  Best tile: %d  Average: %.0f\n",
		stats.HighScore, stats.GamesCount, stats.Wins, stats.BestTile, stats.AvgScore)
	return nil
}

func runScoreTable(store *storage.Store) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return tui.RunScoreboard(store, width, height)
}
