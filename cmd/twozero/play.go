package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/twozero/internal/core"
	"github.com/vovakirdan/twozero/internal/platform/tui"
)

var flagFresh bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start the game menu in this terminal.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  U                - Undo last move
  N                - New game
  C                - Keep going after a win
  Esc              - Save and return to menu
  Q/Ctrl+C         - Save and quit

Examples:
  twozero play
  twozero play --preset large
  twozero play --seed 42 --fresh
  twozero play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Discard the saved game before starting")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore()
	if store != nil {
		defer store.Close()
		if flagFresh {
			if err := store.DeleteGame(tui.GameID, tui.LocalSlot); err != nil {
				return fmt.Errorf("discarding saved game: %w", err)
			}
		}
	}

	return tui.Run(tui.SessionOptions{
		Store: store,
		Game:  cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: cfg.Runtime.TickRate,
			Seed:     flagSeed,
		},
		Slot: tui.LocalSlot,
	})
}
