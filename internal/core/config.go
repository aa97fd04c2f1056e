package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second driving animation ticks
	Seed     int64 // RNG seed for deterministic tile spawns
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState summarizes the game for the platform layer.
type GameState struct {
	Score       int
	HighScore   int
	MaxTile     int
	GameOver    bool // No further moves are accepted
	Won         bool
	CanContinue bool // Won and endless mode is still available
	Animating   bool
}

// StepResult is returned by Game.Step after each frame.
type StepResult struct {
	State GameState
	Moved bool // A move changed the board this frame
}
