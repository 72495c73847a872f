package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to the terminal size and tick rate.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Frame   uint64 // Number of frames stepped since the scene was created
	Ready   bool   // Whether assets are loaded and the scene is built
	Paused  bool   // Whether the simulation is paused
	Debug   bool   // Whether physics debug outlines are drawn
	Stopped bool   // Whether the engine has been torn down
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
