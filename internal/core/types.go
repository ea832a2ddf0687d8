package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW   int    // Screen width in characters
	ScreenH   int    // Screen height in characters
	TickRate  int    // Simulation ticks per second (default 60)
	Seed      int64  // RNG seed for deterministic gameplay
	Character string // Selected character archetype (stem, humanities, medical)
	Knowledge int    // Knowledge wallet carried into the run
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TickRate:  60,
		Seed:      0, // 0 means use current time in platform layer
		Character: "stem",
	}
}

// FrameMillis returns the duration of one tick in milliseconds.
func (c RuntimeConfig) FrameMillis() float64 {
	if c.TickRate <= 0 {
		return 1000.0 / 60.0
	}
	return 1000.0 / float64(c.TickRate)
}

// GameState is the snapshot a game reports to the platform after each tick.
type GameState struct {
	Score     int  // Whole points scored this run
	Knowledge int  // Knowledge currency available for continues
	Semester  int  // Current semester (1-4)
	Running   bool // Whether the simulation is advancing
	GameOver  bool // Whether the run has ended
	Paused    bool // Whether the game is paused
	CanResume bool // Whether a continue is affordable
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
