package config

import (
	_ "embed"
)

//go:embed defaults/campus.yaml
var defaultCampusYAML []byte

// DefaultCampusConfig returns the hardcoded campus runner configuration.
// It mirrors defaults/campus.yaml and is used when the embedded file cannot be parsed.
func DefaultCampusConfig() CampusConfig {
	return CampusConfig{
		World: CampusWorld{
			Width:        800,
			Height:       300,
			GroundHeight: 30,
		},
		Physics: CampusPhysics{
			Gravity:        0.6,
			JumpForce:      -12,
			BaseSpeed:      6,
			BackdropFactor: 0.5,
		},
		Player: CampusPlayer{
			X:            50,
			Width:        30,
			Height:       50,
			CrouchHeight: 25,
		},
		Obstacles: CampusObstacles{
			IntervalMin:     800,
			IntervalMax:     2000,
			FlyingClearance: 40,
		},
		Bonuses: CampusBonuses{
			SpawnChance:        0.002,
			Size:               20,
			MaxLift:            100,
			CoffeeDuration:     5000, // 5 seconds of speed boost
			CoffeeBoost:        1.5,
			CheatsheetDuration: 8000, // 8 seconds of invulnerability
			NotesPoints:        50,
			NotesKnowledge:     5,
		},
		Exam: CampusExam{
			Interval:    30000,
			Duration:    10000,
			Alert:       2000,
			SpawnFactor: 0.6,
			SpeedFactor: 1.5,
		},
		Progress: CampusProgress{
			ScorePerFrame:           0.1,
			SemesterThreshold:       1000,
			MaxSemester:             4,
			SpeedStep:               0.2,
			ContinueCost:            50,
			ContinueInvulnerability: 3000,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultCampusYAML
}
