package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty maps a CLI value to a preset.
// Empty or unknown values report false and leave the config untouched.
func ParseDifficulty(name string) (DifficultyPreset, bool) {
	switch DifficultyPreset(name) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(name), true
	default:
		return "", false
	}
}

// ApplyCampusPreset modifies the config based on a difficulty preset.
// Normal keeps the configured values.
func ApplyCampusPreset(cfg *CampusConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Physics.BaseSpeed *= 5.0 / 6.0
		cfg.Obstacles.IntervalMin *= 1.25
		cfg.Obstacles.IntervalMax *= 1.2
		cfg.Bonuses.SpawnChance *= 1.5
	case DifficultyHard:
		cfg.Physics.BaseSpeed *= 7.0 / 6.0
		cfg.Obstacles.IntervalMin *= 0.8
		cfg.Obstacles.IntervalMax *= 0.8
		cfg.Bonuses.SpawnChance *= 0.75
		cfg.Exam.Interval *= 0.8
	}
}
