// Package config provides YAML/TOML game configuration loading and
// difficulty presets for the campus runner.
package config

import (
	"errors"
	"fmt"
)

// CampusConfig contains all tunables of the campus runner simulation.
type CampusConfig struct {
	World     CampusWorld     `yaml:"world" toml:"world"`
	Physics   CampusPhysics   `yaml:"physics" toml:"physics"`
	Player    CampusPlayer    `yaml:"player" toml:"player"`
	Obstacles CampusObstacles `yaml:"obstacles" toml:"obstacles"`
	Bonuses   CampusBonuses   `yaml:"bonuses" toml:"bonuses"`
	Exam      CampusExam      `yaml:"exam" toml:"exam"`
	Progress  CampusProgress  `yaml:"progress" toml:"progress"`
}

// CampusWorld defines the logical playfield.
type CampusWorld struct {
	Width        float64 `yaml:"width" toml:"width"`
	Height       float64 `yaml:"height" toml:"height"`
	GroundHeight float64 `yaml:"ground_height" toml:"ground_height"`
}

// GroundY returns the y-coordinate of the ground surface.
func (w CampusWorld) GroundY() float64 {
	return w.Height - w.GroundHeight
}

// CampusPhysics defines movement parameters.
type CampusPhysics struct {
	Gravity        float64 `yaml:"gravity" toml:"gravity"`
	JumpForce      float64 `yaml:"jump_force" toml:"jump_force"`
	BaseSpeed      float64 `yaml:"base_speed" toml:"base_speed"`           // Scroll units per frame at multiplier 1
	BackdropFactor float64 `yaml:"backdrop_factor" toml:"backdrop_factor"` // Backdrop speed relative to obstacles
}

// CampusPlayer defines the student's hitbox.
type CampusPlayer struct {
	X            float64 `yaml:"x" toml:"x"`
	Width        float64 `yaml:"width" toml:"width"`
	Height       float64 `yaml:"height" toml:"height"`
	CrouchHeight float64 `yaml:"crouch_height" toml:"crouch_height"`
}

// CampusObstacles defines obstacle spawning.
type CampusObstacles struct {
	IntervalMin     float64 `yaml:"interval_min" toml:"interval_min"` // ms
	IntervalMax     float64 `yaml:"interval_max" toml:"interval_max"` // ms
	FlyingClearance float64 `yaml:"flying_clearance" toml:"flying_clearance"`
}

// CampusBonuses defines bonus spawning and payloads.
type CampusBonuses struct {
	SpawnChance        float64 `yaml:"spawn_chance" toml:"spawn_chance"` // Per frame
	Size               float64 `yaml:"size" toml:"size"`
	MaxLift            float64 `yaml:"max_lift" toml:"max_lift"`
	CoffeeDuration     float64 `yaml:"coffee_duration" toml:"coffee_duration"`
	CoffeeBoost        float64 `yaml:"coffee_boost" toml:"coffee_boost"`
	CheatsheetDuration float64 `yaml:"cheatsheet_duration" toml:"cheatsheet_duration"`
	NotesPoints        float64 `yaml:"notes_points" toml:"notes_points"`
	NotesKnowledge     int     `yaml:"notes_knowledge" toml:"notes_knowledge"`
}

// CampusExam defines the recurring exam session.
type CampusExam struct {
	Interval    float64 `yaml:"interval" toml:"interval"`
	Duration    float64 `yaml:"duration" toml:"duration"`
	Alert       float64 `yaml:"alert" toml:"alert"`
	SpawnFactor float64 `yaml:"spawn_factor" toml:"spawn_factor"`
	SpeedFactor float64 `yaml:"speed_factor" toml:"speed_factor"`
}

// CampusProgress defines scoring, semesters and continues.
type CampusProgress struct {
	ScorePerFrame           float64 `yaml:"score_per_frame" toml:"score_per_frame"`
	SemesterThreshold       float64 `yaml:"semester_threshold" toml:"semester_threshold"`
	MaxSemester             int     `yaml:"max_semester" toml:"max_semester"`
	SpeedStep               float64 `yaml:"speed_step" toml:"speed_step"`
	ContinueCost            int     `yaml:"continue_cost" toml:"continue_cost"`
	ContinueInvulnerability float64 `yaml:"continue_invulnerability" toml:"continue_invulnerability"`
}

// ErrInvalidConfig is returned by Validate for unusable values.
var ErrInvalidConfig = errors.New("config: invalid campus config")

// Validate checks the values the simulation cannot run without.
func (c CampusConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size must be positive", ErrInvalidConfig)
	case c.World.GroundHeight < 0 || c.World.GroundHeight >= c.World.Height:
		return fmt.Errorf("%w: ground_height must be within the world", ErrInvalidConfig)
	case c.Player.Height <= 0 || c.Player.CrouchHeight <= 0 || c.Player.Width <= 0:
		return fmt.Errorf("%w: player size must be positive", ErrInvalidConfig)
	case c.Obstacles.IntervalMin <= 0 || c.Obstacles.IntervalMax < c.Obstacles.IntervalMin:
		return fmt.Errorf("%w: obstacle interval window %v..%v", ErrInvalidConfig, c.Obstacles.IntervalMin, c.Obstacles.IntervalMax)
	case c.Bonuses.SpawnChance < 0 || c.Bonuses.SpawnChance > 1:
		return fmt.Errorf("%w: bonus spawn_chance must be in [0,1]", ErrInvalidConfig)
	case c.Physics.BaseSpeed <= 0:
		return fmt.Errorf("%w: base_speed must be positive", ErrInvalidConfig)
	case c.Bonuses.CoffeeBoost <= 0:
		return fmt.Errorf("%w: coffee_boost must be positive", ErrInvalidConfig)
	case c.Bonuses.CoffeeDuration <= 0 || c.Bonuses.CheatsheetDuration <= 0:
		return fmt.Errorf("%w: bonus durations must be positive", ErrInvalidConfig)
	case c.Exam.Interval <= 0 || c.Exam.Duration <= 0:
		return fmt.Errorf("%w: exam interval and duration must be positive", ErrInvalidConfig)
	case c.Exam.Alert < 0:
		return fmt.Errorf("%w: exam alert must not be negative", ErrInvalidConfig)
	case c.Exam.SpawnFactor <= 0:
		return fmt.Errorf("%w: exam spawn_factor must be positive", ErrInvalidConfig)
	case c.Progress.MaxSemester < 1:
		return fmt.Errorf("%w: max_semester must be at least 1", ErrInvalidConfig)
	case c.Progress.SemesterThreshold <= 0:
		return fmt.Errorf("%w: semester_threshold must be positive", ErrInvalidConfig)
	}
	return nil
}
