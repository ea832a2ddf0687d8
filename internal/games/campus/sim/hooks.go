package sim

import "github.com/vovakirdan/campus-runner/internal/core"

// Cue is a sound effect requested by the simulation.
type Cue uint8

const (
	CueJump Cue = iota
	CueCollision
	CueBonus
	CueExam
)

func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CueCollision:
		return "collision"
	case CueBonus:
		return "bonus"
	case CueExam:
		return "exam"
	default:
		return "unknown"
	}
}

// SpriteKind says what a Sprite depicts.
type SpriteKind uint8

const (
	SpritePlayer SpriteKind = iota
	SpriteObstacle
	SpriteBonus
)

// Sprite is one visible entity handed to the Renderer.
type Sprite struct {
	Kind     SpriteKind
	Obstacle ObstacleKind // Set when Kind == SpriteObstacle
	Bonus    BonusKind    // Set when Kind == SpriteBonus
	Bounds   core.Rect

	Character    Character
	Jumping      bool
	Crouching    bool
	Invulnerable bool
	Flying       bool
}

// Frame describes the scene for one step, before any sprite is drawn.
type Frame struct {
	ScrollOffset float64 // Backdrop offset in [0, world width)
	Semester     int
	Theme        Theme
	ExamActive   bool
	ExamAlert    bool
	GroundY      float64
}

// Stats is the per-frame status summary.
type Stats struct {
	Score           float64 `json:"score"`
	Knowledge       int     `json:"knowledge"`
	Semester        int     `json:"semester"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
	ExamActive      bool    `json:"exam_active"`
	Invulnerable    bool    `json:"invulnerable"`
	Running         bool    `json:"running"`
}

// Renderer receives the scene once per step.
type Renderer interface {
	BeginFrame(Frame)
	Draw(Sprite)
}

// Audio plays sound cues. Errors are logged and otherwise ignored.
type Audio interface {
	PlayCue(Cue) error
}

// StatsPublisher receives the status summary at the end of every step.
type StatsPublisher interface {
	PublishStats(Stats)
}

// Lifecycle is notified when a run ends.
type Lifecycle interface {
	OnGameOver(finalScore float64, knowledge int)
}

// Publishers fans stats out to several publishers.
type Publishers []StatsPublisher

func (ps Publishers) PublishStats(st Stats) {
	for _, p := range ps {
		if p != nil {
			p.PublishStats(st)
		}
	}
}

type nopRenderer struct{}

func (nopRenderer) BeginFrame(Frame) {}
func (nopRenderer) Draw(Sprite)      {}

type nopAudio struct{}

func (nopAudio) PlayCue(Cue) error { return nil }

type nopStats struct{}

func (nopStats) PublishStats(Stats) {}

type nopLifecycle struct{}

func (nopLifecycle) OnGameOver(float64, int) {}
