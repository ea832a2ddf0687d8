// Package sim is the frame-stepped core of Campus Runner: player physics,
// spawning, collisions, exam sessions and bonus effects. It has no I/O of its
// own; drawing, sound, stats and end-of-run handling go through the hooks in
// Options.
package sim

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/campus-runner/internal/config"
)

var (
	// ErrNotEnoughKnowledge is returned by Continue when the wallet cannot
	// pay for another attempt.
	ErrNotEnoughKnowledge = errors.New("sim: not enough knowledge to continue")
	// ErrNotOver is returned by Continue outside the game-over state.
	ErrNotOver = errors.New("sim: no finished run to continue")
)

// InputEvent is a discrete control request.
type InputEvent uint8

const (
	InputJump InputEvent = iota + 1 // Also starts a game when none is running
	InputCrouchStart
	InputCrouchEnd
	InputStartGame
)

// Session is the state of the current run.
type Session struct {
	Score     float64
	Knowledge int
	Semester  int
	Running   bool
	GameOver  bool

	base  float64 // Grows by the speed step each semester
	boost float64 // Product of active coffee boosts
}

// SpeedMultiplier is the semester speed times any active boosts.
func (s Session) SpeedMultiplier() float64 {
	return s.base * s.boost
}

// Options configure a Simulation. Nil hooks are replaced by no-ops.
type Options struct {
	Config    config.CampusConfig
	Character Character
	Seed      int64
	Knowledge int // Starting wallet

	Renderer  Renderer
	Audio     Audio
	Stats     StatsPublisher
	Lifecycle Lifecycle
	Logger    *log.Logger
}

// Simulation owns one game session.
type Simulation struct {
	cfg       config.CampusConfig
	character Character

	session   Session
	player    *Player
	obstacles []Obstacle
	bonuses   []Bonus
	exam      ExamSession

	timeline *Timeline
	spawner  *Spawner

	activeBoosts   int
	lastObstacleAt float64
	nextObstacleIn float64
	scroll         float64

	renderer  Renderer
	audio     Audio
	stats     StatsPublisher
	lifecycle Lifecycle
	log       *log.Logger
}

// New creates an idle simulation. Call Start (or send InputStartGame) to
// begin a run. An invalid config is replaced by the defaults.
func New(opts Options) *Simulation {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if err := opts.Config.Validate(); err != nil {
		opts.Logger.Warn("using default campus config", "err", err)
		opts.Config = config.DefaultCampusConfig()
	}

	s := &Simulation{
		cfg:       opts.Config,
		character: opts.Character,
		timeline:  NewTimeline(),
		renderer:  opts.Renderer,
		audio:     opts.Audio,
		stats:     opts.Stats,
		lifecycle: opts.Lifecycle,
		log:       opts.Logger,
	}
	s.spawner = NewSpawner(opts.Seed, &s.cfg)
	s.session = Session{Knowledge: opts.Knowledge, Semester: 1, base: 1, boost: 1}
	s.player = newPlayer(s.cfg, s.character)

	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.audio == nil {
		s.audio = nopAudio{}
	}
	if s.stats == nil {
		s.stats = nopStats{}
	}
	if s.lifecycle == nil {
		s.lifecycle = nopLifecycle{}
	}
	return s
}

// Start begins a new run. Score, semester, entities and pending effects are
// reset; knowledge carries over.
func (s *Simulation) Start() {
	s.timeline.Reset()
	s.dropEffects()

	s.session = Session{
		Knowledge: s.session.Knowledge,
		Semester:  1,
		Running:   true,
		base:      1,
		boost:     1,
	}
	s.player = newPlayer(s.cfg, s.character)
	s.obstacles = s.obstacles[:0]
	s.bonuses = s.bonuses[:0]
	s.exam = ExamSession{}
	s.lastObstacleAt = 0
	s.nextObstacleIn = 0
	s.scroll = 0

	s.scheduleExams()
	s.log.Info("run started", "character", s.character, "knowledge", s.session.Knowledge)
}

// Reseed replaces the spawner's RNG seed. Takes effect immediately.
func (s *Simulation) Reseed(seed int64) {
	s.spawner.Reset(seed)
}

// SetCharacter selects the archetype used from the next Start.
func (s *Simulation) SetCharacter(c Character) {
	s.character = c
}

// SetKnowledge overwrites the knowledge wallet.
func (s *Simulation) SetKnowledge(k int) {
	if k < 0 {
		k = 0
	}
	s.session.Knowledge = k
}

// HandleInput applies a control request.
func (s *Simulation) HandleInput(ev InputEvent) {
	switch ev {
	case InputStartGame:
		if !s.session.Running {
			s.Start()
		}
	case InputJump:
		if !s.session.Running {
			s.Start()
			return
		}
		if s.player.jump(s.cfg.Physics.JumpForce) {
			s.cue(CueJump)
		}
	case InputCrouchStart:
		if s.session.Running {
			s.player.crouch()
		}
	case InputCrouchEnd:
		if s.session.Running {
			s.player.standUp()
		}
	}
}

// Continue resumes a finished run for the configured knowledge cost, with a
// short invulnerability window and a fresh exam interval.
func (s *Simulation) Continue() error {
	if s.session.Running || !s.session.GameOver {
		return ErrNotOver
	}
	cost := s.cfg.Progress.ContinueCost
	if s.session.Knowledge < cost {
		return ErrNotEnoughKnowledge
	}

	s.session.Knowledge -= cost
	s.session.Running = true
	s.session.GameOver = false
	s.player.grantInvulnerability(s.cfg.Progress.ContinueInvulnerability)
	s.scheduleExams()

	s.log.Info("run continued", "score", s.session.Score, "knowledge", s.session.Knowledge)
	return nil
}

// Step advances the run by one frame of deltaMs milliseconds.
func (s *Simulation) Step(deltaMs float64) {
	if !s.session.Running {
		return
	}

	s.timeline.Advance(deltaMs)

	mult := s.session.SpeedMultiplier()
	base := s.cfg.Physics.BaseSpeed

	s.scroll = math.Mod(s.scroll+base*mult*s.cfg.Physics.BackdropFactor, s.cfg.World.Width)
	s.renderer.BeginFrame(s.Frame())

	s.spawn()

	s.player.update(deltaMs, s.cfg.Physics.Gravity, s.cfg.World.GroundY())
	s.renderer.Draw(s.player.sprite())

	obstacleSpeed := base * mult
	if s.exam.Active {
		obstacleSpeed *= s.cfg.Exam.SpeedFactor
	}
	for i := len(s.obstacles) - 1; i >= 0; i-- {
		o := &s.obstacles[i]
		o.X -= obstacleSpeed
		s.renderer.Draw(o.sprite())

		if HitsObstacle(s.player, *o) {
			hit := *o
			s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
			s.gameOver(hit)
			return
		}
		if o.offscreen() {
			s.obstacles = append(s.obstacles[:i], s.obstacles[i+1:]...)
		}
	}

	// Bonuses ignore the exam speed factor
	for i := len(s.bonuses) - 1; i >= 0; i-- {
		b := &s.bonuses[i]
		b.X -= base * s.session.SpeedMultiplier()
		s.renderer.Draw(b.sprite())

		if TouchesBonus(s.player, *b) {
			picked := *b
			s.bonuses = append(s.bonuses[:i], s.bonuses[i+1:]...)
			s.applyBonus(picked)
			continue
		}
		if b.offscreen() {
			s.bonuses = append(s.bonuses[:i], s.bonuses[i+1:]...)
		}
	}

	s.session.Score += s.session.SpeedMultiplier() * s.cfg.Progress.ScorePerFrame
	s.advanceSemester()

	s.stats.PublishStats(s.Stats())
}

func (s *Simulation) spawn() {
	now := s.timeline.Now()
	if now-s.lastObstacleAt > s.nextObstacleIn {
		kind := s.spawner.ChooseObstacleKind(s.exam.Active)
		s.obstacles = append(s.obstacles, newObstacle(s.cfg, kind))
		s.lastObstacleAt = now
		s.nextObstacleIn = s.spawner.NextObstacleInterval(s.exam.Active)
	}
	if s.spawner.ShouldSpawnBonus() {
		kind := s.spawner.ChooseBonusKind()
		s.bonuses = append(s.bonuses, newBonus(s.cfg, kind, s.spawner.BonusLift()))
	}
}

func (s *Simulation) advanceSemester() {
	p := s.cfg.Progress
	if s.session.Semester >= p.MaxSemester {
		return
	}
	if s.session.Score > float64(s.session.Semester)*p.SemesterThreshold {
		s.session.Semester++
		s.session.base += p.SpeedStep
		s.log.Info("semester advanced", "semester", s.session.Semester, "score", s.session.Score)
	}
}

func (s *Simulation) gameOver(hit Obstacle) {
	s.session.Running = false
	s.session.GameOver = true
	s.cue(CueCollision)
	s.dropEffects()

	s.log.Info("game over",
		"score", s.session.Score,
		"semester", s.session.Semester,
		"knowledge", s.session.Knowledge,
		"obstacle", hit.Kind,
	)
	s.lifecycle.OnGameOver(s.session.Score, s.session.Knowledge)
}

func (s *Simulation) cue(c Cue) {
	if err := s.audio.PlayCue(c); err != nil {
		s.log.Warn("audio cue failed", "cue", c, "err", err)
	}
}

// IsRunning reports whether a run is in progress.
func (s *Simulation) IsRunning() bool { return s.session.Running }

// Session returns a snapshot of the run state.
func (s *Simulation) Session() Session { return s.session }

// Player returns a snapshot of the player.
func (s *Simulation) Player() Player { return *s.player }

// Exam returns the exam session state.
func (s *Simulation) Exam() ExamSession { return s.exam }

// Obstacles returns a copy of the live obstacles.
func (s *Simulation) Obstacles() []Obstacle {
	return append([]Obstacle(nil), s.obstacles...)
}

// Bonuses returns a copy of the live bonuses.
func (s *Simulation) Bonuses() []Bonus {
	return append([]Bonus(nil), s.bonuses...)
}

// Character returns the archetype used for new runs.
func (s *Simulation) Character() Character { return s.character }

// Config returns the tuning values in use.
func (s *Simulation) Config() config.CampusConfig { return s.cfg }

// Now returns the simulated clock in milliseconds.
func (s *Simulation) Now() float64 { return s.timeline.Now() }

// Pending returns the number of scheduled deferred effects.
func (s *Simulation) Pending() int { return s.timeline.Pending() }

// Frame describes the scene without advancing it.
func (s *Simulation) Frame() Frame {
	return Frame{
		ScrollOffset: s.scroll,
		Semester:     s.session.Semester,
		ExamActive:   s.exam.Active,
		ExamAlert:    s.exam.AlertVisible,
		Theme:        ThemeForSemester(s.session.Semester),
		GroundY:      s.cfg.World.GroundY(),
	}
}

// Stats returns the status summary.
func (s *Simulation) Stats() Stats {
	return Stats{
		Score:           s.session.Score,
		Knowledge:       s.session.Knowledge,
		Semester:        s.session.Semester,
		SpeedMultiplier: s.session.SpeedMultiplier(),
		ExamActive:      s.exam.Active,
		Invulnerable:    s.player.Invulnerable,
		Running:         s.session.Running,
	}
}
