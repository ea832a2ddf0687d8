package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/campus-runner/internal/config"
)

const frameMs = 1000.0 / 60.0

type recorder struct {
	frames  []Frame
	sprites []Sprite
	cues    []Cue
	stats   []Stats
	overs   []float64
	cueErr  error
}

func (r *recorder) BeginFrame(f Frame) { r.frames = append(r.frames, f) }
func (r *recorder) Draw(s Sprite)      { r.sprites = append(r.sprites, s) }

func (r *recorder) PlayCue(c Cue) error {
	r.cues = append(r.cues, c)
	return r.cueErr
}

func (r *recorder) PublishStats(s Stats) { r.stats = append(r.stats, s) }

func (r *recorder) OnGameOver(score float64, _ int) { r.overs = append(r.overs, score) }

// newTestSim returns a started simulation without random bonuses.
func newTestSim(t *testing.T, opts ...func(*Options)) (*Simulation, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := config.DefaultCampusConfig()
	cfg.Bonuses.SpawnChance = 0

	o := Options{
		Config:    cfg,
		Character: CharacterStem,
		Seed:      1,
		Renderer:  rec,
		Audio:     rec,
		Stats:     rec,
		Lifecycle: rec,
	}
	for _, fn := range opts {
		fn(&o)
	}
	s := New(o)
	s.Start()
	return s, rec
}

// placeObstacleOnPlayer puts an obstacle where it will overlap the player
// after the next step's movement.
func placeObstacleOnPlayer(s *Simulation) {
	ground := s.cfg.World.GroundY()
	speed := s.cfg.Physics.BaseSpeed * s.session.SpeedMultiplier()
	s.obstacles = append(s.obstacles, Obstacle{
		Kind:   ObstacleLab,
		X:      s.player.X + speed,
		Y:      ground - 30,
		Width:  30,
		Height: 30,
	})
}

func TestNewSimulationIsIdle(t *testing.T) {
	s := New(Options{Config: config.DefaultCampusConfig()})
	assert.False(t, s.IsRunning())

	s.Step(frameMs)
	assert.Zero(t, s.Session().Score)
	assert.Zero(t, s.Now(), "idle steps do not advance time")
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	s := New(Options{Character: CharacterStem})
	assert.Equal(t, config.DefaultCampusConfig(), s.Config())

	require.NotPanics(t, s.Start)
	s.Step(frameMs)
	assert.True(t, s.IsRunning())
}

func TestScoreMonotonicAndResetOnStart(t *testing.T) {
	s, _ := newTestSim(t)

	prev := s.Session().Score
	for i := 0; i < 100; i++ {
		s.Step(frameMs)
		require.True(t, s.IsRunning())
		cur := s.Session().Score
		assert.Greater(t, cur, prev)
		prev = cur
	}
	assert.InDelta(t, 10.0, prev, 1e-9)

	s.Start()
	assert.Zero(t, s.Session().Score)
	assert.Equal(t, 1, s.Session().Semester)
	assert.Empty(t, s.Obstacles())
}

func TestSemesterAdvancesOncePerCrossing(t *testing.T) {
	s, _ := newTestSim(t)

	s.session.Score = 2500
	s.Step(frameMs)
	assert.Equal(t, 2, s.Session().Semester, "one semester per step")
	assert.InDelta(t, 1.2, s.Session().SpeedMultiplier(), 1e-9)

	s.Step(frameMs)
	assert.Equal(t, 3, s.Session().Semester)
	s.Step(frameMs)
	assert.Equal(t, 3, s.Session().Semester, "score has not crossed 3000")

	s.session.Score = 1e6
	for i := 0; i < 5; i++ {
		s.Step(frameMs)
	}
	assert.Equal(t, 4, s.Session().Semester)
	assert.InDelta(t, 1.6, s.Session().SpeedMultiplier(), 1e-9)
}

func TestSemesterThemes(t *testing.T) {
	assert.Equal(t, ThemeClassroom, ThemeForSemester(1))
	assert.Equal(t, ThemeLibrary, ThemeForSemester(2))
	assert.Equal(t, ThemeDormitory, ThemeForSemester(3))
	assert.Equal(t, ThemeMixed, ThemeForSemester(4))
}

func TestCoffeeBoostRoundTrip(t *testing.T) {
	s, _ := newTestSim(t)

	s.applyBonus(newBonus(s.cfg, BonusCoffee, 0))
	assert.InDelta(t, 1.5, s.Session().SpeedMultiplier(), 1e-9)

	s.Step(4999)
	assert.InDelta(t, 1.5, s.Session().SpeedMultiplier(), 1e-9)
	s.Step(1)
	assert.Equal(t, 1.0, s.Session().SpeedMultiplier())
}

func TestCoffeeBoostsOverlap(t *testing.T) {
	s, _ := newTestSim(t)

	s.applyBonus(newBonus(s.cfg, BonusCoffee, 0))
	s.Step(2000)
	s.applyBonus(newBonus(s.cfg, BonusCoffee, 0))
	assert.InDelta(t, 2.25, s.Session().SpeedMultiplier(), 1e-9)

	s.Step(3000) // first boost expires at 5000
	assert.InDelta(t, 1.5, s.Session().SpeedMultiplier(), 1e-9)

	s.Step(2000) // second expires at 7000
	assert.Equal(t, 1.0, s.Session().SpeedMultiplier())
}

func TestCoffeeKeepsSemesterSpeed(t *testing.T) {
	s, _ := newTestSim(t)
	s.session.Score = 1000.5
	s.Step(frameMs)
	require.Equal(t, 2, s.Session().Semester)

	s.applyBonus(newBonus(s.cfg, BonusCoffee, 0))
	assert.InDelta(t, 1.8, s.Session().SpeedMultiplier(), 1e-9)
	s.Step(5000)
	assert.InDelta(t, 1.2, s.Session().SpeedMultiplier(), 1e-9)
}

func TestCheatsheetTimingAndReset(t *testing.T) {
	s, _ := newTestSim(t)

	s.applyBonus(newBonus(s.cfg, BonusCheatsheet, 0))
	assert.True(t, s.Player().Invulnerable)
	assert.Equal(t, 8000.0, s.Player().InvulnerableMs)

	s.Step(5000)
	assert.Equal(t, 3000.0, s.Player().InvulnerableMs)

	s.applyBonus(newBonus(s.cfg, BonusCheatsheet, 0))
	assert.Equal(t, 8000.0, s.Player().InvulnerableMs, "pickups reset, they do not add")

	s.Step(7999)
	assert.True(t, s.Player().Invulnerable)
	s.Step(1)
	assert.False(t, s.Player().Invulnerable)
}

func TestNotesPayload(t *testing.T) {
	s, rec := newTestSim(t)
	pending := s.Pending()

	s.applyBonus(newBonus(s.cfg, BonusNotes, 0))
	assert.Equal(t, 50.0, s.Session().Score)
	assert.Equal(t, 5, s.Session().Knowledge)
	assert.Equal(t, pending, s.Pending(), "notes schedule nothing")
	assert.Equal(t, []Cue{CueBonus}, rec.cues)
}

func TestBonusPickedUpDuringStep(t *testing.T) {
	s, _ := newTestSim(t)
	p := s.Player()
	s.bonuses = append(s.bonuses, Bonus{
		Kind: BonusNotes, X: p.X + 6, Y: p.Y, Width: 20, Height: 20,
		Points: 50, Knowledge: 5,
	})

	s.Step(frameMs)
	assert.Empty(t, s.Bonuses())
	assert.Equal(t, 5, s.Session().Knowledge)
}

func TestInvulnerablePlayerSurvivesObstacle(t *testing.T) {
	s, rec := newTestSim(t)
	s.player.grantInvulnerability(1000)
	placeObstacleOnPlayer(s)

	s.Step(frameMs)
	assert.True(t, s.IsRunning())
	assert.Empty(t, rec.overs)
}

func TestCollisionEndsRun(t *testing.T) {
	s, rec := newTestSim(t)
	s.Step(frameMs)
	placeObstacleOnPlayer(s)
	before := len(s.obstacles)

	s.Step(frameMs)
	assert.False(t, s.IsRunning())
	assert.True(t, s.Session().GameOver)
	assert.Len(t, s.Obstacles(), before-1, "the colliding obstacle is removed")
	require.Len(t, rec.overs, 1)
	assert.Contains(t, rec.cues, CueCollision)

	// Terminal steps do not publish stats or score further
	published := len(rec.stats)
	score := s.Session().Score
	s.Step(frameMs)
	assert.Len(t, rec.stats, published)
	assert.Equal(t, score, s.Session().Score)
}

func TestGameOverClearsTimersAndNewRunIsClean(t *testing.T) {
	s, _ := newTestSim(t)
	s.Step(frameMs)
	s.applyBonus(newBonus(s.cfg, BonusCoffee, 0))
	require.Greater(t, s.Pending(), 1)

	placeObstacleOnPlayer(s)
	s.Step(frameMs)
	require.False(t, s.IsRunning())
	assert.Zero(t, s.Pending())
	assert.Equal(t, 1.0, s.Session().SpeedMultiplier())

	s.Start()
	assert.Equal(t, 1, s.Pending(), "only the exam interval is scheduled")
	s.Step(6000)
	assert.Equal(t, 1.0, s.Session().SpeedMultiplier(), "old coffee expiry must not fire")
}

func TestExamSessionScenario(t *testing.T) {
	s, rec := newTestSim(t)

	for i := 0; i < 29; i++ {
		s.Step(1000)
	}
	require.True(t, s.IsRunning())
	assert.False(t, s.Exam().Active)

	s.Step(1000) // t = 30000
	assert.True(t, s.Exam().Active)
	assert.True(t, s.Exam().AlertVisible)
	assert.Contains(t, rec.cues, CueExam)
	assert.True(t, rec.frames[len(rec.frames)-1].ExamAlert)

	s.Step(2000) // t = 32000
	assert.True(t, s.Exam().Active)
	assert.False(t, s.Exam().AlertVisible)

	s.Step(7999)
	assert.True(t, s.Exam().Active)
	s.Step(1) // t = 40000
	assert.False(t, s.Exam().Active)
	assert.Equal(t, 1, s.Exam().Count)
}

func TestOverlappingExamSessions(t *testing.T) {
	s, _ := newTestSim(t, func(o *Options) {
		o.Config.Exam.Interval = 3000
		o.Config.Exam.Duration = 10000
	})

	for i := 0; i < 12; i++ {
		s.Step(1000)
	}
	require.True(t, s.IsRunning())
	assert.True(t, s.Exam().Active)
	assert.Equal(t, 4, s.Exam().Count, "the interval keeps firing during a session")

	s.Step(1000) // t = 13000, the first session ends
	assert.False(t, s.Exam().Active, "the oldest end timer closes the exam")
	assert.Equal(t, 4, s.Exam().Count)

	s.Step(2000) // t = 15000
	assert.True(t, s.Exam().Active)
	assert.Equal(t, 5, s.Exam().Count)
}

func TestExamSpeedsUpObstaclesOnly(t *testing.T) {
	s, _ := newTestSim(t)
	s.exam.Active = true
	s.obstacles = []Obstacle{{Kind: ObstacleLab, X: 500, Y: 0, Width: 30, Height: 30}}
	s.bonuses = []Bonus{{Kind: BonusNotes, X: 500, Y: 0, Width: 20, Height: 20}}
	s.lastObstacleAt = 0
	s.nextObstacleIn = 1e9

	s.Step(frameMs)
	require.Len(t, s.Obstacles(), 1)
	assert.InDelta(t, 500-9.0, s.Obstacles()[0].X, 1e-9)
	assert.InDelta(t, 500-6.0, s.Bonuses()[0].X, 1e-9)
}

func TestGravityScenario(t *testing.T) {
	s, _ := newTestSim(t)
	ground := s.cfg.World.GroundY()

	s.Step(frameMs)
	p := s.Player()
	assert.Zero(t, p.VY, "grounded player is clamped")
	assert.Equal(t, ground-p.Height, p.Y)

	s.player.Y = 100
	s.player.VY = 0
	s.Step(frameMs)
	p = s.Player()
	assert.InDelta(t, 0.6, p.VY, 1e-9)
	assert.InDelta(t, 100.6, p.Y, 1e-9)
}

func TestJumpAndCrouchInput(t *testing.T) {
	s, rec := newTestSim(t)

	s.HandleInput(InputCrouchStart)
	assert.True(t, s.Player().Crouching)
	assert.Equal(t, 25.0, s.Player().Height)

	s.HandleInput(InputJump)
	p := s.Player()
	assert.False(t, p.Crouching, "jumping stands the player up")
	assert.Equal(t, 50.0, p.Height)
	assert.InDelta(t, -12*1.2, p.VY, 1e-9)
	assert.Equal(t, []Cue{CueJump}, rec.cues)

	s.HandleInput(InputJump)
	assert.Len(t, rec.cues, 1, "no double jump")

	s.HandleInput(InputCrouchStart)
	assert.False(t, s.Player().Crouching, "no crouching mid-air")

	s.HandleInput(InputCrouchEnd)
	assert.False(t, s.Player().Crouching)
}

func TestCrouchStaysGrounded(t *testing.T) {
	s, _ := newTestSim(t)
	ground := s.cfg.World.GroundY()

	s.HandleInput(InputCrouchStart)
	s.Step(frameMs)
	p := s.Player()
	assert.Equal(t, ground, p.Y+p.Height)
	assert.Zero(t, p.VY)
	assert.False(t, p.Jumping)

	s.HandleInput(InputCrouchEnd)
	p = s.Player()
	assert.Equal(t, ground, p.Y+p.Height)
	assert.Equal(t, 50.0, p.Height)
}

func TestJumpFromCrouchLeavesGround(t *testing.T) {
	s, rec := newTestSim(t)
	ground := s.cfg.World.GroundY()

	s.HandleInput(InputCrouchStart)
	s.Step(frameMs)
	s.HandleInput(InputJump)
	s.Step(frameMs)

	p := s.Player()
	assert.True(t, p.Jumping)
	assert.Less(t, p.VY, 0.0)
	assert.Less(t, p.Y+p.Height, ground)
	assert.Contains(t, rec.cues, CueJump)
}

func TestJumpStartsIdleGame(t *testing.T) {
	s := New(Options{Config: config.DefaultCampusConfig()})
	s.HandleInput(InputJump)
	assert.True(t, s.IsRunning())
	assert.False(t, s.Player().Jumping, "the starting press does not jump")

	s2 := New(Options{Config: config.DefaultCampusConfig()})
	s2.HandleInput(InputStartGame)
	assert.True(t, s2.IsRunning())
}

func TestHumanitiesJumpUsesBaseForce(t *testing.T) {
	s, _ := newTestSim(t, func(o *Options) { o.Character = CharacterHumanities })
	s.HandleInput(InputJump)
	assert.InDelta(t, -12.0, s.Player().VY, 1e-9)
}

func TestUnknownCharacterUsesDefaultModifiers(t *testing.T) {
	s, _ := newTestSim(t, func(o *Options) { o.Character = Character("wizard") })
	assert.Equal(t, DefaultModifiers, s.Player().Modifiers)
}

func TestKnowledgeCarriesOverRuns(t *testing.T) {
	s, _ := newTestSim(t, func(o *Options) { o.Knowledge = 20 })
	s.applyBonus(newBonus(s.cfg, BonusNotes, 0))

	s.Start()
	assert.Equal(t, 25, s.Session().Knowledge)
}

func TestContinue(t *testing.T) {
	s, _ := newTestSim(t, func(o *Options) { o.Knowledge = 60 })
	assert.ErrorIs(t, s.Continue(), ErrNotOver)

	s.Step(frameMs)
	placeObstacleOnPlayer(s)
	s.Step(frameMs)
	require.True(t, s.Session().GameOver)
	score := s.Session().Score

	require.NoError(t, s.Continue())
	assert.True(t, s.IsRunning())
	assert.Equal(t, 10, s.Session().Knowledge)
	assert.Equal(t, score, s.Session().Score, "continue keeps the score")
	assert.True(t, s.Player().Invulnerable)
	assert.Equal(t, 3000.0, s.Player().InvulnerableMs)
	assert.Equal(t, 1, s.Pending(), "exam interval restarted")

	s.player.Invulnerable = false
	placeObstacleOnPlayer(s)
	s.Step(frameMs)
	require.True(t, s.Session().GameOver)
	assert.ErrorIs(t, s.Continue(), ErrNotEnoughKnowledge)
	assert.Equal(t, 10, s.Session().Knowledge)
}

func TestAudioErrorsAreSwallowed(t *testing.T) {
	s, rec := newTestSim(t)
	rec.cueErr = errors.New("no sound device")

	s.HandleInput(InputJump)
	s.Step(frameMs)
	assert.True(t, s.IsRunning())
	assert.Equal(t, []Cue{CueJump}, rec.cues)
}

func TestStepDrawsAndPublishes(t *testing.T) {
	s, rec := newTestSim(t)
	s.Step(frameMs)

	require.Len(t, rec.frames, 1)
	assert.Equal(t, ThemeClassroom, rec.frames[0].Theme)
	require.NotEmpty(t, rec.sprites)
	assert.Equal(t, SpritePlayer, rec.sprites[0].Kind)

	kinds := map[SpriteKind]bool{}
	for _, sp := range rec.sprites {
		kinds[sp.Kind] = true
	}
	assert.True(t, kinds[SpriteObstacle], "first obstacle spawns on the first frame")

	require.Len(t, rec.stats, 1)
	assert.Equal(t, 1, rec.stats[0].Semester)
	assert.True(t, rec.stats[0].Running)
}

func TestBackdropWraps(t *testing.T) {
	s, _ := newTestSim(t)
	s.scroll = s.cfg.World.Width - 1
	s.nextObstacleIn = 1e9

	s.Step(frameMs)
	assert.InDelta(t, 2.0, s.Frame().ScrollOffset, 1e-9)
}

func TestOffscreenEntitiesRemoved(t *testing.T) {
	s, _ := newTestSim(t)
	s.nextObstacleIn = 1e9
	s.lastObstacleAt = 0
	s.obstacles = []Obstacle{{Kind: ObstacleLab, X: -25, Y: 0, Width: 30, Height: 30}}
	s.bonuses = []Bonus{{Kind: BonusNotes, X: -15, Y: 0, Width: 20, Height: 20}}

	s.Step(frameMs)
	assert.Empty(t, s.Obstacles())
	assert.Empty(t, s.Bonuses())
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []Obstacle {
		s, _ := newTestSim(t, func(o *Options) { o.Seed = 1234 })
		for i := 0; i < 90; i++ {
			s.Step(frameMs)
		}
		return s.Obstacles()
	}
	assert.Equal(t, run(), run())
}
