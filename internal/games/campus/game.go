// Package campus plugs the Campus Runner simulation into the arcade platform.
// It turns platform actions into simulation input, runs one simulation step
// per tick and draws the buffered scene onto a terminal screen.
package campus

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/campus-runner/internal/config"
	"github.com/vovakirdan/campus-runner/internal/core"
	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
	"github.com/vovakirdan/campus-runner/internal/registry"
)

// GameID is the registry and storage identifier.
const GameID = "campus"

// Options wire a Game to its configuration and optional collaborators.
type Options struct {
	Config config.CampusConfig
	Logger *log.Logger
	Audio  sim.Audio          // Optional sound output
	Stats  sim.StatsPublisher // Optional extra stats sink, e.g. the spectator feed
}

// Game implements registry.Game.
type Game struct {
	opts    Options
	sim     *sim.Simulation
	runtime core.RuntimeConfig
	scene   scene
	log     *log.Logger

	paused bool
	ticks  int
	notice string // One-line message shown on the game-over screen
}

// New creates a game. Reset must be called before the first Step.
func New(opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{opts: opts, log: logger}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return GameID }

// Title returns the display name for this game.
func (g *Game) Title() string { return "Campus Runner" }

// Reset starts a new run with the runtime's character, seed and knowledge.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt

	character, ok := sim.ParseCharacter(rt.Character)
	if !ok {
		g.log.Warn("unknown character, using default modifiers", "character", rt.Character)
	}

	if g.sim == nil {
		g.sim = sim.New(sim.Options{
			Config:    g.opts.Config,
			Character: character,
			Seed:      rt.Seed,
			Knowledge: rt.Knowledge,
			Renderer:  &g.scene,
			Audio:     g.opts.Audio,
			Stats:     g.opts.Stats,
			Lifecycle: g,
			Logger:    g.log,
		})
	} else {
		g.sim.SetCharacter(character)
		g.sim.Reseed(rt.Seed)
		g.sim.SetKnowledge(rt.Knowledge)
	}

	g.sim.Start()
	g.scene.reset(g.sim.Frame())
	g.paused = false
	g.ticks = 0
	g.notice = ""
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	sess := g.sim.Session()

	if sess.GameOver {
		if in.Has(core.ActionContinue) {
			g.tryContinue()
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionJump) {
		g.sim.HandleInput(sim.InputJump)
	}
	if in.Has(core.ActionDuck) {
		g.sim.HandleInput(sim.InputCrouchStart)
	}
	if in.Has(core.ActionDuckEnd) {
		g.sim.HandleInput(sim.InputCrouchEnd)
	}

	g.ticks++
	g.sim.Step(g.runtime.FrameMillis())

	return core.StepResult{State: g.State()}
}

func (g *Game) tryContinue() {
	err := g.sim.Continue()
	switch {
	case err == nil:
		g.notice = ""
	case errors.Is(err, sim.ErrNotEnoughKnowledge):
		cost := g.opts.Config.Progress.ContinueCost
		g.notice = fmt.Sprintf("Need %d knowledge to continue", cost)
	default:
		g.log.Warn("continue failed", "err", err)
	}
}

// OnGameOver forwards the final stats, which the simulation does not publish
// on the terminal step.
func (g *Game) OnGameOver(score float64, knowledge int) {
	if g.opts.Stats != nil {
		g.opts.Stats.PublishStats(g.sim.Stats())
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sim == nil {
		return core.GameState{}
	}
	sess := g.sim.Session()
	return core.GameState{
		Score:     int(sess.Score),
		Knowledge: sess.Knowledge,
		Semester:  sess.Semester,
		Running:   sess.Running,
		GameOver:  sess.GameOver,
		Paused:    g.paused,
		CanResume: sess.GameOver && sess.Knowledge >= g.opts.Config.Progress.ContinueCost,
	}
}

// Character returns the archetype of the current run.
func (g *Game) Character() sim.Character {
	if g.sim == nil {
		return sim.Character(g.runtime.Character)
	}
	return g.sim.Character()
}

// registryOptions are used by games built through the registry.
var registryOptions = Options{Config: config.DefaultCampusConfig()}

// Configure sets the options of games created with registry.Create.
// Call it before creating the game.
func Configure(opts Options) {
	registryOptions = opts
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New(registryOptions)
	})
}
