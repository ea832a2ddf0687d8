package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/campus-runner/internal/core"
	"github.com/vovakirdan/campus-runner/internal/registry"
	"github.com/vovakirdan/campus-runner/internal/storage"
)

// Terminals report key presses but never releases. A held key repeats, so
// crouching ends once the duck key has been quiet for this long.
const duckReleaseMs = 550.0

// ModelOptions configure a game Model.
type ModelOptions struct {
	Store  *storage.Store // Optional run history and knowledge wallet
	Player string         // Wallet owner and run author
	Logger *log.Logger
}

// Model is the Bubble Tea model that runs one game until the player quits
// or goes back to the picker.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       KeyMap
	log        *log.Logger
	player     string
	inputFrame core.InputFrame
	gameState  core.GameState

	runID      string
	continues  int
	ducking    bool
	duckIdle   float64 // Milliseconds since the last duck key repeat
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the current game over has been recorded
	standalone bool // Owns the program, so going back quits it
}

// NewModel creates a model for the given game. The player's wallet is loaded
// from the store when the config carries no knowledge of its own.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	player := opts.Player
	if player == "" {
		player = DefaultPlayer()
	}

	if opts.Store != nil && cfg.Knowledge == 0 {
		k, err := opts.Store.Knowledge(player)
		switch {
		case err == nil:
			cfg.Knowledge = k
		case !errors.Is(err, storage.ErrNoWallet):
			logger.Warn("cannot load knowledge wallet", "player", player, "err", err)
		}
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		config:     cfg,
		keys:       DefaultKeyMap(),
		log:        logger,
		player:     player,
		inputFrame: core.NewInputFrame(),
		runID:      storage.NewRunID(),
	}
}

// DefaultPlayer names the local player after the OS user.
func DefaultPlayer() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}
	return "student"
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The world is scaled to the screen, so a resize never resets the run.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.leave()
			m.backToMenu = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil
		}
		m.inputFrame.Set(core.ActionPause)

	case core.ActionDuck:
		m.inputFrame.Set(core.ActionDuck)
		m.ducking = true
		m.duckIdle = 0

	case core.ActionJump:
		m.inputFrame.Set(core.ActionJump)
		m.ducking = false

	case core.ActionRestart, core.ActionContinue:
		if m.gameState.GameOver {
			m.inputFrame.Set(action)
		}

	case core.ActionNone:

	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.config.Knowledge = m.gameState.Knowledge
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runID = storage.NewRunID()
		m.continues = 0
		m.scoreSaved = false
		m.ducking = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if m.ducking && !m.inputFrame.Has(core.ActionDuck) {
		m.duckIdle += m.config.FrameMillis()
		if m.duckIdle >= duckReleaseMs {
			m.inputFrame.Set(core.ActionDuckEnd)
			m.ducking = false
		}
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if wasOver && !m.gameState.GameOver {
		m.continues++
		m.scoreSaved = false
		m.saveWallet()
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished run and the wallet. A continued run keeps
// its ID, so the stored row is replaced with the better result.
func (m *Model) saveRun() {
	m.saveWallet()
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, err := m.store.SaveRun(storage.Run{
		ID:        m.runID,
		Player:    m.player,
		Character: m.config.Character,
		Score:     m.gameState.Score,
		Semester:  m.gameState.Semester,
		Knowledge: m.gameState.Knowledge,
		Continues: m.continues,
	})
	if err != nil {
		m.log.Warn("cannot save run", "run", m.runID, "err", err)
		return
	}
	m.log.Info("run saved", "run", m.runID, "score", m.gameState.Score, "semester", m.gameState.Semester)
}

func (m *Model) saveWallet() {
	if m.store == nil {
		return
	}
	if err := m.store.SaveKnowledge(m.player, m.gameState.Knowledge); err != nil {
		m.log.Warn("cannot save knowledge wallet", "player", m.player, "err", err)
	}
}

// leave keeps the knowledge collected by an unfinished run.
func (m *Model) leave() {
	if !m.gameState.GameOver {
		m.saveWallet()
	}
}

// saveScreenshot writes the current screen to ~/.campus/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.log.Warn("cannot locate home directory", "err", err)
		return
	}
	dir := filepath.Join(home, ".campus", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("cannot create screenshot directory", "err", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to return to the picker.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last reported game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Config returns the runtime config, including resizes and the knowledge
// carried out of the last run.
func (m Model) Config() core.RuntimeConfig {
	cfg := m.config
	cfg.Knowledge = m.game.State().Knowledge
	return cfg
}

// Run plays the game in the terminal until the player quits or goes back.
// It returns the final runtime config and whether the player wants the
// picker again.
func Run(game registry.Game, cfg core.RuntimeConfig, opts ModelOptions) (core.RuntimeConfig, bool, error) {
	model := NewModel(game, cfg, opts)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return cfg, false, err
	}
	m, ok := final.(Model)
	if !ok {
		return cfg, false, nil
	}
	return m.Config(), m.BackToMenu(), nil
}
