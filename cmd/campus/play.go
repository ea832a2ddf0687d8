package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/campus-runner/internal/config"
	"github.com/vovakirdan/campus-runner/internal/core"
	"github.com/vovakirdan/campus-runner/internal/games/campus"
	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
	"github.com/vovakirdan/campus-runner/internal/platform/spectate"
	"github.com/vovakirdan/campus-runner/internal/platform/tui"
	"github.com/vovakirdan/campus-runner/internal/registry"
	"github.com/vovakirdan/campus-runner/internal/storage"
)

var (
	flagCharacter  string
	flagConfig     string
	flagDifficulty string
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Pick a major and play",
	Long: `Start Campus Runner in the terminal.

Without --character a picker lets you choose your major and open the
run history. After a run you return to the picker.

Controls:
  Space/Up/W  - Jump (also starts a run)
  Down/S      - Crouch (released shortly after you let go)
  P           - Pause
  C           - Continue after game over (costs knowledge)
  R           - New run after game over
  Esc/B       - Pause, or back to the picker when paused or over
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy    - Slower campus, more bonuses
  normal  - The configured values
  hard    - Faster campus, denser obstacles, more exams

Examples:
  campus play
  campus play --character humanities
  campus play --difficulty hard --seed 42
  campus play --config ./campus.toml
  campus play --spectate :8080`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagCharacter, "character", "", "Skip the picker: stem, humanities or medical")
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a campus config (YAML or TOML)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a live spectator feed on this address (e.g. :8080)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	} else {
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "campus")

	campusCfg, err := loadCampusConfig(logger)
	if err != nil {
		return err
	}

	if flagCharacter != "" {
		if _, ok := sim.ParseCharacter(flagCharacter); !ok {
			return fmt.Errorf("unknown character %q, run 'campus characters' to list them", flagCharacter)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		logger.Warn("playing without run history", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	player := tui.DefaultPlayer()

	opts := campus.Options{Config: campusCfg, Logger: logger}
	var pub *spectate.Publisher
	if flagSpectate != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		hub := spectate.NewHub(spectate.Config{Logger: logger})
		go func() {
			if err := spectate.Serve(ctx, flagSpectate, hub); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
		pub = hub.Publisher(uuid.NewString(), player, cfg.Character)
		defer pub.End()
		opts.Stats = pub
	}
	campus.Configure(opts)

	modelOpts := tui.ModelOptions{Store: store, Player: player, Logger: logger}

	if flagCharacter != "" {
		cfg.Character = flagCharacter
		_, _, err := playGame(cfg, modelOpts, pub)
		return err
	}

	for {
		picked, err := tui.RunPicker(store, cfg, player)
		if err != nil {
			return err
		}
		cfg = picked.Config

		if picked.Quit {
			return nil
		}

		if picked.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, player, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		next, back, err := playGame(cfg, modelOpts, pub)
		if err != nil {
			return err
		}
		cfg = next
		if !back {
			return nil
		}
	}
}

// playGame runs one game until the player quits or goes back to the picker.
func playGame(cfg core.RuntimeConfig, opts tui.ModelOptions, pub *spectate.Publisher) (core.RuntimeConfig, bool, error) {
	game, err := registry.Create(campus.GameID)
	if err != nil {
		return cfg, false, err
	}
	if pub != nil {
		pub.SetCharacter(cfg.Character)
	}
	if flagSeed == 0 {
		cfg.Seed = 0
	}
	return tui.Run(game, cfg, opts)
}

// loadCampusConfig loads --config and applies --difficulty.
func loadCampusConfig(logger *log.Logger) (config.CampusConfig, error) {
	cfg, err := config.LoadCampus(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset, ok := config.ParseDifficulty(flagDifficulty)
		if !ok {
			return cfg, fmt.Errorf("unknown difficulty %q, use easy, normal or hard", flagDifficulty)
		}
		config.ApplyCampusPreset(&cfg, preset)
	}
	logger.Debug("campus config loaded", "path", flagConfig, "difficulty", flagDifficulty,
		"base_speed", cfg.Physics.BaseSpeed)
	return cfg, nil
}
