package main

import (
	"context"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tickworld/server/internal/config"
	"github.com/tickworld/server/internal/data"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/game"
	"github.com/tickworld/server/internal/scripting"
	"github.com/tickworld/server/internal/telemetry"
	"github.com/tickworld/server/internal/world"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the simulation in the terminal, or headless",
		Example: "tickworld run --headless --frames 600 --seed 7",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("headless") {
				cfg.Display.Headless, _ = flags.GetBool("headless")
			}
			if flags.Changed("frames") {
				cfg.Display.MaxFrames, _ = flags.GetInt("frames")
			}
			if flags.Changed("seed") {
				cfg.Sim.Seed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("scenario") {
				cfg.Scripting.Scenario, _ = flags.GetString("scenario")
			}
			if flags.Changed("scripts") {
				cfg.Scripting.Dir, _ = flags.GetString("scripts")
			}
			if flags.Changed("show-log") {
				cfg.Sim.ShowEventLog, _ = flags.GetBool("show-log")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	cmd.Flags().Bool("headless", false, "run without a terminal, feeding scripted input")
	cmd.Flags().Int("frames", 0, "stop after this many frames (0 = until quit)")
	cmd.Flags().Int64("seed", 0, "random seed (0 = from the clock)")
	cmd.Flags().String("scripts", "", "directory of Lua scenario scripts")
	cmd.Flags().String("scenario", "", "scenario function to run from the scripts")
	cmd.Flags().Bool("show-log", false, "overlay the recent event log")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	species, err := data.LoadSpeciesTable(cfg.Data.Species)
	if err != nil {
		return fmt.Errorf("species: %w", err)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("starting",
		zap.Int64("seed", seed),
		zap.Int("species", species.Count()),
		zap.Bool("headless", cfg.Display.Headless),
	)

	ws := world.NewState(cfg.World, cfg.Sim.EventLogWindow, species, rand.New(rand.NewSource(seed)), log)
	engine, err := populate(ws, cfg.Scripting, log)
	if err != nil {
		return err
	}
	if engine != nil {
		defer engine.Close()
	}

	metrics, err := telemetry.New(cfg.Metrics.Enabled, cfg.Metrics.Interval)
	if err != nil {
		return err
	}

	dev, err := openDevice(cfg.Display)
	if err != nil {
		return err
	}
	defer dev.Close()

	g := game.New(cfg.Sim, ws, dev, metrics, log)
	if engine != nil {
		if hook := engine.TickHook(ws, cfg.Scripting.Scenario); hook != nil {
			g.OnTick(hook)
			log.Info("scenario tick hook installed", zap.String("scenario", cfg.Scripting.Scenario))
		}
	}
	if err := g.Run(ctx, dev, cfg.Sim.FrameRate); err != nil {
		return err
	}
	log.Info("metrics", zap.String("summary", metrics.Summary()))
	return nil
}

// populate fills ws from the configured scenario, or with the built-in
// population when no script dir is set. The returned engine, when non-nil,
// is still open so the scenario's tick hook can run; the caller closes it.
func populate(ws *world.State, cfg config.ScriptingConfig, log *zap.Logger) (*scripting.Engine, error) {
	if cfg.Dir == "" {
		world.PopulateDefault(ws)
		return nil, nil
	}
	engine, err := scripting.NewEngine(cfg.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("scripting: %w", err)
	}
	if err := engine.Run(ws, cfg.Scenario); err != nil {
		engine.Close()
		return nil, fmt.Errorf("scripting: %w", err)
	}
	return engine, nil
}

func openDevice(cfg config.DisplayConfig) (display.Device, error) {
	if cfg.Headless {
		return display.NewHeadless(cfg.Width, cfg.Height, display.WanderScript, cfg.MaxFrames), nil
	}
	term, err := display.NewTerminal()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return term, nil
}

