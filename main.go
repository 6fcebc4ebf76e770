package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until interrupted)")
	flag.Parse()

	runID := uuid.NewString()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("run", runID)
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	sim, err := game.New(game.Options{
		Seed:        rngSeed,
		Config:      cfg,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		OutputDir:   *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"radius", cfg.Map.Radius,
		"agents", cfg.Population.Agents,
		"tiles", sim.Field().NumTiles(),
		"max_ticks", *maxTicks,
	)

	start := time.Now()
	for ctx.Err() == nil {
		sim.Tick()
		if *maxTicks > 0 && int(sim.CurrentTick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", sim.CurrentTick())
			break
		}
	}

	st := sim.Stats()
	elapsed := time.Since(start)
	sim.LogState()
	slog.Info("simulation finished",
		"ticks", humanize.Comma(int64(st.Tick)),
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"returned", humanize.FormatFloat("#,###.##", st.Returned),
		"returned_per_agent", humanize.FormatFloat("#,###.##", st.ReturnedPerAgent()),
	)

	if err := sim.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
