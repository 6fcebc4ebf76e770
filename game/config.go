package game

import (
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/telemetry"
)

// Options holds configuration for simulation construction.
type Options struct {
	Seed   int64
	Config *config.Config // nil = embedded defaults

	LogStats    bool   // log window stats, perf and bookmarks via slog
	StatsWindow int    // ticks per stats window, 0 = config value
	OutputDir   string // CSV and config output, empty = disabled

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}
