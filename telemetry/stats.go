package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Colony state at window end
	Agents        int     `csv:"agents"`
	Foraging      int     `csv:"foraging"`
	Returning     int     `csv:"returning"`
	Carried       float64 `csv:"carried"`
	FoodRemaining float64 `csv:"food_remaining"`
	NestReturned  float64 `csv:"nest_returned"`
	SharedTiles   int     `csv:"shared_tiles"`

	// Events during window
	Pickups          int     `csv:"pickups"`
	Found            float64 `csv:"found"`
	Deliveries       int     `csv:"deliveries"`
	Returned         float64 `csv:"returned"`
	ReturnedPerAgent float64 `csv:"returned_per_agent"`
	Relocations      int     `csv:"relocations"`
	Bounces          int     `csv:"bounces"`
	Deposits         int     `csv:"deposits"`
	Dropped          int     `csv:"dropped_deposits"`

	// Scent distribution over tiles (sampled at window end)
	FoodScentMean     float64 `csv:"food_scent_mean"`
	FoodScentStd      float64 `csv:"food_scent_std"`
	FoodScentP50      float64 `csv:"food_scent_p50"`
	FoodScentP90      float64 `csv:"food_scent_p90"`
	FoodScentMax      float64 `csv:"food_scent_max"`
	FoodScentCoverage float64 `csv:"food_scent_coverage"`

	HomeScentMean     float64 `csv:"home_scent_mean"`
	HomeScentStd      float64 `csv:"home_scent_std"`
	HomeScentP50      float64 `csv:"home_scent_p50"`
	HomeScentP90      float64 `csv:"home_scent_p90"`
	HomeScentMax      float64 `csv:"home_scent_max"`
	HomeScentCoverage float64 `csv:"home_scent_coverage"`
}

// ScentStats summarizes one scent kind over all tiles.
type ScentStats struct {
	Mean, Std float64
	P50, P90  float64
	Max       float64
	Coverage  float64 // fraction of tiles with a positive level
}

func (s *WindowStats) setFoodScent(d ScentStats) {
	s.FoodScentMean, s.FoodScentStd = d.Mean, d.Std
	s.FoodScentP50, s.FoodScentP90 = d.P50, d.P90
	s.FoodScentMax, s.FoodScentCoverage = d.Max, d.Coverage
}

func (s *WindowStats) setHomeScent(d ScentStats) {
	s.HomeScentMean, s.HomeScentStd = d.Mean, d.Std
	s.HomeScentP50, s.HomeScentP90 = d.P50, d.P90
	s.HomeScentMax, s.HomeScentCoverage = d.Max, d.Coverage
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeScentStats calculates the distribution of tile levels.
func ComputeScentStats(values []float64) ScentStats {
	n := len(values)
	if n == 0 {
		return ScentStats{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	covered := 0
	for _, v := range values {
		if v > 0 {
			covered++
		}
	}

	return ScentStats{
		Mean:     mean,
		Std:      std,
		P50:      Percentile(sorted, 0.50),
		P90:      Percentile(sorted, 0.90),
		Max:      floats.Max(values),
		Coverage: float64(covered) / float64(n),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("foraging", s.Foraging),
		slog.Int("returning", s.Returning),
		slog.Float64("carried", s.Carried),
		slog.Float64("food_remaining", s.FoodRemaining),
		slog.Int("pickups", s.Pickups),
		slog.Int("deliveries", s.Deliveries),
		slog.Float64("returned", s.Returned),
		slog.Float64("returned_per_agent", s.ReturnedPerAgent),
		slog.Int("relocations", s.Relocations),
		slog.Int("bounces", s.Bounces),
		slog.Int("dropped_deposits", s.Dropped),
		slog.Float64("food_scent_mean", s.FoodScentMean),
		slog.Float64("food_scent_coverage", s.FoodScentCoverage),
		slog.Float64("home_scent_mean", s.HomeScentMean),
		slog.Float64("home_scent_coverage", s.HomeScentCoverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"foraging", s.Foraging,
		"returning", s.Returning,
		"carried", s.Carried,
		"food_remaining", s.FoodRemaining,
		"nest_returned", s.NestReturned,
		"shared_tiles", s.SharedTiles,
		"pickups", s.Pickups,
		"found", s.Found,
		"deliveries", s.Deliveries,
		"returned", s.Returned,
		"returned_per_agent", s.ReturnedPerAgent,
		"relocations", s.Relocations,
		"bounces", s.Bounces,
		"deposits", s.Deposits,
		"dropped_deposits", s.Dropped,
		"food_scent_mean", s.FoodScentMean,
		"food_scent_p90", s.FoodScentP90,
		"food_scent_max", s.FoodScentMax,
		"food_scent_coverage", s.FoodScentCoverage,
		"home_scent_mean", s.HomeScentMean,
		"home_scent_p90", s.HomeScentP90,
		"home_scent_max", s.HomeScentMax,
		"home_scent_coverage", s.HomeScentCoverage,
	)
}
