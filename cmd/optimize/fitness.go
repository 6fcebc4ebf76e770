package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/game"
	"github.com/pthm-cable/hexaco/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	window := max(maxTicks/20, 1)
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: window,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	returnedPerAgent float64
	windowStats      []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better):
// the negated mean food returned per ant over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg.Clone(), s)
		}(i, seed)
	}
	wg.Wait()

	returned := make([]float64, len(results))
	quality := make([]float64, len(results))
	for i, r := range results {
		returned[i] = r.returnedPerAgent
		quality[i] = computeQuality(r.windowStats)
	}
	fitness := -stat.Mean(returned, nil)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var result runResult

	// One goroutine per seed already; keep sensing serial inside each run.
	cfg.Simulation.ParallelSensing = false

	sim, err := game.New(game.Options{
		Seed:        seed,
		Config:      cfg,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Error("failed to create simulation", "seed", seed, "error", err)
		return result
	}
	defer sim.Close()

	sim.Run(fe.maxTicks)
	result.returnedPerAgent = sim.Stats().ReturnedPerAgent()
	return result
}

// qualityWarmupWindows is the number of leading windows ignored while
// the first trails form.
const qualityWarmupWindows = 3

// computeQuality is the fraction of post-warmup windows in which food
// reached the nest, in [0, 1].
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]
	delivering := 0
	for _, w := range valid {
		if w.Deliveries > 0 {
			delivering++
		}
	}
	return float64(delivering) / float64(len(valid))
}
