// Package game wires the colony systems into a ticking simulation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/systems"
	"github.com/pthm-cable/hexaco/telemetry"
)

// Simulation owns the world, the map and every system. Nothing in it is
// shared between simulations.
type Simulation struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	cfg   *config.Config

	field    *systems.ScentField
	food     *systems.FoodSystem
	forager  *systems.ForagerSystem
	movement *systems.MovementSystem
	index    *systems.CollisionIndex

	antMapper *ecs.Map6[
		components.Position,
		components.Orientation,
		components.Mover,
		components.Forager,
		components.ScentActor,
		components.Collider,
	]
	antFilter  ecs.Filter3[components.Position, components.Orientation, components.Forager]
	nestMapper *ecs.Map3[components.Nest, components.Position, components.Collider]
	nestMap    *ecs.Map1[components.Nest]
	foodFilter ecs.Filter2[components.Food, components.Position]

	nest     ecs.Entity
	foodKind systems.Kind
	homeKind systems.Kind

	parallel *parallelState

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	levelBuf      []float64

	// Running totals
	tick        int32
	pickups     int
	deliveries  int
	relocations int
	bounces     int
	dropped     int
}

// New builds a simulation: the map, the nest at the origin, the food
// sources and the ants.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Simulation{
		world: world,
		rng:   rng,
		seed:  opts.Seed,
		cfg:   cfg,
		antMapper: ecs.NewMap6[
			components.Position,
			components.Orientation,
			components.Mover,
			components.Forager,
			components.ScentActor,
			components.Collider,
		](world),
		antFilter:     *ecs.NewFilter3[components.Position, components.Orientation, components.Forager](world),
		nestMapper:    ecs.NewMap3[components.Nest, components.Position, components.Collider](world),
		nestMap:       ecs.NewMap1[components.Nest](world),
		foodFilter:    *ecs.NewFilter2[components.Food, components.Position](world),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}

	s.field = systems.NewScentField(world, cfg.Scent.Kinds)
	s.food = systems.NewFoodSystem(world, cfg.Food, cfg.Map.Radius, nestCoord, rng)
	forager, err := systems.NewForagerSystem(world, s.field, s.food, cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("creating forager system: %w", err)
	}
	s.forager = forager
	s.movement = systems.NewMovementSystem(world, cfg.Derived.Boundary, cfg.Simulation.Epsilon)
	s.index = systems.NewCollisionIndex(world)
	s.foodKind, _ = s.field.Kind("food")
	s.homeKind, _ = s.field.Kind("home")

	s.populate()

	if cfg.Simulation.ParallelSensing {
		s.parallel = newParallelState(cfg.Simulation.Workers, cfg.Simulation.ParallelMin)
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}
	s.collector = telemetry.NewCollector(window)
	s.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory, cfg.Bookmarks)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return s, nil
}

// Tick advances the simulation by one step. The phase order is fixed:
// index, sense, decide, move, scent, telemetry.
func (s *Simulation) Tick() {
	s.perfCollector.StartTick()

	s.perfCollector.StartPhase(telemetry.PhaseIndex)
	s.index.Rebuild()

	s.perfCollector.StartPhase(telemetry.PhaseSense)
	s.sense()

	s.perfCollector.StartPhase(telemetry.PhaseDecide)
	ev := s.forager.Update()

	s.perfCollector.StartPhase(telemetry.PhaseMove)
	bounces := s.movement.Update()

	s.perfCollector.StartPhase(telemetry.PhaseScent)
	ev.Add(s.forager.ApplyDeposits())
	s.field.DecayAll()

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.recordEvents(ev, bounces)
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// Run ticks n times.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// sense refreshes the readings of every ant on a tile center, fanning
// out to the worker pool when enough ants need it.
func (s *Simulation) sense() int {
	if s.parallel != nil {
		return s.senseParallel()
	}
	return s.forager.Sense(s.field)
}

// CurrentTick returns the number of completed ticks.
func (s *Simulation) CurrentTick() int32 {
	return s.tick
}

// Seed returns the seed the simulation was built with.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Config returns the configuration in use.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Field returns the scent field.
func (s *Simulation) Field() *systems.ScentField {
	return s.field
}

// Close stops the worker pool and flushes output files.
func (s *Simulation) Close() error {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
	return s.outputManager.Close()
}
