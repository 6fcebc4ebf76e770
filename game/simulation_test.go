package game

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/systems"
	"github.com/pthm-cable/hexaco/telemetry"
)

func testConfig(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	return cfg.Clone()
}

func newTestSimulation(t *testing.T, seed int64, mutate func(*config.Config)) *Simulation {
	t.Helper()
	sim, err := New(Options{Seed: seed, Config: testConfig(t, mutate)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sim.Close() })
	return sim
}

func TestNewPopulates(t *testing.T) {
	sim := newTestSimulation(t, 1, nil)
	cfg := sim.Config()

	r := cfg.Map.Radius
	if got, want := sim.Field().NumTiles(), 1+3*r*(r+1); got != want {
		t.Errorf("tiles = %d, want %d", got, want)
	}

	st := sim.Stats()
	if st.Agents != cfg.Population.Agents || st.Foraging != st.Agents || st.Returning != 0 {
		t.Errorf("colony = %+v", st)
	}
	minFood := float64(cfg.Food.Piles) * cfg.Food.MinAmount
	maxFood := float64(cfg.Food.Piles) * cfg.Food.MaxAmount
	if st.FoodRemaining < minFood || st.FoodRemaining > maxFood {
		t.Errorf("food remaining = %v, want in [%v, %v]", st.FoodRemaining, minFood, maxFood)
	}

	query := sim.foodFilter.Query()
	for query.Next() {
		_, pos := query.Get()
		if pos.Coord() == nestCoord {
			t.Error("food placed on the nest")
		}
		if pos.Coord().Ring() > r-1 {
			t.Errorf("food at ring %d, want <= %d", pos.Coord().Ring(), r-1)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.Agent.FollowProbability = 2
	if _, err := New(Options{Config: cfg}); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestFirstTickLaysHomeTrail(t *testing.T) {
	sim := newTestSimulation(t, 3, nil)
	cfg := sim.Config()

	sim.Tick()

	// Every ant decides on the nest tile, fades its home deposit once and
	// lays it there; the tile then decays once.
	perAnt := cfg.Agent.Deposit.Home - cfg.Agent.DepositDecay
	want := float64(cfg.Population.Agents)*perAnt - cfg.Scent.Kinds[sim.homeKind].Delta
	got, ok := sim.Field().Level(nestCoord, sim.homeKind)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Errorf("home level on nest = %v, want %v", got, want)
	}
	if food, _ := sim.Field().Level(nestCoord, sim.foodKind); food != 0 {
		t.Errorf("food level on nest = %v, want 0", food)
	}

	// Everyone left the nest center by one step.
	query := sim.antFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		if d := pos.Pos.MaxAbs(); math.Abs(d-cfg.Agent.Speed) > 1e-9 {
			t.Errorf("ant at %v after one tick", pos.Pos)
		}
	}
}

func TestInvariantsHold(t *testing.T) {
	sim := newTestSimulation(t, 11, func(c *config.Config) {
		c.Map.Radius = 4
		c.Population.Agents = 30
		c.Agent.Speed = 0.25
	})
	boundary := sim.Config().Derived.Boundary
	colliders := ecs.NewMap1[components.Collider](sim.world)
	collidable := ecs.NewFilter2[components.Position, components.Collider](sim.world)
	var levels []float64

	for i := 0; i < 2000; i++ {
		sim.Tick()
		if i%50 != 0 {
			continue
		}

		aq := sim.antFilter.Query()
		for aq.Next() {
			pos, _, _ := aq.Get()
			if pos.Pos.MaxAbs() >= boundary {
				t.Fatalf("tick %d: ant outside the map at %v", sim.CurrentTick(), pos.Pos)
			}
		}

		for k := 0; k < sim.Field().NumKinds(); k++ {
			levels = sim.Field().Levels(systems.Kind(k), levels)
			for _, v := range levels {
				if v < 0 {
					t.Fatalf("tick %d: negative scent level %v", sim.CurrentTick(), v)
				}
			}
		}

		sim.index.Rebuild()
		cq := collidable.Query()
		for cq.Next() {
			_, col := cq.Get()
			self := cq.Entity()
			for _, other := range col.With {
				if !containsEntity(colliders.Get(other).With, self) {
					t.Fatalf("tick %d: collision not symmetric", sim.CurrentTick())
				}
			}
		}
	}
}

func containsEntity(list []ecs.Entity, e ecs.Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func TestNewUsesEditedRadius(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	// Edit the loaded config in place, without Clone.
	cfg.Map.Radius = 3
	cfg.Population.Agents = 30

	sim, err := New(Options{Seed: 7, Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sim.Close() })

	if got := sim.Config().Derived.Boundary; got != 3.5 {
		t.Fatalf("Boundary = %v, want 3.5", got)
	}
	for i := 0; i < 3000; i++ {
		sim.Tick()
		aq := sim.antFilter.Query()
		for aq.Next() {
			pos, _, _ := aq.Get()
			if pos.Pos.MaxAbs() >= 3.5 {
				aq.Close()
				t.Fatalf("tick %d: ant off the map at %v", sim.CurrentTick(), pos.Pos)
			}
		}
	}
	if st := sim.Stats(); st.DroppedDeposits != 0 {
		t.Errorf("DroppedDeposits = %d, want 0", st.DroppedDeposits)
	}
}

func TestFoodIsConserved(t *testing.T) {
	sim := newTestSimulation(t, 5, func(c *config.Config) {
		c.Map.Radius = 4
		c.Agent.Speed = 0.5
	})
	sim.Run(3000)

	st := sim.Stats()
	if math.Abs(st.Found-st.Returned-st.Carrying) > 1e-6 {
		t.Errorf("found %v != returned %v + carrying %v", st.Found, st.Returned, st.Carrying)
	}
	if math.Abs(st.NestReturned-st.Returned) > 1e-6 {
		t.Errorf("nest received %v, ants returned %v", st.NestReturned, st.Returned)
	}
	if st.Foraging+st.Returning != st.Agents {
		t.Errorf("goal counts %d+%d != %d agents", st.Foraging, st.Returning, st.Agents)
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	a := newTestSimulation(t, 42, nil)
	b := newTestSimulation(t, 42, nil)
	a.Run(400)
	b.Run(400)

	if sa, sb := a.Stats(), b.Stats(); sa != sb {
		t.Errorf("stats differ:\n%+v\n%+v", sa, sb)
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("snapshots differ for the same seed")
	}
}

func TestParallelSensingMatchesSerial(t *testing.T) {
	serial := newTestSimulation(t, 9, func(c *config.Config) {
		c.Population.Agents = 120
		c.Simulation.ParallelSensing = false
	})
	parallel := newTestSimulation(t, 9, func(c *config.Config) {
		c.Population.Agents = 120
		c.Simulation.ParallelSensing = true
		c.Simulation.ParallelMin = 1
		c.Simulation.Workers = 4
	})

	for i := 0; i < 300; i++ {
		serial.Tick()
		parallel.Tick()
	}

	if a, b := serial.Stats(), parallel.Stats(); a != b {
		t.Errorf("stats differ:\nserial   %+v\nparallel %+v", a, b)
	}
	if !reflect.DeepEqual(serial.Snapshot(), parallel.Snapshot()) {
		t.Error("snapshots differ between serial and parallel sensing")
	}
}

func TestNestTransferOrderInsensitive(t *testing.T) {
	deliver := func(first, second float64) float64 {
		sim := newTestSimulation(t, 1, func(c *config.Config) {
			c.Population.Agents = 0
			c.Food.Piles = 0
		})
		fgs := ecs.NewMap1[components.Forager](sim.world)
		for _, carried := range []float64{first, second} {
			e := sim.spawnAnt(nestCoord, startHeading)
			fg := fgs.Get(e)
			fg.Goal = components.GoalReturning
			fg.Carried = carried
			fg.Found = carried
		}

		sim.index.Rebuild()
		ev := sim.forager.Update()
		if ev.Deliveries != 2 {
			t.Errorf("deliveries = %d, want 2", ev.Deliveries)
		}
		if st := sim.Stats(); st.Returning != 0 || st.Carrying != 0 {
			t.Errorf("after delivery: %+v", st)
		}
		return sim.nestMap.Get(sim.nest).Returned
	}

	ab := deliver(3, 4)
	ba := deliver(4, 3)
	if ab != 7 || ba != 7 {
		t.Errorf("nest returned %v and %v, want 7 both ways", ab, ba)
	}
}

func TestSnapshot(t *testing.T) {
	sim := newTestSimulation(t, 2, nil)
	cfg := sim.Config()
	before := sim.Stats()

	items := sim.Snapshot()
	tiles := sim.Field().NumTiles()
	if want := tiles + cfg.Food.Piles + 1 + cfg.Population.Agents; len(items) != want {
		t.Fatalf("snapshot has %d items, want %d", len(items), want)
	}

	counts := map[ItemKind]int{}
	for i, it := range items {
		counts[it.Kind]++
		if i < tiles && it.Kind != ItemTile {
			t.Fatalf("item %d is %v, tiles must come first", i, it.Kind)
		}
		x, y := it.Pos.ToPixel(cfg.Render.HexSize)
		if x != it.X || y != it.Y {
			t.Errorf("%v projected to (%v,%v), item has (%v,%v)", it.Kind, x, y, it.X, it.Y)
		}
		switch it.Kind {
		case ItemAnt:
			if it.Shape != ShapeTriangle || it.Fill != systems.AgentEmptyFill || it.Orientation != startHeading {
				t.Errorf("ant item = %+v", it)
			}
		case ItemNest:
			if it.Pos != nestCoord.Pos() || it.Fill != systems.NestFill {
				t.Errorf("nest item = %+v", it)
			}
		case ItemTile:
			if it.Fill != "#000000" {
				t.Errorf("fresh tile fill = %s", it.Fill)
			}
		}
	}
	if counts[ItemAnt] != cfg.Population.Agents || counts[ItemFood] != cfg.Food.Piles || counts[ItemNest] != 1 {
		t.Errorf("counts = %v", counts)
	}

	if after := sim.Stats(); after != before {
		t.Error("snapshot changed the simulation")
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	var windows []telemetry.WindowStats
	sim, err := New(Options{
		Seed:        4,
		Config:      testConfig(t, nil),
		StatsWindow: 50,
		OutputDir:   dir,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	sim.Run(120)
	if err := sim.Close(); err != nil {
		t.Fatal(err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if windows[0].WindowEndTick != 50 || windows[1].WindowEndTick != 100 {
		t.Errorf("window ends = %d, %d", windows[0].WindowEndTick, windows[1].WindowEndTick)
	}
	if windows[0].Agents != sim.Config().Population.Agents {
		t.Errorf("agents = %d", windows[0].Agents)
	}
	if windows[0].Deposits == 0 || windows[0].HomeScentCoverage == 0 {
		t.Errorf("no trail activity in first window: %+v", windows[0])
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want 3", len(lines))
	}
	for _, name := range []string{"perf.csv", "bookmarks.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestItemKindString(t *testing.T) {
	if ItemAnt.String() != "ant" || ItemKind(99).String() != "unknown" {
		t.Errorf("unexpected names %q %q", ItemAnt.String(), ItemKind(99).String())
	}
}
