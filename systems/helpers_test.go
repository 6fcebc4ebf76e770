package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/hex"
)

// testColony wires the systems over a small map the way the game does.
type testColony struct {
	cfg     *config.Config
	world   *ecs.World
	field   *ScentField
	food    *FoodSystem
	forager *ForagerSystem
	index   *CollisionIndex
	ants    *ecs.Map5[components.Position, components.Orientation, components.Forager, components.ScentActor, components.Collider]
	nests   *ecs.Map3[components.Nest, components.Position, components.Collider]
}

func newTestColony(t *testing.T, mutate func(*config.Config)) *testColony {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Map.Radius = 3
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	w := ecs.NewWorld()
	rng := rand.New(rand.NewSource(1))
	field := NewScentField(w, cfg.Scent.Kinds)
	field.Generate(cfg.Map.Radius)
	food := NewFoodSystem(w, cfg.Food, cfg.Map.Radius, hex.Origin, rng)
	forager, err := NewForagerSystem(w, field, food, cfg, rng)
	if err != nil {
		t.Fatalf("NewForagerSystem: %v", err)
	}

	return &testColony{
		cfg:     cfg,
		world:   w,
		field:   field,
		food:    food,
		forager: forager,
		index:   NewCollisionIndex(w),
		ants:    ecs.NewMap5[components.Position, components.Orientation, components.Forager, components.ScentActor, components.Collider](w),
		nests:   ecs.NewMap3[components.Nest, components.Position, components.Collider](w),
	}
}

func (tc *testColony) addAnt(at hex.Coord, goal components.Goal, carried float64) ecs.Entity {
	pos := components.Position{Pos: at.Pos()}
	ori := components.Orientation{Dir: hex.BottomRight}
	fg := components.Forager{Goal: goal, Carried: carried}
	actor := components.ScentActor{Deposit: make([]float64, tc.field.NumKinds())}
	return tc.ants.NewEntity(&pos, &ori, &fg, &actor, &components.Collider{})
}

func (tc *testColony) addNest(at hex.Coord) ecs.Entity {
	pos := components.Position{Pos: at.Pos()}
	return tc.nests.NewEntity(&components.Nest{}, &pos, &components.Collider{})
}

func (tc *testColony) foragerOf(e ecs.Entity) *components.Forager {
	return ecs.NewMap1[components.Forager](tc.world).Get(e)
}

func (tc *testColony) actorOf(e ecs.Entity) *components.ScentActor {
	return ecs.NewMap1[components.ScentActor](tc.world).Get(e)
}
