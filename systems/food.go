package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/hex"
)

// relocateAttempts bounds the search for a tile that is not the nest.
const relocateAttempts = 64

// FoodSystem places food sources and handles withdrawals.
type FoodSystem struct {
	mapper    *ecs.Map3[components.Food, components.Position, components.Collider]
	foods     *ecs.Map1[components.Food]
	positions *ecs.Map1[components.Position]
	filter    ecs.Filter2[components.Food, components.Position]

	cfg     config.FoodConfig
	maxRing int
	nest    hex.Coord
	rng     *rand.Rand
}

// NewFoodSystem creates a food system placing sources within ring
// radius-1 and never on nest.
func NewFoodSystem(w *ecs.World, cfg config.FoodConfig, radius int, nest hex.Coord, rng *rand.Rand) *FoodSystem {
	return &FoodSystem{
		mapper:    ecs.NewMap3[components.Food, components.Position, components.Collider](w),
		foods:     ecs.NewMap1[components.Food](w),
		positions: ecs.NewMap1[components.Position](w),
		filter:    *ecs.NewFilter2[components.Food, components.Position](w),
		cfg:       cfg,
		maxRing:   max(radius-1, 1),
		nest:      nest,
		rng:       rng,
	}
}

// Spawn creates n food sources at random tiles.
func (s *FoodSystem) Spawn(n int) []ecs.Entity {
	out := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		amount := s.randomAmount()
		food := components.Food{Amount: amount, Start: amount}
		pos := components.Position{Pos: s.randomTile().Pos()}
		out = append(out, s.mapper.NewEntity(&food, &pos, &components.Collider{}))
	}
	return out
}

// SpawnAt creates one food source with the given amount at c.
func (s *FoodSystem) SpawnAt(c hex.Coord, amount float64) ecs.Entity {
	food := components.Food{Amount: amount, Start: amount}
	pos := components.Position{Pos: c.Pos()}
	return s.mapper.NewEntity(&food, &pos, &components.Collider{})
}

// Withdraw takes up to rate from the source e. When the source runs dry
// it moves to a new tile with a fresh amount and relocated is true.
func (s *FoodSystem) Withdraw(e ecs.Entity, rate float64) (taken float64, relocated bool) {
	if rate <= 0 || !s.foods.HasAll(e) {
		return 0, false
	}
	food := s.foods.Get(e)
	taken = min(rate, food.Amount)
	food.Amount -= taken
	if food.Amount > 0 {
		return taken, false
	}

	amount := s.randomAmount()
	food.Amount = amount
	food.Start = amount
	food.Relocations++
	s.positions.Get(e).Pos = s.randomTile().Pos()
	return taken, true
}

// Remaining returns the total food left over all sources.
func (s *FoodSystem) Remaining() float64 {
	var total float64
	query := s.filter.Query()
	for query.Next() {
		food, _ := query.Get()
		total += food.Amount
	}
	return total
}

func (s *FoodSystem) randomAmount() float64 {
	lo, hi := s.cfg.MinAmount, s.cfg.MaxAmount
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *FoodSystem) randomTile() hex.Coord {
	var c hex.Coord
	for i := 0; i < relocateAttempts; i++ {
		c = hex.RandomTileCenter(s.rng, s.maxRing)
		if c != s.nest {
			return c
		}
	}
	// Fall back to a fixed neighbor of the nest.
	return s.nest.Neighbor(hex.Top)
}
