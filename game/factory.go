package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/hex"
)

// nestCoord is where the nest sits and where every ant starts.
var nestCoord = hex.Origin

// startHeading is the orientation every ant starts with.
const startHeading = hex.BottomRight

// populate creates the tiles, the nest, the food sources and the ants.
func (s *Simulation) populate() {
	s.field.Generate(s.cfg.Map.Radius)
	s.nest = s.spawnNest(nestCoord)
	s.food.Spawn(s.cfg.Food.Piles)
	for i := 0; i < s.cfg.Population.Agents; i++ {
		s.spawnAnt(nestCoord, startHeading)
	}
}

// spawnNest creates a nest at c.
func (s *Simulation) spawnNest(c hex.Coord) ecs.Entity {
	pos := components.Position{Pos: c.Pos()}
	return s.nestMapper.NewEntity(&components.Nest{}, &pos, &components.Collider{})
}

// spawnAnt creates a foraging ant at c. It starts with a full home trail
// so the first steps away from the nest are marked.
func (s *Simulation) spawnAnt(c hex.Coord, dir hex.Direction) ecs.Entity {
	pos := components.Position{Pos: c.Pos()}
	ori := components.Orientation{Dir: dir}
	mv := components.Mover{Speed: s.cfg.Agent.Speed}
	fg := components.Forager{Goal: components.GoalForaging}
	actor := components.ScentActor{
		Deposit: make([]float64, s.field.NumKinds()),
		Sensed:  make([][6]components.Sensed, s.field.NumKinds()),
	}
	actor.Deposit[s.homeKind] = s.cfg.Agent.Deposit.Home

	return s.antMapper.NewEntity(&pos, &ori, &mv, &fg, &actor, &components.Collider{})
}
