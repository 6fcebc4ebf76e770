package systems

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/hex"
)

// Sensor fills per-kind neighbor readings for a tile.
// Both ScentField and ScentView implement it.
type Sensor interface {
	SenseNeighbors(c hex.Coord, dst [][6]components.Sensed) [][6]components.Sensed
}

// ForageEvents counts what happened during one decide or deposit phase.
type ForageEvents struct {
	Decisions   int
	Pickups     int
	Found       float64
	Deliveries  int
	Returned    float64
	Relocations int
	Deposits    int
	Dropped     int
}

// ForagerSystem is the per-ant controller. Ants only sense, decide and
// deposit while standing on a tile center.
type ForagerSystem struct {
	filter    ecs.Filter5[components.Position, components.Orientation, components.Forager, components.ScentActor, components.Collider]
	actors    ecs.Filter1[components.ScentActor]
	actorMap  *ecs.Map1[components.ScentActor]
	positions *ecs.Map1[components.Position]
	nests     *ecs.Map1[components.Nest]

	field *ScentField
	food  *FoodSystem
	rng   *rand.Rand

	cfg      config.AgentConfig
	eps      float64
	foodKind Kind
	homeKind Kind
}

// NewForagerSystem creates the controller. The field must have food and
// home kinds.
func NewForagerSystem(w *ecs.World, field *ScentField, food *FoodSystem, cfg *config.Config, rng *rand.Rand) (*ForagerSystem, error) {
	foodKind, err := field.Kind("food")
	if err != nil {
		return nil, err
	}
	homeKind, err := field.Kind("home")
	if err != nil {
		return nil, err
	}
	return &ForagerSystem{
		filter:    *ecs.NewFilter5[components.Position, components.Orientation, components.Forager, components.ScentActor, components.Collider](w),
		actors:    *ecs.NewFilter1[components.ScentActor](w),
		actorMap:  ecs.NewMap1[components.ScentActor](w),
		positions: ecs.NewMap1[components.Position](w),
		nests:     ecs.NewMap1[components.Nest](w),
		field:     field,
		food:      food,
		rng:       rng,
		cfg:       cfg.Agent,
		eps:       cfg.Simulation.Epsilon,
		foodKind:  foodKind,
		homeKind:  homeKind,
	}, nil
}

// InterestKind returns the scent kind an ant with goal g follows.
func (s *ForagerSystem) InterestKind(g components.Goal) Kind {
	if g == components.GoalReturning {
		return s.homeKind
	}
	return s.foodKind
}

// Sense refreshes the neighbor readings of every ant on a tile center.
func (s *ForagerSystem) Sense(src Sensor) int {
	sensed := 0
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, actor, _ := query.Get()
		if !pos.Pos.AtTileCenter(s.eps) {
			continue
		}
		actor.Sensed = src.SenseNeighbors(pos.Coord(), actor.Sensed)
		sensed++
	}
	return sensed
}

// SenseTarget is an ant on a tile center that needs fresh readings.
type SenseTarget struct {
	Entity ecs.Entity
	Coord  hex.Coord
}

// SenseTargets appends every ant on a tile center to dst[:0], in query
// order.
func (s *ForagerSystem) SenseTargets(dst []SenseTarget) []SenseTarget {
	dst = dst[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, _, _, _, _ := query.Get()
		if pos.Pos.AtTileCenter(s.eps) {
			dst = append(dst, SenseTarget{Entity: query.Entity(), Coord: pos.Coord()})
		}
	}
	return dst
}

// StoreSensed installs readings computed elsewhere on e and hands back
// the buffer it replaced so the caller can reuse it.
func (s *ForagerSystem) StoreSensed(e ecs.Entity, sensed [][6]components.Sensed) [][6]components.Sensed {
	actor := s.actorMap.Get(e)
	prev := actor.Sensed
	actor.Sensed = sensed
	return prev
}

// Update runs the decision step for every ant on a tile center:
// collisions and goal changes, deposit bookkeeping, a new heading and
// a queued deposit for the current tile.
func (s *ForagerSystem) Update() ForageEvents {
	var ev ForageEvents
	query := s.filter.Query()
	for query.Next() {
		pos, ori, fg, actor, col := query.Get()
		if !pos.Pos.AtTileCenter(s.eps) {
			continue
		}
		coord := pos.Coord()
		pos.Pos = coord.Pos()
		ev.Decisions++

		s.resolveCollisions(coord, fg, actor, col, &ev)
		s.bookkeeping(fg.Goal, actor)
		ori.Dir = s.chooseDirection(s.InterestKind(fg.Goal), actor)

		actor.Pending = true
		actor.Tile = components.Tile{Coord: coord}
	}
	return ev
}

// resolveCollisions handles food pickups and nest deliveries. Each
// collision is judged against the ant's state at that moment, so at most
// one goal change happens per partner type.
func (s *ForagerSystem) resolveCollisions(coord hex.Coord, fg *components.Forager, actor *components.ScentActor, col *components.Collider, ev *ForageEvents) {
	for _, other := range col.With {
		switch {
		case fg.Goal == components.GoalForaging && s.food.foods.HasAll(other):
			// A source emptied earlier this tick may already have moved.
			if s.positions.Get(other).Coord() != coord {
				continue
			}
			taken, relocated := s.food.Withdraw(other, s.cfg.WithdrawRate)
			if relocated {
				ev.Relocations++
			}
			if taken <= 0 {
				continue
			}
			fg.Carried += taken
			fg.Found += taken
			fg.Goal = components.GoalReturning
			actor.Deposit[s.foodKind] = s.cfg.Deposit.Food
			ev.Pickups++
			ev.Found += taken

		case fg.Goal == components.GoalReturning && s.nests.HasAll(other):
			nest := s.nests.Get(other)
			nest.Returned += fg.Carried
			nest.Deliveries++
			fg.Returned += fg.Carried
			ev.Returned += fg.Carried
			ev.Deliveries++
			fg.Carried = 0
			fg.Trips++
			fg.Goal = components.GoalForaging
			actor.Deposit[s.homeKind] = s.cfg.Deposit.Home
		}
	}
}

// bookkeeping clears the deposit of the kind being followed and fades
// every other kind.
func (s *ForagerSystem) bookkeeping(g components.Goal, actor *components.ScentActor) {
	interest := s.InterestKind(g)
	for k := range actor.Deposit {
		if Kind(k) == interest {
			actor.Deposit[k] = 0
			continue
		}
		actor.Deposit[k] = max(actor.Deposit[k]-s.cfg.DepositDecay, 0)
	}
}

func (s *ForagerSystem) chooseDirection(interest Kind, actor *components.ScentActor) hex.Direction {
	if s.rng.Float64() <= s.cfg.FollowProbability && int(interest) < len(actor.Sensed) {
		return Strongest(actor.Sensed[interest])
	}
	return hex.Direction(s.rng.Intn(hex.NumDirections))
}

// Strongest returns the direction with the highest present level. Ties
// go to the lowest direction; with nothing present it returns TopLeft.
func Strongest(levels [6]components.Sensed) hex.Direction {
	best := hex.TopLeft
	found := false
	for d, s := range levels {
		if !s.Present {
			continue
		}
		if !found || s.Level > levels[best].Level {
			best = hex.Direction(d)
			found = true
		}
	}
	return best
}

// ApplyDeposits lays every queued deposit on its tile. Deposits that
// cannot be placed are logged and dropped.
func (s *ForagerSystem) ApplyDeposits() ForageEvents {
	var ev ForageEvents
	query := s.actors.Query()
	for query.Next() {
		actor := query.Get()
		if !actor.Pending {
			continue
		}
		actor.Pending = false
		for k, amount := range actor.Deposit {
			if amount <= 0 {
				continue
			}
			if err := s.field.DepositKind(actor.Tile.Coord, Kind(k), amount); err != nil {
				slog.Warn("deposit dropped", "tile", actor.Tile.Coord.String(), "kind", k, "amount", amount, "error", err)
				ev.Dropped++
				continue
			}
			ev.Deposits++
		}
	}
	return ev
}

// Add merges o into e.
func (e *ForageEvents) Add(o ForageEvents) {
	e.Decisions += o.Decisions
	e.Pickups += o.Pickups
	e.Found += o.Found
	e.Deliveries += o.Deliveries
	e.Returned += o.Returned
	e.Relocations += o.Relocations
	e.Deposits += o.Deposits
	e.Dropped += o.Dropped
}
