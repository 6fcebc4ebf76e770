// Package components defines ECS components for the colony simulation.
// Each component is one capability; systems filter on the set they need.
package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/hex"
)

// Position is an entity's continuous cube position.
type Position struct {
	Pos hex.Pos
}

// Coord returns the tile the entity is on.
func (p Position) Coord() hex.Coord {
	return p.Pos.Round()
}

// Orientation is the direction an entity moves in.
type Orientation struct {
	Dir hex.Direction
}

// Mover marks entities the movement integrator advances.
type Mover struct {
	Speed   float64 // axis units per tick
	Bounces int     // moves rejected at the boundary
}

// Collider holds the entities sharing this entity's tile, rebuilt every tick.
type Collider struct {
	With []ecs.Entity
}

// Tile marks a grid tile.
type Tile struct {
	Coord hex.Coord
}
