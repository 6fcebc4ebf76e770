// Package systems provides ECS systems for the colony simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/hex"
)

// CollisionIndex buckets collidable entities by tile each tick and fills
// every Collider with the other entities on its tile.
type CollisionIndex struct {
	filter    ecs.Filter2[components.Position, components.Collider]
	colliders *ecs.Map1[components.Collider]

	buckets map[hex.Coord][]ecs.Entity
	touched []hex.Coord // keys filled this tick, in insertion order
	shared  int
}

// NewCollisionIndex creates a collision index over w.
func NewCollisionIndex(w *ecs.World) *CollisionIndex {
	return &CollisionIndex{
		filter:    *ecs.NewFilter2[components.Position, components.Collider](w),
		colliders: ecs.NewMap1[components.Collider](w),
		buckets:   make(map[hex.Coord][]ecs.Entity),
	}
}

// Rebuild clears every collision list and recomputes them from the
// current positions. Entities on a tile of their own end up with an
// empty list.
func (ci *CollisionIndex) Rebuild() {
	for _, c := range ci.touched {
		ci.buckets[c] = ci.buckets[c][:0]
	}
	ci.touched = ci.touched[:0]

	query := ci.filter.Query()
	for query.Next() {
		pos, col := query.Get()
		col.With = col.With[:0]

		key := pos.Coord()
		bucket := ci.buckets[key]
		if len(bucket) == 0 {
			ci.touched = append(ci.touched, key)
		}
		ci.buckets[key] = append(bucket, query.Entity())
	}

	ci.shared = 0
	for _, key := range ci.touched {
		bucket := ci.buckets[key]
		if len(bucket) < 2 {
			continue
		}
		ci.shared++
		for _, e := range bucket {
			col := ci.colliders.Get(e)
			for _, other := range bucket {
				if other != e {
					col.With = append(col.With, other)
				}
			}
		}
	}
}

// At returns the collidable entities on c as of the last Rebuild.
// The slice is owned by the index.
func (ci *CollisionIndex) At(c hex.Coord) []ecs.Entity {
	return ci.buckets[c]
}

// Occupied returns the number of tiles holding at least one collidable.
func (ci *CollisionIndex) Occupied() int {
	return len(ci.touched)
}

// Shared returns the number of tiles holding two or more collidables.
func (ci *CollisionIndex) Shared() int {
	return ci.shared
}
