package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
)

// MovementSystem advances every mover along its orientation.
type MovementSystem struct {
	filter   ecs.Filter3[components.Position, components.Orientation, components.Mover]
	boundary float64
	eps      float64
}

// NewMovementSystem creates a movement system. No axis of a position may
// reach boundary.
func NewMovementSystem(w *ecs.World, boundary, eps float64) *MovementSystem {
	return &MovementSystem{
		filter:   *ecs.NewFilter3[components.Position, components.Orientation, components.Mover](w),
		boundary: boundary,
		eps:      eps,
	}
}

// Update moves every mover one step and returns the number of bounces.
// A step that would reach the boundary is dropped and the mover turns
// around in place.
func (s *MovementSystem) Update() int {
	bounces := 0
	query := s.filter.Query()
	for query.Next() {
		pos, ori, mv := query.Get()

		next := pos.Pos.Step(ori.Dir, mv.Speed)
		if next.MaxAbs() >= s.boundary {
			ori.Dir = ori.Dir.Opposite()
			mv.Bounces++
			bounces++
			continue
		}
		// Snap so rounding error never accumulates across tiles.
		if next.AtTileCenter(s.eps) {
			next = next.Round().Pos()
		}
		pos.Pos = next
	}
	return bounces
}
