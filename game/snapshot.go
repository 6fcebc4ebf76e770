package game

import (
	"github.com/pthm-cable/hexaco/hex"
	"github.com/pthm-cable/hexaco/systems"
)

// ItemKind identifies what a render item shows.
type ItemKind uint8

const (
	ItemTile ItemKind = iota
	ItemFood
	ItemNest
	ItemAnt
)

var itemKindNames = [...]string{"tile", "food", "nest", "ant"}

func (k ItemKind) String() string {
	if int(k) < len(itemKindNames) {
		return itemKindNames[k]
	}
	return "unknown"
}

// Shape is the outline a renderer should draw.
type Shape uint8

const (
	ShapeHexagon Shape = iota
	ShapeCircle
	ShapeTriangle // points along Orientation
)

// RenderItem is one drawable object. X and Y are the projected center
// for render.hex_size; Pos is the unprojected position.
type RenderItem struct {
	Kind        ItemKind
	X, Y        float64
	Pos         hex.Pos
	Orientation hex.Direction
	Shape       Shape
	Fill        string
}

// Snapshot returns everything a renderer needs for the current tick,
// back to front: tiles, food, the nest, then ants. Reading it never
// changes the simulation.
func (s *Simulation) Snapshot() []RenderItem {
	size := s.cfg.Render.HexSize
	sat := s.cfg.Render.ScentSaturation
	coords := s.field.Coords()
	items := make([]RenderItem, 0, len(coords)+s.cfg.Food.Piles+1+s.cfg.Population.Agents)

	for _, c := range coords {
		food, _ := s.field.Level(c, s.foodKind)
		home, _ := s.field.Level(c, s.homeKind)
		items = append(items, newItem(ItemTile, c.Pos(), size, ShapeHexagon, systems.TileFill(food, home, sat)))
	}

	fq := s.foodFilter.Query()
	for fq.Next() {
		food, pos := fq.Get()
		items = append(items, newItem(ItemFood, pos.Pos, size, ShapeCircle, systems.FoodFill(food.Amount, food.Start)))
	}

	nestPos := nestCoord.Pos()
	items = append(items, newItem(ItemNest, nestPos, size, ShapeCircle, systems.NestFill))

	aq := s.antFilter.Query()
	for aq.Next() {
		pos, ori, fg := aq.Get()
		item := newItem(ItemAnt, pos.Pos, size, ShapeTriangle, systems.AgentFill(fg.Carried))
		item.Orientation = ori.Dir
		items = append(items, item)
	}
	return items
}

func newItem(kind ItemKind, p hex.Pos, size float64, shape Shape, fill string) RenderItem {
	x, y := p.ToPixel(size)
	return RenderItem{Kind: kind, X: x, Y: y, Pos: p, Shape: shape, Fill: fill}
}
