package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hexaco/components"
	"github.com/pthm-cable/hexaco/config"
	"github.com/pthm-cable/hexaco/hex"
)

var (
	// ErrUnknownScentKind is returned for a scent name that is not configured.
	ErrUnknownScentKind = errors.New("systems: unknown scent kind")
	// ErrNoTile is returned when a coordinate lies outside the map.
	ErrNoTile = errors.New("systems: no tile at coordinate")
)

// Kind indexes a configured scent kind.
type Kind int

// ScentField owns the map tiles and the scent levels stored on them.
// Levels only change through Deposit and Decay.
type ScentField struct {
	kinds []config.ScentKindConfig
	index map[string]Kind

	tiles   map[hex.Coord]ecs.Entity
	order   []hex.Coord // tile coordinates in creation order
	holders *ecs.Map1[components.ScentHolder]
	mapper  *ecs.Map3[components.Tile, components.Position, components.ScentHolder]
	filter  ecs.Filter1[components.ScentHolder]
}

// NewScentField creates an empty field for the given kinds.
func NewScentField(w *ecs.World, kinds []config.ScentKindConfig) *ScentField {
	index := make(map[string]Kind, len(kinds))
	for i, k := range kinds {
		index[k.Name] = Kind(i)
	}
	return &ScentField{
		kinds:   kinds,
		index:   index,
		tiles:   make(map[hex.Coord]ecs.Entity),
		holders: ecs.NewMap1[components.ScentHolder](w),
		mapper:  ecs.NewMap3[components.Tile, components.Position, components.ScentHolder](w),
		filter:  *ecs.NewFilter1[components.ScentHolder](w),
	}
}

// Generate creates one tile for every coordinate with ring <= radius.
// Coordinates that already have a tile are skipped.
func (f *ScentField) Generate(radius int) int {
	created := 0
	for _, c := range hex.Disk(radius) {
		if _, ok := f.tiles[c]; ok {
			continue
		}
		tile := components.Tile{Coord: c}
		pos := components.Position{Pos: c.Pos()}
		holder := components.ScentHolder{Levels: make([]float64, len(f.kinds))}
		f.tiles[c] = f.mapper.NewEntity(&tile, &pos, &holder)
		f.order = append(f.order, c)
		created++
	}
	return created
}

// NumKinds returns the number of configured kinds.
func (f *ScentField) NumKinds() int {
	return len(f.kinds)
}

// KindName returns the configured name of k.
func (f *ScentField) KindName(k Kind) string {
	return f.kinds[k].Name
}

// Kind resolves a scent name.
func (f *ScentField) Kind(name string) (Kind, error) {
	k, ok := f.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownScentKind, name)
	}
	return k, nil
}

// Tile returns the tile entity at c.
func (f *ScentField) Tile(c hex.Coord) (ecs.Entity, bool) {
	e, ok := f.tiles[c]
	return e, ok
}

// Coords returns every tile coordinate, innermost ring first.
func (f *ScentField) Coords() []hex.Coord {
	return f.order
}

// NumTiles returns the number of tiles on the map.
func (f *ScentField) NumTiles() int {
	return len(f.order)
}

// Deposit adds amount of the named kind to the tile at c.
func (f *ScentField) Deposit(c hex.Coord, kind string, amount float64) error {
	k, err := f.Kind(kind)
	if err != nil {
		return err
	}
	return f.DepositKind(c, k, amount)
}

// DepositKind adds amount of kind k to the tile at c. Non-positive
// amounts are ignored.
func (f *ScentField) DepositKind(c hex.Coord, k Kind, amount float64) error {
	if int(k) < 0 || int(k) >= len(f.kinds) {
		return fmt.Errorf("%w: index %d", ErrUnknownScentKind, k)
	}
	e, ok := f.tiles[c]
	if !ok {
		return fmt.Errorf("%w: %v", ErrNoTile, c)
	}
	if amount <= 0 {
		return nil
	}
	f.holders.Get(e).Levels[k] += amount
	return nil
}

// Level returns the level of kind k at c. ok is false when there is no tile.
func (f *ScentField) Level(c hex.Coord, k Kind) (level float64, ok bool) {
	e, ok := f.tiles[c]
	if !ok {
		return 0, false
	}
	return f.holders.Get(e).Levels[k], true
}

// SenseNeighbors returns, per kind, the six neighbor levels of c in
// direction order. Directions without a tile are reported as absent.
// dst is reused when it has the right length.
func (f *ScentField) SenseNeighbors(c hex.Coord, dst [][6]components.Sensed) [][6]components.Sensed {
	if len(dst) != len(f.kinds) {
		dst = make([][6]components.Sensed, len(f.kinds))
	}
	for d, n := range c.Neighbors() {
		e, ok := f.tiles[n]
		if !ok {
			for k := range dst {
				dst[k][d] = components.Sensed{}
			}
			continue
		}
		levels := f.holders.Get(e).Levels
		for k := range dst {
			dst[k][d] = components.Sensed{Level: levels[k], Present: true}
		}
	}
	return dst
}

// Decay applies every kind's decay policy once to levels.
func (f *ScentField) Decay(levels []float64) {
	for k := range levels {
		levels[k] = decayLevel(levels[k], &f.kinds[k])
	}
}

// DecayAll decays every tile once.
func (f *ScentField) DecayAll() {
	query := f.filter.Query()
	for query.Next() {
		holder := query.Get()
		f.Decay(holder.Levels)
	}
}

// decayLevel applies one decay step. The result is never negative.
func decayLevel(level float64, kc *config.ScentKindConfig) float64 {
	if level <= 0 {
		return 0
	}
	switch kc.Policy {
	case config.PolicyRelative:
		level *= 1 - kc.Factor
	default:
		level -= kc.Delta
	}
	if level <= kc.Floor || level < 0 {
		return 0
	}
	return level
}

// Totals returns the summed level of each kind over all tiles.
func (f *ScentField) Totals() []float64 {
	totals := make([]float64, len(f.kinds))
	query := f.filter.Query()
	for query.Next() {
		holder := query.Get()
		for k, v := range holder.Levels {
			totals[k] += v
		}
	}
	return totals
}

// Levels appends the level of kind k on every tile to dst, in tile order.
func (f *ScentField) Levels(k Kind, dst []float64) []float64 {
	dst = dst[:0]
	for _, c := range f.order {
		dst = append(dst, f.holders.Get(f.tiles[c]).Levels[k])
	}
	return dst
}

// ScentView is a read-only copy of every tile's levels. Workers sense
// from a view so they never touch the ECS world.
type ScentView struct {
	slot   map[hex.Coord]int
	levels []float64 // tile-major, NumKinds entries per tile
	kinds  int
}

// View copies the current levels into v, allocating v if nil.
func (f *ScentField) View(v *ScentView) *ScentView {
	if v == nil {
		v = &ScentView{}
	}
	n := len(f.kinds)
	if v.slot == nil || len(v.slot) != len(f.order) {
		v.slot = make(map[hex.Coord]int, len(f.order))
		for i, c := range f.order {
			v.slot[c] = i
		}
	}
	v.kinds = n
	v.levels = v.levels[:0]
	for _, c := range f.order {
		v.levels = append(v.levels, f.holders.Get(f.tiles[c]).Levels...)
	}
	return v
}

// SenseNeighbors behaves like ScentField.SenseNeighbors on the copied levels.
func (v *ScentView) SenseNeighbors(c hex.Coord, dst [][6]components.Sensed) [][6]components.Sensed {
	if len(dst) != v.kinds {
		dst = make([][6]components.Sensed, v.kinds)
	}
	for d, n := range c.Neighbors() {
		i, ok := v.slot[n]
		if !ok {
			for k := range dst {
				dst[k][d] = components.Sensed{}
			}
			continue
		}
		base := i * v.kinds
		for k := range dst {
			dst[k][d] = components.Sensed{Level: v.levels[base+k], Present: true}
		}
	}
	return dst
}
