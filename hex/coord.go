// Package hex provides cube coordinates for a hexagonal grid.
//
// Every coordinate has three axes (A, B, C) with A+B+C = 0. A coordinate can
// also be addressed by ring (distance from the origin), side (one of six
// sextants, clockwise from the top-left) and tile (offset along the side).
//
//	ring 1:  side 0 = (1,-1,0)  side 1 = (1,0,-1)  side 2 = (0,1,-1)
//	         side 3 = (-1,1,0)  side 4 = (-1,0,1)  side 5 = (0,-1,1)
package hex

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate is returned for malformed cube or ring/side/tile input.
var ErrInvalidCoordinate = errors.New("hex: invalid coordinate")

// Direction is one of the six neighbor directions.
type Direction uint8

const (
	TopLeft Direction = iota
	Top
	TopRight
	BottomRight
	Bottom
	BottomLeft

	NumDirections = 6
)

// unit holds the cube delta for each direction.
var unit = [NumDirections]Coord{
	TopLeft:     {1, -1, 0},
	Top:         {1, 0, -1},
	TopRight:    {0, 1, -1},
	BottomRight: {-1, 1, 0},
	Bottom:      {-1, 0, 1},
	BottomLeft:  {0, -1, 1},
}

var directionNames = [NumDirections]string{"topleft", "top", "topright", "bottomright", "bottom", "bottomleft"}

// Unit returns the cube delta of d.
func (d Direction) Unit() Coord {
	return unit[d%NumDirections]
}

// Opposite returns the direction pointing back, (d+3) mod 6.
func (d Direction) Opposite() Direction {
	return (d + 3) % NumDirections
}

// Valid reports whether d is one of the six directions.
func (d Direction) Valid() bool {
	return d < NumDirections
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Coord is a discrete cube coordinate. It is comparable and used directly
// as a map key for anything indexed by tile.
type Coord struct {
	A, B, C int
}

// Origin is the center tile.
var Origin = Coord{}

// FromCube validates and returns a discrete coordinate.
func FromCube(a, b, c int) (Coord, error) {
	if a+b+c != 0 {
		return Coord{}, fmt.Errorf("%w: cube (%d,%d,%d) sums to %d", ErrInvalidCoordinate, a, b, c, a+b+c)
	}
	return Coord{a, b, c}, nil
}

// FromRingSideTile converts a ring/side/tile address into a cube coordinate.
// The tile is the number of steps walked along the side, starting at the
// corner shared with the previous side.
func FromRingSideTile(ring, side, tile int) (Coord, error) {
	switch {
	case ring < 0:
		return Coord{}, fmt.Errorf("%w: negative ring %d", ErrInvalidCoordinate, ring)
	case side < 0 || side >= NumDirections:
		return Coord{}, fmt.Errorf("%w: side %d out of range", ErrInvalidCoordinate, side)
	case tile < 0:
		return Coord{}, fmt.Errorf("%w: negative tile %d", ErrInvalidCoordinate, tile)
	case ring > 0 && tile > ring:
		return Coord{}, fmt.Errorf("%w: tile %d exceeds ring %d", ErrInvalidCoordinate, tile, ring)
	}
	if ring == 0 {
		return Origin, nil
	}
	corner := unit[side].Scale(ring)
	// Walking along side s moves in direction s+2.
	step := unit[(side+2)%NumDirections].Scale(tile)
	return corner.Add(step), nil
}

// Add returns c+o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.A + o.A, c.B + o.B, c.C + o.C}
}

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{c.A - o.A, c.B - o.B, c.C - o.C}
}

// Scale returns c multiplied by k.
func (c Coord) Scale(k int) Coord {
	return Coord{c.A * k, c.B * k, c.C * k}
}

// Neighbor returns the adjacent coordinate in direction d.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(d.Unit())
}

// Neighbors returns all six adjacent coordinates in direction order.
func (c Coord) Neighbors() [NumDirections]Coord {
	var out [NumDirections]Coord
	for d := range out {
		out[d] = c.Add(unit[d])
	}
	return out
}

// Distance returns the number of steps between c and o.
// Because the deltas sum to zero, the largest absolute delta is the distance.
func (c Coord) Distance(o Coord) int {
	return RingFromAxes(c.A-o.A, c.B-o.B, c.C-o.C)
}

// Valid reports whether the axes sum to zero.
func (c Coord) Valid() bool {
	return c.A+c.B+c.C == 0
}

// Ring returns the distance from the origin.
func (c Coord) Ring() int {
	return RingFromAxes(c.A, c.B, c.C)
}

// Side returns the sextant of c.
func (c Coord) Side() int {
	return SideFromAxes(c.A, c.B, c.C)
}

// Tile returns the offset of c along its side.
func (c Coord) Tile() int {
	return TileFromAxes(c.A, c.B, c.C)
}

// RingSideTile returns the alternate address of c.
func (c Coord) RingSideTile() (ring, side, tile int) {
	return c.Ring(), c.Side(), c.Tile()
}

// Pos returns the tile center as a continuous position.
func (c Coord) Pos() Pos {
	return Pos{float64(c.A), float64(c.B), float64(c.C)}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.A, c.B, c.C)
}

// RingFromAxes returns max(|a|,|b|,|c|).
func RingFromAxes(a, b, c int) int {
	return max(abs(a), abs(b), abs(c))
}

// SideFromAxes returns the sextant of a coordinate.
//
// A coordinate on ring r > 0 lies on exactly one half-open side:
//
//	side 0: a = r,  c in (-r, 0]
//	side 1: c = -r, b in [0, r)
//	side 2: b = r,  a in (-r, 0]
//	side 3: a = -r, c in [0, r)
//	side 4: c = r,  b in (-r, 0]
//	side 5: b = -r, a in [0, r)
//
// When two axes are equal the coordinate sits in the middle of the side
// bordered by that pair; the side flips by three when the pair is negative.
// The origin is side 0.
func SideFromAxes(a, b, c int) int {
	r := RingFromAxes(a, b, c)
	switch {
	case r == 0:
		return 0
	case a == r && c > -r && c <= 0:
		return 0
	case c == -r && b >= 0 && b < r:
		return 1
	case b == r && a > -r && a <= 0:
		return 2
	case a == -r && c >= 0 && c < r:
		return 3
	case c == r && b > -r && b <= 0:
		return 4
	default:
		return 5
	}
}

// TileFromAxes returns the distance from the side's starting corner.
func TileFromAxes(a, b, c int) int {
	r := RingFromAxes(a, b, c)
	if r == 0 {
		return 0
	}
	corner := unit[SideFromAxes(a, b, c)].Scale(r)
	return Coord{a, b, c}.Distance(corner)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
