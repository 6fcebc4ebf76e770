package hex

import (
	"fmt"
	"math"
)

// Pos is a continuous cube position for entities in transit between tiles.
type Pos struct {
	A, B, C float64
}

// PosFromCube validates and returns a continuous position.
// The axes must sum to zero within eps.
func PosFromCube(a, b, c, eps float64) (Pos, error) {
	if math.Abs(a+b+c) > eps {
		return Pos{}, fmt.Errorf("%w: cube (%g,%g,%g) sums to %g", ErrInvalidCoordinate, a, b, c, a+b+c)
	}
	return Pos{a, b, c}, nil
}

// Add returns p moved by the given deltas.
func (p Pos) Add(o Pos) Pos {
	return Pos{p.A + o.A, p.B + o.B, p.C + o.C}
}

// Step returns p moved speed units in direction d.
func (p Pos) Step(d Direction, speed float64) Pos {
	u := d.Unit()
	return Pos{
		p.A + float64(u.A)*speed,
		p.B + float64(u.B)*speed,
		p.C + float64(u.C)*speed,
	}
}

// MaxAbs returns the largest absolute axis value.
func (p Pos) MaxAbs() float64 {
	return math.Max(math.Abs(p.A), math.Max(math.Abs(p.B), math.Abs(p.C)))
}

// Round quantizes p to the nearest tile. Each axis is rounded and the axis
// with the largest rounding error is re-derived so the result sums to zero.
func (p Pos) Round() Coord {
	ra, rb, rc := math.Round(p.A), math.Round(p.B), math.Round(p.C)
	da, db, dc := math.Abs(ra-p.A), math.Abs(rb-p.B), math.Abs(rc-p.C)

	switch {
	case da > db && da > dc:
		ra = -rb - rc
	case db > dc:
		rb = -ra - rc
	default:
		rc = -ra - rb
	}
	return Coord{int(ra), int(rb), int(rc)}
}

// AtTileCenter reports whether every axis is integral within eps.
func (p Pos) AtTileCenter(eps float64) bool {
	return isIntegral(p.A, eps) && isIntegral(p.B, eps) && isIntegral(p.C, eps)
}

func isIntegral(v, eps float64) bool {
	return math.Abs(v-math.Round(v)) <= eps
}

func (p Pos) String() string {
	return fmt.Sprintf("(%.3f,%.3f,%.3f)", p.A, p.B, p.C)
}

// ToPixel projects p onto a 2-D plane for a flat layout with the given
// hex radius. The A axis points up, matching the Top direction.
func (p Pos) ToPixel(size float64) (x, y float64) {
	// With C = -A-B the B axis runs to the lower right.
	x = size * 1.5 * p.B
	y = -size * math.Sqrt(3) * (p.A + p.B/2)
	return x, y
}

// ToPixel projects the tile center of c.
func (c Coord) ToPixel(size float64) (x, y float64) {
	return c.Pos().ToPixel(size)
}
