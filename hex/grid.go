package hex

import (
	"math"
	"math/rand"
)

// Ring returns every coordinate at exactly distance r from the origin,
// ordered by side and then tile. Ring 0 is the origin alone.
func Ring(r int) []Coord {
	if r <= 0 {
		return []Coord{Origin}
	}
	out := make([]Coord, 0, NumDirections*r)
	for side := 0; side < NumDirections; side++ {
		for tile := 0; tile < r; tile++ {
			c, _ := FromRingSideTile(r, side, tile)
			out = append(out, c)
		}
	}
	return out
}

// Disk returns all coordinates with ring <= radius, innermost ring first.
func Disk(radius int) []Coord {
	if radius < 0 {
		return nil
	}
	out := make([]Coord, 0, 1+3*radius*(radius+1))
	for r := 0; r <= radius; r++ {
		out = append(out, Ring(r)...)
	}
	return out
}

// RandomCoordinate returns a continuous position scattered around the grid.
// The position is not aligned to a tile center.
func RandomCoordinate(rng *rand.Rand, maxRing int) Pos {
	m := float64(maxRing)
	a := (2*rng.Float64() - 1) * m
	// Bound b so that c = -(a+b) stays inside the ring as well.
	lo := math.Max(-m, -m-a)
	hi := math.Min(m, m-a)
	b := lo + rng.Float64()*(hi-lo)
	return Pos{a, b, -(a + b)}
}

// RandomTileCenter returns a uniformly chosen axis layout of a tile center
// within maxRing. One random axis is drawn from [-maxRing, maxRing], the
// next from the range that keeps the magnitude in bounds, and the third is
// the negated sum.
func RandomTileCenter(rng *rand.Rand, maxRing int) Coord {
	if maxRing <= 0 {
		return Origin
	}
	var axes [3]int
	first := rng.Intn(3)
	axes[first] = randRange(rng, -maxRing, maxRing)

	rest := maxRing - abs(axes[first])
	second := (first + 1) % 3
	axes[second] = randRange(rng, -rest, rest)
	axes[(first+2)%3] = -axes[first] - axes[second]

	return Coord{axes[0], axes[1], axes[2]}
}

// randRange returns a uniform integer in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
