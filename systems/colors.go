package systems

import (
	"fmt"
	"math"
)

// Fill colors for agents.
const (
	AgentCarryingFill = "#ffaa00"
	AgentEmptyFill    = "#001100"
	NestFill          = "#8b4513"
)

// AgentFill returns the fill of an ant carrying the given amount.
func AgentFill(carried float64) string {
	if carried > 0 {
		return AgentCarryingFill
	}
	return AgentEmptyFill
}

// FoodFill shades a source by how much of its start amount is left.
func FoodFill(amount, start float64) string {
	red := channel(ratio(amount, start))
	return rgb(red, red/2, 0)
}

// TileFill colors a tile red by food scent and blue by home scent,
// reaching full intensity at saturation.
func TileFill(food, home, saturation float64) string {
	return rgb(channel(ratio(food, saturation)), 0, channel(ratio(home, saturation)))
}

func ratio(v, full float64) float64 {
	if full <= 0 || v <= 0 {
		return 0
	}
	return math.Min(v/full, 1)
}

func channel(r float64) int {
	return int(255 * r)
}

func rgb(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
