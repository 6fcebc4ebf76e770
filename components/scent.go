package components

// Sensed is one neighbor reading. Present is false when there is no tile
// in that direction.
type Sensed struct {
	Level   float64
	Present bool
}

// ScentHolder is the per-kind scent level stored on a tile.
type ScentHolder struct {
	Levels []float64
}

// ScentActor is an entity that senses and deposits scent.
type ScentActor struct {
	Deposit []float64   // per-kind amount laid on the current tile
	Sensed  [][6]Sensed // per-kind neighbor readings, refreshed at tile centers
	Pending bool        // a deposit is queued for Tile
	Tile    Tile
}
