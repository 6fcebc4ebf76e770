package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	pickups     int
	found       float64
	deliveries  int
	returned    float64
	relocations int
	bounces     int
	deposits    int
	dropped     int
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// Record adds an event to the current window. Events with a zero count
// are ignored.
func (c *Collector) Record(e Event) {
	if e.Count == 0 {
		return
	}
	switch e.Type {
	case EventPickup:
		c.pickups += e.Count
		c.found += e.Amount
	case EventDelivery:
		c.deliveries += e.Count
		c.returned += e.Amount
	case EventRelocation:
		c.relocations += e.Count
	case EventBounce:
		c.bounces += e.Count
	case EventDeposit:
		c.deposits += e.Count
	case EventDroppedDeposit:
		c.dropped += e.Count
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// ColonySample is the colony state sampled at the end of a window.
type ColonySample struct {
	Agents        int
	Foraging      int
	Returning     int
	Carried       float64
	FoodRemaining float64
	NestReturned  float64 // all-time total at the nest
	SharedTiles   int     // tiles holding two or more collidables
}

// Flush produces a WindowStats and resets counters for the next window.
// foodLevels and homeLevels are the per-tile scent levels at window end.
func (c *Collector) Flush(currentTick int32, colony ColonySample, foodLevels, homeLevels []float64) WindowStats {
	var perAgent float64
	if colony.Agents > 0 {
		perAgent = c.returned / float64(colony.Agents)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Agents:        colony.Agents,
		Foraging:      colony.Foraging,
		Returning:     colony.Returning,
		Carried:       colony.Carried,
		FoodRemaining: colony.FoodRemaining,
		NestReturned:  colony.NestReturned,
		SharedTiles:   colony.SharedTiles,

		Pickups:          c.pickups,
		Found:            c.found,
		Deliveries:       c.deliveries,
		Returned:         c.returned,
		ReturnedPerAgent: perAgent,
		Relocations:      c.relocations,
		Bounces:          c.bounces,
		Deposits:         c.deposits,
		Dropped:          c.dropped,
	}
	stats.setFoodScent(ComputeScentStats(foodLevels))
	stats.setHomeScent(ComputeScentStats(homeLevels))

	// Reset for next window
	c.windowStartTick = currentTick
	c.pickups = 0
	c.found = 0
	c.deliveries = 0
	c.returned = 0
	c.relocations = 0
	c.bounces = 0
	c.deposits = 0
	c.dropped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
