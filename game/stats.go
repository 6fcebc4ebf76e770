package game

import "github.com/pthm-cable/hexaco/components"

// Stats is the colony summary handed to the driver.
type Stats struct {
	Tick int32

	Agents    int
	Foraging  int
	Returning int
	Carrying  float64 // food currently carried by ants

	Found         float64 // all-time food picked up
	Returned      float64 // all-time food delivered, summed over ants
	NestReturned  float64 // all-time food received by the nest
	FoodRemaining float64

	Pickups         int
	Deliveries      int
	Relocations     int
	Bounces         int
	DroppedDeposits int

	FoodScent float64 // summed over every tile
	HomeScent float64
}

// Stats computes the current colony summary.
func (s *Simulation) Stats() Stats {
	st := Stats{
		Tick:            s.tick,
		Pickups:         s.pickups,
		Deliveries:      s.deliveries,
		Relocations:     s.relocations,
		Bounces:         s.bounces,
		DroppedDeposits: s.dropped,
		FoodRemaining:   s.food.Remaining(),
		NestReturned:    s.nestMap.Get(s.nest).Returned,
	}

	query := s.antFilter.Query()
	for query.Next() {
		_, _, fg := query.Get()
		st.Agents++
		if fg.Goal == components.GoalReturning {
			st.Returning++
		} else {
			st.Foraging++
		}
		st.Carrying += fg.Carried
		st.Found += fg.Found
		st.Returned += fg.Returned
	}

	totals := s.field.Totals()
	st.FoodScent = totals[s.foodKind]
	st.HomeScent = totals[s.homeKind]
	return st
}

// ReturnedPerAgent is the food delivered per ant so far.
func (st Stats) ReturnedPerAgent() float64 {
	if st.Agents == 0 {
		return 0
	}
	return st.Returned / float64(st.Agents)
}
