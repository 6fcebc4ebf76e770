package game

import "log/slog"

// LogValue implements slog.LogValuer for structured logging.
func (st Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(st.Tick)),
		slog.Int("agents", st.Agents),
		slog.Int("foraging", st.Foraging),
		slog.Int("returning", st.Returning),
		slog.Float64("carrying", st.Carrying),
		slog.Float64("found", st.Found),
		slog.Float64("returned", st.Returned),
		slog.Float64("returned_per_agent", st.ReturnedPerAgent()),
		slog.Float64("food_remaining", st.FoodRemaining),
		slog.Int("deliveries", st.Deliveries),
		slog.Int("relocations", st.Relocations),
		slog.Int("bounces", st.Bounces),
		slog.Int("dropped_deposits", st.DroppedDeposits),
	)
}

// LogState logs the current colony summary.
func (s *Simulation) LogState() {
	slog.Info("colony", "seed", s.seed, "stats", s.Stats())
}
