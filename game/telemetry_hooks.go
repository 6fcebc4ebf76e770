package game

import (
	"log/slog"

	"github.com/pthm-cable/hexaco/systems"
	"github.com/pthm-cable/hexaco/telemetry"
)

// recordEvents feeds one tick's events to the collector and the running
// totals.
func (s *Simulation) recordEvents(ev systems.ForageEvents, bounces int) {
	s.pickups += ev.Pickups
	s.deliveries += ev.Deliveries
	s.relocations += ev.Relocations
	s.bounces += bounces
	s.dropped += ev.Dropped

	tick := s.tick
	s.collector.Record(telemetry.NewPickupEvent(tick, ev.Pickups, ev.Found))
	s.collector.Record(telemetry.NewDeliveryEvent(tick, ev.Deliveries, ev.Returned))
	s.collector.Record(telemetry.NewCountEvent(telemetry.EventRelocation, tick, ev.Relocations))
	s.collector.Record(telemetry.NewCountEvent(telemetry.EventBounce, tick, bounces))
	s.collector.Record(telemetry.NewCountEvent(telemetry.EventDeposit, tick, ev.Deposits))
	s.collector.Record(telemetry.NewCountEvent(telemetry.EventDroppedDeposit, tick, ev.Dropped))
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	st := s.Stats()
	colony := telemetry.ColonySample{
		Agents:        st.Agents,
		Foraging:      st.Foraging,
		Returning:     st.Returning,
		Carried:       st.Carrying,
		FoodRemaining: st.FoodRemaining,
		NestReturned:  st.NestReturned,
		SharedTiles:   s.index.Shared(),
	}
	foodLevels := s.field.Levels(s.foodKind, nil)
	s.levelBuf = s.field.Levels(s.homeKind, s.levelBuf)

	stats := s.collector.Flush(s.tick, colony, foodLevels, s.levelBuf)
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
